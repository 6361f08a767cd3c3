package auth

import (
	"appointment-composite-service/internal/pkg/constvars"
	"crypto/ed25519"
	"encoding/base64"
	"errors"
	"fmt"
	"time"
)

type jwkKey struct {
	Kty string `json:"kty"`
	Crv string `json:"crv"`
	X   string `json:"x"`
	Kid string `json:"kid"`
	Alg string `json:"alg"`
	Use string `json:"use"`
}

type jwksResponse struct {
	Keys []jwkKey `json:"keys"`
}

type publicKey struct {
	kid string
	key ed25519.PublicKey
}

// keySet is an immutable snapshot. A refresh builds a new one and swaps the pointer.
type keySet struct {
	keys      []publicKey
	fetchedAt time.Time
}

var (
	errUnknownKeyID = errors.New("no key matches token kid")
	errNoKeyID      = errors.New("token has no kid and key set holds more than one key")
)

// find selects the key named by kid. A token without kid is only accepted when the
// set holds a single key.
func (s *keySet) find(kid string) (ed25519.PublicKey, error) {
	if kid == "" {
		if len(s.keys) == 1 {
			return s.keys[0].key, nil
		}
		return nil, errNoKeyID
	}
	for _, k := range s.keys {
		if k.kid == kid {
			return k.key, nil
		}
	}
	return nil, errUnknownKeyID
}

// parseKeySet keeps the Ed25519 signing keys and skips everything else.
func parseKeySet(body *jwksResponse, fetchedAt time.Time) (*keySet, error) {
	set := &keySet{fetchedAt: fetchedAt}
	for _, k := range body.Keys {
		if k.Kty != constvars.JWKKeyTypeOKP || k.Crv != constvars.JWKCurveEd25519 {
			continue
		}
		if k.Alg != "" && k.Alg != constvars.JWTSigningAlgorithm {
			continue
		}
		if k.Use != "" && k.Use != "sig" {
			continue
		}
		raw, err := base64.RawURLEncoding.DecodeString(k.X)
		if err != nil {
			return nil, fmt.Errorf("decode key %q: %w", k.Kid, err)
		}
		if len(raw) != ed25519.PublicKeySize {
			return nil, fmt.Errorf("key %q has %d bytes, want %d", k.Kid, len(raw), ed25519.PublicKeySize)
		}
		set.keys = append(set.keys, publicKey{kid: k.Kid, key: ed25519.PublicKey(raw)})
	}
	if len(set.keys) == 0 {
		return nil, errors.New(constvars.ErrDevJWKSNoUsableKey)
	}
	return set, nil
}
