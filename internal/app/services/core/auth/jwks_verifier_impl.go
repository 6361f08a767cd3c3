package auth

import (
	"appointment-composite-service/internal/app/contracts"
	"appointment-composite-service/internal/app/models"
	"appointment-composite-service/internal/pkg/constvars"
	"appointment-composite-service/internal/pkg/utils"
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync/atomic"
	"time"

	"github.com/goccy/go-json"
	"github.com/golang-jwt/jwt/v4"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
	"golang.org/x/time/rate"
)

const jwksRefreshKey = "jwks"

type JWKSVerifierConfig struct {
	JWKSUrl  string
	Issuer   string
	Audience string
	// CacheTTL bounds how long a key set is used before it is re-fetched.
	CacheTTL time.Duration
	// MinRefreshInterval throttles re-fetches triggered by unknown key ids.
	MinRefreshInterval time.Duration
	FetchTimeout       time.Duration
}

// JWKSVerifier verifies EdDSA tokens locally against the auth service key set.
// It is safe for concurrent use and is meant to be built once and shared.
type JWKSVerifier struct {
	Log        *zap.Logger
	HTTPClient *http.Client
	config     JWKSVerifierConfig
	parser     *jwt.Parser
	now        func() time.Time

	current        atomic.Pointer[keySet]
	refreshGroup   singleflight.Group
	refreshLimiter *rate.Limiter

	// lastFailedRefresh is the unix nano time of the last failed TTL refresh.
	lastFailedRefresh atomic.Int64
}

func NewJWKSVerifier(cfg JWKSVerifierConfig, httpClient *http.Client, logger *zap.Logger) *JWKSVerifier {
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = time.Hour
	}
	if cfg.MinRefreshInterval <= 0 {
		cfg.MinRefreshInterval = 30 * time.Second
	}
	if cfg.FetchTimeout <= 0 {
		cfg.FetchTimeout = 5 * time.Second
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.FetchTimeout}
	}
	return &JWKSVerifier{
		Log:            logger,
		HTTPClient:     httpClient,
		config:         cfg,
		parser:         jwt.NewParser(jwt.WithValidMethods([]string{constvars.JWTSigningAlgorithm})),
		now:            time.Now,
		refreshLimiter: rate.NewLimiter(rate.Every(cfg.MinRefreshInterval), 1),
	}
}

func (v *JWKSVerifier) Verify(ctx context.Context, credential string) (*models.Identity, error) {
	requestID := utils.GetRequestID(ctx)
	if strings.TrimSpace(credential) == "" {
		return nil, fmt.Errorf("%w: empty credential", contracts.ErrInvalidCredential)
	}

	claims := jwt.MapClaims{}
	token, err := v.parser.ParseWithClaims(credential, claims, func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != constvars.JWTSigningAlgorithm {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		kid, _ := t.Header["kid"].(string)
		return v.lookupKey(ctx, kid)
	})
	if err != nil || !token.Valid {
		v.Log.Info("JWKSVerifier.Verify token rejected",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return nil, fmt.Errorf("%w: %v", contracts.ErrInvalidCredential, err)
	}

	if err := v.validateClaims(claims); err != nil {
		v.Log.Info("JWKSVerifier.Verify claims rejected",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return nil, fmt.Errorf("%w: %v", contracts.ErrInvalidCredential, err)
	}

	subject, _ := claims["sub"].(string)
	return &models.Identity{
		SubjectID:  subject,
		Claims:     claims,
		Credential: credential,
	}, nil
}

// validateClaims checks what jwt.MapClaims.Valid leaves optional: exp must be
// present, and iss, aud and sub must match.
func (v *JWKSVerifier) validateClaims(claims jwt.MapClaims) error {
	if !claims.VerifyExpiresAt(v.now().Unix(), true) {
		return errors.New("token has no valid exp")
	}
	if !claims.VerifyIssuer(v.config.Issuer, true) {
		return fmt.Errorf("unexpected issuer %v", claims["iss"])
	}
	if !claims.VerifyAudience(v.config.Audience, true) {
		return fmt.Errorf("unexpected audience %v", claims["aud"])
	}
	if subject, _ := claims["sub"].(string); subject == "" {
		return errors.New("token has no subject")
	}
	return nil
}

func (v *JWKSVerifier) lookupKey(ctx context.Context, kid string) (interface{}, error) {
	set, err := v.keySet(ctx)
	if err != nil {
		return nil, err
	}

	key, err := set.find(kid)
	if err == nil {
		return key, nil
	}
	if !errors.Is(err, errUnknownKeyID) {
		return nil, err
	}

	// The key may have been rotated since the last fetch.
	if !v.refreshLimiter.Allow() {
		return nil, err
	}
	v.Log.Info("JWKSVerifier.lookupKey unknown kid, refreshing key set",
		zap.String(constvars.LoggingRequestIDKey, utils.GetRequestID(ctx)),
		zap.String(constvars.LoggingKeyIDKey, kid),
	)
	set, err = v.refresh(ctx)
	if err != nil {
		return nil, err
	}
	return set.find(kid)
}

// keySet returns the cached snapshot, refreshing it when missing or older than
// CacheTTL. A failed refresh falls back to the previous snapshot, and no other
// refresh is attempted for MinRefreshInterval.
func (v *JWKSVerifier) keySet(ctx context.Context) (*keySet, error) {
	current := v.current.Load()
	if current != nil {
		now := v.now()
		if now.Sub(current.fetchedAt) < v.config.CacheTTL {
			return current, nil
		}
		if failedAt := v.lastFailedRefresh.Load(); failedAt != 0 && now.Sub(time.Unix(0, failedAt)) < v.config.MinRefreshInterval {
			return current, nil
		}
	}

	fresh, err := v.refresh(ctx)
	if err != nil {
		if current != nil {
			if ctx.Err() == nil {
				v.lastFailedRefresh.Store(v.now().UnixNano())
			}
			v.Log.Warn("JWKSVerifier.keySet refresh failed, using stale key set",
				zap.String(constvars.LoggingRequestIDKey, utils.GetRequestID(ctx)),
				zap.Error(err),
			)
			return current, nil
		}
		return nil, err
	}
	return fresh, nil
}

// Prefetch loads the key set eagerly. Verify works without it.
func (v *JWKSVerifier) Prefetch(ctx context.Context) error {
	_, err := v.refresh(ctx)
	return err
}

// refresh fetches the key set once for all concurrent callers and swaps it in.
// The fetch is bounded by FetchTimeout and finishes even when every caller has
// stopped waiting on its own ctx.
func (v *JWKSVerifier) refresh(ctx context.Context) (*keySet, error) {
	result := v.refreshGroup.DoChan(jwksRefreshKey, func() (interface{}, error) {
		fetchCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), v.config.FetchTimeout)
		defer cancel()

		set, err := v.fetch(fetchCtx)
		if err != nil {
			return nil, err
		}
		v.current.Store(set)
		return set, nil
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-result:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*keySet), nil
	}
}

func (v *JWKSVerifier) fetch(ctx context.Context) (*keySet, error) {
	requestID := utils.GetRequestID(ctx)
	v.Log.Info("JWKSVerifier.fetch called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingUrlKey, v.config.JWKSUrl),
	)

	req, err := http.NewRequestWithContext(ctx, constvars.MethodGet, v.config.JWKSUrl, nil)
	if err != nil {
		return nil, fmt.Errorf(constvars.ErrDevJWKSFetch+": %w", v.config.JWKSUrl, err)
	}
	req.Header.Set(constvars.HeaderAccept, constvars.MIMEApplicationJSON)

	resp, err := v.HTTPClient.Do(req)
	if err != nil {
		v.Log.Error("JWKSVerifier.fetch error sending HTTP request",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return nil, fmt.Errorf(constvars.ErrDevJWKSFetch+": %w", v.config.JWKSUrl, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != constvars.StatusOK {
		v.Log.Error("JWKSVerifier.fetch unexpected status",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Int(constvars.LoggingStatusCodeKey, resp.StatusCode),
		)
		return nil, fmt.Errorf(constvars.ErrDevJWKSFetch+": status %d", v.config.JWKSUrl, resp.StatusCode)
	}

	var body jwksResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf(constvars.ErrDevJWKSDecode+": %w", err)
	}

	set, err := parseKeySet(&body, v.now())
	if err != nil {
		v.Log.Error("JWKSVerifier.fetch unusable key set",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return nil, err
	}

	v.Log.Info("JWKSVerifier.fetch succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.Int(constvars.LoggingKeyCountKey, len(set.keys)),
	)
	return set, nil
}
