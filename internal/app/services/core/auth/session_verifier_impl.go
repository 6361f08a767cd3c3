package auth

import (
	"appointment-composite-service/internal/app/contracts"
	"appointment-composite-service/internal/app/models"
	"appointment-composite-service/internal/pkg/constvars"
	"appointment-composite-service/internal/pkg/utils"
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/tidwall/gjson"
	"go.uber.org/zap"
)

// sessionSubjectPaths are tried in order to find the user id in a session body.
var sessionSubjectPaths = []string{"user.id", "session.userId"}

// SessionVerifier asks the auth service to introspect every credential. Positive
// answers are cached when a RedisRepository is configured.
type SessionVerifier struct {
	Log        *zap.Logger
	HTTPClient *http.Client
	SessionUrl string
	Cache      contracts.RedisRepository
	CacheTTL   time.Duration
}

func NewSessionVerifier(sessionUrl string, httpClient *http.Client, cache contracts.RedisRepository, cacheTTL time.Duration, logger *zap.Logger) *SessionVerifier {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 5 * time.Second}
	}
	return &SessionVerifier{
		Log:        logger,
		HTTPClient: httpClient,
		SessionUrl: sessionUrl,
		Cache:      cache,
		CacheTTL:   cacheTTL,
	}
}

func (v *SessionVerifier) Verify(ctx context.Context, credential string) (*models.Identity, error) {
	requestID := utils.GetRequestID(ctx)
	v.Log.Info("SessionVerifier.Verify called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
	)

	if strings.TrimSpace(credential) == "" {
		return nil, fmt.Errorf("%w: empty credential", contracts.ErrInvalidCredential)
	}

	cacheKey := sessionCacheKey(credential)
	if subject := v.cachedSubject(ctx, cacheKey); subject != "" {
		return &models.Identity{SubjectID: subject, Credential: credential}, nil
	}

	req, err := http.NewRequestWithContext(ctx, constvars.MethodGet, v.SessionUrl, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", contracts.ErrInvalidCredential, err)
	}
	req.Header.Set(constvars.HeaderAuthorization, constvars.AuthorizationBearerPrefix+credential)
	req.Header.Set(constvars.HeaderAccept, constvars.MIMEApplicationJSON)
	if requestID != "" {
		req.Header.Set(constvars.HeaderXRequestID, requestID)
	}

	resp, err := v.HTTPClient.Do(req)
	if err != nil {
		v.Log.Error("SessionVerifier.Verify error sending HTTP request",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return nil, fmt.Errorf("%w: %v", contracts.ErrInvalidCredential, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != constvars.StatusOK {
		v.Log.Info("SessionVerifier.Verify session rejected",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Int(constvars.LoggingStatusCodeKey, resp.StatusCode),
		)
		return nil, fmt.Errorf("%w: auth service responded with status %d", contracts.ErrInvalidCredential, resp.StatusCode)
	}

	subject, claims, err := decodeSession(resp.Body)
	if err != nil {
		v.Log.Info("SessionVerifier.Verify unusable session body",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return nil, fmt.Errorf("%w: %v", contracts.ErrInvalidCredential, err)
	}

	v.cacheSubject(ctx, cacheKey, subject)

	v.Log.Info("SessionVerifier.Verify succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingSubjectIDKey, subject),
	)
	return &models.Identity{
		SubjectID:  subject,
		Claims:     claims,
		Credential: credential,
	}, nil
}

func decodeSession(body io.Reader) (string, map[string]interface{}, error) {
	raw, err := io.ReadAll(body)
	if err != nil {
		return "", nil, err
	}
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return "", nil, errors.New("no active session")
	}
	if !gjson.ValidBytes(raw) {
		return "", nil, errors.New("session body is not valid JSON")
	}

	session := gjson.ParseBytes(raw)
	if !session.IsObject() {
		return "", nil, errors.New("session body is not an object")
	}
	claims, _ := session.Value().(map[string]interface{})

	for _, path := range sessionSubjectPaths {
		if subject := session.Get(path); subject.Type == gjson.String && subject.Str != "" {
			return subject.Str, claims, nil
		}
	}
	return "", nil, errors.New("session has no user id")
}

// cachedSubject treats any cache failure as a miss.
func (v *SessionVerifier) cachedSubject(ctx context.Context, key string) string {
	if v.Cache == nil {
		return ""
	}
	raw, err := v.Cache.Get(ctx, key)
	if err != nil {
		v.Log.Warn("SessionVerifier.cachedSubject cache lookup failed",
			zap.String(constvars.LoggingRequestIDKey, utils.GetRequestID(ctx)),
			zap.Error(err),
		)
		return ""
	}
	if raw == "" {
		return ""
	}
	var subject string
	if err := json.Unmarshal([]byte(raw), &subject); err != nil || subject == "" {
		v.Log.Warn("SessionVerifier.cachedSubject dropping unreadable cache entry",
			zap.String(constvars.LoggingRequestIDKey, utils.GetRequestID(ctx)),
		)
		if err := v.Cache.Delete(ctx, key); err != nil {
			v.Log.Warn("SessionVerifier.cachedSubject cache delete failed",
				zap.String(constvars.LoggingRequestIDKey, utils.GetRequestID(ctx)),
				zap.Error(err),
			)
		}
		return ""
	}
	return subject
}

func (v *SessionVerifier) cacheSubject(ctx context.Context, key, subject string) {
	if v.Cache == nil || v.CacheTTL <= 0 {
		return
	}
	if err := v.Cache.Set(ctx, key, subject, v.CacheTTL); err != nil {
		v.Log.Warn("SessionVerifier.cacheSubject cache write failed",
			zap.String(constvars.LoggingRequestIDKey, utils.GetRequestID(ctx)),
			zap.Error(err),
		)
	}
}

// The raw token never reaches redis.
func sessionCacheKey(credential string) string {
	sum := sha256.Sum256([]byte(credential))
	return constvars.SessionCacheKeyPrefix + hex.EncodeToString(sum[:])
}
