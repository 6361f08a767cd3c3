package auth

import (
	"appointment-composite-service/internal/app/contracts"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeRedisRepository struct {
	mu      sync.Mutex
	data    map[string]string
	getErr  error
	setErr  error
	sets    int
	deletes int
}

func newFakeRedisRepository() *fakeRedisRepository {
	return &fakeRedisRepository{data: map[string]string{}}
}

func (f *fakeRedisRepository) Delete(ctx context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deletes++
	delete(f.data, key)
	return nil
}

func (f *fakeRedisRepository) Set(ctx context.Context, key string, value interface{}, exp time.Duration) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sets++
	if f.setErr != nil {
		return f.setErr
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	f.data[key] = string(raw)
	return nil
}

func (f *fakeRedisRepository) Get(ctx context.Context, key string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getErr != nil {
		return "", f.getErr
	}
	return f.data[key], nil
}

func newSessionServer(t *testing.T, status int, body string) (*httptest.Server, *atomic.Int32) {
	calls := &atomic.Int32{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		assert.Equal(t, "Bearer session-token", r.Header.Get("Authorization"))
		w.WriteHeader(status)
		w.Write([]byte(body))
	}))
	t.Cleanup(server.Close)
	return server, calls
}

func TestSessionVerifier_Verify(t *testing.T) {
	testCases := []struct {
		name        string
		status      int
		body        string
		wantSubject string
		wantErr     bool
	}{
		{name: "Active session", status: http.StatusOK, body: `{"user":{"id":"user-1"},"session":{"userId":"user-1"}}`, wantSubject: "user-1"},
		{name: "Subject from session only", status: http.StatusOK, body: `{"session":{"userId":"user-2"}}`, wantSubject: "user-2"},
		{name: "Null body", status: http.StatusOK, body: `null`, wantErr: true},
		{name: "Empty body", status: http.StatusOK, body: ``, wantErr: true},
		{name: "No user id", status: http.StatusOK, body: `{"user":{}}`, wantErr: true},
		{name: "Not JSON", status: http.StatusOK, body: `<html>`, wantErr: true},
		{name: "Array body", status: http.StatusOK, body: `[{"user":{"id":"user-1"}}]`, wantErr: true},
		{name: "Numeric user id", status: http.StatusOK, body: `{"user":{"id":42}}`, wantErr: true},
		{name: "Unauthorized", status: http.StatusUnauthorized, body: `{"error":"unauthorized"}`, wantErr: true},
		{name: "Auth service error", status: http.StatusInternalServerError, body: ``, wantErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			server, calls := newSessionServer(t, tc.status, tc.body)
			verifier := NewSessionVerifier(server.URL, nil, nil, 0, zap.NewNop())

			identity, err := verifier.Verify(context.Background(), "session-token")

			assert.Equal(t, int32(1), calls.Load())
			if tc.wantErr {
				assert.ErrorIs(t, err, contracts.ErrInvalidCredential)
				assert.Nil(t, identity)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.wantSubject, identity.SubjectID)
			assert.Equal(t, "session-token", identity.Credential)
		})
	}
}

func TestSessionVerifier_TransportError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	verifier := NewSessionVerifier(url, nil, nil, 0, zap.NewNop())
	_, err := verifier.Verify(context.Background(), "session-token")

	assert.ErrorIs(t, err, contracts.ErrInvalidCredential)
}

func TestSessionVerifier_Cache(t *testing.T) {
	t.Run("Positive result is cached", func(t *testing.T) {
		server, calls := newSessionServer(t, http.StatusOK, `{"user":{"id":"user-1"}}`)
		cache := newFakeRedisRepository()
		verifier := NewSessionVerifier(server.URL, nil, cache, time.Minute, zap.NewNop())

		for i := 0; i < 3; i++ {
			identity, err := verifier.Verify(context.Background(), "session-token")
			require.NoError(t, err)
			assert.Equal(t, "user-1", identity.SubjectID)
		}

		assert.Equal(t, int32(1), calls.Load())
		for key := range cache.data {
			assert.NotContains(t, key, "session-token", "raw token must not be used as cache key")
			assert.Contains(t, key, "composite:session:")
		}
	})

	t.Run("Rejection is not cached", func(t *testing.T) {
		server, calls := newSessionServer(t, http.StatusUnauthorized, ``)
		cache := newFakeRedisRepository()
		verifier := NewSessionVerifier(server.URL, nil, cache, time.Minute, zap.NewNop())

		for i := 0; i < 2; i++ {
			_, err := verifier.Verify(context.Background(), "session-token")
			assert.Error(t, err)
		}

		assert.Equal(t, int32(2), calls.Load())
		assert.Zero(t, cache.sets)
	})

	t.Run("Cache failure falls back to the auth service", func(t *testing.T) {
		server, calls := newSessionServer(t, http.StatusOK, `{"user":{"id":"user-1"}}`)
		cache := newFakeRedisRepository()
		cache.getErr = errors.New("connection refused")
		cache.setErr = errors.New("connection refused")
		verifier := NewSessionVerifier(server.URL, nil, cache, time.Minute, zap.NewNop())

		identity, err := verifier.Verify(context.Background(), "session-token")

		require.NoError(t, err)
		assert.Equal(t, "user-1", identity.SubjectID)
		assert.Equal(t, int32(1), calls.Load())
	})

	t.Run("Unreadable entry is dropped", func(t *testing.T) {
		server, calls := newSessionServer(t, http.StatusOK, `{"user":{"id":"user-1"}}`)
		cache := newFakeRedisRepository()
		key := sessionCacheKey("session-token")
		cache.data[key] = "not-json"
		verifier := NewSessionVerifier(server.URL, nil, cache, 0, zap.NewNop())

		identity, err := verifier.Verify(context.Background(), "session-token")

		require.NoError(t, err)
		assert.Equal(t, "user-1", identity.SubjectID)
		assert.Equal(t, int32(1), calls.Load())
		assert.Equal(t, 1, cache.deletes)
		assert.NotContains(t, cache.data, key)
	})
}
