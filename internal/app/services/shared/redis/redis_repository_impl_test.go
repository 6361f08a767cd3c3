package redis

import (
	"appointment-composite-service/internal/pkg/exceptions"
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRepository(t *testing.T) (*miniredis.Miniredis, *redisRepository) {
	t.Helper()
	server := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: server.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return server, &redisRepository{client: client}
}

func TestRedisRepository_SetStoresJSONWithExpiry(t *testing.T) {
	server, repo := newTestRepository(t)
	ctx := context.Background()

	err := repo.Set(ctx, "session:abc", "user-1", time.Minute)
	require.NoError(t, err)

	raw, err := server.Get("session:abc")
	require.NoError(t, err)
	assert.Equal(t, `"user-1"`, raw)
	assert.Equal(t, time.Minute, server.TTL("session:abc"))

	got, err := repo.Get(ctx, "session:abc")
	require.NoError(t, err)
	assert.Equal(t, `"user-1"`, got)

	server.FastForward(2 * time.Minute)
	got, err = repo.Get(ctx, "session:abc")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestRedisRepository_GetMissingKey(t *testing.T) {
	_, repo := newTestRepository(t)

	got, err := repo.Get(context.Background(), "missing")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestRedisRepository_Delete(t *testing.T) {
	server, repo := newTestRepository(t)
	require.NoError(t, server.Set("session:abc", "x"))

	require.NoError(t, repo.Delete(context.Background(), "session:abc"))
	assert.False(t, server.Exists("session:abc"))
}

func TestRedisRepository_SetUnmarshalableValue(t *testing.T) {
	_, repo := newTestRepository(t)

	err := repo.Set(context.Background(), "bad", make(chan int), time.Minute)
	require.Error(t, err)
	assert.Equal(t, http.StatusInternalServerError, exceptions.StatusCodeOf(err))
}

func TestRedisRepository_ServerDown(t *testing.T) {
	server, repo := newTestRepository(t)
	server.Close()
	ctx := context.Background()

	_, err := repo.Get(ctx, "k")
	assert.Error(t, err)
	assert.Error(t, repo.Set(ctx, "k", "v", time.Minute))
	assert.Error(t, repo.Delete(ctx, "k"))
}
