package idempotency

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Overland-East-Bay/newsletter-api/internal/adapters/contracttest"
	idempotencyport "github.com/Overland-East-Bay/newsletter-api/internal/ports/out/idempotency"
)

func setupTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() {
		client.Close()
		mr.Close()
	})
	return mr, client
}

func TestContract_RedisIdempotencyStore(t *testing.T) {
	_, client := setupTestRedis(t)

	contracttest.RunIdempotencyStore(t, func(t *testing.T) (idempotencyport.Store, func()) {
		t.Helper()
		return NewStore(client, time.Hour), nil
	})
}

func TestStore_RecordExpiresWithTTL(t *testing.T) {
	mr, client := setupTestRedis(t)
	s := NewStore(client, 10*time.Minute)
	ctx := context.Background()

	fp := idempotencyport.Fingerprint{Key: "k1", Method: "POST", Route: "/subscriptions", BodyHash: "h"}
	require.NoError(t, s.Put(ctx, fp, idempotencyport.Record{StatusCode: 200, Body: []byte{}}))

	rec, ok, err := s.Get(ctx, fp)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 200, rec.StatusCode)

	mr.FastForward(11 * time.Minute)

	_, ok, err = s.Get(ctx, fp)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestStore_KeysAreNamespacedAndHashed(t *testing.T) {
	mr, client := setupTestRedis(t)
	s := NewStore(client, 0)

	fp := idempotencyport.Fingerprint{Key: "raw key with spaces", Method: "POST", Route: "/subscriptions"}
	require.NoError(t, s.Put(context.Background(), fp, idempotencyport.Record{StatusCode: 0, Body: []byte("hash")}))

	keys := mr.Keys()
	require.Len(t, keys, 1)
	assert.Contains(t, keys[0], defaultKeyPrefix)
	assert.NotContains(t, keys[0], "raw key")
	assert.Equal(t, time.Duration(0), mr.TTL(keys[0]))
}

func TestStore_BackendFailureIsReturned(t *testing.T) {
	mr, client := setupTestRedis(t)
	s := NewStore(client, time.Minute)
	mr.SetError("ERR simulated outage")

	fp := idempotencyport.Fingerprint{Key: "k1", Method: "POST", Route: "/subscriptions"}
	_, _, err := s.Get(context.Background(), fp)
	assert.Error(t, err)
	assert.Error(t, s.Put(context.Background(), fp, idempotencyport.Record{}))
}
