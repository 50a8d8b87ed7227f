package kvstore

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRedisStore(t *testing.T) *RedisStore {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewRedisStoreWithClient(client)
}

func TestRedisStoreRoundTrip(t *testing.T) {
	store := newTestRedisStore(t)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "doctor_7_booking_id", "42", 0))

	val, err := store.Get(ctx, "doctor_7_booking_id")
	require.NoError(t, err)
	assert.Equal(t, "42", val)

	_, err = store.Get(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, store.Delete(ctx, "doctor_7_booking_id"))
	_, err = store.Get(ctx, "doctor_7_booking_id")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRedisStoreScanPrefix(t *testing.T) {
	store := newTestRedisStore(t)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "doctor_7_booking_id", "42", 0))
	require.NoError(t, store.Set(ctx, "doctor_9_booking_id", "55", 0))
	require.NoError(t, store.Set(ctx, "current_booking_id", "42", 0))

	got, err := store.ScanPrefix(ctx, "doctor_")
	require.NoError(t, err)
	assert.Equal(t, map[string]string{
		"doctor_7_booking_id": "42",
		"doctor_9_booking_id": "55",
	}, got)
}

func TestMemoryStoreTTL(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "current_booking_id", "42", time.Nanosecond))
	time.Sleep(5 * time.Millisecond)

	_, err := store.Get(ctx, "current_booking_id")
	assert.ErrorIs(t, err, ErrNotFound)

	scanned, err := store.ScanPrefix(ctx, "")
	require.NoError(t, err)
	assert.Empty(t, scanned)
}

func TestMemoryStoreScanPrefix(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "booking_42_info", `{"doctorId":7}`, 0))
	require.NoError(t, store.Set(ctx, "review_submitted_42", "true", 0))

	got, err := store.ScanPrefix(ctx, "booking_")
	require.NoError(t, err)
	assert.Len(t, got, 1)
	assert.Contains(t, got, "booking_42_info")
}
