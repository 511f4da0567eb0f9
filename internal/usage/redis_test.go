package usage

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRedisTracker(t *testing.T) (*RedisTracker, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewRedisTracker(client), mr
}

func TestRedisTracker_Increment(t *testing.T) {
	tr, mr := newTestRedisTracker(t)
	tr.now = func() time.Time { return time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC) }
	ctx := context.Background()

	n, err := tr.Increment(ctx, Hunter)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
	n, err = tr.Increment(ctx, Hunter)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	val, err := mr.Get("leadintel:usage:hunter:2026-10")
	require.NoError(t, err)
	assert.Equal(t, "2", val)
	assert.Greater(t, mr.TTL("leadintel:usage:hunter:2026-10"), 30*24*time.Hour)
}

func TestRedisTracker_UsageDefaultsToZero(t *testing.T) {
	tr, _ := newTestRedisTracker(t)
	ctx := context.Background()

	_, err := tr.Increment(ctx, Apollo)
	require.NoError(t, err)

	got, err := tr.Usage(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[string]int64{Hunter: 0, Apollo: 1}, got)
}

func TestRedisTracker_NewMonthStartsFresh(t *testing.T) {
	tr, _ := newTestRedisTracker(t)
	now := time.Date(2026, 10, 31, 0, 0, 0, 0, time.UTC)
	tr.now = func() time.Time { return now }
	ctx := context.Background()

	_, _ = tr.Increment(ctx, Apollo)
	now = now.AddDate(0, 0, 1)

	got, err := tr.Usage(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(0), got[Apollo])
}

func TestNewRedisTrackerFromURL(t *testing.T) {
	mr := miniredis.RunT(t)

	tr, err := NewRedisTrackerFromURL(context.Background(), "redis://"+mr.Addr()+"/0")
	require.NoError(t, err)
	t.Cleanup(func() { tr.Close() })

	_, err = NewRedisTrackerFromURL(context.Background(), "not a url")
	assert.Error(t, err)
}
