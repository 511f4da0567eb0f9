package usage

import (
	"context"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rotisserie/eris"
)

const keyPrefix = "leadintel:usage:"

// counterTTL outlives the month so a counter is never dropped mid-period.
const counterTTL = 40 * 24 * time.Hour

// RedisTracker keeps counters in Redis so several processes share quotas.
// Each month gets its own key, which is how counters reset.
type RedisTracker struct {
	client    redis.UniversalClient
	providers []string
	now       func() time.Time
}

// NewRedisTracker creates a tracker over client. providers lists the names
// reported by Usage even before their first call.
func NewRedisTracker(client redis.UniversalClient, providers ...string) *RedisTracker {
	if len(providers) == 0 {
		providers = []string{Hunter, Apollo}
	}
	return &RedisTracker{client: client, providers: providers, now: time.Now}
}

// NewRedisTrackerFromURL parses a redis:// URL and pings the server.
func NewRedisTrackerFromURL(ctx context.Context, url string) (*RedisTracker, error) {
	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, eris.Wrap(err, "usage: parse redis url")
	}
	client := redis.NewClient(opt)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close() //nolint:errcheck
		return nil, eris.Wrap(err, "usage: ping redis")
	}
	return NewRedisTracker(client), nil
}

func (r *RedisTracker) key(provider string) string {
	return keyPrefix + provider + ":" + Period(r.now())
}

// Increment implements Tracker.
func (r *RedisTracker) Increment(ctx context.Context, provider string) (int64, error) {
	key := r.key(provider)
	pipe := r.client.TxPipeline()
	incr := pipe.Incr(ctx, key)
	pipe.Expire(ctx, key, counterTTL)
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, eris.Wrapf(err, "usage: increment %s", provider)
	}
	return incr.Val(), nil
}

// Usage implements Tracker.
func (r *RedisTracker) Usage(ctx context.Context) (map[string]int64, error) {
	keys := make([]string, len(r.providers))
	for i, p := range r.providers {
		keys[i] = r.key(p)
	}

	vals, err := r.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, eris.Wrap(err, "usage: read counters")
	}

	out := make(map[string]int64, len(r.providers))
	for i, p := range r.providers {
		out[p] = 0
		s, ok := vals[i].(string)
		if !ok {
			continue
		}
		n, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return nil, eris.Wrapf(err, "usage: parse counter %s", p)
		}
		out[p] = n
	}
	return out, nil
}

// Close releases the Redis connection.
func (r *RedisTracker) Close() error {
	return r.client.Close()
}
