// Fuze - Semantic Content Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Ujjwaljain16/Fuze-sub001

package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/Ujjwaljain16/Fuze-sub001/internal/breaker"
	"github.com/Ujjwaljain16/Fuze-sub001/internal/metrics"
)

// RedisOptions configures the shared cache tier.
type RedisOptions struct {
	URL             string
	KeyPrefix       string
	DialTimeout     time.Duration
	OpTimeout       time.Duration
	BreakerFailures uint32
	BreakerTimeout  time.Duration
}

// RedisStore is the external (L2) tier. Every call is bounded by OpTimeout
// and runs through a circuit breaker, so a dead Redis costs one timeout per
// breaker window instead of one per request. All failures come back wrapped
// in ErrUnavailable.
type RedisStore struct {
	rdb       *redis.Client
	prefix    string
	opTimeout time.Duration
	cb        *gobreaker.CircuitBreaker[any]
}

// NewRedisStore parses opts.URL and creates a client. It does not dial;
// use Ping to check connectivity at startup.
func NewRedisStore(opts RedisOptions) (*RedisStore, error) {
	ropts, err := redis.ParseURL(opts.URL)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}
	if opts.DialTimeout > 0 {
		ropts.DialTimeout = opts.DialTimeout
	}
	if opts.OpTimeout > 0 {
		ropts.ReadTimeout = opts.OpTimeout
		ropts.WriteTimeout = opts.OpTimeout
	}
	ropts.MaxRetries = 1
	return NewRedisStoreFromClient(redis.NewClient(ropts), opts), nil
}

// NewRedisStoreFromClient wraps an existing client.
func NewRedisStoreFromClient(rdb *redis.Client, opts RedisOptions) *RedisStore {
	if opts.OpTimeout <= 0 {
		opts.OpTimeout = 250 * time.Millisecond
	}
	return &RedisStore{
		rdb:       rdb,
		prefix:    opts.KeyPrefix,
		opTimeout: opts.OpTimeout,
		cb: breaker.New[any](breaker.Settings{
			Name:                "redis-cache",
			ConsecutiveFailures: opts.BreakerFailures,
			OpenTimeout:         opts.BreakerTimeout,
		}),
	}
}

// Ping checks connectivity.
func (r *RedisStore) Ping(ctx context.Context) error {
	_, err := r.do(ctx, "ping", func(ctx context.Context) (any, error) {
		return nil, r.rdb.Ping(ctx).Err()
	})
	return err
}

// Close releases the connection pool.
func (r *RedisStore) Close() error {
	return r.rdb.Close()
}

// Get implements Store.
func (r *RedisStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	v, err := r.do(ctx, "get", func(ctx context.Context) (any, error) {
		b, err := r.rdb.Get(ctx, r.prefix+key).Bytes()
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return b, err
	})
	if err != nil {
		return nil, false, err
	}
	b, _ := v.([]byte)
	if b == nil {
		return nil, false, nil
	}
	return b, true, nil
}

// Set implements Store.
func (r *RedisStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	_, err := r.do(ctx, "set", func(ctx context.Context) (any, error) {
		return nil, r.rdb.Set(ctx, r.prefix+key, value, ttl).Err()
	})
	return err
}

// Delete implements Store.
func (r *RedisStore) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	full := make([]string, len(keys))
	for i, k := range keys {
		full[i] = r.prefix + k
	}
	_, err := r.do(ctx, "del", func(ctx context.Context) (any, error) {
		return nil, r.rdb.Del(ctx, full...).Err()
	})
	return err
}

// Incr implements Store. The expiry is attached when the counter is created,
// so the window does not slide on later increments.
func (r *RedisStore) Incr(ctx context.Context, key string, ttl time.Duration) (int64, error) {
	v, err := r.do(ctx, "incr", func(ctx context.Context) (any, error) {
		n, err := r.rdb.Incr(ctx, r.prefix+key).Result()
		if err != nil {
			return nil, err
		}
		if n == 1 && ttl > 0 {
			if err := r.rdb.PExpire(ctx, r.prefix+key, ttl).Err(); err != nil {
				return nil, err
			}
		}
		return n, nil
	})
	if err != nil {
		return 0, err
	}
	return v.(int64), nil
}

// Counter implements Store.
func (r *RedisStore) Counter(ctx context.Context, key string) (int64, error) {
	v, err := r.do(ctx, "counter", func(ctx context.Context) (any, error) {
		n, err := r.rdb.Get(ctx, r.prefix+key).Int64()
		if errors.Is(err, redis.Nil) {
			return int64(0), nil
		}
		return n, err
	})
	if err != nil {
		return 0, err
	}
	return v.(int64), nil
}

func (r *RedisStore) do(ctx context.Context, op string, fn func(ctx context.Context) (any, error)) (any, error) {
	ctx, cancel := context.WithTimeout(ctx, r.opTimeout)
	defer cancel()

	v, err := r.cb.Execute(func() (any, error) { return fn(ctx) })
	if err != nil {
		metrics.CacheBackendErrors.WithLabelValues("l2", op).Inc()
		return nil, fmt.Errorf("%w: redis %s: %w", ErrUnavailable, op, err)
	}
	return v, nil
}

var _ Store = (*RedisStore)(nil)
