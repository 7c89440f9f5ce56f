package cache

import (
	"context"
	"encoding/json"
	"time"
)

const jsonNull = "null"

// GetOrLoadJSON decodes the cached value at key into T, loading it on a miss.
// A nil result from load is stored as "null" and comes back as (nil, nil),
// so misses are cached as well.
func GetOrLoadJSON[T any](c *Cache, ctx context.Context, key string, ttl time.Duration, load func(ctx context.Context) (*T, error)) (*T, error) {
	b, err := c.GetOrLoad(ctx, key, ttl, func(ctx context.Context) ([]byte, error) {
		v, err := load(ctx)
		if err != nil {
			return nil, err
		}
		return json.Marshal(v)
	})
	if err != nil {
		return nil, err
	}
	return decodeJSON[T](b)
}

// SetJSON overwrites key with v. Writers use it to publish the state they
// just committed, which a concurrent GetOrLoad cannot clobber.
func SetJSON[T any](c *Cache, ctx context.Context, key string, v *T, ttl time.Duration) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return c.Set(ctx, key, b, ttl)
}

func decodeJSON[T any](b []byte) (*T, error) {
	if string(b) == jsonNull {
		return nil, nil
	}
	var out T
	if err := json.Unmarshal(b, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
