package redisstore

import (
	"context"
	"errors"

	"github.com/redis/go-redis/v9"
)

// KV keeps every persisted key as a plain redis string under a shared prefix.
type KV struct {
	rdb    *redis.Client
	prefix string
}

func New(cfg Config) *KV {
	return &KV{rdb: newClient(cfg), prefix: cfg.Prefix}
}

func NewFromClient(rdb *redis.Client, prefix string) *KV {
	return &KV{rdb: rdb, prefix: prefix}
}

func (r *KV) key(k string) string {
	return r.prefix + k
}

func (r *KV) Get(ctx context.Context, key string) (string, bool, error) {
	v, err := r.rdb.Get(ctx, r.key(key)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", false, nil
		}
		return "", false, err
	}
	return v, true, nil
}

func (r *KV) Set(ctx context.Context, key, value string) error {
	return r.rdb.Set(ctx, r.key(key), value, 0).Err()
}

func (r *KV) Remove(ctx context.Context, key string) error {
	return r.rdb.Del(ctx, r.key(key)).Err()
}
