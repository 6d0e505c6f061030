package cache

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisBackend keeps entries as plain keys and the dependency index as one
// Redis set per tag.  Index sets may outlive their entries; stale members
// are harmless because deleting a missing key is a no-op.
type RedisBackend struct {
	rdb    *redis.Client
	prefix string
}

// NewRedisBackend binds a RedisBackend to a client and key prefix.
func NewRedisBackend(rdb *redis.Client, prefix string) *RedisBackend {
	if prefix == "" {
		prefix = "tc"
	}
	return &RedisBackend{rdb: rdb, prefix: prefix}
}

func (b *RedisBackend) entryKey(key string) string { return b.prefix + ":e:" + key }
func (b *RedisBackend) tagKey(t Tag) string        { return b.prefix + ":t:" + t.String() }

func (b *RedisBackend) Get(ctx context.Context, key string) ([]byte, bool, error) {
	body, err := b.rdb.Get(ctx, b.entryKey(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return body, true, nil
}

func (b *RedisBackend) Set(ctx context.Context, key string, body []byte, tags []Tag, ttl time.Duration) error {
	ek := b.entryKey(key)
	_, err := b.rdb.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.Set(ctx, ek, body, ttl)
		for _, t := range tags {
			tk := b.tagKey(t)
			p.SAdd(ctx, tk, ek)
			if ttl > 0 {
				// keep the index around at least as long as the entry
				p.Expire(ctx, tk, 2*ttl)
			}
		}
		return nil
	})
	return err
}

func (b *RedisBackend) Invalidate(ctx context.Context, tags []Tag) (int, error) {
	var keys []string
	tagKeys := make([]string, 0, len(tags))
	for _, t := range tags {
		tk := b.tagKey(t)
		tagKeys = append(tagKeys, tk)
		members, err := b.rdb.SMembers(ctx, tk).Result()
		if err != nil {
			return 0, err
		}
		keys = append(keys, members...)
	}
	removed := int64(0)
	if len(keys) > 0 {
		n, err := b.rdb.Del(ctx, keys...).Result()
		if err != nil {
			return 0, err
		}
		removed = n
	}
	if err := b.rdb.Del(ctx, tagKeys...).Err(); err != nil {
		return int(removed), err
	}
	return int(removed), nil
}
