package credstore

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/redis/go-redis/v9"
)

// RedisBackend stores records as JSON strings under <prefix>:<slot>.
type RedisBackend struct {
	client *redis.Client
	prefix string
}

// NewRedisBackend wraps an existing client.
func NewRedisBackend(client *redis.Client, prefix string) *RedisBackend {
	return &RedisBackend{client: client, prefix: prefix}
}

func (b *RedisBackend) key(slot Slot) string {
	return b.prefix + ":" + string(slot)
}

func (b *RedisBackend) Load(ctx context.Context, slot Slot) (Record, error) {
	data, err := b.client.Get(ctx, b.key(slot)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return Record{}, ErrNotFound
		}
		return Record{}, err
	}

	var rec Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return Record{}, err
	}
	return rec, nil
}

func (b *RedisBackend) Store(ctx context.Context, slot Slot, rec Record) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	return b.client.Set(ctx, b.key(slot), data, 0).Err()
}

func (b *RedisBackend) Delete(ctx context.Context, slot Slot) error {
	return b.client.Del(ctx, b.key(slot)).Err()
}
