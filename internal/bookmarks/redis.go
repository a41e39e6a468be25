package bookmarks

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// bookmarkKey is the versioned storage key shared with the file backend's
// file name. Bump the suffix when the serialized format changes.
const bookmarkKey = "bokjikok:bookmarks:v1"

// RedisStore keeps the serialized id array in Redis, for setups where the
// client's flat cache lives off-host.
type RedisStore struct {
	client *redis.Client
}

func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func (s *RedisStore) Load(ctx context.Context) ([]string, error) {
	data, err := s.client.Get(ctx, bookmarkKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get bookmarks: %w", err)
	}

	var ids []string
	if err := json.Unmarshal(data, &ids); err != nil {
		return nil, nil
	}
	return ids, nil
}

func (s *RedisStore) Save(ctx context.Context, ids []string) error {
	if ids == nil {
		ids = []string{}
	}
	data, err := json.Marshal(ids)
	if err != nil {
		return fmt.Errorf("marshal bookmarks: %w", err)
	}
	if err := s.client.Set(ctx, bookmarkKey, data, 0).Err(); err != nil {
		return fmt.Errorf("set bookmarks: %w", err)
	}
	return nil
}

func (s *RedisStore) Clear(ctx context.Context) error {
	if err := s.client.Del(ctx, bookmarkKey).Err(); err != nil {
		return fmt.Errorf("del bookmarks: %w", err)
	}
	return nil
}
