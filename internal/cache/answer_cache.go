package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	redisv9 "github.com/redis/go-redis/v9"

	"askio/internal/model"
)

// AnswerCache stores finished answers in redis under their fingerprint key.
type AnswerCache struct {
	client *redisv9.Client
}

func NewAnswerCache(client *redisv9.Client) *AnswerCache {
	return &AnswerCache{client: client}
}

// Get returns the cached answer for key. A missing key is (nil, false, nil);
// errors are reserved for an unreachable store or a corrupt entry, which
// callers treat as a miss.
func (c *AnswerCache) Get(ctx context.Context, key string) (*model.CachedAnswer, bool, error) {
	raw, err := c.client.Get(ctx, key).Result()
	if err == redisv9.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get answer failed: %w", err)
	}

	var answer model.CachedAnswer
	if err := json.Unmarshal([]byte(raw), &answer); err != nil {
		return nil, false, fmt.Errorf("unmarshal cached answer failed: %w", err)
	}
	return &answer, true, nil
}

func (c *AnswerCache) Set(ctx context.Context, key string, answer model.CachedAnswer, ttl time.Duration) error {
	payload, err := json.Marshal(answer)
	if err != nil {
		return fmt.Errorf("marshal answer cache failed: %w", err)
	}
	if err := c.client.Set(ctx, key, payload, ttl).Err(); err != nil {
		return fmt.Errorf("redis set answer failed: %w", err)
	}
	return nil
}
