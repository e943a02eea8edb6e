package repository

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// CaseCounter issues the per-guild monotonic case number.
type CaseCounter interface {
	Next(ctx context.Context, guildID string) (int64, error)
}

type redisCaseCounter struct {
	client *redis.Client
}

// NewCaseCounter builds a counter backed by Redis INCR, which is atomic per key.
func NewCaseCounter(client *redis.Client) CaseCounter {
	return &redisCaseCounter{client: client}
}

func (c *redisCaseCounter) Next(ctx context.Context, guildID string) (int64, error) {
	key := fmt.Sprintf("case_counter:%s", guildID)
	n, err := c.client.Incr(ctx, key).Result()
	if err != nil {
		return 0, fmt.Errorf("next case number for guild %s: %w", guildID, err)
	}
	return n, nil
}
