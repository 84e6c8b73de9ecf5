package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/barekit/voyager/pkg/planner"
	"github.com/redis/go-redis/v9"
)

// RedisHistory implements the history store using Redis.
type RedisHistory struct {
	client *redis.Client
}

// New creates a new RedisHistory.
func New(client *redis.Client) *RedisHistory {
	return &RedisHistory{client: client}
}

func key(destination string) string {
	return fmt.Sprintf("plans:%s", strings.ToLower(destination))
}

// Save appends the plan to the destination's list as JSON.
func (h *RedisHistory) Save(ctx context.Context, plan planner.Plan) error {
	b, err := json.Marshal(plan)
	if err != nil {
		return fmt.Errorf("failed to marshal plan: %w", err)
	}
	return h.client.RPush(ctx, key(plan.Request.Destination), b).Err()
}

// List returns plans for the destination, newest first.
func (h *RedisHistory) List(ctx context.Context, destination string, limit int) ([]planner.Plan, error) {
	items, err := h.client.LRange(ctx, key(destination), 0, -1).Result()
	if err != nil {
		return nil, err
	}

	// Entries were appended in save order; walk backwards for newest first.
	plans := make([]planner.Plan, 0, len(items))
	for i := len(items) - 1; i >= 0; i-- {
		var plan planner.Plan
		if err := json.Unmarshal([]byte(items[i]), &plan); err != nil {
			return nil, fmt.Errorf("failed to unmarshal plan at index %d: %w", i, err)
		}
		plans = append(plans, plan)
		if limit > 0 && len(plans) == limit {
			break
		}
	}

	return plans, nil
}
