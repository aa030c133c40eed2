package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/pulsegrid/campaign-pulse/internal/models"
)

// HealthCache caches computed health results in Redis so dashboard renders
// do not recompute every campaign on every poll. Entries are invalidated
// on row ingest and expire on their own regardless.
type HealthCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewHealthCache creates a cache with the given entry TTL.
func NewHealthCache(client *redis.Client, ttl time.Duration) *HealthCache {
	return &HealthCache{client: client, ttl: ttl}
}

func healthKey(campaignName string) string {
	return "health:" + strings.ToLower(strings.TrimSpace(campaignName))
}

// Get returns the cached result for a campaign, or false on miss. Redis
// errors count as misses; the caller recomputes either way.
func (c *HealthCache) Get(ctx context.Context, campaignName string) (models.CampaignHealthResult, bool) {
	var result models.CampaignHealthResult

	data, err := c.client.Get(ctx, healthKey(campaignName)).Bytes()
	if err != nil {
		return result, false
	}
	if err := json.Unmarshal(data, &result); err != nil {
		return result, false
	}
	return result, true
}

// Set stores a computed result.
func (c *HealthCache) Set(ctx context.Context, result models.CampaignHealthResult) error {
	data, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("failed to marshal health result: %w", err)
	}
	if err := c.client.Set(ctx, healthKey(result.CampaignName), data, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to cache health result: %w", err)
	}
	return nil
}

// Invalidate drops cached results for the given campaigns. Called after
// row or contract-terms ingest.
func (c *HealthCache) Invalidate(ctx context.Context, campaignNames ...string) error {
	if len(campaignNames) == 0 {
		return nil
	}
	keys := make([]string, 0, len(campaignNames))
	for _, name := range campaignNames {
		keys = append(keys, healthKey(name))
	}
	return c.client.Del(ctx, keys...).Err()
}
