package cache

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/dealernetworks/opsboard-backend/internal/config"
	"github.com/dealernetworks/opsboard-backend/internal/domain"
	"github.com/redis/go-redis/v9"
)

const (
	outlookKeyPrefix     = "outlook:rows"
	gapKeyPrefix         = "outlook:gaps"
	outlookScanBatchSize = 100
)

// OutlookCache shields the query API from recomputation latency. Entries are
// invalidated wholesale after every recompute pass; a missing or failing
// cache is never an error.
type OutlookCache interface {
	GetOutlook(ctx context.Context, filter domain.OutlookFilter) ([]domain.DealerModelOutlook, bool, error)
	SetOutlook(ctx context.Context, filter domain.OutlookFilter, rows []domain.DealerModelOutlook) error
	GetGaps(ctx context.Context, tier string, fallbackAllModels bool) ([]domain.TierGapRow, bool, error)
	SetGaps(ctx context.Context, tier string, fallbackAllModels bool, rows []domain.TierGapRow) error
	InvalidateAll(ctx context.Context) error
}

type redisOutlookCache struct {
	client *redis.Client
	ttl    time.Duration
}

type noopOutlookCache struct{}

// NewOutlookCache returns the redis-backed cache, or a noop when caching is
// disabled.
func NewOutlookCache(cfg config.CacheConfig) (OutlookCache, error) {
	if !cfg.Enabled {
		return &noopOutlookCache{}, nil
	}

	client, ttl, err := newRedisClient(cfg)
	if err != nil {
		return nil, err
	}

	return &redisOutlookCache{client: client, ttl: ttl}, nil
}

// NewNoopOutlookCache returns a cache that stores nothing.
func NewNoopOutlookCache() OutlookCache {
	return &noopOutlookCache{}
}

func (c *redisOutlookCache) GetOutlook(ctx context.Context, filter domain.OutlookFilter) ([]domain.DealerModelOutlook, bool, error) {
	var rows []domain.DealerModelOutlook
	ok, err := c.get(ctx, outlookKey(filter), &rows)
	return rows, ok, err
}

func (c *redisOutlookCache) SetOutlook(ctx context.Context, filter domain.OutlookFilter, rows []domain.DealerModelOutlook) error {
	return c.set(ctx, outlookKey(filter), rows)
}

func (c *redisOutlookCache) GetGaps(ctx context.Context, tier string, fallbackAllModels bool) ([]domain.TierGapRow, bool, error) {
	var rows []domain.TierGapRow
	ok, err := c.get(ctx, gapKey(tier, fallbackAllModels), &rows)
	return rows, ok, err
}

func (c *redisOutlookCache) SetGaps(ctx context.Context, tier string, fallbackAllModels bool, rows []domain.TierGapRow) error {
	return c.set(ctx, gapKey(tier, fallbackAllModels), rows)
}

func (c *redisOutlookCache) InvalidateAll(ctx context.Context) error {
	if err := deleteKeysWithPrefix(ctx, c.client, outlookKeyPrefix, outlookScanBatchSize); err != nil {
		return err
	}
	return deleteKeysWithPrefix(ctx, c.client, gapKeyPrefix, outlookScanBatchSize)
}

func (c *redisOutlookCache) get(ctx context.Context, key string, dest any) (bool, error) {
	payload, err := c.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("redis get failed: %w", err)
	}
	if err := json.Unmarshal(payload, dest); err != nil {
		return false, fmt.Errorf("decode outlook cache entry: %w", err)
	}
	return true, nil
}

func (c *redisOutlookCache) set(ctx context.Context, key string, value any) error {
	payload, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode outlook cache entry: %w", err)
	}
	if err := c.client.Set(ctx, key, payload, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

func (n *noopOutlookCache) GetOutlook(ctx context.Context, filter domain.OutlookFilter) ([]domain.DealerModelOutlook, bool, error) {
	return nil, false, nil
}

func (n *noopOutlookCache) SetOutlook(ctx context.Context, filter domain.OutlookFilter, rows []domain.DealerModelOutlook) error {
	return nil
}

func (n *noopOutlookCache) GetGaps(ctx context.Context, tier string, fallbackAllModels bool) ([]domain.TierGapRow, bool, error) {
	return nil, false, nil
}

func (n *noopOutlookCache) SetGaps(ctx context.Context, tier string, fallbackAllModels bool, rows []domain.TierGapRow) error {
	return nil
}

func (n *noopOutlookCache) InvalidateAll(ctx context.Context) error {
	return nil
}

func outlookKey(filter domain.OutlookFilter) string {
	return fmt.Sprintf("%s:%s", outlookKeyPrefix, filterHash(filter))
}

// gapKey carries the fallback mode: an empty tier evaluated with and without
// the all-models fallback yields different rows and must never share an entry.
func gapKey(tier string, fallbackAllModels bool) string {
	mode := "assigned"
	if fallbackAllModels {
		mode = "all-models"
	}
	return fmt.Sprintf("%s:%s:%s", gapKeyPrefix, strings.ToLower(strings.TrimSpace(tier)), mode)
}

func filterHash(filter domain.OutlookFilter) string {
	parts := []string{}
	if filter.Dealer != "" {
		parts = append(parts, "dealer="+strings.ToLower(strings.TrimSpace(filter.Dealer)))
	}
	if filter.Model != "" {
		parts = append(parts, "model="+strings.ToLower(strings.TrimSpace(filter.Model)))
	}
	if len(parts) == 0 {
		return "default"
	}
	sum := sha1.Sum([]byte(strings.Join(parts, "|")))
	return hex.EncodeToString(sum[:])
}
