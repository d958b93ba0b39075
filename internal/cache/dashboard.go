package cache

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Yahiahu/SCM-sub000/internal/config"
	"github.com/Yahiahu/SCM-sub000/internal/domain"
	"github.com/redis/go-redis/v9"
)

const (
	dashboardKeyPrefix = "po:dashboard"
	scanBatchSize      = 100
)

// DashboardCache holds the mapped purchase order list between reads.
type DashboardCache interface {
	GetPurchaseOrders(ctx context.Context) ([]domain.PurchaseOrder, bool, error)
	SetPurchaseOrders(ctx context.Context, pos []domain.PurchaseOrder) error
	InvalidateAll(ctx context.Context) error
}

type redisDashboardCache struct {
	client *redis.Client
	ttl    time.Duration
	key    string
}

type noopDashboardCache struct{}

// NewDashboardCache returns a Redis-backed cache when enabled, otherwise a
// no-op. namespace separates entries built from different record sources.
func NewDashboardCache(cfg config.CacheConfig, namespace string) (DashboardCache, error) {
	if !cfg.Enabled {
		return &noopDashboardCache{}, nil
	}

	client, ttl, err := newRedisClient(cfg)
	if err != nil {
		return nil, err
	}

	return newRedisDashboardCache(client, ttl, namespace), nil
}

func newRedisDashboardCache(client *redis.Client, ttl time.Duration, namespace string) *redisDashboardCache {
	return &redisDashboardCache{
		client: client,
		ttl:    ttl,
		key:    buildDashboardKey(namespace),
	}
}

func NewNoopDashboardCache() DashboardCache {
	return &noopDashboardCache{}
}

func (c *redisDashboardCache) GetPurchaseOrders(ctx context.Context) ([]domain.PurchaseOrder, bool, error) {
	payload, err := c.client.Get(ctx, c.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get failed: %w", err)
	}

	var pos []domain.PurchaseOrder
	if err := json.Unmarshal(payload, &pos); err != nil {
		return nil, false, fmt.Errorf("decode dashboard cache: %w", err)
	}
	return pos, true, nil
}

func (c *redisDashboardCache) SetPurchaseOrders(ctx context.Context, pos []domain.PurchaseOrder) error {
	payload, err := json.Marshal(pos)
	if err != nil {
		return fmt.Errorf("encode dashboard cache: %w", err)
	}

	if err := c.client.Set(ctx, c.key, payload, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

func (c *redisDashboardCache) InvalidateAll(ctx context.Context) error {
	return deleteKeysWithPrefix(ctx, c.client, dashboardKeyPrefix, scanBatchSize)
}

func (n *noopDashboardCache) GetPurchaseOrders(ctx context.Context) ([]domain.PurchaseOrder, bool, error) {
	return nil, false, nil
}

func (n *noopDashboardCache) SetPurchaseOrders(ctx context.Context, pos []domain.PurchaseOrder) error {
	return nil
}

func (n *noopDashboardCache) InvalidateAll(ctx context.Context) error {
	return nil
}

func buildDashboardKey(namespace string) string {
	namespace = strings.ToLower(strings.TrimSpace(namespace))
	if namespace == "" {
		return dashboardKeyPrefix + ":default"
	}
	sum := sha1.Sum([]byte(namespace))
	return fmt.Sprintf("%s:%s", dashboardKeyPrefix, hex.EncodeToString(sum[:]))
}
