package reports

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/octane-erp/octane-erp/internal/shared"
)

// Cache keeps rendered trial balances in Redis. Invalidation bumps a
// per-tenant version counter instead of scanning for keys, so a posting
// makes every cached report for that tenant unreachable at once. A nil
// client disables caching entirely.
type Cache struct {
	client *redis.Client
	ttl    time.Duration
	logger *slog.Logger
}

// NewCache builds the report cache. client may be nil.
func NewCache(client *redis.Client, ttl time.Duration, logger *slog.Logger) *Cache {
	return &Cache{client: client, ttl: ttl, logger: logger}
}

func (c *Cache) enabled() bool { return c != nil && c.client != nil }

func (c *Cache) versionKey(tenant string) string {
	if tenant == "" {
		tenant = "default"
	}
	return "octane:reports:version:" + tenant
}

func (c *Cache) version(ctx context.Context, tenant string) (int64, error) {
	v, err := c.client.Get(ctx, c.versionKey(tenant)).Int64()
	if err == redis.Nil {
		return 0, nil
	}
	return v, err
}

func (c *Cache) key(ctx context.Context, asOf time.Time) (string, error) {
	tenant := shared.TenantFromContext(ctx)
	v, err := c.version(ctx, tenant)
	if err != nil {
		return "", err
	}
	if tenant == "" {
		tenant = "default"
	}
	return fmt.Sprintf("octane:reports:tb:%s:%d:%s", tenant, v, asOf.Format("2006-01-02")), nil
}

// GetTrialBalance returns the cached report and true on a hit. Cache
// failures degrade to a miss; the caller rebuilds from the store.
func (c *Cache) GetTrialBalance(ctx context.Context, asOf time.Time) (TrialBalance, bool) {
	if !c.enabled() {
		return TrialBalance{}, false
	}
	key, err := c.key(ctx, asOf)
	if err != nil {
		c.logger.Warn("report cache read failed", slog.Any("error", err))
		return TrialBalance{}, false
	}
	raw, err := c.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return TrialBalance{}, false
	}
	if err != nil {
		c.logger.Warn("report cache read failed", slog.Any("error", err))
		return TrialBalance{}, false
	}
	var tb TrialBalance
	if err := json.Unmarshal(raw, &tb); err != nil {
		return TrialBalance{}, false
	}
	return tb, true
}

// SetTrialBalance stores the report best-effort.
func (c *Cache) SetTrialBalance(ctx context.Context, asOf time.Time, tb TrialBalance) {
	if !c.enabled() {
		return
	}
	key, err := c.key(ctx, asOf)
	if err != nil {
		return
	}
	raw, err := json.Marshal(tb)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, key, raw, c.ttl).Err(); err != nil {
		c.logger.Warn("report cache write failed", slog.Any("error", err))
	}
}

// Invalidate bumps the tenant's version counter so every cached report
// built under the previous version expires with its TTL, unread.
func (c *Cache) Invalidate(ctx context.Context) error {
	if !c.enabled() {
		return nil
	}
	tenant := shared.TenantFromContext(ctx)
	return c.client.Incr(ctx, c.versionKey(tenant)).Err()
}
