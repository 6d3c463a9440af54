package reports

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/octane-erp/octane-erp/internal/shared"
)

func newTestCache(t *testing.T) *Cache {
	t.Helper()
	srv := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: srv.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewCache(client, time.Minute, slog.Default())
}

func TestCacheRoundTrip(t *testing.T) {
	cache := newTestCache(t)
	ctx := context.Background()
	asOf := time.Date(2026, 3, 31, 0, 0, 0, 0, time.UTC)

	_, ok := cache.GetTrialBalance(ctx, asOf)
	require.False(t, ok)

	tb := BuildTrialBalance(asOf, rentScenario())
	cache.SetTrialBalance(ctx, asOf, tb)

	got, ok := cache.GetTrialBalance(ctx, asOf)
	require.True(t, ok)
	require.True(t, got.TotalDebit.Equal(tb.TotalDebit))
	require.Len(t, got.Rows, 2)
}

func TestInvalidateHidesCachedReports(t *testing.T) {
	cache := newTestCache(t)
	ctx := context.Background()
	asOf := time.Date(2026, 3, 31, 0, 0, 0, 0, time.UTC)

	cache.SetTrialBalance(ctx, asOf, BuildTrialBalance(asOf, rentScenario()))
	require.NoError(t, cache.Invalidate(ctx))

	_, ok := cache.GetTrialBalance(ctx, asOf)
	require.False(t, ok)
}

func TestCacheKeysAreTenantScoped(t *testing.T) {
	cache := newTestCache(t)
	asOf := time.Date(2026, 3, 31, 0, 0, 0, 0, time.UTC)
	north := shared.ContextWithTenant(context.Background(), "north")
	south := shared.ContextWithTenant(context.Background(), "south")

	cache.SetTrialBalance(north, asOf, BuildTrialBalance(asOf, rentScenario()))

	_, ok := cache.GetTrialBalance(south, asOf)
	require.False(t, ok)
	_, ok = cache.GetTrialBalance(north, asOf)
	require.True(t, ok)

	// Invalidating one tenant leaves the other's reports alive.
	cache.SetTrialBalance(south, asOf, BuildTrialBalance(asOf, rentScenario()))
	require.NoError(t, cache.Invalidate(south))
	_, ok = cache.GetTrialBalance(north, asOf)
	require.True(t, ok)
	_, ok = cache.GetTrialBalance(south, asOf)
	require.False(t, ok)
}

func TestNilClientDisablesCache(t *testing.T) {
	cache := NewCache(nil, time.Minute, slog.Default())
	ctx := context.Background()
	asOf := time.Date(2026, 3, 31, 0, 0, 0, 0, time.UTC)

	cache.SetTrialBalance(ctx, asOf, BuildTrialBalance(asOf, rentScenario()))
	_, ok := cache.GetTrialBalance(ctx, asOf)
	require.False(t, ok)
	require.NoError(t, cache.Invalidate(ctx))
}
