package db

import (
	"context"
	"fmt"
	"sort"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/octane-erp/octane-erp/internal/shared"
)

// Router maps tenant routing tokens to their ledger stores. Every repository
// resolves its pool per call from the tenant carried in context; an empty
// token routes to the default store. Tenant provisioning itself happens
// outside this process.
type Router struct {
	fallback *pgxpool.Pool
	tenants  map[string]*pgxpool.Pool
}

// NewRouter connects the default store and every configured tenant store.
func NewRouter(ctx context.Context, defaultDSN string, tenantDSNs map[string]string) (*Router, error) {
	fallback, err := New(ctx, defaultDSN)
	if err != nil {
		return nil, err
	}
	router := &Router{fallback: fallback, tenants: make(map[string]*pgxpool.Pool, len(tenantDSNs))}
	for tenant, dsn := range tenantDSNs {
		pool, err := New(ctx, dsn)
		if err != nil {
			router.Close()
			return nil, fmt.Errorf("platform/db: tenant %q: %w", tenant, err)
		}
		router.tenants[tenant] = pool
	}
	return router, nil
}

// Pool resolves the store for the tenant in ctx.
func (r *Router) Pool(ctx context.Context) (*pgxpool.Pool, error) {
	tenant := shared.TenantFromContext(ctx)
	if tenant == "" {
		return r.fallback, nil
	}
	pool, ok := r.tenants[tenant]
	if !ok {
		return nil, fmt.Errorf("platform/db: unknown tenant %q", tenant)
	}
	return pool, nil
}

// Default returns the default store, used for health checks.
func (r *Router) Default() *pgxpool.Pool {
	return r.fallback
}

// Tenants lists the configured tenant tokens in stable order.
func (r *Router) Tenants() []string {
	out := make([]string, 0, len(r.tenants))
	for tenant := range r.tenants {
		out = append(out, tenant)
	}
	sort.Strings(out)
	return out
}

// Close releases every pool.
func (r *Router) Close() {
	if r.fallback != nil {
		r.fallback.Close()
	}
	for _, pool := range r.tenants {
		pool.Close()
	}
}
