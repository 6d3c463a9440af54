package settings

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/octane-erp/octane-erp/internal/platform/db"
)

// Repository reads and writes the tenant's integration settings row.
type Repository interface {
	GetOrCreate(ctx context.Context) (Settings, error)
	Update(ctx context.Context, s Settings) (Settings, error)
}

type repository struct {
	pools *db.Router
}

// NewRepository builds the PostgreSQL-backed settings repository.
func NewRepository(pools *db.Router) Repository {
	return &repository{pools: pools}
}

const settingsColumns = `auto_post_purchases, auto_post_sales, auto_post_payments,
purchase_account, revenue_account, bank_account, updated_at`

func (r *repository) GetOrCreate(ctx context.Context) (Settings, error) {
	pool, err := r.pools.Pool(ctx)
	if err != nil {
		return Settings{}, err
	}
	var s Settings
	err = pool.QueryRow(ctx, `SELECT `+settingsColumns+` FROM integration_settings WHERE id=1`).
		Scan(&s.AutoPostPurchases, &s.AutoPostSales, &s.AutoPostPayments,
			&s.PurchaseAccount, &s.RevenueAccount, &s.BankAccount, &s.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return r.seed(ctx)
	}
	if err != nil {
		return Settings{}, err
	}
	return s, nil
}

// seed inserts the defaults. Concurrent first reads race benignly: the
// conflict clause keeps whichever row landed first.
func (r *repository) seed(ctx context.Context) (Settings, error) {
	pool, err := r.pools.Pool(ctx)
	if err != nil {
		return Settings{}, err
	}
	defaults := Defaults()
	defaults.UpdatedAt = time.Now().UTC()
	_, err = pool.Exec(ctx, `INSERT INTO integration_settings
(id, auto_post_purchases, auto_post_sales, auto_post_payments, purchase_account, revenue_account, bank_account, updated_at)
VALUES (1, $1, $2, $3, $4, $5, $6, $7)
ON CONFLICT (id) DO NOTHING`,
		defaults.AutoPostPurchases, defaults.AutoPostSales, defaults.AutoPostPayments,
		defaults.PurchaseAccount, defaults.RevenueAccount, defaults.BankAccount, defaults.UpdatedAt)
	if err != nil {
		return Settings{}, err
	}
	return r.GetOrCreate(ctx)
}

func (r *repository) Update(ctx context.Context, s Settings) (Settings, error) {
	pool, err := r.pools.Pool(ctx)
	if err != nil {
		return Settings{}, err
	}
	s.UpdatedAt = time.Now().UTC()
	_, err = pool.Exec(ctx, `INSERT INTO integration_settings
(id, auto_post_purchases, auto_post_sales, auto_post_payments, purchase_account, revenue_account, bank_account, updated_at)
VALUES (1, $1, $2, $3, $4, $5, $6, $7)
ON CONFLICT (id) DO UPDATE SET
  auto_post_purchases=EXCLUDED.auto_post_purchases,
  auto_post_sales=EXCLUDED.auto_post_sales,
  auto_post_payments=EXCLUDED.auto_post_payments,
  purchase_account=EXCLUDED.purchase_account,
  revenue_account=EXCLUDED.revenue_account,
  bank_account=EXCLUDED.bank_account,
  updated_at=EXCLUDED.updated_at`,
		s.AutoPostPurchases, s.AutoPostSales, s.AutoPostPayments,
		s.PurchaseAccount, s.RevenueAccount, s.BankAccount, s.UpdatedAt)
	if err != nil {
		return Settings{}, err
	}
	return s, nil
}
