package integrity

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	shared "github.com/octane-erp/octane-erp/internal/ledger/shared"
	"github.com/octane-erp/octane-erp/internal/platform/db"
)

// Repository exposes the recomputation queries the checker runs against
// posted data. All queries ignore cancelled vouchers.
type Repository interface {
	GlobalTotals(ctx context.Context) (debit, credit decimal.Decimal, err error)
	UnbalancedVouchers(ctx context.Context) ([]VoucherIssue, error)
	TotalMismatches(ctx context.Context) ([]VoucherIssue, error)
	AccountProtection(ctx context.Context, accountID int64) (isSystem bool, entries int64, err error)
}

type repository struct {
	pools *db.Router
}

// NewRepository builds the PostgreSQL-backed integrity repository.
func NewRepository(pools *db.Router) Repository {
	return &repository{pools: pools}
}

func (r *repository) GlobalTotals(ctx context.Context) (decimal.Decimal, decimal.Decimal, error) {
	pool, err := r.pools.Pool(ctx)
	if err != nil {
		return decimal.Zero, decimal.Zero, err
	}
	var debit, credit decimal.Decimal
	err = pool.QueryRow(ctx, `SELECT COALESCE(SUM(e.debit_amount), 0), COALESCE(SUM(e.credit_amount), 0)
FROM voucher_entries e
JOIN vouchers v ON v.id = e.voucher_id
WHERE v.status <> 'CANCELLED'`).Scan(&debit, &credit)
	return debit, credit, err
}

func (r *repository) UnbalancedVouchers(ctx context.Context) ([]VoucherIssue, error) {
	return r.issues(ctx, `SELECT v.id, v.number, v.date, SUM(e.debit_amount), SUM(e.credit_amount), v.total_amount
FROM vouchers v
JOIN voucher_entries e ON e.voucher_id = v.id
WHERE v.status <> 'CANCELLED'
GROUP BY v.id, v.number, v.date, v.total_amount
HAVING SUM(e.debit_amount) <> SUM(e.credit_amount)
ORDER BY v.number`)
}

func (r *repository) TotalMismatches(ctx context.Context) ([]VoucherIssue, error) {
	return r.issues(ctx, `SELECT v.id, v.number, v.date, SUM(e.debit_amount), SUM(e.credit_amount), v.total_amount
FROM vouchers v
JOIN voucher_entries e ON e.voucher_id = v.id
WHERE v.status <> 'CANCELLED'
GROUP BY v.id, v.number, v.date, v.total_amount
HAVING GREATEST(SUM(e.debit_amount), SUM(e.credit_amount)) <> v.total_amount
ORDER BY v.number`)
}

func (r *repository) issues(ctx context.Context, query string) ([]VoucherIssue, error) {
	pool, err := r.pools.Pool(ctx)
	if err != nil {
		return nil, err
	}
	rows, err := pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var issues []VoucherIssue
	for rows.Next() {
		var issue VoucherIssue
		if err := rows.Scan(&issue.VoucherID, &issue.Number, &issue.Date,
			&issue.DebitTotal, &issue.CreditTotal, &issue.Stored); err != nil {
			return nil, err
		}
		issues = append(issues, issue)
	}
	return issues, rows.Err()
}

func (r *repository) AccountProtection(ctx context.Context, accountID int64) (bool, int64, error) {
	pool, err := r.pools.Pool(ctx)
	if err != nil {
		return false, 0, err
	}
	var isSystem bool
	err = pool.QueryRow(ctx, `SELECT is_system FROM ledger_accounts WHERE id=$1`, accountID).Scan(&isSystem)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, 0, shared.ErrNotFound
	}
	if err != nil {
		return false, 0, err
	}
	var entries int64
	err = pool.QueryRow(ctx, `SELECT COUNT(*) FROM voucher_entries e
JOIN vouchers v ON v.id = e.voucher_id
WHERE e.account_id = $1 AND v.status <> 'CANCELLED'`, accountID).Scan(&entries)
	return isSystem, entries, err
}
