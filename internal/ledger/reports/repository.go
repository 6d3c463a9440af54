package reports

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/octane-erp/octane-erp/internal/ledger/accounts"
	shared "github.com/octane-erp/octane-erp/internal/ledger/shared"
	"github.com/octane-erp/octane-erp/internal/platform/db"
)

// Repository exposes the read-side aggregations the report builders consume.
// Every query excludes cancelled vouchers at the SQL level.
type Repository interface {
	AccountByID(ctx context.Context, id int64) (accounts.Account, error)
	FindActiveIDByName(ctx context.Context, name string) (int64, error)
	ActiveAccountTotals(ctx context.Context, asOf time.Time) ([]AccountTotals, error)
	ActiveAccountTotalsRange(ctx context.Context, from, to time.Time) ([]AccountTotals, error)
	TotalsFor(ctx context.Context, accountID int64, upTo time.Time) (debit, credit decimal.Decimal, err error)
	Lines(ctx context.Context, accountID int64, from, to time.Time) ([]LedgerLine, error)
	BankMovements(ctx context.Context, from, to time.Time) ([]BankMovement, error)
}

type repository struct {
	pools *db.Router
}

// NewRepository builds the PostgreSQL-backed report repository.
func NewRepository(pools *db.Router) Repository {
	return &repository{pools: pools}
}

func (r *repository) AccountByID(ctx context.Context, id int64) (accounts.Account, error) {
	pool, err := r.pools.Pool(ctx)
	if err != nil {
		return accounts.Account{}, err
	}
	var a accounts.Account
	err = pool.QueryRow(ctx, `SELECT id, name, type, is_system, status, created_at, updated_at
FROM ledger_accounts WHERE id=$1`, id).
		Scan(&a.ID, &a.Name, &a.Type, &a.IsSystem, &a.Status, &a.CreatedAt, &a.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return accounts.Account{}, shared.ErrNotFound
	}
	return a, err
}

func (r *repository) FindActiveIDByName(ctx context.Context, name string) (int64, error) {
	pool, err := r.pools.Pool(ctx)
	if err != nil {
		return 0, err
	}
	var id int64
	err = pool.QueryRow(ctx, `SELECT id FROM ledger_accounts
WHERE lower(name)=lower($1) AND status='ACTIVE'`, name).Scan(&id)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, shared.ErrNotFound
	}
	return id, err
}

func (r *repository) ActiveAccountTotals(ctx context.Context, asOf time.Time) ([]AccountTotals, error) {
	return r.totals(ctx, time.Time{}, asOf)
}

func (r *repository) ActiveAccountTotalsRange(ctx context.Context, from, to time.Time) ([]AccountTotals, error) {
	return r.totals(ctx, from, to)
}

func (r *repository) totals(ctx context.Context, from, to time.Time) ([]AccountTotals, error) {
	pool, err := r.pools.Pool(ctx)
	if err != nil {
		return nil, err
	}
	// LEFT JOIN keeps active accounts with no entries on the report.
	rows, err := pool.Query(ctx, `SELECT a.id, a.name, a.type,
COALESCE(t.debit, 0), COALESCE(t.credit, 0)
FROM ledger_accounts a
LEFT JOIN (
	SELECT e.account_id, SUM(e.debit_amount) AS debit, SUM(e.credit_amount) AS credit
	FROM voucher_entries e
	JOIN vouchers v ON v.id = e.voucher_id
	WHERE v.status <> 'CANCELLED'
	  AND ($1::date IS NULL OR v.date >= $1)
	  AND v.date <= $2
	GROUP BY e.account_id
) t ON t.account_id = a.id
WHERE a.status = 'ACTIVE'
ORDER BY lower(a.name), a.id`, nullDate(from), to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var totals []AccountTotals
	for rows.Next() {
		var t AccountTotals
		if err := rows.Scan(&t.AccountID, &t.Name, &t.Type, &t.Debit, &t.Credit); err != nil {
			return nil, err
		}
		totals = append(totals, t)
	}
	return totals, rows.Err()
}

func (r *repository) TotalsFor(ctx context.Context, accountID int64, upTo time.Time) (decimal.Decimal, decimal.Decimal, error) {
	pool, err := r.pools.Pool(ctx)
	if err != nil {
		return decimal.Zero, decimal.Zero, err
	}
	var debit, credit decimal.Decimal
	err = pool.QueryRow(ctx, `SELECT COALESCE(SUM(e.debit_amount), 0), COALESCE(SUM(e.credit_amount), 0)
FROM voucher_entries e
JOIN vouchers v ON v.id = e.voucher_id
WHERE e.account_id = $1 AND v.status <> 'CANCELLED' AND v.date <= $2`, accountID, upTo).Scan(&debit, &credit)
	return debit, credit, err
}

func (r *repository) Lines(ctx context.Context, accountID int64, from, to time.Time) ([]LedgerLine, error) {
	pool, err := r.pools.Pool(ctx)
	if err != nil {
		return nil, err
	}
	rows, err := pool.Query(ctx, `SELECT v.id, v.number, v.date, v.type,
COALESCE(NULLIF(e.narration, ''), v.narration), e.debit_amount, e.credit_amount
FROM voucher_entries e
JOIN vouchers v ON v.id = e.voucher_id
WHERE e.account_id = $1 AND v.status <> 'CANCELLED' AND v.date >= $2 AND v.date <= $3
ORDER BY v.date, v.number, e.id`, accountID, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var lines []LedgerLine
	for rows.Next() {
		var ln LedgerLine
		if err := rows.Scan(&ln.VoucherID, &ln.Number, &ln.Date, &ln.Type, &ln.Narration, &ln.Debit, &ln.Credit); err != nil {
			return nil, err
		}
		lines = append(lines, ln)
	}
	return lines, rows.Err()
}

// BankMovements pulls every bank-side entry in the window together with the
// dominant counter-account type on the same voucher, heaviest amount first.
func (r *repository) BankMovements(ctx context.Context, from, to time.Time) ([]BankMovement, error) {
	pool, err := r.pools.Pool(ctx)
	if err != nil {
		return nil, err
	}
	rows, err := pool.Query(ctx, `SELECT v.id, v.date, e.debit_amount, e.credit_amount, counter.type
FROM voucher_entries e
JOIN vouchers v ON v.id = e.voucher_id
JOIN ledger_accounts bank ON bank.id = e.account_id AND bank.type = 'BANK'
JOIN LATERAL (
  SELECT a.type
  FROM voucher_entries ce
  JOIN ledger_accounts a ON a.id = ce.account_id
  WHERE ce.voucher_id = v.id AND a.type <> 'BANK'
  ORDER BY GREATEST(ce.debit_amount, ce.credit_amount) DESC, ce.id
  LIMIT 1
) counter ON true
WHERE v.status <> 'CANCELLED' AND v.date >= $1 AND v.date <= $2
ORDER BY v.number, e.id`, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var movements []BankMovement
	for rows.Next() {
		var m BankMovement
		if err := rows.Scan(&m.VoucherID, &m.Date, &m.Debit, &m.Credit, &m.CounterType); err != nil {
			return nil, err
		}
		movements = append(movements, m)
	}
	return movements, rows.Err()
}

func nullDate(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}
