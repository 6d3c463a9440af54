package vouchers

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	shared "github.com/octane-erp/octane-erp/internal/ledger/shared"
	"github.com/octane-erp/octane-erp/internal/platform/db"
)

// Repository encapsulates store access for vouchers and their entries.
type Repository interface {
	Get(ctx context.Context, id int64) (Voucher, error)
	List(ctx context.Context, filter ListFilter) ([]Voucher, error)
	ActiveAccountIDs(ctx context.Context, ids []int64) (map[int64]bool, error)
	WithTx(ctx context.Context, fn func(context.Context, TxRepository) error) error
}

// TxRepository exposes the operations available within a posting or
// cancellation transaction.
type TxRepository interface {
	ActiveAccountIDs(ctx context.Context, ids []int64) (map[int64]bool, error)
	InsertVoucher(ctx context.Context, in CreateVoucherInput, createdBy string) (Voucher, error)
	InsertEntries(ctx context.Context, voucherID int64, entries []EntryInput) ([]Entry, error)
	GetForUpdate(ctx context.Context, id int64) (Voucher, error)
	MarkCancelled(ctx context.Context, id int64, at time.Time) error
}

type repository struct {
	pools *db.Router
}

// NewRepository builds the PostgreSQL-backed voucher repository.
func NewRepository(pools *db.Router) Repository {
	return &repository{pools: pools}
}

const voucherColumns = `id, number, date, type, reference, narration, total_amount, status, created_by, created_at, cancelled_at`

func scanVoucher(row pgx.Row) (Voucher, error) {
	var v Voucher
	err := row.Scan(&v.ID, &v.Number, &v.Date, &v.Type, &v.Reference, &v.Narration,
		&v.TotalAmount, &v.Status, &v.CreatedBy, &v.CreatedAt, &v.CancelledAt)
	return v, err
}

func (r *repository) Get(ctx context.Context, id int64) (Voucher, error) {
	pool, err := r.pools.Pool(ctx)
	if err != nil {
		return Voucher{}, err
	}
	v, err := scanVoucher(pool.QueryRow(ctx, `SELECT `+voucherColumns+` FROM vouchers WHERE id=$1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return Voucher{}, shared.ErrNotFound
	}
	if err != nil {
		return Voucher{}, err
	}
	rows, err := pool.Query(ctx, `SELECT id, voucher_id, account_id, debit_amount, credit_amount, narration
FROM voucher_entries WHERE voucher_id=$1 ORDER BY id`, id)
	if err != nil {
		return Voucher{}, err
	}
	defer rows.Close()
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.ID, &e.VoucherID, &e.AccountID, &e.Debit, &e.Credit, &e.Narration); err != nil {
			return Voucher{}, err
		}
		v.Entries = append(v.Entries, e)
	}
	return v, rows.Err()
}

func (r *repository) List(ctx context.Context, filter ListFilter) ([]Voucher, error) {
	pool, err := r.pools.Pool(ctx)
	if err != nil {
		return nil, err
	}
	rows, err := pool.Query(ctx, `SELECT `+voucherColumns+` FROM vouchers
WHERE ($1 = '' OR status = $1)
  AND ($2 = '' OR type = $2)
  AND ($3::date IS NULL OR date >= $3)
  AND ($4::date IS NULL OR date <= $4)
ORDER BY number DESC`, string(filter.Status), string(filter.Type), nullTime(filter.From), nullTime(filter.To))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var vouchers []Voucher
	for rows.Next() {
		v, err := scanVoucher(rows)
		if err != nil {
			return nil, err
		}
		vouchers = append(vouchers, v)
	}
	return vouchers, rows.Err()
}

func (r *repository) ActiveAccountIDs(ctx context.Context, ids []int64) (map[int64]bool, error) {
	pool, err := r.pools.Pool(ctx)
	if err != nil {
		return nil, err
	}
	return activeAccountIDs(ctx, pool, ids)
}

func (r *repository) WithTx(ctx context.Context, fn func(context.Context, TxRepository) error) error {
	pool, err := r.pools.Pool(ctx)
	if err != nil {
		return err
	}
	return db.WithTx(ctx, pool, func(tx pgx.Tx) error {
		return fn(ctx, &txRepository{tx: tx})
	})
}

type querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

func activeAccountIDs(ctx context.Context, q querier, ids []int64) (map[int64]bool, error) {
	rows, err := q.Query(ctx, `SELECT id FROM ledger_accounts WHERE id = ANY($1) AND status='ACTIVE'`, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	active := make(map[int64]bool, len(ids))
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		active[id] = true
	}
	return active, rows.Err()
}

type txRepository struct {
	tx pgx.Tx
}

func (r *txRepository) ActiveAccountIDs(ctx context.Context, ids []int64) (map[int64]bool, error) {
	return activeAccountIDs(ctx, r.tx, ids)
}

func (r *txRepository) InsertVoucher(ctx context.Context, in CreateVoucherInput, createdBy string) (Voucher, error) {
	row := r.tx.QueryRow(ctx, `INSERT INTO vouchers (date, type, reference, narration, total_amount, status, created_by)
VALUES ($1, $2, $3, $4, $5, 'POSTED', $6) RETURNING id, number, created_at`,
		in.Date, in.Type, in.Reference, in.Narration, in.Total(), createdBy)
	voucher := Voucher{
		Date:        in.Date,
		Type:        in.Type,
		Reference:   in.Reference,
		Narration:   in.Narration,
		TotalAmount: in.Total(),
		Status:      VoucherStatusPosted,
		CreatedBy:   createdBy,
	}
	if err := row.Scan(&voucher.ID, &voucher.Number, &voucher.CreatedAt); err != nil {
		return Voucher{}, err
	}
	return voucher, nil
}

func (r *txRepository) InsertEntries(ctx context.Context, voucherID int64, entries []EntryInput) ([]Entry, error) {
	inserted := make([]Entry, 0, len(entries))
	for _, entry := range entries {
		row := Entry{
			VoucherID: voucherID,
			AccountID: entry.AccountID,
			Debit:     entry.Debit,
			Credit:    entry.Credit,
			Narration: entry.Narration,
		}
		err := r.tx.QueryRow(ctx, `INSERT INTO voucher_entries (voucher_id, account_id, debit_amount, credit_amount, narration)
VALUES ($1, $2, $3, $4, $5) RETURNING id`, voucherID, entry.AccountID, entry.Debit, entry.Credit, entry.Narration).
			Scan(&row.ID)
		if err != nil {
			return nil, err
		}
		inserted = append(inserted, row)
	}
	return inserted, nil
}

func (r *txRepository) GetForUpdate(ctx context.Context, id int64) (Voucher, error) {
	v, err := scanVoucher(r.tx.QueryRow(ctx, `SELECT `+voucherColumns+` FROM vouchers WHERE id=$1 FOR UPDATE`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return Voucher{}, shared.ErrNotFound
	}
	return v, err
}

func (r *txRepository) MarkCancelled(ctx context.Context, id int64, at time.Time) error {
	cmd, err := r.tx.Exec(ctx, `UPDATE vouchers SET status='CANCELLED', cancelled_at=$2 WHERE id=$1`, id, at)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func nullTime(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}
