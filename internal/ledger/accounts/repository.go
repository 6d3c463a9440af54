package accounts

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	shared "github.com/octane-erp/octane-erp/internal/ledger/shared"
	"github.com/octane-erp/octane-erp/internal/platform/db"
)

// Repository encapsulates store access for the chart of accounts. Storage
// errors are translated into the ledger taxonomy here, exactly once.
type Repository interface {
	List(ctx context.Context, filter ListFilter) ([]Account, error)
	GetByID(ctx context.Context, id int64) (Account, error)
	FindActiveByName(ctx context.Context, name string) (Account, error)
	WithTx(ctx context.Context, fn func(context.Context, TxRepository) error) error
}

// TxRepository exposes the mutations available inside one transaction.
type TxRepository interface {
	Insert(ctx context.Context, name string, accountType AccountType, isSystem bool) (Account, error)
	GetForUpdate(ctx context.Context, id int64) (Account, error)
	ActiveNameExists(ctx context.Context, name string, excludeID int64) (bool, error)
	Update(ctx context.Context, account Account) error
	Archive(ctx context.Context, id int64) error
	CountPostedEntries(ctx context.Context, accountID int64) (int64, error)
}

type repository struct {
	pools *db.Router
}

// NewRepository builds the PostgreSQL-backed account repository.
func NewRepository(pools *db.Router) Repository {
	return &repository{pools: pools}
}

const accountColumns = `id, name, type, is_system, status, created_at, updated_at`

func scanAccount(row pgx.Row) (Account, error) {
	var a Account
	err := row.Scan(&a.ID, &a.Name, &a.Type, &a.IsSystem, &a.Status, &a.CreatedAt, &a.UpdatedAt)
	return a, err
}

func (r *repository) List(ctx context.Context, filter ListFilter) ([]Account, error) {
	pool, err := r.pools.Pool(ctx)
	if err != nil {
		return nil, err
	}
	rows, err := pool.Query(ctx, `SELECT `+accountColumns+` FROM ledger_accounts
WHERE ($1 = '' OR type = $1) AND ($2 = '' OR status = $2)
ORDER BY lower(name), id`, string(filter.Type), string(filter.Status))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var accounts []Account
	for rows.Next() {
		a, err := scanAccount(rows)
		if err != nil {
			return nil, err
		}
		accounts = append(accounts, a)
	}
	return accounts, rows.Err()
}

func (r *repository) GetByID(ctx context.Context, id int64) (Account, error) {
	pool, err := r.pools.Pool(ctx)
	if err != nil {
		return Account{}, err
	}
	a, err := scanAccount(pool.QueryRow(ctx, `SELECT `+accountColumns+` FROM ledger_accounts WHERE id=$1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return Account{}, shared.ErrNotFound
	}
	return a, err
}

func (r *repository) FindActiveByName(ctx context.Context, name string) (Account, error) {
	pool, err := r.pools.Pool(ctx)
	if err != nil {
		return Account{}, err
	}
	a, err := scanAccount(pool.QueryRow(ctx, `SELECT `+accountColumns+` FROM ledger_accounts
WHERE lower(name)=lower($1) AND status='ACTIVE'`, name))
	if errors.Is(err, pgx.ErrNoRows) {
		return Account{}, shared.ErrNotFound
	}
	return a, err
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

type txRepository struct {
	tx pgx.Tx
}

func (r *txRepository) Insert(ctx context.Context, name string, accountType AccountType, isSystem bool) (Account, error) {
	a, err := scanAccount(r.tx.QueryRow(ctx, `INSERT INTO ledger_accounts (name, type, is_system, status)
VALUES ($1, $2, $3, 'ACTIVE') RETURNING `+accountColumns, name, accountType, isSystem))
	if err != nil {
		return Account{}, translateUnique(err)
	}
	return a, nil
}

func (r *txRepository) GetForUpdate(ctx context.Context, id int64) (Account, error) {
	a, err := scanAccount(r.tx.QueryRow(ctx, `SELECT `+accountColumns+` FROM ledger_accounts WHERE id=$1 FOR UPDATE`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return Account{}, shared.ErrNotFound
	}
	return a, err
}

func (r *txRepository) ActiveNameExists(ctx context.Context, name string, excludeID int64) (bool, error) {
	var exists bool
	err := r.tx.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM ledger_accounts
WHERE lower(name)=lower($1) AND status='ACTIVE' AND id <> $2)`, name, excludeID).Scan(&exists)
	return exists, err
}

func (r *txRepository) Update(ctx context.Context, account Account) error {
	cmd, err := r.tx.Exec(ctx, `UPDATE ledger_accounts SET name=$2, type=$3, updated_at=NOW() WHERE id=$1`,
		account.ID, account.Name, account.Type)
	if err != nil {
		return translateUnique(err)
	}
	if cmd.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func (r *txRepository) Archive(ctx context.Context, id int64) error {
	cmd, err := r.tx.Exec(ctx, `UPDATE ledger_accounts SET status='ARCHIVED', updated_at=NOW() WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func (r *txRepository) CountPostedEntries(ctx context.Context, accountID int64) (int64, error) {
	var count int64
	err := r.tx.QueryRow(ctx, `SELECT COUNT(*) FROM voucher_entries e
JOIN vouchers v ON v.id = e.voucher_id
WHERE e.account_id = $1 AND v.status <> 'CANCELLED'`, accountID).Scan(&count)
	return count, err
}

// translateUnique converts the partial unique index on active account names
// into the taxonomy error.
func translateUnique(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return shared.ErrDuplicateName
	}
	return err
}
