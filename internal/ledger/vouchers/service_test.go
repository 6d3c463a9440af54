package vouchers

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	shared "github.com/octane-erp/octane-erp/internal/ledger/shared"
	internalshared "github.com/octane-erp/octane-erp/internal/shared"
)

type memoryVoucherRepo struct {
	vouchers   map[int64]Voucher
	entries    map[int64][]Entry
	active     map[int64]bool
	nextID     int64
	nextNumber int64
}

func newMemoryVoucherRepo(activeAccounts ...int64) *memoryVoucherRepo {
	active := make(map[int64]bool, len(activeAccounts))
	for _, id := range activeAccounts {
		active[id] = true
	}
	return &memoryVoucherRepo{
		vouchers: make(map[int64]Voucher),
		entries:  make(map[int64][]Entry),
		active:   active,
	}
}

func (r *memoryVoucherRepo) Get(ctx context.Context, id int64) (Voucher, error) {
	v, ok := r.vouchers[id]
	if !ok {
		return Voucher{}, shared.ErrNotFound
	}
	v.Entries = append([]Entry(nil), r.entries[id]...)
	return v, nil
}

func (r *memoryVoucherRepo) List(ctx context.Context, filter ListFilter) ([]Voucher, error) {
	var out []Voucher
	for _, v := range r.vouchers {
		if filter.Status != "" && v.Status != filter.Status {
			continue
		}
		if filter.Type != "" && v.Type != filter.Type {
			continue
		}
		out = append(out, v)
	}
	return out, nil
}

func (r *memoryVoucherRepo) ActiveAccountIDs(ctx context.Context, ids []int64) (map[int64]bool, error) {
	out := make(map[int64]bool, len(ids))
	for _, id := range ids {
		if r.active[id] {
			out[id] = true
		}
	}
	return out, nil
}

func (r *memoryVoucherRepo) WithTx(ctx context.Context, fn func(context.Context, TxRepository) error) error {
	tx := &memoryVoucherTx{repo: r}
	if err := fn(ctx, tx); err != nil {
		tx.rollback()
		return err
	}
	return nil
}

type memoryVoucherTx struct {
	repo     *memoryVoucherRepo
	inserted []int64
}

func (t *memoryVoucherTx) rollback() {
	for _, id := range t.inserted {
		delete(t.repo.vouchers, id)
		delete(t.repo.entries, id)
	}
}

func (t *memoryVoucherTx) ActiveAccountIDs(ctx context.Context, ids []int64) (map[int64]bool, error) {
	return t.repo.ActiveAccountIDs(ctx, ids)
}

func (t *memoryVoucherTx) InsertVoucher(ctx context.Context, in CreateVoucherInput, createdBy string) (Voucher, error) {
	t.repo.nextID++
	t.repo.nextNumber++
	v := Voucher{
		ID:          t.repo.nextID,
		Number:      t.repo.nextNumber,
		Date:        in.Date,
		Type:        in.Type,
		Reference:   in.Reference,
		Narration:   in.Narration,
		TotalAmount: in.Total(),
		Status:      VoucherStatusPosted,
		CreatedBy:   createdBy,
		CreatedAt:   time.Now().UTC(),
	}
	t.repo.vouchers[v.ID] = v
	t.inserted = append(t.inserted, v.ID)
	return v, nil
}

func (t *memoryVoucherTx) InsertEntries(ctx context.Context, voucherID int64, entries []EntryInput) ([]Entry, error) {
	inserted := make([]Entry, 0, len(entries))
	for _, e := range entries {
		t.repo.nextID++
		inserted = append(inserted, Entry{
			ID:        t.repo.nextID,
			VoucherID: voucherID,
			AccountID: e.AccountID,
			Debit:     e.Debit,
			Credit:    e.Credit,
			Narration: e.Narration,
		})
	}
	t.repo.entries[voucherID] = append(t.repo.entries[voucherID], inserted...)
	return inserted, nil
}

func (t *memoryVoucherTx) GetForUpdate(ctx context.Context, id int64) (Voucher, error) {
	v, ok := t.repo.vouchers[id]
	if !ok {
		return Voucher{}, shared.ErrNotFound
	}
	return v, nil
}

func (t *memoryVoucherTx) MarkCancelled(ctx context.Context, id int64, at time.Time) error {
	v, ok := t.repo.vouchers[id]
	if !ok {
		return shared.ErrNotFound
	}
	v.Status = VoucherStatusCancelled
	v.CancelledAt = &at
	t.repo.vouchers[id] = v
	return nil
}

type nopAudit struct{}

func (nopAudit) Record(ctx context.Context, log internalshared.AuditLog) error { return nil }

func amount(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func rentPayment() CreateVoucherInput {
	return CreateVoucherInput{
		Date:      time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
		Type:      VoucherTypePayment,
		Narration: "March rent",
		Entries: []EntryInput{
			{AccountID: 1, Debit: amount("500")},
			{AccountID: 2, Credit: amount("500")},
		},
	}
}

func TestCreateVoucherPostsBalancedEntries(t *testing.T) {
	repo := newMemoryVoucherRepo(1, 2)
	svc := NewService(repo, nopAudit{}, slog.Default())

	voucher, err := svc.Create(context.Background(), rentPayment())
	require.NoError(t, err)
	require.Equal(t, VoucherStatusPosted, voucher.Status)
	require.True(t, voucher.TotalAmount.Equal(amount("500")))
	require.Len(t, voucher.Entries, 2)
	require.EqualValues(t, 1, voucher.Number)
}

func TestCreateVoucherRejectsUnbalancedWithoutResidue(t *testing.T) {
	repo := newMemoryVoucherRepo(1, 2)
	svc := NewService(repo, nopAudit{}, slog.Default())

	in := rentPayment()
	in.Entries[1].Credit = amount("400")
	_, err := svc.Create(context.Background(), in)
	require.ErrorIs(t, err, shared.ErrVoucherDoesNotBalance)
	require.Empty(t, repo.vouchers)
	require.Empty(t, repo.entries)
}

func TestCreateVoucherRejectsMixedEntry(t *testing.T) {
	repo := newMemoryVoucherRepo(1, 2)
	svc := NewService(repo, nopAudit{}, slog.Default())

	in := rentPayment()
	in.Entries[0].Credit = amount("500")
	_, err := svc.Create(context.Background(), in)
	require.ErrorIs(t, err, shared.ErrMixedOrEmptyEntry)
}

func TestCreateVoucherRejectsEmptyEntry(t *testing.T) {
	repo := newMemoryVoucherRepo(1, 2)
	svc := NewService(repo, nopAudit{}, slog.Default())

	in := rentPayment()
	in.Entries[0].Debit = decimal.Zero
	_, err := svc.Create(context.Background(), in)
	require.ErrorIs(t, err, shared.ErrMixedOrEmptyEntry)
}

func TestCreateVoucherRejectsUnknownAccount(t *testing.T) {
	repo := newMemoryVoucherRepo(1)
	svc := NewService(repo, nopAudit{}, slog.Default())

	_, err := svc.Create(context.Background(), rentPayment())
	require.ErrorIs(t, err, shared.ErrAccountNotFound)
	require.Empty(t, repo.vouchers)
}

func TestCreateVoucherReportsUnknownAccountBeforeImbalance(t *testing.T) {
	repo := newMemoryVoucherRepo(1)
	svc := NewService(repo, nopAudit{}, slog.Default())

	// Account 2 does not exist and the sides differ; the account check
	// comes first.
	in := rentPayment()
	in.Entries[1].Credit = amount("400")
	_, err := svc.Create(context.Background(), in)
	require.ErrorIs(t, err, shared.ErrAccountNotFound)
}

func TestCreateVoucherReturnsPersistedEntryIDs(t *testing.T) {
	repo := newMemoryVoucherRepo(1, 2)
	svc := NewService(repo, nopAudit{}, slog.Default())

	voucher, err := svc.Create(context.Background(), rentPayment())
	require.NoError(t, err)
	require.Len(t, voucher.Entries, 2)
	for _, entry := range voucher.Entries {
		require.NotZero(t, entry.ID)
		require.Equal(t, voucher.ID, entry.VoucherID)
	}
}

func TestCreateVoucherRejectsInvalidType(t *testing.T) {
	repo := newMemoryVoucherRepo(1, 2)
	svc := NewService(repo, nopAudit{}, slog.Default())

	in := rentPayment()
	in.Type = VoucherType("TRANSFER")
	_, err := svc.Create(context.Background(), in)
	require.ErrorIs(t, err, shared.ErrInvalidVoucherType)
}

func TestCancelVoucherIsTerminal(t *testing.T) {
	repo := newMemoryVoucherRepo(1, 2)
	svc := NewService(repo, nopAudit{}, slog.Default())
	cancelledAt := time.Date(2026, 3, 15, 9, 30, 0, 0, time.UTC)
	svc.WithNow(func() time.Time { return cancelledAt })

	voucher, err := svc.Create(context.Background(), rentPayment())
	require.NoError(t, err)

	cancelled, err := svc.Cancel(context.Background(), voucher.ID)
	require.NoError(t, err)
	require.Equal(t, VoucherStatusCancelled, cancelled.Status)
	require.NotNil(t, cancelled.CancelledAt)
	require.Equal(t, cancelledAt, *cancelled.CancelledAt)

	_, err = svc.Cancel(context.Background(), voucher.ID)
	require.ErrorIs(t, err, shared.ErrAlreadyCancelled)

	// Entries stay stored for audit.
	got, err := svc.Get(context.Background(), voucher.ID)
	require.NoError(t, err)
	require.Len(t, got.Entries, 2)
}

func TestValidateBalanceReportsDifference(t *testing.T) {
	repo := newMemoryVoucherRepo(1, 2)
	svc := NewService(repo, nopAudit{}, slog.Default())

	check, err := svc.ValidateBalance(context.Background(), []EntryInput{
		{AccountID: 1, Debit: amount("500")},
		{AccountID: 2, Credit: amount("300")},
	})
	require.NoError(t, err)
	require.False(t, check.Balanced)
	require.True(t, check.Difference.Equal(amount("200")))
}

func TestValidateBalanceExactDecimal(t *testing.T) {
	repo := newMemoryVoucherRepo(1, 2)
	svc := NewService(repo, nopAudit{}, slog.Default())

	// 0.1+0.2 equals 0.3 exactly in decimal arithmetic.
	check, err := svc.ValidateBalance(context.Background(), []EntryInput{
		{AccountID: 1, Debit: amount("0.1")},
		{AccountID: 1, Debit: amount("0.2")},
		{AccountID: 2, Credit: amount("0.3")},
	})
	require.NoError(t, err)
	require.True(t, check.Balanced)
}
