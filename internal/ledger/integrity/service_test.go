package integrity

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	shared "github.com/octane-erp/octane-erp/internal/ledger/shared"
)

type fakeIntegrityRepo struct {
	debit      decimal.Decimal
	credit     decimal.Decimal
	unbalanced []VoucherIssue
	mismatches []VoucherIssue
	isSystem   bool
	entries    int64
	missing    bool
}

func (r *fakeIntegrityRepo) GlobalTotals(ctx context.Context) (decimal.Decimal, decimal.Decimal, error) {
	return r.debit, r.credit, nil
}

func (r *fakeIntegrityRepo) UnbalancedVouchers(ctx context.Context) ([]VoucherIssue, error) {
	return r.unbalanced, nil
}

func (r *fakeIntegrityRepo) TotalMismatches(ctx context.Context) ([]VoucherIssue, error) {
	return r.mismatches, nil
}

func (r *fakeIntegrityRepo) AccountProtection(ctx context.Context, accountID int64) (bool, int64, error) {
	if r.missing {
		return false, 0, shared.ErrNotFound
	}
	return r.isSystem, r.entries, nil
}

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestCheckHealthyLedger(t *testing.T) {
	repo := &fakeIntegrityRepo{debit: d("1700"), credit: d("1700")}
	svc := NewService(slog.Default(), repo)

	report, err := svc.Check(context.Background())
	require.NoError(t, err)
	require.True(t, report.Healthy)
	require.True(t, report.Discrepancy.IsZero())
	require.Empty(t, report.UnbalancedVouchers)
}

func TestCheckFlagsDiscrepancyAndIssues(t *testing.T) {
	repo := &fakeIntegrityRepo{
		debit:  d("1700"),
		credit: d("1500"),
		unbalanced: []VoucherIssue{
			{VoucherID: 4, Number: 4, Date: time.Now(), DebitTotal: d("500"), CreditTotal: d("300"), Stored: d("500")},
		},
		mismatches: []VoucherIssue{
			{VoucherID: 7, Number: 7, DebitTotal: d("200"), CreditTotal: d("200"), Stored: d("999")},
		},
	}
	svc := NewService(slog.Default(), repo)

	report, err := svc.Check(context.Background())
	require.NoError(t, err)
	require.False(t, report.Healthy)
	require.True(t, report.Discrepancy.Equal(d("200")))
	require.Len(t, report.UnbalancedVouchers, 1)
	require.NotEmpty(t, report.UnbalancedVouchers[0].Detail)
	require.Len(t, report.TotalMismatches, 1)
	require.NotEmpty(t, report.TotalMismatches[0].Detail)
}

func TestAccountProtectionVerdicts(t *testing.T) {
	svc := NewService(slog.Default(), &fakeIntegrityRepo{isSystem: true, entries: 0})
	p, err := svc.AccountProtection(context.Background(), 1)
	require.NoError(t, err)
	require.True(t, p.IsSystemAccount)
	require.False(t, p.IsDeletable)

	svc = NewService(slog.Default(), &fakeIntegrityRepo{entries: 12})
	p, err = svc.AccountProtection(context.Background(), 2)
	require.NoError(t, err)
	require.True(t, p.HasEntries)
	require.False(t, p.IsDeletable)

	svc = NewService(slog.Default(), &fakeIntegrityRepo{})
	p, err = svc.AccountProtection(context.Background(), 3)
	require.NoError(t, err)
	require.True(t, p.IsDeletable)
}

func TestAccountProtectionUnknownAccount(t *testing.T) {
	svc := NewService(slog.Default(), &fakeIntegrityRepo{missing: true})
	_, err := svc.AccountProtection(context.Background(), 99)
	require.ErrorIs(t, err, shared.ErrNotFound)
}
