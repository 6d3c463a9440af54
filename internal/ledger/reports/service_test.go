package reports

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/octane-erp/octane-erp/internal/ledger/accounts"
	"github.com/octane-erp/octane-erp/internal/ledger/settings"
	shared "github.com/octane-erp/octane-erp/internal/ledger/shared"
)

type fakeReportRepo struct {
	accounts map[int64]accounts.Account
	totals   []AccountTotals
	lines    []LedgerLine
}

func (r *fakeReportRepo) AccountByID(ctx context.Context, id int64) (accounts.Account, error) {
	a, ok := r.accounts[id]
	if !ok {
		return accounts.Account{}, shared.ErrNotFound
	}
	return a, nil
}

func (r *fakeReportRepo) FindActiveIDByName(ctx context.Context, name string) (int64, error) {
	for _, a := range r.accounts {
		if a.Name == name {
			return a.ID, nil
		}
	}
	return 0, shared.ErrNotFound
}

func (r *fakeReportRepo) ActiveAccountTotals(ctx context.Context, asOf time.Time) ([]AccountTotals, error) {
	return r.totals, nil
}

func (r *fakeReportRepo) ActiveAccountTotalsRange(ctx context.Context, from, to time.Time) ([]AccountTotals, error) {
	return r.totals, nil
}

func (r *fakeReportRepo) TotalsFor(ctx context.Context, accountID int64, upTo time.Time) (decimal.Decimal, decimal.Decimal, error) {
	var debit, credit decimal.Decimal
	for _, t := range r.totals {
		if t.AccountID == accountID {
			debit = debit.Add(t.Debit)
			credit = credit.Add(t.Credit)
		}
	}
	return debit, credit, nil
}

func (r *fakeReportRepo) Lines(ctx context.Context, accountID int64, from, to time.Time) ([]LedgerLine, error) {
	return r.lines, nil
}

func (r *fakeReportRepo) BankMovements(ctx context.Context, from, to time.Time) ([]BankMovement, error) {
	return nil, nil
}

type fakeSettingsStore struct{}

func (fakeSettingsStore) GetOrCreate(ctx context.Context) (settings.Settings, error) {
	return settings.Defaults(), nil
}

func newReportService(repo Repository) *Service {
	return NewService(slog.Default(), repo, fakeSettingsStore{}, NewCache(nil, time.Minute, slog.Default()))
}

func TestBalanceCreditedBankReadsNegative(t *testing.T) {
	repo := &fakeReportRepo{
		accounts: map[int64]accounts.Account{
			1: {ID: 1, Name: "Cash", Type: accounts.AccountTypeBank},
		},
		totals: []AccountTotals{
			{AccountID: 1, Name: "Cash", Type: accounts.AccountTypeBank, Credit: d("500")},
		},
	}
	svc := newReportService(repo)

	balance, err := svc.Balance(context.Background(), 1, time.Now())
	require.NoError(t, err)
	require.True(t, balance.Balance.Equal(d("-500")), "got %s", balance.Balance)
}

func TestProfitLossUsesSettingsRevenueAccount(t *testing.T) {
	repo := &fakeReportRepo{
		accounts: map[int64]accounts.Account{
			3: {ID: 3, Name: "Fuel Sales", Type: accounts.AccountTypeLiability, IsSystem: true},
		},
		totals: []AccountTotals{
			{AccountID: 3, Name: "Fuel Sales", Type: accounts.AccountTypeLiability, Credit: d("2000")},
			{AccountID: 5, Name: "Deposits Payable", Type: accounts.AccountTypeLiability, Credit: d("800")},
		},
	}
	svc := newReportService(repo)

	pl, err := svc.ProfitLoss(context.Background(), time.Now().AddDate(0, -1, 0), time.Now())
	require.NoError(t, err)
	require.True(t, pl.TotalRevenue.Equal(d("2000")))
	require.Len(t, pl.Revenue, 1)
}

func TestBalanceSheetExcludesRevenueFromLiabilities(t *testing.T) {
	repo := &fakeReportRepo{
		accounts: map[int64]accounts.Account{
			3: {ID: 3, Name: "Fuel Sales", Type: accounts.AccountTypeLiability, IsSystem: true},
		},
		totals: []AccountTotals{
			{AccountID: 1, Name: "Cash", Type: accounts.AccountTypeBank, Debit: d("2000")},
			{AccountID: 3, Name: "Fuel Sales", Type: accounts.AccountTypeLiability, Credit: d("2000")},
		},
	}
	svc := newReportService(repo)

	bs, err := svc.BalanceSheet(context.Background(), time.Now())
	require.NoError(t, err)
	require.True(t, bs.Balanced())
	require.Empty(t, bs.Liabilities)
	require.True(t, bs.Equity.Equal(d("2000")))
}

func TestBalanceUnknownAccount(t *testing.T) {
	svc := newReportService(&fakeReportRepo{accounts: map[int64]accounts.Account{}})

	_, err := svc.Balance(context.Background(), 99, time.Now())
	require.ErrorIs(t, err, shared.ErrAccountNotFound)
}

func TestGeneralLedgerUnknownAccount(t *testing.T) {
	svc := newReportService(&fakeReportRepo{accounts: map[int64]accounts.Account{}})

	_, err := svc.GeneralLedger(context.Background(), 99, time.Now().AddDate(0, -1, 0), time.Now())
	require.ErrorIs(t, err, shared.ErrNotFound)
}
