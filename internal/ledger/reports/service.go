package reports

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"github.com/octane-erp/octane-erp/internal/ledger/settings"
	shared "github.com/octane-erp/octane-erp/internal/ledger/shared"
)

// SettingsStore yields the per-tenant configuration naming the revenue
// account, so the P&L and balance sheet know which liability-typed account
// carries sales income.
type SettingsStore interface {
	GetOrCreate(ctx context.Context) (settings.Settings, error)
}

// Service assembles reports from store aggregations. All builders are pure;
// the service's job is fetching inputs, caching, and error translation.
type Service struct {
	repo   Repository
	store  SettingsStore
	cache  *Cache
	logger *slog.Logger
}

func NewService(logger *slog.Logger, repo Repository, store SettingsStore, cache *Cache) *Service {
	return &Service{repo: repo, store: store, cache: cache, logger: logger}
}

// AccountBalance is an account's signed natural balance as of a date.
type AccountBalance struct {
	AccountID int64           `json:"account_id"`
	Name      string          `json:"name"`
	Type      string          `json:"account_type"`
	AsOf      time.Time       `json:"as_of"`
	Balance   decimal.Decimal `json:"balance"`
}

// TrialBalance renders the trial balance as of a date, served from cache
// when a fresh copy exists.
func (s *Service) TrialBalance(ctx context.Context, asOf time.Time) (TrialBalance, error) {
	if tb, ok := s.cache.GetTrialBalance(ctx, asOf); ok {
		return tb, nil
	}
	totals, err := s.repo.ActiveAccountTotals(ctx, asOf)
	if err != nil {
		return TrialBalance{}, s.opaque("reports.trial_balance", err)
	}
	tb := BuildTrialBalance(asOf, totals)
	s.cache.SetTrialBalance(ctx, asOf, tb)
	return tb, nil
}

// ProfitLoss renders trading performance over [from, to].
func (s *Service) ProfitLoss(ctx context.Context, from, to time.Time) (ProfitLoss, error) {
	totals, err := s.repo.ActiveAccountTotalsRange(ctx, from, to)
	if err != nil {
		return ProfitLoss{}, s.opaque("reports.profit_loss", err)
	}
	revenueIDs, err := s.revenueIDs(ctx)
	if err != nil {
		return ProfitLoss{}, err
	}
	return BuildProfitLoss(from, to, totals, revenueIDs), nil
}

// BalanceSheet renders financial position as of a date.
func (s *Service) BalanceSheet(ctx context.Context, asOf time.Time) (BalanceSheet, error) {
	totals, err := s.repo.ActiveAccountTotals(ctx, asOf)
	if err != nil {
		return BalanceSheet{}, s.opaque("reports.balance_sheet", err)
	}
	revenueIDs, err := s.revenueIDs(ctx)
	if err != nil {
		return BalanceSheet{}, err
	}
	return BuildBalanceSheet(asOf, totals, revenueIDs), nil
}

// GeneralLedger renders one account's statement over [from, to], opening
// balance included.
func (s *Service) GeneralLedger(ctx context.Context, accountID int64, from, to time.Time) (GeneralLedger, error) {
	acct, err := s.repo.AccountByID(ctx, accountID)
	if err != nil {
		return GeneralLedger{}, s.opaque("reports.general_ledger", err)
	}
	openDebit, openCredit, err := s.repo.TotalsFor(ctx, accountID, from.AddDate(0, 0, -1))
	if err != nil {
		return GeneralLedger{}, s.opaque("reports.general_ledger", err)
	}
	lines, err := s.repo.Lines(ctx, accountID, from, to)
	if err != nil {
		return GeneralLedger{}, s.opaque("reports.general_ledger", err)
	}
	opening := NaturalBalance(acct.Type, openDebit, openCredit)
	return BuildGeneralLedger(acct, from, to, opening, lines), nil
}

// CashFlow renders bank movement over [from, to] grouped by counterparty
// category.
func (s *Service) CashFlow(ctx context.Context, from, to time.Time) (CashFlow, error) {
	movements, err := s.repo.BankMovements(ctx, from, to)
	if err != nil {
		return CashFlow{}, s.opaque("reports.cash_flow", err)
	}
	return BuildCashFlow(from, to, movements), nil
}

// Balance returns an account's signed natural balance as of a date.
// Debit-natured accounts report debits minus credits, so a credited bank
// account reads negative.
func (s *Service) Balance(ctx context.Context, accountID int64, asOf time.Time) (AccountBalance, error) {
	acct, err := s.repo.AccountByID(ctx, accountID)
	if errors.Is(err, shared.ErrNotFound) {
		return AccountBalance{}, shared.ErrAccountNotFound
	}
	if err != nil {
		return AccountBalance{}, s.opaque("reports.balance", err)
	}
	debit, credit, err := s.repo.TotalsFor(ctx, accountID, asOf)
	if err != nil {
		return AccountBalance{}, s.opaque("reports.balance", err)
	}
	return AccountBalance{
		AccountID: acct.ID,
		Name:      acct.Name,
		Type:      string(acct.Type),
		AsOf:      asOf,
		Balance:   NaturalBalance(acct.Type, debit, credit),
	}, nil
}

// revenueIDs resolves the settings-designated revenue account. A missing or
// archived revenue account simply yields no revenue section.
func (s *Service) revenueIDs(ctx context.Context) (map[int64]bool, error) {
	cfg, err := s.store.GetOrCreate(ctx)
	if err != nil {
		return nil, s.opaque("reports.settings", err)
	}
	ids := make(map[int64]bool, 1)
	id, err := s.repo.FindActiveIDByName(ctx, cfg.RevenueAccount)
	if errors.Is(err, shared.ErrNotFound) {
		return ids, nil
	}
	if err != nil {
		return nil, s.opaque("reports.settings", err)
	}
	ids[id] = true
	return ids, nil
}

func (s *Service) opaque(op string, err error) error {
	return shared.Opaque(s.logger, op, err)
}
