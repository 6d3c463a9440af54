package integrity

import (
	"context"
	"log/slog"
	"time"

	shared "github.com/octane-erp/octane-erp/internal/ledger/shared"
)

// Service recomputes ledger invariants from raw entries. Posting enforces
// them transactionally, so a failing check points at out-of-band writes.
type Service struct {
	repo   Repository
	logger *slog.Logger
	now    func() time.Time
}

func NewService(logger *slog.Logger, repo Repository) *Service {
	return &Service{repo: repo, logger: logger, now: time.Now}
}

// WithNow overrides the clock. Test hook.
func (s *Service) WithNow(now func() time.Time) *Service {
	s.now = now
	return s
}

// Check runs the full sweep: global debit/credit equality, per-voucher
// balance, and stored voucher totals against recomputed entry sums.
func (s *Service) Check(ctx context.Context) (Report, error) {
	report := Report{CheckedAt: s.now().UTC()}
	var err error
	report.TotalDebit, report.TotalCredit, err = s.repo.GlobalTotals(ctx)
	if err != nil {
		return Report{}, s.opaque("integrity.check", err)
	}
	report.Discrepancy = report.TotalDebit.Sub(report.TotalCredit)
	report.UnbalancedVouchers, err = s.repo.UnbalancedVouchers(ctx)
	if err != nil {
		return Report{}, s.opaque("integrity.check", err)
	}
	for i := range report.UnbalancedVouchers {
		report.UnbalancedVouchers[i].Detail = "entry debits do not equal entry credits"
	}
	report.TotalMismatches, err = s.repo.TotalMismatches(ctx)
	if err != nil {
		return Report{}, s.opaque("integrity.check", err)
	}
	for i := range report.TotalMismatches {
		report.TotalMismatches[i].Detail = "stored total does not match recomputed entry sum"
	}
	report.Healthy = report.Discrepancy.IsZero() &&
		len(report.UnbalancedVouchers) == 0 && len(report.TotalMismatches) == 0
	if !report.Healthy {
		s.logger.Error("ledger integrity check failed",
			slog.String("discrepancy", report.Discrepancy.String()),
			slog.Int("unbalanced_vouchers", len(report.UnbalancedVouchers)),
			slog.Int("total_mismatches", len(report.TotalMismatches)))
	}
	return report, nil
}

// AccountProtection reports whether an account may be removed: system
// accounts never, accounts with posted entries never.
func (s *Service) AccountProtection(ctx context.Context, accountID int64) (Protection, error) {
	isSystem, entries, err := s.repo.AccountProtection(ctx, accountID)
	if err != nil {
		return Protection{}, s.opaque("integrity.protection", err)
	}
	return Protection{
		AccountID:       accountID,
		IsSystemAccount: isSystem,
		HasEntries:      entries > 0,
		IsDeletable:     !isSystem && entries == 0,
	}, nil
}

func (s *Service) opaque(op string, err error) error {
	return shared.Opaque(s.logger, op, err)
}
