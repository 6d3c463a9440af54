package vouchers

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	shared "github.com/octane-erp/octane-erp/internal/ledger/shared"
	internalshared "github.com/octane-erp/octane-erp/internal/shared"
)

// AuditPort records voucher mutations. Failures are logged, never surfaced.
type AuditPort interface {
	Record(ctx context.Context, log internalshared.AuditLog) error
}

// CacheInvalidator drops derived report caches after the ledger changes.
type CacheInvalidator interface {
	Invalidate(ctx context.Context) error
}

// Service is the voucher engine: it owns posting and cancellation and is,
// with the account registry, the only mutation path into the ledger.
type Service struct {
	repo   Repository
	audit  AuditPort
	cache  CacheInvalidator
	logger *slog.Logger
	now    func() time.Time
}

// NewService builds the voucher engine.
func NewService(repo Repository, audit AuditPort, logger *slog.Logger) *Service {
	return &Service{repo: repo, audit: audit, logger: logger, now: time.Now}
}

// WithNow overrides the clock, for tests.
func (s *Service) WithNow(now func() time.Time) {
	if now != nil {
		s.now = now
	}
}

// SetReportCache wires the optional report cache invalidation hook.
func (s *Service) SetReportCache(cache CacheInvalidator) {
	s.cache = cache
}

// Create validates and posts a voucher with its entries as one atomic unit.
// Either the voucher and every entry are durably created together, or
// nothing is.
func (s *Service) Create(ctx context.Context, in CreateVoucherInput) (Voucher, error) {
	if err := in.Validate(); err != nil {
		return Voucher{}, err
	}
	if err := resolveAccounts(ctx, s.repo, in.Entries); err != nil {
		return Voucher{}, shared.Opaque(s.logger, "vouchers.create", err)
	}
	if err := in.CheckBalance(); err != nil {
		return Voucher{}, err
	}
	createdBy := internalshared.ActorFromContext(ctx)
	var voucher Voucher
	err := s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		if err := resolveAccounts(ctx, tx, in.Entries); err != nil {
			return err
		}
		inserted, err := tx.InsertVoucher(ctx, in, createdBy)
		if err != nil {
			return err
		}
		entries, err := tx.InsertEntries(ctx, inserted.ID, in.Entries)
		if err != nil {
			return err
		}
		inserted.Entries = entries
		voucher = inserted
		return nil
	})
	if err != nil {
		return Voucher{}, shared.Opaque(s.logger, "vouchers.create", err)
	}
	s.invalidate(ctx)
	s.record(ctx, "voucher.post", voucher.ID, map[string]any{
		"number": voucher.Number,
		"type":   voucher.Type,
		"total":  voucher.TotalAmount.String(),
	})
	return voucher, nil
}

// Cancel transitions a voucher Posted→Cancelled. The transition is terminal
// and idempotent-checked: a retried cancellation fails with AlreadyCancelled
// and changes nothing. Entries stay stored for audit but are excluded from
// every balance and report computation.
func (s *Service) Cancel(ctx context.Context, id int64) (Voucher, error) {
	var voucher Voucher
	err := s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		current, err := tx.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if current.Status == VoucherStatusCancelled {
			return fmt.Errorf("%w: voucher %d", shared.ErrAlreadyCancelled, id)
		}
		at := s.now().UTC()
		if err := tx.MarkCancelled(ctx, id, at); err != nil {
			return err
		}
		current.Status = VoucherStatusCancelled
		current.CancelledAt = &at
		voucher = current
		return nil
	})
	if err != nil {
		return Voucher{}, shared.Opaque(s.logger, "vouchers.cancel", err)
	}
	s.invalidate(ctx)
	s.record(ctx, "voucher.cancel", voucher.ID, map[string]any{"number": voucher.Number})
	return voucher, nil
}

// ValidateBalance is a dry-run of the entry shape and balance checks. The
// totals come back even when the sides differ so a caller can show the gap
// before committing.
func (s *Service) ValidateBalance(ctx context.Context, entries []EntryInput) (BalanceCheck, error) {
	if len(entries) == 0 {
		return BalanceCheck{}, shared.ErrNoEntries
	}
	for idx, entry := range entries {
		if err := validateEntryShape(idx, entry); err != nil {
			return BalanceCheck{}, err
		}
	}
	if err := resolveAccounts(ctx, s.repo, entries); err != nil {
		return BalanceCheck{}, shared.Opaque(s.logger, "vouchers.validate", err)
	}
	debit, credit := totals(entries)
	return BalanceCheck{
		Balanced:    debit.Equal(credit),
		DebitTotal:  debit,
		CreditTotal: credit,
		Difference:  debit.Sub(credit),
	}, nil
}

// Get returns one voucher with its entries, cancelled included.
func (s *Service) Get(ctx context.Context, id int64) (Voucher, error) {
	voucher, err := s.repo.Get(ctx, id)
	if err != nil {
		return Voucher{}, shared.Opaque(s.logger, "vouchers.get", err)
	}
	return voucher, nil
}

// List returns vouchers matching the filter, newest first.
func (s *Service) List(ctx context.Context, filter ListFilter) ([]Voucher, error) {
	vouchers, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, shared.Opaque(s.logger, "vouchers.list", err)
	}
	return vouchers, nil
}

type accountResolver interface {
	ActiveAccountIDs(ctx context.Context, ids []int64) (map[int64]bool, error)
}

func resolveAccounts(ctx context.Context, resolver accountResolver, entries []EntryInput) error {
	ids := make([]int64, 0, len(entries))
	seen := make(map[int64]bool, len(entries))
	for _, entry := range entries {
		if !seen[entry.AccountID] {
			seen[entry.AccountID] = true
			ids = append(ids, entry.AccountID)
		}
	}
	active, err := resolver.ActiveAccountIDs(ctx, ids)
	if err != nil {
		return err
	}
	for _, id := range ids {
		if !active[id] {
			return fmt.Errorf("%w: account %d", shared.ErrAccountNotFound, id)
		}
	}
	return nil
}

func (s *Service) invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx); err != nil && s.logger != nil {
		s.logger.Warn("report cache invalidation failed", slog.Any("error", err))
	}
}

func (s *Service) record(ctx context.Context, action string, id int64, meta map[string]any) {
	if s.audit == nil {
		return
	}
	if err := s.audit.Record(ctx, internalshared.AuditLog{
		Actor:    internalshared.ActorFromContext(ctx),
		Action:   action,
		Entity:   "voucher",
		EntityID: fmt.Sprintf("%d", id),
		Meta:     meta,
	}); err != nil && s.logger != nil {
		s.logger.Warn("audit record failed", slog.String("action", action), slog.Any("error", err))
	}
}
