package accounts

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	shared "github.com/octane-erp/octane-erp/internal/ledger/shared"
	internalshared "github.com/octane-erp/octane-erp/internal/shared"
)

// AuditPort records account mutations. Failures are logged, never surfaced.
type AuditPort interface {
	Record(ctx context.Context, log internalshared.AuditLog) error
}

// Service owns the chart of accounts.
type Service struct {
	repo   Repository
	audit  AuditPort
	logger *slog.Logger
}

// NewService builds the account registry service.
func NewService(repo Repository, audit AuditPort, logger *slog.Logger) *Service {
	return &Service{repo: repo, audit: audit, logger: logger}
}

// Create registers a new active account.
func (s *Service) Create(ctx context.Context, name string, accountType AccountType, isSystem bool) (Account, error) {
	if name == "" {
		return Account{}, errors.New("ledger: account name required")
	}
	if !accountType.Valid() {
		return Account{}, fmt.Errorf("%w: %q", shared.ErrInvalidAccountType, accountType)
	}
	var account Account
	err := s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		exists, err := tx.ActiveNameExists(ctx, name, 0)
		if err != nil {
			return err
		}
		if exists {
			return fmt.Errorf("%w: %q", shared.ErrDuplicateName, name)
		}
		account, err = tx.Insert(ctx, name, accountType, isSystem)
		return err
	})
	if err != nil {
		return Account{}, s.opaque("accounts.create", err)
	}
	s.record(ctx, "account.create", account.ID, map[string]any{"name": account.Name, "type": account.Type})
	return account, nil
}

// List returns accounts matching the filter in a stable order.
func (s *Service) List(ctx context.Context, filter ListFilter) ([]Account, error) {
	if filter.Type != "" && !filter.Type.Valid() {
		return nil, fmt.Errorf("%w: %q", shared.ErrInvalidAccountType, filter.Type)
	}
	accounts, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, s.opaque("accounts.list", err)
	}
	return accounts, nil
}

// Get resolves one account by id, archived included.
func (s *Service) Get(ctx context.Context, id int64) (Account, error) {
	account, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return Account{}, s.opaque("accounts.get", err)
	}
	return account, nil
}

// Update applies a partial patch. Type corrections are administrative:
// reports always use current metadata, so a change re-buckets history.
func (s *Service) Update(ctx context.Context, id int64, patch UpdateAccountRequest) (Account, error) {
	if patch.Type != nil && !AccountType(*patch.Type).Valid() {
		return Account{}, fmt.Errorf("%w: %q", shared.ErrInvalidAccountType, *patch.Type)
	}
	var account Account
	err := s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		current, err := tx.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if patch.Name != nil && *patch.Name != current.Name {
			exists, err := tx.ActiveNameExists(ctx, *patch.Name, id)
			if err != nil {
				return err
			}
			if exists {
				return fmt.Errorf("%w: %q", shared.ErrDuplicateName, *patch.Name)
			}
			current.Name = *patch.Name
		}
		if patch.Type != nil {
			current.Type = AccountType(*patch.Type)
		}
		if err := tx.Update(ctx, current); err != nil {
			return err
		}
		account = current
		return nil
	})
	if err != nil {
		return Account{}, s.opaque("accounts.update", err)
	}
	s.record(ctx, "account.update", account.ID, map[string]any{"name": account.Name, "type": account.Type})
	return account, nil
}

// Delete archives an account. System accounts and accounts with posted
// entries are protected; the row itself is never removed so historical
// reports keep resolving it.
func (s *Service) Delete(ctx context.Context, id int64) error {
	err := s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		account, err := tx.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if account.IsSystem {
			return fmt.Errorf("%w: %q", shared.ErrProtectedSystemAccount, account.Name)
		}
		count, err := tx.CountPostedEntries(ctx, id)
		if err != nil {
			return err
		}
		if count > 0 {
			return fmt.Errorf("%w: %q has %d entries", shared.ErrAccountHasEntries, account.Name, count)
		}
		return tx.Archive(ctx, id)
	})
	if err != nil {
		return s.opaque("accounts.delete", err)
	}
	s.record(ctx, "account.archive", id, nil)
	return nil
}

// FindActiveByName resolves an active account by its unique name. Used by
// the integration adapter to locate mapping accounts.
func (s *Service) FindActiveByName(ctx context.Context, name string) (Account, error) {
	account, err := s.repo.FindActiveByName(ctx, name)
	if err != nil {
		return Account{}, s.opaque("accounts.find", err)
	}
	return account, nil
}

func (s *Service) record(ctx context.Context, action string, id int64, meta map[string]any) {
	if s.audit == nil {
		return
	}
	if err := s.audit.Record(ctx, internalshared.AuditLog{
		Actor:    internalshared.ActorFromContext(ctx),
		Action:   action,
		Entity:   "ledger_account",
		EntityID: fmt.Sprintf("%d", id),
		Meta:     meta,
	}); err != nil && s.logger != nil {
		s.logger.Warn("audit record failed", slog.String("action", action), slog.Any("error", err))
	}
}

func (s *Service) opaque(op string, err error) error {
	return shared.Opaque(s.logger, op, err)
}
