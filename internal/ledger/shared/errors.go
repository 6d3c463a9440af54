package shared

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
)

var (
	// ErrInvalidAccountType indicates an account type outside the chart-of-accounts set.
	ErrInvalidAccountType = errors.New("ledger: invalid account type")
	// ErrDuplicateName indicates an active account already carries the name.
	ErrDuplicateName = errors.New("ledger: account name already in use")
	// ErrNotFound indicates a missing account or voucher.
	ErrNotFound = errors.New("ledger: not found")
	// ErrProtectedSystemAccount indicates a system account cannot be archived.
	ErrProtectedSystemAccount = errors.New("ledger: system account is protected")
	// ErrAccountHasEntries indicates posted entries still reference the account.
	ErrAccountHasEntries = errors.New("ledger: account has posted entries")
	// ErrInvalidVoucherType indicates a voucher type outside the enumerated set.
	ErrInvalidVoucherType = errors.New("ledger: invalid voucher type")
	// ErrNoEntries indicates a voucher without entries.
	ErrNoEntries = errors.New("ledger: voucher has no entries")
	// ErrMixedOrEmptyEntry indicates an entry that is not exactly one of debit or credit.
	ErrMixedOrEmptyEntry = errors.New("ledger: entry must carry exactly one of debit or credit")
	// ErrAccountNotFound indicates an entry referencing an unknown or archived account.
	ErrAccountNotFound = errors.New("ledger: entry account not found")
	// ErrVoucherDoesNotBalance indicates debit and credit totals differ.
	ErrVoucherDoesNotBalance = errors.New("ledger: voucher does not balance")
	// ErrAlreadyCancelled indicates a second cancellation of the same voucher.
	ErrAlreadyCancelled = errors.New("ledger: voucher already cancelled")
	// ErrMissingMappingAccount indicates a mapping account that must pre-exist is absent.
	ErrMissingMappingAccount = errors.New("ledger: mapping account missing")
	// ErrPersistenceFailure wraps unexpected storage errors surfaced to callers.
	ErrPersistenceFailure = errors.New("ledger: persistence failure")
)

var taxonomy = []error{
	ErrInvalidAccountType,
	ErrDuplicateName,
	ErrNotFound,
	ErrProtectedSystemAccount,
	ErrAccountHasEntries,
	ErrInvalidVoucherType,
	ErrNoEntries,
	ErrMixedOrEmptyEntry,
	ErrAccountNotFound,
	ErrVoucherDoesNotBalance,
	ErrAlreadyCancelled,
	ErrMissingMappingAccount,
}

// IsDomain reports whether err belongs to the ledger error taxonomy.
// Anything else is treated as a storage fault and surfaced opaquely.
func IsDomain(err error) bool {
	for _, sentinel := range taxonomy {
		if errors.Is(err, sentinel) {
			return true
		}
	}
	return false
}

// Opaque passes taxonomy errors through unchanged and replaces anything else
// with ErrPersistenceFailure carrying a correlation reference. The full
// cause is logged; callers only ever see the reference.
func Opaque(logger *slog.Logger, op string, err error) error {
	if err == nil || IsDomain(err) {
		return err
	}
	ref := uuid.NewString()
	if logger != nil {
		logger.Error("storage failure", slog.String("op", op), slog.String("ref", ref), slog.Any("error", err))
	}
	return fmt.Errorf("%w: ref %s", ErrPersistenceFailure, ref)
}
