package vouchers

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	shared "github.com/octane-erp/octane-erp/internal/ledger/shared"
)

// EntryInput describes one leg of a voucher being posted.
type EntryInput struct {
	AccountID int64           `json:"ledger_account_id"`
	Debit     decimal.Decimal `json:"debit_amount"`
	Credit    decimal.Decimal `json:"credit_amount"`
	Narration string          `json:"narration"`
}

// CreateVoucherInput groups the fields required to post a voucher.
type CreateVoucherInput struct {
	Date      time.Time
	Type      VoucherType
	Reference string
	Narration string
	Entries   []EntryInput
}

// Validate runs the store-free posting checks: voucher metadata, entry
// presence, then per-entry shape. The engine resolves the referenced
// accounts next and compares the sides last, so a bad account surfaces
// before an imbalance does.
func (in CreateVoucherInput) Validate() error {
	if in.Date.IsZero() {
		return errors.New("ledger: voucher date required")
	}
	if !in.Type.Valid() {
		return fmt.Errorf("%w: %q", shared.ErrInvalidVoucherType, in.Type)
	}
	if len(in.Entries) == 0 {
		return shared.ErrNoEntries
	}
	for idx, entry := range in.Entries {
		if err := validateEntryShape(idx, entry); err != nil {
			return err
		}
	}
	return nil
}

// CheckBalance enforces exact equality of the two sides.
func (in CreateVoucherInput) CheckBalance() error {
	debit, credit := totals(in.Entries)
	if !debit.Equal(credit) {
		return fmt.Errorf("%w: debit %s, credit %s", shared.ErrVoucherDoesNotBalance, debit, credit)
	}
	return nil
}

// Total is the voucher amount: the common value of both sides.
func (in CreateVoucherInput) Total() decimal.Decimal {
	debit, credit := totals(in.Entries)
	if debit.GreaterThanOrEqual(credit) {
		return debit
	}
	return credit
}

func validateEntryShape(idx int, entry EntryInput) error {
	if entry.Debit.Sign() < 0 || entry.Credit.Sign() < 0 {
		return fmt.Errorf("%w: line %d carries a negative amount", shared.ErrMixedOrEmptyEntry, idx)
	}
	debitSet := shared.Positive(entry.Debit)
	creditSet := shared.Positive(entry.Credit)
	if debitSet == creditSet {
		return fmt.Errorf("%w: line %d", shared.ErrMixedOrEmptyEntry, idx)
	}
	return nil
}

func totals(entries []EntryInput) (debit, credit decimal.Decimal) {
	for _, entry := range entries {
		debit = debit.Add(entry.Debit)
		credit = credit.Add(entry.Credit)
	}
	return debit, credit
}

// BalanceCheck is the result of the dry-run balance validation.
type BalanceCheck struct {
	Balanced    bool            `json:"balanced"`
	DebitTotal  decimal.Decimal `json:"debit_total"`
	CreditTotal decimal.Decimal `json:"credit_total"`
	Difference  decimal.Decimal `json:"difference"`
}

// ListFilter narrows voucher listings.
type ListFilter struct {
	Status VoucherStatus
	Type   VoucherType
	From   time.Time
	To     time.Time
}
