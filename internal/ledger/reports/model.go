package reports

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/octane-erp/octane-erp/internal/ledger/accounts"
)

// AccountTotals carries an account's raw posted debit and credit sums over
// some window. Cancelled vouchers never contribute.
type AccountTotals struct {
	AccountID int64                `json:"account_id"`
	Name      string               `json:"name"`
	Type      accounts.AccountType `json:"account_type"`
	Debit     decimal.Decimal      `json:"debit"`
	Credit    decimal.Decimal      `json:"credit"`
}

// NaturalBalance signs the raw totals by the account's natural side:
// debit-natured accounts read debit minus credit, credit-natured accounts
// the reverse.
func NaturalBalance(t accounts.AccountType, debit, credit decimal.Decimal) decimal.Decimal {
	if t.DebitNatured() {
		return debit.Sub(credit)
	}
	return credit.Sub(debit)
}

// LedgerLine is one posted entry joined to its voucher, as shown in the
// general ledger of a single account.
type LedgerLine struct {
	VoucherID int64           `json:"voucher_id"`
	Number    int64           `json:"voucher_number"`
	Date      time.Time       `json:"date"`
	Type      string          `json:"voucher_type"`
	Narration string          `json:"narration"`
	Debit     decimal.Decimal `json:"debit"`
	Credit    decimal.Decimal `json:"credit"`
}

// BankMovement is one posted entry on a bank account annotated with the
// dominant counter-account type of its voucher.
type BankMovement struct {
	VoucherID   int64
	Date        time.Time
	Debit       decimal.Decimal
	Credit      decimal.Decimal
	CounterType accounts.AccountType
}
