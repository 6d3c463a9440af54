package integrity

import (
	"time"

	"github.com/shopspring/decimal"
)

// VoucherIssue flags one voucher that violates an engine invariant.
type VoucherIssue struct {
	VoucherID   int64           `json:"voucher_id"`
	Number      int64           `json:"voucher_number"`
	Date        time.Time       `json:"date"`
	DebitTotal  decimal.Decimal `json:"debit_total"`
	CreditTotal decimal.Decimal `json:"credit_total"`
	Stored      decimal.Decimal `json:"stored_total"`
	Detail      string          `json:"detail"`
}

// Report is the result of a full ledger integrity sweep. A healthy ledger
// has equal global totals and no per-voucher issues; anything else means
// data was changed outside the posting path.
type Report struct {
	CheckedAt          time.Time       `json:"checked_at"`
	TotalDebit         decimal.Decimal `json:"total_debit"`
	TotalCredit        decimal.Decimal `json:"total_credit"`
	Discrepancy        decimal.Decimal `json:"discrepancy"`
	UnbalancedVouchers []VoucherIssue  `json:"unbalanced_vouchers"`
	TotalMismatches    []VoucherIssue  `json:"total_mismatches"`
	Healthy            bool            `json:"healthy"`
}

// Protection describes whether an account can be removed from the chart.
type Protection struct {
	AccountID       int64 `json:"account_id"`
	IsSystemAccount bool  `json:"is_system_account"`
	HasEntries      bool  `json:"has_entries"`
	IsDeletable     bool  `json:"is_deletable"`
}
