package integration

import (
	"time"

	"github.com/shopspring/decimal"
)

// Event payloads arrive from the purchasing, point-of-sale, and credit
// partner subsystems with totals already computed. The adapter trusts them
// and never recomputes tax or pricing.

// PurchaseEvent describes a completed purchase from a vendor.
type PurchaseEvent struct {
	Reference   string          `json:"reference"`
	VendorID    string          `json:"vendor_id"`
	VendorName  string          `json:"vendor_name"`
	TotalAmount decimal.Decimal `json:"total_amount"`
	Date        time.Time       `json:"date"`
}

// SaleEvent describes one completed sale. A sale with a customer reference
// is on credit and debits the customer's receivable; a walk-in sale debits
// the bank/cash account.
type SaleEvent struct {
	Reference    string          `json:"reference"`
	CustomerID   string          `json:"customer_id"`
	CustomerName string          `json:"customer_name"`
	TotalAmount  decimal.Decimal `json:"total_amount"`
	Date         time.Time       `json:"date"`
}

// PaymentEvent describes a recorded customer payment. Refund reverses the
// debit and credit sides.
type PaymentEvent struct {
	Reference    string          `json:"reference"`
	CustomerID   string          `json:"customer_id"`
	CustomerName string          `json:"customer_name"`
	Amount       decimal.Decimal `json:"amount"`
	Date         time.Time       `json:"date"`
	Refund       bool            `json:"refund"`
}

// Options tune one translation call.
type Options struct {
	// AutoCreateAccounts permits lazy creation of missing mapping accounts.
	// When false, a missing account fails the call with MissingMappingAccount.
	AutoCreateAccounts bool
}

// DefaultOptions allows lazy account creation.
func DefaultOptions() Options {
	return Options{AutoCreateAccounts: true}
}
