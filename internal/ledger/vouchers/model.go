package vouchers

import (
	"time"

	"github.com/shopspring/decimal"
)

// VoucherType enumerates the journal classes the engine posts.
type VoucherType string

const (
	VoucherTypePayment VoucherType = "PAYMENT"
	VoucherTypeReceipt VoucherType = "RECEIPT"
	VoucherTypeJournal VoucherType = "JOURNAL"
)

// Valid reports whether t belongs to the enumerated set.
func (t VoucherType) Valid() bool {
	switch t {
	case VoucherTypePayment, VoucherTypeReceipt, VoucherTypeJournal:
		return true
	}
	return false
}

// VoucherStatus enumerates voucher lifecycle values. POSTED is the only
// state a voucher is created in; CANCELLED is terminal. Cancellation is the
// deletion substitute — rows are never removed.
type VoucherStatus string

const (
	VoucherStatusPosted    VoucherStatus = "POSTED"
	VoucherStatusCancelled VoucherStatus = "CANCELLED"
)

// Voucher is an atomic, balanced financial transaction.
type Voucher struct {
	ID          int64
	Number      int64
	Date        time.Time
	Type        VoucherType
	Reference   string
	Narration   string
	TotalAmount decimal.Decimal
	Status      VoucherStatus
	CreatedBy   string
	CreatedAt   time.Time
	CancelledAt *time.Time
	Entries     []Entry
}

// Entry is one debit or credit leg of a voucher. Exactly one of the two
// amounts is strictly positive.
type Entry struct {
	ID        int64
	VoucherID int64
	AccountID int64
	Debit     decimal.Decimal
	Credit    decimal.Decimal
	Narration string
}
