package accounts

import "time"

// AccountType enumerates chart-of-accounts categories.
type AccountType string

const (
	AccountTypeDirectExpense   AccountType = "DIRECT_EXPENSE"
	AccountTypeIndirectExpense AccountType = "INDIRECT_EXPENSE"
	AccountTypeAsset           AccountType = "ASSET"
	AccountTypeLiability       AccountType = "LIABILITY"
	AccountTypeCustomer        AccountType = "CUSTOMER"
	AccountTypeVendor          AccountType = "VENDOR"
	AccountTypeBank            AccountType = "BANK"
)

// Valid reports whether t belongs to the enumerated set.
func (t AccountType) Valid() bool {
	switch t {
	case AccountTypeDirectExpense, AccountTypeIndirectExpense, AccountTypeAsset,
		AccountTypeLiability, AccountTypeCustomer, AccountTypeVendor, AccountTypeBank:
		return true
	}
	return false
}

// DebitNatured reports whether the account accumulates its balance on the
// debit side. Customer accounts are receivables and therefore debit-natured;
// Vendor accounts are payables and credit-natured.
func (t AccountType) DebitNatured() bool {
	switch t {
	case AccountTypeAsset, AccountTypeBank, AccountTypeCustomer,
		AccountTypeDirectExpense, AccountTypeIndirectExpense:
		return true
	}
	return false
}

// Expense reports whether the account belongs on the expense side of P&L.
func (t AccountType) Expense() bool {
	return t == AccountTypeDirectExpense || t == AccountTypeIndirectExpense
}

// AccountStatus enumerates account lifecycle values. Accounts are archived,
// never hard-deleted, so historical reports always resolve them.
type AccountStatus string

const (
	AccountStatusActive   AccountStatus = "ACTIVE"
	AccountStatusArchived AccountStatus = "ARCHIVED"
)

// Account models a ledger bucket in the chart of accounts.
type Account struct {
	ID        int64
	Name      string
	Type      AccountType
	IsSystem  bool
	Status    AccountStatus
	CreatedAt time.Time
	UpdatedAt time.Time
}
