package settings

import "time"

// Settings is the per-tenant configuration consulted by the integration
// adapter on every event translation. A singleton row per ledger store,
// created with defaults on first access.
type Settings struct {
	AutoPostPurchases bool      `json:"purchase_auto_entries"`
	AutoPostSales     bool      `json:"sales_auto_entries"`
	AutoPostPayments  bool      `json:"payment_auto_entries"`
	PurchaseAccount   string    `json:"purchase_expense_account"`
	RevenueAccount    string    `json:"sales_revenue_account"`
	BankAccount       string    `json:"default_bank_account"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// Defaults returns the configuration a fresh tenant starts with. The named
// accounts are created lazily by the adapter as system accounts.
func Defaults() Settings {
	return Settings{
		AutoPostPurchases: true,
		AutoPostSales:     true,
		AutoPostPayments:  true,
		PurchaseAccount:   "Fuel Purchases",
		RevenueAccount:    "Fuel Sales",
		BankAccount:       "Cash",
	}
}
