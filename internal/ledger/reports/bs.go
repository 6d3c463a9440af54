package reports

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// BalanceSheetLine is one account's position on the balance sheet.
type BalanceSheetLine struct {
	AccountID int64           `json:"account_id"`
	Name      string          `json:"name"`
	Type      string          `json:"account_type"`
	Amount    decimal.Decimal `json:"amount"`
}

// BalanceSheet states the accounting identity as of a date. Equity is not
// a ledger account here: it is the cumulative net result, revenue minus
// expenses since inception, which is exactly what makes the identity hold.
type BalanceSheet struct {
	AsOf             time.Time          `json:"as_of"`
	Assets           []BalanceSheetLine `json:"assets"`
	Liabilities      []BalanceSheetLine `json:"liabilities"`
	TotalAssets      decimal.Decimal    `json:"total_assets"`
	TotalLiabilities decimal.Decimal    `json:"total_liabilities"`
	Equity           decimal.Decimal    `json:"equity"`
}

// Balanced reports whether Assets = Liabilities + Equity holds exactly.
func (bs BalanceSheet) Balanced() bool {
	return bs.TotalAssets.Equal(bs.TotalLiabilities.Add(bs.Equity))
}

// BuildBalanceSheet sections cumulative totals into assets and liabilities.
// Asset, bank and customer accounts sit on the asset side; liability and
// vendor accounts on the other. Revenue accounts (revenueIDs) are excluded
// from the liability section and folded into equity together with expenses.
func BuildBalanceSheet(asOf time.Time, totals []AccountTotals, revenueIDs map[int64]bool) BalanceSheet {
	bs := BalanceSheet{AsOf: asOf}
	for _, t := range totals {
		amount := NaturalBalance(t.Type, t.Debit, t.Credit)
		line := BalanceSheetLine{AccountID: t.AccountID, Name: t.Name, Type: string(t.Type), Amount: amount}
		switch {
		case t.Type.Expense():
			bs.Equity = bs.Equity.Sub(amount)
		case t.Type.DebitNatured():
			bs.Assets = append(bs.Assets, line)
			bs.TotalAssets = bs.TotalAssets.Add(amount)
		case revenueIDs[t.AccountID]:
			bs.Equity = bs.Equity.Add(amount)
		default:
			bs.Liabilities = append(bs.Liabilities, line)
			bs.TotalLiabilities = bs.TotalLiabilities.Add(amount)
		}
	}
	sort.Slice(bs.Assets, func(i, j int) bool { return bs.Assets[i].Name < bs.Assets[j].Name })
	sort.Slice(bs.Liabilities, func(i, j int) bool { return bs.Liabilities[i].Name < bs.Liabilities[j].Name })
	return bs
}
