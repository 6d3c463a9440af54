package reports

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/octane-erp/octane-erp/internal/ledger/accounts"
)

// ProfitLossLine is one account's contribution to a P&L section, signed by
// the account's natural side.
type ProfitLossLine struct {
	AccountID int64           `json:"account_id"`
	Name      string          `json:"name"`
	Amount    decimal.Decimal `json:"amount"`
}

// ProfitLoss covers trading performance over a period. Revenue accounts are
// the ones integration settings designate for sales income; everything typed
// as an expense lands in its matching section.
type ProfitLoss struct {
	From             time.Time        `json:"from"`
	To               time.Time        `json:"to"`
	Revenue          []ProfitLossLine `json:"revenue"`
	DirectExpenses   []ProfitLossLine `json:"direct_expenses"`
	IndirectExpenses []ProfitLossLine `json:"indirect_expenses"`
	TotalRevenue     decimal.Decimal  `json:"total_revenue"`
	TotalDirect      decimal.Decimal  `json:"total_direct_expenses"`
	TotalIndirect    decimal.Decimal  `json:"total_indirect_expenses"`
	GrossResult      decimal.Decimal  `json:"gross_result"`
	NetResult        decimal.Decimal  `json:"net_result"`
}

// BuildProfitLoss sections period totals into revenue and expenses.
// revenueIDs marks the settings-designated income accounts; other
// non-expense accounts do not appear on the P&L at all.
func BuildProfitLoss(from, to time.Time, totals []AccountTotals, revenueIDs map[int64]bool) ProfitLoss {
	pl := ProfitLoss{From: from, To: to}
	for _, t := range totals {
		amount := NaturalBalance(t.Type, t.Debit, t.Credit)
		line := ProfitLossLine{AccountID: t.AccountID, Name: t.Name, Amount: amount}
		switch {
		case revenueIDs[t.AccountID]:
			pl.Revenue = append(pl.Revenue, line)
			pl.TotalRevenue = pl.TotalRevenue.Add(amount)
		case t.Type == accounts.AccountTypeDirectExpense:
			pl.DirectExpenses = append(pl.DirectExpenses, line)
			pl.TotalDirect = pl.TotalDirect.Add(amount)
		case t.Type == accounts.AccountTypeIndirectExpense:
			pl.IndirectExpenses = append(pl.IndirectExpenses, line)
			pl.TotalIndirect = pl.TotalIndirect.Add(amount)
		}
	}
	for _, s := range [][]ProfitLossLine{pl.Revenue, pl.DirectExpenses, pl.IndirectExpenses} {
		sort.Slice(s, func(i, j int) bool { return s[i].Name < s[j].Name })
	}
	pl.GrossResult = pl.TotalRevenue.Sub(pl.TotalDirect)
	pl.NetResult = pl.GrossResult.Sub(pl.TotalIndirect)
	return pl
}
