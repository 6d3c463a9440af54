package reports

import (
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// printer renders amounts for the display fields the back-office UI shows
// next to the raw figures. Station operators read grouped digits, so
// 1234567.50 prints as 1,234,567.50.
var printer = message.NewPrinter(language.English)

// DisplayAmount formats a decimal with digit grouping and two fraction
// digits. The raw decimal stays in the payload for machine consumers.
func DisplayAmount(d decimal.Decimal) string {
	f, _ := d.Float64()
	return printer.Sprint(number.Decimal(f, number.MinFractionDigits(2), number.MaxFractionDigits(2)))
}

// TrialBalanceView decorates the trial balance with display strings.
type TrialBalanceView struct {
	TrialBalance
	TotalDebitDisplay  string `json:"total_debit_display"`
	TotalCreditDisplay string `json:"total_credit_display"`
}

// NewTrialBalanceView wraps a trial balance for presentation.
func NewTrialBalanceView(tb TrialBalance) TrialBalanceView {
	return TrialBalanceView{
		TrialBalance:       tb,
		TotalDebitDisplay:  DisplayAmount(tb.TotalDebit),
		TotalCreditDisplay: DisplayAmount(tb.TotalCredit),
	}
}

// BalanceSheetView decorates the balance sheet with display strings.
type BalanceSheetView struct {
	BalanceSheet
	TotalAssetsDisplay      string `json:"total_assets_display"`
	TotalLiabilitiesDisplay string `json:"total_liabilities_display"`
	EquityDisplay           string `json:"equity_display"`
	Balanced                bool   `json:"balanced"`
}

// NewBalanceSheetView wraps a balance sheet for presentation.
func NewBalanceSheetView(bs BalanceSheet) BalanceSheetView {
	return BalanceSheetView{
		BalanceSheet:            bs,
		TotalAssetsDisplay:      DisplayAmount(bs.TotalAssets),
		TotalLiabilitiesDisplay: DisplayAmount(bs.TotalLiabilities),
		EquityDisplay:           DisplayAmount(bs.Equity),
		Balanced:                bs.Balanced(),
	}
}

// ProfitLossView decorates the P&L with display strings.
type ProfitLossView struct {
	ProfitLoss
	TotalRevenueDisplay string `json:"total_revenue_display"`
	NetResultDisplay    string `json:"net_result_display"`
}

// NewProfitLossView wraps a P&L for presentation.
func NewProfitLossView(pl ProfitLoss) ProfitLossView {
	return ProfitLossView{
		ProfitLoss:          pl,
		TotalRevenueDisplay: DisplayAmount(pl.TotalRevenue),
		NetResultDisplay:    DisplayAmount(pl.NetResult),
	}
}
