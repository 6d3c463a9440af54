package reports

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/octane-erp/octane-erp/internal/ledger/accounts"
)

// CashFlowGroup aggregates bank movements against one counter-account
// category. Inflow is money debited to bank accounts, outflow credited.
type CashFlowGroup struct {
	CounterType string          `json:"counter_type"`
	Inflow      decimal.Decimal `json:"inflow"`
	Outflow     decimal.Decimal `json:"outflow"`
	Net         decimal.Decimal `json:"net"`
}

// CashFlow summarises movement through bank accounts over a period,
// grouped by where the money came from or went to.
type CashFlow struct {
	From      time.Time       `json:"from"`
	To        time.Time       `json:"to"`
	Groups    []CashFlowGroup `json:"groups"`
	TotalIn   decimal.Decimal `json:"total_inflow"`
	TotalOut  decimal.Decimal `json:"total_outflow"`
	NetChange decimal.Decimal `json:"net_change"`
}

// BuildCashFlow folds bank-side entries into per-counter-type groups.
// A movement's direction is read from the bank entry itself: a debit to
// the bank account is an inflow regardless of voucher type.
func BuildCashFlow(from, to time.Time, movements []BankMovement) CashFlow {
	cf := CashFlow{From: from, To: to}
	byType := make(map[accounts.AccountType]*CashFlowGroup)
	for _, m := range movements {
		g, ok := byType[m.CounterType]
		if !ok {
			g = &CashFlowGroup{CounterType: string(m.CounterType)}
			byType[m.CounterType] = g
		}
		g.Inflow = g.Inflow.Add(m.Debit)
		g.Outflow = g.Outflow.Add(m.Credit)
	}
	for _, g := range byType {
		g.Net = g.Inflow.Sub(g.Outflow)
		cf.Groups = append(cf.Groups, *g)
		cf.TotalIn = cf.TotalIn.Add(g.Inflow)
		cf.TotalOut = cf.TotalOut.Add(g.Outflow)
	}
	sort.Slice(cf.Groups, func(i, j int) bool { return cf.Groups[i].CounterType < cf.Groups[j].CounterType })
	cf.NetChange = cf.TotalIn.Sub(cf.TotalOut)
	return cf
}
