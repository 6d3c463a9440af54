package reports

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// TrialBalanceRow is one account's position as of the report date. The
// balance sits on the account's heavier side regardless of its natural
// nature, which is what makes the two total columns provably equal.
type TrialBalanceRow struct {
	AccountID     int64           `json:"account_id"`
	Name          string          `json:"name"`
	Type          string          `json:"account_type"`
	Debit         decimal.Decimal `json:"debit_total"`
	Credit        decimal.Decimal `json:"credit_total"`
	DebitBalance  decimal.Decimal `json:"debit_balance"`
	CreditBalance decimal.Decimal `json:"credit_balance"`
}

// TrialBalance proves that total debits equal total credits across all
// accounts as of a date. It is the primary correctness check of the engine.
type TrialBalance struct {
	AsOf        time.Time         `json:"as_of"`
	Rows        []TrialBalanceRow `json:"rows"`
	TotalDebit  decimal.Decimal   `json:"total_debit"`
	TotalCredit decimal.Decimal   `json:"total_credit"`
}

// BuildTrialBalance folds per-account totals into the trial balance. The
// per-voucher balance invariant makes the two sides net to the same figure;
// any divergence here means corrupted data, not a report bug.
func BuildTrialBalance(asOf time.Time, totals []AccountTotals) TrialBalance {
	tb := TrialBalance{AsOf: asOf}
	for _, t := range totals {
		row := TrialBalanceRow{
			AccountID: t.AccountID,
			Name:      t.Name,
			Type:      string(t.Type),
			Debit:     t.Debit,
			Credit:    t.Credit,
		}
		signed := t.Debit.Sub(t.Credit)
		if signed.Sign() >= 0 {
			row.DebitBalance = signed
		} else {
			row.CreditBalance = signed.Neg()
		}
		tb.Rows = append(tb.Rows, row)
		tb.TotalDebit = tb.TotalDebit.Add(row.DebitBalance)
		tb.TotalCredit = tb.TotalCredit.Add(row.CreditBalance)
	}
	sort.Slice(tb.Rows, func(i, j int) bool { return tb.Rows[i].Name < tb.Rows[j].Name })
	return tb
}
