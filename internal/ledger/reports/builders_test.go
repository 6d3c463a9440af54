package reports

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/octane-erp/octane-erp/internal/ledger/accounts"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestNaturalBalanceSignsBySide(t *testing.T) {
	// A bank account credited 500 with no debits reads -500.
	got := NaturalBalance(accounts.AccountTypeBank, decimal.Zero, d("500"))
	if !got.Equal(d("-500")) {
		t.Fatalf("bank balance = %s, want -500", got)
	}

	// A vendor account credited 500 reads +500.
	got = NaturalBalance(accounts.AccountTypeVendor, decimal.Zero, d("500"))
	if !got.Equal(d("500")) {
		t.Fatalf("vendor balance = %s, want 500", got)
	}

	// A customer receivable debited 950 reads +950.
	got = NaturalBalance(accounts.AccountTypeCustomer, d("950"), decimal.Zero)
	if !got.Equal(d("950")) {
		t.Fatalf("customer balance = %s, want 950", got)
	}
}

// rentScenario mirrors a 500 rent payment: debit Rent Expense, credit Cash.
func rentScenario() []AccountTotals {
	return []AccountTotals{
		{AccountID: 1, Name: "Cash", Type: accounts.AccountTypeBank, Debit: decimal.Zero, Credit: d("500")},
		{AccountID: 2, Name: "Rent Expense", Type: accounts.AccountTypeIndirectExpense, Debit: d("500"), Credit: decimal.Zero},
	}
}

func TestTrialBalanceTotalsAreEqual(t *testing.T) {
	tb := BuildTrialBalance(time.Date(2026, 3, 31, 0, 0, 0, 0, time.UTC), rentScenario())

	if !tb.TotalDebit.Equal(tb.TotalCredit) {
		t.Fatalf("trial balance out of balance: debit %s, credit %s", tb.TotalDebit, tb.TotalCredit)
	}
	if !tb.TotalDebit.Equal(d("500")) {
		t.Fatalf("total debit = %s, want 500", tb.TotalDebit)
	}
	if len(tb.Rows) != 2 {
		t.Fatalf("rows = %d, want 2", len(tb.Rows))
	}
	// Rows sort by name: Cash first, with its balance on the credit side.
	if tb.Rows[0].Name != "Cash" || !tb.Rows[0].CreditBalance.Equal(d("500")) {
		t.Fatalf("cash row = %+v", tb.Rows[0])
	}
	if !tb.Rows[1].DebitBalance.Equal(d("500")) {
		t.Fatalf("rent row = %+v", tb.Rows[1])
	}
}

func TestTrialBalanceKeepsAccountsWithoutMovement(t *testing.T) {
	totals := append(rentScenario(),
		AccountTotals{AccountID: 3, Name: "Deposits", Type: accounts.AccountTypeLiability})
	tb := BuildTrialBalance(time.Date(2026, 3, 31, 0, 0, 0, 0, time.UTC), totals)

	if len(tb.Rows) != 3 {
		t.Fatalf("rows = %d, want 3", len(tb.Rows))
	}
	// Rows sort by name: Cash, Deposits, Rent Expense.
	row := tb.Rows[1]
	if row.Name != "Deposits" || !row.DebitBalance.IsZero() || !row.CreditBalance.IsZero() {
		t.Fatalf("deposits row = %+v", row)
	}
	if !tb.TotalDebit.Equal(tb.TotalCredit) {
		t.Fatalf("trial balance out of balance: debit %s, credit %s", tb.TotalDebit, tb.TotalCredit)
	}
}

func TestBalanceSheetIdentityHolds(t *testing.T) {
	// Fuel bought on credit (1200), cash sale (300), rent paid (500).
	totals := []AccountTotals{
		{AccountID: 1, Name: "Cash", Type: accounts.AccountTypeBank, Debit: d("300"), Credit: d("500")},
		{AccountID: 2, Name: "Fuel Purchases", Type: accounts.AccountTypeDirectExpense, Debit: d("1200"), Credit: decimal.Zero},
		{AccountID: 3, Name: "Fuel Sales", Type: accounts.AccountTypeLiability, Debit: decimal.Zero, Credit: d("300")},
		{AccountID: 4, Name: "Rent Expense", Type: accounts.AccountTypeIndirectExpense, Debit: d("500"), Credit: decimal.Zero},
		{AccountID: 5, Name: "Vendor - Coastal Fuels", Type: accounts.AccountTypeVendor, Debit: decimal.Zero, Credit: d("1200")},
	}
	bs := BuildBalanceSheet(time.Date(2026, 3, 31, 0, 0, 0, 0, time.UTC), totals, map[int64]bool{3: true})

	if !bs.Balanced() {
		t.Fatalf("identity broken: assets %s, liabilities %s, equity %s",
			bs.TotalAssets, bs.TotalLiabilities, bs.Equity)
	}
	if !bs.TotalAssets.Equal(d("-200")) {
		t.Fatalf("total assets = %s, want -200", bs.TotalAssets)
	}
	if !bs.TotalLiabilities.Equal(d("1200")) {
		t.Fatalf("total liabilities = %s, want 1200", bs.TotalLiabilities)
	}
	// Equity = revenue 300 - expenses 1700.
	if !bs.Equity.Equal(d("-1400")) {
		t.Fatalf("equity = %s, want -1400", bs.Equity)
	}
	// The revenue account never shows as a liability line.
	for _, line := range bs.Liabilities {
		if line.AccountID == 3 {
			t.Fatal("revenue account listed under liabilities")
		}
	}
}

func TestProfitLossSections(t *testing.T) {
	from := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 3, 31, 0, 0, 0, 0, time.UTC)
	totals := []AccountTotals{
		{AccountID: 2, Name: "Fuel Purchases", Type: accounts.AccountTypeDirectExpense, Debit: d("1200"), Credit: decimal.Zero},
		{AccountID: 3, Name: "Fuel Sales", Type: accounts.AccountTypeLiability, Debit: decimal.Zero, Credit: d("2000")},
		{AccountID: 4, Name: "Rent Expense", Type: accounts.AccountTypeIndirectExpense, Debit: d("500"), Credit: decimal.Zero},
		{AccountID: 1, Name: "Cash", Type: accounts.AccountTypeBank, Debit: d("2000"), Credit: d("1700")},
	}
	pl := BuildProfitLoss(from, to, totals, map[int64]bool{3: true})

	if !pl.TotalRevenue.Equal(d("2000")) {
		t.Fatalf("revenue = %s, want 2000", pl.TotalRevenue)
	}
	if !pl.GrossResult.Equal(d("800")) {
		t.Fatalf("gross = %s, want 800", pl.GrossResult)
	}
	if !pl.NetResult.Equal(d("300")) {
		t.Fatalf("net = %s, want 300", pl.NetResult)
	}
	if len(pl.Revenue) != 1 || len(pl.DirectExpenses) != 1 || len(pl.IndirectExpenses) != 1 {
		t.Fatalf("section sizes = %d/%d/%d", len(pl.Revenue), len(pl.DirectExpenses), len(pl.IndirectExpenses))
	}
}

func TestGeneralLedgerRunningBalance(t *testing.T) {
	acct := accounts.Account{ID: 1, Name: "Cash", Type: accounts.AccountTypeBank}
	from := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 3, 31, 0, 0, 0, 0, time.UTC)
	lines := []LedgerLine{
		{VoucherID: 1, Number: 1, Debit: d("300"), Credit: decimal.Zero},
		{VoucherID: 2, Number: 2, Debit: decimal.Zero, Credit: d("500")},
	}
	gl := BuildGeneralLedger(acct, from, to, d("100"), lines)

	if !gl.Lines[0].Balance.Equal(d("400")) {
		t.Fatalf("first running balance = %s, want 400", gl.Lines[0].Balance)
	}
	if !gl.Lines[1].Balance.Equal(d("-100")) {
		t.Fatalf("second running balance = %s, want -100", gl.Lines[1].Balance)
	}
	if !gl.ClosingBalance.Equal(d("-100")) {
		t.Fatalf("closing balance = %s, want -100", gl.ClosingBalance)
	}
}

func TestCashFlowGroupsByCounterType(t *testing.T) {
	from := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 3, 31, 0, 0, 0, 0, time.UTC)
	movements := []BankMovement{
		{VoucherID: 1, Debit: d("300"), CounterType: accounts.AccountTypeLiability},
		{VoucherID: 2, Credit: d("500"), CounterType: accounts.AccountTypeIndirectExpense},
		{VoucherID: 3, Debit: d("400"), CounterType: accounts.AccountTypeCustomer},
	}
	cf := BuildCashFlow(from, to, movements)

	if !cf.TotalIn.Equal(d("700")) {
		t.Fatalf("inflow = %s, want 700", cf.TotalIn)
	}
	if !cf.TotalOut.Equal(d("500")) {
		t.Fatalf("outflow = %s, want 500", cf.TotalOut)
	}
	if !cf.NetChange.Equal(d("200")) {
		t.Fatalf("net = %s, want 200", cf.NetChange)
	}
	if len(cf.Groups) != 3 {
		t.Fatalf("groups = %d, want 3", len(cf.Groups))
	}
}

func TestDisplayAmountGroupsDigits(t *testing.T) {
	if got := DisplayAmount(d("1234567.5")); got != "1,234,567.50" {
		t.Fatalf("display = %q", got)
	}
}
