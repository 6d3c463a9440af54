package reports

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/octane-erp/octane-erp/internal/ledger/accounts"
)

// GeneralLedgerLine is a LedgerLine with the account's running natural
// balance after the line is applied.
type GeneralLedgerLine struct {
	LedgerLine
	Balance decimal.Decimal `json:"balance"`
}

// GeneralLedger is the full statement of a single account over a period:
// an opening balance, every posted line in date order, and the closing
// balance the lines run up to.
type GeneralLedger struct {
	AccountID      int64               `json:"account_id"`
	AccountName    string              `json:"account_name"`
	AccountType    string              `json:"account_type"`
	From           time.Time           `json:"from"`
	To             time.Time           `json:"to"`
	OpeningBalance decimal.Decimal     `json:"opening_balance"`
	Lines          []GeneralLedgerLine `json:"lines"`
	ClosingBalance decimal.Decimal     `json:"closing_balance"`
}

// BuildGeneralLedger threads the running balance through the account's
// lines. Lines must arrive date-ordered; voucher dates are caller-supplied,
// so a backdated voucher sorts by its date, not by when it was posted.
func BuildGeneralLedger(acct accounts.Account, from, to time.Time, opening decimal.Decimal, lines []LedgerLine) GeneralLedger {
	gl := GeneralLedger{
		AccountID:      acct.ID,
		AccountName:    acct.Name,
		AccountType:    string(acct.Type),
		From:           from,
		To:             to,
		OpeningBalance: opening,
	}
	running := opening
	for _, ln := range lines {
		running = running.Add(NaturalBalance(acct.Type, ln.Debit, ln.Credit))
		gl.Lines = append(gl.Lines, GeneralLedgerLine{LedgerLine: ln, Balance: running})
	}
	gl.ClosingBalance = running
	return gl
}
