package reports

import "github.com/go-chi/chi/v5"

func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/reports/trial-balance", h.TrialBalance)
	r.Get("/reports/profit-loss", h.ProfitLoss)
	r.Get("/reports/balance-sheet", h.BalanceSheet)
	r.Get("/reports/cash-flow", h.CashFlow)
	r.Get("/reports/accounts/{id}/balance", h.Balance)
	r.Get("/reports/accounts/{id}/ledger", h.GeneralLedger)
}
