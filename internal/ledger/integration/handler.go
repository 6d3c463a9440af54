package integration

import (
	"log/slog"
	"net/http"

	"github.com/octane-erp/octane-erp/internal/ledger/settings"
	"github.com/octane-erp/octane-erp/internal/platform/httpx"
)

// Handler exposes event ingestion and settings over JSON.
type Handler struct {
	adapter *Adapter
	logger  *slog.Logger
}

func NewHandler(logger *slog.Logger, adapter *Adapter) *Handler {
	return &Handler{adapter: adapter, logger: logger}
}

func parseOptions(r *http.Request) Options {
	opts := DefaultOptions()
	if r.URL.Query().Get("auto_create_accounts") == "false" {
		opts.AutoCreateAccounts = false
	}
	return opts
}

func (h *Handler) Purchase(w http.ResponseWriter, r *http.Request) {
	var evt PurchaseEvent
	if err := httpx.DecodeJSON(r, &evt); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid JSON body")
		return
	}
	voucher, err := h.adapter.CreatePurchaseJournalEntries(r.Context(), evt, parseOptions(r))
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	if voucher == nil {
		httpx.JSON(w, http.StatusAccepted, map[string]any{"posted": false})
		return
	}
	httpx.JSON(w, http.StatusCreated, map[string]any{"posted": true, "voucher_id": voucher.ID, "number": voucher.Number})
}

func (h *Handler) Sales(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Sales []SaleEvent `json:"sales"`
	}
	if err := httpx.DecodeJSON(r, &body); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid JSON body")
		return
	}
	created, err := h.adapter.CreateSalesJournalEntries(r.Context(), body.Sales, parseOptions(r))
	ids := make([]int64, 0, len(created))
	for _, v := range created {
		ids = append(ids, v.ID)
	}
	if err != nil {
		// Partial progress: report what posted before the failure.
		h.logger.Warn("sales batch aborted", slog.Int("posted", len(created)), slog.Any("error", err))
		httpx.JSON(w, http.StatusMultiStatus, map[string]any{"voucher_ids": ids, "error": err.Error()})
		return
	}
	httpx.JSON(w, http.StatusCreated, map[string]any{"voucher_ids": ids})
}

func (h *Handler) Payment(w http.ResponseWriter, r *http.Request) {
	var evt PaymentEvent
	if err := httpx.DecodeJSON(r, &evt); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid JSON body")
		return
	}
	voucher, err := h.adapter.CreateCustomerPaymentJournalEntries(r.Context(), evt, parseOptions(r))
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	if voucher == nil {
		httpx.JSON(w, http.StatusAccepted, map[string]any{"posted": false})
		return
	}
	httpx.JSON(w, http.StatusCreated, map[string]any{"posted": true, "voucher_id": voucher.ID, "number": voucher.Number})
}

func (h *Handler) ShowSettings(w http.ResponseWriter, r *http.Request) {
	cfg, err := h.adapter.Settings(r.Context())
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, cfg)
}

func (h *Handler) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	var cfg settings.Settings
	if err := httpx.DecodeJSON(r, &cfg); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid JSON body")
		return
	}
	if cfg.PurchaseAccount == "" || cfg.RevenueAccount == "" || cfg.BankAccount == "" {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "mapping account names must not be empty")
		return
	}
	updated, err := h.adapter.UpdateSettings(r.Context(), cfg)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, updated)
}
