package vouchers

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/octane-erp/octane-erp/internal/platform/httpx"
)

// PostCounter observes successful postings.
type PostCounter interface {
	CountVoucherPosted(voucherType, origin string)
}

// Handler exposes the voucher engine over JSON.
type Handler struct {
	service *Service
	counter PostCounter
	logger  *slog.Logger
}

func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{service: service, logger: logger}
}

// SetPostCounter wires the optional posting metrics hook.
func (h *Handler) SetPostCounter(counter PostCounter) {
	h.counter = counter
}

type createVoucherRequest struct {
	Date      string         `json:"date"`
	Type      string         `json:"voucher_type"`
	Reference string         `json:"reference"`
	Narration string         `json:"narration"`
	Entries   []entryRequest `json:"entries"`
}

type entryRequest struct {
	AccountID int64  `json:"ledger_account_id"`
	Debit     string `json:"debit_amount"`
	Credit    string `json:"credit_amount"`
	Narration string `json:"narration"`
}

func (req createVoucherRequest) toInput() (CreateVoucherInput, error) {
	in := CreateVoucherInput{
		Type:      VoucherType(req.Type),
		Reference: req.Reference,
		Narration: req.Narration,
	}
	if req.Date != "" {
		date, err := time.Parse("2006-01-02", req.Date)
		if err != nil {
			return CreateVoucherInput{}, err
		}
		in.Date = date
	}
	entries, err := toEntryInputs(req.Entries)
	if err != nil {
		return CreateVoucherInput{}, err
	}
	in.Entries = entries
	return in, nil
}

func toEntryInputs(reqs []entryRequest) ([]EntryInput, error) {
	entries := make([]EntryInput, 0, len(reqs))
	for _, e := range reqs {
		entry := EntryInput{AccountID: e.AccountID, Narration: e.Narration}
		var err error
		if entry.Debit, err = parseAmount(e.Debit); err != nil {
			return nil, err
		}
		if entry.Credit, err = parseAmount(e.Credit); err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

func parseAmount(raw string) (decimal.Decimal, error) {
	if raw == "" {
		return decimal.Zero, nil
	}
	return decimal.NewFromString(raw)
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req createVoucherRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid JSON body")
		return
	}
	in, err := req.toInput()
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", err.Error())
		return
	}
	voucher, err := h.service.Create(r.Context(), in)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	if h.counter != nil {
		h.counter.CountVoucherPosted(string(voucher.Type), "api")
	}
	httpx.JSON(w, http.StatusCreated, toVoucherResponse(voucher))
}

func (h *Handler) Cancel(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid voucher id")
		return
	}
	voucher, err := h.service.Cancel(r.Context(), id)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, toVoucherResponse(voucher))
}

func (h *Handler) Validate(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Entries []entryRequest `json:"entries"`
	}
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid JSON body")
		return
	}
	entries, err := toEntryInputs(req.Entries)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", err.Error())
		return
	}
	check, err := h.service.ValidateBalance(r.Context(), entries)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, check)
}

func (h *Handler) Show(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid voucher id")
		return
	}
	voucher, err := h.service.Get(r.Context(), id)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, toVoucherResponse(voucher))
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	filter := ListFilter{
		Status: VoucherStatus(r.URL.Query().Get("status")),
		Type:   VoucherType(r.URL.Query().Get("voucher_type")),
	}
	if raw := r.URL.Query().Get("from"); raw != "" {
		if t, err := time.Parse("2006-01-02", raw); err == nil {
			filter.From = t
		}
	}
	if raw := r.URL.Query().Get("to"); raw != "" {
		if t, err := time.Parse("2006-01-02", raw); err == nil {
			filter.To = t
		}
	}
	vouchers, err := h.service.List(r.Context(), filter)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	out := make([]voucherResponse, 0, len(vouchers))
	for _, v := range vouchers {
		out = append(out, toVoucherResponse(v))
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"vouchers": out})
}

type voucherResponse struct {
	ID          int64           `json:"id"`
	Number      int64           `json:"number"`
	Date        string          `json:"date"`
	Type        string          `json:"voucher_type"`
	Reference   string          `json:"reference,omitempty"`
	Narration   string          `json:"narration,omitempty"`
	TotalAmount string          `json:"total_amount"`
	Status      string          `json:"status"`
	CreatedBy   string          `json:"created_by,omitempty"`
	Entries     []entryResponse `json:"entries,omitempty"`
}

type entryResponse struct {
	ID        int64  `json:"id"`
	AccountID int64  `json:"ledger_account_id"`
	Debit     string `json:"debit_amount"`
	Credit    string `json:"credit_amount"`
	Narration string `json:"narration,omitempty"`
}

func toVoucherResponse(v Voucher) voucherResponse {
	out := voucherResponse{
		ID:          v.ID,
		Number:      v.Number,
		Date:        v.Date.Format("2006-01-02"),
		Type:        string(v.Type),
		Reference:   v.Reference,
		Narration:   v.Narration,
		TotalAmount: v.TotalAmount.StringFixed(2),
		Status:      string(v.Status),
		CreatedBy:   v.CreatedBy,
	}
	for _, e := range v.Entries {
		out.Entries = append(out.Entries, entryResponse{
			ID:        e.ID,
			AccountID: e.AccountID,
			Debit:     e.Debit.StringFixed(2),
			Credit:    e.Credit.StringFixed(2),
			Narration: e.Narration,
		})
	}
	return out
}
