package integrity

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/octane-erp/octane-erp/internal/platform/httpx"
)

// Handler exposes the integrity checker over JSON.
type Handler struct {
	service *Service
	logger  *slog.Logger
}

func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{service: service, logger: logger}
}

func (h *Handler) Check(w http.ResponseWriter, r *http.Request) {
	report, err := h.service.Check(r.Context())
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, report)
}

func (h *Handler) Protection(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid account id")
		return
	}
	protection, err := h.service.AccountProtection(r.Context(), id)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, protection)
}

func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/integrity/accounts", h.Check)
	r.Get("/integrity/accounts/{id}/protection", h.Protection)
}
