package app

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/octane-erp/octane-erp/internal/ledger/accounts"
	"github.com/octane-erp/octane-erp/internal/ledger/integration"
	"github.com/octane-erp/octane-erp/internal/ledger/integrity"
	"github.com/octane-erp/octane-erp/internal/ledger/reports"
	"github.com/octane-erp/octane-erp/internal/ledger/vouchers"
	"github.com/octane-erp/octane-erp/internal/observability"
	"github.com/octane-erp/octane-erp/jobs"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger             *slog.Logger
	Config             *Config
	AccountsHandler    *accounts.Handler
	VouchersHandler    *vouchers.Handler
	ReportsHandler     *reports.Handler
	IntegrationHandler *integration.Handler
	IntegrityHandler   *integrity.Handler
	JobHandler         *jobs.Handler
	Metrics            *observability.Metrics
}

// NewRouter constructs the chi.Router with Octane defaults. All ledger
// routes live under /api/v1 and expect the tenant header when the
// deployment runs more than one station group.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger:  params.Logger,
		Config:  params.Config,
		Metrics: params.Metrics,
	}) {
		r.Use(mw)
	}

	r.Use(chimw.Logger)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	r.Route("/api/v1", func(r chi.Router) {
		if params.AccountsHandler != nil {
			params.AccountsHandler.MountRoutes(r)
		}
		if params.VouchersHandler != nil {
			params.VouchersHandler.MountRoutes(r)
		}
		if params.ReportsHandler != nil {
			params.ReportsHandler.MountRoutes(r)
		}
		if params.IntegrationHandler != nil {
			params.IntegrationHandler.MountRoutes(r)
		}
		if params.IntegrityHandler != nil {
			params.IntegrityHandler.MountRoutes(r)
		}
	})

	if params.JobHandler != nil {
		r.Route("/jobs", params.JobHandler.MountRoutes)
	}
	if params.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", params.Metrics.Handler())
	}

	return r
}
