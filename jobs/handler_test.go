package jobs

import (
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"
)

func newJobsRouter(h *Handler) chi.Router {
	r := chi.NewRouter()
	h.MountRoutes(r)
	return r
}

func TestHealthWithoutInspectorReportsEmptyQueue(t *testing.T) {
	router := newJobsRouter(NewHandler(nil, nil, slog.Default()))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, `{"queue":"default","pending":0}`, rec.Body.String())
}

func TestEnqueueSweepWithoutClientUnavailable(t *testing.T) {
	router := newJobsRouter(NewHandler(nil, nil, slog.Default()))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/integrity-sweep", nil))

	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
}
