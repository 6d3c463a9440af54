package integration

import "github.com/go-chi/chi/v5"

func (h *Handler) MountRoutes(r chi.Router) {
	r.Post("/integration/purchases", h.Purchase)
	r.Post("/integration/sales", h.Sales)
	r.Post("/integration/payments", h.Payment)
	r.Get("/integration/settings", h.ShowSettings)
	r.Put("/integration/settings", h.UpdateSettings)
}
