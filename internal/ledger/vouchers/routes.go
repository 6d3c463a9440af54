package vouchers

import "github.com/go-chi/chi/v5"

func (h *Handler) MountRoutes(r chi.Router) {
	r.Post("/vouchers", h.Create)
	r.Get("/vouchers", h.List)
	r.Get("/vouchers/{id}", h.Show)
	r.Post("/vouchers/{id}/cancel", h.Cancel)
	r.Post("/vouchers/validate", h.Validate)
}
