package guidance

import "github.com/go-chi/chi/v5"

func RegisterRoutes(r chi.Router, h *Handler) {
	r.Post("/api/guidance", h.HandleGuidance)
	r.Get("/ping", h.HandlePing)
}
