package delivery

import (
	"github.com/Vovarama1992/go-utils/httputil"
	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, h *ConversionHandler) {
	r.Route("/", func(pr chi.Router) {
		pr.Use(httputil.RecoverMiddleware)

		// --- конверсии ---
		pr.Post("/convert", h.Convert)
		pr.Get("/conversions/{userId}", h.List)
		pr.Delete("/conversions/{userId}/{conversionId}", h.Delete)

		// --- health ---
		pr.Get("/health", h.Health)
	})
}
