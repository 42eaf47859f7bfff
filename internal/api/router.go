package api

import (
	"log/slog"
	"net/http"

	"basket-shipping-service/internal/api/handlers"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
)

const maxBodyBytes = 1 << 20

type RouterConfig struct {
	Logger      *slog.Logger
	CORSOrigins []string

	Shipping *handlers.ShippingHandler
	Routes   *handlers.RouteHandler
	Admin    *handlers.AdminHandler
}

// NewRouter wires HTTP handlers and middleware and returns an http.Handler.
// This is the API composition root (handlers stay unaware of concrete adapters).
func NewRouter(cfg RouterConfig) http.Handler {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(newLoggingMiddleware(logger))
	r.Use(chimiddleware.Recoverer)
	r.Use(newCORSMiddleware(cfg.CORSOrigins))
	r.Use(newMaxBodySize(maxBodyBytes))

	r.Get("/health", handlers.Health)

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/shipping/quote", cfg.Shipping.Quote)
		r.Get("/free-shipping/check", cfg.Shipping.CheckFreeShipping)
		r.Post("/routes/optimize", cfg.Routes.Optimize)

		r.Route("/admin", func(r chi.Router) {
			r.Get("/shipping-rates", cfg.Admin.ListRates)
			r.Post("/shipping-rates", cfg.Admin.CreateRate)
			r.Put("/shipping-rates/{id}", cfg.Admin.UpdateRate)
			r.Delete("/shipping-rates/{id}", cfg.Admin.DeleteRate)

			r.Get("/shipping-config", cfg.Admin.GetConfig)
			r.Put("/shipping-config", cfg.Admin.UpdateConfig)

			r.Get("/free-shipping-cities", cfg.Admin.ListFreeCities)
			r.Post("/free-shipping-cities", cfg.Admin.CreateFreeCity)
			r.Put("/free-shipping-cities/{id}", cfg.Admin.UpdateFreeCity)
			r.Delete("/free-shipping-cities/{id}", cfg.Admin.DeleteFreeCity)
		})
	})

	return r
}
