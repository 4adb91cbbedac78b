package app

import (
	"github.com/avc/pawnshop-admin/internal/handlers"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// setupRouter создает и настраивает роутер
func setupRouter(deps *dependencies, logger *zap.Logger) *chi.Mux {
	r := chi.NewRouter()

	// Глобальные middleware
	setupMiddleware(r, logger)

	// Маршруты
	setupRoutes(r, deps)

	return r
}

// setupMiddleware настраивает middleware для роутера
func setupMiddleware(r *chi.Mux, logger *zap.Logger) {
	r.Use(handlers.RequestIDMiddleware())
	r.Use(handlers.LoggingMiddleware(logger))
	r.Use(handlers.RecoveryMiddleware(logger))
	r.Use(middleware.Compress(5))
}

// setupRoutes настраивает маршруты приложения
func setupRoutes(r *chi.Mux, deps *dependencies) {
	// Health check эндпоинты
	r.Get("/health", deps.handlers.health.Health)
	r.Get("/ready", deps.handlers.health.Ready)

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/payment", func(r chi.Router) {
			r.Post("/", deps.handlers.payments.Submit)
			r.Post("/preview", deps.handlers.payments.Preview)
			r.Post("/validate", deps.handlers.payments.Validate)
			r.Post("/{id}/void", deps.handlers.payments.Void)
			r.Get("/transaction/{id}", deps.handlers.payments.History)
		})

		r.Post("/overdue-fee/{id}/set", deps.handlers.payments.SetOverdueFee)

		r.Route("/extension", func(r chi.Router) {
			r.Post("/", deps.handlers.extensions.Submit)
			r.Post("/quote", deps.handlers.extensions.Quote)
			r.Post("/validate", deps.handlers.extensions.Validate)
		})

		r.Route("/transaction", func(r chi.Router) {
			r.Get("/", deps.handlers.transactions.List)
			r.Get("/{id}", deps.handlers.transactions.Get)
			r.Get("/{id}/balance", deps.handlers.transactions.Balance)
		})

		r.Route("/customer", func(r chi.Router) {
			r.Get("/", deps.handlers.customers.List)
			r.Get("/{id}", deps.handlers.customers.Get)
			r.Get("/{id}/eligibility", deps.handlers.customers.Eligibility)
		})

		r.Route("/business-config", func(r chi.Router) {
			r.Get("/{section}", deps.handlers.config.Get)
			r.Post("/{section}", deps.handlers.config.Update)
			r.Post("/company/upload-logo", deps.handlers.config.UploadLogo)
		})

		r.Post("/discount/validate", deps.handlers.config.ValidateDiscount)
		r.Delete("/sequence", deps.handlers.transactions.ResetSequences)
	})
}
