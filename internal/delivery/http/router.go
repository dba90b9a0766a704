package http

import (
	"net/http"

	"github.com/frontandrew/fleet/internal/delivery/http/middleware"
	"github.com/frontandrew/fleet/internal/pkg/config"
	"github.com/frontandrew/fleet/internal/pkg/logger"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
)

// Handlers - обработчики всех групп маршрутов
type Handlers struct {
	Auth   *AuthHandler
	Car    *CarHandler
	Renter *RenterHandler
	Rental *RentalHandler
	Report *ReportHandler
}

// Router содержит все зависимости для HTTP роутера
type Router struct {
	handlers         Handlers
	tokenValidator   middleware.TokenValidator
	idempotencyStore middleware.IdempotencyStore
	config           *config.Config
	logger           logger.Logger
}

// NewRouter создает новый HTTP router. idempotencyStore может быть nil - тогда
// заголовок Idempotency-Key игнорируется.
func NewRouter(
	handlers Handlers,
	tokenValidator middleware.TokenValidator,
	idempotencyStore middleware.IdempotencyStore,
	config *config.Config,
	logger logger.Logger,
) *Router {
	return &Router{
		handlers:         handlers,
		tokenValidator:   tokenValidator,
		idempotencyStore: idempotencyStore,
		config:           config,
		logger:           logger,
	}
}

// Setup настраивает все маршруты
func (rt *Router) Setup() http.Handler {
	r := chi.NewRouter()

	// Глобальные middleware
	r.Use(chiMiddleware.RequestID)
	r.Use(middleware.RecoveryMiddleware(rt.logger))
	r.Use(middleware.LoggingMiddleware(rt.logger))
	r.Use(middleware.CORSMiddleware(middleware.CORSConfig{
		AllowedOrigins: rt.config.CORS.AllowedOrigins,
		AllowedMethods: rt.config.CORS.AllowedMethods,
		AllowedHeaders: rt.config.CORS.AllowedHeaders,
	}))

	// Health check endpoint (публичный)
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{
			"status": "healthy",
		})
	})

	h := rt.handlers
	idempotent := middleware.Idempotency(rt.idempotencyStore, rt.config.Idempotency.TTL, rt.logger)

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/auth/login", h.Auth.Login)

		// Protected routes (требуют токен оператора)
		r.Group(func(r chi.Router) {
			r.Use(middleware.AuthMiddleware(rt.tokenValidator))

			r.Get("/auth/verify", h.Auth.Verify)

			r.Route("/cars", func(r chi.Router) {
				r.Get("/", h.Car.ListCars)
				r.Post("/", h.Car.CreateCar)
				r.Get("/available", h.Car.ListAvailable)
				r.Get("/{id}", h.Car.GetCar)
				r.Get("/{id}/history", h.Car.GetHistory)
				r.Put("/{id}/maintenance", h.Car.SetMaintenance)
				r.Get("/{id}/expenses", h.Car.ListExpenses)
				r.Post("/{id}/expenses", h.Car.AddExpense)
				r.Get("/{id}/profitability", h.Report.CarProfitability)
			})

			r.Route("/renters", func(r chi.Router) {
				r.Get("/", h.Renter.ListRenters)
				r.Post("/", h.Renter.CreateRenter)
				r.Get("/{id}", h.Renter.GetRenter)
			})

			r.Route("/rentals", func(r chi.Router) {
				r.Get("/", h.Rental.ListRentals)
				r.Post("/", h.Rental.CreateRental)
				r.Post("/overdue/sweep", h.Rental.SweepOverdue)
				r.Get("/{id}", h.Rental.GetRental)
				r.Put("/{id}/end", h.Rental.EndRental)
				r.With(idempotent).Post("/{id}/payments", h.Rental.RecordPayment)
				r.Post("/{id}/fines", h.Rental.RecordFine)
			})

			r.Route("/reports", func(r chi.Router) {
				r.Get("/profitability", h.Report.FleetProfitability)
				r.Get("/financial", h.Report.Financial)
				r.Get("/dashboard", h.Report.Dashboard)
				r.Get("/monthly", h.Report.Monthly)
				r.Get("/fleet", h.Report.Fleet)
			})
		})
	})

	return r
}
