package api

import (
	"database/sql"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/ndewijer/Stock-Portfolio-Tracker/internal/api/handlers"
	custommiddleware "github.com/ndewijer/Stock-Portfolio-Tracker/internal/api/middleware"
	"github.com/ndewijer/Stock-Portfolio-Tracker/internal/config"
	"github.com/ndewijer/Stock-Portfolio-Tracker/internal/service"
)

// NewRouter creates and configures the HTTP router
func NewRouter(db *sql.DB, ledgerService *service.LedgerService, valuationService *service.ValuationService, cfg *config.Config) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(custommiddleware.Logger)
	r.Use(middleware.Recoverer)

	// CORS middleware
	corsMiddleware := custommiddleware.NewCORS(cfg.CORS.AllowedOrigins)
	r.Use(corsMiddleware.Handler)

	// API routes
	r.Route("/api", func(r chi.Router) {
		// System namespace
		r.Route("/system", func(r chi.Router) {
			systemHandler := handlers.NewSystemHandler(db)
			r.Get("/health", systemHandler.Health)
		})

		r.Route("/transaction", func(r chi.Router) {
			transactionHandler := handlers.NewTransactionHandler(ledgerService)
			r.Get("/", transactionHandler.AllTransactions)
			r.Post("/", transactionHandler.CreateTransaction)

			r.Route("/{uuid}", func(r chi.Router) {
				r.Use(custommiddleware.ValidateUUIDMiddleware)
				r.Get("/", transactionHandler.GetTransaction)
				r.Put("/", transactionHandler.UpdateTransaction)
				r.Delete("/", transactionHandler.DeleteTransaction)
			})
		})

		r.Route("/cashflow", func(r chi.Router) {
			cashFlowHandler := handlers.NewCashFlowHandler(ledgerService)
			r.Get("/", cashFlowHandler.AllCashFlows)
			r.Post("/", cashFlowHandler.CreateCashFlow)

			r.Route("/{uuid}", func(r chi.Router) {
				r.Use(custommiddleware.ValidateUUIDMiddleware)
				r.Get("/", cashFlowHandler.GetCashFlow)
				r.Put("/", cashFlowHandler.UpdateCashFlow)
				r.Delete("/", cashFlowHandler.DeleteCashFlow)
			})
		})

		r.Route("/portfolio", func(r chi.Router) {
			portfolioHandler := handlers.NewPortfolioHandler(ledgerService, valuationService)
			r.Get("/holdings", portfolioHandler.Holdings)
			r.Get("/cash", portfolioHandler.Cash)
			r.Get("/value", portfolioHandler.Value)
			r.Get("/history", portfolioHandler.History)
			r.Get("/roi", portfolioHandler.ROI)
		})
	})

	return r
}
