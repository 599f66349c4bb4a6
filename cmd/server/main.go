package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/ndewijer/Stock-Portfolio-Tracker/internal/api"
	"github.com/ndewijer/Stock-Portfolio-Tracker/internal/config"
	"github.com/ndewijer/Stock-Portfolio-Tracker/internal/database"
	"github.com/ndewijer/Stock-Portfolio-Tracker/internal/marketdata"
	"github.com/ndewijer/Stock-Portfolio-Tracker/internal/repository"
	"github.com/ndewijer/Stock-Portfolio-Tracker/internal/service"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Open database connection
	db, err := database.Open(cfg.Database.Path)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()

	log.Printf("Connected to database: %s", cfg.Database.Path)

	// Apply pending schema migrations
	if err := database.Migrate(db); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	// Create the market data client
	client, err := marketdata.New(cfg.PriceFetch.Provider, marketdata.Config{APIKey: cfg.PriceFetch.APIKey})
	if err != nil {
		log.Fatalf("Failed to create market data client: %v", err)
	}

	// Create repositories
	ledgerRepo := repository.NewLedgerRepository(db)
	priceCacheRepo := repository.NewPriceCacheRepository(db)

	// Create services
	ledgerService := service.NewLedgerService(ledgerRepo)
	priceSourceService := service.NewPriceSourceService(client, cfg.PriceFetch)
	priceResolverService := service.NewPriceResolverService(priceCacheRepo, priceSourceService)
	valuationService := service.NewValuationService(
		ledgerService,
		priceResolverService,
		priceSourceService,
		priceCacheRepo,
		cfg.PriceFetch.BenchmarkSymbol,
	)
	refreshService := service.NewRefreshService(ledgerService, priceResolverService, cfg.PriceFetch.BenchmarkSymbol)

	// Schedule the daily price refresh
	scheduler := cron.New()
	_, err = scheduler.AddFunc(cfg.Scheduler.PriceRefreshSchedule, func() {
		if err := refreshService.RefreshPrices(context.Background()); err != nil {
			log.Printf("Scheduled price refresh failed: %v", err)
		}
	})
	if err != nil {
		log.Fatalf("Failed to schedule price refresh: %v", err)
	}
	scheduler.Start()
	defer scheduler.Stop()

	// Create router
	router := api.NewRouter(db, ledgerService, valuationService, cfg)

	// Create HTTP server
	server := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.Printf("Starting server on %s", cfg.Server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exited")
}
