package main

import (
	"fmt"
	"log"
	"os"

	"github.com/pricelens/backend/config"
	httpDelivery "github.com/pricelens/backend/internal/delivery/http"
	"github.com/pricelens/backend/internal/infrastructure/exchange"
	"github.com/pricelens/backend/internal/infrastructure/fetch"
	"github.com/pricelens/backend/internal/infrastructure/marketplace"
	"github.com/pricelens/backend/internal/infrastructure/openai"
	"github.com/pricelens/backend/internal/usecase"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	log.Printf("Starting PriceLens Backend v1.0.0")
	log.Printf("Environment: %s", cfg.Server.Environment)
	log.Printf("Port: %s", cfg.Server.Port)
	log.Printf("Render proxy: %s (country: %s)", cfg.Render.BaseURL, cfg.Render.Country)

	// Initialize infrastructure dependencies
	fetcher := fetch.NewClient(fetch.Options{
		RenderAPIKey:  cfg.Render.APIKey,
		RenderBaseURL: cfg.Render.BaseURL,
		UserAgent:     cfg.Scrape.UserAgent,
		Timeout:       cfg.Render.Timeout,
		Retries:       cfg.Render.Retries,
	})

	extractors := marketplace.DefaultExtractors(fetcher)
	pacer := usecase.NewJitterPacer(cfg.Scrape.MinDelay, cfg.Scrape.MaxDelay)
	aggregator := usecase.NewAggregator(extractors, pacer)
	log.Printf("Marketplaces: %v (pacing %s-%s)", aggregator.Sources(), cfg.Scrape.MinDelay, cfg.Scrape.MaxDelay)

	rateProvider := exchange.NewClient(cfg.Exchange.BaseURL, cfg.Exchange.FallbackRate)
	summarizer := openai.NewClient(cfg.OpenAI.APIKey, cfg.OpenAI.BaseURL, cfg.OpenAI.Model)
	log.Printf("Narrative model: %s", cfg.OpenAI.Model)

	// Initialize usecase layer
	reportService := usecase.NewReportService(fetcher, aggregator, rateProvider, summarizer)

	// Create HTTP handler with dependencies
	handler := httpDelivery.NewHandler(reportService)

	// Setup router
	router := httpDelivery.SetupRouter(cfg, handler)

	// Start server
	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	log.Printf("Server listening on %s", addr)

	if err := router.Run(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

func init() {
	// Set log flags for better debugging
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)
	log.SetOutput(os.Stdout)
}
