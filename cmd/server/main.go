package main

import (
	"fmt"
	"log"
	"os"

	"github.com/cartlens/backend/config"
	httpDelivery "github.com/cartlens/backend/internal/delivery/http"
	"github.com/cartlens/backend/internal/domain"
	"github.com/cartlens/backend/internal/infrastructure/extractor"
	"github.com/cartlens/backend/internal/usecase"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	log.Printf("Starting CartLens Backend v1.0.0")
	log.Printf("Environment: %s", cfg.Server.Environment)
	log.Printf("Port: %s", cfg.Server.Port)

	// Build the URL identifier extractor from its pattern registry
	registry := extractor.DefaultRegistry()
	if cfg.Extractor.RegistryPath != "" {
		registry, err = extractor.LoadRegistry(cfg.Extractor.RegistryPath)
		if err != nil {
			log.Fatalf("Failed to load extractor registry: %v", err)
		}
	}
	log.Printf("Extractor registry: %s", registry.Version())

	// Initialize the enrichment engine
	enrichmentService := usecase.NewEnrichmentService(
		extractor.New(registry),
		usecase.EnrichmentConfig{
			MinConfidence:            domain.Tier(cfg.Matching.MinConfidence),
			TitleSimilarityThreshold: cfg.Matching.TitleSimilarityThreshold,
			EnableDebugLogging:       cfg.Matching.EnableDebugLogging,
		},
	)

	log.Printf("Matching: minConfidence=%s, titleThreshold=%.2f, debug=%v",
		cfg.Matching.MinConfidence,
		cfg.Matching.TitleSimilarityThreshold,
		cfg.Matching.EnableDebugLogging)

	// Create HTTP handler with dependencies
	handler := httpDelivery.NewHandler(enrichmentService)

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
