// Package main is the entry point for the API server.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/chatdigest/link-digest-service/internal/config"
	"github.com/chatdigest/link-digest-service/internal/handler"
	"github.com/chatdigest/link-digest-service/internal/links"
	"github.com/chatdigest/link-digest-service/internal/llm"
	"github.com/chatdigest/link-digest-service/internal/middleware"
	natsclient "github.com/chatdigest/link-digest-service/internal/nats"
	"github.com/chatdigest/link-digest-service/internal/service"
	"github.com/chatdigest/link-digest-service/pkg/logger"
	"github.com/chatdigest/link-digest-service/pkg/tracing"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize logger
	log, err := logger.New(cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()
	logger.SetGlobal(log)

	log.Info("starting link digest server")

	// Initialize tracing if enabled
	ctx := context.Background()
	if cfg.TracingEnabled {
		tp, err := tracing.InitTracer(ctx, "link-digest-service", cfg.TracingEndpoint)
		if err != nil {
			log.Warn("failed to initialize tracing", zap.Error(err))
		} else {
			defer tracing.Shutdown(ctx, tp)
		}
	}

	// Connect to NATS for audit events when configured
	var natsConn *natsclient.Client
	var events *natsclient.Publisher
	if cfg.NATSURL != "" {
		natsConn, err = natsclient.Connect(natsclient.Config{
			URL:      cfg.NATSURL,
			CAFile:   cfg.NATSCAFile,
			CertFile: cfg.NATSCertFile,
			KeyFile:  cfg.NATSKeyFile,
			Token:    cfg.NATSToken,
		}, log)
		if err != nil {
			log.Warn("NATS unavailable, audit events disabled", zap.Error(err))
		} else {
			defer natsConn.Close()
			events = natsclient.NewPublisher(natsConn)
		}
	}

	// Initialize the summarization collaborator client
	var llmClient llm.Client
	switch {
	case cfg.DefaultLLM == string(llm.ProviderAnthropic) && cfg.AnthropicAPIKey != "":
		llmClient, err = llm.NewAnthropicClient(cfg.AnthropicAPIKey)
	case cfg.OpenAIAPIKey != "":
		llmClient, err = llm.NewOpenAIClient(cfg.OpenAIAPIKey)
	case cfg.AnthropicAPIKey != "":
		llmClient, err = llm.NewAnthropicClient(cfg.AnthropicAPIKey)
	}
	if err != nil {
		log.Warn("failed to create LLM client, summarization disabled", zap.Error(err))
		llmClient = nil
	}
	summarizer := llm.NewSummarizer(llmClient, cfg.LLMModel)

	// Initialize services
	digestSvc := service.NewDigestService(
		summarizer,
		events,
		log,
		links.Budget{MaxLinks: cfg.MaxLinks, MaxChars: cfg.MaxContextChars},
		cfg.LLMTimeout,
	)

	// Startup health check: surface a missing collaborator once, at boot,
	// instead of on the first request.
	if err := digestSvc.Healthcheck(); err != nil {
		log.Warn("startup health check failed", zap.Error(err))
	} else {
		log.Info("startup health check passed", zap.String("provider", summarizer.Provider()))
	}

	// Initialize handlers
	healthHandler := handler.NewHealthHandler(natsConn, summarizer.Provider())
	digestHandler := handler.NewDigestHandler(
		digestSvc, log, cfg.MaxUploadBytes, cfg.MaxArchives, cfg.RequestBudget,
	)

	// Create router
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Logging(log))
	r.Use(middleware.SecurityHeaders)
	r.Use(chimiddleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"https://*", "http://*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Requested-With"},
		ExposedHeaders: []string{"X-Correlation-ID"},
		MaxAge:         300,
	}))

	// Health endpoints
	r.Get("/health", healthHandler.Health)
	r.Get("/ready", healthHandler.Ready)

	// Metrics endpoint
	r.Handle("/metrics", promhttp.Handler())

	// API routes
	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.RateLimit(cfg.RateLimitRequests, cfg.RateLimitWindow))
		r.Post("/digest", digestHandler.Create)
	})

	// Create HTTP server
	server := &http.Server{
		Addr:         ":" + cfg.ServerPort,
		Handler:      r,
		ReadTimeout:  cfg.ServerReadTimeout,
		WriteTimeout: cfg.ServerWriteTimeout,
		IdleTimeout:  120 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Info("server listening", zap.String("port", cfg.ServerPort))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server error", zap.Error(err))
			os.Exit(1)
		}
	}()

	// Wait for shutdown signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server")

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("server forced to shutdown", zap.Error(err))
	}

	log.Info("server stopped")
}
