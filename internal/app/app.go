package app

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/alex-user-go/hotelgateway/internal/config"
	"github.com/alex-user-go/hotelgateway/internal/handler"
	"github.com/alex-user-go/hotelgateway/internal/middleware"
	"github.com/alex-user-go/hotelgateway/internal/obs"
	"github.com/alex-user-go/hotelgateway/internal/serpapi"
)

// Run initializes and runs the application.
func Run() error {
	// Load configuration
	cfg := config.Load()

	// Initialize logger
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}))
	slog.SetDefault(logger)

	if cfg.APIKey == "" {
		logger.Warn("SERPAPI_KEY is not set, upstream requests will be rejected")
	}

	// Initialize metrics
	metrics := obs.NewMetrics(logger)

	// Configure server
	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           NewRouter(cfg, metrics, logger),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	// Start server in goroutine
	serverErrors := make(chan error, 1)
	go func() {
		logger.Info("server is running", "addr", srv.Addr, "upstream", cfg.UpstreamURL)
		serverErrors <- srv.ListenAndServe()
	}()

	// Wait for interrupt signal or server failure
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			return err
		}
		return nil
	case sig := <-quit:
		logger.Info("shutting down server", "signal", sig.String())
	}

	// Graceful shutdown
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("server shutdown error", "error", err)
		return err
	}

	logger.Info("server stopped")
	return nil
}

// NewRouter wires the hotel search endpoint and the operational routes.
func NewRouter(cfg config.Config, metrics *obs.Metrics, logger *slog.Logger) http.Handler {
	// Initialize upstream client and handler
	client := serpapi.NewClient(cfg.UpstreamURL, cfg.APIKey, cfg.UpstreamTimeout, metrics, logger)
	h := handler.New(client, logger)

	// Setup router with middleware
	r := chi.NewRouter()
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Logging(logger, metrics))
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.CORS(middleware.DefaultCORSConfig()))
	r.Use(chimiddleware.GetHead)

	// Routes
	r.Get("/hotels", h.HotelsHandler)
	r.Get("/healthz", obs.HealthHandler(logger))
	r.Method(http.MethodGet, "/metrics", metrics.MetricsHandler())

	// JSON errors for unknown routes and methods
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		handler.WriteError(w, http.StatusNotFound, "Route not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		handler.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
	})

	return r
}
