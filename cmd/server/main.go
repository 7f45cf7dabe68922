package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"Branches/internal/api/middleware"
	"Branches/internal/api/routes"
	"Branches/internal/bootstrap"
	"Branches/internal/metrics"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// version is set at build time with -ldflags "-X main.version=..."
var version = "dev"

func main() {
	settings := bootstrap.DefaultSettings()

	if plcURL := os.Getenv("PLC_URL"); plcURL != "" {
		settings.PLCURL = plcURL
	}
	if discoveryHost := os.Getenv("DISCOVERY_HOST"); discoveryHost != "" {
		settings.DiscoveryHost = discoveryHost
	}
	if strategy := os.Getenv("HANDLE_RESOLUTION"); strategy != "" {
		settings.HandleResolution = strategy
	}
	settings.HTTPTimeout = envDuration("HTTP_TIMEOUT", settings.HTTPTimeout)
	settings.PassTimeout = envDuration("PASS_TIMEOUT", settings.PassTimeout)
	settings.ListPageSize = envInt("LIST_PAGE_SIZE", 0)
	settings.AllowPrivate = os.Getenv("ALLOW_PRIVATE_HOSTS") == "true"
	settings.Metrics = metrics.New(nil)

	service, err := bootstrap.NewService(settings)
	if err != nil {
		log.Fatal("Failed to create browse service:", err)
	}

	r := chi.NewRouter()

	r.Use(chiMiddleware.Logger)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.RequestID)

	// Rate limiting applies to routes that trigger outbound resolution
	rateLimiter := middleware.NewRateLimiter(envInt("RATE_LIMIT_RPM", 120), 1*time.Minute)

	routes.RegisterBrowseRoutes(r, service, rateLimiter)
	routes.RegisterWebRoutes(r, service, rateLimiter, version)

	r.Handle("/metrics", promhttp.Handler())

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})

	port := os.Getenv("BRANCHES_PORT")
	if port == "" {
		port = "8080"
	}

	server := &http.Server{
		Addr:              ":" + port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	fmt.Printf("Branches %s starting on port %s\n", version, port)
	fmt.Printf("PLC directory: %s\n", settings.PLCURL)
	fmt.Printf("Handle resolution: %s via %s\n", settings.HandleResolution, settings.DiscoveryHost)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	if err := serve(server, rateLimiter, sigCh, 30*time.Second); err != nil {
		log.Printf("[SERVER] Server error: %v", err)
		os.Exit(1)
	}
}

// serve runs server until a signal arrives or it fails to listen. Either way
// in-flight requests are drained and the rate limiter is stopped before it returns.
func serve(server *http.Server, limiter *middleware.RateLimiter, sigCh <-chan os.Signal, drain time.Duration) error {
	errCh := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	var serveErr error
	select {
	case sig := <-sigCh:
		log.Printf("[SERVER] Received %s, shutting down", sig)
	case serveErr = <-errCh:
	}

	ctx, cancel := context.WithTimeout(context.Background(), drain)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Printf("[SERVER] Shutdown error: %v", err)
	}
	limiter.Stop()
	log.Println("[SERVER] Stopped")

	return serveErr
}

// envInt reads a non-negative integer from the environment, or returns fallback
func envInt(key string, fallback int) int {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		log.Printf("[SERVER] Ignoring invalid %s=%q", key, raw)
		return fallback
	}
	return n
}

// envDuration reads a duration such as "10s" from the environment, or returns fallback
func envDuration(key string, fallback time.Duration) time.Duration {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		log.Printf("[SERVER] Ignoring invalid %s=%q", key, raw)
		return fallback
	}
	return d
}
