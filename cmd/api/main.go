package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/jaskrrish/Go-MSD/internal/handlers"
	"github.com/jaskrrish/Go-MSD/internal/msd"
	"github.com/jaskrrish/Go-MSD/internal/platform/config"
	"github.com/jaskrrish/Go-MSD/internal/platform/logging"
	"github.com/jaskrrish/Go-MSD/internal/platform/otel"
)

const serviceName = "go-msd-api"

func main() {
	cfg, err := config.Load()
	if err != nil {
		config.Exitf("config: %v", err)
	}

	logger, err := logging.New(cfg.LogLevel, "api")
	if err != nil {
		config.Exitf("logging: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := otel.Setup(ctx, serviceName, otel.Settings{Enabled: cfg.OTelEnabled, Endpoint: cfg.OTelEndpoint})
	if err != nil {
		logger.Fatal("failed to set up tracing", "err", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracing(shutdownCtx); err != nil {
			logger.Warn("tracing shutdown", "err", err)
		}
	}()

	// Create a new HTTP multiplexer
	mux := http.NewServeMux()

	backend, err := newBackend(cfg, logger)
	if err != nil {
		logger.Fatal("failed to create backend", "err", err)
	}
	msdHandler := handlers.NewMSDHandler(backend, cfg.DefaultShots, cfg.RequestTimeout, logger)

	// Register service routes
	mux.HandleFunc("/", handlers.HomeHandler)
	mux.HandleFunc("/health", msdHandler.HealthCheckHandler)

	// Register distillation routes
	mux.HandleFunc("/api/simulate", msdHandler.SimulateHandler)
	mux.HandleFunc("/api/v1/msd/simulate", msdHandler.SimulateHandler)
	mux.HandleFunc("/api/v1/msd/circuit", msdHandler.CircuitHandler)
	mux.HandleFunc("/api/v1/msd/health", msdHandler.HealthCheckHandler)

	// Create server with timeouts; writes must outlive the simulation deadline
	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      loggingMiddleware(logger, mux),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: cfg.RequestTimeout + 15*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server starting", "port", cfg.Port, "backend", backend.Name())
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server failed to start", "err", err)
		}
	case <-ctx.Done():
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("graceful shutdown failed", "err", err)
		}
	}
}

// newBackend selects the simulation backend named by MSD_BACKEND
func newBackend(cfg *config.Config, logger *log.Logger) (msd.SimulationBackend, error) {
	switch cfg.Backend {
	case config.BackendProcess:
		return msd.NewProcessBackend(cfg.SimulatorPath), nil
	case config.BackendRemote:
		remote, err := msd.NewRemoteBackend(&msd.RemoteConfig{
			BaseURL:    cfg.RemoteURL,
			APIKey:     cfg.RemoteAPIKey,
			HTTPClient: &http.Client{Timeout: cfg.RequestTimeout},
		})
		if err != nil {
			return nil, err
		}
		return remote, nil
	}

	estimator := msd.NewEstimator(
		msd.WithSeed(cfg.Seed),
		msd.WithParallel(cfg.Parallel),
		msd.WithLogger(logger.WithPrefix("estimator")),
	)
	return msd.NewLocalBackend(estimator), nil
}

// loggingMiddleware logs all incoming requests
func loggingMiddleware(logger *log.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		requestID := r.Header.Get("X-Request-ID")
		if requestID == "" {
			requestID = uuid.NewString()
		}
		w.Header().Set("X-Request-ID", requestID)

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		logger.Info("request",
			"id", requestID,
			"method", r.Method,
			"path", r.URL.RequestURI(),
			"remote", r.RemoteAddr,
			"status", rec.status,
			"elapsed", time.Since(start),
		)
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}
