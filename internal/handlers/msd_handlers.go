package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/jaskrrish/Go-MSD/internal/models/msd"
	msdcore "github.com/jaskrrish/Go-MSD/internal/msd"
	"github.com/jaskrrish/Go-MSD/internal/msd/quantum"
)

// MSDHandler manages distillation-related HTTP requests
type MSDHandler struct {
	backend      msdcore.SimulationBackend
	defaultShots int
	timeout      time.Duration
	logger       *log.Logger
	tracer       trace.Tracer
}

// NewMSDHandler creates a new handler around a simulation backend
func NewMSDHandler(backend msdcore.SimulationBackend, defaultShots int, timeout time.Duration, logger *log.Logger) *MSDHandler {
	if logger == nil {
		logger = log.Default()
	}
	return &MSDHandler{
		backend:      backend,
		defaultShots: defaultShots,
		timeout:      timeout,
		logger:       logger,
		tracer:       otel.Tracer("github.com/jaskrrish/Go-MSD/internal/handlers"),
	}
}

// SimulateHandler handles POST /api/simulate and POST /api/v1/msd/simulate
func (h *MSDHandler) SimulateHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		respondWithError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	req, err := decodeSimulateRequest(w, r)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, requestErrorMessage(err))
		return
	}

	req.ApplyDefaults(h.defaultShots)
	if err := req.Validate(); err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	ctx := r.Context()
	if h.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.timeout)
		defer cancel()
	}

	ctx, span := h.tracer.Start(ctx, "handlers.Simulate", trace.WithAttributes(
		attribute.String("msd.backend", h.backend.Name()),
		attribute.Int("msd.shots", *req.Shots),
		attribute.Float64("msd.error_rate", *req.ErrorRate),
	))
	defer span.End()

	result, err := h.backend.Simulate(ctx, *req.Shots, *req.ErrorRate)
	if err != nil {
		span.RecordError(err)
		h.respondWithSimulationError(w, err)
		return
	}

	h.logger.Info("simulation complete",
		"run_id", result.RunID,
		"backend", h.backend.Name(),
		"shots", result.TotalShots,
		"error_rate", result.ErrorRate,
		"fidelity", result.Fidelity,
	)

	respondWithJSON(w, http.StatusOK, result)
}

// CircuitHandler handles GET /api/v1/msd/circuit?basis=X|Y|Z
// Returns the 15-to-1 distillation circuit as OpenQASM 2.0
func (h *MSDHandler) CircuitHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		respondWithError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	basis := quantum.ZBasis
	if raw := r.URL.Query().Get("basis"); raw != "" {
		parsed, err := quantum.ParseBasis(raw)
		if err != nil {
			respondWithError(w, http.StatusBadRequest, msd.ErrInvalidBasis.Error())
			return
		}
		basis = parsed
	}

	qasm, err := quantum.BuildDistillationCircuit(basis)
	if err != nil {
		respondWithDetails(w, http.StatusInternalServerError, "Internal server error", err.Error())
		return
	}

	respondWithJSON(w, http.StatusOK, msd.CircuitResponse{
		Basis:        basis.String(),
		QASM:         qasm,
		Qubits:       quantum.DistillationDataQubits + 1,
		SyndromeBits: len(quantum.ReedMullerStabilizers()),
	})
}

// HealthCheckHandler handles GET /health and GET /api/v1/msd/health
// Returns health status of the distillation service and its active backend
func (h *MSDHandler) HealthCheckHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		respondWithError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	health := map[string]interface{}{
		"status":     "healthy",
		"service":    "Magic State Distillation",
		"version":    "1.0.0",
		"backend":    h.backend.Name(),
		"in_process": h.backend.IsInProcess(),
		"timestamp":  time.Now().Format(time.RFC3339),
	}

	respondWithJSON(w, http.StatusOK, health)
}

// maxRequestBody bounds the simulate request body
const maxRequestBody = 1 << 20

func decodeSimulateRequest(w http.ResponseWriter, r *http.Request) (*msd.SimulateRequest, error) {
	if r.Body == nil {
		return &msd.SimulateRequest{}, nil
	}
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxRequestBody))
	if err != nil {
		return nil, msd.ErrInvalidBody
	}
	return msd.ParseSimulateRequest(body)
}

// requestErrorMessage returns the client-facing message for a decode failure
func requestErrorMessage(err error) string {
	var msdErr *msd.MSDError
	switch {
	case errors.Is(err, msd.ErrInvalidShots):
		return msd.ErrInvalidShots.Message
	case errors.Is(err, msd.ErrInvalidErrorRate):
		return msd.ErrInvalidErrorRate.Message
	case errors.As(err, &msdErr):
		return msdErr.Message
	}
	return msd.ErrInvalidBody.Message
}

func (h *MSDHandler) respondWithSimulationError(w http.ResponseWriter, err error) {
	details := err.Error()
	var simErr *msd.SimulationError
	if errors.As(err, &simErr) {
		details = simErr.Details
	}

	switch {
	case errors.Is(err, msd.ErrParseOutput):
		h.logger.Error("failed to parse simulation output", "backend", h.backend.Name(), "output", details)
		respondWithDetails(w, http.StatusInternalServerError, msd.ErrParseOutput.Message, details)
	case errors.Is(err, msd.ErrSimulationFailed):
		h.logger.Error("simulation failed", "backend", h.backend.Name(), "err", err)
		respondWithDetails(w, http.StatusInternalServerError, msd.ErrSimulationFailed.Message, details)
	default:
		h.logger.Error("simulation endpoint error", "backend", h.backend.Name(), "err", err)
		respondWithDetails(w, http.StatusInternalServerError, "Internal server error", details)
	}
}

// respondWithJSON sends a JSON response
func respondWithJSON(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(data)
}

// respondWithError sends an error response
func respondWithError(w http.ResponseWriter, statusCode int, message string) {
	respondWithJSON(w, statusCode, msd.ErrorResponse{Error: message})
}

// respondWithDetails sends an error response with diagnostic details
func respondWithDetails(w http.ResponseWriter, statusCode int, message, details string) {
	respondWithJSON(w, statusCode, msd.ErrorResponse{Error: message, Details: details})
}
