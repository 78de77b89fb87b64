package msd

import (
	"bytes"
	"encoding/json"
	"math"

	"github.com/google/uuid"
)

// Request bounds enforced at the API boundary
const (
	MinShots         = 100
	MaxShots         = 100000
	DefaultShots     = 10000
	MinErrorRate     = 0.0
	MaxErrorRate     = 0.5
	DefaultErrorRate = 0.0
)

// SimulateRequest represents a request to run the distillation simulation.
// Fields are pointers so that absent values can take their defaults.
type SimulateRequest struct {
	Shots     *int     `json:"shots,omitempty"`
	ErrorRate *float64 `json:"error_rate,omitempty"`
}

// BasisValues holds one float per tomography basis
type BasisValues struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// BasisCounts holds one count per tomography basis
type BasisCounts struct {
	X int `json:"x"`
	Y int `json:"y"`
	Z int `json:"z"`
}

// DensityMatrix is a 2x2 single-qubit density matrix split into real and imaginary parts
type DensityMatrix struct {
	Real [2][2]float64 `json:"real"`
	Imag [2][2]float64 `json:"imag"`
}

// SimulationResult is the aggregate outcome of one distillation run
type SimulationResult struct {
	RunID             uuid.UUID     `json:"runId"`
	Fidelity          float64       `json:"fidelity"`
	AcceptanceRate    float64       `json:"acceptanceRate"`
	ExpectationValues BasisValues   `json:"expectationValues"`
	AcceptedShots     BasisCounts   `json:"acceptedShots"`
	TotalShots        int           `json:"totalShots"`
	ErrorRate         float64       `json:"errorRate"`
	Seed              int64         `json:"seed"`
	DensityMatrix     DensityMatrix `json:"densityMatrix"`
	TStateFidelity    float64       `json:"tStateFidelity"`
}

// CircuitResponse represents the OpenQASM export of the distillation circuit
type CircuitResponse struct {
	Basis        string `json:"basis"`
	QASM         string `json:"qasm"`
	Qubits       int    `json:"qubits"`
	SyndromeBits int    `json:"syndromeBits"`
}

// ErrorResponse is the JSON body returned for failed requests
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// ApplyDefaults fills absent fields with the given shot count and the default error rate
func (r *SimulateRequest) ApplyDefaults(defaultShots int) {
	if r.Shots == nil {
		shots := defaultShots
		r.Shots = &shots
	}
	if r.ErrorRate == nil {
		rate := DefaultErrorRate
		r.ErrorRate = &rate
	}
}

// ParseSimulateRequest decodes a request body.
// An empty body or an absent field means "use the default". A field that is
// present must be a JSON number: null, strings and fractional shot counts are
// rejected with that field's validation error. Integral exponent forms such
// as 1e3 are accepted as shots.
func ParseSimulateRequest(data []byte) (*SimulateRequest, error) {
	var req SimulateRequest
	if len(bytes.TrimSpace(data)) == 0 {
		return &req, nil
	}

	var raw struct {
		Shots     json.RawMessage `json:"shots"`
		ErrorRate json.RawMessage `json:"error_rate"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, &SimulationError{Kind: ErrInvalidBody, Details: err.Error(), Err: err}
	}

	if raw.Shots != nil {
		f, ok := parseNumber(raw.Shots)
		if !ok || f != math.Trunc(f) || math.Abs(f) > MaxShots*10 {
			return nil, ErrInvalidShots
		}
		shots := int(f)
		req.Shots = &shots
	}

	if raw.ErrorRate != nil {
		f, ok := parseNumber(raw.ErrorRate)
		if !ok {
			return nil, ErrInvalidErrorRate
		}
		req.ErrorRate = &f
	}

	return &req, nil
}

// parseNumber accepts only an unquoted JSON number literal
func parseNumber(raw json.RawMessage) (float64, bool) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || (raw[0] != '-' && (raw[0] < '0' || raw[0] > '9')) {
		return 0, false
	}

	var n json.Number
	if err := json.Unmarshal(raw, &n); err != nil {
		return 0, false
	}
	f, err := n.Float64()
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// Validate validates a simulate request
func (r *SimulateRequest) Validate() error {
	if r.Shots == nil || *r.Shots < MinShots || *r.Shots > MaxShots {
		return ErrInvalidShots
	}

	if r.ErrorRate == nil || *r.ErrorRate < MinErrorRate || *r.ErrorRate > MaxErrorRate {
		return ErrInvalidErrorRate
	}

	return nil
}

// Custom errors
type MSDError struct {
	Message string
}

func (e *MSDError) Error() string {
	return e.Message
}

var (
	ErrInvalidShots     = &MSDError{"Invalid shots parameter. Must be between 100 and 100000."}
	ErrInvalidErrorRate = &MSDError{"Invalid error_rate parameter. Must be between 0 and 0.5."}
	ErrInvalidBasis     = &MSDError{"Invalid basis parameter. Must be one of X, Y, Z."}
	ErrInvalidBody      = &MSDError{"Invalid request body"}
	ErrSimulationFailed = &MSDError{"Simulation failed"}
	ErrParseOutput      = &MSDError{"Failed to parse simulation output"}
)

// SimulationError carries diagnostic output from a failed backend run.
// Kind is one of the sentinel errors above so callers can match it with errors.Is.
type SimulationError struct {
	Kind    *MSDError
	Details string
	Err     error
}

func (e *SimulationError) Error() string {
	if e.Err != nil {
		return e.Kind.Message + ": " + e.Err.Error()
	}
	return e.Kind.Message
}

func (e *SimulationError) Unwrap() []error {
	if e.Err != nil {
		return []error{e.Kind, e.Err}
	}
	return []error{e.Kind}
}
