package msd

import (
	"errors"
	"testing"
)

func intPtr(v int) *int { return &v }
func floatPtr(v float64) *float64 { return &v }

// TestParseSimulateRequest tests decoding of request bodies
func TestParseSimulateRequest(t *testing.T) {
	tests := []struct {
		name      string
		body      string
		wantShots *int
		wantRate  *float64
		wantErr   error
	}{
		{"Empty body", "", nil, nil, nil},
		{"Empty object", "{}", nil, nil, nil},
		{"Both fields", `{"shots": 2000, "error_rate": 0.05}`, intPtr(2000), floatPtr(0.05), nil},
		{"Exponent shots", `{"shots": 1e3}`, intPtr(1000), nil, nil},
		{"Integral float shots", `{"shots": 500.0}`, intPtr(500), nil, nil},
		{"Null shots", `{"shots": null}`, nil, nil, ErrInvalidShots},
		{"String shots", `{"shots": "1000"}`, nil, nil, ErrInvalidShots},
		{"Fractional shots", `{"shots": 150.5}`, nil, nil, ErrInvalidShots},
		{"Boolean shots", `{"shots": true}`, nil, nil, ErrInvalidShots},
		{"Null error rate", `{"error_rate": null}`, nil, nil, ErrInvalidErrorRate},
		{"String error rate", `{"error_rate": "0.1"}`, nil, nil, ErrInvalidErrorRate},
		{"Malformed", `{"shots":`, nil, nil, ErrInvalidBody},
		{"Not an object", `[1, 2]`, nil, nil, ErrInvalidBody},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, err := ParseSimulateRequest([]byte(tt.body))
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("err = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if (req.Shots == nil) != (tt.wantShots == nil) || (req.Shots != nil && *req.Shots != *tt.wantShots) {
				t.Errorf("shots = %v, want %v", req.Shots, tt.wantShots)
			}
			if (req.ErrorRate == nil) != (tt.wantRate == nil) || (req.ErrorRate != nil && *req.ErrorRate != *tt.wantRate) {
				t.Errorf("error rate = %v, want %v", req.ErrorRate, tt.wantRate)
			}
		})
	}
}

// TestSimulateRequestValidate tests request validation bounds
func TestSimulateRequestValidate(t *testing.T) {
	tests := []struct {
		name     string
		req      SimulateRequest
		expected error
	}{
		{"Valid request", SimulateRequest{intPtr(2000), floatPtr(0.01)}, nil},
		{"Minimum bounds", SimulateRequest{intPtr(100), floatPtr(0)}, nil},
		{"Maximum bounds", SimulateRequest{intPtr(100000), floatPtr(0.5)}, nil},
		{"Too few shots", SimulateRequest{intPtr(99), floatPtr(0)}, ErrInvalidShots},
		{"Too many shots", SimulateRequest{intPtr(100001), floatPtr(0)}, ErrInvalidShots},
		{"Missing shots", SimulateRequest{nil, floatPtr(0)}, ErrInvalidShots},
		{"Negative error rate", SimulateRequest{intPtr(1000), floatPtr(-0.01)}, ErrInvalidErrorRate},
		{"Error rate above half", SimulateRequest{intPtr(1000), floatPtr(0.51)}, ErrInvalidErrorRate},
		{"Missing error rate", SimulateRequest{intPtr(1000), nil}, ErrInvalidErrorRate},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.Validate()
			if err != tt.expected {
				t.Errorf("expected %v, got %v", tt.expected, err)
			}
		})
	}
}

// TestSimulateRequestApplyDefaults tests default filling
func TestSimulateRequestApplyDefaults(t *testing.T) {
	var req SimulateRequest
	req.ApplyDefaults(2000)

	if req.Shots == nil || *req.Shots != 2000 {
		t.Errorf("expected default shots 2000, got %v", req.Shots)
	}
	if req.ErrorRate == nil || *req.ErrorRate != DefaultErrorRate {
		t.Errorf("expected default error rate %v, got %v", DefaultErrorRate, req.ErrorRate)
	}

	explicit := SimulateRequest{Shots: intPtr(500), ErrorRate: floatPtr(0.2)}
	explicit.ApplyDefaults(2000)
	if *explicit.Shots != 500 || *explicit.ErrorRate != 0.2 {
		t.Error("explicit values should not be overwritten")
	}
}

// TestSimulationError tests sentinel matching on wrapped backend failures
func TestSimulationError(t *testing.T) {
	cause := errors.New("exit status 1")
	err := error(&SimulationError{Kind: ErrSimulationFailed, Details: "traceback", Err: cause})

	if !errors.Is(err, ErrSimulationFailed) {
		t.Error("expected error to match ErrSimulationFailed")
	}
	if errors.Is(err, ErrParseOutput) {
		t.Error("did not expect error to match ErrParseOutput")
	}
	if !errors.Is(err, cause) {
		t.Error("expected error to match its cause")
	}
	if err.Error() != "Simulation failed: exit status 1" {
		t.Errorf("unexpected message %q", err.Error())
	}

	var simErr *SimulationError
	if !errors.As(err, &simErr) || simErr.Details != "traceback" {
		t.Error("expected details to be recoverable with errors.As")
	}

	bare := &SimulationError{Kind: ErrParseOutput}
	if bare.Error() != ErrParseOutput.Message {
		t.Errorf("unexpected message %q", bare.Error())
	}
}
