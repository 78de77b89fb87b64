package msd

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"

	"github.com/jaskrrish/Go-MSD/internal/models/msd"
)

// SimulationBackend defines the interface for anything that can execute a distillation run
type SimulationBackend interface {
	// Name returns the name of the backend
	Name() string

	// Simulate runs the distillation estimate for validated parameters
	Simulate(ctx context.Context, shots int, errorRate float64) (*msd.SimulationResult, error)

	// IsInProcess returns true when the estimator runs inside this process
	IsInProcess() bool
}

// LocalBackend runs the estimator in-process
type LocalBackend struct {
	name      string
	estimator *Estimator
}

// NewLocalBackend creates a backend around an estimator
func NewLocalBackend(estimator *Estimator) *LocalBackend {
	return &LocalBackend{
		name:      "local",
		estimator: estimator,
	}
}

// Name returns the name of the local backend
func (b *LocalBackend) Name() string {
	return b.name
}

// Simulate runs the estimator and wraps cancellation as a simulation failure
func (b *LocalBackend) Simulate(ctx context.Context, shots int, errorRate float64) (*msd.SimulationResult, error) {
	result, err := b.estimator.Run(ctx, shots, errorRate)
	if err != nil {
		return nil, &msd.SimulationError{Kind: msd.ErrSimulationFailed, Details: err.Error(), Err: err}
	}
	return result, nil
}

// IsInProcess returns true since the estimator runs in this process
func (b *LocalBackend) IsInProcess() bool {
	return true
}

// ProcessBackend delegates each run to an external simulator executable.
// The executable receives {"shots", "error_rate"} as its final argument and must
// print a SimulationResult as JSON on stdout.
type ProcessBackend struct {
	name string
	path string
	args []string

	// Env is appended to the inherited environment of the child process
	Env []string
}

// NewProcessBackend creates a backend that runs path with the given leading arguments
func NewProcessBackend(path string, args ...string) *ProcessBackend {
	return &ProcessBackend{
		name: "process:" + path,
		path: path,
		args: args,
	}
}

// Name returns the name of the process backend
func (b *ProcessBackend) Name() string {
	return b.name
}

// Simulate spawns the simulator and decodes its stdout.
// A non-zero exit yields ErrSimulationFailed with stderr as details;
// undecodable output yields ErrParseOutput with stdout as details.
func (b *ProcessBackend) Simulate(ctx context.Context, shots int, errorRate float64) (*msd.SimulationResult, error) {
	params, err := json.Marshal(msd.SimulateRequest{Shots: &shots, ErrorRate: &errorRate})
	if err != nil {
		return nil, fmt.Errorf("encode simulation parameters: %w", err)
	}

	args := make([]string, 0, len(b.args)+1)
	args = append(args, b.args...)
	args = append(args, string(params))

	cmd := exec.CommandContext(ctx, b.path, args...)
	if len(b.Env) > 0 {
		cmd.Env = append(os.Environ(), b.Env...)
	}

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return nil, &msd.SimulationError{Kind: msd.ErrSimulationFailed, Details: stderr.String(), Err: err}
	}

	var result msd.SimulationResult
	if err := json.Unmarshal(stdout.Bytes(), &result); err != nil {
		return nil, &msd.SimulationError{Kind: msd.ErrParseOutput, Details: stdout.String(), Err: err}
	}

	return &result, nil
}

// IsInProcess returns false since runs happen in a child process
func (b *ProcessBackend) IsInProcess() bool {
	return false
}
