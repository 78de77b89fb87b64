package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/jaskrrish/Go-MSD/internal/models/msd"
	msdcore "github.com/jaskrrish/Go-MSD/internal/msd"
)

func testEstimator() *msdcore.Estimator {
	return msdcore.NewEstimator(
		msdcore.WithSeed(7),
		msdcore.WithLogger(log.New(io.Discard)),
	)
}

func TestRunFromArgument(t *testing.T) {
	var out bytes.Buffer
	args := []string{`{"shots": 500, "error_rate": 0.02}`}

	if err := run(context.Background(), args, strings.NewReader(""), &out, testEstimator(), msd.DefaultShots); err != nil {
		t.Fatalf("run: %v", err)
	}

	var result msd.SimulationResult
	if err := json.Unmarshal(out.Bytes(), &result); err != nil {
		t.Fatalf("output is not a result: %v\n%s", err, out.String())
	}
	if result.TotalShots != 500 || result.ErrorRate != 0.02 || result.Seed != 7 {
		t.Errorf("unexpected result header: %+v", result)
	}
}

func TestRunFromStdinWithDefaults(t *testing.T) {
	var out bytes.Buffer

	if err := run(context.Background(), nil, strings.NewReader("{}"), &out, testEstimator(), 200); err != nil {
		t.Fatalf("run: %v", err)
	}

	var result msd.SimulationResult
	if err := json.Unmarshal(out.Bytes(), &result); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if result.TotalShots != 200 {
		t.Errorf("totalShots = %d, want default 200", result.TotalShots)
	}
	if result.ErrorRate != 0 {
		t.Errorf("errorRate = %v, want 0", result.ErrorRate)
	}
}

func TestRunRejectsInvalidInput(t *testing.T) {
	tests := []struct {
		name string
		arg  string
		want error
	}{
		{"shots out of range", `{"shots": 5}`, msd.ErrInvalidShots},
		{"shots wrong type", `{"shots": "many"}`, msd.ErrInvalidShots},
		{"shots null", `{"shots": null}`, msd.ErrInvalidShots},
		{"error rate out of range", `{"error_rate": 0.9}`, msd.ErrInvalidErrorRate},
		{"malformed", `{"shots"`, msd.ErrInvalidBody},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			err := run(context.Background(), []string{tt.arg}, nil, &out, testEstimator(), msd.DefaultShots)
			if !errors.Is(err, tt.want) {
				t.Fatalf("err = %v, want %v", err, tt.want)
			}
			if out.Len() != 0 {
				t.Errorf("unexpected output on failure: %s", out.String())
			}
		})
	}
}

func TestWriteFailure(t *testing.T) {
	tests := []struct {
		err      error
		wantType string
	}{
		{msd.ErrInvalidShots, "ValidationError"},
		{context.Canceled, "Canceled"},
		{msd.ErrSimulationFailed, "MSDError"},
		{errors.New("boom"), "SimulationError"},
	}

	for _, tt := range tests {
		var out bytes.Buffer
		writeFailure(&out, tt.err)

		var f failure
		if err := json.Unmarshal(out.Bytes(), &f); err != nil {
			t.Fatalf("decode failure: %v", err)
		}
		if f.Type != tt.wantType {
			t.Errorf("type for %v = %q, want %q", tt.err, f.Type, tt.wantType)
		}
		if f.Error != tt.err.Error() {
			t.Errorf("error = %q, want %q", f.Error, tt.err.Error())
		}
	}
}
