// Command msd-simulate runs one distillation estimate and prints the result as JSON.
//
// Parameters {"shots": n, "error_rate": p} are read from the last argument, or
// from stdin when no argument is given. Failures print {"error", "type"} on
// stdout and exit with status 1, which is what the process backend expects.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/log"

	"github.com/jaskrrish/Go-MSD/internal/models/msd"
	msdcore "github.com/jaskrrish/Go-MSD/internal/msd"
	"github.com/jaskrrish/Go-MSD/internal/platform/config"
	"github.com/jaskrrish/Go-MSD/internal/platform/logging"
)

type failure struct {
	Error string `json:"error"`
	Type  string `json:"type"`
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		config.Exitf("config: %v", err)
	}

	logger, err := logging.New(cfg.LogLevel, "simulate")
	if err != nil {
		config.Exitf("logging: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	estimator := msdcore.NewEstimator(
		msdcore.WithSeed(cfg.Seed),
		msdcore.WithParallel(cfg.Parallel),
		msdcore.WithLogger(logger),
	)

	if err := run(ctx, os.Args[1:], os.Stdin, os.Stdout, estimator, cfg.DefaultShots); err != nil {
		logger.Error("simulation failed", "err", err)
		writeFailure(os.Stdout, err)
		stop()
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stdin io.Reader, stdout io.Writer, estimator *msdcore.Estimator, defaultShots int) error {
	req, err := readRequest(args, stdin)
	if err != nil {
		return err
	}

	req.ApplyDefaults(defaultShots)
	if err := req.Validate(); err != nil {
		return err
	}

	result, err := estimator.Run(ctx, *req.Shots, *req.ErrorRate)
	if err != nil {
		return fmt.Errorf("run estimator: %w", err)
	}

	enc := json.NewEncoder(stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(result)
}

func readRequest(args []string, stdin io.Reader) (*msd.SimulateRequest, error) {
	var raw []byte
	if len(args) > 0 {
		raw = []byte(args[len(args)-1])
	} else {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return nil, fmt.Errorf("read stdin: %w", err)
		}
		raw = data
	}

	return msd.ParseSimulateRequest(raw)
}

// writeFailure reports err as {"error", "type"} where type names the failure class
func writeFailure(w io.Writer, err error) {
	kind := "SimulationError"
	var msdErr *msd.MSDError
	switch {
	case errors.Is(err, msd.ErrInvalidShots), errors.Is(err, msd.ErrInvalidErrorRate), errors.Is(err, msd.ErrInvalidBody):
		kind = "ValidationError"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		kind = "Canceled"
	case errors.As(err, &msdErr):
		kind = "MSDError"
	}

	if encErr := json.NewEncoder(w).Encode(failure{Error: err.Error(), Type: kind}); encErr != nil {
		log.Error("write failure", "err", encErr)
	}
}
