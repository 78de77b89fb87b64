package msd

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/jaskrrish/Go-MSD/internal/models/msd"
)

// DefaultRemoteTimeout bounds a single remote run when no HTTP client is supplied
const DefaultRemoteTimeout = 60 * time.Second

// RemoteSimulatePath is the endpoint a remote distillation service exposes
const RemoteSimulatePath = "/api/v1/msd/simulate"

// RemoteConfig holds the settings for delegating runs to another MSD service
type RemoteConfig struct {
	// Base URL of the remote service, e.g. "http://msd-worker:8080"
	BaseURL string

	// Optional bearer token sent with every request
	APIKey string

	// HTTP client with timeout
	HTTPClient *http.Client
}

// RemoteBackend posts runs to a remote MSD API and decodes its result
type RemoteBackend struct {
	config *RemoteConfig
}

// NewRemoteBackend creates a backend for the service at config.BaseURL
func NewRemoteBackend(config *RemoteConfig) (*RemoteBackend, error) {
	if config == nil || config.BaseURL == "" {
		return nil, fmt.Errorf("remote base URL is required")
	}

	config.BaseURL = strings.TrimRight(config.BaseURL, "/")
	if config.HTTPClient == nil {
		config.HTTPClient = &http.Client{
			Timeout: DefaultRemoteTimeout,
		}
	}

	return &RemoteBackend{config: config}, nil
}

// Name returns the name of the remote backend
func (b *RemoteBackend) Name() string {
	return "remote:" + b.config.BaseURL
}

// Simulate submits the run and maps remote failures onto the local error kinds.
// A non-2xx response yields ErrSimulationFailed carrying the remote error body;
// an undecodable 2xx body yields ErrParseOutput.
func (b *RemoteBackend) Simulate(ctx context.Context, shots int, errorRate float64) (*msd.SimulationResult, error) {
	payload, err := json.Marshal(msd.SimulateRequest{Shots: &shots, ErrorRate: &errorRate})
	if err != nil {
		return nil, fmt.Errorf("encode simulation parameters: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, b.config.BaseURL+RemoteSimulatePath, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if b.config.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+b.config.APIKey)
	}

	resp, err := b.config.HTTPClient.Do(req)
	if err != nil {
		return nil, &msd.SimulationError{Kind: msd.ErrSimulationFailed, Details: err.Error(), Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &msd.SimulationError{Kind: msd.ErrSimulationFailed, Details: err.Error(), Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		details := string(body)
		var remote msd.ErrorResponse
		if json.Unmarshal(body, &remote) == nil && remote.Error != "" {
			details = remote.Error
			if remote.Details != "" {
				details += ": " + remote.Details
			}
		}
		return nil, &msd.SimulationError{
			Kind:    msd.ErrSimulationFailed,
			Details: details,
			Err:     fmt.Errorf("remote returned status %d", resp.StatusCode),
		}
	}

	var result msd.SimulationResult
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, &msd.SimulationError{Kind: msd.ErrParseOutput, Details: string(body), Err: err}
	}
	if result.TotalShots != shots {
		return nil, &msd.SimulationError{
			Kind:    msd.ErrParseOutput,
			Details: string(body),
			Err:     errors.New("remote result does not match the requested shots"),
		}
	}

	return &result, nil
}

// IsInProcess returns false since runs happen on another host
func (b *RemoteBackend) IsInProcess() bool {
	return false
}
