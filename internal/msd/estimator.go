package msd

import (
	"context"
	"math"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"github.com/jaskrrish/Go-MSD/internal/models/msd"
	"github.com/jaskrrish/Go-MSD/internal/msd/quantum"
)

const tracerName = "github.com/jaskrrish/Go-MSD/internal/msd"

// Protocol constants for the analytic 15-to-1 approximation
const (
	// MinAcceptanceProbability keeps the sampler from starving at high input error
	MinAcceptanceProbability = 0.001
	// CubicSuppressionFactor is the leading coefficient of the output error law 35p³
	CubicSuppressionFactor = 35.0

	// shots between context checks
	cancelCheckInterval = 1024
)

// AcceptanceProbability approximates the chance that all syndrome checks pass:
// max(0.001, (1-p)^15)
func AcceptanceProbability(errorRate float64) float64 {
	return math.Max(MinAcceptanceProbability, math.Pow(1-errorRate, quantum.DistillationDataQubits))
}

// OutputErrorRate returns min(p, 35p³); the clamp stops the cubic law from
// exceeding the input above its fixed point 1/√35
func OutputErrorRate(errorRate float64) float64 {
	return math.Min(errorRate, CubicSuppressionFactor*errorRate*errorRate*errorRate)
}

// BasisTally is the partial aggregate of one basis loop
type BasisTally struct {
	Basis    quantum.Basis
	Accepted int
	// Sum of signed outcomes (+1 for bit 0, -1 for bit 1) over accepted shots
	Sum int
}

// Expectation returns the mean signed outcome, or 0 when nothing was accepted
func (t BasisTally) Expectation() float64 {
	if t.Accepted == 0 {
		return 0
	}
	return float64(t.Sum) / float64(t.Accepted)
}

// TallyBasis runs the post-selected sampling loop for a single basis.
// Each shot draws acceptance, and accepted shots prepare a magic state at the
// suppressed error rate and measure it in basis. ctx is checked every
// cancelCheckInterval shots.
func TallyBasis(ctx context.Context, rng quantum.RandomSource, basis quantum.Basis, shots int, errorRate float64) (BasisTally, error) {
	tally := BasisTally{Basis: basis}
	accept := quantum.ClampProbability(AcceptanceProbability(errorRate))
	outputRate := OutputErrorRate(errorRate)

	for i := 0; i < shots; i++ {
		if i%cancelCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return tally, err
			}
		}

		if rng.Float64() >= accept {
			continue
		}

		state := quantum.CreateNoisyMagicState(rng, outputRate)
		tally.Accepted++
		tally.Sum += state.MeasureIn(rng, basis).Sign()
	}

	return tally, nil
}

// SourceFactory returns the random stream used for one basis of a run
type SourceFactory func(seed int64, basis quantum.Basis) quantum.RandomSource

// DerivedSources gives each basis its own stream seeded by DeriveSeed(seed, basis)
func DerivedSources(seed int64, basis quantum.Basis) quantum.RandomSource {
	return quantum.NewSeededSource(quantum.DeriveSeed(seed, basis.String()))
}

// Estimator is the Monte-Carlo driver for the distillation protocol
type Estimator struct {
	seed     int64
	parallel bool
	sources  SourceFactory
	logger   *log.Logger
	tracer   trace.Tracer
}

// Option configures an Estimator
type Option func(*Estimator)

// WithSeed fixes the master seed. Zero draws a fresh seed for every run.
func WithSeed(seed int64) Option {
	return func(e *Estimator) { e.seed = seed }
}

// WithParallel runs the three basis loops concurrently
func WithParallel(parallel bool) Option {
	return func(e *Estimator) { e.parallel = parallel }
}

// WithSourceFactory overrides how per-basis random streams are built
func WithSourceFactory(f SourceFactory) Option {
	return func(e *Estimator) {
		if f != nil {
			e.sources = f
		}
	}
}

// WithLogger sets the logger used for run summaries
func WithLogger(logger *log.Logger) Option {
	return func(e *Estimator) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// NewEstimator creates a new distillation estimator
func NewEstimator(opts ...Option) *Estimator {
	e := &Estimator{
		sources: DerivedSources,
		logger:  log.Default(),
		tracer:  otel.Tracer(tracerName),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Simulate runs the estimator without cancellation.
// Preconditions: shots ≥ 1 and 0 ≤ errorRate ≤ 1. shots = 0 yields zero
// expectations and a fidelity of 0.5.
func (e *Estimator) Simulate(shots int, errorRate float64) *msd.SimulationResult {
	// A background context never cancels, so Run cannot fail here.
	result, _ := e.Run(context.Background(), shots, errorRate)
	return result
}

// Run estimates the output fidelity and acceptance rate of the protocol.
// Negative shots are treated as zero and errorRate is clamped into [0, 1].
// The only error returned is ctx.Err().
func (e *Estimator) Run(ctx context.Context, shots int, errorRate float64) (*msd.SimulationResult, error) {
	if shots < 0 {
		shots = 0
	}
	errorRate = quantum.ClampProbability(errorRate)
	seed := e.runSeed()

	ctx, span := e.tracer.Start(ctx, "msd.Run", trace.WithAttributes(
		attribute.Int("msd.shots", shots),
		attribute.Float64("msd.error_rate", errorRate),
		attribute.Int64("msd.seed", seed),
	))
	defer span.End()

	start := time.Now()
	tallies := make([]BasisTally, len(quantum.Bases))

	if e.parallel {
		g, gctx := errgroup.WithContext(ctx)
		for i, basis := range quantum.Bases {
			g.Go(func() error {
				tally, err := e.tallyBasis(gctx, seed, basis, shots, errorRate)
				if err != nil {
					return err
				}
				tallies[i] = tally
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			span.RecordError(err)
			return nil, err
		}
	} else {
		for i, basis := range quantum.Bases {
			tally, err := e.tallyBasis(ctx, seed, basis, shots, errorRate)
			if err != nil {
				span.RecordError(err)
				return nil, err
			}
			tallies[i] = tally
		}
	}

	result := Aggregate(tallies, shots, errorRate)
	result.RunID = uuid.New()
	result.Seed = seed

	span.SetAttributes(
		attribute.String("msd.run_id", result.RunID.String()),
		attribute.Float64("msd.fidelity", result.Fidelity),
		attribute.Float64("msd.acceptance_rate", result.AcceptanceRate),
	)
	e.logger.Debug("distillation run complete",
		"run_id", result.RunID,
		"shots", shots,
		"error_rate", errorRate,
		"fidelity", result.Fidelity,
		"acceptance_rate", result.AcceptanceRate,
		"elapsed", time.Since(start),
	)

	return result, nil
}

func (e *Estimator) tallyBasis(ctx context.Context, seed int64, basis quantum.Basis, shots int, errorRate float64) (BasisTally, error) {
	ctx, span := e.tracer.Start(ctx, "msd.TallyBasis", trace.WithAttributes(
		attribute.String("msd.basis", basis.String()),
	))
	defer span.End()

	tally, err := TallyBasis(ctx, e.sources(seed, basis), basis, shots, errorRate)
	span.SetAttributes(attribute.Int("msd.accepted", tally.Accepted))
	return tally, err
}

func (e *Estimator) runSeed() int64 {
	if e.seed != 0 {
		return e.seed
	}
	seed, err := quantum.NewSeed()
	if err != nil {
		e.logger.Warn("falling back to time-based seed", "err", err)
		return time.Now().UnixNano()
	}
	return seed
}

// Aggregate reduces per-basis tallies into a simulation result.
// fidelity = clamp(0.5 + 0.5·(x·x₀ + y·y₀ + z·z₀), 0, 1) against the ideal
// magic state expectations; acceptanceRate is 0 when shots is 0.
func Aggregate(tallies []BasisTally, shots int, errorRate float64) *msd.SimulationResult {
	var exp msd.BasisValues
	var accepted msd.BasisCounts
	total := 0

	for _, t := range tallies {
		total += t.Accepted
		switch t.Basis {
		case quantum.XBasis:
			exp.X, accepted.X = t.Expectation(), t.Accepted
		case quantum.YBasis:
			exp.Y, accepted.Y = t.Expectation(), t.Accepted
		case quantum.ZBasis:
			exp.Z, accepted.Z = t.Expectation(), t.Accepted
		}
	}

	acceptanceRate := 0.0
	if shots > 0 {
		acceptanceRate = float64(total) / float64(shots*len(quantum.Bases))
	}

	rho := ReconstructDensityMatrix(exp.X, exp.Y, exp.Z)

	return &msd.SimulationResult{
		Fidelity:          EstimateFidelity(exp.X, exp.Y, exp.Z),
		AcceptanceRate:    acceptanceRate,
		ExpectationValues: exp,
		AcceptedShots:     accepted,
		TotalShots:        shots,
		ErrorRate:         errorRate,
		DensityMatrix:     DensityMatrixModel(rho),
		TStateFidelity:    FidelityToTState(rho),
	}
}

// EstimateFidelity scores measured Pauli expectations against the ideal magic state
func EstimateFidelity(x, y, z float64) float64 {
	idealX, idealY, idealZ := quantum.IdealExpectations()
	return quantum.ClampProbability(0.5 + 0.5*(x*idealX+y*idealY+z*idealZ))
}
