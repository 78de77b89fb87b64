package quantum

import "math"

// QubitState represents α|0⟩ + β|1⟩.
//
// States are values: noise and basis changes return a new state and never
// modify the receiver. Callers are responsible for keeping |α|² + |β|² = 1;
// measurement clamps the derived probability into [0, 1] instead of renormalising.
type QubitState struct {
	Alpha Complex
	Beta  Complex
}

// NewQubitState creates a state from its two amplitudes
func NewQubitState(alpha, beta Complex) QubitState {
	return QubitState{Alpha: alpha, Beta: beta}
}

// Norm returns |α|² + |β|²
func (s QubitState) Norm() float64 {
	return s.Alpha.MagnitudeSquared() + s.Beta.MagnitudeSquared()
}

// Probability0 returns the probability of measuring |0⟩, clamped into [0, 1]
func (s QubitState) Probability0() float64 {
	return ClampProbability(s.Alpha.MagnitudeSquared())
}

// ApplyPauli applies a single Pauli error to the state
func (s QubitState) ApplyPauli(e PauliError) QubitState {
	switch e {
	case BitFlip:
		return QubitState{Alpha: s.Beta, Beta: s.Alpha}
	case PhaseFlip:
		return QubitState{Alpha: s.Alpha, Beta: s.Beta.Neg()}
	case BitPhaseFlip:
		// Y = [[0, -i], [i, 0]]
		return QubitState{
			Alpha: Complex{Real: s.Beta.Imag, Imag: -s.Beta.Real},
			Beta:  Complex{Real: -s.Alpha.Imag, Imag: s.Alpha.Real},
		}
	default:
		return s
	}
}

// ApplyDepolarizingNoise samples the depolarizing channel once with total
// probability p split evenly between X, Z and Y errors
func (s QubitState) ApplyDepolarizingNoise(rng RandomSource, p float64) QubitState {
	return s.ApplyPauli(SamplePauliError(rng, p))
}

// SamplePauliError draws one uniform value and picks the channel branch.
// [0, 1) is split into p/3, p/3, p/3 and 1-p, in X, Z, Y, identity order.
func SamplePauliError(rng RandomSource, p float64) PauliError {
	u := rng.Float64()
	switch {
	case u < p/3:
		return BitFlip
	case u < 2*p/3:
		return PhaseFlip
	case u < p:
		return BitPhaseFlip
	default:
		return NoError
	}
}

// Hadamard applies H = 1/√2 [[1, 1], [1, -1]]
func (s QubitState) Hadamard() QubitState {
	h := 1 / math.Sqrt2
	return QubitState{
		Alpha: s.Alpha.Add(s.Beta).Scale(h),
		Beta:  s.Alpha.Add(s.Beta.Neg()).Scale(h),
	}
}

// SDagger applies S† = diag(1, -i)
func (s QubitState) SDagger() QubitState {
	return QubitState{
		Alpha: s.Alpha,
		Beta:  Complex{Real: s.Beta.Imag, Imag: -s.Beta.Real},
	}
}

// Measure samples a computational-basis outcome with one fresh draw
func (s QubitState) Measure(rng RandomSource) Bit {
	if rng.Float64() < s.Probability0() {
		return Zero
	}
	return One
}

// MeasureZ is an alias for Measure
func (s QubitState) MeasureZ(rng RandomSource) Bit {
	return s.Measure(rng)
}

// MeasureX rotates with H and measures
func (s QubitState) MeasureX(rng RandomSource) Bit {
	return s.Hadamard().Measure(rng)
}

// MeasureY rotates with H·S† and measures
func (s QubitState) MeasureY(rng RandomSource) Bit {
	return s.SDagger().Hadamard().Measure(rng)
}

// MeasureIn measures the state in the given basis
func (s QubitState) MeasureIn(rng RandomSource, basis Basis) Bit {
	switch basis {
	case XBasis:
		return s.MeasureX(rng)
	case YBasis:
		return s.MeasureY(rng)
	default:
		return s.MeasureZ(rng)
	}
}

// Expectation returns the exact Pauli expectation value ⟨ψ|P|ψ⟩ for a basis
func (s QubitState) Expectation(basis Basis) float64 {
	// ⟨X⟩ = 2 Re(α*β), ⟨Y⟩ = 2 Im(α*β), ⟨Z⟩ = |α|² - |β|²
	cross := s.Alpha.Conjugate().Multiply(s.Beta)
	switch basis {
	case XBasis:
		return 2 * cross.Real
	case YBasis:
		return 2 * cross.Imag
	default:
		return s.Alpha.MagnitudeSquared() - s.Beta.MagnitudeSquared()
	}
}
