package quantum

import "math"

// MagicStateAngle is the Bloch half-angle of the distilled resource state
const MagicStateAngle = math.Pi / 8

// IdealMagicState returns cos(π/8)|0⟩ + sin(π/8)|1⟩
func IdealMagicState() QubitState {
	return QubitState{
		Alpha: NewComplex(math.Cos(MagicStateAngle), 0),
		Beta:  NewComplex(math.Sin(MagicStateAngle), 0),
	}
}

// IdealExpectations returns the Pauli expectations (x, y, z) of the ideal magic state
func IdealExpectations() (x, y, z float64) {
	c, s := math.Cos(MagicStateAngle), math.Sin(MagicStateAngle)
	return 2 * c * s, 0, c*c - s*s
}

// CreateNoisyMagicState prepares a fresh magic state and routes it through the
// depolarizing channel once. Every call performs an independent noise draw.
func CreateNoisyMagicState(rng RandomSource, errorRate float64) QubitState {
	return NewDepolarizingChannel(errorRate).Transmit(rng, IdealMagicState())
}
