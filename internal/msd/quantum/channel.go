package quantum

// DepolarizingChannel represents a simulated noisy preparation channel
type DepolarizingChannel struct {
	// ErrorRate is the total probability of a Pauli error (0.0 to 1.0)
	ErrorRate float64
}

// NewDepolarizingChannel creates a channel with the given total error rate
func NewDepolarizingChannel(errorRate float64) *DepolarizingChannel {
	return &DepolarizingChannel{ErrorRate: ClampProbability(errorRate)}
}

// Transmit passes a state through the channel, sampling exactly one noise event
func (dc *DepolarizingChannel) Transmit(rng RandomSource, state QubitState) QubitState {
	return state.ApplyDepolarizingNoise(rng, dc.ErrorRate)
}
