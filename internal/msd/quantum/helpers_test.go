package quantum

// constSource always returns the same draw
type constSource float64

func (c constSource) Float64() float64 { return float64(c) }

// sequenceSource replays a fixed list of draws, cycling when exhausted
type sequenceSource struct {
	values []float64
	next   int
}

func (s *sequenceSource) Float64() float64 {
	v := s.values[s.next%len(s.values)]
	s.next++
	return v
}
