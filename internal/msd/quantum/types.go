package quantum

import (
	"fmt"
	"strings"
)

// Basis represents a single-qubit Pauli measurement basis
type Basis int

const (
	// XBasis measures in the Hadamard basis: |+⟩, |−⟩
	XBasis Basis = iota
	// YBasis measures in the circular basis: |+i⟩, |−i⟩
	YBasis
	// ZBasis measures in the computational basis: |0⟩, |1⟩
	ZBasis
)

// Bases lists the tomography bases in evaluation order
var Bases = []Basis{XBasis, YBasis, ZBasis}

func (b Basis) String() string {
	switch b {
	case XBasis:
		return "X"
	case YBasis:
		return "Y"
	case ZBasis:
		return "Z"
	default:
		return "Unknown"
	}
}

// ParseBasis converts "X", "Y" or "Z" (case-insensitive) into a Basis
func ParseBasis(s string) (Basis, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "X":
		return XBasis, nil
	case "Y":
		return YBasis, nil
	case "Z":
		return ZBasis, nil
	default:
		return 0, fmt.Errorf("unknown basis %q: must be one of X, Y, Z", s)
	}
}

// Bit represents a classical measurement outcome (0 or 1)
type Bit int

const (
	Zero Bit = 0
	One  Bit = 1
)

// Sign maps a measurement bit to its Pauli eigenvalue: 0 → +1, 1 → -1
func (b Bit) Sign() int {
	if b == Zero {
		return 1
	}
	return -1
}

// PauliError identifies which branch of the depolarizing channel fired
type PauliError int

const (
	NoError PauliError = iota
	BitFlip
	PhaseFlip
	BitPhaseFlip
)

func (e PauliError) String() string {
	switch e {
	case NoError:
		return "I"
	case BitFlip:
		return "X"
	case PhaseFlip:
		return "Z"
	case BitPhaseFlip:
		return "Y"
	default:
		return "Unknown"
	}
}
