package msd

import (
	"math"

	"github.com/jaskrrish/Go-MSD/internal/models/msd"
	"github.com/jaskrrish/Go-MSD/internal/msd/quantum"
)

// ReconstructDensityMatrix rebuilds ρ = ½(I + xX + yY + zZ) from Pauli expectations
func ReconstructDensityMatrix(x, y, z float64) [2][2]quantum.Complex {
	return [2][2]quantum.Complex{
		{quantum.NewComplex((1+z)/2, 0), quantum.NewComplex(x/2, -y/2)},
		{quantum.NewComplex(x/2, y/2), quantum.NewComplex((1-z)/2, 0)},
	}
}

// IdealTState returns the amplitudes of |T⟩ = (|0⟩ + e^{iπ/4}|1⟩)/√2
func IdealTState() [2]quantum.Complex {
	h := 1 / math.Sqrt2
	return [2]quantum.Complex{
		quantum.NewComplex(h, 0),
		quantum.FromPolar(h, math.Pi/4),
	}
}

// FidelityToTState returns ⟨T|ρ|T⟩
func FidelityToTState(rho [2][2]quantum.Complex) float64 {
	t := IdealTState()

	var overlap quantum.Complex
	for i := 0; i < 2; i++ {
		for j := 0; j < 2; j++ {
			overlap = overlap.Add(t[i].Conjugate().Multiply(rho[i][j]).Multiply(t[j]))
		}
	}
	return overlap.Real
}

// DensityMatrixModel splits ρ into the real/imaginary JSON representation
func DensityMatrixModel(rho [2][2]quantum.Complex) msd.DensityMatrix {
	var m msd.DensityMatrix
	for i := 0; i < 2; i++ {
		for j := 0; j < 2; j++ {
			m.Real[i][j] = rho[i][j].Real
			m.Imag[i][j] = rho[i][j].Imag
		}
	}
	return m
}
