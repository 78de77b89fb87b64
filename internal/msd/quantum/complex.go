package quantum

import "math"

// Complex is an immutable complex amplitude. Every operation returns a new value.
type Complex struct {
	Real float64
	Imag float64
}

// NewComplex creates a complex value from its real and imaginary parts
func NewComplex(real, imag float64) Complex {
	return Complex{Real: real, Imag: imag}
}

// FromPolar builds r·(cos θ + i sin θ)
func FromPolar(r, theta float64) Complex {
	return Complex{Real: r * math.Cos(theta), Imag: r * math.Sin(theta)}
}

// Add returns c + other
func (c Complex) Add(other Complex) Complex {
	return Complex{Real: c.Real + other.Real, Imag: c.Imag + other.Imag}
}

// Multiply returns c · other
func (c Complex) Multiply(other Complex) Complex {
	return Complex{
		Real: c.Real*other.Real - c.Imag*other.Imag,
		Imag: c.Real*other.Imag + c.Imag*other.Real,
	}
}

// Conjugate returns the complex conjugate of c
func (c Complex) Conjugate() Complex {
	return Complex{Real: c.Real, Imag: -c.Imag}
}

// Neg returns -c
func (c Complex) Neg() Complex {
	return Complex{Real: -c.Real, Imag: -c.Imag}
}

// Scale multiplies both parts by a real factor
func (c Complex) Scale(f float64) Complex {
	return Complex{Real: c.Real * f, Imag: c.Imag * f}
}

// Magnitude returns the Euclidean norm |c|
func (c Complex) Magnitude() float64 {
	return math.Hypot(c.Real, c.Imag)
}

// MagnitudeSquared returns |c|², the Born-rule weight of an amplitude
func (c Complex) MagnitudeSquared() float64 {
	return c.Real*c.Real + c.Imag*c.Imag
}
