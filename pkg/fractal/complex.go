package fractal

import "math"

// Complex is a single-precision complex number.
type Complex struct {
	Re, Im float32
}

// Add returns c + d.
func (c Complex) Add(d Complex) Complex {
	return Complex{Re: c.Re + d.Re, Im: c.Im + d.Im}
}

// Mul returns c * d.
//
// Each product is converted explicitly so it is rounded to float32 before the
// sum; this keeps results identical on platforms with fused multiply-add.
func (c Complex) Mul(d Complex) Complex {
	return Complex{
		Re: float32(c.Re*d.Re) - float32(c.Im*d.Im),
		Im: float32(c.Re*d.Im) + float32(c.Im*d.Re),
	}
}

// NormSqr returns |c|².
func (c Complex) NormSqr() float32 {
	return float32(c.Re*c.Re) + float32(c.Im*c.Im)
}

// Abs returns |c|.
func (c Complex) Abs() float32 {
	return float32(math.Sqrt(float64(c.NormSqr())))
}
