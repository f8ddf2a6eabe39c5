package fractal

// MaxIterations caps the escape-time recurrence; it is also the count
// reported for points that never escape.
const MaxIterations = 255

// escapeRadius is the magnitude beyond which an orbit is known to diverge.
const escapeRadius = 2.0

// JuliaParam is the fixed c used by the Julia recurrence.
var JuliaParam = Complex{Re: -0.4, Im: 0.6}

// Iterate returns the escape-time count of c for kind, in [0, MaxIterations].
//
// For Julia, c is the starting point z0 and the recurrence is z² + JuliaParam.
// For Mandelbrot, z0 is 0 and the recurrence is z² + c.
func Iterate(c Complex, kind Kind) uint8 {
	if kind == Mandelbrot {
		return iterateMandelbrot(c)
	}
	return iterateJulia(c)
}

func iterateJulia(z Complex) uint8 {
	n := 0
	for n < MaxIterations && z.Abs() <= escapeRadius {
		z = z.Mul(z).Add(JuliaParam)
		n++
	}
	return uint8(n)
}

// iterateMandelbrot compares |z|² against the squared radius to skip the sqrt.
func iterateMandelbrot(c Complex) uint8 {
	var z Complex
	n := 0
	for n < MaxIterations && z.NormSqr() <= escapeRadius*escapeRadius {
		z = z.Mul(z).Add(c)
		n++
	}
	return uint8(n)
}
