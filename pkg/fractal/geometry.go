package fractal

// Geometry holds the constants that fit a fractal's interesting region into a
// canvas. The values are empirical; they are kept here so each kind owns its
// own set.
type Geometry struct {
	// AspectW:AspectH is the target window shape (1:1 is square).
	AspectW, AspectH int

	// SpanX and SpanY are the plane extents covered by the full window.
	SpanX, SpanY float32

	// ShiftX and ShiftY are subtracted from the scaled pixel position.
	ShiftX, ShiftY float32

	// CenterY replaces ShiftY with half the window height in plane units,
	// centering the real axis vertically.
	CenterY bool
}

var (
	mandelbrotGeometry = Geometry{
		AspectW: 1,
		AspectH: 1,
		SpanX:   2.2,
		SpanY:   2.2,
		ShiftX:  1.6,
		CenterY: true,
	}

	juliaGeometry = Geometry{
		AspectW: 3,
		AspectH: 2,
		SpanX:   3.0,
		SpanY:   2.0,
		ShiftX:  1.5,
		ShiftY:  1.0,
	}
)

// Aspect returns the target width/height ratio.
func (g Geometry) Aspect() float64 {
	return float64(g.AspectW) / float64(g.AspectH)
}
