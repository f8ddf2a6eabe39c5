package fractal

import "fmt"

// Window is the part of a canvas covered by a render, together with the
// mapping from window pixels to the complex plane.
type Window struct {
	// Width and Height are the pixel extents of the window (≥ 1).
	Width, Height int

	// OffsetX and OffsetY locate the window inside the canvas.
	OffsetX, OffsetY int

	// ScaleX and ScaleY are plane units per pixel.
	ScaleX, ScaleY float32

	// ShiftX and ShiftY move the scaled pixel grid onto the region of interest.
	ShiftX, ShiftY float32
}

// ComputeWindow fits the geometry of kind into a canvasWidth×canvasHeight canvas.
//
// The window takes the full canvas height when the target aspect allows it and
// is centered horizontally; otherwise it takes the full width and is centered
// vertically. Both canvas dimensions must be at least 1.
func ComputeWindow(canvasWidth, canvasHeight int, kind Kind) Window {
	if canvasWidth < 1 || canvasHeight < 1 {
		panic(fmt.Sprintf("fractal: invalid canvas size %dx%d", canvasWidth, canvasHeight))
	}
	g := kind.Geometry()

	w := Window{Width: canvasHeight * g.AspectW / g.AspectH, Height: canvasHeight}
	if w.Width <= canvasWidth {
		w.Width = atLeastOne(w.Width)
		w.OffsetX = (canvasWidth - w.Width) / 2
	} else {
		w.Width = canvasWidth
		w.Height = atLeastOne(canvasWidth * g.AspectH / g.AspectW)
		w.OffsetY = (canvasHeight - w.Height) / 2
	}

	w.ScaleX = g.SpanX / float32(w.Width)
	w.ScaleY = g.SpanY / float32(w.Height)
	w.ShiftX = g.ShiftX
	w.ShiftY = g.ShiftY
	if g.CenterY {
		w.ShiftY = float32(float32(w.Height)/2) * w.ScaleY
	}
	return w
}

// Point maps window pixel (px, py) to the complex plane.
func (w Window) Point(px, py int) Complex {
	return Complex{
		Re: float32(float32(px)*w.ScaleX) - w.ShiftX,
		Im: float32(float32(py)*w.ScaleY) - w.ShiftY,
	}
}

// Pixels returns the number of pixels covered by the window.
func (w Window) Pixels() int {
	return w.Width * w.Height
}

func atLeastOne(n int) int {
	if n < 1 {
		return 1
	}
	return n
}
