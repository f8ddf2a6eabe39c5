// Package fractal implements the escape-time core for Julia and Mandelbrot sets.
//
// # Overview
//
// Rendering a fractal is split into three pieces that this package provides:
//
//   - [Complex]: float32 complex arithmetic (addition, multiplication, magnitude)
//   - [ComputeWindow]: fits a fractal's natural bounding box into a canvas,
//     returning the pixel sub-rectangle and the pixel → plane mapping
//   - [Iterate]: runs the escape-time recurrence for one point
//
// Each [Kind] carries a [Geometry] with the constants that shape its window.
// New fractal families are added as new kinds with their own geometry rather
// than as branches in the mapper.
//
// # Usage
//
//	w := fractal.ComputeWindow(800, 600, fractal.Mandelbrot)
//	for py := 0; py < w.Height; py++ {
//	    for px := 0; px < w.Width; px++ {
//	        n := fractal.Iterate(w.Point(px, py), fractal.Mandelbrot)
//	        // write n at (px+w.OffsetX, py+w.OffsetY)
//	    }
//	}
//
// All functions are pure and safe for concurrent use.
package fractal
