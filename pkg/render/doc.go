// Package render drives the escape-time core over a canvas.
//
// # Overview
//
// [Render] computes the [fractal.Window] for a canvas, evaluates
// [fractal.Iterate] for every window pixel and stores the count in the green
// channel, leaving the gradient background in red and blue untouched.
//
//	c := canvas.New(800, 600)
//	if err := render.Render(ctx, c, fractal.Mandelbrot); err != nil {
//	    return err
//	}
//
// [Image] is the single-call entry point taking an immutable [Config]:
//
//	img, err := render.Image(ctx, render.Config{Width: 800, Height: 600, Kind: fractal.Julia})
//
// # Parallelism
//
// Pixels are independent, so [WithWorkers] splits the window into horizontal
// bands rendered concurrently. Bands write disjoint rows and the output is
// identical to the sequential render.
package render
