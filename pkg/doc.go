// Package pkg provides the libraries behind the fractals renderer.
//
// # Overview
//
// Fractals renders escape-time images of the Julia and Mandelbrot sets. Every
// pixel of a canvas is mapped into the complex plane, iterated until it
// escapes or reaches the iteration cap, and the count is written into the
// green channel over a red/blue gradient background.
//
// # Architecture
//
// The data flow for a single render:
//
//	(kind, width, height)
//	         ↓
//	    [fractal] (window mapping + escape-time iteration)
//	         ↓
//	    [render] over a [canvas] (row bands, optional workers)
//	         ↓
//	    [codec] (PNG, JPEG, GIF, BMP, TIFF)
//	         ↓
//	    image bytes
//
// [pipeline] wraps these stages with validation, caching and history so the
// CLI and the HTTP server behave identically.
//
// # Main Packages
//
// ## Core
//
// [fractal] - Fractal kinds, the complex-plane window for a canvas, and the
// escape-time iteration with its constants.
//
// [canvas] - RGB pixel grid initialised with the diagonal gradient.
//
// [render] - Drives the iteration over a canvas, sequentially or in
// concurrent row bands.
//
// [codec] - Image format detection and encoding.
//
// ## Infrastructure
//
// [pipeline] - Render → encode orchestration shared by CLI and server.
//
// [cache] - Artifact caches: file (CLI), Redis (shared), null (disabled).
//
// [history] - Render history: file, memory and MongoDB stores.
//
// [server] - HTTP and websocket access to the pipeline.
//
// [config] - TOML configuration file.
//
// [errors] - Coded errors and input validation.
//
// [observability] - Hooks for metrics and tracing.
//
// # Quick Start
//
//	img, err := render.Image(ctx, render.Config{
//	    Width:  800,
//	    Height: 600,
//	    Kind:   fractal.Julia,
//	})
//	if err != nil {
//	    return err
//	}
//	return codec.Save("julia.png", img)
//
// # Testing
//
//	go test ./pkg/...
//	go test -run Example ./pkg/...
//
// [fractal]: https://pkg.go.dev/github.com/matzehuels/fractals/pkg/fractal
// [canvas]: https://pkg.go.dev/github.com/matzehuels/fractals/pkg/canvas
// [render]: https://pkg.go.dev/github.com/matzehuels/fractals/pkg/render
// [codec]: https://pkg.go.dev/github.com/matzehuels/fractals/pkg/codec
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/fractals/pkg/pipeline
// [cache]: https://pkg.go.dev/github.com/matzehuels/fractals/pkg/cache
// [history]: https://pkg.go.dev/github.com/matzehuels/fractals/pkg/history
// [server]: https://pkg.go.dev/github.com/matzehuels/fractals/pkg/server
// [config]: https://pkg.go.dev/github.com/matzehuels/fractals/pkg/config
// [errors]: https://pkg.go.dev/github.com/matzehuels/fractals/pkg/errors
// [observability]: https://pkg.go.dev/github.com/matzehuels/fractals/pkg/observability
package pkg
