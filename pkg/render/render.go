package render

import (
	"context"
	"image"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/fractals/pkg/canvas"
	"github.com/matzehuels/fractals/pkg/errors"
	"github.com/matzehuels/fractals/pkg/fractal"
)

// Config describes a complete render. It is passed by value and never
// modified by this package.
type Config struct {
	Width   int
	Height  int
	Kind    fractal.Kind
	Workers int // ≤ 1 renders on the calling goroutine
}

// Validate reports whether the config describes a renderable canvas.
func (c Config) Validate() error {
	if c.Width < 1 || c.Height < 1 {
		return errors.New(errors.ErrCodeInvalidSize, "image size must be at least 1x1, got %dx%d", c.Width, c.Height)
	}
	if c.Kind != fractal.Julia && c.Kind != fractal.Mandelbrot {
		return errors.New(errors.ErrCodeInvalidKind, "unknown fractal kind %d", c.Kind)
	}
	return nil
}

// Image allocates a canvas for cfg and renders into it.
func Image(ctx context.Context, cfg Config, opts ...Option) (*canvas.Canvas, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	c := canvas.New(cfg.Width, cfg.Height)
	opts = append([]Option{WithWorkers(cfg.Workers)}, opts...)
	if err := Render(ctx, c, cfg.Kind, opts...); err != nil {
		return nil, err
	}
	return c, nil
}

// Option configures Render.
type Option func(*renderer)

// WithWorkers renders the window in n concurrent row bands.
func WithWorkers(n int) Option {
	return func(r *renderer) { r.workers = n }
}

// WithProgress registers fn to be called after each completed row with the
// number of rows done so far and the window height. With several workers fn
// is called concurrently.
func WithProgress(fn func(done, total int)) Option {
	return func(r *renderer) { r.progress = fn }
}

type renderer struct {
	workers  int
	progress func(done, total int)

	kind fractal.Kind
	win  fractal.Window
	dst  *canvas.Canvas
	rows atomic.Int64
}

// Render draws kind into c in place. It only returns an error when ctx is
// cancelled, which is checked between rows.
func Render(ctx context.Context, c *canvas.Canvas, kind fractal.Kind, opts ...Option) error {
	r := &renderer{
		workers: 1,
		kind:    kind,
		win:     fractal.ComputeWindow(c.Width(), c.Height(), kind),
		dst:     c,
	}
	for _, opt := range opts {
		opt(r)
	}

	window := image.Rect(0, 0, r.win.Width, r.win.Height)
	if r.workers <= 1 {
		return r.band(ctx, window)
	}

	g, ctx := errgroup.WithContext(ctx)
	for _, b := range splitRows(window, r.workers) {
		g.Go(func() error { return r.band(ctx, b) })
	}
	return g.Wait()
}

// band renders the window pixels inside b, given in window coordinates.
func (r *renderer) band(ctx context.Context, b image.Rectangle) error {
	for py := b.Min.Y; py < b.Max.Y; py++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		for px := b.Min.X; px < b.Max.X; px++ {
			n := fractal.Iterate(r.win.Point(px, py), r.kind)
			r.dst.SetGreen(px+r.win.OffsetX, py+r.win.OffsetY, n)
		}
		done := r.rows.Add(1)
		if r.progress != nil {
			r.progress(int(done), r.win.Height)
		}
	}
	return nil
}

// splitRows splits r into at most n full-width bands of near-equal height.
// The last bands absorb the remainder.
func splitRows(r image.Rectangle, n int) []image.Rectangle {
	h := r.Dy()
	if n > h {
		n = h
	}
	if n < 1 {
		n = 1
	}

	bands := make([]image.Rectangle, 0, n)
	y := r.Min.Y
	for i := 0; i < n; i++ {
		th := h / n
		if i >= n-h%n {
			th++
		}
		bands = append(bands, image.Rect(r.Min.X, y, r.Max.X, y+th))
		y += th
	}
	return bands
}
