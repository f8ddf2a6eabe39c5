package pipeline

import (
	"context"

	"github.com/matzehuels/fractals/pkg/canvas"
	"github.com/matzehuels/fractals/pkg/codec"
	"github.com/matzehuels/fractals/pkg/render"
)

// Render computes the image described by opts.
func Render(ctx context.Context, opts Options) (*canvas.Canvas, error) {
	if err := opts.ValidateForRender(); err != nil {
		return nil, err
	}
	renderOpts := []render.Option{render.WithWorkers(opts.Workers)}
	if opts.Progress != nil {
		renderOpts = append(renderOpts, render.WithProgress(opts.Progress))
	}
	return render.Image(ctx, render.Config{
		Width:  opts.Width,
		Height: opts.Height,
		Kind:   opts.Kind,
	}, renderOpts...)
}

// Encode serializes a rendered canvas in the format described by opts.
func Encode(c *canvas.Canvas, opts Options) ([]byte, error) {
	if err := opts.ValidateForEncode(); err != nil {
		return nil, err
	}
	return codec.EncodeBytes(c, opts.Format, codec.WithJPEGQuality(opts.JPEGQuality))
}
