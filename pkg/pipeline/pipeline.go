// Package pipeline provides the render → encode pipeline shared by the CLI
// and the server.
//
// # Architecture
//
// A pipeline run has two stages:
//
//  1. Render: compute the escape-time image for a kind and size
//  2. Encode: serialize the canvas into an image format
//
// The encoded artifact is cached under a key derived from the options, so
// repeated requests skip both stages.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	result, err := runner.Execute(ctx, pipeline.Options{
//	    Kind:   fractal.Mandelbrot,
//	    Width:  400,
//	    Height: 400,
//	    Format: "png",
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	os.WriteFile("fractal.png", result.Artifact, 0644)
package pipeline

import (
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/fractals/pkg/cache"
	"github.com/matzehuels/fractals/pkg/codec"
	"github.com/matzehuels/fractals/pkg/errors"
	"github.com/matzehuels/fractals/pkg/fractal"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and Server
// =============================================================================

const (
	// DefaultWidth is the default image width in pixels.
	DefaultWidth = 400

	// DefaultHeight is the default image height in pixels.
	DefaultHeight = 400

	// DefaultKind is the fractal rendered when none is requested.
	DefaultKind = fractal.Mandelbrot

	// DefaultOutput is the default output file name.
	DefaultOutput = "fractal.png"
)

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for a pipeline run.
// This struct supports JSON serialization for server requests.
type Options struct {
	Kind        fractal.Kind `json:"kind"`
	Width       int          `json:"width,omitempty"`
	Height      int          `json:"height,omitempty"`
	Format      string       `json:"format,omitempty"`
	JPEGQuality int          `json:"jpeg_quality,omitempty"`
	Refresh     bool         `json:"refresh,omitempty"`

	// Runtime options (not serialized)
	Workers  int                   `json:"-"`
	Logger   *log.Logger           `json:"-"`
	Progress func(done, total int) `json:"-"`
	Output   string                `json:"-"` // recorded in history only

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Artifact is the encoded image.
	Artifact []byte

	// Format is the canonical format of Artifact.
	Format string

	// RecordID is the history record of this run, empty without a history store.
	RecordID string

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks whether the artifact came from the cache.
	CacheInfo CacheInfo
}

// ContentType returns the MIME type of the artifact.
func (r *Result) ContentType() string {
	return codec.ContentType(r.Format)
}

// Stats contains pipeline execution statistics.
type Stats struct {
	Width      int
	Height     int
	Bytes      int
	RenderTime time.Duration
	EncodeTime time.Duration
}

// Total returns the combined stage time.
func (s Stats) Total() time.Duration {
	return s.RenderTime + s.EncodeTime
}

// CacheInfo tracks cache hits.
type CacheInfo struct {
	ArtifactHit bool // Whether the artifact came from cache
	Key         string
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateKind checks that kind is one of the supported fractals.
func ValidateKind(kind fractal.Kind) error {
	for _, k := range fractal.Kinds {
		if k == kind {
			return nil
		}
	}
	return errors.New(errors.ErrCodeInvalidKind, "invalid kind: %d (must be 0 for julia or 1 for mandelbrot)", kind)
}

// ValidateQuality checks a JPEG quality setting.
func ValidateQuality(q int) error {
	if q < 1 || q > 100 {
		return errors.New(errors.ErrCodeInvalidInput, "invalid jpeg quality: %d (must be 1-100)", q)
	}
	return nil
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults applies defaults and checks every field.
// This method is idempotent - calling it multiple times has the same effect as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	o.SetRenderDefaults()
	o.SetEncodeDefaults()
	if err := o.ValidateForRender(); err != nil {
		return err
	}
	if err := o.ValidateForEncode(); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// SetRenderDefaults sets default values for rendering.
func (o *Options) SetRenderDefaults() {
	if o.Width == 0 {
		o.Width = DefaultWidth
	}
	if o.Height == 0 {
		o.Height = DefaultHeight
	}
	if o.Workers == 0 {
		o.Workers = 1
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateForRender validates and sets defaults for rendering.
func (o *Options) ValidateForRender() error {
	o.SetRenderDefaults()
	if err := errors.ValidateSize(o.Width, o.Height); err != nil {
		return err
	}
	return ValidateKind(o.Kind)
}

// SetEncodeDefaults sets default values for encoding.
func (o *Options) SetEncodeDefaults() {
	if o.Format == "" {
		o.Format = codec.DefaultFormat
	}
	o.Format = codec.NormalizeFormat(o.Format)
	if o.JPEGQuality == 0 {
		o.JPEGQuality = codec.DefaultJPEGQuality
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateForEncode validates and sets defaults for encoding.
func (o *Options) ValidateForEncode() error {
	o.SetEncodeDefaults()
	if err := codec.ValidateFormat(o.Format); err != nil {
		return err
	}
	return ValidateQuality(o.JPEGQuality)
}

// ArtifactKeyOpts returns cache key options for the encoded artifact.
// Quality only takes part in the key for lossy formats.
func (o *Options) ArtifactKeyOpts() cache.ArtifactKeyOpts {
	opts := cache.ArtifactKeyOpts{
		Kind:   o.Kind.String(),
		Width:  o.Width,
		Height: o.Height,
		Format: o.Format,
	}
	if o.Format == codec.FormatJPEG {
		opts.JPEGQuality = o.JPEGQuality
	}
	return opts
}
