package pipeline

import (
	"context"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/fractals/pkg/cache"
	"github.com/matzehuels/fractals/pkg/history"
	"github.com/matzehuels/fractals/pkg/observability"
)

const keyTypeArtifact = "artifact"

// Runner encapsulates pipeline execution with caching.
// Both CLI and server use this to avoid duplicating caching logic.
//
// The Runner is stateless except for its backends - it doesn't store
// pipeline results. Multiple goroutines can safely use the same Runner
// with different options.
type Runner struct {
	Cache   cache.Cache
	Keyer   cache.Keyer
	Logger  *log.Logger
	History history.Store // optional

	// TTL is how long artifacts stay cached. Zero means cache.TTLArtifact.
	TTL time.Duration
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Execute runs the render → encode pipeline with caching and, when a history
// store is configured, records the run.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}

	key := r.Keyer.ArtifactKey(opts.ArtifactKeyOpts())
	result := &Result{
		Format:    opts.Format,
		CacheInfo: CacheInfo{Key: key},
		Stats:     Stats{Width: opts.Width, Height: opts.Height},
	}

	opts.Logger.Debug("rendering", "set", opts.Kind.Title(), "width", opts.Width, "height", opts.Height)

	if data, hit := r.lookup(ctx, key, opts); hit {
		result.Artifact = data
		result.Stats.Bytes = len(data)
		result.CacheInfo.ArtifactHit = true
		opts.Logger.Debug("artifact cache hit", "key", key)
		r.record(ctx, result, opts)
		return result, nil
	}

	// Stage 1: Render
	hooks := observability.Pipeline()
	hooks.OnRenderStart(ctx, opts.Kind.String(), opts.Width, opts.Height)
	renderStart := time.Now()
	c, err := Render(ctx, opts)
	result.Stats.RenderTime = time.Since(renderStart)
	hooks.OnRenderComplete(ctx, opts.Kind.String(), opts.Width, opts.Height, result.Stats.RenderTime, err)
	if err != nil {
		return nil, err
	}
	opts.Logger.Info("rendered fractal",
		"set", opts.Kind.Title(),
		"size", c.Bounds().Size(),
		"duration", result.Stats.RenderTime)

	// Stage 2: Encode
	hooks.OnEncodeStart(ctx, opts.Format)
	encodeStart := time.Now()
	data, err := Encode(c, opts)
	result.Stats.EncodeTime = time.Since(encodeStart)
	hooks.OnEncodeComplete(ctx, opts.Format, len(data), result.Stats.EncodeTime, err)
	if err != nil {
		return nil, err
	}
	result.Artifact = data
	result.Stats.Bytes = len(data)
	opts.Logger.Debug("encoded image",
		"format", opts.Format,
		"bytes", len(data),
		"duration", result.Stats.EncodeTime)

	if err := r.Cache.Set(ctx, key, data, r.ttl()); err != nil {
		opts.Logger.Warn("cache write failed", "key", key, "err", err)
	} else {
		observability.Cache().OnCacheSet(ctx, keyTypeArtifact, len(data))
	}

	r.record(ctx, result, opts)
	return result, nil
}

// lookup returns a cached artifact unless the options ask for a refresh.
// Cache errors are logged and treated as misses.
func (r *Runner) lookup(ctx context.Context, key string, opts Options) ([]byte, bool) {
	if opts.Refresh {
		return nil, false
	}
	data, hit, err := r.Cache.Get(ctx, key)
	if err != nil {
		opts.Logger.Warn("cache read failed", "key", key, "err", err)
		return nil, false
	}
	if !hit {
		observability.Cache().OnCacheMiss(ctx, keyTypeArtifact)
		return nil, false
	}
	observability.Cache().OnCacheHit(ctx, keyTypeArtifact)
	return data, true
}

// record appends the run to the history store. Failures are logged only, a
// finished render is never discarded because history is unavailable.
func (r *Runner) record(ctx context.Context, result *Result, opts Options) {
	if r.History == nil {
		return
	}
	rec := history.New(opts.Kind, opts.Width, opts.Height, opts.Format)
	rec.Size = result.Stats.Bytes
	rec.CacheHit = result.CacheInfo.ArtifactHit
	rec.Duration = result.Stats.Total()
	rec.Output = opts.Output
	if err := r.History.Add(ctx, rec); err != nil {
		opts.Logger.Warn("history write failed", "err", err)
		return
	}
	result.RecordID = rec.ID
}

// Close releases resources held by the runner.
func (r *Runner) Close() error {
	var err error
	if r.Cache != nil {
		err = r.Cache.Close()
	}
	if r.History != nil {
		if herr := r.History.Close(); err == nil {
			err = herr
		}
	}
	return err
}

func (r *Runner) ttl() time.Duration {
	if r.TTL > 0 {
		return r.TTL
	}
	return cache.TTLArtifact
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
