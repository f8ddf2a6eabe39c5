package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/fractals/pkg/buildinfo"
	"github.com/matzehuels/fractals/pkg/cache"
	"github.com/matzehuels/fractals/pkg/config"
	"github.com/matzehuels/fractals/pkg/errors"
	"github.com/matzehuels/fractals/pkg/history"
	"github.com/matzehuels/fractals/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for directories and display.
const appName = config.AppName

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	// Config is loaded before any subcommand runs.
	Config *config.Config

	configPath string
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		Config: config.Default(),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "Fractals renders Julia and Mandelbrot sets",
		Long:         `Fractals renders escape-time images of the Julia and Mandelbrot sets to PNG, JPEG, GIF, BMP or TIFF files, and serves them over HTTP.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return c.loadConfig(cmd.Flags().Changed("config"))
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default $XDG_CONFIG_HOME/fractals/config.toml)")

	// Register all subcommands
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.historyCommand())
	root.AddCommand(c.configCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// loadConfig reads the config file. An explicitly requested file must exist.
func (c *CLI) loadConfig(explicit bool) error {
	path := c.configPath
	if path == "" {
		var err error
		if path, err = config.DefaultPath(); err != nil {
			c.Logger.Debug("no config path", "err", err)
			return nil
		}
		c.configPath = path
	}

	if explicit {
		if _, err := os.Stat(path); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidConfig, err, "config file %s", path)
		}
	}

	cfg, unknown, err := config.Load(path)
	if err != nil {
		return err
	}
	for _, key := range unknown {
		c.Logger.Warn("unknown config key", "key", key, "file", path)
	}
	c.Config = cfg
	return nil
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner(ctx context.Context, noCache bool) (*pipeline.Runner, error) {
	ch, err := c.newCache(ctx, noCache)
	if err != nil {
		return nil, err
	}
	runner := pipeline.NewRunner(ch, cache.NewScopedKeyer(nil, buildinfo.CacheScope()), c.Logger)
	runner.TTL = c.Config.Cache.TTL.Duration

	store, err := c.newHistory(ctx)
	if err != nil {
		c.Logger.Warn("render history unavailable", "err", err)
	}
	runner.History = store
	return runner, nil
}

// newCache opens the configured cache backend. An unreachable redis falls
// back to no caching.
func (c *CLI) newCache(ctx context.Context, noCache bool) (cache.Cache, error) {
	cfg := c.Config.Cache
	if noCache || cfg.Backend == config.BackendNone {
		return cache.NewNullCache(), nil
	}

	if cfg.Backend == config.BackendRedis {
		rc, err := cache.NewRedisCache(ctx, cache.RedisConfig{
			Addr:   cfg.RedisAddr,
			DB:     cfg.RedisDB,
			Prefix: appName + ":",
		})
		if err != nil {
			c.Logger.Warn("cache disabled", "err", err)
			return cache.NewNullCache(), nil
		}
		return rc, nil
	}

	dir := cfg.Dir
	if dir == "" {
		var err error
		if dir, err = cacheDir(); err != nil {
			return cache.NewNullCache(), nil
		}
	}
	fc, err := cache.NewFileCache(expandHome(dir))
	if err != nil {
		return nil, err
	}
	return fc, nil
}

// newHistory opens the configured history backend, or returns nil when
// history is disabled.
func (c *CLI) newHistory(ctx context.Context) (history.Store, error) {
	cfg := c.Config.History
	switch cfg.Backend {
	case config.BackendNone:
		return nil, nil
	case config.BackendMemory:
		return history.NewMemoryStore(0), nil
	case config.BackendSQLite:
		dir := cfg.Dir
		if dir == "" {
			var err error
			if dir, err = dataDir(); err != nil {
				return nil, err
			}
		}
		store, err := history.NewSQLiteStore(ctx, filepath.Join(expandHome(dir), "history.db"))
		if err != nil {
			return nil, err
		}
		return store, nil
	case config.BackendMongo:
		store, err := history.NewMongoStore(ctx, history.MongoConfig{
			URI:      cfg.MongoURI,
			Database: cfg.Database,
		})
		if err != nil {
			return nil, err
		}
		return store, nil
	default:
		store, err := history.NewFileStore(expandHome(cfg.Dir))
		if err != nil {
			return nil, err
		}
		return store, nil
	}
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/fractals/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

// dataDir returns the data directory using XDG standard (~/.local/share/fractals/).
func dataDir() (string, error) {
	if dataHome := os.Getenv("XDG_DATA_HOME"); dataHome != "" {
		return filepath.Join(dataHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".local", "share", appName), nil
}

// expandHome replaces a leading "~" with the user's home directory.
// Paths such as "~user/x" are returned unchanged.
func expandHome(path string) string {
	if path != "~" && !hasHomePrefix(path) {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	if path == "~" {
		return home
	}
	return filepath.Join(home, path[2:])
}

func hasHomePrefix(path string) bool {
	return len(path) >= 2 && path[0] == '~' && (path[1] == '/' || path[1] == filepath.Separator)
}
