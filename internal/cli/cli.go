// Package cli implements the raceway command-line interface.
package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/ifuentes/raceway/pkg/buildinfo"
	"github.com/ifuentes/raceway/pkg/cache"
	"github.com/ifuentes/raceway/pkg/engine"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for directories and display.
const appName = "raceway"

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

	// configPath is the workspace config file, settable via --config.
	configPath string
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: log.NewWithOptions(w, log.Options{
			ReportTimestamp: true,
			TimeFormat:      "15:04:05.00",
			Level:           level,
		}),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          "raceway",
		Short:        "Raceway routes circuits and evaluates containment fill",
		Long:         `Raceway is an engineering tool for low-voltage cable routing: it routes circuits across a containment canvas, aggregates the cable load on every duct and tray segment, and evaluates fill capacity against configurable rule presets.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "workspace config file (default raceway.toml)")

	// Register all subcommands
	root.AddCommand(c.validateCommand())
	root.AddCommand(c.recalcCommand())
	root.AddCommand(c.resultsCommand())
	root.AddCommand(c.graphCommand())
	root.AddCommand(c.sectionCommand())
	root.AddCommand(c.presetsCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.serveCommand())

	return root
}

// =============================================================================
// Engine Factory
// =============================================================================

// newEngine creates a recalculation engine for CLI use.
func (c *CLI) newEngine(ctx context.Context, cfg *Config, noCache bool) (*engine.Engine, error) {
	store, err := newCache(ctx, cfg, noCache)
	if err != nil {
		return nil, err
	}
	return engine.New(store, nil, c.Logger), nil
}

// newCache builds the cache backend selected by the workspace config.
func newCache(ctx context.Context, cfg *Config, noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	switch cfg.Cache.Backend {
	case CacheBackendNone:
		return cache.NewNullCache(), nil
	case CacheBackendRedis:
		return cache.NewRedisCache(cfg.Cache.RedisURL)
	case CacheBackendMongo:
		db := cfg.Cache.MongoDatabase
		if db == "" {
			db = appName
		}
		coll := cfg.Cache.MongoCollection
		if coll == "" {
			coll = "results"
		}
		return cache.NewMongoCache(ctx, cfg.Cache.MongoURI, db, coll)
	case CacheBackendFile, "":
		dir := cfg.Cache.Dir
		if dir == "" {
			var err error
			dir, err = cacheDir()
			if err != nil {
				return cache.NewNullCache(), nil
			}
		}
		return cache.NewFileCache(dir)
	default:
		return cache.NewNullCache(), nil
	}
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/raceway/).
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
