package cli

import (
	"context"
	"errors"
	"io"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/cubicleview/pkg/buildinfo"
	"github.com/matzehuels/cubicleview/pkg/cache"
	"github.com/matzehuels/cubicleview/pkg/config"
	cverrors "github.com/matzehuels/cubicleview/pkg/errors"
	"github.com/matzehuels/cubicleview/pkg/layout"
	"github.com/matzehuels/cubicleview/pkg/observability"
	"github.com/matzehuels/cubicleview/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for directories and display.
const appName = "cubicleview"

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
	Config config.Config

	configPath string
	// engine replaces Graphviz when set.
	engine layout.Engine
}

// New creates a new CLI instance with a default logger and settings.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		Config: config.Default(),
	}
}

// SetLogLevel updates the logger's level. Debug level also installs
// logging hooks that trace loading, layout, cache and view events.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
	if level <= log.DebugLevel {
		installHooks(c.Logger)
	} else {
		observability.Reset()
	}
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "Cubicleview explores Cubicle search graphs",
		Long:         `Cubicleview lays out the DOT graphs dumped by the Cubicle model checker as a hierarchy of states and lets you trace any state back to the initial one.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(c.configPath)
			if err != nil {
				return err
			}
			c.Config = cfg
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default $XDG_CONFIG_HOME/cubicleview/config.toml)")

	root.AddCommand(c.inspectCommand())
	root.AddCommand(c.pathCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.exploreCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner laying out with Graphviz through the
// configured cache.
func (c *CLI) newRunner(ctx context.Context, noCache bool) (*pipeline.Runner, error) {
	cc, err := c.newCache(ctx, noCache)
	if err != nil {
		return nil, err
	}
	r := pipeline.NewRunner(cc, nil, c.Logger)
	r.Policy = c.Config.Layout
	var engine layout.Engine = layout.NewGraphvizEngine()
	if c.engine != nil {
		engine = c.engine
	}
	r.Engine = layout.NewCachedEngine(engine, cc, r.Keyer, c.Config.Cache.TTL, c.Logger)
	return r, nil
}

func (c *CLI) newCache(ctx context.Context, noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	switch c.Config.Cache.Backend {
	case config.CacheNone:
		return cache.NewNullCache(), nil
	case config.CacheRedis:
		rc, err := cache.NewRedisCache(ctx, c.Config.Cache.RedisURL, appName+":")
		if err != nil {
			if errors.Is(err, cache.ErrUnavailable) {
				c.Logger.Warn("redis unavailable, layouts will not be cached", "error", err)
				return cache.NewNullCache(), nil
			}
			return nil, cverrors.Wrap(cverrors.ErrCodeInvalidConfig, err, "cannot use redis cache")
		}
		return rc, nil
	}
	dir, err := c.Config.CacheDir()
	if err != nil {
		return cache.NewNullCache(), nil
	}
	fc, err := cache.NewFileCache(dir)
	if err != nil {
		c.Logger.Warn("cache directory unusable, layouts will not be cached", "dir", dir, "error", err)
		return cache.NewNullCache(), nil
	}
	return fc, nil
}
