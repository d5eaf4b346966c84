package cli

import (
	"context"
	"io"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/codeviz/internal/config"
	"github.com/matzehuels/codeviz/pkg/buildinfo"
	"github.com/matzehuels/codeviz/pkg/cache"
	"github.com/matzehuels/codeviz/pkg/observability"
	"github.com/matzehuels/codeviz/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for directories and display.
const appName = "codeviz"

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

	cfg        *config.Config
	configPath string
	verbose    bool
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "codeviz turns source code into node/edge diagrams",
		Long: `codeviz scans program text for imports, classes, functions and variables,
infers how they call, create and use each other, and renders the result as
JSON, SVG, PNG, PDF, DOT or Mermaid.`,
		Version:           buildinfo.Version,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: c.setup,
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "enable verbose logging")
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default $XDG_CONFIG_HOME/codeviz/config.toml)")

	root.AddCommand(c.graphCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.batchCommand())
	root.AddCommand(c.watchCommand())
	root.AddCommand(c.examplesCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// setup runs before every command: it applies --verbose, loads the
// configuration and routes observability events to the logger.
func (c *CLI) setup(cmd *cobra.Command, args []string) error {
	if c.verbose {
		c.SetLogLevel(LogDebug)
	}
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return err
	}
	c.cfg = cfg
	observability.NewLogHooks(c.Logger).Register()
	cmd.SetContext(withLogger(cmd.Context(), c.Logger))
	return nil
}

// config returns the loaded configuration, or the defaults when a command
// runs without the root's pre-run (as in tests).
func (c *CLI) config() *config.Config {
	if c.cfg == nil {
		c.cfg = config.Default()
	}
	return c.cfg
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner for CLI use. The CLI caches on disk
// unless the configuration selects another backend.
func (c *CLI) newRunner(ctx context.Context, noCache bool) (*pipeline.Runner, error) {
	backend := c.config().Cache.Backend
	if backend == "" {
		backend = config.BackendFile
	}
	if noCache {
		backend = config.BackendNone
	}
	ch, err := newCache(ctx, c.config(), backend, c.Logger)
	if err != nil {
		return nil, err
	}
	return pipeline.NewRunner(ch, newKeyer(c.config(), backend), c.Logger), nil
}

func newCache(ctx context.Context, cfg *config.Config, backend string, logger *log.Logger) (cache.Cache, error) {
	switch backend {
	case config.BackendNone:
		return cache.NewNullCache(), nil
	case config.BackendMemory:
		return cache.NewMemoryCache(cfg.Cache.Entries, cfg.Cache.TTL), nil
	case config.BackendRedis:
		return cache.NewRedisCache(ctx, cache.RedisConfig{
			Addr:   cfg.Cache.RedisAddr,
			Prefix: cfg.Cache.Prefix,
		})
	}
	dir, err := cfg.CacheDir()
	if err != nil {
		logger.Warn("no cache directory, caching disabled", "err", err)
		return cache.NewNullCache(), nil
	}
	return cache.NewFileCache(dir)
}

// newKeyer scopes keys by cache.prefix. Redis applies the prefix itself.
func newKeyer(cfg *config.Config, backend string) cache.Keyer {
	if cfg.Cache.Prefix == "" || backend == config.BackendRedis {
		return nil
	}
	return cache.NewScopedKeyer(nil, cfg.Cache.Prefix)
}

// =============================================================================
// Options Helpers
// =============================================================================

// pipelineOptions builds run options from the configuration.
func (c *CLI) pipelineOptions() pipeline.Options {
	cfg := c.config()
	return pipeline.Options{
		MaxBytes:     cfg.Limits.MaxBytes,
		MaxLineBytes: cfg.Limits.MaxLineBytes,
		Formats:      append([]string(nil), cfg.Render.Formats...),
		Detailed:     cfg.Render.Detailed,
		Scale:        cfg.Render.Scale,
	}
}

// parseFormats parses a comma-separated format string into a slice,
// dropping blanks. An empty string yields nil so configured defaults apply.
func parseFormats(s string) []string {
	var out []string
	for _, f := range strings.Split(s, ",") {
		if f = strings.TrimSpace(strings.ToLower(f)); f != "" {
			out = append(out, f)
		}
	}
	return out
}
