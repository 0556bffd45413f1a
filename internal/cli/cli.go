// Package cli implements the termmap command-line interface.
//
// # Commands
//
//   - map: compile a term into a term map (SVG, PNG, PDF, JSON, DOT)
//   - reduce: draw the graph of all beta-reductions of a term
//   - stats: print structure and reduction path statistics
//   - explore: step through redexes in the terminal
//   - serve: run the HTTP and highlight websocket API
//   - macro, config, cache: manage stored state
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging and --quiet
// (-q) for warnings only. Verbose runs also install logging observability
// hooks so pipeline stages and cache lookups are traced.
package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/termmap/internal/config"
	"github.com/matzehuels/termmap/pkg/buildinfo"
	"github.com/matzehuels/termmap/pkg/cache"
	"github.com/matzehuels/termmap/pkg/lambda"
	"github.com/matzehuels/termmap/pkg/macro"
	"github.com/matzehuels/termmap/pkg/observability"
	"github.com/matzehuels/termmap/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "termmap"
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
	LogWarn  = log.WarnLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
	Config config.Config

	configPath string
	verbose    bool
	quiet      bool
}

// New creates a new CLI instance with a default logger and configuration.
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
		Use:   appName,
		Short: "termmap draws lambda terms as maps and explores their reductions",
		Long: `termmap compiles untyped lambda terms into term maps, node-link drawings in
which every variable occurrence is wired to its binder and every beta-redex is
a highlightable group, and explores the graph of all beta-reductions of a term.`,
		Version:           buildinfo.Get().Version,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: c.setup,
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "enable verbose logging")
	root.PersistentFlags().BoolVarP(&c.quiet, "quiet", "q", false, "only log warnings and errors")
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default: $XDG_CONFIG_HOME/termmap/config.toml)")

	// Register all subcommands
	root.AddCommand(c.mapCommand())
	root.AddCommand(c.reduceCommand())
	root.AddCommand(c.statsCommand())
	root.AddCommand(c.exploreCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.macroCommand())
	root.AddCommand(c.configCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.versionCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// setup applies the log level and loads the configuration.
func (c *CLI) setup(cmd *cobra.Command, _ []string) error {
	if level, ok := logLevel(c.verbose, c.quiet); ok {
		c.SetLogLevel(level)
	}
	if c.verbose {
		observability.NewLogHooks(c.Logger).Install()
	}

	cfg, err := config.Load(c.configPath)
	if err != nil {
		return err
	}
	c.Config = cfg
	return nil
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner(noCache bool) (*pipeline.Runner, error) {
	store, err := newCache(noCache)
	if err != nil {
		return nil, err
	}
	runner := pipeline.NewRunner(store, nil, c.Logger)
	if c.Config.Serve.MemoEntries > 0 {
		return runner.WithMemo(c.Config.Serve.MemoEntries)
	}
	return runner, nil
}

func newCache(noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	dir, err := artifactCacheDir()
	if err != nil {
		return cache.NewNullCache(), nil
	}
	return cache.NewFileCache(dir)
}

// openMacros opens the configured macro store.
func (c *CLI) openMacros(ctx context.Context) (macro.Store, error) {
	return macro.Open(ctx, c.Config.Macros)
}

// loadMacros resolves the configured store together with the builtins.
// An unreachable store degrades to the builtins with a warning.
func (c *CLI) loadMacros(ctx context.Context) lambda.Macros {
	store, err := c.openMacros(ctx)
	if err != nil {
		c.Logger.Warn("macro store unavailable, using builtins", "err", err)
		store = nil
	} else {
		defer store.Close()
	}
	macros, err := macro.Resolve(ctx, store)
	if err != nil {
		c.Logger.Warn("stored macros invalid, using builtins", "err", err)
		macros, _ = macro.Resolve(ctx, nil)
	}
	return macros
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/termmap/).
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

// artifactCacheDir returns the directory of the layout and artifact cache.
func artifactCacheDir() (string, error) {
	dir, err := cacheDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "artifacts"), nil
}

// =============================================================================
// Options Helpers
// =============================================================================

// baseOptions returns pipeline options seeded from the configuration.
func (c *CLI) baseOptions(vizType string) pipeline.Options {
	return pipeline.Options{
		VizType:     vizType,
		DistanceX:   c.Config.Layout.DistanceX,
		DistanceY:   c.Config.Layout.DistanceY,
		MaxVertices: c.Config.Reduction.MaxVertices,
		MaxEdges:    c.Config.Reduction.MaxEdges,
		MaxLevel:    c.Config.Reduction.MaxLevel,
		MaxPaths:    c.Config.Reduction.MaxPaths,
		Logger:      c.Logger,
	}
}

// parseFormats parses a comma-separated format string into a slice.
func parseFormats(s string) []string {
	if s == "" {
		return []string{pipeline.FormatSVG}
	}
	var out []string
	for _, f := range strings.Split(s, ",") {
		if f = strings.TrimSpace(f); f != "" {
			out = append(out, f)
		}
	}
	return out
}
