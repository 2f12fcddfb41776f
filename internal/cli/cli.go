// Package cli implements the geosect command-line interface.
//
// This package provides commands for extracting borehole log fragments from
// PDF reports, reconciling them into canonical records, computing the
// cross-section layout, and rendering output artifacts. The CLI is built
// using cobra and supports verbose logging via the charmbracelet/log library.
//
// # Commands
//
// The main commands are:
//   - extract: Run the vision oracle over a document and save raw fragments
//   - reconcile: Merge fragments into canonical borehole records
//   - layout: Compute the cross-section geometry from canonical records
//   - render: Run the full pipeline and write artifacts
//   - visualize: Render artifacts from a saved layout
//   - serve: Expose the pipeline over HTTP
//   - runs: Inspect persisted pipeline runs
//   - cache: Manage the stage cache
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. Loggers are
// passed through context.Context to allow structured progress tracking.
package cli

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/geosect/geosect/pkg/buildinfo"
	"github.com/geosect/geosect/pkg/cache"
	"github.com/geosect/geosect/pkg/config"
	"github.com/geosect/geosect/pkg/errors"
	"github.com/geosect/geosect/pkg/extraction"
	"github.com/geosect/geosect/pkg/pipeline"
)

// appName is the application name used for directories and display.
const appName = "geosect"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
	Config config.Config
}

// New creates a new CLI instance with a default logger and the loaded
// config file. Config load failures are surfaced when a command actually
// needs the broken setting, not at startup.
func New(w io.Writer, level log.Level) *CLI {
	cfg, err := config.Load()
	if err != nil {
		cfg = config.Default()
	}
	return &CLI{
		Logger: newLogger(w, level),
		Config: cfg,
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
		Short:        "Geosect builds geotechnical cross-sections from borehole log reports",
		Long:         `Geosect reads scanned borehole log reports, extracts per-page log fragments with a vision oracle, reconciles them into canonical borehole records, and renders a scaled multi-column cross-section chart.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
	}

	root.SetVersionTemplate(buildinfo.Template())

	// Register all subcommands
	root.AddCommand(c.extractCommand())
	root.AddCommand(c.reconcileCommand())
	root.AddCommand(c.layoutCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.visualizeCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.runsCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner for CLI use. The extractor may be nil
// for commands that only run the deterministic stages.
func (c *CLI) newRunner(noCache bool, ext extraction.Extractor) (*pipeline.Runner, error) {
	store, err := c.newCache(noCache)
	if err != nil {
		return nil, err
	}
	return pipeline.NewRunner(store, nil, c.Logger, ext), nil
}

// newCache builds the cache backend selected by config.
func (c *CLI) newCache(noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	switch c.Config.Cache.Backend {
	case "none":
		return cache.NewNullCache(), nil
	case "redis":
		// Redis needs a live connection; defer it to first use failure
		// rather than guessing here.
		return nil, errors.New(errors.ErrCodeUnsupported, "redis cache backend requires `geosect serve`; use backend = \"file\" for CLI runs")
	default:
		dir := c.Config.Cache.Dir
		if dir == "" {
			var err error
			dir, err = cacheDir()
			if err != nil {
				return cache.NewNullCache(), nil
			}
		}
		return cache.NewFileCache(dir)
	}
}

// newExtractor builds the configured oracle client.
func (c *CLI) newExtractor(model string) (extraction.Extractor, error) {
	apiKey := c.Config.Oracle.APIKey()
	if apiKey == "" {
		env := c.Config.Oracle.APIKeyEnv
		if env == "" {
			env = "OPENAI_API_KEY"
		}
		return nil, errors.New(errors.ErrCodeInvalidInput, "oracle API key missing: set %s", env)
	}
	if model == "" {
		model = c.Config.Oracle.Model
	}
	return extraction.NewOpenAIExtractor(extraction.OpenAIConfig{
		APIKey:            apiKey,
		Model:             model,
		BaseURL:           c.Config.Oracle.BaseURL,
		RequestsPerMinute: c.Config.Oracle.RequestsPerMinute,
	})
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/geosect/).
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

// =============================================================================
// Options Helpers
// =============================================================================

// parseFormats parses a comma-separated format string into a slice.
func parseFormats(s string) []string {
	if s == "" {
		return []string{pipeline.FormatSVG}
	}
	return strings.Split(s, ",")
}
