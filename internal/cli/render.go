package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/geosect/geosect/pkg/errors"
	"github.com/geosect/geosect/pkg/pages"
	"github.com/geosect/geosect/pkg/pipeline"
)

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	output  string // output base path (input name if empty)
	formats string // comma-separated output formats
	title   string // chart title
	model   string // oracle model override
	noCache bool   // disable the stage cache
	refresh bool   // bypass cached extraction results
	plain   bool   // disable the interactive progress display
}

// renderCommand creates the render command. It runs the full pipeline
// end to end: extract, reconcile, layout, and artifact generation.
func (c *CLI) renderCommand() *cobra.Command {
	var opts renderOpts

	cmd := &cobra.Command{
		Use:   "render <input>",
		Short: "Run the full pipeline and write cross-section artifacts",
		Long: `Render extracts borehole logs from the input document, reconciles them
into canonical records, computes the cross-section layout, and writes the
requested artifacts next to the input (or at --output).

Examples:
  geosect render report.pdf
  geosect render report.pdf -f svg,png,json --title "Ridge Crossing"
  geosect render pages/ -o site_a -f pdf`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runRender(cmd, args[0], &opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output base path (derived from input if empty)")
	cmd.Flags().StringVarP(&opts.formats, "format", "f", "", "output format(s): svg (default), png, pdf, json (comma-separated)")
	cmd.Flags().StringVar(&opts.title, "title", "", "chart title")
	cmd.Flags().StringVar(&opts.model, "model", "", "oracle model (default from config)")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the stage cache")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "re-query the oracle even for cached pages")
	cmd.Flags().BoolVar(&opts.plain, "plain", false, "disable the interactive progress display")

	return cmd
}

func (c *CLI) runRender(cmd *cobra.Command, input string, opts *renderOpts) error {
	ctx := withLogger(cmd.Context(), c.Logger)

	if opts.output != "" {
		if err := errors.ValidateOutputPath(opts.output); err != nil {
			return err
		}
	}

	formats := parseFormats(opts.formats)
	if opts.formats == "" && len(c.Config.Render.Formats) > 0 {
		formats = c.Config.Render.Formats
	}
	if err := pipeline.ValidateFormats(formats); err != nil {
		return err
	}

	title := opts.title
	if title == "" {
		title = c.Config.Render.Title
	}

	ext, err := c.newExtractor(opts.model)
	if err != nil {
		return err
	}
	runner, err := c.newRunner(opts.noCache, ext)
	if err != nil {
		return err
	}
	defer runner.Close()

	spin := newSpinnerWithContext(ctx, fmt.Sprintf("Loading pages from %s", input))
	spin.Start()
	images, err := pages.Load(ctx, input)
	if err != nil {
		spin.StopWithError("Failed to load pages")
		return err
	}
	spin.StopWithSuccess(fmt.Sprintf("Loaded %d pages", len(images)))

	popts := pipeline.Options{
		Input:   input,
		Title:   title,
		Formats: formats,
		Refresh: opts.refresh,
		Logger:  c.Logger,
	}
	popts.SetDefaults()

	frags, extractHit, err := c.extractPages(ctx, runner, images, popts, opts.plain)
	if err != nil {
		return err
	}

	bhs, err := runner.ReconcileFragments(ctx, frags)
	if err != nil {
		return err
	}

	layout, _, err := runner.BuildLayoutWithCacheInfo(ctx, bhs)
	if err != nil {
		return err
	}

	artifacts, _, err := runner.RenderWithCacheInfo(ctx, layout, bhs, popts)
	if err != nil {
		return err
	}

	base := basePath(opts.output, input)
	for _, format := range formats {
		path := base + "." + format
		if err := os.WriteFile(path, artifacts[format], 0o644); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
		printFile(path)
	}

	var layers, spt int
	for _, bh := range bhs {
		layers += len(bh.Layers)
		spt += len(bh.SPT)
	}
	printSuccess("Rendered %s cross-section from %d pages", layout.Scale.Mode, len(images))
	printStats(len(bhs), layers, spt, extractHit)
	return nil
}

// basePath derives the artifact base path from the output flag and the input
// path: the output with any known format extension stripped, or the input
// without its extension.
func basePath(output, input string) string {
	if output == "" {
		return strings.TrimSuffix(input, filepath.Ext(input))
	}
	ext := filepath.Ext(output)
	if pipeline.ValidateFormat(strings.TrimPrefix(ext, ".")) == nil {
		return strings.TrimSuffix(output, ext)
	}
	return output
}
