package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/geosect/geosect/pkg/borehole"
	"github.com/geosect/geosect/pkg/errors"
	"github.com/geosect/geosect/pkg/extraction"
	pkgio "github.com/geosect/geosect/pkg/io"
	"github.com/geosect/geosect/pkg/pages"
	"github.com/geosect/geosect/pkg/pipeline"
)

// extractOpts holds the command-line flags for the extract command.
type extractOpts struct {
	output  string // output file path (stdout if empty)
	model   string // oracle model override
	noCache bool   // disable the stage cache entirely
	refresh bool   // bypass cached extraction results
	plain   bool   // disable the interactive progress display
}

// extractCommand creates the extract command. It runs the vision oracle over
// every page of the input and writes the raw fragments as JSON, without
// reconciling them. The output feeds `geosect reconcile`.
func (c *CLI) extractCommand() *cobra.Command {
	var opts extractOpts

	cmd := &cobra.Command{
		Use:   "extract <input>",
		Short: "Extract borehole log fragments from a document",
		Long: `Extract runs the vision oracle over every page of the input (a PDF,
an image, or a directory of images) and writes the raw per-page fragments
as JSON. Fragments are cached per page, so re-running extract on an
unchanged document does not query the oracle again.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runExtract(cmd, args[0], &opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (stdout if empty)")
	cmd.Flags().StringVar(&opts.model, "model", "", "oracle model (default from config)")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the stage cache")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "re-query the oracle even for cached pages")
	cmd.Flags().BoolVar(&opts.plain, "plain", false, "disable the interactive progress display")

	return cmd
}

func (c *CLI) runExtract(cmd *cobra.Command, input string, opts *extractOpts) error {
	ctx := withLogger(cmd.Context(), c.Logger)

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

	popts := pipeline.Options{Input: input, Refresh: opts.refresh, Logger: c.Logger}

	fragments, cached, err := c.extractPages(ctx, runner, images, popts, opts.plain)
	if err != nil {
		return err
	}

	out, err := openOutput(opts.output)
	if err != nil {
		return err
	}
	defer out.Close()
	if err := pkgio.WriteFragments(fragments, out); err != nil {
		return err
	}

	if opts.output != "" {
		printSuccess("Extracted %d fragments from %d pages", len(fragments), len(images))
		if cached {
			printDetail("All pages served from cache")
		}
		printFile(opts.output)
		printNextStep("Reconcile fragments into borehole records", fmt.Sprintf("geosect reconcile %s", opts.output))
	}
	return nil
}

// extractPages runs the extraction stage, behind the interactive page
// progress display unless plain output was requested.
func (c *CLI) extractPages(ctx context.Context, runner *pipeline.Runner, images []extraction.PageImage, opts pipeline.Options, plain bool) ([]borehole.Fragment, bool, error) {
	if plain {
		return runner.ExtractWithCacheInfo(ctx, images, opts)
	}
	return extractWithProgress(ctx, runner, images, opts)
}

// openOutput opens path for writing, or stdout when path is empty.
func openOutput(path string) (io.WriteCloser, error) {
	if path == "" {
		return nopCloser{os.Stdout}, nil
	}
	if err := errors.ValidateOutputPath(path); err != nil {
		return nil, err
	}
	return os.Create(path)
}

type nopCloser struct{ io.Writer }

func (nopCloser) Close() error { return nil }
