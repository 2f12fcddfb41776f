package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/geosect/geosect/pkg/borehole"
	"github.com/geosect/geosect/pkg/errors"
	pkgio "github.com/geosect/geosect/pkg/io"
	"github.com/geosect/geosect/pkg/pipeline"
	"github.com/geosect/geosect/pkg/render/sink"
)

// visualizeOpts holds the command-line flags for the visualize command.
type visualizeOpts struct {
	output    string // output base path (layout file name if empty)
	formats   string // comma-separated output formats
	title     string // chart title
	boreholes string // optional boreholes file for lithology detail
}

// visualizeCommand creates the visualize command. It renders artifacts from
// a saved layout file without touching the oracle.
func (c *CLI) visualizeCommand() *cobra.Command {
	var opts visualizeOpts

	cmd := &cobra.Command{
		Use:   "visualize <layout.json>",
		Short: "Render cross-section artifacts from a saved layout",
		Long: `Visualize turns a layout file produced by ` + "`geosect layout`" + ` into
artifacts. The layout alone carries only geometry; pass --boreholes to
fill in soil colors, patterns, classifications, and descriptions.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runVisualize(args[0], &opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output base path (derived from input if empty)")
	cmd.Flags().StringVarP(&opts.formats, "format", "f", "", "output format(s): svg (default), png, pdf, json (comma-separated)")
	cmd.Flags().StringVar(&opts.title, "title", "", "chart title")
	cmd.Flags().StringVar(&opts.boreholes, "boreholes", "", "boreholes file for lithology detail")

	return cmd
}

func (c *CLI) runVisualize(input string, opts *visualizeOpts) error {
	if opts.output != "" {
		if err := errors.ValidateOutputPath(opts.output); err != nil {
			return err
		}
	}

	formats := parseFormats(opts.formats)
	if err := pipeline.ValidateFormats(formats); err != nil {
		return err
	}

	layout, err := pkgio.ImportLayout(input)
	if err != nil {
		return err
	}

	var bhs []*borehole.Borehole
	if opts.boreholes != "" {
		bhs, err = pkgio.ImportBoreholes(opts.boreholes)
		if err != nil {
			return err
		}
	} else {
		printWarning("No --boreholes file given; artifacts will lack lithology detail")
	}

	title := opts.title
	if title == "" {
		title = c.Config.Render.Title
	}

	svgOpts := []sink.SVGOption{sink.WithBoreholes(bhs)}
	if title != "" {
		svgOpts = append(svgOpts, sink.WithTitle(title))
	}

	base := basePath(opts.output, input)
	for _, format := range formats {
		var data []byte
		switch format {
		case pipeline.FormatSVG:
			data = sink.RenderSVG(layout, svgOpts...)
		case pipeline.FormatPNG:
			data, err = sink.RenderPNG(layout, sink.WithPNGSVGOptions(svgOpts...))
		case pipeline.FormatPDF:
			data, err = sink.RenderPDF(layout, sink.WithPNGSVGOptions(svgOpts...))
		case pipeline.FormatJSON:
			jsonOpts := []sink.JSONOption{sink.WithJSONBoreholes(bhs)}
			if title != "" {
				jsonOpts = append(jsonOpts, sink.WithJSONTitle(title))
			}
			data, err = sink.RenderJSON(layout, jsonOpts...)
		}
		if err != nil {
			return fmt.Errorf("render %s: %w", format, err)
		}

		path := base + "." + format
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
		printFile(path)
	}

	printSuccess("Rendered %d artifacts from %s", len(formats), input)
	return nil
}
