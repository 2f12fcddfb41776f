package pipeline

import (
	"github.com/geosect/geosect/pkg/borehole"
	"github.com/geosect/geosect/pkg/errors"
	"github.com/geosect/geosect/pkg/render/sink"
	"github.com/geosect/geosect/pkg/section"
)

// renderFormats produces every requested artifact from the layout.
func renderFormats(layout section.Layout, bhs []*borehole.Borehole, opts Options) (map[string][]byte, error) {
	svgOpts := []sink.SVGOption{
		sink.WithBoreholes(bhs),
		sink.WithTitle(opts.Title),
	}

	artifacts := make(map[string][]byte, len(opts.Formats))
	for _, format := range opts.Formats {
		switch format {
		case FormatSVG:
			artifacts[format] = sink.RenderSVG(layout, svgOpts...)
		case FormatPNG:
			data, err := sink.RenderPNG(layout, sink.WithPNGSVGOptions(svgOpts...))
			if err != nil {
				return nil, errors.Wrap(errors.ErrCodeInternal, err, "rendering png")
			}
			artifacts[format] = data
		case FormatPDF:
			data, err := sink.RenderPDF(layout, sink.WithPNGSVGOptions(svgOpts...))
			if err != nil {
				return nil, errors.Wrap(errors.ErrCodeInternal, err, "rendering pdf")
			}
			artifacts[format] = data
		case FormatJSON:
			data, err := sink.RenderJSON(layout,
				sink.WithJSONBoreholes(bhs),
				sink.WithJSONTitle(opts.Title))
			if err != nil {
				return nil, errors.Wrap(errors.ErrCodeInternal, err, "rendering json")
			}
			artifacts[format] = data
		default:
			return nil, errors.New(errors.ErrCodeInvalidFormat, "invalid format: %q", format)
		}
	}
	return artifacts, nil
}
