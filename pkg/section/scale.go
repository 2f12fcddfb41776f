package section

import (
	"strconv"
	"strings"
)

// ParseElevation extracts a numeric elevation from free header text.
// Everything except digits, '.', and '-' is stripped before parsing; text
// that still fails to parse maps to 0. The extraction oracle reads elevation
// straight off scanned sheets, so the text routinely carries unit suffixes
// ("812.40 m"), labels, or OCR noise.
func ParseElevation(text string) float64 {
	var b strings.Builder
	for _, r := range text {
		if (r >= '0' && r <= '9') || r == '.' || r == '-' {
			b.WriteRune(r)
		}
	}
	v, err := strconv.ParseFloat(b.String(), 64)
	if err != nil {
		return 0
	}
	return v
}

// resolveMode picks the surface-placement mode for the given parsed
// elevations. Relative mode applies when fewer than two boreholes are
// present or the elevation spread exceeds ElevationSpreadLimit.
func resolveMode(elevations []float64) Mode {
	if len(elevations) < 2 {
		return ModeRelative
	}
	lo, hi := elevations[0], elevations[0]
	for _, e := range elevations[1:] {
		if e < lo {
			lo = e
		}
		if e > hi {
			hi = e
		}
	}
	if hi-lo > ElevationSpreadLimit {
		return ModeRelative
	}
	return ModeAbsolute
}

// buildGrid produces one grid line per whole elevation unit from the top of
// the chart down to the bottom. In relative mode the elevations are already
// negative depths below surface, so the same numeric label applies.
func buildGrid(s Scale) []GridLine {
	var grid []GridLine
	for e := s.TopElevation; e >= s.BottomElevation; e-- {
		grid = append(grid, GridLine{
			Elevation: e,
			Label:     strconv.FormatFloat(e, 'f', 0, 64),
			Y:         s.Y(e),
		})
	}
	return grid
}
