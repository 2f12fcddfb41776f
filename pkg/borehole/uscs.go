package borehole

import "strings"

// Fill pattern tags understood by the render sinks. The tags name drafting
// conventions for lithology columns, not engineering classifications.
const (
	PatternGravel  = "gravel"
	PatternSand    = "sand"
	PatternSilt    = "silt"
	PatternClay    = "clay"
	PatternOrganic = "organic"
	PatternRock    = "rock"
	PatternFill    = "fill"
)

// uscsStyles maps the leading USCS group symbol to a display color and fill
// pattern tag. The table covers the common two-letter groups; unknown codes
// fall back to a neutral style so a bad classification never blocks layout.
var uscsStyles = map[string]struct {
	color   string
	pattern string
}{
	"GW": {"#c8b273", PatternGravel},
	"GP": {"#c8b273", PatternGravel},
	"GM": {"#bfa86a", PatternGravel},
	"GC": {"#b09a5e", PatternGravel},
	"SW": {"#e3d08f", PatternSand},
	"SP": {"#e3d08f", PatternSand},
	"SM": {"#d9c47e", PatternSand},
	"SC": {"#cdb56f", PatternSand},
	"ML": {"#c2b8a3", PatternSilt},
	"MH": {"#b5ab96", PatternSilt},
	"CL": {"#a88f6f", PatternClay},
	"CH": {"#97805f", PatternClay},
	"OL": {"#8a7a60", PatternOrganic},
	"OH": {"#7d6e55", PatternOrganic},
	"PT": {"#6f5f47", PatternOrganic},
}

const (
	defaultColor   = "#d0ccc0"
	defaultPattern = PatternFill
)

// StyleForUSCS returns the display color and fill pattern tag for a USCS
// classification code. The code may carry suffixes or dual symbols
// ("SC-SM", "CL/ML"); only the leading group symbol decides the style.
func StyleForUSCS(code string) (color, pattern string) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if len(code) >= 2 {
		if s, ok := uscsStyles[code[:2]]; ok {
			return s.color, s.pattern
		}
	}
	return defaultColor, defaultPattern
}
