package imaging

import (
	"sort"
	"strconv"
	"strings"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/ironsheep/color-adjacency-mcp/internal/adjacency"
)

// ColorFrequency represents an exact payload color and how often it occurs.
type ColorFrequency struct {
	Color      adjacency.Color `json:"color"`      // Exact payload color
	Hex        string          `json:"hex"`        // "#rrggbb" approximation for display
	Count      int             `json:"count"`      // Number of pixels
	Percentage float64         `json:"percentage"` // Share of all pixels (0-100)
}

// PaletteResult lists the most frequent colors of a decoded payload.
//
// Colors are sorted by frequency, most common first; ties are broken by
// color string so results are stable.
type PaletteResult struct {
	Distinct int              `json:"distinct"` // Distinct colors in the whole grid
	Colors   []ColorFrequency `json:"colors"`
}

// Palette counts exact colors in grid and returns the count most frequent.
// A count ≤ 0 returns every color.
//
// Unlike a display palette, no quantization is applied: the analyzer keys on
// exact strings, so two colors one rounding step apart are reported
// separately.
func Palette(grid adjacency.Grid, count int) *PaletteResult {
	counts := make(map[adjacency.Color]int)
	for _, c := range grid {
		counts[c]++
	}

	colors := make([]ColorFrequency, 0, len(counts))
	for c, n := range counts {
		colors = append(colors, ColorFrequency{
			Color:      c,
			Hex:        hexOf(c),
			Count:      n,
			Percentage: float64(n) / float64(len(grid)) * 100,
		})
	}

	sort.Slice(colors, func(i, j int) bool {
		if colors[i].Count != colors[j].Count {
			return colors[i].Count > colors[j].Count
		}
		return colors[i].Color < colors[j].Color
	})

	distinct := len(colors)
	if count > 0 && len(colors) > count {
		colors = colors[:count]
	}
	return &PaletteResult{Distinct: distinct, Colors: colors}
}

// CountColors returns the number of distinct colors in a payload. It is the
// natural max_num_colors hint for an analysis of that payload.
func CountColors(payload string) int {
	seen := adjacency.NewColorSet(0)
	for _, c := range adjacency.DecodePixels(payload) {
		seen.Add(c)
	}
	return seen.Len()
}

// hexOf converts a payload color to "#rrggbb". Components that do not parse
// as floats yield an empty string.
func hexOf(c adjacency.Color) string {
	parts := strings.Fields(string(c))
	if len(parts) != 3 {
		return ""
	}
	var v [3]float64
	for i, p := range parts {
		f, err := strconv.ParseFloat(p, 64)
		if err != nil {
			return ""
		}
		v[i] = f
	}
	return colorful.Color{R: v[0], G: v[1], B: v[2]}.Clamped().Hex()
}
