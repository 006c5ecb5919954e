package adjacency

import "strings"

// Grid is a decoded image: colors in row-major order, addressed by
// row*width + col. A Grid is never modified after DecodePixels returns it.
type Grid []Color

// DecodePixels splits a whitespace-separated token payload into colors.
//
// Tokens are grouped in threes in stream order and each group is joined with
// a single space, so "0.1  0.2\n0.3" becomes "0.1 0.2 0.3". A trailing group
// with fewer than three tokens is dropped without error. The token values
// themselves are not parsed or normalized.
func DecodePixels(payload string) Grid {
	tokens := strings.Fields(payload)
	grid := make(Grid, 0, len(tokens)/3)
	for i := 0; i+3 <= len(tokens); i += 3 {
		grid = append(grid, Color(tokens[i]+" "+tokens[i+1]+" "+tokens[i+2]))
	}
	return grid
}

// At returns the color at (row, col) for a grid of the given width.
func (g Grid) At(width, row, col int) Color {
	return g[row*width+col]
}
