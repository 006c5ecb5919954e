package adjacency

import (
	"fmt"
	"sort"
	"strings"

	apperrors "github.com/ironsheep/color-adjacency-mcp/internal/errors"
)

// Color is a pixel color in the renderer's wire form: three fixed-precision
// decimals (six digits after the point) separated by single spaces, e.g.
// "0.123456 0.456789 0.891011".
//
// Equality is exact string equality. Two colors that differ only by float
// rounding are distinct colors.
type Color string

const (
	// Black is the background sentinel. Windows centred on it never
	// contribute to the graph and it is never recorded as a neighbour.
	Black Color = "0.000000 0.000000 0.000000"

	// White is the second background color in dual-ignore modes.
	White Color = "1.000000 1.000000 1.000000"
)

// FormatColor renders float components the way the upstream renderer does.
func FormatColor(r, g, b float64) Color {
	return Color(fmt.Sprintf("%.6f %.6f %.6f", r, g, b))
}

// ColorSet is a membership-only set of colors.
type ColorSet map[Color]struct{}

// NewColorSet returns a set sized for n elements.
func NewColorSet(n int) ColorSet {
	return make(ColorSet, n)
}

// Add inserts c into the set.
func (s ColorSet) Add(c Color) {
	s[c] = struct{}{}
}

// Has reports whether c is a member.
func (s ColorSet) Has(c Color) bool {
	_, ok := s[c]
	return ok
}

// Len returns the number of members.
func (s ColorSet) Len() int {
	return len(s)
}

// Sorted returns the members in lexical order.
func (s ColorSet) Sorted() []Color {
	out := make([]Color, 0, len(s))
	for c := range s {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Mode selects which background rule the window scanner applies.
//
// The identifiers follow the render precision choices of the host:
// low bit-depth renders (8 and 16 bit) carry both black and white
// background fills, 32-bit float renders only black.
type Mode string

// Recognized modes.
const (
	Mode8Bit  Mode = "8 bit"
	Mode16Bit Mode = "16 bit"
	Mode32Bit Mode = "32 bit"
)

// DefaultMode is the host's default render precision.
const DefaultMode = Mode8Bit

// ParseMode maps a mode identifier to a Mode.
//
// Accepted spellings are the canonical "8 bit", "16 bit" and "32 bit" plus
// the bare number, "8bit" and "8-bit" forms. Matching is case-insensitive.
// Any other value returns an INVALID_MODE error.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "8 bit", "8", "8bit", "8-bit":
		return Mode8Bit, nil
	case "16 bit", "16", "16bit", "16-bit":
		return Mode16Bit, nil
	case "32 bit", "32", "32bit", "32-bit":
		return Mode32Bit, nil
	}
	return "", apperrors.New(apperrors.ErrCodeInvalidMode,
		"unknown mode %q (want one of %q, %q, %q)", s, Mode8Bit, Mode16Bit, Mode32Bit)
}

// DualIgnore reports whether white is treated as background alongside black.
func (m Mode) DualIgnore() bool {
	return m == Mode8Bit || m == Mode16Bit
}

// String implements fmt.Stringer.
func (m Mode) String() string {
	return string(m)
}
