package adjacency

import (
	"strings"

	apperrors "github.com/ironsheep/color-adjacency-mcp/internal/errors"
)

// Format renders a complement graph in the line format consumed by the
// tracing host:
//
//	<color>: <color> <color> ...
//
// One line per entry, lines joined by "\n" with no trailing newline. An
// entry with an empty set renders as "<color>: ". Lines follow entry order
// and colors within a line are sorted; consumers must not depend on either
// order.
func Format(entries []Entry) string {
	var b strings.Builder
	for i, e := range entries {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(string(e.Color))
		b.WriteString(": ")
		for j, c := range e.Set.Sorted() {
			if j > 0 {
				b.WriteByte(' ')
			}
			b.WriteString(string(c))
		}
	}
	return b.String()
}

// ParseComplement reads text produced by Format back into a map.
//
// Keys with no listed colors map to an empty, non-nil set. An empty input
// yields an empty map. A non-blank line without a ':' separator or with a
// key that is not a single color returns an INVALID_INPUT error.
func ParseComplement(text string) (map[Color]ColorSet, error) {
	out := make(map[Color]ColorSet)
	if text == "" {
		return out, nil
	}
	for n, line := range strings.Split(text, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		key, rest, ok := strings.Cut(line, ":")
		if !ok {
			return nil, apperrors.New(apperrors.ErrCodeInvalidInput, "line %d: missing ':' separator", n+1)
		}
		keys := DecodePixels(key)
		if len(keys) != 1 || len(strings.Fields(key)) != 3 {
			return nil, apperrors.New(apperrors.ErrCodeInvalidInput, "line %d: malformed color %q", n+1, key)
		}
		values := DecodePixels(rest)
		set := NewColorSet(len(values))
		for _, c := range values {
			set.Add(c)
		}
		out[keys[0]] = set
	}
	return out, nil
}
