package adjacency

// window is the 3×3 neighbourhood of an interior pixel in row-major order.
// Index 4 is the centre.
type window [9]Color

const center = 4

// readWindow gathers the neighbourhood of (row, col). The caller guarantees
// 1 ≤ row ≤ h-2 and 1 ≤ col ≤ w-2 and that the grid holds w*h pixels.
func readWindow(g Grid, w, row, col int) window {
	top := (row-1)*w + col
	mid := row*w + col
	bot := (row+1)*w + col
	return window{
		g[top-1], g[top], g[top+1],
		g[mid-1], g[mid], g[mid+1],
		g[bot-1], g[bot], g[bot+1],
	}
}

// ignored applies the background rules to a window.
//
// A window is ignored when its centre is Black. In dual-ignore modes it is
// also ignored when all eight neighbours are the same background color,
// which drops isolated artifact pixels inside flat background fills.
func (win *window) ignored(mode Mode) bool {
	c := win[center]
	if c == Black {
		return true
	}
	if !mode.DualIgnore() {
		return false
	}
	first := win[0]
	if first != Black && first != White {
		return false
	}
	for i, px := range win {
		if i != center && px != first {
			return false
		}
	}
	return true
}

// neighbors returns the distinct neighbour colors of the centre, excluding
// the centre color itself and the Black sentinel. The set may be empty.
func (win *window) neighbors() ColorSet {
	c := win[center]
	set := NewColorSet(8)
	for i, px := range win {
		if i == center || px == c || px == Black {
			continue
		}
		set.Add(px)
	}
	return set
}

// scanWindow classifies the window around (row, col) and returns the
// centre color with its neighbour contribution. ok is false for ignored
// windows, which must leave no trace in the graph.
func scanWindow(g Grid, w, row, col int, mode Mode) (Color, ColorSet, bool) {
	win := readWindow(g, w, row, col)
	if win.ignored(mode) {
		return "", nil, false
	}
	return win[center], win.neighbors(), true
}
