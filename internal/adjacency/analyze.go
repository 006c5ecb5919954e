package adjacency

import (
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"

	apperrors "github.com/ironsheep/color-adjacency-mcp/internal/errors"
)

// Options tunes an Analyzer. The zero value is ready to use.
type Options struct {
	// Workers bounds the goroutines used by each phase.
	// Zero selects runtime.GOMAXPROCS(0).
	Workers int

	// Shards is the lock stripe count of the adjacency graph.
	// Zero selects 4×GOMAXPROCS (at least 16).
	Shards int
}

// Analyzer runs the adjacency pipeline. An Analyzer holds no per-call
// state and may be shared by concurrent callers.
type Analyzer struct {
	opts   Options
	logger *log.Logger
}

// NewAnalyzer creates an analyzer. If logger is nil, log.Default() is used.
func NewAnalyzer(opts Options, logger *log.Logger) *Analyzer {
	if logger == nil {
		logger = log.Default()
	}
	return &Analyzer{opts: opts, logger: logger}
}

// Request is one analysis call.
type Request struct {
	Payload      string // whitespace-separated color components
	Width        int    // declared grid width in pixels
	Height       int    // declared grid height in pixels
	Mode         Mode   // background rule selection
	MaxNumColors int    // capacity hint for the adjacency graph
}

// Stats describes the work done by one Run.
type Stats struct {
	Pixels         int           `json:"pixels"`          // decoded pixel count
	Windows        int           `json:"windows"`         // interior windows scanned
	Ignored        int           `json:"ignored"`         // windows dropped by background rules
	Colors         int           `json:"colors"`          // distinct keys in the adjacency graph
	ScanTime       time.Duration `json:"scan_time"`       // decode + window scan
	ComplementTime time.Duration `json:"complement_time"` // complement pass
}

// Result is the outcome of Run.
type Result struct {
	// Adjacency holds each color with the colors it touches, sorted by color.
	Adjacency []Entry

	// Complement holds each color with the colors it never touches, in the
	// same order as Adjacency.
	Complement []Entry

	Stats Stats
}

// Text renders the complement graph in the host line format.
func (r *Result) Text() string {
	return Format(r.Complement)
}

// Analyze is the host entry point. It parses mode, runs the pipeline with
// default options and returns the serialized complement graph.
//
// Images with width ≤ 2 or height ≤ 2 have no interior pixels and yield an
// empty string. If width*height exceeds the decoded pixel count the call
// fails with an OUT_OF_BOUNDS error. maxNumColors only pre-sizes storage.
func Analyze(payload string, width, height int, mode string, maxNumColors int) (string, error) {
	m, err := ParseMode(mode)
	if err != nil {
		return "", err
	}
	return NewAnalyzer(Options{}, nil).Analyze(Request{
		Payload:      payload,
		Width:        width,
		Height:       height,
		Mode:         m,
		MaxNumColors: maxNumColors,
	})
}

// Analyze runs req and returns the serialized complement graph.
func (a *Analyzer) Analyze(req Request) (string, error) {
	res, err := a.Run(req)
	if err != nil {
		return "", err
	}
	return res.Text(), nil
}

// Run executes the full pipeline: decode, parallel window scan into the
// sharded graph, barrier, snapshot, parallel complement.
func (a *Analyzer) Run(req Request) (*Result, error) {
	if req.Mode == "" {
		req.Mode = DefaultMode
	}
	mode, err := ParseMode(string(req.Mode))
	if err != nil {
		return nil, err
	}
	req.Mode = mode
	w, h := req.Width, req.Height
	if !(w > 2 && h > 2) {
		a.logger.Debug("image too small for interior windows", "width", w, "height", h)
		return &Result{Adjacency: []Entry{}, Complement: []Entry{}}, nil
	}

	start := time.Now()
	grid := DecodePixels(req.Payload)
	// w > len/h is w*h > len without the overflow.
	if w > len(grid)/h {
		return nil, apperrors.New(apperrors.ErrCodeOutOfBounds,
			"declared %dx%d exceeds the %d pixels the payload decodes to", w, h, len(grid))
	}

	// There cannot be more keys than pixels.
	graph := NewGraph(min(req.MaxNumColors, len(grid)), a.opts.Shards)
	var ignored atomic.Int64
	rows := h - 2
	parallelFor(rows, a.opts.Workers, 1, func(lo, hi int) {
		for r := lo; r < hi; r++ {
			row := r + 1
			for col := 1; col < w-1; col++ {
				c, neighbors, ok := scanWindow(grid, w, row, col, req.Mode)
				if !ok {
					ignored.Add(1)
					continue
				}
				graph.Merge(c, neighbors)
			}
		}
	})
	adjacency := graph.Snapshot()
	scanTime := time.Since(start)

	start = time.Now()
	complement := Complement(adjacency, a.opts.Workers)
	complementTime := time.Since(start)

	stats := Stats{
		Pixels:         len(grid),
		Windows:        rows * (w - 2),
		Ignored:        int(ignored.Load()),
		Colors:         len(adjacency),
		ScanTime:       scanTime,
		ComplementTime: complementTime,
	}
	a.logger.Debug("analyzed color adjacency",
		"width", w,
		"height", h,
		"mode", req.Mode,
		"colors", stats.Colors,
		"windows", stats.Windows,
		"ignored", stats.Ignored,
		"scan", scanTime.Round(time.Microsecond),
		"complement", complementTime.Round(time.Microsecond))

	return &Result{Adjacency: adjacency, Complement: complement, Stats: stats}, nil
}
