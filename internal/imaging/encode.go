package imaging

import (
	"image"
	"strings"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/ironsheep/color-adjacency-mcp/internal/adjacency"
)

// EncodeOptions controls how a render is turned into an analysis payload.
type EncodeOptions struct {
	// Region restricts encoding to part of the image. Nil encodes the whole
	// image.
	Region *Region

	// Scale resizes the (cropped) image with nearest-neighbour sampling
	// before encoding. Zero means 1.0. Scaled images are 8-bit.
	Scale float64
}

// EncodeResult is a render in the renderer's text payload form.
type EncodeResult struct {
	Width   int            `json:"width"`
	Height  int            `json:"height"`
	Mode    adjacency.Mode `json:"mode"`
	Colors  int            `json:"colors"` // distinct colors, a ready max_num_colors hint
	Payload string         `json:"payload"`
}

// EncodePixels renders img as the whitespace-separated payload the analyzer
// consumes: one "%.6f %.6f %.6f" triple per pixel in row-major order with
// components in [0, 1].
//
// Fully transparent pixels encode as adjacency.Black, the background
// sentinel, matching renders with a transparent film. Other pixels are
// un-premultiplied before conversion. Mode is detected from the source
// image before any scaling.
func EncodePixels(img image.Image, opts EncodeOptions) (*EncodeResult, error) {
	mode := DetectMode(img)

	if opts.Region != nil {
		cropped, err := Crop(img, *opts.Region)
		if err != nil {
			return nil, err
		}
		img = cropped
	}
	if opts.Scale != 0 {
		scaled, err := Scale(img, opts.Scale)
		if err != nil {
			return nil, err
		}
		img = scaled
	}

	grid := EncodeGrid(img)
	b := img.Bounds()

	var sb strings.Builder
	sb.Grow(len(grid) * len(adjacency.Black))
	seen := adjacency.NewColorSet(0)
	for i, c := range grid {
		if i > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteString(string(c))
		seen.Add(c)
	}

	return &EncodeResult{
		Width:   b.Dx(),
		Height:  b.Dy(),
		Mode:    mode,
		Colors:  seen.Len(),
		Payload: sb.String(),
	}, nil
}

// EncodeGrid converts every pixel of img to a payload color, row-major.
func EncodeGrid(img image.Image) adjacency.Grid {
	b := img.Bounds()
	grid := make(adjacency.Grid, 0, b.Dx()*b.Dy())
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			c, ok := colorful.MakeColor(img.At(x, y))
			if !ok {
				grid = append(grid, adjacency.Black)
				continue
			}
			grid = append(grid, adjacency.FormatColor(c.R, c.G, c.B))
		}
	}
	return grid
}
