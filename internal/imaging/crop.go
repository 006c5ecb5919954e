package imaging

import (
	"image"

	"github.com/anthonynsimon/bild/transform"
	"github.com/disintegration/imaging"

	apperrors "github.com/ironsheep/color-adjacency-mcp/internal/errors"
)

// Region represents a rectangular region within an image.
//
// (X1, Y1) is the top-left corner (inclusive), (X2, Y2) the bottom-right
// corner (exclusive).
type Region struct {
	X1 int `json:"x1"`
	Y1 int `json:"y1"`
	X2 int `json:"x2"`
	Y2 int `json:"y2"`
}

// Rect converts r to an image.Rectangle.
func (r Region) Rect() image.Rectangle {
	return image.Rect(r.X1, r.Y1, r.X2, r.Y2)
}

// Crop extracts a region from img. The region must lie inside the image
// bounds and be non-empty.
func Crop(img image.Image, r Region) (image.Image, error) {
	bounds := img.Bounds()
	if r.X1 < bounds.Min.X || r.Y1 < bounds.Min.Y || r.X2 > bounds.Max.X || r.Y2 > bounds.Max.Y {
		return nil, apperrors.New(apperrors.ErrCodeInvalidRegion,
			"region (%d,%d)-(%d,%d) outside image bounds (%d,%d)-(%d,%d)",
			r.X1, r.Y1, r.X2, r.Y2, bounds.Min.X, bounds.Min.Y, bounds.Max.X, bounds.Max.Y)
	}
	if r.X1 >= r.X2 || r.Y1 >= r.Y2 {
		return nil, apperrors.New(apperrors.ErrCodeInvalidRegion,
			"invalid region: x1 must be < x2, y1 must be < y2")
	}
	return imaging.Crop(img, r.Rect()), nil
}

// NamedRegion resolves a named part of an image of the given size:
// top-left, top-right, bottom-left, bottom-right, top-half, bottom-half,
// left-half, right-half or center (the middle 50%).
func NamedRegion(w, h int, name string) (Region, error) {
	midX, midY := w/2, h/2

	switch name {
	case "top-left":
		return Region{0, 0, midX, midY}, nil
	case "top-right":
		return Region{midX, 0, w, midY}, nil
	case "bottom-left":
		return Region{0, midY, midX, h}, nil
	case "bottom-right":
		return Region{midX, midY, w, h}, nil
	case "top-half":
		return Region{0, 0, w, midY}, nil
	case "bottom-half":
		return Region{0, midY, w, h}, nil
	case "left-half":
		return Region{0, 0, midX, h}, nil
	case "right-half":
		return Region{midX, 0, w, h}, nil
	case "center":
		qW, qH := w/4, h/4
		return Region{qW, qH, w - qW, h - qH}, nil
	}
	return Region{}, apperrors.New(apperrors.ErrCodeInvalidRegion, "unknown region: %s", name)
}

// Scale resizes img by factor with nearest-neighbour sampling, so every
// output pixel carries a color that exists in the input. Interpolating
// filters would invent blended colors and with them spurious graph keys.
func Scale(img image.Image, factor float64) (image.Image, error) {
	if factor == 1.0 {
		return img, nil
	}
	if factor <= 0 {
		return nil, apperrors.New(apperrors.ErrCodeInvalidInput, "scale must be positive, got %g", factor)
	}
	b := img.Bounds()
	w := int(float64(b.Dx()) * factor)
	h := int(float64(b.Dy()) * factor)
	if w < 1 || h < 1 {
		return nil, apperrors.New(apperrors.ErrCodeInvalidDimensions,
			"scale %g reduces %dx%d to an empty image", factor, b.Dx(), b.Dy())
	}
	return transform.Resize(img, w, h, transform.NearestNeighbor), nil
}
