package imaging

import (
	"errors"
	"image"
	"io/fs"
	"os"
	"strings"
	"sync"

	"github.com/disintegration/imaging"

	"github.com/ironsheep/color-adjacency-mcp/internal/adjacency"
	apperrors "github.com/ironsheep/color-adjacency-mcp/internal/errors"
)

// ImageCache provides thread-safe caching of decoded renders keyed by path.
//
// Tracing usually analyzes the same render several times (full frame, then
// regions of interest), so decoded images are kept until evicted.
//
// ImageCache is safe for concurrent use by multiple goroutines.
//
// # Example Usage
//
//	cache := imaging.NewImageCache()
//	img, err := cache.Load("/tmp/render/frame_0001.png")
//	if err != nil {
//	    return err
//	}
//	enc, err := imaging.EncodePixels(img, imaging.EncodeOptions{})
type ImageCache struct {
	mu     sync.RWMutex
	images map[string]image.Image
}

// NewImageCache creates and initializes a new empty image cache.
func NewImageCache() *ImageCache {
	return &ImageCache{
		images: make(map[string]image.Image),
	}
}

// Load retrieves an image from the cache or decodes it from disk.
//
// Supported formats are those of github.com/disintegration/imaging: PNG,
// JPEG, GIF, BMP and TIFF. The image is cached under the exact path string.
//
// # Errors
//
//   - FILE_NOT_FOUND if the path does not exist
//   - DECODE_FAILED if the file cannot be read or decoded
func (c *ImageCache) Load(path string) (image.Image, error) {
	c.mu.RLock()
	if img, ok := c.images[path]; ok {
		c.mu.RUnlock()
		return img, nil
	}
	c.mu.RUnlock()

	img, err := imaging.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, apperrors.Wrap(apperrors.ErrCodeFileNotFound, err, "image %s not found", path)
		}
		return nil, apperrors.Wrap(apperrors.ErrCodeDecodeFailed, err, "failed to decode image %s", path)
	}

	c.mu.Lock()
	c.images[path] = img
	c.mu.Unlock()

	return img, nil
}

// Len returns the number of cached images.
func (c *ImageCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.images)
}

// Clear removes all images from the cache.
func (c *ImageCache) Clear() {
	c.mu.Lock()
	c.images = make(map[string]image.Image)
	c.mu.Unlock()
}

// Evict removes a specific image from the cache by its path.
// If the path is not cached, Evict does nothing.
func (c *ImageCache) Evict(path string) {
	c.mu.Lock()
	delete(c.images, path)
	c.mu.Unlock()
}

// ImageInfo contains metadata about a loaded render.
type ImageInfo struct {
	// Width is the image width in pixels.
	Width int `json:"width"`

	// Height is the image height in pixels.
	Height int `json:"height"`

	// Format is the format derived from the file extension ("png", "bmp",
	// ...), or "unknown".
	Format string `json:"format"`

	// ColorDepth indicates the bit depth per channel: "8-bit" or "16-bit".
	ColorDepth string `json:"color_depth"`

	// Mode is the analysis mode matching ColorDepth.
	Mode adjacency.Mode `json:"mode"`

	// HasAlpha indicates whether the image has an alpha channel.
	HasAlpha bool `json:"has_alpha"`

	// InteriorWindows is the number of 3×3 windows the analyzer will scan.
	InteriorWindows int `json:"interior_windows"`

	// FileSizeBytes is the size of the image file on disk in bytes.
	FileSizeBytes int64 `json:"file_size_bytes"`
}

// LoadImageInfo loads an image through cache and describes it.
//
// # Color Depth Detection
//
// Color depth is determined by the decoded Go image type:
//   - *image.RGBA64, *image.NRGBA64, *image.Gray16 -> "16-bit"
//   - All other types -> "8-bit"
func LoadImageInfo(cache *ImageCache, path string) (*ImageInfo, error) {
	img, err := cache.Load(path)
	if err != nil {
		return nil, err
	}

	stat, err := os.Stat(path)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeFileNotFound, err, "failed to stat %s", path)
	}

	format := "unknown"
	if f, err := imaging.FormatFromFilename(path); err == nil {
		format = strings.ToLower(f.String())
	}

	hasAlpha := false
	colorDepth := "8-bit"
	switch img.(type) {
	case *image.RGBA, *image.NRGBA:
		hasAlpha = true
	case *image.RGBA64, *image.NRGBA64:
		hasAlpha = true
		colorDepth = "16-bit"
	case *image.Gray16:
		colorDepth = "16-bit"
	}

	bounds := img.Bounds()
	return &ImageInfo{
		Width:           bounds.Dx(),
		Height:          bounds.Dy(),
		Format:          format,
		ColorDepth:      colorDepth,
		Mode:            DetectMode(img),
		HasAlpha:        hasAlpha,
		InteriorWindows: interiorWindows(bounds.Dx(), bounds.Dy()),
		FileSizeBytes:   stat.Size(),
	}, nil
}

// DetectMode picks the analysis mode for a decoded render. 16-bit integer
// images map to "16 bit", everything else to "8 bit". Float renders are
// never decoded here; their hosts send payloads with "32 bit" directly.
func DetectMode(img image.Image) adjacency.Mode {
	switch img.(type) {
	case *image.RGBA64, *image.NRGBA64, *image.Gray16:
		return adjacency.Mode16Bit
	}
	return adjacency.Mode8Bit
}

func interiorWindows(w, h int) int {
	if w <= 2 || h <= 2 {
		return 0
	}
	return (w - 2) * (h - 2)
}
