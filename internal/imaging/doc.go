// Package imaging loads rendered rasters and converts them into the text
// payload consumed by the adjacency analyzer.
//
// A render is decoded once (ImageCache), optionally cropped to a Region or
// a named part of the frame, optionally rescaled with nearest-neighbour
// sampling, and then written out as one "%.6f %.6f %.6f" triple per pixel,
// exactly as the tracing host formats its own float buffers.
//
// # Coordinate System
//
// All pixel coordinates are 0-based with (0,0) at the top-left corner.
// Regions are inclusive at (X1,Y1) and exclusive at (X2,Y2).
//
// # Color Representation
//
// Payload colors are float components in [0, 1] produced by
// github.com/lucasb-eyer/go-colorful from the decoded pixel. Fully
// transparent pixels become the black background sentinel.
//
// # Thread Safety
//
// ImageCache is safe for concurrent use. The conversion functions are
// stateless.
package imaging
