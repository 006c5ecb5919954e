// Package adjacency builds color adjacency graphs from rendered rasters and
// derives, for every color, the set of colors it never touches.
//
// The input is the renderer's flat text payload: whitespace-separated
// components grouped in threes, one group per pixel, in row-major order.
// Colors are kept as the exact strings the renderer wrote (see Color), so
// no float parsing or color-space conversion happens here.
//
// # Pipeline
//
//  1. DecodePixels groups tokens into a Grid.
//  2. Every interior pixel (the one-pixel border is never a window centre)
//     has its 3×3 window classified against the background rules for the
//     Mode. Windows that survive merge their neighbour colors into a
//     sharded Graph. Rows are scanned in parallel on a bounded pool.
//  3. After all scans finish, the graph is frozen with Snapshot.
//  4. Complement computes, per key and in parallel, the keys absent from
//     that key's neighbour set.
//  5. Format renders one "<color>: <colors...>" line per key.
//
// # Background Rules
//
// Windows centred on Black are always ignored and Black is never recorded
// as a neighbour. In the 8 bit and 16 bit modes a window whose eight neighbours
// are uniformly Black or uniformly White is ignored too.
//
// # Thread Safety
//
// Graph is safe for concurrent Merge calls. Analyzer holds no per-call
// state; every Run allocates and discards its own structures.
package adjacency
