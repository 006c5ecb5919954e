package adjacency

import (
	"runtime"
	"sort"
	"sync"

	"github.com/cespare/xxhash/v2"
)

const minShards = 16

// Graph maps each color to the set of colors seen in its windows.
//
// Graph is safe for concurrent Merge calls. Keys are striped over a fixed
// number of shards, each guarded by its own mutex, so merges for colors in
// different shards never wait on each other and merges for the same color
// are serialized.
//
// Once every writer has finished, Snapshot freezes the content into a
// sorted slice for the complement pass.
type Graph struct {
	shards []graphShard
	mask   uint64
}

type graphShard struct {
	mu    sync.Mutex
	items map[Color]ColorSet
}

// NewGraph creates a graph pre-sized for capacity distinct colors and
// striped over shards locks. capacity is a hint only; the graph grows past
// it as needed. shards is rounded up to a power of two; values ≤ 0 select
// 4×GOMAXPROCS (at least 16).
func NewGraph(capacity, shards int) *Graph {
	if shards <= 0 {
		shards = 4 * runtime.GOMAXPROCS(0)
	}
	if shards < minShards {
		shards = minShards
	}
	n := 1
	for n < shards {
		n <<= 1
	}
	if capacity < 0 {
		capacity = 0
	}
	per := capacity/n + 1

	g := &Graph{
		shards: make([]graphShard, n),
		mask:   uint64(n - 1),
	}
	for i := range g.shards {
		g.shards[i].items = make(map[Color]ColorSet, per)
	}
	return g
}

func (g *Graph) shard(c Color) *graphShard {
	return &g.shards[xxhash.Sum64String(string(c))&g.mask]
}

// Merge records that the given neighbours were seen around c.
//
// If c is absent it is inserted with neighbors; otherwise neighbors is
// unioned into the existing set. The call is atomic with respect to other
// merges of c. Merge takes ownership of neighbors.
func (g *Graph) Merge(c Color, neighbors ColorSet) {
	if neighbors == nil {
		neighbors = NewColorSet(0)
	}
	s := g.shard(c)
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.items[c]
	if !ok {
		s.items[c] = neighbors
		return
	}
	for n := range neighbors {
		existing.Add(n)
	}
}

// Len returns the number of distinct colors in the graph.
func (g *Graph) Len() int {
	total := 0
	for i := range g.shards {
		s := &g.shards[i]
		s.mu.Lock()
		total += len(s.items)
		s.mu.Unlock()
	}
	return total
}

// Neighbors returns the neighbour set of c and whether c is a key.
// The returned set must not be modified.
func (g *Graph) Neighbors(c Color) (ColorSet, bool) {
	s := g.shard(c)
	s.mu.Lock()
	defer s.mu.Unlock()
	set, ok := s.items[c]
	return set, ok
}

// Entry is one key of a frozen graph with its color set.
type Entry struct {
	Color Color
	Set   ColorSet
}

// Snapshot returns every key with its neighbour set, sorted by color.
//
// It must only be called after all Merge calls have returned. The sets in
// the returned entries are shared with the graph and must be treated as
// read-only.
func (g *Graph) Snapshot() []Entry {
	out := make([]Entry, 0, g.Len())
	for i := range g.shards {
		s := &g.shards[i]
		s.mu.Lock()
		for c, set := range s.items {
			out = append(out, Entry{Color: c, Set: set})
		}
		s.mu.Unlock()
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Color < out[j].Color })
	return out
}
