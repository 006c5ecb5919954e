package adjacency

// Complement computes, for each adjacency entry, the colors of the key set
// that never appear in its neighbourhood.
//
// For an entry k the output set is every other key k' with k' ∉ neighbors(k).
// The relation is not symmetrized: k' may be absent from k's neighbours
// while k is present in k''s.
//
// Every input key appears in the output, in input order, with a non-nil set
// even when it is empty. entries is read concurrently and must not be
// modified while Complement runs.
func Complement(entries []Entry, workers int) []Entry {
	out := make([]Entry, len(entries))
	parallelFor(len(entries), workers, 0, func(lo, hi int) {
		for i := lo; i < hi; i++ {
			out[i] = complementOf(entries, i)
		}
	})
	return out
}

func complementOf(entries []Entry, i int) Entry {
	self := entries[i]
	set := NewColorSet(0)
	for j, other := range entries {
		if j == i || self.Set.Has(other.Color) {
			continue
		}
		set.Add(other.Color)
	}
	return Entry{Color: self.Color, Set: set}
}
