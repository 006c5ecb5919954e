package adjacency

import (
	"runtime"

	"golang.org/x/sync/errgroup"
)

// defaultWorkers returns the pool size used when none is configured.
func defaultWorkers() int {
	return runtime.GOMAXPROCS(0)
}

// parallelFor runs fn over [0, n) split into contiguous chunks on at most
// workers goroutines and returns once every chunk has finished.
//
// chunk controls how many indices each task covers; values < 1 divide the
// range evenly between workers. Tasks never wait on each other, so the only
// synchronization point is the final Wait.
func parallelFor(n, workers, chunk int, fn func(lo, hi int)) {
	if n <= 0 {
		return
	}
	if workers < 1 {
		workers = defaultWorkers()
	}
	if chunk < 1 {
		chunk = (n + workers - 1) / workers
	}

	var g errgroup.Group
	g.SetLimit(workers)
	for lo := 0; lo < n; lo += chunk {
		hi := lo + chunk
		if hi > n {
			hi = n
		}
		lo := lo // per-iteration copy (pre-Go 1.22 loop semantics)
		g.Go(func() error {
			fn(lo, hi)
			return nil
		})
	}
	// Tasks never fail; Wait is the barrier.
	_ = g.Wait()
}
