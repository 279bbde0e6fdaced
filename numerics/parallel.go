package numerics

import (
	"runtime"
	"sync"
)

// ParallelFor runs fn(i) for i in [0, n) across a worker pool sized to
// GOMAXPROCS, the same goroutine-per-chunk-then-join shape as
// stormgo/glasso's CooksDistance (one goroutine per row, joined via a
// channel/WaitGroup before the caller reads results). Used for bootstrap
// resamples and jackknife statistics, distfit's Monte Carlo replicates and
// family fits, MCMC chains and predictive samples, the exact-KNN row scan,
// and parallel batch expression evaluation (spec.md §5).
func ParallelFor(n int, fn func(i int)) {
	if n <= 0 {
		return
	}
	workers := runtime.GOMAXPROCS(0)
	if workers > n {
		workers = n
	}
	if workers <= 1 {
		for i := 0; i < n; i++ {
			fn(i)
		}
		return
	}

	var wg sync.WaitGroup
	chunk := (n + workers - 1) / workers
	for w := 0; w < workers; w++ {
		start := w * chunk
		end := start + chunk
		if start >= n {
			break
		}
		if end > n {
			end = n
		}
		wg.Add(1)
		go func(start, end int) {
			defer wg.Done()
			for i := start; i < end; i++ {
				fn(i)
			}
		}(start, end)
	}
	wg.Wait()
}

// MapReduce runs fn(i) for i in [0, n), collecting one result per index,
// then reduces them with combine in index order (so the reduction stays
// deterministic up to floating-point reassociation across workers, as
// spec.md §5 requires).
func MapReduce[T, A any](n int, zero A, fn func(i int) T, combine func(acc A, v T) A) A {
	results := make([]T, n)
	ParallelFor(n, func(i int) {
		results[i] = fn(i)
	})
	acc := zero
	for _, r := range results {
		acc = combine(acc, r)
	}
	return acc
}
