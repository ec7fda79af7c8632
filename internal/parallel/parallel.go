// Package parallel provides small goroutine fan-out helpers used by the
// GLM fit kernel when building or reducing over large design matrices.
// ParallelizeWithThreshold(n, threshold, fn) splits [0,n) into chunks and
// runs fn(start, end) over each chunk in its own goroutine, falling back
// to a single synchronous call when n is below threshold.
package parallel

import (
	"runtime"
	"sync"
)

// ParallelizeWithThreshold calls fn once per chunk of [0,n), splitting work
// across min(runtime.NumCPU(), n) goroutines when n >= threshold, or
// calling fn(0, n) synchronously otherwise. fn must be safe to call
// concurrently with disjoint [start, end) ranges.
func ParallelizeWithThreshold(n, threshold int, fn func(start, end int)) {
	if n <= 0 {
		return
	}
	if n < threshold {
		fn(0, n)
		return
	}

	workers := runtime.NumCPU()
	if workers > n {
		workers = n
	}
	if workers < 1 {
		workers = 1
	}

	chunk := (n + workers - 1) / workers

	var wg sync.WaitGroup
	for start := 0; start < n; start += chunk {
		end := start + chunk
		if end > n {
			end = n
		}
		wg.Add(1)
		go func(start, end int) {
			defer wg.Done()
			fn(start, end)
		}(start, end)
	}
	wg.Wait()
}
