package dynamo

import (
	"context"
	"runtime"
	"sync"
)

// Ensemble runs independent simulators side by side. Solvers share no state,
// so each run is as deterministic as a sequential one.
type Ensemble struct {
	build   func(i int) (*Simulator, error)
	numRuns int
}

// NewEnsemble prepares numRuns runs; build is called once per run index and
// must return a simulator that shares nothing with the others.
func NewEnsemble(numRuns int, build func(i int) (*Simulator, error)) *Ensemble {
	return &Ensemble{build: build, numRuns: numRuns}
}

// Run executes every run with cfg and returns results in run order. The first
// error by index wins; results of failed runs are nil.
func (e *Ensemble) Run(ctx context.Context, cfg RunConfig) ([]*Result, error) {
	results := make([]*Result, e.numRuns)
	errs := make([]error, e.numRuns)

	ParallelFor(e.numRuns, 1, func(start, end int) {
		for idx := start; idx < end; idx++ {
			sim, err := e.build(idx)
			if err != nil {
				errs[idx] = err
				continue
			}
			results[idx], errs[idx] = sim.Run(ctx, cfg)
		}
	})

	for _, err := range errs {
		if err != nil {
			return results, err
		}
	}

	return results, nil
}

// ParallelFor executes a function in parallel over a range [0, n)
func ParallelFor(n, minChunk int, fn func(start, end int)) {
	numWorkers := runtime.GOMAXPROCS(0)
	if minChunk < 1 {
		minChunk = 1
	}
	if n <= minChunk || numWorkers <= 1 {
		fn(0, n)
		return
	}

	workers := numWorkers
	if n/minChunk < workers {
		workers = n / minChunk
	}
	if workers < 1 {
		workers = 1
	}

	chunkSize := (n + workers - 1) / workers

	var wg sync.WaitGroup
	for start := 0; start < n; start += chunkSize {
		end := start + chunkSize
		if end > n {
			end = n
		}

		wg.Add(1)
		go func(s, e int) {
			defer wg.Done()
			fn(s, e)
		}(start, end)
	}

	wg.Wait()
}
