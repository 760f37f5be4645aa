package video

import (
	"context"
	"sync"
	"time"
)

// ProbeResult is the outcome of probing one path.
type ProbeResult struct {
	Path string
	Info Info
	Err  error
}

// ProbeAll probes paths in parallel with at most workers in flight, each
// bounded by timeout when it is positive. Results are in input order.
func ProbeAll(ctx context.Context, opener Opener, paths []string, workers int, timeout time.Duration) []ProbeResult {
	if workers <= 0 {
		workers = 1
	}

	results := make([]ProbeResult, len(paths))
	sem := make(chan struct{}, workers)

	var wg sync.WaitGroup
	for i, path := range paths {
		wg.Add(1)
		go func(i int, path string) {
			defer wg.Done()
			sem <- struct{}{}        // acquire
			defer func() { <-sem }() // release

			probeCtx := ctx
			if timeout > 0 {
				var cancel context.CancelFunc
				probeCtx, cancel = context.WithTimeout(ctx, timeout)
				defer cancel()
			}

			info, err := Probe(probeCtx, opener, path)
			results[i] = ProbeResult{Path: path, Info: info, Err: err}
		}(i, path)
	}
	wg.Wait()
	return results
}
