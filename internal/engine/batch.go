package engine

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// Request is a single conversion to perform in a batch.
type Request struct {
	Value  float64
	From   string
	To     string
	Domain Domain
}

// Result pairs a request with its converted value or the error it produced.
type Result struct {
	Request Request
	Output  float64
	Err     error
}

// ConvertBatch converts every request using up to workers goroutines
// (runtime.NumCPU() when workers <= 0). Results keep the input order and a
// failing conversion never aborts the others. If ctx is done mid-batch, items
// not yet started carry ctx.Err() and that error is also returned.
func ConvertBatch(ctx context.Context, reqs []Request, workers int) ([]Result, error) {
	results := make([]Result, len(reqs))
	if len(reqs) == 0 {
		return results, nil
	}

	// 1. Setup Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers > len(reqs) {
		workers = len(reqs)
	}
	chunkSize := (len(reqs) + workers - 1) / workers

	// 2. Parallel Loop (each worker owns a disjoint slice of results)
	g, gctx := errgroup.WithContext(ctx)
	for start := 0; start < len(reqs); start += chunkSize {
		s, e := start, min(start+chunkSize, len(reqs))
		g.Go(func() error {
			for i := s; i < e; i++ {
				results[i].Request = reqs[i]
			}
			for i := s; i < e; i++ {
				if err := gctx.Err(); err != nil {
					for j := i; j < e; j++ {
						results[j].Err = err
					}
					return err
				}
				r := reqs[i]
				results[i].Output, results[i].Err = Convert(r.Value, r.From, r.To, r.Domain)
			}
			return nil
		})
	}

	return results, g.Wait()
}

// Failed counts the results that carry an error.
func Failed(results []Result) int {
	n := 0
	for _, r := range results {
		if r.Err != nil {
			n++
		}
	}
	return n
}
