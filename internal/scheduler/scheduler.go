// Package scheduler runs compile jobs across a fixed-size worker pool.
// Jobs are independent: they share no mutable state and a failure in one
// never stops or starves the others. Completion order is unspecified;
// callers that care about document order must sort by ordinal themselves.
package scheduler

import (
	"context"
	"sync"

	"github.com/slidekit/spv/internal/compiler"
)

// CompileFunc compiles a single job. It must be safe for concurrent use.
type CompileFunc func(ctx context.Context, job compiler.Job) compiler.Result

// Run dispatches jobs across workers goroutines and returns one result per
// job. With an empty job list it returns nil without spawning anything.
func Run(ctx context.Context, jobs []compiler.Job, workers int, compile CompileFunc) []compiler.Result {
	if len(jobs) == 0 {
		return nil
	}

	if workers < 1 {
		workers = 1
	}
	if workers > len(jobs) {
		workers = len(jobs)
	}

	workCh := make(chan compiler.Job)
	resultCh := make(chan compiler.Result)

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			for job := range workCh {
				resultCh <- compile(ctx, job)
			}
		}()
	}

	go func() {
		defer close(workCh)

		for _, job := range jobs {
			select {
			case workCh <- job:
			case <-ctx.Done():
				return
			}
		}
	}()

	go func() {
		wg.Wait()
		close(resultCh)
	}()

	results := make([]compiler.Result, 0, len(jobs))
	for res := range resultCh {
		results = append(results, res)
	}

	return results
}
