package scheduler

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/slidekit/spv/internal/cache"
	"github.com/slidekit/spv/internal/compiler"
)

func makeJobs(n int) []compiler.Job {
	bodies := make([]string, n)
	for i := range bodies {
		bodies[i] = fmt.Sprintf("slide %d\n", i)
	}

	units := cache.Plan("h\n", "f\n", bodies, false)

	jobs := make([]compiler.Job, n)
	for i, u := range units {
		jobs[i] = compiler.Job{Unit: u}
	}

	return jobs
}

func TestRun_EmptyJobList(t *testing.T) {
	called := false
	results := Run(context.Background(), nil, 4, func(ctx context.Context, job compiler.Job) compiler.Result {
		called = true
		return compiler.Result{Job: job}
	})

	assert.Nil(t, results)
	assert.False(t, called, "no workers must be spawned for an empty stale set")
}

func TestRun_OneResultPerJob(t *testing.T) {
	jobs := makeJobs(10)

	var calls atomic.Int32
	results := Run(context.Background(), jobs, 3, func(ctx context.Context, job compiler.Job) compiler.Result {
		calls.Add(1)
		return compiler.Result{Job: job}
	})

	assert.Equal(t, int32(10), calls.Load())
	require.Len(t, results, 10)

	seen := make(map[int]bool)
	for _, r := range results {
		seen[r.Job.Unit.Ordinal] = true
	}
	assert.Len(t, seen, 10, "every job ran exactly once")
}

func TestRun_FailureIsolation(t *testing.T) {
	jobs := makeJobs(3)

	results := Run(context.Background(), jobs, 2, func(ctx context.Context, job compiler.Job) compiler.Result {
		if job.Unit.Ordinal == 1 {
			return compiler.Result{Job: job, Placeholder: true}
		}

		return compiler.Result{Job: job}
	})

	require.Len(t, results, 3, "one job's failure must not starve siblings")

	placeholders := 0
	for _, r := range results {
		if r.Placeholder {
			placeholders++
			assert.Equal(t, 1, r.Job.Unit.Ordinal)
		}
	}
	assert.Equal(t, 1, placeholders)
}

func TestRun_ClampsWorkers(t *testing.T) {
	jobs := makeJobs(2)

	// More workers than jobs and a non-positive worker count must both
	// still complete every job.
	for _, workers := range []int{0, 16} {
		results := Run(context.Background(), jobs, workers, func(ctx context.Context, job compiler.Job) compiler.Result {
			return compiler.Result{Job: job}
		})
		assert.Len(t, results, 2, "workers=%d", workers)
	}
}
