package typstwriter

import (
	"context"
	"runtime"
	"sync"
	"time"

	"github.com/alnah/go-typstwriter/doctree"
)

// Worker sizing bounds for ResolveWorkers.
const (
	MinWorkers = 1
	MaxWorkers = 16
)

// Job is one document of a batch.
type Job struct {
	Name     string // caller label, echoed in the result
	Document *doctree.Document
	Settings *Settings
}

// BatchResult is the outcome of one job.
type BatchResult struct {
	Name     string
	Result   *Result
	Err      error
	Duration time.Duration
}

// RenderBatch renders jobs concurrently on up to workers goroutines and
// returns results in job order. Jobs not started before ctx is done fail
// with ctx.Err().
func RenderBatch(ctx context.Context, jobs []Job, workers int) []BatchResult {
	if len(jobs) == 0 {
		return nil
	}

	concurrency := min(ResolveWorkers(workers), len(jobs))
	results := make([]BatchResult, len(jobs))
	queue := make(chan int, len(jobs))

	var wg sync.WaitGroup
	for w := 0; w < concurrency; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range queue {
				job := jobs[idx]
				if ctx.Err() != nil {
					results[idx] = BatchResult{Name: job.Name, Err: ctx.Err()}
					continue
				}
				start := time.Now()
				res, err := Render(job.Document, job.Settings)
				results[idx] = BatchResult{
					Name:     job.Name,
					Result:   res,
					Err:      err,
					Duration: time.Since(start),
				}
			}
		}()
	}

	for i := range jobs {
		queue <- i
	}
	close(queue)

	wg.Wait()
	return results
}

// ResolveWorkers determines the worker count.
// Priority: explicit workers > GOMAXPROCS, clamped to [MinWorkers, MaxWorkers].
func ResolveWorkers(workers int) int {
	if workers > 0 {
		return workers
	}
	n := runtime.GOMAXPROCS(0)
	return max(MinWorkers, min(n, MaxWorkers))
}
