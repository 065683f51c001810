package r718

import (
	"context"
	"runtime"
	"sync"

	"github.com/sirupsen/logrus"
)

// BatchResult is the outcome of one operating point of a batch.
type BatchResult struct {
	Point  OperatingPoint
	Result Result
	Err    error
}

/*
Runs independent operating points in parallel.

	Args:
		ctx: cancels the runs that have not finished
		cfg: base configuration, overlaid by every point
		points: operating points
		workers: number of concurrent runs, <= 0 uses GOMAXPROCS

	Returns:
		one BatchResult per point, in input order

	Notes:
		Each run owns its working set. A failing point does not stop the others.
*/
func RunBatch(ctx context.Context, cfg Config, points []OperatingPoint, workers int) []BatchResult {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	if workers > len(points) {
		workers = len(points)
	}
	out := make([]BatchResult, len(points))
	jobs := make(chan int)

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				op := points[i]
				c := &Coupler{
					Provider: IAPWS97{},
					Config:   op.Apply(cfg),
					Logger:   logrus.StandardLogger().WithField("point", op.Name),
				}
				res, err := c.Run(ctx)
				out[i] = BatchResult{Point: op, Result: res, Err: err}
			}
		}()
	}
	for i := range points {
		jobs <- i
	}
	close(jobs)
	wg.Wait()
	return out
}
