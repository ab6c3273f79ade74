// internal/batch/batch.go
package batch

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"

	"thermalign-core/params"
	"thermalign-core/thal"
)

// Job is one alignment to run. Seq2 is ignored for hairpin jobs.
type Job struct {
	ID   string
	Kind thal.Kind
	Seq1 string
	Seq2 string
}

// Result pairs a job with its outcome. Err is per-job (bad sequence,
// length limit); batch-level failure is only context cancellation.
type Result struct {
	Job Job
	Res thal.Result
	Err error
}

// Run executes jobs on a bounded worker pool and returns results in job
// order. workers ≤ 0 means all CPUs.
func Run(ctx context.Context, jobs []Job, tbl *params.Tables, cfg thal.Config, workers int) ([]Result, error) {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	results := make([]Result, len(jobs))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, j := range jobs {
		i, j := i, j
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			c := cfg
			c.Kind = j.Kind
			var res thal.Result
			var err error
			if j.Kind == thal.Hairpin {
				res, err = thal.Fold(j.Seq1, tbl, c)
			} else {
				res, err = thal.Align(j.Seq1, j.Seq2, tbl, c)
			}
			results[i] = Result{Job: j, Res: res, Err: err}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
