package pipeline

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// ExecuteConcurrent is the permitted parallel extension of Execute (spec §5:
// "a concurrent variant that awaits all ready jobs within an iteration in
// parallel is a valid, permitted extension"). Jobs within one iteration run
// concurrently via errgroup; iterations themselves remain sequential, so
// readiness is always recomputed against a fully-settled previous iteration.
//
// maxConcurrency bounds how many jobs run at once within an iteration; zero
// or negative means unbounded.
func (p *Pipeline) ExecuteConcurrent(ctx context.Context, maxConcurrency int) error {
	for {
		ready := p.readyJobs()
		if len(ready) == 0 && !p.anyInProgress() {
			return nil
		}

		p.reporter.OnIterationStart(len(ready))

		g, gctx := errgroup.WithContext(ctx)
		if maxConcurrency > 0 {
			g.SetLimit(maxConcurrency)
		}

		for _, id := range ready {
			id := id
			g.Go(func() error {
				j := p.GetJob(id)
				j.SetInput(p.dependencyOutputs(id))

				p.reporter.OnJobStart(j.Name())
				status := j.Execute(gctx, p.executor)
				p.reporter.OnJobComplete(j.Name(), status.IsSucceeded(), status.Duration)
				return nil
			})
		}

		// Every g.Go above always returns nil: a Job's own failure is
		// recorded on the Job, not propagated as a pipeline error (same
		// policy as the sequential Execute). errgroup.Wait therefore
		// returns nil here; a cancelled ctx reaches the executors through
		// gctx and shows up as Failed jobs, not as an error from Wait.
		if err := g.Wait(); err != nil {
			return err
		}
	}
}
