// Package pipeline holds a set of Jobs and drives them to completion,
// computing readiness, gathering inputs from completed producers, and
// recording status (spec §4.5 PIPELINE SCHEDULER).
package pipeline

import (
	"context"

	"github.com/pipeflow/pipeflow/job"
	"github.com/pipeflow/pipeflow/progress"
)

// Pipeline is an ordered sequence of Jobs. Order is insertion order; it does
// not influence scheduling. Jobs are owned exclusively by the Pipeline for
// the duration of execution.
type Pipeline struct {
	order []job.ID
	jobs  map[job.ID]*job.Job

	executor job.ActionExecutor
	reporter progress.Reporter
}

// Option configures a Pipeline at construction time.
type Option func(*Pipeline)

// WithReporter attaches a progress.Reporter that receives structured events
// for job start/completion and iteration boundaries (spec §6 Observability).
func WithReporter(r progress.Reporter) Option {
	return func(p *Pipeline) {
		p.reporter = r
	}
}

// reporterSetter is implemented by ActionExecutors that want pipeline-level
// progress events forwarded further down, e.g. action.Dispatcher forwarding
// to its plugin Host for OnPluginStage.
type reporterSetter interface {
	SetReporter(progress.Reporter)
}

// New creates an empty Pipeline driven by the given ActionExecutor (see
// action.Dispatcher for the production implementation). If executor
// implements reporterSetter, the Pipeline's reporter (default or via
// WithReporter) is forwarded to it.
func New(executor job.ActionExecutor, opts ...Option) *Pipeline {
	p := &Pipeline{
		jobs:     make(map[job.ID]*job.Job),
		executor: executor,
		reporter: progress.NoOp{},
	}
	for _, opt := range opts {
		opt(p)
	}
	if rs, ok := executor.(reporterSetter); ok {
		rs.SetReporter(p.reporter)
	}
	return p
}

// AddJob inserts a single Job into the Pipeline.
func (p *Pipeline) AddJob(j *job.Job) {
	p.order = append(p.order, j.GetID())
	p.jobs[j.GetID()] = j
}

// AddJobs inserts several Jobs, preserving their relative order.
func (p *Pipeline) AddJobs(jobs []*job.Job) {
	for _, j := range jobs {
		p.AddJob(j)
	}
}

// GetJob looks up a Job by ID. Callers that obtained the ID from the
// Pipeline itself (e.g. via GetJobStatuses, or a dependency list) may assume
// presence; a missing lookup here is a programmer error and panics, per
// spec §7's "internal invariant violations... abort execution with a
// precondition failure".
func (p *Pipeline) GetJob(id job.ID) *job.Job {
	j, ok := p.jobs[id]
	if !ok {
		panic("pipeline: get_job called with an id not present in this pipeline")
	}
	return j
}

// JobStatus pairs a Job's ID with its current status, as returned by
// GetJobStatuses.
type JobStatus struct {
	ID     job.ID
	Name   string
	Status job.Status
}

// GetJobStatuses returns every Job's ID and current status, in insertion
// order.
func (p *Pipeline) GetJobStatuses() []JobStatus {
	out := make([]JobStatus, 0, len(p.order))
	for _, id := range p.order {
		j := p.jobs[id]
		out = append(out, JobStatus{ID: id, Name: j.Name(), Status: j.GetStatus()})
	}
	return out
}

// readyJobs returns the IDs of Waiting Jobs whose dependencies have all
// Succeeded, in Pipeline insertion order.
func (p *Pipeline) readyJobs() []job.ID {
	var ready []job.ID
	for _, id := range p.order {
		j := p.jobs[id]
		if j.GetStatus().IsWaiting() && j.CanExecute(p.jobs) {
			ready = append(ready, id)
		}
	}
	return ready
}

func (p *Pipeline) anyInProgress() bool {
	for _, id := range p.order {
		if p.jobs[id].GetStatus().IsRunning() {
			return true
		}
	}
	return false
}

// dependencyOutputs resolves a Job's input sequence from its dependencies'
// outputs, in declared dependency order (invariant I5). It assumes every
// dependency has already Succeeded — true for any id returned by
// readyJobs().
func (p *Pipeline) dependencyOutputs(id job.ID) []string {
	j := p.GetJob(id)
	deps := j.Dependencies()
	inputs := make([]string, len(deps))
	for i, dep := range deps {
		inputs[i] = p.GetJob(dep).Output()
	}
	return inputs
}

// Execute repeatedly selects ready jobs, resolves each one's inputs from its
// dependencies' outputs, hands off to the action executor, and records
// status — until no job is ready and none is in flight (quiescence). Jobs
// left Waiting because a prerequisite Failed or is missing remain Waiting at
// termination; Execute still returns success (spec §7 "Pipeline::execute
// returns success when the loop quiesces, regardless of whether individual
// jobs failed").
//
// Ready jobs within one iteration are awaited sequentially, per the
// baseline design (spec §5); see ExecuteConcurrent for the permitted
// parallel extension.
func (p *Pipeline) Execute(ctx context.Context) error {
	for {
		ready := p.readyJobs()
		if len(ready) == 0 && !p.anyInProgress() {
			return nil
		}

		p.reporter.OnIterationStart(len(ready))

		for _, id := range ready {
			j := p.GetJob(id)
			j.SetInput(p.dependencyOutputs(id))

			p.reporter.OnJobStart(j.Name())
			status := j.Execute(ctx, p.executor)
			p.reporter.OnJobComplete(j.Name(), status.IsSucceeded(), status.Duration)
		}
	}
}
