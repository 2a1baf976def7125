// Package job defines the unit of work executed by a pipeline: identity,
// dependencies, the action it runs, its lifecycle status, and the captured
// input/output strings that flow between dependent Jobs.
package job

import (
	"context"
	"fmt"
	"time"
)

// Job is a single executable unit with identity, dependencies, an action,
// and a lifecycle. Action is immutable after creation; the dependency list
// may be changed with AddDependency/SetDependencies only before execution
// begins.
type Job struct {
	id           ID
	name         string
	dependencies []ID
	action       ActionDescriptor
	fixedInput   []string
	input        []string
	output       string
	status       Status
}

// New creates a Job with a fresh ID, empty dependencies, and Waiting status.
func New(name string, action ActionDescriptor) *Job {
	return &Job{
		id:     NewID(),
		name:   name,
		action: action,
		status: Status{Phase: Waiting},
	}
}

// WithInput sets the Job's fixed_input (author-supplied static arguments)
// and returns the Job, builder-style. Execute passes fixed_input to the
// ActionExecutor as a separate argument next to the per-run input; it is not
// merged into the input sequence, and none of the executors in package
// action read it.
func (j *Job) WithInput(fixedInput []string) *Job {
	j.fixedInput = fixedInput
	return j
}

// AddDependency appends id to the Job's dependency list. It panics if id
// equals the Job's own ID: self-dependency is a precondition violation, not
// a recoverable runtime error (spec invariant I2 / P5).
func (j *Job) AddDependency(id ID) {
	if id == j.id {
		panic("job: a Job cannot depend on itself")
	}
	j.dependencies = append(j.dependencies, id)
}

// SetDependencies replaces the Job's dependency list wholesale. It panics if
// ids contains the Job's own ID.
func (j *Job) SetDependencies(ids []ID) {
	for _, id := range ids {
		if id == j.id {
			panic("job: a Job cannot depend on itself")
		}
	}
	j.dependencies = append([]ID(nil), ids...)
}

// GetID returns the Job's identifier.
func (j *Job) GetID() ID { return j.id }

// Name returns the Job's human label.
func (j *Job) Name() string { return j.name }

// Dependencies returns the Job's dependency IDs in declared order. The
// returned slice is owned by the caller.
func (j *Job) Dependencies() []ID {
	return append([]ID(nil), j.dependencies...)
}

// Action returns the Job's ActionDescriptor.
func (j *Job) Action() ActionDescriptor { return j.action }

// GetStatus returns the Job's current status.
func (j *Job) GetStatus() Status { return j.status }

// Input returns the inputs the scheduler resolved for this Job's most recent
// (or in-flight) execution.
func (j *Job) Input() []string { return append([]string(nil), j.input...) }

// Output returns the Job's captured output; meaningful once status is
// terminal.
func (j *Job) Output() string { return j.output }

// SetInput is called by the scheduler immediately before execution to
// populate input from dependency outputs, in declared dependency order
// (invariant I5).
func (j *Job) SetInput(input []string) {
	j.input = append([]string(nil), input...)
}

// CanExecute reports whether every one of the Job's dependencies is present
// in all and has Succeeded. A Failed or missing dependency makes this false
// for as long as that dependency stays non-Succeeded, which — since statuses
// only move forward — is forever once a dependency has Failed.
func (j *Job) CanExecute(all map[ID]*Job) bool {
	for _, dep := range j.dependencies {
		depJob, ok := all[dep]
		if !ok || !depJob.GetStatus().IsSucceeded() {
			return false
		}
	}
	return true
}

// Execute runs the Job's action to completion. It sets status to InProgress
// on entry and to a terminal status on return, also recording output.
//
// The action executor runs on a dedicated goroutine; Execute blocks the
// caller on a one-shot, buffered-1 channel until that goroutine reports a
// result, mirroring a worker-thread-to-cooperative-driver handoff. The
// channel is buffered so the worker goroutine never blocks on send even if
// the caller were to abandon the wait (it cannot, in the baseline scheduler,
// but the buffering keeps that invariant cheap to preserve).
func (j *Job) Execute(ctx context.Context, exec ActionExecutor) Status {
	startedAt := time.Now()
	j.status = InProgressStatus(startedAt)

	type result struct {
		output string
		err    error
	}
	done := make(chan result, 1)

	fixedInput := append([]string(nil), j.fixedInput...)
	input := append([]string(nil), j.input...)
	action := j.action

	go func() {
		output, err := exec.Execute(ctx, action, fixedInput, input)
		done <- result{output: output, err: err}
	}()

	res := <-done
	duration := time.Since(startedAt)

	var status Status
	if res.err != nil {
		status = FailedStatus(res.err.Error(), duration)
		j.output = res.err.Error()
	} else {
		status = SucceededStatus(res.output, duration)
		j.output = res.output
	}
	j.status = status
	return status
}

// String renders a short human-readable description, useful in logs and
// panics.
func (j *Job) String() string {
	return fmt.Sprintf("Job{id=%s name=%q status=%s}", j.id, j.name, j.status.Phase)
}
