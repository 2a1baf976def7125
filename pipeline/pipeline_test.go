package pipeline

import (
	"context"
	"testing"

	"github.com/pipeflow/pipeflow/action"
	"github.com/pipeflow/pipeflow/job"
)

func TestSmokeNoOp(t *testing.T) {
	p := New(action.NewDispatcher())
	j := job.New("smoke", job.NewNoOpAction())
	p.AddJob(j)

	if err := p.Execute(context.Background()); err != nil {
		t.Fatal(err)
	}
	if !j.GetStatus().IsSucceeded() {
		t.Fatalf("status = %v, want Succeeded", j.GetStatus().Phase)
	}
	if j.Output() == "" {
		t.Fatal("expected a non-empty message")
	}
}

func TestShellDiamondViaInputPlaceholder(t *testing.T) {
	p := New(action.NewDispatcher())
	a := job.New("A", job.NewShellAction("echo -n 'Hello'"))
	b := job.New("B", job.NewShellAction("echo -n 'World!'"))
	c := job.New("C", job.NewShellAction("echo -n '{INPUT}'"))
	c.SetDependencies([]job.ID{a.GetID(), b.GetID()})

	p.AddJobs([]*job.Job{a, b, c})

	if err := p.Execute(context.Background()); err != nil {
		t.Fatal(err)
	}

	if a.Output() != "Hello" {
		t.Fatalf("A.output = %q, want %q", a.Output(), "Hello")
	}
	if b.Output() != "World!" {
		t.Fatalf("B.output = %q, want %q", b.Output(), "World!")
	}
	input := c.Input()
	if len(input) != 2 || input[0] != "Hello" || input[1] != "World!" {
		t.Fatalf("C.input = %v, want [Hello World!]", input)
	}
	if c.Output() != "Hello World!" {
		t.Fatalf("C.output = %q, want %q", c.Output(), "Hello World!")
	}
}

func TestShellFailureIsolatesDependants(t *testing.T) {
	p := New(action.NewDispatcher())
	a := job.New("A", job.NewShellAction("false"))
	b := job.New("B", job.NewNoOpAction())
	b.SetDependencies([]job.ID{a.GetID()})
	p.AddJobs([]*job.Job{a, b})

	if err := p.Execute(context.Background()); err != nil {
		t.Fatalf("Execute returned an error: %v (it should return success even when jobs fail)", err)
	}

	if !a.GetStatus().IsFailed() {
		t.Fatalf("A.status = %v, want Failed", a.GetStatus().Phase)
	}
	if !b.GetStatus().IsWaiting() {
		t.Fatalf("B.status = %v, want Waiting", b.GetStatus().Phase)
	}
}

func TestMissingDependencyLeavesJobWaitingForever(t *testing.T) {
	p := New(action.NewDispatcher())
	orphan := job.New("orphan", job.NewNoOpAction())
	orphan.SetDependencies([]job.ID{job.NewID()})
	p.AddJob(orphan)

	if err := p.Execute(context.Background()); err != nil {
		t.Fatal(err)
	}
	if !orphan.GetStatus().IsWaiting() {
		t.Fatalf("status = %v, want Waiting", orphan.GetStatus().Phase)
	}
}

func TestGetJobStatusesPreservesInsertionOrder(t *testing.T) {
	p := New(action.NewDispatcher())
	a := job.New("A", job.NewNoOpAction())
	b := job.New("B", job.NewNoOpAction())
	p.AddJobs([]*job.Job{b, a})

	statuses := p.GetJobStatuses()
	if len(statuses) != 2 || statuses[0].Name != "B" || statuses[1].Name != "A" {
		t.Fatalf("statuses = %+v, want insertion order [B A]", statuses)
	}
}

func TestGetJobPanicsOnUnknownID(t *testing.T) {
	p := New(action.NewDispatcher())
	defer func() {
		if recover() == nil {
			t.Fatal("expected GetJob to panic for an id not in this pipeline")
		}
	}()
	p.GetJob(job.NewID())
}
