package job

import (
	"context"
	"errors"
	"testing"
)

type stubExecutor struct {
	output string
	err    error
}

func (s stubExecutor) Execute(_ context.Context, _ ActionDescriptor, _, _ []string) (string, error) {
	return s.output, s.err
}

func TestJobExecuteSucceeds(t *testing.T) {
	j := New("noop job", NewNoOpAction())
	status := j.Execute(context.Background(), stubExecutor{output: "ack"})

	if !status.IsSucceeded() {
		t.Fatalf("status.Phase = %v, want Succeeded", status.Phase)
	}
	if status.Message != "ack" {
		t.Fatalf("status.Message = %q, want %q", status.Message, "ack")
	}
	if j.Output() != "ack" {
		t.Fatalf("j.Output() = %q, want %q", j.Output(), "ack")
	}
}

func TestJobExecuteFails(t *testing.T) {
	j := New("failing job", NewShellAction("false"))
	status := j.Execute(context.Background(), stubExecutor{err: errors.New("boom")})

	if !status.IsFailed() {
		t.Fatalf("status.Phase = %v, want Failed", status.Phase)
	}
	if status.Message != "boom" {
		t.Fatalf("status.Message = %q, want %q", status.Message, "boom")
	}
}

func TestAddDependencyRejectsSelf(t *testing.T) {
	j := New("self-referential", NewNoOpAction())

	defer func() {
		if recover() == nil {
			t.Fatal("expected panic on self-dependency via AddDependency")
		}
	}()
	j.AddDependency(j.GetID())
}

func TestSetDependenciesRejectsSelf(t *testing.T) {
	j := New("self-referential", NewNoOpAction())

	defer func() {
		if recover() == nil {
			t.Fatal("expected panic on self-dependency via SetDependencies")
		}
	}()
	j.SetDependencies([]ID{NewID(), j.GetID()})
}

func TestCanExecute(t *testing.T) {
	a := New("a", NewNoOpAction())
	b := New("b", NewNoOpAction())
	c := New("c", NewNoOpAction())
	c.AddDependency(a.GetID())
	c.AddDependency(b.GetID())

	all := map[ID]*Job{a.GetID(): a, b.GetID(): b, c.GetID(): c}

	if c.CanExecute(all) {
		t.Fatal("c should not be executable before its dependencies succeed")
	}

	a.status = SucceededStatus("a-out", 0)
	if c.CanExecute(all) {
		t.Fatal("c should not be executable while b is still waiting")
	}

	b.status = FailedStatus("b-failed", 0)
	if c.CanExecute(all) {
		t.Fatal("c should never become executable once a dependency has Failed")
	}
}

func TestCanExecuteMissingDependency(t *testing.T) {
	a := New("a", NewNoOpAction())
	b := New("b", NewNoOpAction())
	b.AddDependency(a.GetID())

	// a is missing from the lookup map entirely.
	all := map[ID]*Job{b.GetID(): b}
	if b.CanExecute(all) {
		t.Fatal("b should not be executable when a dependency is missing from the pipeline")
	}
}

func TestWithInputBuilder(t *testing.T) {
	j := New("fixed", NewNoOpAction()).WithInput([]string{"static"})
	if len(j.fixedInput) != 1 || j.fixedInput[0] != "static" {
		t.Fatalf("fixedInput = %v, want [static]", j.fixedInput)
	}
}
