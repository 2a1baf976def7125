package perrors

import (
	"errors"
	"fmt"
	"testing"
)

func TestErrorMessageWithDetail(t *testing.T) {
	err := WithDetail(ShellFailure, "exit status 1", nil)
	want := "ShellFailure: exit status 1"
	if err.Error() != want {
		t.Fatalf("Error() = %q, want %q", err.Error(), want)
	}
}

func TestErrorUnwrap(t *testing.T) {
	cause := errors.New("dial tcp: connection refused")
	err := New(WebFailure, cause)
	if !errors.Is(err, cause) {
		t.Fatal("expected errors.Is to find the wrapped cause")
	}
}

func TestSeverityOf(t *testing.T) {
	if SeverityOf(ChannelClosed) != SeverityFatal {
		t.Fatal("ChannelClosed must be fatal")
	}
	if SeverityOf(ShellFailure) != SeverityJobFailure {
		t.Fatal("ShellFailure must only fail the job")
	}
}

func TestSummarize(t *testing.T) {
	wrapped := fmt.Errorf("executing: %w", New(PluginTypeMismatch, nil))
	s := Summarize("reverse-join", wrapped)
	if s.Kind != PluginTypeMismatch {
		t.Fatalf("Kind = %q, want %q", s.Kind, PluginTypeMismatch)
	}
	if s.JobName != "reverse-join" {
		t.Fatalf("JobName = %q", s.JobName)
	}
}
