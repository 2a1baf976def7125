// Package perrors defines the error taxonomy propagated by action executors
// and the plugin host (spec §7 ERROR HANDLING DESIGN), structured the way
// the teacher's errors package groups and serializes CI-tool errors — here
// re-aimed at this system's own error kinds instead of lint/type-check
// categories.
package perrors

import (
	"errors"
	"fmt"
)

// Kind enumerates the closed set of error kinds an executor or the plugin
// host can report.
type Kind string

const (
	ShellFailure       Kind = "ShellFailure"
	IoFailure          Kind = "IoFailure"
	WebFailure         Kind = "WebFailure"
	PluginLoad         Kind = "PluginLoad"
	PluginExec         Kind = "PluginExec"
	PluginMemory       Kind = "PluginMemory"
	PluginTypeMismatch Kind = "PluginTypeMismatch"
	CodecError         Kind = "CodecError"
	ChannelClosed      Kind = "ChannelClosed"
)

// Error wraps an underlying cause with a taxonomy Kind and an optional
// detail string (e.g. captured stderr for ShellFailure).
type Error struct {
	Kind   Kind
	Detail string
	Cause  error
}

func (e *Error) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("%s: %s", e.Kind, e.Detail)
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Kind, e.Cause)
	}
	return string(e.Kind)
}

func (e *Error) Unwrap() error { return e.Cause }

// New builds an Error of the given Kind wrapping cause, with no extra detail.
func New(kind Kind, cause error) *Error {
	return &Error{Kind: kind, Cause: cause}
}

// WithDetail builds an Error of the given Kind carrying a detail string
// (e.g. a shell command's captured stderr) alongside an optional cause.
func WithDetail(kind Kind, detail string, cause error) *Error {
	return &Error{Kind: kind, Detail: detail, Cause: cause}
}

// Severity classifies a Kind as fatal to the Pipeline run (a programmer
// error / precondition violation, §7) versus one that is captured on the
// Job as Failed and does not abort the run.
type Severity string

const (
	// SeverityJobFailure marks kinds that terminate only the Job that
	// produced them; dependants remain Waiting (spec §7 propagation
	// policy).
	SeverityJobFailure Severity = "job-failure"
	// SeverityFatal marks kinds that are programmer errors — missing
	// JobId lookups, cycles, self-dependency — and abort execution.
	SeverityFatal Severity = "fatal"
)

// SeverityOf reports how a Kind should be handled by the scheduler.
func SeverityOf(kind Kind) Severity {
	switch kind {
	case ChannelClosed:
		return SeverityFatal
	default:
		return SeverityJobFailure
	}
}

// Summary is a JSON-friendly view of a single Job's terminal error,
// suitable for the run-history store and CLI output — adapted from the
// teacher's OrchestratorView/OrchestratorError lightweight error views.
type Summary struct {
	JobName string `json:"job_name"`
	Kind    Kind   `json:"kind,omitempty"`
	Message string `json:"message"`
}

// Summarize builds a Summary from a Job name and its failure message. If the
// message came from a *Error, Kind is populated; otherwise it is left empty
// (e.g. a plain shell-stderr string recorded directly as Job.output).
func Summarize(jobName string, err error) Summary {
	s := Summary{JobName: jobName, Message: err.Error()}
	var pe *Error
	if errors.As(err, &pe) {
		s.Kind = pe.Kind
	}
	return s
}
