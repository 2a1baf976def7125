// Package pipelinespec defines a declarative YAML format for describing a
// job.Pipeline, and the loader that turns a spec file into real Jobs with
// their dependency names resolved to job.IDs (spec.md §9 DESIGN NOTES: the
// Rust prototype only ever builds Jobs by hand in its tests; this package
// closes that gap).
package pipelinespec

// Pipeline is the root of a pipeline spec file: a set of named Jobs.
type Pipeline struct {
	// Name is a human label for the pipeline; purely descriptive.
	Name string `yaml:"name,omitempty"`

	// Jobs maps a short, spec-file-local job name to its definition. Job
	// names are referenced by other jobs' Needs lists; as map keys they are
	// unique, and Build checks them only for being non-empty.
	Jobs map[string]*Job `yaml:"jobs"`
}

// Job is one entry in a pipeline spec's jobs map.
type Job struct {
	// Needs lists the names (keys into Pipeline.Jobs) this job depends on.
	Needs []string `yaml:"needs,omitempty"`

	// FixedInput is passed through to job.Job.WithInput verbatim.
	FixedInput []string `yaml:"fixed_input,omitempty"`

	// Exactly one of the following action blocks must be set.
	NoOp   *NoOpAction   `yaml:"noop,omitempty"`
	Shell  *ShellAction  `yaml:"shell,omitempty"`
	HTTP   *HTTPAction   `yaml:"http,omitempty"`
	Plugin *PluginAction `yaml:"plugin,omitempty"`
}

// NoOpAction marks a job whose action always succeeds with a fixed
// acknowledgement. Present as an empty block: `noop: {}`.
type NoOpAction struct{}

// ShellAction runs Command through a POSIX shell, substituting {INPUT}.
type ShellAction struct {
	Command string `yaml:"command"`
}

// HTTPAction issues a blocking request to URL.
type HTTPAction struct {
	URL    string `yaml:"url"`
	Method string `yaml:"method,omitempty"` // "GET" (default) or "POST"
}

// PluginAction invokes Function in the WASM module at Module, which may be a
// doublestar glob resolved relative to the spec file's directory (e.g.
// "plugins/*.wasm"); the lexicographically first match is used.
type PluginAction struct {
	Module   string `yaml:"module"`
	Function string `yaml:"function"`
}
