package pipelinespec

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/pipeflow/pipeflow/action"
	"github.com/pipeflow/pipeflow/job"
	"github.com/pipeflow/pipeflow/pipeline"
)

// Build turns a parsed Pipeline spec into a real pipeline.Pipeline of
// job.Jobs, resolving each job's Needs names to the job.IDs the builder
// assigned its referents, and resolving any glob plugin module path relative
// to baseDir (typically the spec file's directory).
//
// Build rejects a spec with an empty job name, a Needs reference to an
// undeclared job name, a job with zero or more than one action block set, or
// a plugin glob that matches no file — all are malformed-spec errors, not
// runtime failures, and are reported before any pipeline.Pipeline is
// constructed.
func Build(spec *Pipeline, baseDir string, opts ...pipeline.Option) (*pipeline.Pipeline, error) {
	if len(spec.Jobs) == 0 {
		return nil, fmt.Errorf("pipelinespec: pipeline has no jobs")
	}

	names := make([]string, 0, len(spec.Jobs))
	for name := range spec.Jobs {
		if strings.TrimSpace(name) == "" {
			return nil, fmt.Errorf("pipelinespec: job name cannot be empty")
		}
		names = append(names, name)
	}
	sort.Strings(names)

	ids := make(map[string]job.ID, len(names))
	jobs := make(map[string]*job.Job, len(names))

	for _, name := range names {
		def := spec.Jobs[name]
		descriptor, err := buildAction(def, baseDir)
		if err != nil {
			return nil, fmt.Errorf("pipelinespec: job %q: %w", name, err)
		}

		j := job.New(name, descriptor)
		if len(def.FixedInput) > 0 {
			j.WithInput(append([]string(nil), def.FixedInput...))
		}
		ids[name] = j.GetID()
		jobs[name] = j
	}

	for _, name := range names {
		def := spec.Jobs[name]
		deps := make([]job.ID, 0, len(def.Needs))
		for _, need := range def.Needs {
			depID, ok := ids[need]
			if !ok {
				return nil, fmt.Errorf("pipelinespec: job %q needs undeclared job %q", name, need)
			}
			deps = append(deps, depID)
		}
		jobs[name].SetDependencies(deps)
	}

	p := pipeline.New(action.NewDispatcher(), opts...)
	ordered := make([]*job.Job, 0, len(names))
	for _, name := range names {
		ordered = append(ordered, jobs[name])
	}
	p.AddJobs(ordered)
	return p, nil
}

func buildAction(def *Job, baseDir string) (job.ActionDescriptor, error) {
	set := 0
	if def.NoOp != nil {
		set++
	}
	if def.Shell != nil {
		set++
	}
	if def.HTTP != nil {
		set++
	}
	if def.Plugin != nil {
		set++
	}
	if set != 1 {
		return job.ActionDescriptor{}, fmt.Errorf("exactly one of noop/shell/http/plugin must be set, found %d", set)
	}

	switch {
	case def.NoOp != nil:
		return job.NewNoOpAction(), nil

	case def.Shell != nil:
		if def.Shell.Command == "" {
			return job.ActionDescriptor{}, fmt.Errorf("shell.command cannot be empty")
		}
		return job.NewShellAction(def.Shell.Command), nil

	case def.HTTP != nil:
		if def.HTTP.URL == "" {
			return job.ActionDescriptor{}, fmt.Errorf("http.url cannot be empty")
		}
		method := job.MethodGet
		switch strings.ToUpper(def.HTTP.Method) {
		case "", "GET":
			method = job.MethodGet
		case "POST":
			method = job.MethodPost
		default:
			return job.ActionDescriptor{}, fmt.Errorf("http.method must be GET or POST, got %q", def.HTTP.Method)
		}
		return job.NewHTTPAction(def.HTTP.URL, method), nil

	case def.Plugin != nil:
		if def.Plugin.Module == "" || def.Plugin.Function == "" {
			return job.ActionDescriptor{}, fmt.Errorf("plugin.module and plugin.function are both required")
		}
		modulePath, err := resolvePluginModule(def.Plugin.Module, baseDir)
		if err != nil {
			return job.ActionDescriptor{}, err
		}
		return job.NewPluginAction(def.Plugin.Function, modulePath), nil

	default:
		panic("pipelinespec: unreachable")
	}
}

// resolvePluginModule resolves pattern against baseDir. A pattern containing
// no glob metacharacters is returned as-is (joined to baseDir if relative);
// otherwise it is matched with doublestar and the lexicographically first
// match is used, so a spec can say "plugins/*.wasm" without committing to a
// single build's version suffix.
func resolvePluginModule(pattern, baseDir string) (string, error) {
	if !strings.ContainsAny(pattern, "*?[{") {
		if filepath.IsAbs(pattern) {
			return pattern, nil
		}
		return filepath.Join(baseDir, pattern), nil
	}

	fsys := os.DirFS(baseDir)
	matches, err := doublestar.Glob(fsys, pattern)
	if err != nil {
		return "", fmt.Errorf("invalid plugin module glob %q: %w", pattern, err)
	}
	if len(matches) == 0 {
		return "", fmt.Errorf("plugin module glob %q matched no files under %s", pattern, baseDir)
	}
	sort.Strings(matches)
	return filepath.Join(baseDir, matches[0]), nil
}
