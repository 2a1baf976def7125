package pipelinespec

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func writeSpec(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestParseFileRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := writeSpec(t, dir, "p.yaml", `
name: demo
jobs:
  A:
    shell:
      command: "echo -n 'Hello'"
  B:
    needs: [A]
    noop: {}
`)
	spec, err := ParseFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if spec.Name != "demo" {
		t.Fatalf("name = %q, want demo", spec.Name)
	}
	if spec.Jobs["A"].Shell == nil || spec.Jobs["A"].Shell.Command != "echo -n 'Hello'" {
		t.Fatalf("A.shell = %+v", spec.Jobs["A"].Shell)
	}
	if len(spec.Jobs["B"].Needs) != 1 || spec.Jobs["B"].Needs[0] != "A" {
		t.Fatalf("B.needs = %v, want [A]", spec.Jobs["B"].Needs)
	}
}

func TestParseFileRejectsNullBytes(t *testing.T) {
	dir := t.TempDir()
	path := writeSpec(t, dir, "bad.yaml", "jobs:\n  A:\n    noop: {}\n\x00")
	if _, err := ParseFile(path); err == nil {
		t.Fatal("expected an error for a file containing a null byte")
	}
}

func TestDiscoverFindsYAMLOnly(t *testing.T) {
	dir := t.TempDir()
	writeSpec(t, dir, "a.yaml", "jobs:\n  A:\n    noop: {}\n")
	writeSpec(t, dir, "b.yml", "jobs:\n  A:\n    noop: {}\n")
	writeSpec(t, dir, "c.txt", "not a spec")

	found, err := Discover(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(found) != 2 {
		t.Fatalf("found = %v, want 2 entries", found)
	}
}

func TestBuildResolvesDependenciesByName(t *testing.T) {
	spec := &Pipeline{
		Jobs: map[string]*Job{
			"A": {Shell: &ShellAction{Command: "echo -n 'Hello'"}},
			"B": {Shell: &ShellAction{Command: "echo -n 'World!'"}},
			"C": {Needs: []string{"A", "B"}, Shell: &ShellAction{Command: "echo -n '{INPUT}'"}},
		},
	}

	p, err := Build(spec, t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	if err := p.Execute(context.Background()); err != nil {
		t.Fatal(err)
	}

	var cStatus, aStatus, bStatus bool
	for _, s := range p.GetJobStatuses() {
		switch s.Name {
		case "A":
			aStatus = s.Status.IsSucceeded()
		case "B":
			bStatus = s.Status.IsSucceeded()
		case "C":
			cStatus = s.Status.IsSucceeded()
		}
	}
	if !aStatus || !bStatus || !cStatus {
		t.Fatalf("expected all jobs to succeed: A=%v B=%v C=%v", aStatus, bStatus, cStatus)
	}
}

func TestBuildRejectsUndeclaredDependency(t *testing.T) {
	spec := &Pipeline{
		Jobs: map[string]*Job{
			"A": {Needs: []string{"ghost"}, NoOp: &NoOpAction{}},
		},
	}
	if _, err := Build(spec, t.TempDir()); err == nil {
		t.Fatal("expected an error for a needs reference to an undeclared job")
	}
}

func TestBuildRejectsAmbiguousActionBlock(t *testing.T) {
	spec := &Pipeline{
		Jobs: map[string]*Job{
			"A": {NoOp: &NoOpAction{}, Shell: &ShellAction{Command: "true"}},
		},
	}
	if _, err := Build(spec, t.TempDir()); err == nil {
		t.Fatal("expected an error when two action blocks are set")
	}
}

func TestBuildRejectsMissingActionBlock(t *testing.T) {
	spec := &Pipeline{
		Jobs: map[string]*Job{
			"A": {},
		},
	}
	if _, err := Build(spec, t.TempDir()); err == nil {
		t.Fatal("expected an error when no action block is set")
	}
}

func TestResolvePluginModuleGlob(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "echo-v1.wasm"), []byte("stub"), 0o644); err != nil {
		t.Fatal(err)
	}

	resolved, err := resolvePluginModule("*.wasm", dir)
	if err != nil {
		t.Fatal(err)
	}
	if filepath.Base(resolved) != "echo-v1.wasm" {
		t.Fatalf("resolved = %q, want echo-v1.wasm", resolved)
	}
}

func TestResolvePluginModuleGlobNoMatch(t *testing.T) {
	dir := t.TempDir()
	if _, err := resolvePluginModule("*.wasm", dir); err == nil {
		t.Fatal("expected an error when the glob matches nothing")
	}
}
