package pipelinespec

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-yaml"
)

// maxSpecSizeBytes is the largest pipeline spec file ParseFile accepts. The
// size is checked after the whole file has been read.
const maxSpecSizeBytes = 1 * 1024 * 1024

// validateSpecContent rejects binary content disguised as YAML and files
// with an implausible number of control characters, before it ever reaches
// the YAML parser.
func validateSpecContent(data []byte) error {
	if len(data) > maxSpecSizeBytes {
		return fmt.Errorf("pipelinespec: file exceeds maximum size of %d bytes", maxSpecSizeBytes)
	}
	if bytes.Contains(data, []byte{0x00}) {
		return fmt.Errorf("pipelinespec: file contains null bytes (binary content not allowed)")
	}
	controlCount := 0
	for _, b := range data {
		if b < 32 && b != '\n' && b != '\r' && b != '\t' {
			controlCount++
		}
	}
	if controlCount > 10 {
		return fmt.Errorf("pipelinespec: file contains excessive control characters (%d found)", controlCount)
	}
	return nil
}

// ParseFile reads and parses a single pipeline spec YAML file.
func ParseFile(path string) (*Pipeline, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path validated by caller via Discover
	if err != nil {
		return nil, fmt.Errorf("pipelinespec: reading file: %w", err)
	}
	if err := validateSpecContent(data); err != nil {
		return nil, err
	}

	var p Pipeline
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("pipelinespec: parsing YAML: %w", err)
	}
	return &p, nil
}

// Discover finds pipeline spec files (.yml/.yaml) directly inside dir,
// skipping symlinks and subdirectories.
func Discover(dir string) ([]string, error) {
	if dir == "" {
		return nil, fmt.Errorf("pipelinespec: directory cannot be empty")
	}

	absDir, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("pipelinespec: resolving directory: %w", err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("pipelinespec: reading directory: %w", err)
	}

	var specs []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if entry.Type()&os.ModeSymlink != 0 {
			continue
		}
		ext := filepath.Ext(entry.Name())
		if ext != ".yml" && ext != ".yaml" {
			continue
		}

		fullPath := filepath.Join(dir, entry.Name())
		absPath, err := filepath.Abs(fullPath)
		if err != nil {
			continue
		}
		relPath, err := filepath.Rel(absDir, absPath)
		if err != nil || strings.HasPrefix(relPath, "..") {
			continue
		}
		specs = append(specs, fullPath)
	}
	return specs, nil
}
