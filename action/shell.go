package action

import (
	"bytes"
	"context"
	"os/exec"
	"strings"
	"unicode/utf8"

	"github.com/pipeflow/pipeflow/perrors"
)

// inputPlaceholder is the literal token a Shell command template substitutes
// with the space-joined input sequence. No other placeholder is recognized,
// and no shell-escaping is performed — the pipeline author is responsible
// for quoting (spec §6).
const inputPlaceholder = "{INPUT}"

type shellExecutor struct {
	command string
}

// execute substitutes {INPUT} in the command template, runs it through a
// POSIX shell, and captures stdout/stderr. On exit code 0 it returns stdout
// decoded as UTF-8 (invalid bytes replaced); otherwise it fails with the
// captured stderr.
func (s shellExecutor) execute(ctx context.Context, _, input []string) (string, error) {
	joined := strings.Join(input, " ")
	command := strings.ReplaceAll(s.command, inputPlaceholder, joined)

	cmd := exec.CommandContext(ctx, "bash", "-c", command)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if _, isExit := err.(*exec.ExitError); isExit {
			return "", perrors.WithDetail(perrors.ShellFailure, stderr.String(), nil)
		}
		return "", perrors.New(perrors.IoFailure, err)
	}

	out := stdout.Bytes()
	if !utf8.Valid(out) {
		out = bytes.ToValidUTF8(out, []byte(string(utf8.RuneError)))
	}
	return string(out), nil
}
