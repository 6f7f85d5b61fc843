package stage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"
)

// execRunner defines how external checking tools are executed.
type execRunner interface {
	Run(ctx context.Context, timeout time.Duration, command string, args ...string) (string, error)
}

// commandRunner executes tools via the system binary with a bounded runtime.
type commandRunner struct{}

// Run executes a tool and returns its combined stdout and stderr.
// A non-zero exit is not an error as long as the tool produced output;
// the adapters pattern-match diagnostics out of whatever the tool wrote.
// Timeouts and start failures are returned as errors.
func (commandRunner) Run(ctx context.Context, timeout time.Duration, command string, args ...string) (string, error) {
	if _, err := exec.LookPath(command); err != nil {
		return "", fmt.Errorf("%s not found", command)
	}
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	cmd := exec.CommandContext(ctx, command, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	err := cmd.Run()
	output := stdout.String()
	if stderr.Len() > 0 {
		output += stderr.String()
	}
	if ctx.Err() == context.DeadlineExceeded {
		return "", fmt.Errorf("%s timed out after %s", command, timeout)
	}
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			if strings.TrimSpace(output) == "" {
				return "", fmt.Errorf("%s exited with code %d and no output", command, exitErr.ExitCode())
			}
			return output, nil
		}
		return "", fmt.Errorf("%s: %w", command, err)
	}
	return output, nil
}

// matchingLines returns trimmed output lines containing the marker,
// case-insensitively, in original order.
func matchingLines(output, marker string) []string {
	if marker == "" {
		return nil
	}
	needle := strings.ToLower(marker)
	var lines []string
	for _, line := range strings.Split(output, "\n") {
		if strings.Contains(strings.ToLower(line), needle) {
			lines = append(lines, strings.TrimSpace(line))
		}
	}
	return lines
}
