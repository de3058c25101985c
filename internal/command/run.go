package command

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"github.com/shinji-kodama/render-tools/internal/model"
)

// ErrNotFound is returned when the program is not on PATH.
var ErrNotFound = errors.New("program not found")

// Run executes name with args and returns its stdout.
//
// A program missing from PATH yields ErrNotFound. Any other failure is a
// CLIError with code, carrying the program's stderr in its message.
func Run(ctx context.Context, code model.ExitCode, name string, args ...string) (string, error) {
	if _, err := exec.LookPath(name); err != nil {
		return "", fmt.Errorf("%w: %s", ErrNotFound, name)
	}

	// #nosec G204 -- the program comes from the user's own configuration
	cmd := exec.CommandContext(ctx, name, args...)

	var stdout, stderr strings.Builder
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		stderrStr := strings.TrimSpace(stderr.String())
		message := fmt.Sprintf("%s failed", name)
		if stderrStr != "" {
			message = fmt.Sprintf("%s: %s", message, stderrStr)
		}
		return "", model.WrapCLIError(code, message, err)
	}
	return stdout.String(), nil
}
