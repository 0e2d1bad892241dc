package engine

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"strings"
	"time"
)

// runSpec carries the per-invocation quirks of an external engine.
type runSpec struct {
	Dir string
	// Env entries appended to the parent environment.
	Env []string
	// RedirectToFile routes both streams through a temporary file instead of
	// pipes. Browser engines spawn their own subprocesses that hang under
	// direct pipe capture on Windows; the file is read back and deleted.
	RedirectToFile bool
}

// run executes an external engine with a bounded timeout and full stream
// capture. Both streams are captured for diagnostic logging regardless of
// outcome: engines legitimately write informational text to stderr on
// success, so only the exit status determines failure. Returns the combined
// output and a classified error.
func run(ctx context.Context, logger *slog.Logger, timeout time.Duration, m Method, spec runSpec, exe string, args ...string) (string, *Error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, exe, args...)
	cmd.Dir = spec.Dir
	if len(spec.Env) > 0 {
		cmd.Env = append(os.Environ(), spec.Env...)
	}

	logger.Info("running engine", "engine", m, "command", exe, "args", strings.Join(args, " "))

	var output string
	var runErr error

	if spec.RedirectToFile {
		output, runErr = runRedirected(cmd)
	} else {
		var buf bytes.Buffer
		cmd.Stdout = &buf
		cmd.Stderr = &buf
		runErr = cmd.Run()
		output = buf.String()
	}

	if output != "" {
		logger.Info("engine output", "engine", m, "output", output)
	}

	if ctx.Err() == context.DeadlineExceeded {
		logger.Error("engine timed out", "engine", m, "timeout", timeout)
		return output, &Error{
			Method: m,
			Kind:   KindTimeout,
			Detail: fmt.Sprintf("conversion timed out (>%s)", timeout),
		}
	}

	if runErr != nil {
		var exitErr *exec.ExitError
		if errors.As(runErr, &exitErr) {
			logger.Error("engine failed", "engine", m, "exit_code", exitErr.ExitCode())
			detail := strings.TrimSpace(output)
			if detail == "" {
				detail = "unknown error"
			}
			return output, &Error{Method: m, Kind: KindFailure, Detail: detail, Err: runErr}
		}
		logger.Error("engine could not be started", "engine", m, "error", runErr)
		return output, &Error{Method: m, Kind: KindFailure, Err: runErr}
	}

	logger.Info("engine exited cleanly", "engine", m)
	return output, nil
}

// runRedirected runs the command with both streams tied to a scratch file,
// then reads the file back and removes it.
func runRedirected(cmd *exec.Cmd) (string, error) {
	logFile, err := os.CreateTemp("", "epub-to-pdf-engine-*.log")
	if err != nil {
		return "", fmt.Errorf("failed to create engine log file: %w", err)
	}
	logPath := logFile.Name()
	defer os.Remove(logPath)

	cmd.Stdout = logFile
	cmd.Stderr = logFile
	runErr := cmd.Run()
	logFile.Close()

	content, readErr := os.ReadFile(logPath)
	if readErr != nil {
		return "", runErr
	}
	return string(content), runErr
}

// verifyOutput enforces the non-empty-output invariant: an engine that
// reported success but left a missing or zero-byte file has failed.
func verifyOutput(m Method, path string) *Error {
	info, err := os.Stat(path)
	if err != nil {
		return &Error{
			Method: m,
			Kind:   KindEmptyOutput,
			Detail: "engine reported success but produced no output",
		}
	}
	if info.Size() == 0 {
		return &Error{
			Method: m,
			Kind:   KindEmptyOutput,
			Detail: "engine produced an empty output file",
		}
	}
	return nil
}

// removePartial deletes whatever a failing engine left at the destination so
// no partially-written file survives the attempt.
func removePartial(path string) {
	if info, err := os.Stat(path); err == nil && !info.IsDir() {
		os.Remove(path)
	}
}
