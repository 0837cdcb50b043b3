// Package shell provides the process executor adapter for recipe commands.
package shell

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"

	"go.trai.ch/remake/internal/core/domain"
	"go.trai.ch/remake/internal/core/ports"
	"go.trai.ch/zerr"
)

// Executor implements ports.Executor using os/exec. Commands are spawned
// directly without a shell, so redirections and pipes are passed through as
// plain arguments.
type Executor struct {
	logger ports.Logger
}

// NewExecutor creates a new Executor.
func NewExecutor(logger ports.Logger) *Executor {
	return &Executor{
		logger: logger,
	}
}

// Execute spawns cmd.Program with cmd.Args and waits for it to exit.
// It runs in the working directory carried by ctx, or the process directory.
// Output goes to the vertex carried by ctx, or line by line to the logger.
func (e *Executor) Execute(ctx context.Context, cmd domain.Command) error {
	if cmd.IsEmpty() {
		return nil
	}

	executable := cmd.Program
	if !filepath.IsAbs(executable) && !strings.ContainsRune(executable, filepath.Separator) {
		if lp, err := lookPath(executable, os.Environ()); err == nil {
			executable = lp
		}
	}

	proc := exec.CommandContext(ctx, executable, cmd.Args...) //nolint:gosec // recipe commands are user provided
	if len(proc.Args) > 0 {
		proc.Args[0] = cmd.Program
	}
	if dir, ok := ports.WorkDirFromContext(ctx); ok {
		proc.Dir = dir
	}

	var stdout, stderr io.Writer
	if v, ok := ports.VertexFromContext(ctx); ok {
		stdout, stderr = v.Stdout(), v.Stderr()
	} else {
		out := &logWriter{logger: e.logger, level: domain.LogLevelInfo}
		errOut := &logWriter{logger: e.logger, level: domain.LogLevelError}
		defer out.Flush()
		defer errOut.Flush()
		stdout, stderr = out, errOut
	}
	proc.Stdout = stdout
	proc.Stderr = stderr

	if err := proc.Run(); err != nil {
		exitCode := -1
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			exitCode = exitErr.ExitCode()
		}
		return zerr.With(zerr.Wrap(err, "command failed"), "exit_code", exitCode)
	}

	return nil
}

// logWriter forwards complete lines to the logger and buffers partial ones.
type logWriter struct {
	logger ports.Logger
	level  domain.LogLevel

	mu  sync.Mutex
	buf bytes.Buffer
}

func (w *logWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.buf.Write(p)
	for {
		line, err := w.buf.ReadString('\n')
		if err != nil {
			// Keep the partial line for the next write.
			w.buf.Reset()
			w.buf.WriteString(line)
			break
		}
		w.emit(strings.TrimSuffix(line, "\n"))
	}
	return len(p), nil
}

// Flush emits any buffered partial line.
func (w *logWriter) Flush() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.buf.Len() > 0 {
		w.emit(w.buf.String())
		w.buf.Reset()
	}
}

func (w *logWriter) emit(line string) {
	if w.level >= domain.LogLevelError {
		w.logger.Error(zerr.New(line))
		return
	}
	w.logger.Info(line)
}

// lookPath searches for an executable in the directories named by the PATH environment variable.
func lookPath(file string, env []string) (string, error) {
	var path string
	for _, e := range env {
		if strings.HasPrefix(e, "PATH=") {
			path = strings.TrimPrefix(e, "PATH=")
			break
		}
	}

	if path == "" {
		return "", exec.ErrNotFound
	}

	for _, dir := range filepath.SplitList(path) {
		if dir == "" {
			// Unix shell semantics: path element "" means "."
			dir = "."
		}
		path := filepath.Join(dir, file)
		if err := findExecutable(path); err == nil {
			return path, nil
		}
	}
	return "", exec.ErrNotFound
}

func findExecutable(file string) error {
	d, err := os.Stat(file)
	if err != nil {
		return err
	}
	if m := d.Mode(); !m.IsDir() && m&0o111 != 0 {
		return nil
	}
	return os.ErrPermission
}
