// Package progrock provides the Progrock implementation of the telemetry adapter.
package progrock

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/opencontainers/go-digest"
	"github.com/vito/progrock"
	"go.trai.ch/remake/internal/adapters/linear"
	"go.trai.ch/remake/internal/core/domain"
	"go.trai.ch/remake/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.Telemetry = (*Recorder)(nil)

// Recorder implements the ports.Telemetry interface using the vito/progrock library.
// Vertex output is recorded and mirrored to the given writers.
type Recorder struct {
	rec *progrock.Recorder

	stdout io.Writer
	stderr io.Writer
}

// New creates a Recorder that prints a status line per vertex on stderr
// and mirrors vertex output to stdout and stderr.
func New(stdout, stderr io.Writer) *Recorder {
	stderr = orDiscard(stderr)
	return NewRecorder(linear.NewRenderer(stderr), stdout, stderr)
}

// NewFromSettings creates a Recorder like New that also writes every status
// update to settings.ProgressLog as JSON lines, when set.
func NewFromSettings(settings domain.Settings, stdout, stderr io.Writer) (*Recorder, error) {
	stderr = orDiscard(stderr)
	w := progrock.MultiWriter{linear.NewRenderer(stderr)}
	if settings.ProgressLog != "" {
		if err := os.MkdirAll(filepath.Dir(settings.ProgressLog), 0o750); err != nil {
			return nil, zerr.With(zerr.Wrap(err, "failed to create progress log directory"), "path", settings.ProgressLog)
		}
		journal, err := progrock.CreateJournal(settings.ProgressLog)
		if err != nil {
			return nil, zerr.With(zerr.Wrap(err, "failed to create progress log"), "path", settings.ProgressLog)
		}
		w = append(w, journal)
	}
	return NewRecorder(w, stdout, stderr), nil
}

// NewRecorder creates a new Recorder with the given writer.
// Nil mirrors discard.
func NewRecorder(w progrock.Writer, stdout, stderr io.Writer) *Recorder {
	return &Recorder{
		rec:    progrock.NewRecorder(w),
		stdout: orDiscard(stdout),
		stderr: orDiscard(stderr),
	}
}

func orDiscard(w io.Writer) io.Writer {
	if w == nil {
		return io.Discard
	}
	return w
}

// Record starts recording a vertex for the named node.
// The vertex digest is derived from the name, so one node maps to one vertex.
func (r *Recorder) Record(ctx context.Context, name string) (context.Context, ports.Vertex) {
	v := r.rec.Vertex(digest.FromString(name), name)
	vertex := &Vertex{
		rec:    v,
		name:   name,
		stdout: io.MultiWriter(v.Stdout(), r.stdout),
		stderr: io.MultiWriter(v.Stderr(), r.stderr),
	}
	return ports.ContextWithVertex(ctx, vertex), vertex
}

// Close completes the recording session and closes its writer.
func (r *Recorder) Close() error {
	r.rec.Complete()
	return r.rec.Close()
}
