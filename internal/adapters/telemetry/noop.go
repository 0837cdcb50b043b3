// Package telemetry provides telemetry adapters that do not record anything.
package telemetry

import (
	"context"
	"io"

	"go.trai.ch/remake/internal/core/domain"
	"go.trai.ch/remake/internal/core/ports"
)

var _ ports.Telemetry = (*NoOp)(nil)

// NoOp is a ports.Telemetry that discards everything except command output,
// which is forwarded to the configured writers.
type NoOp struct {
	stdout io.Writer
	stderr io.Writer
}

// NewNoOp creates a NoOp forwarding vertex output to stdout and stderr.
// Nil writers discard.
func NewNoOp(stdout, stderr io.Writer) *NoOp {
	if stdout == nil {
		stdout = io.Discard
	}
	if stderr == nil {
		stderr = io.Discard
	}
	return &NoOp{stdout: stdout, stderr: stderr}
}

// Record returns a vertex that forwards output and ignores lifecycle events.
func (t *NoOp) Record(ctx context.Context, _ string) (context.Context, ports.Vertex) {
	v := &noOpVertex{stdout: t.stdout, stderr: t.stderr}
	return ports.ContextWithVertex(ctx, v), v
}

// Close does nothing.
func (t *NoOp) Close() error { return nil }

type noOpVertex struct {
	stdout io.Writer
	stderr io.Writer
}

func (v *noOpVertex) Stdout() io.Writer               { return v.stdout }
func (v *noOpVertex) Stderr() io.Writer               { return v.stderr }
func (v *noOpVertex) Log(_ domain.LogLevel, _ string) {}
func (v *noOpVertex) Complete(_ error)                {}
func (v *noOpVertex) Cached()                         {}
func (v *noOpVertex) Skipped()                        {}
