package progrock

import (
	"context"
	"fmt"
	"io"

	"github.com/vito/progrock"
	"go.trai.ch/remake/internal/core/domain"
)

// Vertex is the progrock recording of one planned node.
type Vertex struct {
	rec    *progrock.VertexRecorder
	name   string
	stdout io.Writer
	stderr io.Writer
}

// Stdout returns the writer recipe commands print to.
func (v *Vertex) Stdout() io.Writer { return v.stdout }

// Stderr returns the writer recipe commands report errors to.
func (v *Vertex) Stderr() io.Writer { return v.stderr }

// Log records msg on the vertex. Warnings and errors are also mirrored to stderr.
func (v *Vertex) Log(level domain.LogLevel, msg string) {
	w := v.rec.Stdout()
	if level >= domain.LogLevelWarn {
		w = v.stderr
	}
	_, _ = fmt.Fprintf(w, "%s: [%s] %s\n", v.name, level, msg)
}

// Complete ends the vertex. A nil err records success.
func (v *Vertex) Complete(err error) {
	v.rec.Done(err)
}

// Cached ends the vertex as satisfied without running anything.
func (v *Vertex) Cached() {
	v.rec.Cached()
}

// Skipped ends the vertex as canceled.
func (v *Vertex) Skipped() {
	v.rec.Done(context.Canceled)
}
