package ports

import (
	"context"
	"io"

	"go.trai.ch/remake/internal/core/domain"
)

//go:generate go run go.uber.org/mock/mockgen -source=telemetry.go -destination=mocks/mock_telemetry.go -package=mocks

// Telemetry records the progress of a run as a set of vertices.
type Telemetry interface {
	// Record starts a vertex and returns a context carrying it.
	Record(ctx context.Context, name string) (context.Context, Vertex)
	// Close flushes and closes the recording session.
	Close() error
}

// Vertex is one unit of work, one per planned node.
type Vertex interface {
	// Stdout returns a writer for the standard output of the vertex's commands.
	Stdout() io.Writer
	// Stderr returns a writer for the error output of the vertex's commands.
	Stderr() io.Writer
	// Log records a message associated with this vertex.
	Log(level domain.LogLevel, msg string)
	// Complete marks the vertex finished, successfully when err is nil.
	Complete(err error)
	// Cached marks the vertex as needing no work.
	Cached()
	// Skipped ends the vertex without running it because an earlier node failed.
	Skipped()
}

type vertexKey struct{}

// ContextWithVertex returns a copy of ctx carrying v.
func ContextWithVertex(ctx context.Context, v Vertex) context.Context {
	return context.WithValue(ctx, vertexKey{}, v)
}

// VertexFromContext returns the vertex carried by ctx, if any.
func VertexFromContext(ctx context.Context) (Vertex, bool) {
	v, ok := ctx.Value(vertexKey{}).(Vertex)
	return v, ok
}
