// Package linear renders a recorded run as one status line per node, for terminals and CI logs alike.
package linear

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/muesli/termenv"
	"github.com/vito/progrock"
	"go.trai.ch/remake/internal/ui/output"
	"go.trai.ch/remake/internal/ui/style"
)

var _ progrock.Writer = (*Renderer)(nil)

// Outcome is how a node's vertex ended.
type Outcome string

const (
	// OutcomeDone means every command of the recipe succeeded.
	OutcomeDone Outcome = "done"
	// OutcomeCached means the node is an existing file and nothing ran.
	OutcomeCached Outcome = "cached"
	// OutcomeFailed means a command of the recipe failed.
	OutcomeFailed Outcome = "failed"
	// OutcomeSkipped means the node never ran because the run stopped first.
	OutcomeSkipped Outcome = "skipped"
)

// Renderer is a progrock.Writer printing a status line on stderr each time a vertex ends.
type Renderer struct {
	stderr io.Writer
	output *termenv.Output

	mu       sync.Mutex
	reported map[string]struct{} // vertex id
	counts   map[Outcome]int
}

// NewRenderer creates a Renderer writing to stderr. Colors follow NO_COLOR.
func NewRenderer(stderr io.Writer) *Renderer {
	if stderr == nil {
		stderr = os.Stderr
	}
	return &Renderer{
		stderr:   stderr,
		output:   output.NewWithProfile(stderr, output.ColorProfileANSI),
		reported: make(map[string]struct{}),
		counts:   make(map[Outcome]int),
	}
}

// WriteStatus prints the vertices of update that ended and were not reported yet.
func (r *Renderer) WriteStatus(update *progrock.StatusUpdate) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, v := range update.GetVertexes() {
		if _, ok := r.reported[v.GetId()]; ok {
			continue
		}
		outcome, ok := vertexOutcome(v)
		if !ok {
			continue
		}
		r.reported[v.GetId()] = struct{}{}
		r.counts[outcome]++
		r.printLocked(v, outcome)
	}
	return nil
}

// Close prints a one-line summary of the run, if anything was reported.
func (r *Renderer) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(r.reported) == 0 {
		return nil
	}
	_, err := fmt.Fprintf(r.stderr, "%d node(s): %d done, %d cached, %d failed, %d skipped\n",
		len(r.reported), r.counts[OutcomeDone], r.counts[OutcomeCached],
		r.counts[OutcomeFailed], r.counts[OutcomeSkipped])
	return err
}

// vertexOutcome reports how v ended. Vertices still running report false.
func vertexOutcome(v *progrock.Vertex) (Outcome, bool) {
	switch {
	case v.GetCached():
		return OutcomeCached, true
	case v.GetCompleted() == nil:
		return "", false
	case v.Error != nil:
		return OutcomeFailed, true
	case v.GetCanceled():
		return OutcomeSkipped, true
	default:
		return OutcomeDone, true
	}
}

// printLocked must be called with r.mu held.
func (r *Renderer) printLocked(v *progrock.Vertex, outcome Outcome) {
	prefix := r.output.String(fmt.Sprintf("[%s]", v.GetName())).Faint().String()

	switch outcome {
	case OutcomeDone:
		symbol := r.output.String(style.Check).Foreground(termenv.ANSIGreen).String()
		_, _ = fmt.Fprintf(r.stderr, "%s %s done in %v\n", prefix, symbol, duration(v))
	case OutcomeCached:
		symbol := r.output.String(style.Tilde).Foreground(termenv.ANSIBlue).String()
		_, _ = fmt.Fprintf(r.stderr, "%s %s cached\n", prefix, symbol)
	case OutcomeFailed:
		symbol := r.output.String(style.Cross).Foreground(termenv.ANSIRed).String()
		_, _ = fmt.Fprintf(r.stderr, "%s %s failed after %v: %s\n", prefix, symbol, duration(v), v.GetError())
	case OutcomeSkipped:
		symbol := r.output.String(style.Circle).Foreground(termenv.ANSIYellow).String()
		_, _ = fmt.Fprintf(r.stderr, "%s %s skipped\n", prefix, symbol)
	}
}

func duration(v *progrock.Vertex) time.Duration {
	if v.GetStarted() == nil || v.GetCompleted() == nil {
		return 0
	}
	return v.GetCompleted().AsTime().Sub(v.GetStarted().AsTime()).Round(time.Millisecond)
}
