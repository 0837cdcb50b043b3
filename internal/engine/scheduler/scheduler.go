// Package scheduler orders the graph for a requested target and runs the recipes.
package scheduler

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.trai.ch/remake/internal/core/domain"
	"go.trai.ch/remake/internal/core/ports"
	"go.trai.ch/zerr"
)

// Scheduler runs the recipes of a planned graph one node at a time.
type Scheduler struct {
	executor  ports.Executor
	telemetry ports.Telemetry
	journal   ports.Journal
	hasher    ports.Hasher
	logger    ports.Logger

	now        func() time.Time
	nodeStatus map[domain.InternedString]domain.VertexStatus
}

// NewScheduler creates a new Scheduler.
func NewScheduler(
	executor ports.Executor,
	telemetry ports.Telemetry,
	journal ports.Journal,
	hasher ports.Hasher,
	logger ports.Logger,
) *Scheduler {
	return &Scheduler{
		executor:   executor,
		telemetry:  telemetry,
		journal:    journal,
		hasher:     hasher,
		logger:     logger,
		now:        time.Now,
		nodeStatus: make(map[domain.InternedString]domain.VertexStatus),
	}
}

// Run plans target and executes the plan in order. An empty target selects
// the graph's default target. The first failing command stops the run;
// nodes that already completed are left as they are.
func (s *Scheduler) Run(ctx context.Context, g *domain.Graph, target string) error {
	target, err := ResolveTarget(g, target)
	if err != nil {
		return err
	}

	order, err := Plan(g, target)
	if err != nil {
		return err
	}
	s.initNodeStatuses(g, order)
	s.logger.Info("plan: " + FormatPlan(g, order))

	for _, id := range order {
		if err := ctx.Err(); err != nil {
			s.skipPending(ctx, g, order)
			return err
		}
		if err := s.runNode(ctx, g.Node(id)); err != nil {
			s.skipPending(ctx, g, order)
			return err
		}
	}
	return nil
}

// ResolveTarget returns target, or the default target when target is empty.
func ResolveTarget(g *domain.Graph, target string) (string, error) {
	if target != "" {
		return target, nil
	}
	def, ok := g.DefaultTarget()
	if !ok {
		return "", domain.ErrNoRules
	}
	return def, nil
}

// FormatPlan renders the plan as "a -> b -> c".
func FormatPlan(g *domain.Graph, order []domain.NodeID) string {
	names := make([]string, 0, len(order))
	for _, id := range order {
		names = append(names, g.Node(id).Name.String())
	}
	return strings.Join(names, " -> ")
}

func (s *Scheduler) initNodeStatuses(g *domain.Graph, order []domain.NodeID) {
	clear(s.nodeStatus)
	for _, id := range order {
		s.nodeStatus[g.Node(id).Name] = domain.VertexStatusPending
	}
}

// skipPending marks every node of order that has not started as skipped,
// recording a vertex for each so the run reports it.
func (s *Scheduler) skipPending(ctx context.Context, g *domain.Graph, order []domain.NodeID) {
	for _, id := range order {
		name := g.Node(id).Name
		if s.nodeStatus[name] != domain.VertexStatusPending {
			continue
		}
		s.nodeStatus[name] = domain.VertexStatusSkipped
		_, vertex := s.telemetry.Record(ctx, name.String())
		vertex.Skipped()
	}
}

func (s *Scheduler) runNode(ctx context.Context, n domain.Node) error {
	ctx, vertex := s.telemetry.Record(ctx, n.Name.String())

	if n.Kind != domain.NodeTarget {
		vertex.Log(domain.LogLevelDebug, "existing file, nothing to do")
		vertex.Cached()
		s.nodeStatus[n.Name] = domain.VertexStatusCached
		return nil
	}

	s.nodeStatus[n.Name] = domain.VertexStatusRunning
	record := domain.RunRecord{
		Target:       n.Name.String(),
		RecipeDigest: s.hasher.HashRecipe(n.Name.String(), n.Commands),
		StartedAt:    s.now(),
	}

	ran, err := s.runCommands(ctx, n, vertex)
	if remaining := len(n.Commands) - ran; err != nil && remaining > 0 {
		vertex.Log(domain.LogLevelWarn, fmt.Sprintf("%d remaining command(s) not run", remaining))
	}
	vertex.Complete(err)

	record.FinishedAt = s.now()
	record.Commands = ran
	record.Status = domain.VertexStatusCompleted
	if err != nil {
		record.Status = domain.VertexStatusFailed
		record.Error = err.Error()
	}
	s.nodeStatus[n.Name] = record.Status

	if jerr := s.journal.Put(record); jerr != nil {
		s.logger.Error(zerr.With(zerr.Wrap(jerr, "failed to record run"), "target", record.Target))
	}
	return err
}

// runCommands runs the recipe in order and returns how many commands were started.
func (s *Scheduler) runCommands(ctx context.Context, n domain.Node, vertex ports.Vertex) (int, error) {
	for i, cmd := range n.Commands {
		if err := ctx.Err(); err != nil {
			return i, err
		}
		if !cmd.Silent {
			_, _ = fmt.Fprintln(vertex.Stdout(), cmd.String())
		}
		if err := s.executor.Execute(ctx, cmd); err != nil {
			wrapped := zerr.With(fmt.Errorf("%w: %w", domain.ErrCommandFailed, err), "target", n.Name.String())
			wrapped = zerr.With(wrapped, "program", cmd.Program)
			return i + 1, zerr.With(wrapped, "line", cmd.Line)
		}
	}
	return len(n.Commands), nil
}
