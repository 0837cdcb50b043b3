// Package builder folds parsed statements into a dependency graph.
package builder

import (
	"fmt"
	"slices"
	"strings"

	"go.trai.ch/remake/internal/core/domain"
	"go.trai.ch/remake/internal/core/ports"
	"go.trai.ch/zerr"
)

// Builder accumulates nodes while statements are folded in program order.
// Nodes live in an arena and refer to each other by NodeID, so upgrading a
// node in place is visible to every dependent that already links to it.
type Builder struct {
	nodes         []domain.Node
	index         map[string]domain.NodeID
	defaultTarget string

	policy domain.ConflictPolicy
	logger ports.Logger
}

// Option configures a Builder.
type Option func(*Builder)

// WithConflictPolicy sets how a rule naming an existing filesystem entry is resolved.
func WithConflictPolicy(policy domain.ConflictPolicy) Option {
	return func(b *Builder) {
		if policy != "" {
			b.policy = policy
		}
	}
}

// WithLogger sets the logger used for warnings raised while folding.
func WithLogger(logger ports.Logger) Option {
	return func(b *Builder) {
		b.logger = logger
	}
}

// New creates a Builder seeded with one File node per filesystem entry.
func New(entries []string, opts ...Option) *Builder {
	b := &Builder{
		nodes:  make([]domain.Node, 0, len(entries)),
		index:  make(map[string]domain.NodeID, len(entries)),
		policy: domain.ConflictRuleWins,
	}
	for _, opt := range opts {
		opt(b)
	}
	for _, entry := range entries {
		if _, exists := b.index[entry]; exists {
			continue
		}
		b.insert(domain.NewFileNode(entry))
	}
	return b
}

// Build folds every statement of prog into a graph seeded with entries.
func Build(prog *domain.Program, entries []string, opts ...Option) (*domain.Graph, error) {
	b := New(entries, opts...)
	for _, stmt := range prog.Statements {
		if err := b.Fold(stmt); err != nil {
			return nil, err
		}
	}
	return b.Graph()
}

// Fold applies one statement to the graph under construction.
func (b *Builder) Fold(stmt domain.Statement) error {
	switch stmt.Kind {
	case domain.StmtRule:
		return b.foldRule(stmt.Rule)
	case domain.StmtAssign:
		return zerr.With(zerr.With(zerr.Wrap(domain.ErrUnsupportedStatement, "variable assignment"),
			"name", stmt.Assign.Name), "line", stmt.Line())
	case domain.StmtDirective:
		return b.foldDirective(stmt.Directive)
	default:
		return zerr.With(zerr.Wrap(domain.ErrUnsupportedStatement, "unknown statement kind"), "kind", stmt.Kind.String())
	}
}

// Graph freezes a snapshot of the folded nodes into a read-only graph.
// Folding further statements does not affect graphs already returned.
func (b *Builder) Graph() (*domain.Graph, error) {
	return domain.NewGraph(slices.Clone(b.nodes), b.defaultTarget)
}

func (b *Builder) foldRule(rule *domain.RuleStmt) error {
	deps := make([]domain.NodeID, 0, len(rule.Prerequisites))
	for _, name := range rule.Prerequisites {
		id, ok := b.index[name]
		if !ok {
			id = b.insert(domain.NewUnknownNode(name))
		}
		deps = append(deps, id)
	}

	target := domain.NewTargetNode(rule.Target, rule.Commands, deps, rule.Line)

	id, exists := b.index[rule.Target]
	switch {
	case !exists:
		b.insert(target)
	case b.nodes[id].Kind == domain.NodeUnknown:
		b.nodes[id] = target
	case b.nodes[id].Kind == domain.NodeTarget:
		err := zerr.With(zerr.Wrap(domain.ErrDuplicateTarget, ""), "target", rule.Target)
		err = zerr.With(err, "first_line", b.nodes[id].Line)
		return zerr.With(err, "line", rule.Line)
	case b.nodes[id].Kind == domain.NodeFile:
		if b.policy == domain.ConflictError {
			err := zerr.With(zerr.Wrap(domain.ErrFileTargetConflict, ""), "target", rule.Target)
			return zerr.With(err, "line", rule.Line)
		}
		b.warn(fmt.Sprintf("rule for %q overrides the existing file of the same name (line %d)", rule.Target, rule.Line))
		target.Path = b.nodes[id].Path
		b.nodes[id] = target
	}

	if b.defaultTarget == "" && canBeDefault(rule.Target) {
		b.defaultTarget = rule.Target
	}
	return nil
}

// canBeDefault reports whether target may become the default target.
// Names starting with '.' are skipped unless they contain a '/'.
func canBeDefault(target string) bool {
	return !strings.HasPrefix(target, ".") || strings.ContainsRune(target, '/')
}

func (b *Builder) foldDirective(dir *domain.DirectiveStmt) error {
	if dir.Name == "PHONY" {
		if b.logger != nil {
			b.logger.Info(fmt.Sprintf("phony targets declared: %v", dir.Args))
		}
		return nil
	}
	return zerr.With(zerr.With(zerr.Wrap(domain.ErrUnsupportedStatement, "directive"),
		"name", "."+dir.Name), "line", dir.Line)
}

func (b *Builder) insert(n domain.Node) domain.NodeID {
	id := domain.NodeID(len(b.nodes))
	b.nodes = append(b.nodes, n)
	b.index[n.Name.String()] = id
	return id
}

func (b *Builder) warn(msg string) {
	if b.logger != nil {
		b.logger.Warn(msg)
	}
}
