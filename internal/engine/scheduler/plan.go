package scheduler

import (
	"strings"

	"go.trai.ch/remake/internal/core/domain"
	"go.trai.ch/zerr"
)

type mark int

const (
	unvisited mark = iota
	visiting
	visited
)

// Plan computes the execution order for target: every node appears after all
// of its dependencies. It fails on a cycle or on an unresolved prerequisite
// before anything runs.
func Plan(g *domain.Graph, target string) ([]domain.NodeID, error) {
	root, ok := g.Lookup(target)
	if !ok || g.Node(root).Kind == domain.NodeUnknown {
		return nil, zerr.With(zerr.Wrap(domain.ErrTargetNotFound, ""), "target", target)
	}

	marks := make([]mark, g.Len())
	order := make([]domain.NodeID, 0, g.Len())
	var path []domain.NodeID

	var visit func(id domain.NodeID) error
	visit = func(id domain.NodeID) error {
		marks[id] = visiting
		path = append(path, id)

		n := g.Node(id)
		for _, dep := range n.Deps {
			switch marks[dep] {
			case visiting:
				return buildCycleError(g, path, dep)
			case visited:
				continue
			}
			if g.Node(dep).Kind == domain.NodeUnknown {
				err := zerr.With(zerr.Wrap(domain.ErrUnresolvedPrerequisite, ""), "prerequisite", g.Node(dep).Name.String())
				return zerr.With(err, "target", n.Name.String())
			}
			if err := visit(dep); err != nil {
				return err
			}
		}

		marks[id] = visited
		path = path[:len(path)-1]
		order = append(order, id)
		return nil
	}

	if err := visit(root); err != nil {
		return nil, err
	}
	return order, nil
}

// buildCycleError reports the back edge from the top of path to dep along
// with the full loop, e.g. "a -> b -> a".
func buildCycleError(g *domain.Graph, path []domain.NodeID, dep domain.NodeID) error {
	start := 0
	for i, id := range path {
		if id == dep {
			start = i
			break
		}
	}

	names := make([]string, 0, len(path)-start+1)
	for _, id := range path[start:] {
		names = append(names, g.Node(id).Name.String())
	}
	names = append(names, g.Node(dep).Name.String())

	err := zerr.With(zerr.Wrap(domain.ErrCycleDetected, ""), "from", g.Node(path[len(path)-1]).Name.String())
	err = zerr.With(err, "to", g.Node(dep).Name.String())
	return zerr.With(err, "cycle", strings.Join(names, " -> "))
}
