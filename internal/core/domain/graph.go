// Package domain contains the core domain models for makefile programs and their dependency graph.
package domain

import (
	"iter"

	"go.trai.ch/zerr"
)

// Graph is the folded dependency graph. It is read-only once constructed.
type Graph struct {
	nodes         []Node
	index         map[InternedString]NodeID
	defaultTarget string
}

// NewGraph creates a Graph over the given node arena.
// The NodeID of each node is its position in nodes.
// It returns an error if two nodes share a name or a dependency points outside the arena.
func NewGraph(nodes []Node, defaultTarget string) (*Graph, error) {
	g := &Graph{
		nodes:         nodes,
		index:         make(map[InternedString]NodeID, len(nodes)),
		defaultTarget: defaultTarget,
	}
	for i := range nodes {
		name := nodes[i].Name
		if _, exists := g.index[name]; exists {
			return nil, zerr.With(zerr.Wrap(ErrDuplicateTarget, "node already exists"), "name", name.String())
		}
		g.index[name] = NodeID(i)
	}
	for i := range nodes {
		for _, dep := range nodes[i].Deps {
			if dep < 0 || int(dep) >= len(nodes) {
				return nil, zerr.With(zerr.New("dependency out of range"), "node", nodes[i].Name.String())
			}
		}
	}
	return g, nil
}

// Lookup returns the id of the node with the given name.
func (g *Graph) Lookup(name string) (NodeID, bool) {
	id, ok := g.index[NewInternedString(name)]
	return id, ok
}

// Node returns a copy of the node with the given id.
// Its Commands and Deps do not alias the graph.
func (g *Graph) Node(id NodeID) Node {
	return g.nodes[id].clone()
}

// Len returns the number of nodes in the graph.
func (g *Graph) Len() int {
	return len(g.nodes)
}

// Nodes yields every node with its id, in arena order.
func (g *Graph) Nodes() iter.Seq2[NodeID, Node] {
	return func(yield func(NodeID, Node) bool) {
		for i, n := range g.nodes {
			if !yield(NodeID(i), n.clone()) {
				return
			}
		}
	}
}

// DefaultTarget returns the target of the first rule, if any rule was folded.
func (g *Graph) DefaultTarget() (string, bool) {
	return g.defaultTarget, g.defaultTarget != ""
}
