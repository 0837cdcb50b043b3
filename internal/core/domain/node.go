package domain

import "slices"

// NodeID addresses a node in the graph arena. It stays valid for the lifetime of the graph.
type NodeID int

// NodeKind identifies what a graph node stands for.
type NodeKind int

const (
	// NodeUnknown is a placeholder for a name referenced before it was defined.
	NodeUnknown NodeKind = iota
	// NodeFile is a pre-existing filesystem entry. It is a leaf and running it is a no-op.
	NodeFile
	// NodeTarget is a rule target with a recipe and dependencies.
	NodeTarget
)

// String returns the node kind name.
func (k NodeKind) String() string {
	switch k {
	case NodeUnknown:
		return "unknown"
	case NodeFile:
		return "file"
	case NodeTarget:
		return "target"
	default:
		return "invalid"
	}
}

// Node is a named vertex of the dependency graph.
// Deps reference other nodes by NodeID, never by ownership.
type Node struct {
	Name     InternedString
	Kind     NodeKind
	Path     string
	Commands []Command
	Deps     []NodeID
	// Line is the source line of the defining rule, or zero.
	Line int
}

func (n Node) clone() Node {
	n.Commands = slices.Clone(n.Commands)
	for i := range n.Commands {
		n.Commands[i].Args = slices.Clone(n.Commands[i].Args)
	}
	n.Deps = slices.Clone(n.Deps)
	return n
}

// NewUnknownNode creates a forward-reference placeholder.
func NewUnknownNode(name string) Node {
	return Node{Name: NewInternedString(name), Kind: NodeUnknown}
}

// NewFileNode creates a leaf node for a filesystem entry.
func NewFileNode(name string) Node {
	return Node{Name: NewInternedString(name), Kind: NodeFile, Path: name}
}

// NewTargetNode creates a target node from a rule.
func NewTargetNode(name string, commands []Command, deps []NodeID, line int) Node {
	return Node{
		Name:     NewInternedString(name),
		Kind:     NodeTarget,
		Commands: commands,
		Deps:     deps,
		Line:     line,
	}
}
