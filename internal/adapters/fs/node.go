package fs

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/remake/internal/core/ports"
)

const (
	// ListerNodeID is the unique identifier for the entry lister Graft node.
	ListerNodeID graft.ID = "adapter.fs.lister"
	// HasherNodeID is the unique identifier for the recipe hasher Graft node.
	HasherNodeID graft.ID = "adapter.fs.hasher"
)

func init() {
	graft.Register(graft.Node[ports.EntryLister]{
		ID:        ListerNodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.EntryLister, error) {
			return NewWalker(), nil
		},
	})

	graft.Register(graft.Node[ports.Hasher]{
		ID:        HasherNodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.Hasher, error) {
			return NewHasher(), nil
		},
	})
}
