package scheduler

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/remake/internal/adapters/fs"                 //nolint:depguard // Wired in engine wiring
	"go.trai.ch/remake/internal/adapters/journal"            //nolint:depguard // Wired in engine wiring
	"go.trai.ch/remake/internal/adapters/logger"             //nolint:depguard // Wired in engine wiring
	"go.trai.ch/remake/internal/adapters/shell"              //nolint:depguard // Wired in engine wiring
	"go.trai.ch/remake/internal/adapters/telemetry/progrock" //nolint:depguard // Wired in engine wiring
	"go.trai.ch/remake/internal/core/ports"
)

// NodeID is the unique identifier for the scheduler Graft node.
const NodeID graft.ID = "engine.scheduler"

func init() {
	graft.Register(graft.Node[*Scheduler]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			shell.NodeID,
			progrock.NodeID,
			journal.NodeID,
			fs.HasherNodeID,
			logger.NodeID,
		},
		Run: func(ctx context.Context) (*Scheduler, error) {
			executor, err := graft.Dep[ports.Executor](ctx)
			if err != nil {
				return nil, err
			}

			telemetry, err := graft.Dep[ports.Telemetry](ctx)
			if err != nil {
				return nil, err
			}

			journal, err := graft.Dep[ports.Journal](ctx)
			if err != nil {
				return nil, err
			}

			hasher, err := graft.Dep[ports.Hasher](ctx)
			if err != nil {
				return nil, err
			}

			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}

			return NewScheduler(executor, telemetry, journal, hasher, log), nil
		},
	})
}
