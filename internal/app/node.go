package app

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/remake/internal/adapters/config"             //nolint:depguard // Wired in app layer
	"go.trai.ch/remake/internal/adapters/fs"                 //nolint:depguard // Wired in app layer
	"go.trai.ch/remake/internal/adapters/journal"            //nolint:depguard // Wired in app layer
	"go.trai.ch/remake/internal/adapters/logger"             //nolint:depguard // Wired in app layer
	"go.trai.ch/remake/internal/adapters/telemetry/progrock" //nolint:depguard // Wired in app layer
	"go.trai.ch/remake/internal/core/ports"
	"go.trai.ch/remake/internal/engine/scheduler"
)

const (
	// AppNodeID is the unique identifier for the main App Graft node.
	AppNodeID graft.ID = "app.main"
	// ComponentsNodeID is the unique identifier for the App components Graft node.
	ComponentsNodeID graft.ID = "app.components"
)

func init() {
	graft.Register(graft.Node[*App]{
		ID:        AppNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			config.SettingsLoaderNodeID,
			config.MakefileNodeID,
			fs.ListerNodeID,
			journal.NodeID,
			progrock.NodeID,
			logger.NodeID,
			scheduler.NodeID,
		},
		Run: runAppNode,
	})

	graft.Register(graft.Node[*Components]{
		ID:        ComponentsNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			AppNodeID,
			logger.NodeID,
		},
		Run: func(ctx context.Context) (*Components, error) {
			a, err := graft.Dep[*App](ctx)
			if err != nil {
				return nil, err
			}
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			return NewComponents(a, log), nil
		},
	})
}

func runAppNode(ctx context.Context) (*App, error) {
	settingsLoader, err := graft.Dep[ports.SettingsLoader](ctx)
	if err != nil {
		return nil, err
	}
	makefileLoader, err := graft.Dep[ports.MakefileLoader](ctx)
	if err != nil {
		return nil, err
	}
	lister, err := graft.Dep[ports.EntryLister](ctx)
	if err != nil {
		return nil, err
	}
	store, err := graft.Dep[ports.Journal](ctx)
	if err != nil {
		return nil, err
	}
	telemetry, err := graft.Dep[ports.Telemetry](ctx)
	if err != nil {
		return nil, err
	}
	log, err := graft.Dep[ports.Logger](ctx)
	if err != nil {
		return nil, err
	}
	sched, err := graft.Dep[*scheduler.Scheduler](ctx)
	if err != nil {
		return nil, err
	}

	return New(settingsLoader, makefileLoader, lister, store, telemetry, log, sched), nil
}
