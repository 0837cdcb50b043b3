package config

import (
	"context"
	"os"

	"github.com/grindlemire/graft"
	"go.trai.ch/remake/internal/adapters/logger"
	"go.trai.ch/remake/internal/core/domain"
	"go.trai.ch/remake/internal/core/ports"
	"go.trai.ch/zerr"
)

const (
	// MakefileNodeID is the unique identifier for the makefile loader Graft node.
	MakefileNodeID graft.ID = "adapter.config.makefile"
	// SettingsLoaderNodeID is the unique identifier for the settings loader Graft node.
	SettingsLoaderNodeID graft.ID = "adapter.config.settings_loader"
	// SettingsNodeID is the unique identifier for the settings of the working directory.
	SettingsNodeID graft.ID = "adapter.config.settings"
)

func init() {
	graft.Register(graft.Node[ports.MakefileLoader]{
		ID:        MakefileNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{logger.NodeID},
		Run: func(ctx context.Context) (ports.MakefileLoader, error) {
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			return NewMakefileLoader(log), nil
		},
	})

	graft.Register(graft.Node[ports.SettingsLoader]{
		ID:        SettingsLoaderNodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.SettingsLoader, error) {
			return NewSettingsLoader(), nil
		},
	})

	graft.Register(graft.Node[domain.Settings]{
		ID:        SettingsNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{SettingsLoaderNodeID},
		Run: func(ctx context.Context) (domain.Settings, error) {
			loader, err := graft.Dep[ports.SettingsLoader](ctx)
			if err != nil {
				return domain.Settings{}, err
			}
			cwd, err := os.Getwd()
			if err != nil {
				return domain.Settings{}, zerr.Wrap(err, "failed to get current working directory")
			}
			return loader.Load(cwd)
		},
	})
}
