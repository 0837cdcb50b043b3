package progrock

import (
	"context"
	"os"

	"github.com/grindlemire/graft"
	"go.trai.ch/remake/internal/adapters/config"
	"go.trai.ch/remake/internal/adapters/telemetry"
	"go.trai.ch/remake/internal/core/domain"
	"go.trai.ch/remake/internal/core/ports"
)

// NodeID is the unique identifier for the telemetry adapter node.
const NodeID graft.ID = "adapter.telemetry"

func init() {
	graft.Register(graft.Node[ports.Telemetry]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{config.SettingsNodeID},
		Run: func(ctx context.Context) (ports.Telemetry, error) {
			settings, err := graft.Dep[domain.Settings](ctx)
			if err != nil {
				return nil, err
			}
			if !settings.Progress {
				return telemetry.NewNoOp(os.Stdout, os.Stderr), nil
			}
			rec, err := NewFromSettings(settings, os.Stdout, os.Stderr)
			if err != nil {
				return nil, err
			}
			return rec, nil
		},
	})
}
