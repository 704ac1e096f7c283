package telemetry

import (
	"context"
	"time"

	"github.com/grindlemire/graft"
	"go.trai.ch/lantern/internal/adapters/config"
	"go.trai.ch/lantern/internal/adapters/logger"
	"go.trai.ch/lantern/internal/build"
	"go.trai.ch/lantern/internal/core/domain"
	"go.trai.ch/lantern/internal/core/ports"
)

// TracerNodeID is the unique identifier for the Telemetry adapter Graft node.
const TracerNodeID graft.ID = "adapter.telemetry"

// slowSpan is the duration above which finished spans are reported in the log.
const slowSpan = 5 * time.Second

func init() {
	graft.Register(graft.Node[ports.Tracer]{
		ID:        TracerNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{config.ResolvedNodeID, logger.NodeID},
		Run: func(ctx context.Context) (ports.Tracer, error) {
			cfg, err := graft.Dep[*domain.Config](ctx)
			if err != nil {
				return nil, err
			}
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			return NewProvider(ctx, cfg.Telemetry, build.Version, NewLogBridge(log, slowSpan))
		},
	})
}
