package connectivity

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/lantern/internal/adapters/bridge"
	"go.trai.ch/lantern/internal/adapters/config"
	"go.trai.ch/lantern/internal/adapters/logger"
	"go.trai.ch/lantern/internal/core/domain"
	"go.trai.ch/lantern/internal/core/ports"
)

// NodeID is the unique identifier for the connectivity source Graft node.
const NodeID graft.ID = "adapter.connectivity"

func init() {
	graft.Register(graft.Node[ports.ConnectivitySource]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{config.ResolvedNodeID, logger.NodeID, bridge.NodeID},
		Run: func(ctx context.Context) (ports.ConnectivitySource, error) {
			cfg, err := graft.Dep[*domain.Config](ctx)
			if err != nil {
				return nil, err
			}
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			hub, err := graft.Dep[*bridge.Hub](ctx)
			if err != nil {
				return nil, err
			}
			return New(cfg.Connectivity, hub, log)
		},
	})
}

// New builds the source selected by cfg. The bridge source listens for
// CONNECTIVITY messages on hub.
func New(cfg domain.ConnectivityConfig, hub *bridge.Hub, log ports.Logger) (ports.ConnectivitySource, error) {
	if cfg.Source == domain.SourceFile {
		return NewFileSource(cfg.StatusFile, cfg.Initial, log)
	}
	sw := NewSwitch(cfg.Initial)
	hub.Handle(domain.KindConnectivity, sw.HandleMessage)
	return sw, nil
}
