package remote

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/lantern/internal/adapters/config"
	"go.trai.ch/lantern/internal/core/domain"
	"go.trai.ch/lantern/internal/core/ports"
)

// NodeID is the unique identifier for the deliverer Graft node.
const NodeID graft.ID = "adapter.deliverer"

func init() {
	graft.Register(graft.Node[ports.Deliverer]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{config.ResolvedNodeID},
		Run: func(ctx context.Context) (ports.Deliverer, error) {
			cfg, err := graft.Dep[*domain.Config](ctx)
			if err != nil {
				return nil, err
			}
			return NewHTTPDeliverer(cfg.Sync, nil), nil
		},
	})
}
