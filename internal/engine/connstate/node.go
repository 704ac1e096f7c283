package connstate

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/lantern/internal/adapters/connectivity"
	"go.trai.ch/lantern/internal/core/ports"
)

// NodeID is the unique identifier for the connectivity state Graft node.
const NodeID graft.ID = "engine.connstate"

func init() {
	graft.Register(graft.Node[*State]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{connectivity.NodeID},
		Run: func(ctx context.Context) (*State, error) {
			src, err := graft.Dep[ports.ConnectivitySource](ctx)
			if err != nil {
				return nil, err
			}
			return New(src.Current()), nil
		},
	})
}
