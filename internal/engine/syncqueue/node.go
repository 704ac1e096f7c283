package syncqueue

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/lantern/internal/adapters/bridge"
	"go.trai.ch/lantern/internal/adapters/kv"
	"go.trai.ch/lantern/internal/adapters/logger"
	"go.trai.ch/lantern/internal/adapters/remote"
	"go.trai.ch/lantern/internal/adapters/telemetry"
	"go.trai.ch/lantern/internal/core/domain"
	"go.trai.ch/lantern/internal/core/ports"
	"go.trai.ch/lantern/internal/engine/connstate"
)

// NodeID is the unique identifier for the sync queue Graft node.
const NodeID graft.ID = "engine.syncqueue"

func init() {
	graft.Register(graft.Node[*Queue]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			kv.NodeID,
			remote.NodeID,
			connstate.NodeID,
			bridge.NodeID,
			logger.NodeID,
			telemetry.TracerNodeID,
		},
		Run: func(ctx context.Context) (*Queue, error) {
			store, err := graft.Dep[ports.KVStore](ctx)
			if err != nil {
				return nil, err
			}
			deliverer, err := graft.Dep[ports.Deliverer](ctx)
			if err != nil {
				return nil, err
			}
			state, err := graft.Dep[*connstate.State](ctx)
			if err != nil {
				return nil, err
			}
			hub, err := graft.Dep[*bridge.Hub](ctx)
			if err != nil {
				return nil, err
			}
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			tracer, err := graft.Dep[ports.Tracer](ctx)
			if err != nil {
				return nil, err
			}

			q := New(store, deliverer, state, hub, log, tracer)
			if err := q.Load(ctx); err != nil {
				return nil, err
			}
			hub.Handle(domain.KindSyncContent, q.HandleSyncContent)
			return q, nil
		},
	})
}
