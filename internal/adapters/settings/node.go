package settings

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/lantern/internal/adapters/kv"
	"go.trai.ch/lantern/internal/adapters/logger"
	"go.trai.ch/lantern/internal/core/ports"
)

// NodeID is the unique identifier for the settings store Graft node.
const NodeID graft.ID = "adapter.settings"

func init() {
	graft.Register(graft.Node[*Store]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{kv.NodeID, logger.NodeID},
		Run: func(ctx context.Context) (*Store, error) {
			store, err := graft.Dep[ports.KVStore](ctx)
			if err != nil {
				return nil, err
			}
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			return NewStore(store, log), nil
		},
	})
}
