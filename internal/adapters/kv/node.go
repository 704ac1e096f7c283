package kv

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/lantern/internal/adapters/config"
	"go.trai.ch/lantern/internal/core/domain"
	"go.trai.ch/lantern/internal/core/ports"
)

// NodeID is the unique identifier for the persistent key-value store Graft node.
const NodeID graft.ID = "adapter.kv_store"

func init() {
	graft.Register(graft.Node[ports.KVStore]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{config.ResolvedNodeID},
		Run: func(ctx context.Context) (ports.KVStore, error) {
			cfg, err := graft.Dep[*domain.Config](ctx)
			if err != nil {
				return nil, err
			}
			return OpenSQLite(domain.StorePath(cfg.DataDir))
		},
	})
}
