package cachestore

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/lantern/internal/adapters/config"
	"go.trai.ch/lantern/internal/core/domain"
	"go.trai.ch/lantern/internal/core/ports"
)

// NodeID is the unique identifier for the tier cache storage Graft node.
const NodeID graft.ID = "adapter.cache_storage"

func init() {
	graft.Register(graft.Node[ports.CacheStorage]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{config.ResolvedNodeID},
		Run: func(ctx context.Context) (ports.CacheStorage, error) {
			cfg, err := graft.Dep[*domain.Config](ctx)
			if err != nil {
				return nil, err
			}
			return NewStore(domain.CachePath(cfg.DataDir)), nil
		},
	})
}
