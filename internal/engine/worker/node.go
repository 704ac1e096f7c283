package worker

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/lantern/internal/adapters/bridge"
	"go.trai.ch/lantern/internal/adapters/cachestore"
	"go.trai.ch/lantern/internal/adapters/config"
	"go.trai.ch/lantern/internal/adapters/device"
	"go.trai.ch/lantern/internal/adapters/logger"
	"go.trai.ch/lantern/internal/adapters/network"
	"go.trai.ch/lantern/internal/adapters/settings"
	"go.trai.ch/lantern/internal/adapters/telemetry"
	"go.trai.ch/lantern/internal/core/domain"
	"go.trai.ch/lantern/internal/core/ports"
	"go.trai.ch/lantern/internal/engine/connstate"
)

// NodeID is the unique identifier for the worker Graft node.
const NodeID graft.ID = "engine.worker"

func init() {
	graft.Register(graft.Node[*Worker]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			config.ResolvedNodeID,
			cachestore.NodeID,
			network.NodeID,
			connstate.NodeID,
			bridge.NodeID,
			logger.NodeID,
			telemetry.TracerNodeID,
			settings.NodeID,
			device.NodeID,
		},
		Run: runNode,
	})
}

func runNode(ctx context.Context) (*Worker, error) {
	cfg, err := graft.Dep[*domain.Config](ctx)
	if err != nil {
		return nil, err
	}
	cache, err := graft.Dep[ports.CacheStorage](ctx)
	if err != nil {
		return nil, err
	}
	fetcher, err := graft.Dep[ports.Fetcher](ctx)
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
	store, err := graft.Dep[*settings.Store](ctx)
	if err != nil {
		return nil, err
	}
	profiles, err := graft.Dep[*device.Service](ctx)
	if err != nil {
		return nil, err
	}

	w := New(cfg, cache, fetcher, state, hub, log, tracer,
		WithModelBudget(ModelBudget(store, profiles)))
	hub.Handle(domain.KindSkipWaiting, w.HandleSkipWaiting)
	hub.Handle(domain.KindDownloadContent, w.HandleDownloadContent)
	return w, nil
}

// SettingsLoader reads the current settings.
type SettingsLoader interface {
	Load(ctx context.Context) (domain.Settings, error)
}

// ProfileSource returns the device profile.
type ProfileSource interface {
	Profile(ctx context.Context) (domain.DeviceProfile, error)
}

// ModelBudget derives the model tier budget in bytes from the maxStorageMb
// setting and the device's free storage, whichever is smaller.
func ModelBudget(settings SettingsLoader, profiles ProfileSource) func(context.Context) int64 {
	return func(ctx context.Context) int64 {
		var limitMb int
		if s, err := settings.Load(ctx); err == nil && s.MaxStorageMb > 0 {
			limitMb = s.MaxStorageMb
		}
		if p, err := profiles.Profile(ctx); err == nil && p.StorageMb > 0 {
			if limitMb == 0 || p.StorageMb < limitMb {
				limitMb = p.StorageMb
			}
		}
		return int64(limitMb) << 20
	}
}
