package app

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/lantern/internal/adapters/bridge"       //nolint:depguard // Wired in app layer
	"go.trai.ch/lantern/internal/adapters/cachestore"   //nolint:depguard // Wired in app layer
	"go.trai.ch/lantern/internal/adapters/config"       //nolint:depguard // Wired in app layer
	"go.trai.ch/lantern/internal/adapters/connectivity" //nolint:depguard // Wired in app layer
	"go.trai.ch/lantern/internal/adapters/device"       //nolint:depguard // Wired in app layer
	"go.trai.ch/lantern/internal/adapters/kv"           //nolint:depguard // Wired in app layer
	"go.trai.ch/lantern/internal/adapters/logger"       //nolint:depguard // Wired in app layer
	"go.trai.ch/lantern/internal/adapters/settings"     //nolint:depguard // Wired in app layer
	"go.trai.ch/lantern/internal/adapters/telemetry"    //nolint:depguard // Wired in app layer
	"go.trai.ch/lantern/internal/core/domain"
	"go.trai.ch/lantern/internal/core/ports"
	"go.trai.ch/lantern/internal/engine/monitor"
	"go.trai.ch/lantern/internal/engine/syncqueue"
	"go.trai.ch/lantern/internal/engine/worker"
)

const (
	// AppNodeID is the unique identifier for the main App Graft node.
	AppNodeID graft.ID = "app.main"
	// ComponentsNodeID is the unique identifier for the App components Graft node.
	ComponentsNodeID graft.ID = "app.components"
)

// Components contains all the initialized application components.
// This struct provides controlled access to components needed by the CLI layer.
type Components struct {
	App    *App
	Logger ports.Logger
}

func init() {
	graft.Register(graft.Node[*App]{
		ID:        AppNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			config.ResolvedNodeID,
			logger.NodeID,
			telemetry.TracerNodeID,
			kv.NodeID,
			cachestore.NodeID,
			connectivity.NodeID,
			bridge.NodeID,
			worker.NodeID,
			syncqueue.NodeID,
			monitor.NodeID,
			device.NodeID,
			settings.NodeID,
		},
		Run: runAppNode,
	})

	graft.Register(graft.Node[*Components]{
		ID:        ComponentsNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			AppNodeID,
			logger.NodeID,
		},
		Run: func(ctx context.Context) (*Components, error) {
			app, err := graft.Dep[*App](ctx)
			if err != nil {
				return nil, err
			}
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			return &Components{App: app, Logger: log}, nil
		},
	})
}

//nolint:cyclop // one lookup per dependency
func runAppNode(ctx context.Context) (*App, error) {
	cfg, err := graft.Dep[*domain.Config](ctx)
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
	store, err := graft.Dep[ports.KVStore](ctx)
	if err != nil {
		return nil, err
	}
	cache, err := graft.Dep[ports.CacheStorage](ctx)
	if err != nil {
		return nil, err
	}
	source, err := graft.Dep[ports.ConnectivitySource](ctx)
	if err != nil {
		return nil, err
	}
	hub, err := graft.Dep[*bridge.Hub](ctx)
	if err != nil {
		return nil, err
	}
	w, err := graft.Dep[*worker.Worker](ctx)
	if err != nil {
		return nil, err
	}
	queue, err := graft.Dep[*syncqueue.Queue](ctx)
	if err != nil {
		return nil, err
	}
	mon, err := graft.Dep[*monitor.Monitor](ctx)
	if err != nil {
		return nil, err
	}
	devices, err := graft.Dep[*device.Service](ctx)
	if err != nil {
		return nil, err
	}
	settingsStore, err := graft.Dep[*settings.Store](ctx)
	if err != nil {
		return nil, err
	}

	return New(cfg, log, tracer, store, cache, source, hub, w, queue, mon, devices, settingsStore), nil
}
