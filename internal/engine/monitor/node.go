package monitor

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/lantern/internal/adapters/bridge"
	"go.trai.ch/lantern/internal/adapters/connectivity"
	"go.trai.ch/lantern/internal/adapters/logger"
	"go.trai.ch/lantern/internal/adapters/settings"
	"go.trai.ch/lantern/internal/core/ports"
	"go.trai.ch/lantern/internal/engine/connstate"
	"go.trai.ch/lantern/internal/engine/syncqueue"
)

// NodeID is the unique identifier for the connectivity monitor Graft node.
const NodeID graft.ID = "engine.monitor"

func init() {
	graft.Register(graft.Node[*Monitor]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			connectivity.NodeID,
			connstate.NodeID,
			syncqueue.NodeID,
			bridge.NodeID,
			settings.NodeID,
			logger.NodeID,
		},
		Run: func(ctx context.Context) (*Monitor, error) {
			src, err := graft.Dep[ports.ConnectivitySource](ctx)
			if err != nil {
				return nil, err
			}
			state, err := graft.Dep[*connstate.State](ctx)
			if err != nil {
				return nil, err
			}
			queue, err := graft.Dep[*syncqueue.Queue](ctx)
			if err != nil {
				return nil, err
			}
			hub, err := graft.Dep[*bridge.Hub](ctx)
			if err != nil {
				return nil, err
			}
			store, err := graft.Dep[*settings.Store](ctx)
			if err != nil {
				return nil, err
			}
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}

			return New(src, state, queue, hub, log, WithAutoSync(AutoSyncSetting(store, log))), nil
		},
	})
}

// AutoSyncSetting reads the autoSync setting on every reconnect.
// A settings read failure keeps auto sync on.
func AutoSyncSetting(store *settings.Store, log ports.Logger) func(context.Context) bool {
	return func(ctx context.Context) bool {
		s, err := store.Load(ctx)
		if err != nil {
			log.Error(err)
			return true
		}
		return s.AutoSync
	}
}
