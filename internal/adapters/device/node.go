package device

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/lantern/internal/adapters/config"
	"go.trai.ch/lantern/internal/adapters/connectivity"
	"go.trai.ch/lantern/internal/adapters/kv"
	"go.trai.ch/lantern/internal/adapters/logger"
	"go.trai.ch/lantern/internal/core/domain"
	"go.trai.ch/lantern/internal/core/ports"
)

const (
	// ProbeNodeID is the unique identifier for the capability probe Graft node.
	ProbeNodeID graft.ID = "adapter.device_probe"
	// NodeID is the unique identifier for the device profile service Graft node.
	NodeID graft.ID = "adapter.device"
)

func init() {
	graft.Register(graft.Node[ports.CapabilityProbe]{
		ID:        ProbeNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{config.ResolvedNodeID},
		Run: func(ctx context.Context) (ports.CapabilityProbe, error) {
			cfg, err := graft.Dep[*domain.Config](ctx)
			if err != nil {
				return nil, err
			}
			return NewHostProbe(cfg.DataDir), nil
		},
	})

	graft.Register(graft.Node[*Service]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{kv.NodeID, ProbeNodeID, logger.NodeID, connectivity.NodeID},
		Run: func(ctx context.Context) (*Service, error) {
			store, err := graft.Dep[ports.KVStore](ctx)
			if err != nil {
				return nil, err
			}
			probe, err := graft.Dep[ports.CapabilityProbe](ctx)
			if err != nil {
				return nil, err
			}
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			src, err := graft.Dep[ports.ConnectivitySource](ctx)
			if err != nil {
				return nil, err
			}
			return NewService(store, probe, log, sourceState{src}), nil
		},
	})
}

type sourceState struct {
	src ports.ConnectivitySource
}

func (s sourceState) Online() bool {
	return s.src.Current() == domain.Online
}
