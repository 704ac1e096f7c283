package device

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"go.trai.ch/lantern/internal/adapters/kv"
	"go.trai.ch/lantern/internal/core/domain"
	"go.trai.ch/lantern/internal/core/ports"
)

// Service builds the device profile from the capability probe and the stored device id.
type Service struct {
	store  ports.KVStore
	probe  ports.CapabilityProbe
	logger ports.Logger
	state  ports.ConnectivityState
}

// NewService creates a profile service. state may be nil, in which case the
// network status is reported as unknown.
func NewService(store ports.KVStore, probe ports.CapabilityProbe, logger ports.Logger, state ports.ConnectivityState) *Service {
	return &Service{
		store:  store,
		probe:  probe,
		logger: logger,
		state:  state,
	}
}

// Profile returns the device profile, generating and persisting a device id on first use.
func (s *Service) Profile(ctx context.Context) (domain.DeviceProfile, error) {
	id, err := s.deviceID(ctx)
	if err != nil {
		return domain.DeviceProfile{}, err
	}

	caps := s.probe.Probe(ctx)
	if caps.NetworkStatus == "" && s.state != nil {
		caps.NetworkStatus = domain.StateOf(s.state.Online()).String()
	}
	return domain.NewDeviceProfile(id, caps), nil
}

func (s *Service) deviceID(ctx context.Context) (string, error) {
	id, ok, err := kv.GetJSON[string](ctx, s.store, domain.DeviceIDKey)
	switch {
	case errors.Is(err, domain.ErrCorruptRecord):
		s.logger.Warn("device id record is corrupt, generating a new one", "key", domain.DeviceIDKey)
	case err != nil:
		return "", err
	case ok && id != "":
		return id, nil
	}

	id = uuid.NewString()
	if err := kv.SetJSON(ctx, s.store, domain.DeviceIDKey, id); err != nil {
		return "", err
	}
	return id, nil
}
