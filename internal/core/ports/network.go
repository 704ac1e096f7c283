package ports

import (
	"context"

	"go.trai.ch/lantern/internal/core/domain"
)

//go:generate mockgen -source=network.go -destination=mocks/mock_network.go -package=mocks

// Fetcher performs network requests on behalf of the worker.
type Fetcher interface {
	// Fetch issues req and returns the full response. progress may be nil.
	// Transport failures are reported as domain.ErrNetworkUnavailable.
	Fetch(ctx context.Context, req *domain.Request, progress domain.ProgressFunc) (*domain.Response, error)
}

// Deliverer sends a queued item to its remote destination.
type Deliverer interface {
	// Deliver returns nil only when the remote side accepted the item.
	Deliver(ctx context.Context, item domain.QueueItem) error
}

// CapabilityProbe answers the device capability query.
type CapabilityProbe interface {
	// Probe returns best-effort capabilities; unknown fields are left zero.
	Probe(ctx context.Context) domain.Capabilities
}
