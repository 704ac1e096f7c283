package ports

import (
	"context"
	"iter"

	"go.trai.ch/lantern/internal/core/domain"
)

//go:generate mockgen -source=connectivity.go -destination=mocks/mock_connectivity.go -package=mocks

// ConnectivitySource is the push-based platform signal behind the connectivity monitor.
type ConnectivitySource interface {
	// Current reads the platform state synchronously.
	Current() domain.ConnectivityState
	// Start begins delivering events until ctx is done or Stop is called.
	Start(ctx context.Context) error
	// Stop releases the source and ends the event sequence.
	Stop() error
	// Events returns the sequence of reported states.
	Events() iter.Seq[domain.ConnectivityState]
}

// ConnectivityState exposes the current connectivity to components that gate on it.
type ConnectivityState interface {
	// Online reports whether the network is currently reachable.
	Online() bool
}

// Flusher replays queued items. The connectivity monitor triggers it on reconnect.
type Flusher interface {
	Flush(ctx context.Context) (domain.SyncResult, error)
}
