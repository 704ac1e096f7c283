// Package monitor tracks connectivity transitions and triggers sync on reconnect.
package monitor

import (
	"context"
	"sync"
	"time"

	"go.trai.ch/lantern/internal/core/domain"
	"go.trai.ch/lantern/internal/core/ports"
	"go.trai.ch/lantern/internal/engine/connstate"
)

// Monitor applies connectivity events from a source to the shared state.
type Monitor struct {
	source      ports.ConnectivitySource
	state       *connstate.State
	flusher     ports.Flusher
	broadcaster ports.Broadcaster
	logger      ports.Logger
	autoSync    func(context.Context) bool
	now         func() time.Time

	wg sync.WaitGroup
}

// Option configures a Monitor.
type Option func(*Monitor)

// WithAutoSync sets the predicate deciding whether a reconnect triggers a flush.
func WithAutoSync(fn func(context.Context) bool) Option {
	return func(m *Monitor) {
		m.autoSync = fn
	}
}

// WithClock overrides the time source used for timestamps.
func WithClock(now func() time.Time) Option {
	return func(m *Monitor) {
		m.now = now
	}
}

// New creates a Monitor and reads the initial state from source.
func New(
	source ports.ConnectivitySource,
	state *connstate.State,
	flusher ports.Flusher,
	broadcaster ports.Broadcaster,
	logger ports.Logger,
	opts ...Option,
) *Monitor {
	m := &Monitor{
		source:      source,
		state:       state,
		flusher:     flusher,
		broadcaster: broadcaster,
		logger:      logger,
		autoSync:    func(context.Context) bool { return true },
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	state.Swap(source.Current())
	return m
}

// Online reports the current state.
func (m *Monitor) Online() bool {
	return m.state.Online()
}

// Run consumes source events until the source stops or ctx is done.
// It waits for flushes it started before returning.
func (m *Monitor) Run(ctx context.Context) error {
	if err := m.source.Start(ctx); err != nil {
		return err
	}
	defer m.wg.Wait()

	for next := range m.source.Events() {
		m.apply(ctx, next)
	}
	return nil
}

func (m *Monitor) apply(ctx context.Context, next domain.ConnectivityState) {
	prev := m.state.Swap(next)
	if prev == next {
		return
	}

	if next == domain.Online {
		m.logger.Info("back online")
	} else {
		m.logger.Warn("you're offline, changes will sync when you reconnect")
	}
	m.broadcaster.Broadcast(domain.NewMessage(domain.KindConnectivityChanged, domain.ConnectivityChangedPayload{
		Online:    next == domain.Online,
		Timestamp: domain.Timestamp(m.now()),
	}))

	if next != domain.Online || !m.autoSync(ctx) {
		return
	}
	m.wg.Go(func() {
		if _, err := m.flusher.Flush(ctx); err != nil {
			m.logger.Warn(domain.ErrSyncDeliveryFailed.Error())
		}
	})
}
