// Package connectivity provides the platform signals behind the connectivity monitor.
package connectivity

import (
	"context"
	"iter"
	"sync"
	"sync/atomic"

	"go.trai.ch/lantern/internal/core/domain"
	"go.trai.ch/lantern/internal/core/ports"
)

var _ ports.ConnectivitySource = (*Switch)(nil)

const eventChannelBuffer = 100

// Switch is a push-based connectivity source. Pages report their view of the
// network over the bridge and Set turns each change into an event.
type Switch struct {
	online atomic.Bool

	mu       sync.Mutex
	events   chan domain.ConnectivityState
	done     chan struct{}
	stopOnce sync.Once
}

// NewSwitch creates a Switch in the given initial state.
func NewSwitch(initial bool) *Switch {
	s := &Switch{
		events: make(chan domain.ConnectivityState, eventChannelBuffer),
		done:   make(chan struct{}),
	}
	s.online.Store(initial)
	return s
}

// Current returns the last reported state.
func (s *Switch) Current() domain.ConnectivityState {
	return domain.StateOf(s.online.Load())
}

// Set records a reported state and emits an event when it differs from the previous one.
// Set blocks while the event buffer is full, until the switch is stopped.
func (s *Switch) Set(online bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.online.Swap(online) == online {
		return
	}

	select {
	case <-s.done:
		return
	default:
	}

	select {
	case <-s.done:
	case s.events <- domain.StateOf(online):
	}
}

// HandleMessage applies a CONNECTIVITY bridge message.
func (s *Switch) HandleMessage(_ context.Context, msg domain.Message) error {
	var payload domain.ConnectivityPayload
	if err := msg.Decode(&payload); err != nil {
		return err
	}
	s.Set(payload.Online)
	return nil
}

// Start stops the switch when ctx is done.
func (s *Switch) Start(ctx context.Context) error {
	go func() {
		select {
		case <-ctx.Done():
			_ = s.Stop()
		case <-s.done:
		}
	}()
	return nil
}

// Stop ends the event sequence. Later calls to Set only update the state.
func (s *Switch) Stop() error {
	s.stopOnce.Do(func() {
		close(s.done)
		s.mu.Lock()
		close(s.events)
		s.mu.Unlock()
	})
	return nil
}

// Events returns an iterator of reported state changes.
func (s *Switch) Events() iter.Seq[domain.ConnectivityState] {
	return func(yield func(domain.ConnectivityState) bool) {
		for state := range s.events {
			if !yield(state) {
				return
			}
		}
	}
}
