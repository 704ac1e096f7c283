// Package connstate holds the process-wide connectivity state shared by the engine.
package connstate

import (
	"sync/atomic"

	"go.trai.ch/lantern/internal/core/domain"
	"go.trai.ch/lantern/internal/core/ports"
)

var _ ports.ConnectivityState = (*State)(nil)

// State is the current connectivity. The connectivity monitor is its only writer.
type State struct {
	online atomic.Bool
}

// New creates a State holding initial.
func New(initial domain.ConnectivityState) *State {
	s := &State{}
	s.online.Store(initial == domain.Online)
	return s
}

// Online reports whether the network is reachable.
func (s *State) Online() bool {
	return s.online.Load()
}

// Current returns the state.
func (s *State) Current() domain.ConnectivityState {
	return domain.StateOf(s.online.Load())
}

// Swap stores next and returns the previous state.
func (s *State) Swap(next domain.ConnectivityState) domain.ConnectivityState {
	return domain.StateOf(s.online.Swap(next == domain.Online))
}
