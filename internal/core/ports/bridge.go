package ports

import (
	"context"

	"go.trai.ch/lantern/internal/core/domain"
)

//go:generate mockgen -source=bridge.go -destination=mocks/mock_bridge.go -package=mocks

// Broadcaster publishes worker events to every currently connected page.
// Delivery is at-most-once and unacknowledged.
type Broadcaster interface {
	Broadcast(msg domain.Message)
}

// MessageHandler handles a message sent by a page.
type MessageHandler func(ctx context.Context, msg domain.Message) error
