// Package bridge implements the message bridge between the worker and connected pages.
package bridge

import (
	"context"
	"sync"

	"go.trai.ch/lantern/internal/core/domain"
	"go.trai.ch/lantern/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.Broadcaster = (*Hub)(nil)

// subscriberBuffer bounds the messages queued for a single subscriber.
// Messages arriving while the buffer is full are dropped.
const subscriberBuffer = 64

type subscriber struct {
	ch   chan domain.Message
	done chan struct{}
	once sync.Once
}

func (s *subscriber) close() {
	s.once.Do(func() { close(s.done) })
}

// Hub fans worker messages out to subscribers and routes page messages to handlers.
type Hub struct {
	logger ports.Logger

	mu       sync.RWMutex
	nextID   uint64
	subs     map[uint64]*subscriber
	handlers map[domain.MessageKind]ports.MessageHandler
}

// NewHub creates an empty Hub.
func NewHub(logger ports.Logger) *Hub {
	return &Hub{
		logger:   logger,
		subs:     make(map[uint64]*subscriber),
		handlers: make(map[domain.MessageKind]ports.MessageHandler),
	}
}

// Subscribe registers fn to receive every message broadcast from now on.
// fn runs on a dedicated goroutine, one message at a time, in broadcast order.
// The returned dispose function unregisters fn and is safe to call more than once.
func (h *Hub) Subscribe(fn func(domain.Message)) (dispose func()) {
	sub := &subscriber{
		ch:   make(chan domain.Message, subscriberBuffer),
		done: make(chan struct{}),
	}

	h.mu.Lock()
	id := h.nextID
	h.nextID++
	h.subs[id] = sub
	h.mu.Unlock()

	go func() {
		for {
			select {
			case <-sub.done:
				return
			case msg := <-sub.ch:
				fn(msg)
			}
		}
	}()

	return func() {
		h.mu.Lock()
		delete(h.subs, id)
		h.mu.Unlock()
		sub.close()
	}
}

// Subscribers returns the number of currently registered subscribers.
func (h *Hub) Subscribers() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs)
}

// Broadcast delivers msg at most once to each subscriber registered at call time.
// It never blocks; a subscriber whose buffer is full misses the message.
func (h *Hub) Broadcast(msg domain.Message) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, sub := range h.subs {
		select {
		case sub.ch <- msg:
		default:
			if h.logger != nil {
				h.logger.Warn("bridge subscriber is lagging, message dropped", "type", string(msg.Type))
			}
		}
	}
}

// Handle registers handler for page messages of the given kind, replacing any previous one.
func (h *Hub) Handle(kind domain.MessageKind, handler ports.MessageHandler) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.handlers[kind] = handler
}

// Dispatch routes a page message to its handler.
func (h *Hub) Dispatch(ctx context.Context, msg domain.Message) error {
	h.mu.RLock()
	handler, ok := h.handlers[msg.Type]
	h.mu.RUnlock()

	if !ok {
		return zerr.With(domain.ErrUnknownMessage, "type", string(msg.Type))
	}
	return handler(ctx, msg)
}
