package bridge

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"

	"go.trai.ch/lantern/internal/core/domain"
	"go.trai.ch/lantern/internal/core/ports"
	"golang.org/x/net/websocket"
)

type wsPeer struct {
	mu      sync.Mutex
	encoder *json.Encoder
}

func newWSPeer(encoder *json.Encoder) *wsPeer {
	return &wsPeer{encoder: encoder}
}

func (p *wsPeer) writeMessage(msg domain.Message) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.encoder.Encode(msg)
}

// NewHandler exposes hub to pages as a websocket endpoint.
// Every broadcast is written to the socket as a JSON frame and every frame
// read from the socket is dispatched to the hub.
func NewHandler(hub *Hub, logger ports.Logger) http.Handler {
	return websocket.Handler(func(conn *websocket.Conn) {
		handleConn(conn, hub, logger)
	})
}

func handleConn(conn *websocket.Conn, hub *Hub, logger ports.Logger) {
	defer func() { _ = conn.Close() }()

	ctx := conn.Request().Context()
	stop := context.AfterFunc(ctx, func() { _ = conn.Close() })
	defer stop()

	decoder := json.NewDecoder(conn)
	peer := newWSPeer(json.NewEncoder(conn))

	dispose := hub.Subscribe(func(msg domain.Message) {
		if err := peer.writeMessage(msg); err != nil {
			_ = conn.Close()
		}
	})
	defer dispose()

	for {
		var msg domain.Message
		if err := decoder.Decode(&msg); err != nil {
			return
		}
		if err := hub.Dispatch(ctx, msg); err != nil && logger != nil {
			logger.Warn("bridge message rejected", "type", string(msg.Type), "error", err.Error())
		}
	}
}
