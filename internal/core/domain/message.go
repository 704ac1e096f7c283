package domain

import (
	"encoding/json"

	"go.trai.ch/zerr"
)

// MessageKind identifies a bridge message.
type MessageKind string

// Page to worker messages.
const (
	KindSkipWaiting     MessageKind = "SKIP_WAITING"
	KindSyncContent     MessageKind = "SYNC_CONTENT"
	KindDownloadContent MessageKind = "DOWNLOAD_CONTENT"
	KindConnectivity    MessageKind = "CONNECTIVITY"
)

// Worker to page messages.
const (
	KindSyncComplete        MessageKind = "SYNC_COMPLETE"
	KindDownloadProgress    MessageKind = "DOWNLOAD_PROGRESS"
	KindDownloadComplete    MessageKind = "DOWNLOAD_COMPLETE"
	KindModelDownloaded     MessageKind = "MODEL_DOWNLOADED"
	KindConnectivityChanged MessageKind = "CONNECTIVITY_CHANGED"
)

// Message is the envelope carried over the worker-client bridge.
type Message struct {
	Type    MessageKind     `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// DownloadContentPayload requests that a resource be fetched into the content or model tier.
type DownloadContentPayload struct {
	ContentID string `json:"contentId"`
	URL       string `json:"url"`
}

// ConnectivityPayload reports the page's view of the network.
type ConnectivityPayload struct {
	Online bool `json:"online"`
}

// SyncCompletePayload announces a finished sync pass.
type SyncCompletePayload struct {
	Timestamp int64 `json:"timestamp"`
	ItemCount *int  `json:"itemCount,omitempty"`
}

// DownloadProgressPayload reports download progress in percent.
type DownloadProgressPayload struct {
	ContentID string `json:"contentId"`
	Progress  int    `json:"progress"`
}

// DownloadCompletePayload announces a fully cached resource.
type DownloadCompletePayload struct {
	ContentID string `json:"contentId"`
	Timestamp int64  `json:"timestamp"`
}

// ModelDownloadedPayload announces a model-tier asset.
type ModelDownloadedPayload struct {
	ModelURL string `json:"modelUrl"`
}

// ConnectivityChangedPayload announces a connectivity transition.
type ConnectivityChangedPayload struct {
	Online    bool  `json:"online"`
	Timestamp int64 `json:"timestamp"`
}

// NewMessage builds a message with payload encoded as JSON. A nil payload yields no payload field.
func NewMessage(kind MessageKind, payload any) Message {
	msg := Message{Type: kind}
	if payload == nil {
		return msg
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return msg
	}
	msg.Payload = data
	return msg
}

// Decode unmarshals the payload into target.
func (m Message) Decode(target any) error {
	if len(m.Payload) == 0 {
		return zerr.With(ErrInvalidMessage, "type", string(m.Type))
	}
	if err := json.Unmarshal(m.Payload, target); err != nil {
		return zerr.With(zerr.Wrap(err, ErrInvalidMessage.Error()), "type", string(m.Type))
	}
	return nil
}
