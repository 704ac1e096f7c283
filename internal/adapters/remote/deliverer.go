// Package remote delivers queued items to the sync backend.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"go.trai.ch/lantern/internal/core/domain"
	"go.trai.ch/lantern/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.Deliverer = (*HTTPDeliverer)(nil)

// HTTPDeliverer invokes a named backend function over HTTP for every queued item.
type HTTPDeliverer struct {
	client *http.Client
	cfg    domain.SyncConfig
}

// NewHTTPDeliverer creates a deliverer for cfg. A nil client uses http.DefaultClient.
func NewHTTPDeliverer(cfg domain.SyncConfig, client *http.Client) *HTTPDeliverer {
	if client == nil {
		client = http.DefaultClient
	}
	return &HTTPDeliverer{client: client, cfg: cfg}
}

// URL returns the function endpoint items are posted to.
func (d *HTTPDeliverer) URL() string {
	return strings.TrimSuffix(d.cfg.Endpoint, "/") + "/functions/v1/" + d.cfg.Function
}

// Deliver posts item as JSON and succeeds only on a 2xx answer.
func (d *HTTPDeliverer) Deliver(ctx context.Context, item domain.QueueItem) error {
	if d.cfg.Endpoint == "" {
		return domain.ErrSyncEndpointMissing
	}

	body, err := json.Marshal(item)
	if err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrStoreMarshalFailed.Error()), "id", item.ID)
	}

	if d.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d.cfg.Timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.URL(), bytes.NewReader(body))
	if err != nil {
		return zerr.With(zerr.Wrap(err, "failed to build delivery request"), "url", d.URL())
	}
	req.Header.Set("Content-Type", "application/json")
	if d.cfg.Token != "" {
		req.Header.Set("Authorization", "Bearer "+d.cfg.Token)
	}

	resp, err := d.client.Do(req)
	if err != nil {
		return errors.Join(domain.ErrNetworkUnavailable, zerr.With(zerr.Wrap(err, "delivery failed"), "id", item.ID))
	}
	defer func() { _ = resp.Body.Close() }()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return zerr.With(zerr.With(domain.ErrRemoteRejected, "status", resp.StatusCode), "id", item.ID)
	}
	return nil
}
