package worker

import (
	"context"
	"net/http"
	"slices"
	"strings"

	"go.trai.ch/lantern/internal/core/domain"
	"go.trai.ch/zerr"
)

// Install pre-populates the shell tier from the configured precache list.
// Entries that cannot be fetched are skipped, so copies cached by an earlier
// run keep serving. It returns the number of entries stored.
// With skipWaiting configured the worker activates right away.
func (w *Worker) Install(ctx context.Context) (int, error) {
	stored := 0
	for _, path := range w.cfg.Shell.Precache {
		if err := ctx.Err(); err != nil {
			return stored, err
		}

		target, err := w.resolve(path)
		if err != nil {
			w.logger.Warn("skipping precache entry", "path", path, "error", err.Error())
			continue
		}

		req := &domain.Request{Method: http.MethodGet, URL: target, Header: make(http.Header)}
		resp, err := w.fetch(ctx, req, w.cfg.Shell.Timeout, nil)
		if err != nil {
			w.logger.Warn("precache fetch failed", "url", req.Key())
			continue
		}
		if resp.Status != http.StatusOK || resp.Type != domain.ResponseBasic {
			w.skip(domain.TierShell, req.Key(), http.StatusText(resp.Status))
			continue
		}
		if w.store(domain.TierShell, req.Key(), resp) {
			stored++
		}
	}

	w.logger.Info("worker installed", "version", w.cfg.Version, "precached", stored)

	stale, err := w.staleNamespaces()
	if err != nil {
		return stored, err
	}
	if len(stale) > 0 && !w.cfg.SkipWaiting {
		w.logger.Info("worker waiting", "version", w.cfg.Version, "stale", len(stale))
		return stored, nil
	}
	if err := w.Activate(ctx); err != nil {
		return stored, err
	}
	return stored, nil
}

// staleNamespaces lists lantern namespaces that belong to another version.
func (w *Worker) staleNamespaces() ([]string, error) {
	namespaces, err := w.cache.Namespaces()
	if err != nil {
		return nil, err
	}
	whitelist := domain.Whitelist(w.cfg.Version)
	var stale []string
	for _, ns := range namespaces {
		if strings.HasPrefix(ns, domain.NamespacePrefix) && !slices.Contains(whitelist, ns) {
			stale = append(stale, ns)
		}
	}
	return stale, nil
}

// Activate deletes every cache namespace outside the current whitelist and
// starts controlling requests.
func (w *Worker) Activate(_ context.Context) error {
	whitelist := domain.Whitelist(w.cfg.Version)

	namespaces, err := w.cache.Namespaces()
	if err != nil {
		return err
	}
	for _, ns := range namespaces {
		if slices.Contains(whitelist, ns) {
			continue
		}
		if err := w.cache.DeleteNamespace(ns); err != nil {
			return err
		}
		w.logger.Info("removed stale cache", "namespace", ns)
	}

	if !w.active.Swap(true) {
		w.logger.Info("worker activated", "version", w.cfg.Version)
	}
	return nil
}

// Active reports whether the worker controls requests.
func (w *Worker) Active() bool {
	return w.active.Load()
}

// HandleSkipWaiting activates the worker for a SKIP_WAITING bridge message.
func (w *Worker) HandleSkipWaiting(ctx context.Context, _ domain.Message) error {
	return w.Activate(ctx)
}

// Download fetches rawURL into the tier it classifies as, reporting progress
// as DOWNLOAD_PROGRESS messages and finishing with DOWNLOAD_COMPLETE.
func (w *Worker) Download(ctx context.Context, contentID, rawURL string) error {
	target, err := w.resolve(rawURL)
	if err != nil {
		return err
	}

	tier := w.Classify(target)
	switch tier {
	case domain.TierPassthrough:
		return zerr.With(domain.ErrNotCacheable, "url", target.String())
	}

	last := -1
	progress := func(read, total int64) {
		if total <= 0 {
			return
		}
		pct := int(read * 100 / total)
		if pct == last || pct >= 100 {
			return
		}
		last = pct
		w.broadcaster.Broadcast(domain.NewMessage(domain.KindDownloadProgress, domain.DownloadProgressPayload{
			ContentID: contentID,
			Progress:  pct,
		}))
	}

	timeout := w.cfg.Content.Timeout
	switch tier {
	case domain.TierShell:
		timeout = w.cfg.Shell.Timeout
	case domain.TierModel:
		timeout = w.cfg.Model.Timeout
	}

	req := &domain.Request{Method: http.MethodGet, URL: target, Header: make(http.Header)}
	resp, err := w.fetch(ctx, req, timeout, progress)
	if err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrDownloadFailed.Error()), "content_id", contentID)
	}
	if !resp.OK() {
		return zerr.With(zerr.With(domain.ErrDownloadFailed, "content_id", contentID), "status", resp.Status)
	}

	var stored bool
	switch {
	case tier == domain.TierModel:
		stored = w.storeModel(ctx, req.Key(), resp)
	case tier == domain.TierShell && (resp.Status != http.StatusOK || resp.Type != domain.ResponseBasic):
		w.skip(tier, req.Key(), http.StatusText(resp.Status))
	default:
		stored = w.store(tier, req.Key(), resp)
	}
	if !stored {
		return zerr.With(domain.ErrDownloadFailed, "content_id", contentID)
	}

	w.broadcaster.Broadcast(domain.NewMessage(domain.KindDownloadProgress, domain.DownloadProgressPayload{
		ContentID: contentID,
		Progress:  100,
	}))
	w.broadcaster.Broadcast(domain.NewMessage(domain.KindDownloadComplete, domain.DownloadCompletePayload{
		ContentID: contentID,
		Timestamp: domain.Timestamp(w.now()),
	}))
	return nil
}

// HandleDownloadContent starts a download for a DOWNLOAD_CONTENT bridge message.
// The download runs in the background; failures are logged.
func (w *Worker) HandleDownloadContent(ctx context.Context, msg domain.Message) error {
	var payload domain.DownloadContentPayload
	if err := msg.Decode(&payload); err != nil {
		return err
	}
	if payload.URL == "" {
		return zerr.With(domain.ErrInvalidMessage, "type", string(msg.Type))
	}

	bg := context.WithoutCancel(ctx)
	w.wg.Go(func() {
		if err := w.Download(bg, payload.ContentID, payload.URL); err != nil {
			w.logger.Error(err)
		}
	})
	return nil
}
