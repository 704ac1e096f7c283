package worker

import (
	"context"
	"net/http"

	"go.trai.ch/lantern/internal/core/domain"
)

// serveShell is cache-first. Only exact 200 same-origin responses are stored.
func (w *Worker) serveShell(ctx context.Context, req *domain.Request) *domain.Response {
	key := req.Key()
	if entry := w.lookup(domain.TierShell, key); entry != nil {
		return entry.Response()
	}

	resp, err := w.fetch(ctx, req, w.cfg.Shell.Timeout, nil)
	if err != nil {
		if req.Navigate {
			if fallback := w.lookup(domain.TierShell, w.fallbackKey()); fallback != nil {
				return fallback.Response()
			}
		}
		return domain.EmptyFailureResponse()
	}

	switch {
	case resp.Status != http.StatusOK:
		w.skip(domain.TierShell, key, http.StatusText(resp.Status))
	case resp.Type != domain.ResponseBasic:
		w.skip(domain.TierShell, key, string(resp.Type))
	default:
		w.store(domain.TierShell, key, resp)
	}
	return resp
}

func (w *Worker) fallbackKey() string {
	target, err := w.resolve(w.cfg.Shell.FallbackPath)
	if err != nil {
		return w.cfg.Origin.String()
	}
	return target.String()
}

// serveContent is stale-while-revalidate: a cached copy is returned at once
// and refreshed in the background for later requests.
func (w *Worker) serveContent(ctx context.Context, req *domain.Request) *domain.Response {
	key := req.Key()
	if entry := w.lookup(domain.TierContent, key); entry != nil {
		w.revalidate(ctx, req)
		return entry.Response()
	}

	resp, err := w.fetch(ctx, req, w.cfg.Content.Timeout, nil)
	if err != nil {
		return domain.NetworkErrorResponse(key)
	}
	if resp.OK() {
		w.store(domain.TierContent, key, resp)
	}
	return resp
}

func (w *Worker) revalidate(ctx context.Context, req *domain.Request) {
	if !w.state.Online() {
		return
	}

	key := req.Key()
	refreshCtx := context.WithoutCancel(ctx)
	w.wg.Go(func() {
		_, _, _ = w.refreshes.Do(key, func() (any, error) {
			resp, err := w.fetch(refreshCtx, req, w.cfg.Content.Timeout, nil)
			if err != nil {
				return nil, nil //nolint:nilerr // A failed refresh keeps the stale copy
			}
			if resp.OK() {
				w.store(domain.TierContent, key, resp)
			}
			return nil, nil
		})
	})
}

// serveModel is cache-first without background refresh.
func (w *Worker) serveModel(ctx context.Context, req *domain.Request) *domain.Response {
	key := req.Key()
	if entry := w.lookup(domain.TierModel, key); entry != nil {
		return entry.Response()
	}

	resp, err := w.fetch(ctx, req, w.cfg.Model.Timeout, nil)
	if err != nil {
		return domain.NetworkErrorResponse(key)
	}
	if resp.OK() {
		w.storeModel(ctx, key, resp)
	}
	return resp
}

func (w *Worker) storeModel(ctx context.Context, key string, resp *domain.Response) bool {
	if !w.withinBudget(ctx, int64(len(resp.Body))) {
		w.skip(domain.TierModel, key, "storage budget exceeded")
		return false
	}
	if !w.store(domain.TierModel, key, resp) {
		return false
	}
	w.broadcaster.Broadcast(domain.NewMessage(domain.KindModelDownloaded, domain.ModelDownloadedPayload{ModelURL: key}))
	return true
}

func (w *Worker) withinBudget(ctx context.Context, size int64) bool {
	budget := w.modelBudget(ctx)
	if budget <= 0 {
		return true
	}
	used, err := w.cache.Size(domain.TierModel.Namespace(w.cfg.Version))
	if err != nil {
		w.logger.Warn("failed to measure model tier", "error", err.Error())
		return false
	}
	return used+size <= budget
}
