// Package worker implements the cache tier manager that serves page requests.
package worker

import (
	"context"
	"net/http"
	"net/url"
	"sync"
	"sync/atomic"
	"time"

	"go.trai.ch/lantern/internal/core/domain"
	"go.trai.ch/lantern/internal/core/ports"
	"go.trai.ch/zerr"
	"golang.org/x/sync/singleflight"
)

// Worker routes requests through the shell, content and model tiers.
// It controls requests only once activated; before that every request passes through.
type Worker struct {
	cfg         *domain.Config
	classifier  Classifier
	cache       ports.CacheStorage
	fetcher     ports.Fetcher
	state       ports.ConnectivityState
	broadcaster ports.Broadcaster
	logger      ports.Logger
	tracer      ports.Tracer
	modelBudget func(context.Context) int64
	now         func() time.Time

	active    atomic.Bool
	refreshes singleflight.Group
	wg        sync.WaitGroup
}

// Option configures a Worker.
type Option func(*Worker)

// WithModelBudget bounds the bytes the model tier may hold. A budget <= 0 is unlimited.
func WithModelBudget(fn func(context.Context) int64) Option {
	return func(w *Worker) {
		w.modelBudget = fn
	}
}

// WithClock overrides the time source used for timestamps.
func WithClock(now func() time.Time) Option {
	return func(w *Worker) {
		w.now = now
	}
}

// New creates an inactive Worker.
func New(
	cfg *domain.Config,
	cache ports.CacheStorage,
	fetcher ports.Fetcher,
	state ports.ConnectivityState,
	broadcaster ports.Broadcaster,
	logger ports.Logger,
	tracer ports.Tracer,
	opts ...Option,
) *Worker {
	w := &Worker{
		cfg:         cfg,
		classifier:  NewClassifier(cfg),
		cache:       cache,
		fetcher:     fetcher,
		state:       state,
		broadcaster: broadcaster,
		logger:      logger,
		tracer:      tracer,
		modelBudget: func(context.Context) int64 { return 0 },
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Classify returns the tier target belongs to.
func (w *Worker) Classify(target *url.URL) domain.Tier {
	return w.classifier.Classify(target, w.cfg.Origin)
}

// Handle answers req. An error is returned only for pass-through requests that
// could not reach the network; cached tiers always produce a response.
func (w *Worker) Handle(ctx context.Context, req *domain.Request) (*domain.Response, error) {
	tier := w.Classify(req.URL)
	ctx, span := w.tracer.Start(ctx, "worker.handle",
		ports.WithAttribute("http.method", req.Method),
		ports.WithAttribute("tier", tier.String()),
		ports.WithAttribute("active", w.active.Load()),
	)
	defer span.End()

	if !w.active.Load() || req.Method != http.MethodGet {
		tier = domain.TierPassthrough
	}

	var (
		resp *domain.Response
		err  error
	)
	switch tier {
	case domain.TierShell:
		resp = w.serveShell(ctx, req)
	case domain.TierContent:
		resp = w.serveContent(ctx, req)
	case domain.TierModel:
		resp = w.serveModel(ctx, req)
	default:
		resp, err = w.fetcher.Fetch(ctx, req, nil)
	}

	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	span.SetAttribute("cache.hit", resp.FromCache)
	span.SetAttribute("http.status", resp.Status)
	return resp, nil
}

// resolve parses raw and resolves it against the app origin.
func (w *Worker) resolve(raw string) (*url.URL, error) {
	ref, err := url.Parse(raw)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, "invalid url"), "url", raw)
	}
	return w.cfg.Origin.ResolveReference(ref), nil
}

// Wait blocks until background refreshes and downloads have finished.
func (w *Worker) Wait() {
	w.wg.Wait()
}

// fetch issues req under timeout. Offline requests fail without touching the network.
func (w *Worker) fetch(
	ctx context.Context,
	req *domain.Request,
	timeout time.Duration,
	progress domain.ProgressFunc,
) (*domain.Response, error) {
	if !w.state.Online() {
		return nil, domain.ErrNetworkUnavailable
	}
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	return w.fetcher.Fetch(ctx, req, progress)
}

func (w *Worker) lookup(tier domain.Tier, key string) *domain.CacheEntry {
	entry, err := w.cache.Get(tier.Namespace(w.cfg.Version), key)
	if err != nil {
		w.logger.Warn("cache read failed, treating as miss", "tier", tier.String(), "url", key, "error", err.Error())
		return nil
	}
	return entry
}

func (w *Worker) store(tier domain.Tier, key string, resp *domain.Response) bool {
	entry := &domain.CacheEntry{
		Key:      key,
		Payload:  resp.Body,
		StoredAt: w.now().UTC(),
		Tier:     tier,
		Status:   resp.Status,
		Header:   resp.Header.Clone(),
	}
	if err := w.cache.Put(tier.Namespace(w.cfg.Version), entry); err != nil {
		w.logger.Warn("failed to cache response", "tier", tier.String(), "url", key, "error", err.Error())
		return false
	}
	return true
}

func (w *Worker) skip(tier domain.Tier, key string, reason string) {
	w.logger.Info(domain.ErrCacheWriteSkipped.Error(), "tier", tier.String(), "url", key, "reason", reason)
}
