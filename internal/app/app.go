// Package app implements the application layer for lantern.
package app

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"go.trai.ch/lantern/internal/adapters/bridge"
	"go.trai.ch/lantern/internal/adapters/device"
	"go.trai.ch/lantern/internal/adapters/settings"
	"go.trai.ch/lantern/internal/core/domain"
	"go.trai.ch/lantern/internal/core/ports"
	"go.trai.ch/lantern/internal/engine/monitor"
	"go.trai.ch/lantern/internal/engine/syncqueue"
	"go.trai.ch/lantern/internal/engine/worker"
	"go.trai.ch/zerr"
)

// App represents the main application logic.
type App struct {
	cfg      *domain.Config
	logger   ports.Logger
	tracer   ports.Tracer
	store    ports.KVStore
	cache    ports.CacheStorage
	source   ports.ConnectivitySource
	hub      *bridge.Hub
	worker   *worker.Worker
	queue    *syncqueue.Queue
	monitor  *monitor.Monitor
	devices  *device.Service
	settings *settings.Store
}

// New creates a new App instance.
func New(
	cfg *domain.Config,
	log ports.Logger,
	tracer ports.Tracer,
	store ports.KVStore,
	cache ports.CacheStorage,
	source ports.ConnectivitySource,
	hub *bridge.Hub,
	w *worker.Worker,
	queue *syncqueue.Queue,
	mon *monitor.Monitor,
	devices *device.Service,
	settingsStore *settings.Store,
) *App {
	return &App{
		cfg:      cfg,
		logger:   log,
		tracer:   tracer,
		store:    store,
		cache:    cache,
		source:   source,
		hub:      hub,
		worker:   w,
		queue:    queue,
		monitor:  mon,
		devices:  devices,
		settings: settingsStore,
	}
}

// Config returns the resolved configuration.
func (a *App) Config() *domain.Config {
	return a.cfg
}

// SetJSONLogs switches the logger between JSON and human output when it supports both.
func (a *App) SetJSONLogs(enable bool) {
	if l, ok := a.logger.(interface{ SetJSON(bool) }); ok {
		l.SetJSON(enable)
	}
}

// QueueItems returns the pending queue items in flush order.
func (a *App) QueueItems(_ context.Context) []domain.QueueItem {
	return a.queue.Items()
}

// Enqueue stores payload under id, replacing any pending item with the same id.
func (a *App) Enqueue(ctx context.Context, id string, payload json.RawMessage) error {
	return a.queue.Enqueue(ctx, id, payload)
}

// Flush delivers the pending queue items when the network is reachable.
func (a *App) Flush(ctx context.Context) (domain.SyncResult, error) {
	return a.queue.Flush(ctx)
}

// TierUsage describes the contents of one cache tier.
type TierUsage struct {
	Tier      string   `json:"tier"`
	Namespace string   `json:"namespace"`
	Entries   int      `json:"entries"`
	Bytes     int64    `json:"bytes"`
	Keys      []string `json:"keys,omitempty"`
}

// CacheUsage lists the given tiers, or every cached tier when none are given.
func (a *App) CacheUsage(_ context.Context, tiers []domain.Tier, withKeys bool) ([]TierUsage, error) {
	if len(tiers) == 0 {
		tiers = domain.CachedTiers
	}

	usage := make([]TierUsage, 0, len(tiers))
	for _, tier := range tiers {
		ns := tier.Namespace(a.cfg.Version)
		keys, err := a.cache.Keys(ns)
		if err != nil {
			return nil, err
		}
		size, err := a.cache.Size(ns)
		if err != nil {
			return nil, err
		}
		u := TierUsage{Tier: tier.String(), Namespace: ns, Entries: len(keys), Bytes: size}
		if withKeys {
			u.Keys = keys
		}
		usage = append(usage, u)
	}
	return usage, nil
}

// ClearCache removes the given tiers, or every lantern namespace when none are given.
func (a *App) ClearCache(_ context.Context, tiers []domain.Tier) error {
	var namespaces []string
	if len(tiers) == 0 {
		all, err := a.cache.Namespaces()
		if err != nil {
			return err
		}
		namespaces = all
	} else {
		for _, tier := range tiers {
			if tier == domain.TierPassthrough {
				return zerr.With(domain.ErrInvalidTier, "tier", tier.String())
			}
			namespaces = append(namespaces, tier.Namespace(a.cfg.Version))
		}
	}

	var errs error
	for _, ns := range namespaces {
		if err := a.cache.DeleteNamespace(ns); err != nil {
			errs = errors.Join(errs, err)
			continue
		}
		a.logger.Info(fmt.Sprintf("cleared %s", ns))
	}
	return errs
}

// Device returns the device profile.
func (a *App) Device(ctx context.Context) (domain.DeviceProfile, error) {
	return a.devices.Profile(ctx)
}

// Settings returns the stored settings.
func (a *App) Settings(ctx context.Context) (domain.Settings, error) {
	return a.settings.Load(ctx)
}

// SetSetting parses and stores a single setting.
func (a *App) SetSetting(ctx context.Context, name, value string) (domain.Settings, error) {
	return a.settings.Set(ctx, name, value)
}

// ResetSettings restores the default settings.
func (a *App) ResetSettings(ctx context.Context) error {
	return a.settings.Reset(ctx)
}

// Status summarizes the state of the edge.
type Status struct {
	Version      string      `json:"version"`
	CacheVersion string      `json:"cacheVersion"`
	Origin       string      `json:"origin"`
	Online       bool        `json:"online"`
	Active       bool        `json:"active"`
	Pending      int         `json:"pending"`
	Clients      int         `json:"clients"`
	Tiers        []TierUsage `json:"tiers"`
}

// Status reports connectivity, queue, bridge and cache state.
func (a *App) Status(ctx context.Context, version string) (Status, error) {
	tiers, err := a.CacheUsage(ctx, nil, false)
	if err != nil {
		return Status{}, err
	}
	return Status{
		Version:      version,
		CacheVersion: a.cfg.Version,
		Origin:       a.cfg.Origin.String(),
		Online:       a.monitor.Online(),
		Active:       a.worker.Active(),
		Pending:      a.queue.Len(),
		Clients:      a.hub.Subscribers(),
		Tiers:        tiers,
	}, nil
}

// Close stops the connectivity source, flushes spans and closes the store.
func (a *App) Close(ctx context.Context) error {
	return errors.Join(
		a.source.Stop(),
		a.tracer.Shutdown(ctx),
		a.store.Close(),
	)
}
