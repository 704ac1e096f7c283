// Package syncqueue buffers local mutations and replays them when the network returns.
package syncqueue

import (
	"cmp"
	"context"
	"encoding/json"
	"errors"
	"slices"
	"sync"
	"time"

	"go.trai.ch/lantern/internal/adapters/kv"
	"go.trai.ch/lantern/internal/core/domain"
	"go.trai.ch/lantern/internal/core/ports"
	"go.trai.ch/zerr"
	"golang.org/x/sync/singleflight"
)

var _ ports.Flusher = (*Queue)(nil)

type entry struct {
	item domain.QueueItem
	rev  uint64
}

// Queue is the offline sync queue. Items live in memory and are persisted
// to the key-value store under queue:<id> on every mutation.
type Queue struct {
	store       ports.KVStore
	deliverer   ports.Deliverer
	state       ports.ConnectivityState
	broadcaster ports.Broadcaster
	logger      ports.Logger
	tracer      ports.Tracer
	now         func() time.Time

	mu      sync.Mutex
	entries map[string]*entry
	order   []string
	rev     uint64
	pending bool

	flights singleflight.Group
}

// Option configures a Queue.
type Option func(*Queue)

// WithClock overrides the time source used for timestamps.
func WithClock(now func() time.Time) Option {
	return func(q *Queue) {
		q.now = now
	}
}

// New creates an empty queue.
func New(
	store ports.KVStore,
	deliverer ports.Deliverer,
	state ports.ConnectivityState,
	broadcaster ports.Broadcaster,
	logger ports.Logger,
	tracer ports.Tracer,
	opts ...Option,
) *Queue {
	q := &Queue{
		store:       store,
		deliverer:   deliverer,
		state:       state,
		broadcaster: broadcaster,
		logger:      logger,
		tracer:      tracer,
		now:         time.Now,
		entries:     make(map[string]*entry),
	}
	for _, opt := range opts {
		opt(q)
	}
	return q
}

// Load restores persisted items. Items already in memory win over stored ones.
// Corrupt records are skipped. A non-empty queue is marked pending immediately.
func (q *Queue) Load(ctx context.Context) error {
	keys, err := q.store.ListKeys(ctx, domain.QueueKeyPrefix)
	if err != nil {
		return err
	}

	var loaded []domain.QueueItem
	for _, key := range keys {
		id, ok := domain.QueueIDFromKey(key)
		if !ok {
			continue
		}
		item, ok, err := kv.GetJSON[domain.QueueItem](ctx, q.store, key)
		if errors.Is(err, domain.ErrCorruptRecord) {
			q.logger.Warn("skipping corrupt queue record", "key", key)
			continue
		}
		if err != nil {
			return err
		}
		if !ok {
			continue
		}
		item.ID = id
		if !item.Valid() {
			q.logger.Warn("skipping corrupt queue record", "key", key)
			continue
		}
		loaded = append(loaded, item)
	}

	slices.SortStableFunc(loaded, func(a, b domain.QueueItem) int {
		if c := a.EnqueuedAt.Compare(b.EnqueuedAt); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})

	q.mu.Lock()
	defer q.mu.Unlock()

	for _, item := range loaded {
		if _, exists := q.entries[item.ID]; exists {
			continue
		}
		q.rev++
		q.entries[item.ID] = &entry{item: item, rev: q.rev}
		q.order = append(q.order, item.ID)
	}
	if len(q.entries) > 0 {
		q.pending = true
	}
	return nil
}

// Enqueue stores payload under id, replacing any previous payload for the same id.
// The item keeps its original position and enqueue time.
func (q *Queue) Enqueue(ctx context.Context, id string, payload json.RawMessage) error {
	if id == "" {
		return domain.ErrInvalidQueueID
	}
	if len(payload) == 0 || !json.Valid(payload) {
		return zerr.With(domain.ErrInvalidPayload, "id", id)
	}

	q.mu.Lock()
	defer q.mu.Unlock()

	item := domain.QueueItem{
		ID:         id,
		Payload:    slices.Clone(payload),
		EnqueuedAt: q.now().UTC(),
	}
	existing, exists := q.entries[id]
	if exists {
		item.EnqueuedAt = existing.item.EnqueuedAt
	}

	if err := kv.SetJSON(ctx, q.store, domain.QueueKey(id), item); err != nil {
		return err
	}

	q.rev++
	if exists {
		existing.item = item
		existing.rev = q.rev
	} else {
		q.entries[id] = &entry{item: item, rev: q.rev}
		q.order = append(q.order, id)
	}
	q.pending = true
	return nil
}

// Read returns the payload queued under id.
func (q *Queue) Read(id string) (json.RawMessage, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	e, ok := q.entries[id]
	if !ok {
		return nil, false
	}
	return slices.Clone(e.item.Payload), true
}

// Items returns the queued items in delivery order.
func (q *Queue) Items() []domain.QueueItem {
	q.mu.Lock()
	defer q.mu.Unlock()

	items := make([]domain.QueueItem, 0, len(q.order))
	for _, id := range q.order {
		items = append(items, q.entries[id].item)
	}
	return items
}

// Len returns the number of queued items.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.entries)
}

// Pending reports whether changes are waiting to sync.
func (q *Queue) Pending() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.pending
}

// Flush delivers every queued item in order. Offline it returns at once without
// delivering anything. If any delivery fails the queue is left untouched and the
// error matches domain.ErrSyncDeliveryFailed. Concurrent calls share one pass,
// which keeps running when a caller's ctx is done; that caller returns ctx.Err().
func (q *Queue) Flush(ctx context.Context) (domain.SyncResult, error) {
	if !q.state.Online() {
		return domain.SyncResult{Remaining: q.Len()}, nil
	}

	pass := context.WithoutCancel(ctx)
	ch := q.flights.DoChan("flush", func() (any, error) {
		return q.flush(pass)
	})
	select {
	case <-ctx.Done():
		return domain.SyncResult{Attempted: true, Remaining: q.Len()}, ctx.Err()
	case r := <-ch:
		res, _ := r.Val.(domain.SyncResult)
		return res, r.Err
	}
}

func (q *Queue) flush(ctx context.Context) (domain.SyncResult, error) {
	snapshot, ok := q.snapshot()
	if !ok {
		return domain.SyncResult{Remaining: q.Len()}, nil
	}

	ctx, span := q.tracer.Start(ctx, "sync.flush", ports.WithAttribute("items", len(snapshot)))
	defer span.End()

	for _, e := range snapshot {
		if err := q.deliverer.Deliver(ctx, e.item); err != nil {
			span.RecordError(err)
			return domain.SyncResult{Attempted: true, Remaining: q.Len()},
				errors.Join(domain.ErrSyncDeliveryFailed, zerr.With(zerr.Wrap(err, "delivery failed"), "id", e.item.ID))
		}
	}

	remaining := q.commit(ctx, snapshot)
	span.SetAttribute("remaining", remaining)

	count := len(snapshot)
	q.broadcaster.Broadcast(domain.NewMessage(domain.KindSyncComplete, domain.SyncCompletePayload{
		Timestamp: domain.Timestamp(q.now()),
		ItemCount: &count,
	}))
	q.logger.Info("sync finished", "delivered", count, "remaining", remaining)

	return domain.SyncResult{Attempted: true, Delivered: count, Remaining: remaining}, nil
}

func (q *Queue) snapshot() ([]entry, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if !q.pending || len(q.order) == 0 {
		return nil, false
	}
	snapshot := make([]entry, 0, len(q.order))
	for _, id := range q.order {
		snapshot = append(snapshot, *q.entries[id])
	}
	return snapshot, true
}

// commit removes delivered items that were not replaced while the flush was running.
func (q *Queue) commit(ctx context.Context, delivered []entry) int {
	q.mu.Lock()
	defer q.mu.Unlock()

	for _, d := range delivered {
		current, ok := q.entries[d.item.ID]
		if !ok || current.rev != d.rev {
			continue
		}
		if err := q.store.Delete(ctx, domain.QueueKey(d.item.ID)); err != nil {
			q.logger.Warn("failed to remove delivered item from the offline store", "id", d.item.ID, "error", err.Error())
			continue
		}
		delete(q.entries, d.item.ID)
		q.order = slices.DeleteFunc(q.order, func(id string) bool { return id == d.item.ID })
	}

	q.pending = len(q.entries) > 0
	return len(q.entries)
}

// HandleSyncContent runs a best-effort sync pass for a SYNC_CONTENT bridge message.
// When nothing was waiting it still announces completion, without an item count.
func (q *Queue) HandleSyncContent(ctx context.Context, _ domain.Message) error {
	res, err := q.Flush(ctx)
	if err != nil {
		q.logger.Warn(domain.ErrSyncDeliveryFailed.Error(), "remaining", res.Remaining)
		return nil
	}
	if !res.Attempted && q.state.Online() {
		q.broadcaster.Broadcast(domain.NewMessage(domain.KindSyncComplete, domain.SyncCompletePayload{
			Timestamp: domain.Timestamp(q.now()),
		}))
	}
	return nil
}
