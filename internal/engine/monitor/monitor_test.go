package monitor_test

import (
	"context"
	"sync"
	"testing"
	"testing/synctest"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/lantern/internal/adapters/connectivity"
	"go.trai.ch/lantern/internal/adapters/kv"
	"go.trai.ch/lantern/internal/adapters/settings"
	"go.trai.ch/lantern/internal/core/domain"
	"go.trai.ch/lantern/internal/core/ports/mocks"
	"go.trai.ch/lantern/internal/engine/connstate"
	"go.trai.ch/lantern/internal/engine/monitor"
	"go.uber.org/mock/gomock"
)

type recorder struct {
	mu     sync.Mutex
	online []bool
}

func (r *recorder) Broadcast(msg domain.Message) {
	var p domain.ConnectivityChangedPayload
	if msg.Type != domain.KindConnectivityChanged || msg.Decode(&p) != nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.online = append(r.online, p.Online)
}

func (r *recorder) changes() []bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]bool(nil), r.online...)
}

func quietLogger(ctrl *gomock.Controller) *mocks.MockLogger {
	log := mocks.NewMockLogger(ctrl)
	log.EXPECT().Info(gomock.Any(), gomock.Any()).AnyTimes()
	log.EXPECT().Warn(gomock.Any(), gomock.Any()).AnyTimes()
	return log
}

func TestNew_ReadsInitialStateFromSource(t *testing.T) {
	ctrl := gomock.NewController(t)
	state := connstate.New(domain.Offline)

	m := monitor.New(connectivity.NewSwitch(true), state, mocks.NewMockFlusher(ctrl), &recorder{}, quietLogger(ctrl))
	assert.True(t, m.Online())
	assert.True(t, state.Online())
}

func TestMonitor_ReconnectTriggersFlush(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		ctrl := gomock.NewController(t)
		flusher := mocks.NewMockFlusher(ctrl)
		flusher.EXPECT().Flush(gomock.Any()).Return(domain.SyncResult{Attempted: true, Delivered: 1}, nil).Times(1)

		sw := connectivity.NewSwitch(false)
		events := &recorder{}
		m := monitor.New(sw, connstate.New(domain.Offline), flusher, events, quietLogger(ctrl))

		ctx, cancel := context.WithCancel(context.Background())
		done := make(chan error)
		go func() { done <- m.Run(ctx) }()

		sw.Set(true)
		synctest.Wait()
		assert.True(t, m.Online())

		cancel()
		require.NoError(t, <-done)
		assert.Equal(t, []bool{true}, events.changes())
	})
}

func TestMonitor_GoingOfflineDoesNotFlush(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		ctrl := gomock.NewController(t)
		log := mocks.NewMockLogger(ctrl)
		log.EXPECT().Warn("you're offline, changes will sync when you reconnect")

		sw := connectivity.NewSwitch(true)
		events := &recorder{}
		m := monitor.New(sw, connstate.New(domain.Online), mocks.NewMockFlusher(ctrl), events, log)

		ctx, cancel := context.WithCancel(context.Background())
		done := make(chan error)
		go func() { done <- m.Run(ctx) }()

		sw.Set(false)
		synctest.Wait()
		assert.False(t, m.Online())

		cancel()
		require.NoError(t, <-done)
		assert.Equal(t, []bool{false}, events.changes())
	})
}

func TestMonitor_FlappingFlushesOnEveryReconnect(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		ctrl := gomock.NewController(t)
		flusher := mocks.NewMockFlusher(ctrl)
		flusher.EXPECT().Flush(gomock.Any()).Return(domain.SyncResult{}, nil).Times(3)

		sw := connectivity.NewSwitch(false)
		events := &recorder{}
		m := monitor.New(sw, connstate.New(domain.Offline), flusher, events, quietLogger(ctrl))

		ctx, cancel := context.WithCancel(context.Background())
		done := make(chan error)
		go func() { done <- m.Run(ctx) }()

		for range 3 {
			sw.Set(true)
			time.Sleep(time.Millisecond)
			sw.Set(false)
		}
		synctest.Wait()

		cancel()
		require.NoError(t, <-done)
		assert.Equal(t, []bool{true, false, true, false, true, false}, events.changes())
	})
}

func TestMonitor_FlushFailureIsTransient(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		ctrl := gomock.NewController(t)
		flusher := mocks.NewMockFlusher(ctrl)
		flusher.EXPECT().Flush(gomock.Any()).Return(domain.SyncResult{Attempted: true, Remaining: 2}, domain.ErrSyncDeliveryFailed)

		log := mocks.NewMockLogger(ctrl)
		log.EXPECT().Info("back online")
		log.EXPECT().Warn(domain.ErrSyncDeliveryFailed.Error())

		sw := connectivity.NewSwitch(false)
		m := monitor.New(sw, connstate.New(domain.Offline), flusher, &recorder{}, log)

		ctx, cancel := context.WithCancel(context.Background())
		done := make(chan error)
		go func() { done <- m.Run(ctx) }()

		sw.Set(true)
		synctest.Wait()

		cancel()
		require.NoError(t, <-done)
	})
}

func TestMonitor_AutoSyncOffSkipsFlush(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		ctrl := gomock.NewController(t)
		log := quietLogger(ctrl)

		store := settings.NewStore(kv.NewMemory(0), log)
		_, err := store.Set(context.Background(), domain.SettingAutoSync, "false")
		require.NoError(t, err)

		sw := connectivity.NewSwitch(false)
		m := monitor.New(sw, connstate.New(domain.Offline), mocks.NewMockFlusher(ctrl), &recorder{}, log,
			monitor.WithAutoSync(monitor.AutoSyncSetting(store, log)))

		ctx, cancel := context.WithCancel(context.Background())
		done := make(chan error)
		go func() { done <- m.Run(ctx) }()

		sw.Set(true)
		synctest.Wait()
		assert.True(t, m.Online())

		cancel()
		require.NoError(t, <-done)
	})
}
