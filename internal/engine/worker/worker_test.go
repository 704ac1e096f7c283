package worker_test

import (
	"context"
	"net/http"
	"net/url"
	"sync"
	"sync/atomic"
	"testing"
	"testing/synctest"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/lantern/internal/adapters/cachestore"
	"go.trai.ch/lantern/internal/adapters/telemetry"
	"go.trai.ch/lantern/internal/core/domain"
	"go.trai.ch/lantern/internal/core/ports/mocks"
	"go.trai.ch/lantern/internal/engine/connstate"
	"go.trai.ch/lantern/internal/engine/worker"
	"go.uber.org/mock/gomock"
)

var fixedNow = time.Date(2026, 5, 4, 10, 0, 0, 0, time.UTC)

type recorder struct {
	mu   sync.Mutex
	msgs []domain.Message
}

func (r *recorder) Broadcast(msg domain.Message) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.msgs = append(r.msgs, msg)
}

func (r *recorder) messages() []domain.Message {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]domain.Message(nil), r.msgs...)
}

func (r *recorder) kinds() []domain.MessageKind {
	var kinds []domain.MessageKind
	for _, m := range r.messages() {
		kinds = append(kinds, m.Type)
	}
	return kinds
}

type fixture struct {
	cfg     *domain.Config
	cache   *cachestore.Store
	fetcher *mocks.MockFetcher
	state   *connstate.State
	logger  *mocks.MockLogger
	events  *recorder
}

func newFixture(t *testing.T, online bool) *fixture {
	t.Helper()
	ctrl := gomock.NewController(t)

	cfg := domain.DefaultConfig()
	origin, err := url.Parse("https://app.example")
	require.NoError(t, err)
	cfg.Origin = origin
	cfg.DataDir = t.TempDir()

	f := &fixture{
		cfg:     cfg,
		cache:   cachestore.NewStore(domain.CachePath(cfg.DataDir)),
		fetcher: mocks.NewMockFetcher(ctrl),
		state:   connstate.New(domain.StateOf(online)),
		logger:  mocks.NewMockLogger(ctrl),
		events:  &recorder{},
	}
	f.logger.EXPECT().Info(gomock.Any(), gomock.Any()).AnyTimes()
	f.logger.EXPECT().Warn(gomock.Any(), gomock.Any()).AnyTimes()
	return f
}

func (f *fixture) worker(opts ...worker.Option) *worker.Worker {
	opts = append([]worker.Option{worker.WithClock(func() time.Time { return fixedNow })}, opts...)
	return worker.New(f.cfg, f.cache, f.fetcher, f.state, f.events, f.logger, telemetry.NewNoOpTracer(), opts...)
}

func (f *fixture) active(t *testing.T, opts ...worker.Option) *worker.Worker {
	t.Helper()
	w := f.worker(opts...)
	require.NoError(t, w.Activate(context.Background()))
	return w
}

func (f *fixture) url(path string) *url.URL {
	return f.cfg.Origin.ResolveReference(&url.URL{Path: path})
}

func (f *fixture) seed(t *testing.T, tier domain.Tier, path, body string) {
	t.Helper()
	require.NoError(t, f.cache.Put(tier.Namespace(f.cfg.Version), &domain.CacheEntry{
		Key:      f.url(path).String(),
		Payload:  []byte(body),
		StoredAt: fixedNow,
		Tier:     tier,
		Status:   http.StatusOK,
		Header:   http.Header{"Content-Type": {"application/json"}},
	}))
}

func (f *fixture) cached(t *testing.T, tier domain.Tier, path string) *domain.CacheEntry {
	t.Helper()
	entry, err := f.cache.Get(tier.Namespace(f.cfg.Version), f.url(path).String())
	require.NoError(t, err)
	return entry
}

func (f *fixture) get(t *testing.T, w *worker.Worker, path string, navigate bool) *domain.Response {
	t.Helper()
	resp, err := w.Handle(context.Background(), &domain.Request{
		Method:   http.MethodGet,
		URL:      f.url(path),
		Header:   make(http.Header),
		Navigate: navigate,
	})
	require.NoError(t, err)
	require.NotNil(t, resp)
	return resp
}

func basic(status int, body string) *domain.Response {
	return &domain.Response{
		Status: status,
		Header: http.Header{"Content-Type": {"text/plain"}},
		Body:   []byte(body),
		Type:   domain.ResponseBasic,
	}
}

func respond(resp *domain.Response) func(context.Context, *domain.Request, domain.ProgressFunc) (*domain.Response, error) {
	return func(context.Context, *domain.Request, domain.ProgressFunc) (*domain.Response, error) {
		out := *resp
		return &out, nil
	}
}

func TestHandle_InactiveWorkerPassesThrough(t *testing.T) {
	f := newFixture(t, true)
	w := f.worker()
	assert.False(t, w.Active())

	f.fetcher.EXPECT().Fetch(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(respond(basic(http.StatusOK, "shell"))).Times(2)

	f.get(t, w, "/index.html", false)
	resp := f.get(t, w, "/index.html", false)

	assert.False(t, resp.FromCache)
	assert.Nil(t, f.cached(t, domain.TierShell, "/index.html"))
}

func TestHandle_NonGETIsForwarded(t *testing.T) {
	f := newFixture(t, true)
	w := f.active(t)

	f.fetcher.EXPECT().Fetch(gomock.Any(), gomock.Any(), gomock.Nil()).
		DoAndReturn(func(_ context.Context, req *domain.Request, _ domain.ProgressFunc) (*domain.Response, error) {
			assert.Equal(t, http.MethodPost, req.Method)
			assert.JSONEq(t, `{"done":true}`, string(req.Body))
			return basic(http.StatusCreated, "ok"), nil
		})

	resp, err := w.Handle(context.Background(), &domain.Request{
		Method: http.MethodPost,
		URL:    f.url("/api/content/progress"),
		Header: make(http.Header),
		Body:   []byte(`{"done":true}`),
	})
	require.NoError(t, err)
	assert.Equal(t, http.StatusCreated, resp.Status)
	assert.Nil(t, f.cached(t, domain.TierContent, "/api/content/progress"))
}

func TestHandle_PassthroughErrorIsReturned(t *testing.T) {
	f := newFixture(t, true)
	w := f.active(t)

	f.fetcher.EXPECT().Fetch(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, domain.ErrNetworkUnavailable)

	target, err := url.Parse("https://project.supabase.co/rest/v1/items")
	require.NoError(t, err)
	_, err = w.Handle(context.Background(), &domain.Request{Method: http.MethodGet, URL: target})
	require.ErrorIs(t, err, domain.ErrNetworkUnavailable)
}

func TestShell_CachesOnlyOKSameOriginResponses(t *testing.T) {
	f := newFixture(t, true)
	w := f.active(t)

	f.fetcher.EXPECT().Fetch(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, req *domain.Request, _ domain.ProgressFunc) (*domain.Response, error) {
			switch req.URL.Path {
			case "/index.html":
				return basic(http.StatusOK, "<html>"), nil
			case "/partial.js":
				return basic(http.StatusPartialContent, "part"), nil
			default:
				resp := basic(http.StatusOK, "opaque")
				resp.Type = domain.ResponseOpaque
				return resp, nil
			}
		}).Times(4)

	first := f.get(t, w, "/index.html", false)
	assert.False(t, first.FromCache)
	second := f.get(t, w, "/index.html", false)
	assert.True(t, second.FromCache)
	assert.Equal(t, "<html>", string(second.Body))

	f.get(t, w, "/partial.js", false)
	f.get(t, w, "/partial.js", false)
	assert.Nil(t, f.cached(t, domain.TierShell, "/partial.js"))

	f.get(t, w, "/opaque.css", false)
	assert.Nil(t, f.cached(t, domain.TierShell, "/opaque.css"))
}

func TestShell_OfflineNavigationFallsBackToRoot(t *testing.T) {
	f := newFixture(t, false)
	f.seed(t, domain.TierShell, "/", "<html>app</html>")
	w := f.active(t)

	resp := f.get(t, w, "/courses/42", true)
	assert.Equal(t, http.StatusOK, resp.Status)
	assert.True(t, resp.FromCache)
	assert.Equal(t, "<html>app</html>", string(resp.Body))

	resp = f.get(t, w, "/assets/missing.js", false)
	assert.Equal(t, http.StatusServiceUnavailable, resp.Status)
	assert.Empty(t, resp.Body)
}

func TestShell_NetworkFailureWithoutFallback(t *testing.T) {
	f := newFixture(t, true)
	w := f.active(t)

	f.fetcher.EXPECT().Fetch(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, domain.ErrNetworkUnavailable)

	resp := f.get(t, w, "/courses/42", true)
	assert.Equal(t, http.StatusServiceUnavailable, resp.Status)
}

func TestContent_StaleWhileRevalidate(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		f := newFixture(t, true)
		f.seed(t, domain.TierContent, "/api/content/1", `"R1"`)
		w := f.active(t)

		release := make(chan struct{})
		var calls atomic.Int32
		f.fetcher.EXPECT().Fetch(gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(context.Context, *domain.Request, domain.ProgressFunc) (*domain.Response, error) {
				calls.Add(1)
				<-release
				return basic(http.StatusOK, `"R2"`), nil
			}).AnyTimes()

		resp := f.get(t, w, "/api/content/1", false)
		assert.True(t, resp.FromCache)
		assert.Equal(t, `"R1"`, string(resp.Body))

		// A second request while the refresh is in flight shares it.
		resp = f.get(t, w, "/api/content/1", false)
		assert.Equal(t, `"R1"`, string(resp.Body))
		synctest.Wait()
		assert.Equal(t, int32(1), calls.Load())

		close(release)
		w.Wait()

		resp = f.get(t, w, "/api/content/1", false)
		assert.True(t, resp.FromCache)
		assert.Equal(t, `"R2"`, string(resp.Body))
		w.Wait()
	})
}

func TestContent_CachedCopySurvivesNetworkFailure(t *testing.T) {
	f := newFixture(t, true)
	f.seed(t, domain.TierContent, "/api/content/1", `"R1"`)
	w := f.active(t)

	f.fetcher.EXPECT().Fetch(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(nil, domain.ErrNetworkUnavailable).AnyTimes()

	for range 3 {
		resp := f.get(t, w, "/api/content/1", false)
		assert.Equal(t, `"R1"`, string(resp.Body))
		w.Wait()
	}
	assert.Equal(t, `"R1"`, string(f.cached(t, domain.TierContent, "/api/content/1").Payload))
}

func TestContent_OfflineHitSkipsRefresh(t *testing.T) {
	f := newFixture(t, false)
	f.seed(t, domain.TierContent, "/api/content/1", `"R1"`)
	w := f.active(t)

	resp := f.get(t, w, "/api/content/1", false)
	w.Wait()
	assert.Equal(t, `"R1"`, string(resp.Body))
}

func TestContent_MissStoresSuccessfulResponses(t *testing.T) {
	f := newFixture(t, true)
	w := f.active(t)

	f.fetcher.EXPECT().Fetch(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, req *domain.Request, _ domain.ProgressFunc) (*domain.Response, error) {
			if req.URL.Path == "/api/content/gone" {
				return basic(http.StatusNotFound, "missing"), nil
			}
			return basic(http.StatusOK, `{"title":"X"}`), nil
		}).Times(2)

	resp := f.get(t, w, "/api/content/1", false)
	assert.Equal(t, http.StatusOK, resp.Status)
	require.NotNil(t, f.cached(t, domain.TierContent, "/api/content/1"))

	resp = f.get(t, w, "/api/content/gone", false)
	assert.Equal(t, http.StatusNotFound, resp.Status)
	assert.Nil(t, f.cached(t, domain.TierContent, "/api/content/gone"))
}

func TestContent_OfflineMissSynthesizesNetworkError(t *testing.T) {
	f := newFixture(t, false)
	w := f.active(t)

	resp := f.get(t, w, "/api/content/1", false)
	assert.Equal(t, http.StatusRequestTimeout, resp.Status)
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))
	assert.JSONEq(t,
		`{"error":"Network unavailable","offline":true,"url":"https://app.example/api/content/1"}`,
		string(resp.Body))
}

func TestModel_CacheFirstNeverRefetches(t *testing.T) {
	f := newFixture(t, true)
	w := f.active(t)

	f.fetcher.EXPECT().Fetch(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(respond(basic(http.StatusOK, "weights"))).Times(1)

	first := f.get(t, w, "/api/ai-models/tiny.bin", false)
	assert.False(t, first.FromCache)

	for range 3 {
		resp := f.get(t, w, "/api/ai-models/tiny.bin", false)
		assert.True(t, resp.FromCache)
		assert.Equal(t, "weights", string(resp.Body))
	}
	w.Wait()

	msgs := f.events.messages()
	require.Len(t, msgs, 1)
	assert.Equal(t, domain.KindModelDownloaded, msgs[0].Type)
	var payload domain.ModelDownloadedPayload
	require.NoError(t, msgs[0].Decode(&payload))
	assert.Equal(t, "https://app.example/api/ai-models/tiny.bin", payload.ModelURL)
}

func TestModel_OfflineMissReturns408(t *testing.T) {
	f := newFixture(t, false)
	w := f.active(t)

	resp := f.get(t, w, "/api/ai-models/tiny.bin", false)
	assert.Equal(t, http.StatusRequestTimeout, resp.Status)
	assert.Empty(t, f.events.messages())
}

func TestModel_BudgetExceededSkipsCaching(t *testing.T) {
	f := newFixture(t, true)
	w := f.active(t, worker.WithModelBudget(func(context.Context) int64 { return 4 }))

	f.fetcher.EXPECT().Fetch(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(respond(basic(http.StatusOK, "0123456789"))).Times(2)

	resp := f.get(t, w, "/api/ai-models/big.bin", false)
	assert.Equal(t, "0123456789", string(resp.Body))
	assert.Nil(t, f.cached(t, domain.TierModel, "/api/ai-models/big.bin"))

	f.get(t, w, "/api/ai-models/big.bin", false)
	assert.Empty(t, f.events.messages())
}

func TestActivate_DeletesNamespacesOutsideWhitelist(t *testing.T) {
	f := newFixture(t, true)
	f.seed(t, domain.TierShell, "/", "current")
	f.seed(t, domain.TierModel, "/api/ai-models/a.bin", "model")
	require.NoError(t, f.cache.Put(domain.TierShell.Namespace("v0"), &domain.CacheEntry{Key: "old", Status: http.StatusOK}))
	require.NoError(t, f.cache.Put("scratch", &domain.CacheEntry{Key: "x", Status: http.StatusOK}))

	w := f.worker()
	require.NoError(t, w.Activate(context.Background()))
	assert.True(t, w.Active())

	namespaces, err := f.cache.Namespaces()
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{
		domain.TierShell.Namespace(f.cfg.Version),
		domain.TierModel.Namespace(f.cfg.Version),
	}, namespaces)

	// Activating again is harmless.
	require.NoError(t, w.Activate(context.Background()))
}

func TestInstall_PrecachesShellAndSkipsFailures(t *testing.T) {
	f := newFixture(t, true)
	f.cfg.Shell.Precache = []string{"/", "/index.html", "/manifest.json"}
	f.cfg.SkipWaiting = true

	f.fetcher.EXPECT().Fetch(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, req *domain.Request, _ domain.ProgressFunc) (*domain.Response, error) {
			if req.URL.Path == "/manifest.json" {
				return nil, domain.ErrNetworkUnavailable
			}
			return basic(http.StatusOK, "shell:"+req.URL.Path), nil
		}).Times(3)

	w := f.worker()
	stored, err := w.Install(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, stored)
	assert.True(t, w.Active())
	assert.Equal(t, "shell:/index.html", string(f.cached(t, domain.TierShell, "/index.html").Payload))
	assert.Nil(t, f.cached(t, domain.TierShell, "/manifest.json"))
}

func TestInstall_FirstInstallActivates(t *testing.T) {
	f := newFixture(t, true)
	f.cfg.Shell.Precache = []string{"/"}
	f.fetcher.EXPECT().Fetch(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(respond(basic(http.StatusOK, "shell")))

	w := f.worker()
	_, err := w.Install(context.Background())
	require.NoError(t, err)
	require.True(t, w.Active())

	f.fetcher.EXPECT().Fetch(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(respond(basic(http.StatusOK, `{"module":42}`)))
	f.get(t, w, "/api/content/module/42", false)
	assert.Equal(t, `{"module":42}`, string(f.cached(t, domain.TierContent, "/api/content/module/42").Payload))
}

func TestInstall_SameVersionRestartServesOffline(t *testing.T) {
	f := newFixture(t, false)
	f.seed(t, domain.TierShell, "/", "from last run")
	require.NoError(t, f.cache.Put("scratch", &domain.CacheEntry{Key: "x", Status: http.StatusOK}))

	w := f.worker()
	_, err := w.Install(context.Background())
	require.NoError(t, err)
	require.True(t, w.Active())

	resp := f.get(t, w, "/lessons/intro", true)
	assert.True(t, resp.FromCache)
	assert.Equal(t, "from last run", string(resp.Body))
}

func TestInstall_OlderVersionWaitsForSkipWaiting(t *testing.T) {
	f := newFixture(t, false)
	f.seed(t, domain.TierShell, "/", "from last run")
	require.NoError(t, f.cache.Put(domain.TierShell.Namespace("v0"), &domain.CacheEntry{Key: "old", Status: http.StatusOK}))

	w := f.worker()
	stored, err := w.Install(context.Background())
	require.NoError(t, err)
	assert.Zero(t, stored)
	assert.False(t, w.Active())

	require.NoError(t, w.HandleSkipWaiting(context.Background(), domain.NewMessage(domain.KindSkipWaiting, nil)))
	assert.True(t, w.Active())
	assert.Equal(t, "from last run", string(f.get(t, w, "/", true).Body))

	namespaces, err := f.cache.Namespaces()
	require.NoError(t, err)
	assert.NotContains(t, namespaces, domain.TierShell.Namespace("v0"))
}

func TestDownload_ReportsProgressAndCompletes(t *testing.T) {
	f := newFixture(t, true)
	w := f.active(t)

	f.fetcher.EXPECT().Fetch(gomock.Any(), gomock.Any(), gomock.Not(gomock.Nil())).
		DoAndReturn(func(_ context.Context, _ *domain.Request, progress domain.ProgressFunc) (*domain.Response, error) {
			progress(25, 100)
			progress(25, 100)
			progress(60, 100)
			progress(100, 100)
			return basic(http.StatusOK, `{"lesson":1}`), nil
		})

	require.NoError(t, w.Download(context.Background(), "course-1", "/api/content/course-1"))
	require.NotNil(t, f.cached(t, domain.TierContent, "/api/content/course-1"))

	msgs := f.events.messages()
	require.Len(t, msgs, 4)
	var progress []int
	for _, m := range msgs[:3] {
		require.Equal(t, domain.KindDownloadProgress, m.Type)
		var p domain.DownloadProgressPayload
		require.NoError(t, m.Decode(&p))
		assert.Equal(t, "course-1", p.ContentID)
		progress = append(progress, p.Progress)
	}
	assert.Equal(t, []int{25, 60, 100}, progress)

	require.Equal(t, domain.KindDownloadComplete, msgs[3].Type)
	var done domain.DownloadCompletePayload
	require.NoError(t, msgs[3].Decode(&done))
	assert.Equal(t, domain.Timestamp(fixedNow), done.Timestamp)
}

func TestDownload_ModelAnnouncesAsset(t *testing.T) {
	f := newFixture(t, true)
	w := f.active(t)

	f.fetcher.EXPECT().Fetch(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(respond(basic(http.StatusOK, "weights")))

	require.NoError(t, w.Download(context.Background(), "tiny", "/api/ai-models/tiny.bin"))
	assert.Equal(t, []domain.MessageKind{
		domain.KindModelDownloaded,
		domain.KindDownloadProgress,
		domain.KindDownloadComplete,
	}, f.events.kinds())
}

func TestDownload_ShellResourceServedOffline(t *testing.T) {
	f := newFixture(t, true)
	w := f.active(t)

	f.fetcher.EXPECT().Fetch(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(respond(basic(http.StatusOK, "<h1>intro</h1>")))
	require.NoError(t, w.Download(context.Background(), "lesson-1", "/lessons/intro.html"))
	assert.Contains(t, f.events.kinds(), domain.KindDownloadComplete)

	f.state.Swap(domain.Offline)
	resp := f.get(t, w, "/lessons/intro.html", false)
	assert.Equal(t, http.StatusOK, resp.Status)
	assert.Equal(t, "<h1>intro</h1>", string(resp.Body))
}

func TestDownload_ShellResourceMustBeSameOriginOK(t *testing.T) {
	f := newFixture(t, true)
	w := f.active(t)

	f.fetcher.EXPECT().Fetch(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(respond(basic(http.StatusNoContent, "")))
	err := w.Download(context.Background(), "lesson-1", "/lessons/empty.html")
	require.ErrorContains(t, err, domain.ErrDownloadFailed.Error())
	assert.Nil(t, f.cached(t, domain.TierShell, "/lessons/empty.html"))
	assert.NotContains(t, f.events.kinds(), domain.KindDownloadComplete)
}

func TestDownload_Failures(t *testing.T) {
	t.Run("passthrough", func(t *testing.T) {
		f := newFixture(t, true)
		w := f.active(t)
		err := w.Download(context.Background(), "x", "https://api.openai.com/v1/models")
		require.ErrorContains(t, err, domain.ErrNotCacheable.Error())
	})

	t.Run("offline", func(t *testing.T) {
		f := newFixture(t, false)
		w := f.active(t)
		err := w.Download(context.Background(), "x", "/api/content/1")
		require.ErrorContains(t, err, domain.ErrDownloadFailed.Error())
		assert.Empty(t, f.events.messages())
	})

	t.Run("rejected", func(t *testing.T) {
		f := newFixture(t, true)
		w := f.active(t)
		f.fetcher.EXPECT().Fetch(gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(respond(basic(http.StatusInternalServerError, "boom")))
		err := w.Download(context.Background(), "x", "/api/content/1")
		require.ErrorContains(t, err, domain.ErrDownloadFailed.Error())
		assert.Nil(t, f.cached(t, domain.TierContent, "/api/content/1"))
	})
}

func TestHandleDownloadContent(t *testing.T) {
	f := newFixture(t, true)
	w := f.active(t)
	ctx := context.Background()

	err := w.HandleDownloadContent(ctx, domain.NewMessage(domain.KindDownloadContent, domain.DownloadContentPayload{ContentID: "c"}))
	require.ErrorContains(t, err, domain.ErrInvalidMessage.Error())

	f.fetcher.EXPECT().Fetch(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(respond(basic(http.StatusOK, `{"id":"c"}`)))

	require.NoError(t, w.HandleDownloadContent(ctx, domain.NewMessage(domain.KindDownloadContent, domain.DownloadContentPayload{
		ContentID: "c",
		URL:       "/api/content/c",
	})))
	w.Wait()

	require.NotNil(t, f.cached(t, domain.TierContent, "/api/content/c"))
	assert.Contains(t, f.events.kinds(), domain.KindDownloadComplete)
}

func TestModelBudget(t *testing.T) {
	tests := []struct {
		name      string
		settingMb int
		storageMb int
		want      int64
	}{
		{"unbounded", 0, 0, 0},
		{"setting only", 100, 0, 100 << 20},
		{"storage only", 0, 50, 50 << 20},
		{"setting smaller", 100, 500, 100 << 20},
		{"storage smaller", 500, 100, 100 << 20},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			budget := worker.ModelBudget(
				settingsFunc(func() domain.Settings { return domain.Settings{MaxStorageMb: tt.settingMb} }),
				profileFunc(func() domain.DeviceProfile { return domain.DeviceProfile{StorageMb: tt.storageMb} }),
			)
			assert.Equal(t, tt.want, budget(context.Background()))
		})
	}
}

type settingsFunc func() domain.Settings

func (f settingsFunc) Load(context.Context) (domain.Settings, error) { return f(), nil }

type profileFunc func() domain.DeviceProfile

func (f profileFunc) Profile(context.Context) (domain.DeviceProfile, error) { return f(), nil }
