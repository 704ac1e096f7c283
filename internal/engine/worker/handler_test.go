package worker_test

import (
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/lantern/internal/adapters/cachestore"
	"go.trai.ch/lantern/internal/adapters/network"
	"go.trai.ch/lantern/internal/adapters/telemetry"
	"go.trai.ch/lantern/internal/core/domain"
	"go.trai.ch/lantern/internal/core/ports/mocks"
	"go.trai.ch/lantern/internal/engine/connstate"
	"go.trai.ch/lantern/internal/engine/worker"
	"go.uber.org/mock/gomock"
)

type edge struct {
	origin *httptest.Server
	front  *httptest.Server
	state  *connstate.State
	worker *worker.Worker
	shell  atomic.Int32
}

func newEdge(t *testing.T) *edge {
	t.Helper()
	e := &edge{}

	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		e.shell.Add(1)
		w.Header().Set("Content-Type", "text/html")
		_, _ = io.WriteString(w, "<html>shell</html>")
	})
	mux.HandleFunc("/api/content/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"path":"`+r.URL.Path+`","q":"`+r.URL.Query().Get("lang")+`"}`)
	})
	e.origin = httptest.NewServer(mux)
	t.Cleanup(e.origin.Close)

	origin, err := url.Parse(e.origin.URL)
	require.NoError(t, err)
	cfg := domain.DefaultConfig()
	cfg.Origin = origin
	cfg.DataDir = t.TempDir()

	ctrl := gomock.NewController(t)
	log := mocks.NewMockLogger(ctrl)
	log.EXPECT().Info(gomock.Any(), gomock.Any()).AnyTimes()
	log.EXPECT().Warn(gomock.Any(), gomock.Any()).AnyTimes()

	e.state = connstate.New(domain.Online)
	e.worker = worker.New(cfg,
		cachestore.NewStore(domain.CachePath(cfg.DataDir)),
		network.NewHTTPFetcher(origin, nil),
		e.state, &recorder{}, log, telemetry.NewNoOpTracer())
	t.Cleanup(e.worker.Wait)

	e.front = httptest.NewServer(worker.NewHandler(e.worker, log))
	t.Cleanup(e.front.Close)
	return e
}

func (e *edge) get(t *testing.T, path string, header http.Header) *http.Response {
	t.Helper()
	req, err := http.NewRequestWithContext(t.Context(), http.MethodGet, e.front.URL+path, http.NoBody)
	require.NoError(t, err)
	for k, v := range header {
		req.Header[k] = v
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

func body(t *testing.T, resp *http.Response) string {
	t.Helper()
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return string(data)
}

func TestHandler_ServesOriginThroughTiers(t *testing.T) {
	e := newEdge(t)
	require.NoError(t, e.worker.Activate(t.Context()))

	resp := e.get(t, "/api/content/1?lang=sw", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"path":"/api/content/1","q":"sw"}`, body(t, resp))
	assert.Empty(t, resp.Header.Get("X-Lantern-Cache"))
	e.worker.Wait()

	resp = e.get(t, "/api/content/1?lang=sw", nil)
	assert.Equal(t, "hit", resp.Header.Get("X-Lantern-Cache"))
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))
	assert.JSONEq(t, `{"path":"/api/content/1","q":"sw"}`, body(t, resp))
}

func TestHandler_OfflineNavigationUsesShellFallback(t *testing.T) {
	e := newEdge(t)
	require.NoError(t, e.worker.Activate(t.Context()))

	resp := e.get(t, "/", http.Header{"Accept": {"text/html"}})
	assert.Equal(t, "<html>shell</html>", body(t, resp))

	e.state.Swap(domain.Offline)
	e.origin.Close()

	resp = e.get(t, "/lessons/7", http.Header{"Sec-Fetch-Mode": {"navigate"}})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "<html>shell</html>", body(t, resp))

	resp = e.get(t, "/api/content/9", nil)
	assert.Equal(t, http.StatusRequestTimeout, resp.StatusCode)
	assert.Equal(t, int32(1), e.shell.Load())
}

func TestHandler_UnreachablePassthroughIsBadGateway(t *testing.T) {
	e := newEdge(t)
	e.origin.Close()

	resp := e.get(t, "/", nil)
	assert.Equal(t, http.StatusBadGateway, resp.StatusCode)
}
