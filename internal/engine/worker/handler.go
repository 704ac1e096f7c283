package worker

import (
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"go.trai.ch/lantern/internal/core/domain"
	"go.trai.ch/lantern/internal/core/ports"
)

// maxRequestBody bounds request bodies forwarded by the worker.
const maxRequestBody = 32 << 20

// Handler exposes a Worker over HTTP. Origin-form requests are served as the
// app origin; absolute-form requests are forwarded as a proxy.
type Handler struct {
	worker *Worker
	logger ports.Logger
}

// NewHandler creates a Handler for w.
func NewHandler(w *Worker, logger ports.Logger) *Handler {
	return &Handler{worker: w, logger: logger}
}

// ServeHTTP implements http.Handler.
func (h *Handler) ServeHTTP(rw http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(rw, r.Body, maxRequestBody))
	if err != nil {
		http.Error(rw, "request body too large", http.StatusRequestEntityTooLarge)
		return
	}

	header := r.Header.Clone()
	header.Del("Accept-Encoding")

	req := &domain.Request{
		Method:   r.Method,
		URL:      h.target(r),
		Header:   header,
		Body:     body,
		Navigate: isNavigation(r),
	}

	resp, err := h.worker.Handle(r.Context(), req)
	if err != nil {
		h.logger.Warn("upstream unreachable", "url", req.Key())
		http.Error(rw, "upstream unreachable", http.StatusBadGateway)
		return
	}

	out := rw.Header()
	for k, v := range resp.Header {
		out[k] = v
	}
	out.Del("Content-Encoding")
	out.Set("Content-Length", strconv.Itoa(len(resp.Body)))
	if resp.FromCache {
		out.Set("X-Lantern-Cache", "hit")
	}
	rw.WriteHeader(resp.Status)
	if r.Method != http.MethodHead {
		_, _ = rw.Write(resp.Body)
	}
}

func (h *Handler) target(r *http.Request) *url.URL {
	if r.URL.IsAbs() {
		u := *r.URL
		return &u
	}
	ref := &url.URL{Path: r.URL.Path, RawPath: r.URL.RawPath, RawQuery: r.URL.RawQuery}
	return h.worker.cfg.Origin.ResolveReference(ref)
}

func isNavigation(r *http.Request) bool {
	if r.Method != http.MethodGet {
		return false
	}
	if mode := r.Header.Get("Sec-Fetch-Mode"); mode != "" {
		return mode == "navigate"
	}
	return strings.Contains(r.Header.Get("Accept"), "text/html")
}
