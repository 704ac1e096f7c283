// Package network performs the worker's outbound HTTP requests.
package network

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"net/url"

	"go.trai.ch/lantern/internal/core/domain"
	"go.trai.ch/lantern/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.Fetcher = (*HTTPFetcher)(nil)

// hopHeaders are connection-specific and never forwarded.
var hopHeaders = []string{
	"Connection",
	"Keep-Alive",
	"Proxy-Authenticate",
	"Proxy-Authorization",
	"Proxy-Connection",
	"Te",
	"Trailer",
	"Transfer-Encoding",
	"Upgrade",
}

// HTTPFetcher implements ports.Fetcher with net/http.
// Redirects are returned to the caller rather than followed.
type HTTPFetcher struct {
	client *http.Client
	origin *url.URL
}

// NewHTTPFetcher creates a fetcher. Responses from origin are typed basic, all others opaque.
func NewHTTPFetcher(origin *url.URL, transport http.RoundTripper) *HTTPFetcher {
	if transport == nil {
		transport = http.DefaultTransport
	}
	return &HTTPFetcher{
		origin: origin,
		client: &http.Client{
			Transport: transport,
			CheckRedirect: func(*http.Request, []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
	}
}

// Fetch issues req and reads the full body, reporting progress as bytes arrive.
func (f *HTTPFetcher) Fetch(ctx context.Context, req *domain.Request, progress domain.ProgressFunc) (*domain.Response, error) {
	var body io.Reader
	if len(req.Body) > 0 {
		body = bytes.NewReader(req.Body)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, req.URL.String(), body)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, "failed to build request"), "url", req.URL.String())
	}
	httpReq.Header = cleanHeader(req.Header)

	resp, err := f.client.Do(httpReq)
	if err != nil {
		return nil, unavailable(err, req.URL)
	}
	defer func() { _ = resp.Body.Close() }()

	reader := io.Reader(resp.Body)
	if progress != nil {
		reader = &progressReader{r: resp.Body, total: resp.ContentLength, fn: progress}
	}

	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, unavailable(err, req.URL)
	}

	return &domain.Response{
		Status: resp.StatusCode,
		Header: cleanHeader(resp.Header),
		Body:   data,
		Type:   f.responseType(req.URL),
	}, nil
}

func (f *HTTPFetcher) responseType(target *url.URL) domain.ResponseType {
	if f.origin != nil && target.Scheme == f.origin.Scheme && target.Host == f.origin.Host {
		return domain.ResponseBasic
	}
	return domain.ResponseOpaque
}

func unavailable(err error, target *url.URL) error {
	return errors.Join(domain.ErrNetworkUnavailable, zerr.With(zerr.Wrap(err, "fetch failed"), "url", target.String()))
}

func cleanHeader(h http.Header) http.Header {
	out := h.Clone()
	if out == nil {
		out = make(http.Header)
	}
	for _, name := range hopHeaders {
		out.Del(name)
	}
	return out
}

type progressReader struct {
	r     io.Reader
	read  int64
	total int64
	fn    domain.ProgressFunc
}

func (p *progressReader) Read(b []byte) (int, error) {
	n, err := p.r.Read(b)
	if n > 0 {
		p.read += int64(n)
		p.fn(p.read, p.total)
	}
	return n, err
}
