package domain

import (
	"encoding/json"
	"net/http"
	"net/url"
	"time"
)

// ResponseType mirrors the fetch response types relevant to caching decisions.
type ResponseType string

const (
	// ResponseBasic is a same-origin response.
	ResponseBasic ResponseType = "basic"
	// ResponseOpaque is a cross-origin response the worker may not inspect or cache.
	ResponseOpaque ResponseType = "opaque"
	// ResponseSynthetic is generated locally by the worker.
	ResponseSynthetic ResponseType = "synthetic"
)

// StatusRequestTimeout is the status of the synthesized response for failed content and model fetches.
const StatusRequestTimeout = http.StatusRequestTimeout

// Request is a network request intercepted by the worker.
type Request struct {
	Method   string
	URL      *url.URL
	Header   http.Header
	Body     []byte
	Navigate bool
}

// Key returns the cache key for the request.
func (r *Request) Key() string {
	return r.URL.String()
}

// Response is the worker's answer to a Request.
type Response struct {
	Status    int
	Header    http.Header
	Body      []byte
	Type      ResponseType
	FromCache bool
}

// OK reports whether the status is in the 2xx range.
func (r *Response) OK() bool {
	return r.Status >= 200 && r.Status <= 299
}

// ProgressFunc receives the number of bytes read so far and the expected total.
// total is -1 when the length is unknown.
type ProgressFunc func(read, total int64)

// NetworkErrorBody is the JSON body of a synthesized network failure.
type NetworkErrorBody struct {
	Error   string `json:"error"`
	Offline bool   `json:"offline"`
	URL     string `json:"url,omitempty"`
}

// NetworkErrorResponse synthesizes the 408 response returned when content or model fetches fail.
func NetworkErrorResponse(target string) *Response {
	body, _ := json.Marshal(NetworkErrorBody{
		Error:   "Network unavailable",
		Offline: true,
		URL:     target,
	})
	h := make(http.Header)
	h.Set("Content-Type", "application/json")
	h.Set("Cache-Control", "no-store")
	return &Response{
		Status: StatusRequestTimeout,
		Header: h,
		Body:   body,
		Type:   ResponseSynthetic,
	}
}

// EmptyFailureResponse is returned for non-navigation shell requests that fail with no cached copy.
func EmptyFailureResponse() *Response {
	return &Response{
		Status: http.StatusServiceUnavailable,
		Header: make(http.Header),
		Type:   ResponseSynthetic,
	}
}

// Timestamp returns t as Unix milliseconds, the unit pages expect in bridge payloads.
func Timestamp(t time.Time) int64 {
	return t.UnixMilli()
}
