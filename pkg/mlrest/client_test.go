package mlrest

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	zapobserver "go.uber.org/zap/zaptest/observer"
)

// recorded is a request captured by the test server.
type recorded struct {
	Method string
	Path   string
	Query  url.Values
	Header http.Header
	Body   string
}

type recorder struct {
	mu   sync.Mutex
	reqs []recorded
}

func (r *recorder) last(t *testing.T) recorded {
	t.Helper()
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.reqs) == 0 {
		t.Fatal("no requests recorded")
	}
	return r.reqs[len(r.reqs)-1]
}

// newTestServer starts a server that records requests and replies with
// status and body.
func newTestServer(t *testing.T, status int, body string, header http.Header) (*httptest.Server, *recorder) {
	t.Helper()
	rec := &recorder{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		rec.mu.Lock()
		rec.reqs = append(rec.reqs, recorded{
			Method: r.Method,
			Path:   r.URL.Path,
			Query:  r.URL.Query(),
			Header: r.Header.Clone(),
			Body:   string(b),
		})
		rec.mu.Unlock()
		for k, vs := range header {
			for _, v := range vs {
				w.Header().Add(k, v)
			}
		}
		w.WriteHeader(status)
		_, _ = io.WriteString(w, body)
	}))
	t.Cleanup(srv.Close)
	return srv, rec
}

func newTestClient(t *testing.T, srv *httptest.Server, opts ...Option) *Client {
	t.Helper()
	c, err := New(srv.URL, opts...)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return c
}

func TestNew_InvalidBaseURL(t *testing.T) {
	for _, raw := range []string{"", "localhost:8000", "ftp://host", "http://"} {
		if _, err := New(raw); err == nil {
			t.Errorf("New(%q): expected error", raw)
		}
	}
}

func TestClientOptions(t *testing.T) {
	cfg := &clientConfig{}
	hc := &http.Client{}
	WithHTTPClient(hc).apply(cfg)
	if cfg.httpClient != hc {
		t.Error("expected http client to be set")
	}

	WithAPIVersion("v2").apply(cfg)
	if cfg.apiVersion != "v2" {
		t.Errorf("apiVersion = %q, want v2", cfg.apiVersion)
	}

	WithBasicAuth("admin", "secret").apply(cfg)
	if cfg.user != "admin" || cfg.password != "secret" {
		t.Errorf("basic auth = %q/%q", cfg.user, cfg.password)
	}

	WithHeader("X-Test", "1").apply(cfg)
	if cfg.headers.Get("X-Test") != "1" {
		t.Error("expected header to be set")
	}

	reg := prometheus.NewRegistry()
	WithPrometheus(reg).apply(cfg)
	if cfg.metricsReg == nil {
		t.Error("expected registerer to be set")
	}

	WithLogger(zap.NewNop()).apply(cfg)
	if cfg.logger == nil {
		t.Error("expected logger to be set")
	}
}

func TestRequest_PrefixesAPIVersion(t *testing.T) {
	srv, rec := newTestServer(t, http.StatusOK, "{}", nil)
	c := newTestClient(t, srv)

	tests := []struct {
		endpoint string
		want     string
	}{
		{"/search", "/v1/search"},
		{"search", "/v1/search"},
		{"/v1/search", "/v1/search"},
		{"/v2/resources/x", "/v2/resources/x"},
		{"/vx/search", "/v1/vx/search"},
	}
	for _, tt := range tests {
		if _, err := c.Request(context.Background(), tt.endpoint, Settings{}); err != nil {
			t.Fatalf("Request(%s): %v", tt.endpoint, err)
		}
		if got := rec.last(t).Path; got != tt.want {
			t.Errorf("Request(%s) path = %q, want %q", tt.endpoint, got, tt.want)
		}
	}
}

func TestRequest_CustomAPIVersionAndBasePath(t *testing.T) {
	srv, rec := newTestServer(t, http.StatusOK, "{}", nil)
	c, err := New(srv.URL+"/ml/", WithAPIVersion("v2"))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if _, err := c.Request(context.Background(), "/search", Settings{}); err != nil {
		t.Fatalf("Request: %v", err)
	}
	if got := rec.last(t).Path; got != "/ml/v2/search" {
		t.Errorf("path = %q, want /ml/v2/search", got)
	}
}

func TestRequest_MethodOverride(t *testing.T) {
	srv, rec := newTestServer(t, http.StatusOK, "", nil)
	c := newTestClient(t, srv)

	tests := []struct {
		method       string
		wantMethod   string
		wantOverride string
	}{
		{"", http.MethodGet, ""},
		{"get", http.MethodGet, ""},
		{http.MethodPut, http.MethodPut, ""},
		{http.MethodPost, http.MethodPost, ""},
		{http.MethodDelete, http.MethodDelete, ""},
		{http.MethodPatch, http.MethodPost, http.MethodPatch},
		{http.MethodHead, http.MethodPost, http.MethodHead},
	}
	for _, tt := range tests {
		if _, err := c.Request(context.Background(), "/documents", Settings{Method: tt.method}); err != nil {
			t.Fatalf("Request(%s): %v", tt.method, err)
		}
		got := rec.last(t)
		if got.Method != tt.wantMethod {
			t.Errorf("method %q sent as %s, want %s", tt.method, got.Method, tt.wantMethod)
		}
		if o := got.Header.Get(headerMethodOverride); o != tt.wantOverride {
			t.Errorf("method %q override = %q, want %q", tt.method, o, tt.wantOverride)
		}
	}
}

func TestRequest_Body(t *testing.T) {
	srv, rec := newTestServer(t, http.StatusOK, "", nil)
	c := newTestClient(t, srv)
	ctx := context.Background()

	tests := []struct {
		name     string
		data     any
		wantBody string
		wantCT   string
	}{
		{"json", map[string]any{"a": 1}, `{"a":1}`, "application/json"},
		{"string", "<doc/>", "<doc/>", ""},
		{"bytes", []byte("raw"), "raw", ""},
		{"reader", strings.NewReader("streamed"), "streamed", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := c.Request(ctx, "/documents", Settings{Method: http.MethodPut, Data: tt.data}); err != nil {
				t.Fatalf("Request: %v", err)
			}
			got := rec.last(t)
			if got.Body != tt.wantBody {
				t.Errorf("body = %q, want %q", got.Body, tt.wantBody)
			}
			if ct := got.Header.Get("Content-Type"); ct != tt.wantCT {
				t.Errorf("content-type = %q, want %q", ct, tt.wantCT)
			}
		})
	}
}

func TestRequest_EncodeError(t *testing.T) {
	srv, _ := newTestServer(t, http.StatusOK, "", nil)
	c := newTestClient(t, srv)
	_, err := c.Request(context.Background(), "/documents", Settings{Method: http.MethodPut, Data: make(chan int)})
	if err == nil {
		t.Fatal("expected encode error")
	}
}

func TestRequest_HeadersAndAuth(t *testing.T) {
	srv, rec := newTestServer(t, http.StatusOK, "", nil)
	c := newTestClient(t, srv,
		WithBasicAuth("admin", "secret"),
		WithHeader("X-Client", "default"),
		WithHeader("X-Shared", "default"),
	)

	hdr := http.Header{"X-Shared": {"request"}}
	if _, err := c.Request(context.Background(), "/search", Settings{Headers: hdr}); err != nil {
		t.Fatalf("Request: %v", err)
	}
	got := rec.last(t)
	if got.Header.Get("X-Client") != "default" {
		t.Errorf("X-Client = %q", got.Header.Get("X-Client"))
	}
	if got.Header.Get("X-Shared") != "request" {
		t.Errorf("X-Shared = %q, want request", got.Header.Get("X-Shared"))
	}
	user, pass, ok := (&http.Request{Header: got.Header}).BasicAuth()
	if !ok || user != "admin" || pass != "secret" {
		t.Errorf("basic auth = %q/%q (%v)", user, pass, ok)
	}
}

func TestRequest_DoesNotMutateSettings(t *testing.T) {
	srv, _ := newTestServer(t, http.StatusOK, "", nil)
	c := newTestClient(t, srv)

	params := url.Values{"q": {"foo"}}
	hdr := http.Header{"X-A": {"1"}}
	if _, err := c.Request(context.Background(), "/search", Settings{Method: http.MethodPatch, Params: params, Headers: hdr}); err != nil {
		t.Fatalf("Request: %v", err)
	}
	if _, err := c.Search(context.Background(), params, nil); err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(params) != 1 || params.Get("format") != "" {
		t.Errorf("params mutated: %v", params)
	}
	if len(hdr) != 1 || hdr.Get(headerMethodOverride) != "" {
		t.Errorf("headers mutated: %v", hdr)
	}
}

func TestRequest_APIError(t *testing.T) {
	tests := []struct {
		status int
		want   error
	}{
		{http.StatusNotFound, ErrNotFound},
		{http.StatusUnauthorized, ErrUnauthorized},
		{http.StatusForbidden, ErrUnauthorized},
		{http.StatusBadRequest, ErrBadRequest},
		{http.StatusInternalServerError, ErrServer},
		{http.StatusServiceUnavailable, ErrServer},
	}
	for _, tt := range tests {
		t.Run(http.StatusText(tt.status), func(t *testing.T) {
			srv, _ := newTestServer(t, tt.status, `{"errorResponse":{"message":"boom"}}`, nil)
			c := newTestClient(t, srv)

			_, err := c.Request(context.Background(), "/search", Settings{})
			if !errors.Is(err, tt.want) {
				t.Fatalf("err = %v, want %v", err, tt.want)
			}
			var apiErr *APIError
			if !errors.As(err, &apiErr) {
				t.Fatalf("expected *APIError, got %T", err)
			}
			if apiErr.StatusCode != tt.status {
				t.Errorf("status = %d, want %d", apiErr.StatusCode, tt.status)
			}
			if !strings.Contains(err.Error(), "boom") {
				t.Errorf("error %q should include response body", err.Error())
			}
		})
	}
}

func TestAPIError_DoesNotMatchOtherSentinels(t *testing.T) {
	err := &APIError{StatusCode: http.StatusNotFound}
	if errors.Is(err, ErrServer) || errors.Is(err, ErrBadRequest) {
		t.Error("404 should only match ErrNotFound")
	}
}

func TestRequest_ContextCanceled(t *testing.T) {
	srv, _ := newTestServer(t, http.StatusOK, "", nil)
	c := newTestClient(t, srv)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := c.Request(ctx, "/search", Settings{}); !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}

func TestClient_URL(t *testing.T) {
	c, err := New("http://localhost:8000")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	got := c.URL("/documents", url.Values{"uri": {"/a b.json"}})
	want := "http://localhost:8000/v1/documents?uri=%2Fa+b.json"
	if got != want {
		t.Errorf("URL = %q, want %q", got, want)
	}
}

func TestObserver_NilSafe(t *testing.T) {
	// nil observer should not panic.
	var obs *observer
	obs.observe("test", time.Now(), nil)
	obs.observe("test", time.Now(), errors.New("err"))
}

func TestObserver_WithPrometheus(t *testing.T) {
	reg := prometheus.NewRegistry()
	obs, err := newObserver(nil, reg)
	if err != nil {
		t.Fatalf("newObserver: %v", err)
	}

	obs.observe("document.get", time.Now().Add(-10*time.Millisecond), nil)
	obs.observe("document.get", time.Now(), errors.New("fail"))

	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather: %v", err)
	}

	found := false
	for _, f := range families {
		if f.GetName() == "mlcommon_client_requests_total" {
			found = true
			if len(f.GetMetric()) != 2 {
				t.Errorf("expected 2 metric samples, got %d", len(f.GetMetric()))
			}
		}
	}
	if !found {
		t.Error("mlcommon_client_requests_total not found")
	}
}

func TestObserver_ReusesRegisteredMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	if _, err := newObserver(nil, reg); err != nil {
		t.Fatalf("first newObserver: %v", err)
	}
	if _, err := newObserver(nil, reg); err != nil {
		t.Fatalf("second newObserver: %v", err)
	}
}

func TestObserver_WithLogger(t *testing.T) {
	core, logs := zapobserver.New(zapcore.DebugLevel)
	obs, err := newObserver(zap.New(core), nil)
	if err != nil {
		t.Fatalf("newObserver: %v", err)
	}
	obs.observe("test.op", time.Now(), nil)
	obs.observe("test.op", time.Now(), errors.New("test error"))

	if n := logs.FilterMessage("marklogic call completed").Len(); n != 1 {
		t.Errorf("completed entries = %d, want 1", n)
	}
	failed := logs.FilterMessage("marklogic call failed").All()
	if len(failed) != 1 || failed[0].Level != zapcore.WarnLevel {
		t.Fatalf("failed entries = %v", failed)
	}
	if failed[0].ContextMap()["op"] != "test.op" {
		t.Errorf("op = %v", failed[0].ContextMap()["op"])
	}
	if failed[0].ContextMap()["outcome"] != outcomeTransport {
		t.Errorf("outcome = %v", failed[0].ContextMap()["outcome"])
	}
}

func TestObserver_LogsAPIErrorDetails(t *testing.T) {
	core, logs := zapobserver.New(zapcore.DebugLevel)
	obs, err := newObserver(zap.New(core), nil)
	if err != nil {
		t.Fatalf("newObserver: %v", err)
	}
	obs.observe("search", time.Now(), fmt.Errorf("search: %w", &APIError{
		Method: http.MethodGet, URL: "http://ml/v1/search", StatusCode: http.StatusInternalServerError,
	}))
	obs.observe("document.get", time.Now(), &APIError{StatusCode: http.StatusNotFound})

	entries := logs.FilterMessage("marklogic call failed").All()
	if len(entries) != 2 {
		t.Fatalf("entries = %d, want 2", len(entries))
	}
	fields := entries[0].ContextMap()
	if entries[0].Level != zapcore.WarnLevel || fields["status"] != int64(500) || fields["url"] != "http://ml/v1/search" {
		t.Errorf("server error entry = %v %v", entries[0].Level, fields)
	}
	if entries[1].Level != zapcore.DebugLevel {
		t.Errorf("not found level = %v, want debug", entries[1].Level)
	}
}

func TestOutcomeOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"nil", nil, outcomeOK},
		{"not found", &APIError{StatusCode: http.StatusNotFound}, outcomeNotFound},
		{"unauthorized", &APIError{StatusCode: http.StatusUnauthorized}, outcomeUnauthorized},
		{"forbidden", &APIError{StatusCode: http.StatusForbidden}, outcomeUnauthorized},
		{"bad request", &APIError{StatusCode: http.StatusBadRequest}, outcomeClientError},
		{"conflict", &APIError{StatusCode: http.StatusConflict}, outcomeClientError},
		{"server", fmt.Errorf("wrapped: %w", &APIError{StatusCode: http.StatusServiceUnavailable}), outcomeServerError},
		{"canceled", fmt.Errorf("do: %w", context.Canceled), outcomeCanceled},
		{"transport", errors.New("connection refused"), outcomeTransport},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := outcomeOf(tt.err); got != tt.want {
				t.Errorf("outcomeOf(%v) = %q, want %q", tt.err, got, tt.want)
			}
		})
	}
}

func TestClient_ObservesOperations(t *testing.T) {
	srv, _ := newTestServer(t, http.StatusOK, "{}", nil)
	reg := prometheus.NewRegistry()
	c := newTestClient(t, srv, WithPrometheus(reg))

	if _, err := c.Search(context.Background(), nil, nil); err != nil {
		t.Fatalf("Search: %v", err)
	}

	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather: %v", err)
	}
	for _, f := range families {
		if f.GetName() != "mlcommon_client_requests_total" {
			continue
		}
		for _, m := range f.GetMetric() {
			for _, l := range m.GetLabel() {
				if l.GetName() == "operation" && l.GetValue() == "search" {
					return
				}
			}
		}
	}
	t.Error("search operation not counted")
}
