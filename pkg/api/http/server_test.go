package http

import (
	"context"
	"encoding/json"
	"io"
	"net"
	nethttp "net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/aescanero/rxplay/pkg/domain"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

type recordingMetrics struct {
	mu       sync.Mutex
	requests []string
}

func (m *recordingMetrics) RecordHTTPRequest(method, path string, status int, _ time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requests = append(m.requests, method+" "+path)
}

func (m *recordingMetrics) RecordDemoRun(string, domain.RunStatus, time.Duration) {}

func (m *recordingMetrics) IncItemsEmitted(string) {}

func TestHelloReturnsStaticPayload(t *testing.T) {
	s := NewServer(&Config{Logger: zap.NewNop()})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(nethttp.MethodGet, "/", nil)
	s.Handler().ServeHTTP(rec, req)

	if rec.Code != nethttp.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if got := rec.Body.String(); got != `{"success":true,"body":"Hello World"}` {
		t.Fatalf("unexpected body %s", got)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json; charset=utf-8" {
		t.Fatalf("unexpected content type %q", ct)
	}
}

func TestHelloIgnoresRequestBody(t *testing.T) {
	s := NewServer(&Config{})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(nethttp.MethodGet, "/?x=1", nil)
	s.Handler().ServeHTTP(rec, req)

	var resp HelloResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if !resp.Success || resp.Body != "Hello World" {
		t.Fatalf("unexpected response %+v", resp)
	}
}

func TestNoOtherRoutes(t *testing.T) {
	s := NewServer(&Config{})

	for _, path := range []string{"/health", "/metrics", "/api"} {
		rec := httptest.NewRecorder()
		s.Handler().ServeHTTP(rec, httptest.NewRequest(nethttp.MethodGet, path, nil))
		if rec.Code != nethttp.StatusNotFound {
			t.Errorf("GET %s = %d, want 404", path, rec.Code)
		}
	}

	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(nethttp.MethodPost, "/", nil))
	if rec.Code == nethttp.StatusOK {
		t.Errorf("POST / should not succeed")
	}
}

func TestRequestMetricsAndLogging(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	metrics := &recordingMetrics{}
	s := NewServer(&Config{Logger: zap.New(core), Metrics: metrics})

	s.Handler().ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(nethttp.MethodGet, "/", nil))
	s.Handler().ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(nethttp.MethodGet, "/nope", nil))

	if len(metrics.requests) != 2 || metrics.requests[0] != "GET /" || metrics.requests[1] != "GET unmatched" {
		t.Fatalf("unexpected recorded requests %v", metrics.requests)
	}
	if n := logs.FilterMessage("HTTP request").Len(); n != 2 {
		t.Fatalf("expected 2 request logs, got %d", n)
	}
}

func TestServerAddrIsFixed(t *testing.T) {
	s := NewServer(&Config{})
	if s.Addr() != ":5000" {
		t.Fatalf("expected :5000, got %q", s.Addr())
	}
}

func TestServerListensOnPort5000(t *testing.T) {
	probe, err := net.Listen("tcp", ":5000")
	if err != nil {
		t.Skipf("port 5000 unavailable: %v", err)
	}
	_ = probe.Close()

	core, logs := observer.New(zap.InfoLevel)
	s := NewServer(&Config{Logger: zap.New(core)})

	errCh := make(chan error, 1)
	go func() { errCh <- s.Start() }()

	var resp *nethttp.Response
	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		resp, err = nethttp.Get("http://127.0.0.1:5000/")
		if err == nil {
			break
		}
		time.Sleep(20 * time.Millisecond)
	}
	if err != nil {
		t.Fatalf("server did not come up: %v", err)
	}
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()

	if resp.StatusCode != nethttp.StatusOK || string(body) != `{"success":true,"body":"Hello World"}` {
		t.Fatalf("unexpected response %d %s", resp.StatusCode, body)
	}
	if logs.FilterMessage("Listening on port 5000...").Len() != 1 {
		t.Fatalf("expected startup log line")
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := s.Shutdown(ctx); err != nil {
		t.Fatalf("shutdown failed: %v", err)
	}
	if err := <-errCh; err != nil {
		t.Fatalf("start returned error: %v", err)
	}
}
