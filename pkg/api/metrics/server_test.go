package metrics

import (
	"context"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	promcollector "github.com/aescanero/rxplay/pkg/adapters/metrics/prometheus"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

func TestMetricsEndpointServesCollector(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := promcollector.NewCollector(reg)
	c.RecordHTTPRequest("GET", "/", 200, time.Millisecond)

	s := NewServer(&Config{Addr: ":0", Gatherer: reg, Logger: zap.NewNop()})

	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `rxplay_http_requests_total{method="GET",path="/",status="200"} 1`) {
		t.Fatalf("expected request counter in output:\n%s", rec.Body.String())
	}
}

func TestNilLoggerDefaultsToNop(t *testing.T) {
	s := NewServer(&Config{Addr: "127.0.0.1:0", Gatherer: prometheus.NewRegistry()})

	l, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("failed to listen: %v", err)
	}

	done := make(chan error, 1)
	go func() { done <- s.Serve(l) }()

	resp, err := http.Get("http://" + l.Addr().String() + "/metrics")
	if err != nil {
		t.Fatalf("failed to scrape: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := s.Shutdown(ctx); err != nil {
		t.Fatalf("unexpected shutdown error: %v", err)
	}
	if err := <-done; err != nil {
		t.Fatalf("unexpected serve error: %v", err)
	}
}
