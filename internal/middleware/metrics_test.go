package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

// recordedMetrics はHTTPMetricsRecorderのモック実装。
type recordedMetrics struct {
	statuses  []int
	latencies []time.Duration
}

func (r *recordedMetrics) RecordHTTPStatus(statusCode int) {
	r.statuses = append(r.statuses, statusCode)
}

func (r *recordedMetrics) RecordRequestLatency(duration time.Duration) {
	r.latencies = append(r.latencies, duration)
}

func TestMetricsMiddleware_RecordsStatusAndLatency(t *testing.T) {
	rec := &recordedMetrics{}
	mw := NewMetricsMiddleware(rec)

	handler := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/entries", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if len(rec.statuses) != 1 || rec.statuses[0] != http.StatusNotFound {
		t.Errorf("statuses = %v, want [404]", rec.statuses)
	}
	if len(rec.latencies) != 1 {
		t.Fatalf("latencies = %v, want 1 sample", rec.latencies)
	}
	if rec.latencies[0] < 0 {
		t.Errorf("latency = %v, want >= 0", rec.latencies[0])
	}
}

func TestMetricsMiddleware_DefaultsTo200(t *testing.T) {
	rec := &recordedMetrics{}
	mw := NewMetricsMiddleware(rec)

	handler := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	}))

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if len(rec.statuses) != 1 || rec.statuses[0] != http.StatusOK {
		t.Errorf("statuses = %v, want [200]", rec.statuses)
	}
}

func TestMetricsMiddleware_NilRecorderPassesThrough(t *testing.T) {
	mw := NewMetricsMiddleware(nil)

	called := false
	handler := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if !called {
		t.Error("next handler was not called")
	}
}
