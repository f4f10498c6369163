package trace

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"splitter/internal/log"
	"splitter/internal/metrics"
)

func newTestMiddleware(buf *bytes.Buffer) (*Middleware, *metrics.Metrics) {
	logger := log.New(log.Config{Handler: slog.NewJSONHandler(buf, nil), Component: log.ComponentHTTP})
	m := metrics.New(prometheus.NewRegistry())
	return NewMiddleware(func(*http.Request) string { return "198.51.100.1" }, logger, m), m
}

func TestMiddleware_AssignsRequestID(t *testing.T) {
	var buf bytes.Buffer
	mw, _ := newTestMiddleware(&buf)

	var seen string
	h := mw.Handler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = GetRequestID(r.Context())
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	if _, err := uuid.Parse(seen); err != nil {
		t.Fatalf("request id %q is not a uuid: %v", seen, err)
	}
	if rec.Header().Get(RequestIDHeader) != seen {
		t.Errorf("response header = %q, want %q", rec.Header().Get(RequestIDHeader), seen)
	}
}

func TestMiddleware_ReusesValidIncomingID(t *testing.T) {
	var buf bytes.Buffer
	mw, _ := newTestMiddleware(&buf)
	h := mw.Handler(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))

	incoming := uuid.NewString()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, incoming)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if got := rec.Header().Get(RequestIDHeader); got != incoming {
		t.Errorf("got %q, want %q", got, incoming)
	}

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "<script>")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if got := rec.Header().Get(RequestIDHeader); got == "<script>" {
		t.Error("invalid incoming id must be replaced")
	}
}

func TestMiddleware_LogsAndObserves(t *testing.T) {
	var buf bytes.Buffer
	mw, m := newTestMiddleware(&buf)

	r := chi.NewRouter()
	r.Use(mw.Handler)
	r.Post("/{kind}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/bogus", nil))

	var entry map[string]any
	if err := json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry); err != nil {
		t.Fatalf("log line is not json: %v (%s)", err, buf.String())
	}
	if entry["level"] != "WARN" {
		t.Errorf("level = %v, want WARN", entry["level"])
	}
	if entry[log.FieldStatusCode] != float64(http.StatusNotFound) {
		t.Errorf("status_code = %v", entry[log.FieldStatusCode])
	}
	if entry[log.FieldRequestID] != rec.Header().Get(RequestIDHeader) {
		t.Errorf("request_id = %v, want %s", entry[log.FieldRequestID], rec.Header().Get(RequestIDHeader))
	}
	if entry[log.FieldRoute] != "/{kind}" {
		t.Errorf("route = %v, want /{kind}", entry[log.FieldRoute])
	}
	if entry[log.FieldClientIP] != "198.51.100.1" {
		t.Errorf("client_ip = %v", entry[log.FieldClientIP])
	}

	got := testutil.ToFloat64(m.HTTPRequests.WithLabelValues(http.MethodPost, "/{kind}", "404"))
	if got != 1 {
		t.Errorf("http_requests{route=/{kind}} = %v, want 1", got)
	}
}
