package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"
)

func TestReadyProbeTracksHydration(t *testing.T) {
	loaded := false
	s := NewServer("127.0.0.1:0", func() bool { return loaded }, zap.NewNop())

	get := func(path string) *httptest.ResponseRecorder {
		rec := httptest.NewRecorder()
		s.server.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		return rec
	}

	if rec := get("/ready"); rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503 before hydration, got %d", rec.Code)
	}

	loaded = true
	if rec := get("/ready"); rec.Code != http.StatusOK {
		t.Fatalf("expected 200 after hydration, got %d", rec.Code)
	}

	// Liveness is independent of the rule store.
	if rec := get("/health"); rec.Code != http.StatusOK {
		t.Fatalf("expected health to always be 200, got %d", rec.Code)
	}
}

func TestReadyProbeNilCheckIsReady(t *testing.T) {
	s := NewServer("127.0.0.1:0", nil, zap.NewNop())

	rec := httptest.NewRecorder()
	s.server.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ready", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 with no readiness check wired, got %d", rec.Code)
	}
}
