package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/staynest/pricingservice/internal/pricing/domain"
	"github.com/staynest/pricingservice/internal/pricing/repo/memory"
	"github.com/staynest/pricingservice/internal/pricing/usecase"
	"github.com/staynest/pricingservice/internal/ratelimit"
	"github.com/staynest/pricingservice/internal/shared/config"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()

	store := memory.NewStore()
	ctx := context.Background()
	for _, rt := range []domain.RoomType{
		{ID: "standard", Name: "Standard", BasePrice: 1000000},
		{ID: "deluxe", Name: "Deluxe King", BasePrice: 800000},
	} {
		if _, err := store.RoomType().Upsert(ctx, rt); err != nil {
			t.Fatalf("failed to seed room type: %v", err)
		}
	}

	service := usecase.NewService(store, nil, 0)
	if err := service.Load(ctx); err != nil {
		t.Fatalf("failed to load service: %v", err)
	}

	cfg := &config.Config{}
	cfg.HTTP.Address = ":0"
	cfg.Log.Level = "error"
	return NewServer(cfg, service, ratelimit.NoopLimiter{}, zap.NewNop())
}

func doJSON(t *testing.T, s *Server, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("failed to marshal body: %v", err)
		}
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	s.server.Handler.ServeHTTP(w, req)
	return w
}

func TestHealth(t *testing.T) {
	s := newTestServer(t)
	w := doJSON(t, s, http.MethodGet, "/health", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
}

func TestCreateRuleEndpoint(t *testing.T) {
	s := newTestServer(t)

	w := doJSON(t, s, http.MethodPost, "/api/v1/rules", map[string]any{
		"room_type_id": "deluxe",
		"date":         "2026-09-10",
		"price":        999999,
		"reason":       "VIP block",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}

	var rule domain.PricingRule
	if err := json.Unmarshal(w.Body.Bytes(), &rule); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if rule.Price != 999999 || rule.RoomTypeID != "deluxe" {
		t.Fatalf("unexpected rule: %+v", rule)
	}

	w = doJSON(t, s, http.MethodGet, "/api/v1/calendar?room_type_id=deluxe&start=2026-09-10&end=2026-09-10", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if !strings.Contains(w.Body.String(), "999999") {
		t.Fatalf("expected override in calendar, got %s", w.Body.String())
	}
}

func TestCreateRuleEndpoint_ValidationMapsTo400(t *testing.T) {
	s := newTestServer(t)

	w := doJSON(t, s, http.MethodPost, "/api/v1/rules", map[string]any{
		"room_type_id": "deluxe",
		"date":         "not-a-date",
		"price":        100,
	})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}

	w = doJSON(t, s, http.MethodPost, "/api/v1/rules", map[string]any{
		"room_type_id": "ghost",
		"date":         "2026-09-10",
		"price":        100,
	})
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown room type, got %d", w.Code)
	}
}

func TestBulkEndpoints(t *testing.T) {
	s := newTestServer(t)

	body := map[string]any{
		"room_type_ids":   []string{"standard"},
		"adjustment_type": "percentage",
		"operation":       "increase",
		"value":           10,
		"date_filter":     "range",
		"start_date":      "2026-09-10",
		"end_date":        "2026-09-12",
		"reason":          "Conference demand",
	}

	w := doJSON(t, s, http.MethodPost, "/api/v1/bulk/preview", body)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if !strings.Contains(w.Body.String(), "1100000") {
		t.Fatalf("expected preview price, got %s", w.Body.String())
	}

	w = doJSON(t, s, http.MethodPost, "/api/v1/bulk/commit", body)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var resp struct {
		Committed int `json:"committed"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Committed != 3 {
		t.Fatalf("expected 3 committed rules, got %d", resp.Committed)
	}
}

func TestImportExportEndpoints(t *testing.T) {
	s := newTestServer(t)

	csv := "Date,RoomTypeId,RoomTypeName,Price,Reason\n" +
		"2026-09-10,deluxe,Deluxe King,900000,Promo\n" +
		"bad-date,deluxe,Deluxe King,900000,\n"
	req := httptest.NewRequest(http.MethodPost, "/api/v1/rules/import", strings.NewReader(csv))
	w := httptest.NewRecorder()
	s.server.Handler.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var summary usecase.ImportSummary
	if err := json.Unmarshal(w.Body.Bytes(), &summary); err != nil {
		t.Fatalf("failed to decode summary: %v", err)
	}
	if summary.Imported != 1 || summary.Skipped != 1 {
		t.Fatalf("expected 1 imported / 1 skipped, got %d/%d", summary.Imported, summary.Skipped)
	}

	w = doJSON(t, s, http.MethodGet, "/api/v1/rules/export", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "2026-09-10,deluxe,Deluxe King,900000,Promo") {
		t.Fatalf("expected exported rule, got %s", w.Body.String())
	}
}

func TestImportEndpoint_BadHeader(t *testing.T) {
	s := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/rules/import", strings.NewReader("Day,Room,Cost\n"))
	w := httptest.NewRecorder()
	s.server.Handler.ServeHTTP(w, req)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for bad header, got %d: %s", w.Code, w.Body.String())
	}
}

func TestSeasonEndpoints(t *testing.T) {
	s := newTestServer(t)

	w := doJSON(t, s, http.MethodPost, "/api/v1/seasons", map[string]any{
		"name":       "Summer",
		"start_day":  "06-01",
		"end_day":    "08-31",
		"multiplier": 1.3,
		"active":     true,
	})
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var season domain.Season
	if err := json.Unmarshal(w.Body.Bytes(), &season); err != nil {
		t.Fatalf("failed to decode season: %v", err)
	}

	w = doJSON(t, s, http.MethodGet, "/api/v1/calendar?room_type_id=deluxe&start=2026-07-15&end=2026-07-15", nil)
	if !strings.Contains(w.Body.String(), "1040000") {
		t.Fatalf("expected seasonal price, got %s", w.Body.String())
	}

	w = doJSON(t, s, http.MethodDelete, "/api/v1/seasons/"+season.ID, nil)
	if w.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", w.Code)
	}
}
