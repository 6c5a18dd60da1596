package httpserver

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"go.uber.org/zap"

	"github.com/roninmarket/marketbot/internal/pricing"
	"github.com/roninmarket/marketbot/pkg/types"
)

type staticFloors struct {
	snapshots []pricing.FloorSnapshot
}

func (s *staticFloors) Snapshots() []pricing.FloorSnapshot {
	return s.snapshots
}

func TestHandleFloors(t *testing.T) {
	source := &staticFloors{snapshots: []pricing.FloorSnapshot{
		{
			Token:     "axie",
			Quote:     types.Quote{UnitPrice: "0.800000", OrdersUsed: 1},
			UpdatedAt: time.Unix(1_700_000_100, 0),
		},
		{
			Token:     "7",
			Quote:     types.Quote{UnitPrice: "0.014000", OrdersUsed: 2},
			UpdatedAt: time.Unix(1_700_000_100, 0),
		},
	}}

	handler := NewFloorsHandler(source, zap.NewNop())

	req := httptest.NewRequest(http.MethodGet, "/api/floors", nil)
	rec := httptest.NewRecorder()

	handler.HandleFloors(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q", ct)
	}

	var response FloorsResponse
	err := json.NewDecoder(rec.Body).Decode(&response)
	if err != nil {
		t.Fatalf("decode response: %v", err)
	}

	if len(response.Floors) != 2 {
		t.Fatalf("floors = %d, want 2", len(response.Floors))
	}
	if response.Floors[0].Token != "axie" || response.Floors[0].Quote.UnitPrice != "0.800000" {
		t.Errorf("first floor = %+v", response.Floors[0])
	}
}

func TestHandleFloors_Empty(t *testing.T) {
	handler := NewFloorsHandler(&staticFloors{}, zap.NewNop())

	req := httptest.NewRequest(http.MethodGet, "/api/floors", nil)
	rec := httptest.NewRecorder()

	handler.HandleFloors(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
}

func TestHandleFloors_MethodNotAllowed(t *testing.T) {
	handler := NewFloorsHandler(&staticFloors{}, zap.NewNop())

	req := httptest.NewRequest(http.MethodPost, "/api/floors", nil)
	rec := httptest.NewRecorder()

	handler.HandleFloors(rec, req)

	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("status = %d, want 405", rec.Code)
	}

	var response ErrorResponse
	err := json.NewDecoder(rec.Body).Decode(&response)
	if err != nil {
		t.Fatalf("decode error response: %v", err)
	}
	if response.Error == "" {
		t.Error("error response has no message")
	}
}
