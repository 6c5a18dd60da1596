package healthprobe

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/goccy/go-json"
)

func TestNew(t *testing.T) {
	hc := New()

	if hc == nil {
		t.Fatal("New() returned nil")
	}

	if time.Since(hc.startTime) > 1*time.Second {
		t.Errorf("Start time is too old: %v", hc.startTime)
	}

	if len(hc.pendingComponents()) == 0 {
		t.Error("HealthChecker should not be ready by default")
	}
}

func TestSetReady(t *testing.T) {
	tests := []struct {
		name     string
		setReady bool
		wantCode int
	}{
		{
			name:     "set_ready_true",
			setReady: true,
			wantCode: http.StatusOK,
		},
		{
			name:     "set_ready_false",
			setReady: false,
			wantCode: http.StatusServiceUnavailable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hc := New()
			hc.SetReady(tt.setReady)

			req := httptest.NewRequest(http.MethodGet, "/ready", nil)
			w := httptest.NewRecorder()
			hc.Ready()(w, req)

			if w.Code != tt.wantCode {
				t.Errorf("SetReady(%v): status = %d, want %d", tt.setReady, w.Code, tt.wantCode)
			}
		})
	}
}

func TestComponentReadiness(t *testing.T) {
	hc := New("book", "chain")
	handler := hc.Ready()

	// Nothing ready yet
	w := httptest.NewRecorder()
	handler(w, httptest.NewRequest(http.MethodGet, "/ready", nil))
	if w.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusServiceUnavailable)
	}

	var resp HealthResponse
	err := json.NewDecoder(w.Body).Decode(&resp)
	if err != nil {
		t.Fatalf("Failed to decode ready response: %v", err)
	}
	if len(resp.Pending) != 2 {
		t.Errorf("Pending = %v, want both components", resp.Pending)
	}

	// One ready is still not ready
	hc.SetComponentReady("book", true)
	w = httptest.NewRecorder()
	handler(w, httptest.NewRequest(http.MethodGet, "/ready", nil))
	if w.Code != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want %d with chain pending", w.Code, http.StatusServiceUnavailable)
	}

	// Both ready
	hc.SetComponentReady("chain", true)
	w = httptest.NewRecorder()
	handler(w, httptest.NewRequest(http.MethodGet, "/ready", nil))
	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want %d with all components ready", w.Code, http.StatusOK)
	}

	// Regression is reflected
	hc.SetComponentReady("chain", false)
	w = httptest.NewRecorder()
	handler(w, httptest.NewRequest(http.MethodGet, "/ready", nil))
	if w.Code != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want %d after chain went down", w.Code, http.StatusServiceUnavailable)
	}
}

func TestHealth_AlwaysReturnsOK(t *testing.T) {
	hc := New("book")

	tests := []struct {
		name     string
		setReady bool
	}{
		{
			name:     "not_ready",
			setReady: false,
		},
		{
			name:     "ready",
			setReady: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hc.SetReady(tt.setReady)

			handler := hc.Health()
			req := httptest.NewRequest(http.MethodGet, "/health", nil)
			w := httptest.NewRecorder()

			handler(w, req)

			resp := w.Result()
			defer resp.Body.Close()

			if resp.StatusCode != http.StatusOK {
				t.Errorf("Health handler status = %d, want %d (ready=%v)", resp.StatusCode, http.StatusOK, tt.setReady)
			}

			contentType := resp.Header.Get("Content-Type")
			if contentType != "application/json" {
				t.Errorf("Content-Type = %s, want application/json", contentType)
			}

			var healthResp HealthResponse
			err := json.NewDecoder(resp.Body).Decode(&healthResp)
			if err != nil {
				t.Fatalf("Failed to decode health response: %v", err)
			}

			if healthResp.Status != "healthy" {
				t.Errorf("Status = %s, want healthy", healthResp.Status)
			}

			if healthResp.Uptime == "" {
				t.Error("Uptime is empty")
			}
		})
	}
}

func TestHealthChecker_ConcurrentAccess(t *testing.T) {
	hc := New("book", "chain")
	handler := hc.Ready()

	done := make(chan bool)

	go func() {
		for i := 0; i < 100; i++ {
			hc.SetComponentReady("book", i%2 == 0)
		}
		done <- true
	}()

	go func() {
		for i := 0; i < 100; i++ {
			req := httptest.NewRequest(http.MethodGet, "/ready", nil)
			w := httptest.NewRecorder()
			handler(w, req)
		}
		done <- true
	}()

	<-done
	<-done
}
