// Package healthprobe implements the liveness and readiness endpoints for the
// long-running watch mode. Readiness is tracked per component so a probe can
// tell a stalled order book apart from a stalled chain connection.
package healthprobe

import (
	"net/http"
	"sort"
	"sync"
	"time"

	"github.com/goccy/go-json"
)

// HealthChecker provides health and readiness checks.
type HealthChecker struct {
	startTime time.Time

	mu         sync.RWMutex
	components map[string]bool
}

// New creates a HealthChecker expecting the named components to report ready.
// With no components the checker starts not ready until SetReady is called.
func New(components ...string) *HealthChecker {
	pending := make(map[string]bool, len(components))
	for _, c := range components {
		pending[c] = false
	}
	if len(pending) == 0 {
		pending["app"] = false
	}
	return &HealthChecker{
		startTime:  time.Now(),
		components: pending,
	}
}

// SetReady marks every component ready or not ready at once.
func (h *HealthChecker) SetReady(ready bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.components {
		h.components[c] = ready
	}
}

// SetComponentReady marks one component's readiness. Unknown components are
// added to the tracked set.
func (h *HealthChecker) SetComponentReady(component string, ready bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.components[component] = ready
}

func (h *HealthChecker) pendingComponents() []string {
	h.mu.RLock()
	defer h.mu.RUnlock()

	var pending []string
	for c, ready := range h.components {
		if !ready {
			pending = append(pending, c)
		}
	}
	sort.Strings(pending)
	return pending
}

// HealthResponse represents the health check response.
type HealthResponse struct {
	Status  string   `json:"status"`
	Uptime  string   `json:"uptime"`
	Pending []string `json:"pending,omitempty"`
}

// Health returns an HTTP handler for liveness checks.
// Always returns 200 OK if the application is running.
func (h *HealthChecker) Health() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		resp := HealthResponse{
			Status: "healthy",
			Uptime: time.Since(h.startTime).String(),
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(resp)
	}
}

// Ready returns an HTTP handler for readiness checks.
// Returns 200 OK when every component is ready, 503 otherwise.
func (h *HealthChecker) Ready() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		pending := h.pendingComponents()
		if len(pending) > 0 {
			resp := HealthResponse{
				Status:  "not_ready",
				Uptime:  time.Since(h.startTime).String(),
				Pending: pending,
			}
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusServiceUnavailable)
			_ = json.NewEncoder(w).Encode(resp)
			return
		}

		resp := HealthResponse{
			Status: "ready",
			Uptime: time.Since(h.startTime).String(),
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(resp)
	}
}
