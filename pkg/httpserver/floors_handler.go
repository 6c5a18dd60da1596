package httpserver

import (
	"net/http"

	"github.com/goccy/go-json"
	"go.uber.org/zap"

	"github.com/roninmarket/marketbot/internal/pricing"
)

// FloorSource yields the latest floor snapshots. *pricing.Watcher satisfies it.
type FloorSource interface {
	Snapshots() []pricing.FloorSnapshot
}

// FloorsHandler handles HTTP requests for observed floor prices.
type FloorsHandler struct {
	floors FloorSource
	logger *zap.Logger
}

// NewFloorsHandler creates a new floors handler.
func NewFloorsHandler(floors FloorSource, logger *zap.Logger) *FloorsHandler {
	return &FloorsHandler{
		floors: floors,
		logger: logger,
	}
}

// FloorsResponse represents the HTTP response for floor data.
type FloorsResponse struct {
	Floors []pricing.FloorSnapshot `json:"floors"`
}

// ErrorResponse represents an HTTP error response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// HandleFloors handles GET /api/floors requests.
func (h *FloorsHandler) HandleFloors(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		h.writeError(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	response := FloorsResponse{Floors: h.floors.Snapshots()}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)

	err := json.NewEncoder(w).Encode(response)
	if err != nil {
		h.logger.Error("failed-to-encode-response", zap.Error(err))
	}
}

// writeError writes a JSON error response.
func (h *FloorsHandler) writeError(w http.ResponseWriter, message string, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	response := ErrorResponse{Error: message}
	err := json.NewEncoder(w).Encode(response)
	if err != nil {
		h.logger.Error("failed-to-encode-error-response", zap.Error(err))
	}
}
