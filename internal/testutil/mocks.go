package testutil

import (
	"net/http"
	"net/http/httptest"
	"sync"

	"github.com/goccy/go-json"
)

// RecordedRequest is one GraphQL operation the mock book received.
type RecordedRequest struct {
	OperationName string
	Variables     map[string]interface{}
}

// MockBook is a mock HTTP server that simulates the marketplace GraphQL API.
// Responses are keyed by operation name; unknown operations get an empty data
// object.
type MockBook struct {
	*httptest.Server

	mu        sync.Mutex
	responses map[string]interface{}
	errors    map[string]string
	status    int
	requests  []RecordedRequest
}

// NewMockBook creates a mock order book server.
func NewMockBook() *MockBook {
	mock := &MockBook{
		responses: make(map[string]interface{}),
		errors:    make(map[string]string),
	}

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			OperationName string                 `json:"operationName"`
			Variables     map[string]interface{} `json:"variables"`
		}
		err := json.NewDecoder(r.Body).Decode(&req)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		mock.mu.Lock()
		mock.requests = append(mock.requests, RecordedRequest{
			OperationName: req.OperationName,
			Variables:     req.Variables,
		})
		status := mock.status
		message, hasError := mock.errors[req.OperationName]
		data := mock.responses[req.OperationName]
		mock.mu.Unlock()

		if status != 0 {
			w.WriteHeader(status)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		if hasError {
			json.NewEncoder(w).Encode(map[string]interface{}{
				"errors": []map[string]string{{"message": message}},
			})
			return
		}

		if data == nil {
			data = map[string]interface{}{}
		}
		json.NewEncoder(w).Encode(map[string]interface{}{"data": data})
	})

	mock.Server = httptest.NewServer(handler)
	return mock
}

// Respond sets the data payload returned for one operation.
func (m *MockBook) Respond(operation string, data interface{}) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.responses[operation] = data
}

// Reject makes one operation return a GraphQL errors array.
func (m *MockBook) Reject(operation, message string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.errors[operation] = message
}

// FailWithStatus makes every request return the given HTTP status with no
// body.
func (m *MockBook) FailWithStatus(status int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.status = status
}

// Requests returns the operations received so far.
func (m *MockBook) Requests() []RecordedRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]RecordedRequest, len(m.requests))
	copy(out, m.requests)
	return out
}
