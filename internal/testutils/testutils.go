package testutils

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"time"

	"fitness-schedule-proxy/internal/config"
	"fitness-schedule-proxy/internal/logger"
)

// MockLogger creates a logger for testing
func MockLogger() *logger.Logger {
	return logger.New("debug")
}

// MockConfig creates a configuration for testing
func MockConfig() *config.Config {
	return &config.Config{
		Port:     "8080",
		LogLevel: "debug",

		UpstreamBaseURL:   "https://fitness.example.com/api/hs/app/v1",
		UpstreamBasicUser: "widget",
		UpstreamBasicPass: "secret",
		UpstreamAPIKey:    "test-api-key",
		UpstreamTimeout:   15 * time.Second,

		RateLimitRequests: 60,
		RateLimitWindow:   60 * time.Second,

		CacheTTL:        30 * time.Second,
		CacheMaxEntries: 256,
	}
}

// UpstreamStub is a fake vendor API backed by httptest.
type UpstreamStub struct {
	Server *httptest.Server

	// LastRequest records the most recent request for assertions.
	LastRequest *http.Request

	status  int
	payload any
	rawBody []byte
}

// NewUpstreamStub starts a stub that answers every request with the given
// status and JSON payload. Callers own closing the server.
func NewUpstreamStub(status int, payload any) *UpstreamStub {
	stub := &UpstreamStub{status: status, payload: payload}
	stub.Server = httptest.NewServer(http.HandlerFunc(stub.handler))
	return stub
}

// NewUpstreamStubRaw starts a stub serving a verbatim body, for responses
// that are deliberately not valid JSON.
func NewUpstreamStubRaw(status int, body []byte) *UpstreamStub {
	stub := &UpstreamStub{status: status, rawBody: body}
	stub.Server = httptest.NewServer(http.HandlerFunc(stub.handler))
	return stub
}

func (stub *UpstreamStub) handler(w http.ResponseWriter, r *http.Request) {
	clone := r.Clone(r.Context())
	stub.LastRequest = clone

	if stub.rawBody != nil {
		w.WriteHeader(stub.status)
		_, _ = w.Write(stub.rawBody)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(stub.status)
	_ = json.NewEncoder(w).Encode(stub.payload)
}

// Close shuts the stub server down.
func (stub *UpstreamStub) Close() {
	stub.Server.Close()
}

// SampleClass returns a raw upstream record in the vendor's shape.
func SampleClass() map[string]any {
	return map[string]any{
		"appointment_id": 1,
		"start_date":     "2025-01-02 10:00",
		"end_date":       "2025-01-02 11:00",
		"duration":       60,
		"capacity":       20,
		"booked":         5,
		"service": map[string]any{
			"id":    "s1",
			"title": "Yoga",
			"color": "#fff",
		},
		"room": map[string]any{
			"id":    "r1",
			"title": "Main hall",
		},
		"employee": map[string]any{
			"id":   "e1",
			"name": "Anna",
		},
	}
}
