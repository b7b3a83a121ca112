package core

import (
	"context"
	"net/url"
	"sync"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const testOrganizationID = "6f2b8c8e-3a9d-4b8e-9f61-2a7c1d5e9b10"

func mintToken(t *testing.T, expiresAt time.Time, claims map[string]any) string {
	t.Helper()
	mapClaims := jwt.MapClaims{
		"exp":               expiresAt.Unix(),
		"organization_uuid": testOrganizationID,
		"role":              "ADMIN_ORG",
		"api_permission":    "read-write",
		"email":             "ops@example.com",
	}
	for key, value := range claims {
		if value == nil {
			delete(mapClaims, key)
			continue
		}
		mapClaims[key] = value
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, mapClaims).SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return signed
}

type scriptedTransport struct {
	mu       sync.Mutex
	handler  func(req TransportRequest) (TransportResponse, error)
	requests []TransportRequest
}

func (*scriptedTransport) Kind() string { return "scripted" }

func (s *scriptedTransport) Do(_ context.Context, req TransportRequest) (TransportResponse, error) {
	s.mu.Lock()
	s.requests = append(s.requests, req)
	handler := s.handler
	s.mu.Unlock()
	if handler == nil {
		return TransportResponse{StatusCode: 204}, nil
	}
	return handler(req)
}

func (s *scriptedTransport) calls(path string) []TransportRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []TransportRequest
	for _, req := range s.requests {
		parsed, err := url.Parse(req.URL)
		if err != nil {
			continue
		}
		if parsed.Path == path {
			out = append(out, req)
		}
	}
	return out
}

func (s *scriptedTransport) total() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.requests)
}

func jsonResponse(status int, body string) TransportResponse {
	return TransportResponse{
		StatusCode: status,
		Headers:    map[string]string{"Content-Type": "application/json"},
		Body:       []byte(body),
	}
}

func requestPath(req TransportRequest) string {
	parsed, err := url.Parse(req.URL)
	if err != nil {
		return ""
	}
	return parsed.Path
}

type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) Set(now time.Time) {
	c.mu.Lock()
	c.now = now
	c.mu.Unlock()
}

type stubLogger struct{}

func (stubLogger) Trace(string, ...any) {}
func (stubLogger) Debug(string, ...any) {}
func (stubLogger) Info(string, ...any)  {}
func (stubLogger) Warn(string, ...any)  {}
func (stubLogger) Error(string, ...any) {}
func (stubLogger) Fatal(string, ...any) {}
func (s stubLogger) WithContext(context.Context) Logger {
	return s
}

type countingMetrics struct {
	mu       sync.Mutex
	counters map[string]int64
}

func (m *countingMetrics) IncCounter(_ context.Context, name string, value int64, _ map[string]string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.counters == nil {
		m.counters = map[string]int64{}
	}
	m.counters[name] += value
}

func (*countingMetrics) ObserveHistogram(context.Context, string, float64, map[string]string) {}

func (m *countingMetrics) count(name string) int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.counters[name]
}
