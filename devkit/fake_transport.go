package devkit

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"

	json "github.com/goccy/go-json"
	"github.com/goliatone/go-situm/core"
)

const KindFake = "fake"

type TransportScript struct {
	Response core.TransportResponse
	Err      error
}

type HandlerFunc func(req core.TransportRequest) (core.TransportResponse, error)

// FakeTransport answers pipeline requests from scripts registered per
// method and path. Scripts for a route are consumed in order and the last
// one repeats. Unrouted requests get a 404.
type FakeTransport struct {
	mu       sync.Mutex
	routes   map[string][]TransportScript
	served   map[string]int
	handlers map[string]HandlerFunc
	requests []core.TransportRequest
}

func NewFakeTransport() *FakeTransport {
	return &FakeTransport{
		routes:   map[string][]TransportScript{},
		served:   map[string]int{},
		handlers: map[string]HandlerFunc{},
	}
}

// WithSession answers the token exchange and refresh endpoints with token.
func (f *FakeTransport) WithSession(token string) *FakeTransport {
	body := map[string]any{"access_token": token}
	f.Respond(http.MethodPost, core.AccessTokensPath, JSON(http.StatusOK, body))
	f.Respond(http.MethodPost, core.RefreshAccessTokensPath, JSON(http.StatusOK, body))
	return f
}

func (f *FakeTransport) Respond(method, path string, scripts ...TransportScript) *FakeTransport {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := routeKey(method, path)
	f.routes[key] = append(f.routes[key], scripts...)
	return f
}

func (f *FakeTransport) Handle(method, path string, handler HandlerFunc) *FakeTransport {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.handlers[routeKey(method, path)] = handler
	return f
}

func (*FakeTransport) Kind() string {
	return KindFake
}

func (f *FakeTransport) Do(_ context.Context, req core.TransportRequest) (core.TransportResponse, error) {
	if f == nil {
		return core.TransportResponse{}, fmt.Errorf("devkit: fake transport is nil")
	}
	key := routeKey(req.Method, pathOf(req.URL))

	f.mu.Lock()
	f.requests = append(f.requests, cloneTransportRequest(req))
	handler := f.handlers[key]
	scripts := f.routes[key]
	index := f.served[key]
	f.served[key] = index + 1
	f.mu.Unlock()

	if handler != nil {
		return handler(cloneTransportRequest(req))
	}
	if len(scripts) == 0 {
		return JSON(http.StatusNotFound, map[string]any{
			"status":  http.StatusNotFound,
			"code":    "not_found",
			"message": "no fake route for " + key,
		}).Response, nil
	}
	if index >= len(scripts) {
		index = len(scripts) - 1
	}
	script := scripts[index]
	return cloneTransportResponse(script.Response), script.Err
}

func (f *FakeTransport) Requests() []core.TransportRequest {
	if f == nil {
		return nil
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	out := make([]core.TransportRequest, 0, len(f.requests))
	for _, item := range f.requests {
		out = append(out, cloneTransportRequest(item))
	}
	return out
}

// Calls returns the recorded requests for one route.
func (f *FakeTransport) Calls(method, path string) []core.TransportRequest {
	key := routeKey(method, path)
	var out []core.TransportRequest
	for _, req := range f.Requests() {
		if routeKey(req.Method, pathOf(req.URL)) == key {
			out = append(out, req)
		}
	}
	return out
}

func (f *FakeTransport) Last(method, path string) (core.TransportRequest, bool) {
	calls := f.Calls(method, path)
	if len(calls) == 0 {
		return core.TransportRequest{}, false
	}
	return calls[len(calls)-1], true
}

// JSON scripts a response whose body is the encoded value. A string or
// byte slice body is sent as is.
func JSON(status int, body any) TransportScript {
	var payload []byte
	switch typed := body.(type) {
	case nil:
	case string:
		payload = []byte(typed)
	case []byte:
		payload = append([]byte(nil), typed...)
	default:
		encoded, err := json.Marshal(typed)
		if err != nil {
			return TransportScript{Err: fmt.Errorf("devkit: encode fake body: %w", err)}
		}
		payload = encoded
	}
	return TransportScript{Response: core.TransportResponse{
		StatusCode: status,
		Headers:    map[string]string{"Content-Type": "application/json"},
		Body:       payload,
		Metadata:   map[string]any{"kind": KindFake},
	}}
}

func Fail(err error) TransportScript {
	return TransportScript{Err: err}
}

func routeKey(method, path string) string {
	method = strings.ToUpper(strings.TrimSpace(method))
	if method == "" {
		method = http.MethodGet
	}
	return method + " " + strings.TrimSpace(path)
}

func pathOf(raw string) string {
	parsed, err := url.Parse(raw)
	if err != nil {
		return raw
	}
	return parsed.Path
}

func cloneTransportRequest(in core.TransportRequest) core.TransportRequest {
	out := core.TransportRequest{
		Method:               in.Method,
		URL:                  in.URL,
		Headers:              map[string]string{},
		Query:                map[string]string{},
		Body:                 append([]byte(nil), in.Body...),
		Metadata:             map[string]any{},
		Timeout:              in.Timeout,
		MaxResponseBodyBytes: in.MaxResponseBodyBytes,
	}
	if in.BasicAuth != nil {
		auth := *in.BasicAuth
		out.BasicAuth = &auth
	}
	for key, value := range in.Headers {
		out.Headers[key] = value
	}
	for key, value := range in.Query {
		out.Query[key] = value
	}
	for key, value := range in.Metadata {
		out.Metadata[key] = value
	}
	return out
}

func cloneTransportResponse(in core.TransportResponse) core.TransportResponse {
	out := core.TransportResponse{
		StatusCode: in.StatusCode,
		Headers:    map[string]string{},
		Body:       append([]byte(nil), in.Body...),
		Metadata:   map[string]any{},
	}
	for key, value := range in.Headers {
		out.Headers[key] = value
	}
	for key, value := range in.Metadata {
		out.Metadata[key] = value
	}
	return out
}

var _ core.TransportAdapter = (*FakeTransport)(nil)
