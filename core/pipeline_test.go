package core

import (
	"context"
	stderrors "errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/goccy/go-json"
)

func newTestPipeline(t *testing.T, transport *scriptedTransport, opts ...Option) *Pipeline {
	t.Helper()
	base := []Option{WithTransport(transport), WithLogger(stubLogger{})}
	pipeline, err := NewPipeline(Config{Domain: "https://api.example.com"}, append(base, opts...)...)
	if err != nil {
		t.Fatalf("new pipeline: %v", err)
	}
	return pipeline
}

func TestPipeline_APIKeyScenario(t *testing.T) {
	token := mintToken(t, time.Now().Add(time.Hour), nil)
	transport := &scriptedTransport{handler: func(req TransportRequest) (TransportResponse, error) {
		switch requestPath(req) {
		case AccessTokensPath:
			return jsonResponse(200, fmt.Sprintf(`{"access_token":%q}`, token)), nil
		case "/api/v1/buildings/5962":
			return jsonResponse(200, `{"building_name":"HQ"}`), nil
		}
		return jsonResponse(404, `{}`), nil
	}}
	pipeline := newTestPipeline(t, transport, WithCredential(APIKeyCredential("K")))

	var out map[string]any
	if err := pipeline.Get(context.Background(), RequestDescriptor{Path: "/api/v1/buildings/5962"}, &out); err != nil {
		t.Fatalf("get: %v", err)
	}
	if out["buildingName"] != "HQ" {
		t.Fatalf("expected local case response, got %#v", out)
	}

	exchanges := transport.calls(AccessTokensPath)
	if len(exchanges) != 1 {
		t.Fatalf("expected one token exchange, got %d", len(exchanges))
	}
	exchange := exchanges[0]
	if exchange.Method != http.MethodPost {
		t.Fatalf("expected POST exchange, got %s", exchange.Method)
	}
	if exchange.Headers[HeaderAPIKey] != "K" {
		t.Fatalf("expected X-API-KEY header, got %+v", exchange.Headers)
	}
	if _, ok := exchange.Headers[HeaderAuthorization]; ok {
		t.Fatalf("expected exchange to be unauthenticated")
	}

	domainCalls := transport.calls("/api/v1/buildings/5962")
	if len(domainCalls) != 1 {
		t.Fatalf("expected one domain call, got %d", len(domainCalls))
	}
	headers := domainCalls[0].Headers
	if headers[HeaderAuthorization] != "Bearer "+token {
		t.Fatalf("expected bearer token header, got %q", headers[HeaderAuthorization])
	}
	if headers["Content-Type"] != "application/json" || headers["Accept-Language"] != "en" {
		t.Fatalf("unexpected default headers %+v", headers)
	}
	if domainCalls[0].URL != "https://api.example.com/api/v1/buildings/5962" {
		t.Fatalf("unexpected url %q", domainCalls[0].URL)
	}
}

func TestPipeline_BasicCredentialUsesBasicAuth(t *testing.T) {
	token := mintToken(t, time.Now().Add(time.Hour), nil)
	transport := &scriptedTransport{handler: func(req TransportRequest) (TransportResponse, error) {
		if requestPath(req) == AccessTokensPath {
			return jsonResponse(200, fmt.Sprintf(`{"access_token":%q,"refresh_token":"r1"}`, token)), nil
		}
		return jsonResponse(200, `[]`), nil
	}}
	pipeline := newTestPipeline(t, transport, WithCredential(BasicCredential("user@example.com", "pw")))

	session, err := pipeline.AuthSession(context.Background())
	if err != nil {
		t.Fatalf("auth session: %v", err)
	}
	if session.RefreshToken != "r1" || session.Source != SessionSourceExchange {
		t.Fatalf("unexpected session %+v", session)
	}
	exchange := transport.calls(AccessTokensPath)[0]
	if exchange.BasicAuth == nil || exchange.BasicAuth.Username != "user@example.com" || exchange.BasicAuth.Password != "pw" {
		t.Fatalf("expected basic auth on exchange, got %+v", exchange.BasicAuth)
	}
}

func TestPipeline_ReusesValidSession(t *testing.T) {
	token := mintToken(t, time.Now().Add(time.Hour), nil)
	transport := &scriptedTransport{handler: func(req TransportRequest) (TransportResponse, error) {
		if requestPath(req) == AccessTokensPath {
			return jsonResponse(200, fmt.Sprintf(`{"access_token":%q}`, token)), nil
		}
		return jsonResponse(200, `{}`), nil
	}}
	pipeline := newTestPipeline(t, transport, WithCredential(APIKeyCredential("K")))

	ctx := context.Background()
	for i := 0; i < 2; i++ {
		if err := pipeline.Get(ctx, RequestDescriptor{Path: "/api/v1/floors"}, nil); err != nil {
			t.Fatalf("get %d: %v", i, err)
		}
	}
	if got := len(transport.calls(AccessTokensPath)); got != 1 {
		t.Fatalf("expected exactly one exchange, got %d", got)
	}
	if got := len(transport.calls("/api/v1/floors")); got != 2 {
		t.Fatalf("expected two domain calls, got %d", got)
	}
}

func TestPipeline_RefreshesExpiredSession(t *testing.T) {
	clock := &testClock{now: time.Date(2030, 1, 1, 12, 0, 0, 0, time.UTC)}
	first := mintToken(t, clock.Now().Add(time.Hour), nil)
	second := mintToken(t, clock.Now().Add(3*time.Hour), map[string]any{"sub": "renewed"})

	var refreshBody map[string]any
	transport := &scriptedTransport{handler: func(req TransportRequest) (TransportResponse, error) {
		switch requestPath(req) {
		case AccessTokensPath:
			return jsonResponse(200, fmt.Sprintf(`{"access_token":%q,"refresh_token":"r1"}`, first)), nil
		case RefreshAccessTokensPath:
			if err := json.Unmarshal(req.Body, &refreshBody); err != nil {
				return TransportResponse{}, err
			}
			return jsonResponse(200, fmt.Sprintf(`{"access_token":%q,"refresh_token":"r2"}`, second)), nil
		}
		return jsonResponse(200, `{}`), nil
	}}
	pipeline := newTestPipeline(t, transport,
		WithCredential(APIKeyCredential("K")),
		WithClock(clock.Now),
	)

	ctx := context.Background()
	if err := pipeline.Get(ctx, RequestDescriptor{Path: "/api/v1/buildings"}, nil); err != nil {
		t.Fatalf("first get: %v", err)
	}

	clock.Set(clock.Now().Add(time.Hour - DefaultExpiryMargin + time.Second))
	if err := pipeline.Get(ctx, RequestDescriptor{Path: "/api/v1/buildings"}, nil); err != nil {
		t.Fatalf("second get: %v", err)
	}

	if got := len(transport.calls(RefreshAccessTokensPath)); got != 1 {
		t.Fatalf("expected one refresh call, got %d", got)
	}
	if got := len(transport.calls(AccessTokensPath)); got != 1 {
		t.Fatalf("expected no second exchange, got %d", got)
	}
	if refreshBody["access_token"] != first || refreshBody["refresh_token"] != "r1" {
		t.Fatalf("unexpected refresh body %#v", refreshBody)
	}
	refresh := transport.calls(RefreshAccessTokensPath)[0]
	if refresh.Headers[HeaderAPIKey] != "K" {
		t.Fatalf("expected refresh to carry credential headers")
	}

	calls := transport.calls("/api/v1/buildings")
	if got := calls[len(calls)-1].Headers[HeaderAuthorization]; got != "Bearer "+second {
		t.Fatalf("expected renewed token on domain call, got %q", got)
	}
	session, _ := pipeline.CurrentSession()
	if session.RefreshToken != "r2" || session.Subject != "renewed" {
		t.Fatalf("expected renewed session stored, got %+v", session)
	}
}

func TestPipeline_ExpiredSessionWithoutRefreshTokenReexchanges(t *testing.T) {
	clock := &testClock{now: time.Date(2030, 1, 1, 12, 0, 0, 0, time.UTC)}
	transport := &scriptedTransport{}
	exchanges := 0
	transport.handler = func(req TransportRequest) (TransportResponse, error) {
		if requestPath(req) == AccessTokensPath {
			exchanges++
			token := mintToken(t, clock.Now().Add(time.Hour), nil)
			return jsonResponse(200, fmt.Sprintf(`{"access_token":%q}`, token)), nil
		}
		return jsonResponse(200, `{}`), nil
	}
	pipeline := newTestPipeline(t, transport, WithCredential(APIKeyCredential("K")), WithClock(clock.Now))

	ctx := context.Background()
	if _, err := pipeline.AuthSession(ctx); err != nil {
		t.Fatalf("auth session: %v", err)
	}
	clock.Set(clock.Now().Add(2 * time.Hour))
	if _, err := pipeline.AuthSession(ctx); err != nil {
		t.Fatalf("auth session after expiry: %v", err)
	}
	if exchanges != 2 {
		t.Fatalf("expected a fresh exchange after expiry, got %d exchanges", exchanges)
	}
	if got := len(transport.calls(RefreshAccessTokensPath)); got != 0 {
		t.Fatalf("expected no refresh without refresh token, got %d", got)
	}
}

func TestPipeline_PreIssuedTokenBypassesExchange(t *testing.T) {
	token := mintToken(t, time.Now().Add(time.Hour), nil)
	transport := &scriptedTransport{handler: func(TransportRequest) (TransportResponse, error) {
		return jsonResponse(200, `{"id":1}`), nil
	}}
	pipeline := newTestPipeline(t, transport, WithCredential(TokenCredential(token)))

	if err := pipeline.Get(context.Background(), RequestDescriptor{Path: "/api/v1/buildings/1"}, nil); err != nil {
		t.Fatalf("get: %v", err)
	}
	if transport.total() != 1 {
		t.Fatalf("expected only the domain call, got %d requests", transport.total())
	}
	if got := transport.calls("/api/v1/buildings/1")[0].Headers[HeaderAuthorization]; got != "Bearer "+token {
		t.Fatalf("expected pre-issued bearer token, got %q", got)
	}
	session, ok := pipeline.CurrentSession()
	if !ok || session.Source != SessionSourcePreIssued {
		t.Fatalf("expected pre-issued session stored, got %+v", session)
	}
}

func TestPipeline_ExpiredPreIssuedTokenPolicy(t *testing.T) {
	expired := mintToken(t, time.Now().Add(-time.Hour), nil)
	transport := &scriptedTransport{handler: func(TransportRequest) (TransportResponse, error) {
		return jsonResponse(200, `{}`), nil
	}}

	trusting := newTestPipeline(t, transport, WithCredential(TokenCredential(expired)))
	if err := trusting.Get(context.Background(), RequestDescriptor{Path: "/api/v1/floors"}, nil); err != nil {
		t.Fatalf("expected trusted pre-issued token to be sent: %v", err)
	}

	strictTransport := &scriptedTransport{}
	strict, err := NewPipeline(Config{
		Domain:               "https://api.example.com",
		PreIssuedTokenPolicy: PreIssuedTokenFail,
	}, WithTransport(strictTransport), WithCredential(TokenCredential(expired)))
	if err != nil {
		t.Fatalf("new pipeline: %v", err)
	}
	err = strict.Get(context.Background(), RequestDescriptor{Path: "/api/v1/floors"}, nil)
	if !IsCode(err, CodeInvalidSession) {
		t.Fatalf("expected invalid session error, got %v", err)
	}
	if strictTransport.total() != 0 {
		t.Fatalf("expected expired token to be rejected before sending")
	}
}

func TestPipeline_MissingCredentialFailsBeforeNetwork(t *testing.T) {
	transport := &scriptedTransport{}
	pipeline := newTestPipeline(t, transport)

	err := pipeline.Get(context.Background(), RequestDescriptor{Path: "/api/v1/buildings"}, nil)
	if !IsCode(err, CodeConfigurationError) {
		t.Fatalf("expected configuration error, got %v", err)
	}
	if transport.total() != 0 {
		t.Fatalf("expected no network call, got %d", transport.total())
	}

	transport = &scriptedTransport{}
	pipeline = newTestPipeline(t, transport, WithCredential(Credential{Kind: "mystery"}))
	if _, err := pipeline.AuthSession(context.Background()); !IsCode(err, CodeConfigurationError) {
		t.Fatalf("expected configuration error for unknown credential, got %v", err)
	}
	if transport.total() != 0 {
		t.Fatalf("expected no network call, got %d", transport.total())
	}
}

func TestPipeline_FailedExchangeLeavesSlotEmpty(t *testing.T) {
	transport := &scriptedTransport{handler: func(TransportRequest) (TransportResponse, error) {
		return jsonResponse(401, `{"status":401,"code":"invalid_credentials","message":"wrong"}`), nil
	}}
	pipeline := newTestPipeline(t, transport, WithCredential(BasicCredential("u", "bad")))

	err := pipeline.Get(context.Background(), RequestDescriptor{Path: "/api/v1/buildings"}, nil)
	normalized := NormalizeError(err)
	if normalized == nil || normalized.Code != CodeInvalidCredentials || normalized.Status != 401 {
		t.Fatalf("expected invalid credentials error, got %+v", normalized)
	}
	if _, ok := pipeline.CurrentSession(); ok {
		t.Fatalf("expected no session after failed exchange")
	}
	if got := len(transport.calls("/api/v1/buildings")); got != 0 {
		t.Fatalf("expected domain call to be skipped, got %d", got)
	}
}

func TestPipeline_UndecodableExchangeTokenIsRejected(t *testing.T) {
	transport := &scriptedTransport{handler: func(TransportRequest) (TransportResponse, error) {
		return jsonResponse(200, `{"access_token":"J"}`), nil
	}}
	pipeline := newTestPipeline(t, transport, WithCredential(APIKeyCredential("K")))

	_, err := pipeline.AuthSession(context.Background())
	if !IsCode(err, CodeInvalidSession) {
		t.Fatalf("expected invalid session error, got %v", err)
	}
	if _, ok := pipeline.CurrentSession(); ok {
		t.Fatalf("expected slot to stay empty")
	}
}

func TestPipeline_ConcurrentCallersShareOneExchange(t *testing.T) {
	token := mintToken(t, time.Now().Add(time.Hour), nil)
	var mu sync.Mutex
	exchanges := 0
	release := make(chan struct{})
	transport := &scriptedTransport{handler: func(req TransportRequest) (TransportResponse, error) {
		if requestPath(req) == AccessTokensPath {
			mu.Lock()
			exchanges++
			mu.Unlock()
			<-release
			return jsonResponse(200, fmt.Sprintf(`{"access_token":%q}`, token)), nil
		}
		return jsonResponse(200, `{}`), nil
	}}
	pipeline := newTestPipeline(t, transport, WithCredential(APIKeyCredential("K")))

	const callers = 8
	var wg sync.WaitGroup
	errs := make(chan error, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs <- pipeline.Get(context.Background(), RequestDescriptor{Path: "/api/v1/buildings"}, nil)
		}()
	}
	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()
	close(errs)
	for err := range errs {
		if err != nil {
			t.Fatalf("concurrent get: %v", err)
		}
	}
	if exchanges != 1 {
		t.Fatalf("expected one shared exchange, got %d", exchanges)
	}
	if got := len(transport.calls("/api/v1/buildings")); got != callers {
		t.Fatalf("expected %d domain calls, got %d", callers, got)
	}
}

func TestPipeline_AppliesWireCaseAndTimeouts(t *testing.T) {
	token := mintToken(t, time.Now().Add(time.Hour), nil)
	transport := &scriptedTransport{handler: func(req TransportRequest) (TransportResponse, error) {
		return jsonResponse(201, `{"id":7,"created_at":"2024-01-01"}`), nil
	}}
	pipeline, err := NewPipeline(Config{
		Domain: "https://api.example.com",
		Lang:   "es",
		Timeouts: map[string]int{
			"/api/v1/buildings": 1200,
			DefaultTimeout:      400,
		},
	}, WithTransport(transport), WithCredential(TokenCredential(token)))
	if err != nil {
		t.Fatalf("new pipeline: %v", err)
	}

	var out struct {
		ID        int    `json:"id"`
		CreatedAt string `json:"createdAt"`
	}
	err = pipeline.Post(context.Background(), RequestDescriptor{
		Path: "/api/v1/buildings",
		Body: map[string]any{
			"buildingName": "HQ",
			"customFields": []any{map[string]any{"fieldKey": "k"}},
		},
		Query:   map[string]any{"organizationId": "org", "buildingIds": []int{1, 2}, "skip": nil},
		Headers: map[string]string{"X-Trace": "abc"},
	}, &out)
	if err != nil {
		t.Fatalf("post: %v", err)
	}
	if out.ID != 7 || out.CreatedAt != "2024-01-01" {
		t.Fatalf("unexpected decoded response %+v", out)
	}

	req := transport.calls("/api/v1/buildings")[0]
	var body map[string]any
	if err := json.Unmarshal(req.Body, &body); err != nil {
		t.Fatalf("decode request body: %v", err)
	}
	if body["building_name"] != "HQ" {
		t.Fatalf("expected wire case body, got %#v", body)
	}
	fields := body["custom_fields"].([]any)
	if fields[0].(map[string]any)["field_key"] != "k" {
		t.Fatalf("expected nested wire case keys, got %#v", fields)
	}
	if req.Query["organization_id"] != "org" || req.Query["building_ids"] != "1,2" {
		t.Fatalf("unexpected query %+v", req.Query)
	}
	if _, ok := req.Query["skip"]; ok {
		t.Fatalf("expected nil query values to be dropped")
	}
	if req.Timeout != 1200*time.Millisecond {
		t.Fatalf("expected path timeout, got %s", req.Timeout)
	}
	if req.Headers["X-Trace"] != "abc" || req.Headers["Accept-Language"] != "es" {
		t.Fatalf("unexpected headers %+v", req.Headers)
	}

	if err := pipeline.Get(context.Background(), RequestDescriptor{Path: "/api/v1/floors"}, nil); err != nil {
		t.Fatalf("get floors: %v", err)
	}
	if got := transport.calls("/api/v1/floors")[0].Timeout; got != 400*time.Millisecond {
		t.Fatalf("expected default timeout, got %s", got)
	}
}

func TestPipeline_NotFoundScenario(t *testing.T) {
	token := mintToken(t, time.Now().Add(time.Hour), nil)
	transport := &scriptedTransport{handler: func(TransportRequest) (TransportResponse, error) {
		return jsonResponse(404, `{"status":404,"code":"not_found","message":"Building not found"}`), nil
	}}
	pipeline := newTestPipeline(t, transport, WithCredential(TokenCredential(token)))

	err := pipeline.Get(context.Background(), RequestDescriptor{Path: "/api/v1/buildings/1"}, nil)
	var normalized *Error
	if !stderrors.As(err, &normalized) {
		t.Fatalf("expected *Error, got %T", err)
	}
	if normalized.Status != 404 || normalized.Code != "not_found" {
		t.Fatalf("unexpected error %+v", normalized)
	}
}

func TestPipeline_TransportFailureIsGeneric(t *testing.T) {
	token := mintToken(t, time.Now().Add(time.Hour), nil)
	transport := &scriptedTransport{handler: func(TransportRequest) (TransportResponse, error) {
		return TransportResponse{}, stderrors.New("connection refused")
	}}
	metrics := &countingMetrics{}
	pipeline := newTestPipeline(t, transport, WithCredential(TokenCredential(token)), WithMetricsRecorder(metrics))

	err := pipeline.Delete(context.Background(), RequestDescriptor{Path: "/api/v1/pois/3"})
	normalized := NormalizeError(err)
	if normalized.Status != 500 || normalized.Code != CodeGenericError {
		t.Fatalf("unexpected error %+v", normalized)
	}
	if !strings.Contains(normalized.Message, "connection refused") {
		t.Fatalf("expected underlying message, got %q", normalized.Message)
	}
	if metrics.count("situm.request.total") != 1 {
		t.Fatalf("expected request metric to be recorded")
	}
}

func TestPipeline_MultipartBody(t *testing.T) {
	token := mintToken(t, time.Now().Add(time.Hour), nil)
	transport := &scriptedTransport{handler: func(TransportRequest) (TransportResponse, error) {
		return jsonResponse(200, `{"id":"img-1","url":"/uploads/img-1.png"}`), nil
	}}
	pipeline := newTestPipeline(t, transport, WithCredential(TokenCredential(token)))

	var out map[string]any
	err := pipeline.Post(context.Background(), RequestDescriptor{
		Path: "/api/v1/images",
		Multipart: &MultipartBody{
			Fields: map[string]string{"rtf": "true"},
			Files:  []MultipartFile{{Field: "image", Filename: "image.png", ContentType: "image/png", Content: []byte("png")}},
		},
	}, &out)
	if err != nil {
		t.Fatalf("post multipart: %v", err)
	}
	req := transport.calls("/api/v1/images")[0]
	if !strings.HasPrefix(req.Headers["Content-Type"], "multipart/form-data; boundary=") {
		t.Fatalf("expected multipart content type, got %q", req.Headers["Content-Type"])
	}
	body := string(req.Body)
	if !strings.Contains(body, `name="image"; filename="image.png"`) || !strings.Contains(body, `name="rtf"`) {
		t.Fatalf("unexpected multipart body %q", body)
	}
}

func TestPipeline_SessionStoreSharesSessionAcrossPipelines(t *testing.T) {
	token := mintToken(t, time.Now().Add(time.Hour), nil)
	transport := &scriptedTransport{handler: func(req TransportRequest) (TransportResponse, error) {
		if requestPath(req) == AccessTokensPath {
			return jsonResponse(200, fmt.Sprintf(`{"access_token":%q,"refresh_token":"r"}`, token)), nil
		}
		return jsonResponse(200, `{}`), nil
	}}
	store := NewMemorySessionStore()
	credential := APIKeyCredential("K")

	first := newTestPipeline(t, transport, WithCredential(credential), WithSessionStore(store))
	if _, err := first.AuthSession(context.Background()); err != nil {
		t.Fatalf("first auth session: %v", err)
	}
	second := newTestPipeline(t, transport, WithCredential(credential), WithSessionStore(store))
	session, err := second.AuthSession(context.Background())
	if err != nil {
		t.Fatalf("second auth session: %v", err)
	}
	if session.Raw != token {
		t.Fatalf("expected stored token to be reused")
	}
	if got := len(transport.calls(AccessTokensPath)); got != 1 {
		t.Fatalf("expected one exchange across pipelines, got %d", got)
	}

	if err := second.ClearSession(context.Background()); err != nil {
		t.Fatalf("clear session: %v", err)
	}
	if _, ok, _ := store.LoadSession(context.Background(), credential.Fingerprint()); ok {
		t.Fatalf("expected stored session to be removed")
	}
}

func TestPipeline_OrganizationIDFromSession(t *testing.T) {
	token := mintToken(t, time.Now().Add(time.Hour), nil)
	pipeline := newTestPipeline(t, &scriptedTransport{}, WithCredential(TokenCredential(token)))
	orgID, err := pipeline.OrganizationID(context.Background())
	if err != nil {
		t.Fatalf("organization id: %v", err)
	}
	if orgID != testOrganizationID {
		t.Fatalf("expected %q, got %q", testOrganizationID, orgID)
	}
}

func TestPipeline_SessionStoreKeepsBasicPasswordsApart(t *testing.T) {
	token := mintToken(t, time.Now().Add(time.Hour), nil)
	transport := &scriptedTransport{handler: func(req TransportRequest) (TransportResponse, error) {
		if req.BasicAuth == nil || req.BasicAuth.Password != "right" {
			return jsonResponse(401, `{"status":401,"code":"invalid_credentials","message":"wrong"}`), nil
		}
		return jsonResponse(200, fmt.Sprintf(`{"access_token":%q}`, token)), nil
	}}
	store := NewMemorySessionStore()

	valid := newTestPipeline(t, transport, WithCredential(BasicCredential("ops", "right")), WithSessionStore(store))
	if _, err := valid.AuthSession(context.Background()); err != nil {
		t.Fatalf("valid auth session: %v", err)
	}

	wrong := newTestPipeline(t, transport, WithCredential(BasicCredential("ops", "WRONG")), WithSessionStore(store))
	_, err := wrong.AuthSession(context.Background())
	normalized := NormalizeError(err)
	if normalized == nil || normalized.Code != CodeInvalidCredentials {
		t.Fatalf("expected invalid credentials for wrong password, got %+v", normalized)
	}
	if got := len(transport.calls(AccessTokensPath)); got != 2 {
		t.Fatalf("expected wrong password to reach the exchange, got %d exchanges", got)
	}
}

func TestPipeline_CancelledCallerDoesNotFailSharedExchange(t *testing.T) {
	token := mintToken(t, time.Now().Add(time.Hour), nil)
	started := make(chan struct{})
	release := make(chan struct{})
	var once sync.Once
	transport := &scriptedTransport{handler: func(req TransportRequest) (TransportResponse, error) {
		once.Do(func() { close(started) })
		<-release
		return jsonResponse(200, fmt.Sprintf(`{"access_token":%q}`, token)), nil
	}}
	pipeline := newTestPipeline(t, transport, WithCredential(APIKeyCredential("key")))

	firstCtx, cancel := context.WithCancel(context.Background())
	firstErr := make(chan error, 1)
	go func() {
		_, err := pipeline.AuthSession(firstCtx)
		firstErr <- err
	}()
	<-started

	secondErr := make(chan error, 1)
	go func() {
		session, err := pipeline.AuthSession(context.Background())
		if err == nil && session.Raw != token {
			err = fmt.Errorf("unexpected token %q", session.Raw)
		}
		secondErr <- err
	}()

	cancel()
	select {
	case err := <-firstErr:
		if err == nil {
			t.Fatalf("expected cancelled caller to fail")
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("cancelled caller kept waiting on the exchange")
	}

	close(release)
	select {
	case err := <-secondErr:
		if err != nil {
			t.Fatalf("expected live caller to get the session, got %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("timed out waiting for live caller")
	}
	if got := len(transport.calls(AccessTokensPath)); got != 1 {
		t.Fatalf("expected a single exchange, got %d", got)
	}
	if _, ok := pipeline.CurrentSession(); !ok {
		t.Fatalf("expected session slot to be filled")
	}
}
