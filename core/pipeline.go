package core

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	glog "github.com/goliatone/go-logger/glog"
	"golang.org/x/sync/singleflight"
)

const (
	AccessTokensPath        = "/api/v1/auth/access_tokens"
	RefreshAccessTokensPath = "/api/v1/auth/refresh_access_tokens"
)

const sessionFlightKey = "session"

// Pipeline turns request descriptors into authenticated HTTP calls. It owns
// the session slot: the slot is only replaced by a successful acquisition or
// refresh, and concurrent callers share a single in-flight transition.
type Pipeline struct {
	config     Config
	credential *Credential
	transport  TransportAdapter
	store      SessionStore
	logger     Logger
	metrics    MetricsRecorder
	now        func() time.Time

	mu      sync.RWMutex
	session Session
	flight  singleflight.Group
}

func NewPipeline(cfg Config, opts ...Option) (*Pipeline, error) {
	builder := defaultPipelineBuilder(cfg)
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt(&builder)
	}

	provider, logger := glog.Resolve("situm", builder.loggerProvider, builder.logger)
	logger = glog.Ensure(logger)
	if provider != nil {
		if named := provider.GetLogger("situm"); named != nil {
			logger = glog.Ensure(named)
		}
	}
	if builder.metricsRecorder == nil {
		builder.metricsRecorder = NopMetricsRecorder{}
	}
	if builder.configProvider == nil {
		builder.configProvider = NewCfgxConfigProvider(nil)
	}
	if builder.optionsResolver == nil {
		builder.optionsResolver = GoOptionsResolver{}
	}
	if builder.now == nil {
		builder.now = func() time.Time { return time.Now().UTC() }
	}
	if builder.transport == nil {
		return nil, newConfigurationError("a transport adapter is required")
	}

	defaults := DefaultConfig()
	loaded, err := builder.configProvider.Load(context.Background(), defaults)
	if err != nil {
		return nil, err
	}
	finalConfig, err := builder.optionsResolver.Resolve(defaults, loaded, builder.runtimeConfig)
	if err != nil {
		return nil, err
	}

	return &Pipeline{
		config:     finalConfig,
		credential: builder.credential,
		transport:  builder.transport,
		store:      builder.sessionStore,
		logger:     logger,
		metrics:    builder.metricsRecorder,
		now:        builder.now,
	}, nil
}

func (p *Pipeline) Config() Config {
	if p == nil {
		return Config{}
	}
	return p.config
}

func (p *Pipeline) Domain() string {
	if p == nil {
		return ""
	}
	return p.config.BaseURL()
}

func (p *Pipeline) Get(ctx context.Context, desc RequestDescriptor, out any) error {
	return p.do(ctx, http.MethodGet, desc, out)
}

func (p *Pipeline) Post(ctx context.Context, desc RequestDescriptor, out any) error {
	return p.do(ctx, http.MethodPost, desc, out)
}

func (p *Pipeline) Put(ctx context.Context, desc RequestDescriptor, out any) error {
	return p.do(ctx, http.MethodPut, desc, out)
}

func (p *Pipeline) Patch(ctx context.Context, desc RequestDescriptor, out any) error {
	return p.do(ctx, http.MethodPatch, desc, out)
}

func (p *Pipeline) Delete(ctx context.Context, desc RequestDescriptor) error {
	return p.do(ctx, http.MethodDelete, desc, nil)
}

// AuthSession returns a valid session, acquiring or renewing it if needed.
func (p *Pipeline) AuthSession(ctx context.Context) (Session, error) {
	if p == nil {
		return Session{}, newConfigurationError("pipeline is not initialized")
	}
	if ctx == nil {
		ctx = context.Background()
	}
	session, err := p.ensureSession(ctx)
	if err != nil {
		return Session{}, NormalizeError(err)
	}
	return session, nil
}

// OrganizationID returns the tenant of the current session.
func (p *Pipeline) OrganizationID(ctx context.Context) (string, error) {
	session, err := p.AuthSession(ctx)
	if err != nil {
		return "", err
	}
	return session.OrganizationID, nil
}

// CurrentSession returns the stored session without acquiring one.
func (p *Pipeline) CurrentSession() (Session, bool) {
	if p == nil {
		return Session{}, false
	}
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.session, !p.session.IsZero()
}

// ClearSession empties the session slot and removes the persisted copy.
func (p *Pipeline) ClearSession(ctx context.Context) error {
	if p == nil {
		return nil
	}
	p.mu.Lock()
	p.session = Session{}
	p.mu.Unlock()
	if p.store == nil || p.credential == nil {
		return nil
	}
	return p.store.DeleteSession(ctx, p.credential.Fingerprint())
}

func (p *Pipeline) do(ctx context.Context, method string, desc RequestDescriptor, out any) error {
	if p == nil {
		return newConfigurationError("pipeline is not initialized")
	}
	if ctx == nil {
		ctx = context.Background()
	}
	startedAt := time.Now()
	status, err := p.execute(ctx, method, desc, out)
	p.observeRequest(ctx, startedAt, method, desc.Path, status, err)
	return err
}

func (p *Pipeline) execute(ctx context.Context, method string, desc RequestDescriptor, out any) (int, error) {
	var token string
	if !desc.SkipAuthentication {
		session, err := p.ensureSession(ctx)
		if err != nil {
			return 0, NormalizeError(err)
		}
		token = session.Raw
	}

	req, err := p.buildRequest(method, desc, token)
	if err != nil {
		return 0, NormalizeError(err)
	}

	res, err := p.transport.Do(ctx, req)
	if err != nil {
		return 0, NormalizeError(err)
	}
	if res.StatusCode < 200 || res.StatusCode >= 300 {
		return res.StatusCode, NormalizeError(&HTTPStatusError{
			StatusCode: res.StatusCode,
			Body:       res.Body,
			Headers:    res.Headers,
		})
	}
	if err := decodeLocalCase(res.Body, out); err != nil {
		return res.StatusCode, NormalizeError(fmt.Errorf("core: decode response body: %w", err))
	}
	return res.StatusCode, nil
}

func (p *Pipeline) buildRequest(method string, desc RequestDescriptor, token string) (TransportRequest, error) {
	path := strings.TrimSpace(desc.Path)
	if path == "" {
		return TransportRequest{}, newConfigurationError("request path is required")
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}

	headers := make(map[string]string, len(desc.Headers)+4)
	for key, value := range desc.Headers {
		headers[key] = value
	}
	headers["Content-Type"] = "application/json"
	headers["Accept-Language"] = p.config.Language()
	if token != "" {
		headers[HeaderAuthorization] = "Bearer " + token
	}

	req := TransportRequest{
		Method:  method,
		URL:     p.config.BaseURL() + path,
		Headers: headers,
		Query:   encodeWireQuery(desc.Query),
		Timeout: p.config.TimeoutFor(desc.Path),
	}

	if desc.Auth != nil {
		switch desc.Auth.Kind {
		case AuthParamsBasic:
			req.BasicAuth = &BasicAuth{Username: desc.Auth.Username, Password: desc.Auth.Password}
		case AuthParamsHeader:
			for key, value := range desc.Auth.Headers {
				headers[key] = value
			}
		default:
			return TransportRequest{}, newConfigurationError("unrecognized auth params kind " + string(desc.Auth.Kind))
		}
	}

	if desc.Multipart != nil {
		body, contentType, err := encodeMultipart(desc.Multipart)
		if err != nil {
			return TransportRequest{}, fmt.Errorf("core: encode multipart body: %w", err)
		}
		headers["Content-Type"] = contentType
		req.Body = body
		return req, nil
	}

	body, err := encodeWireBody(desc.Body)
	if err != nil {
		return TransportRequest{}, fmt.Errorf("core: encode request body: %w", err)
	}
	req.Body = body
	return req, nil
}

func (p *Pipeline) ensureSession(ctx context.Context) (Session, error) {
	p.mu.RLock()
	current := p.session
	p.mu.RUnlock()
	if !current.IsZero() && !current.IsExpired(p.now(), p.config.ExpiryMargin()) {
		return current, nil
	}

	// The flight outlives any single caller; each caller only stops waiting
	// when its own context is done.
	results := p.flight.DoChan(sessionFlightKey, func() (any, error) {
		flightCtx, cancel := p.flightContext(ctx)
		defer cancel()
		return p.transition(flightCtx)
	})
	select {
	case <-ctx.Done():
		return Session{}, ctx.Err()
	case result := <-results:
		if result.Err != nil {
			return Session{}, result.Err
		}
		return result.Val.(Session), nil
	}
}

func (p *Pipeline) flightContext(ctx context.Context) (context.Context, context.CancelFunc) {
	detached := context.WithoutCancel(ctx)
	if timeout := p.config.TimeoutFor(AccessTokensPath); timeout > 0 {
		return context.WithTimeout(detached, timeout)
	}
	return context.WithCancel(detached)
}

// transition runs inside the single flight. It re-reads the slot since a
// previous flight may already have replaced it.
func (p *Pipeline) transition(ctx context.Context) (Session, error) {
	p.mu.RLock()
	current := p.session
	p.mu.RUnlock()

	now := p.now()
	margin := p.config.ExpiryMargin()
	if !current.IsZero() && !current.IsExpired(now, margin) {
		return current, nil
	}

	var (
		next Session
		err  error
		name string
	)
	switch {
	case current.IsZero():
		name = "acquire"
		next, err = p.acquire(ctx)
	case current.CanRefresh():
		name = "refresh"
		next, err = p.refresh(ctx, current)
	case current.Source == SessionSourcePreIssued:
		if p.config.PreIssuedTokenPolicy == PreIssuedTokenFail {
			err = newInvalidSessionError("pre-issued session token has expired", nil)
			p.observeSession(ctx, "expire", current, err)
			return Session{}, err
		}
		return current, nil
	default:
		name = "acquire"
		next, err = p.exchange(ctx)
	}
	p.observeSession(ctx, name, next, err)
	if err != nil {
		return Session{}, err
	}

	p.mu.Lock()
	p.session = next
	p.mu.Unlock()
	p.persist(ctx, next)
	return next, nil
}

func (p *Pipeline) acquire(ctx context.Context) (Session, error) {
	if p.credential == nil {
		return Session{}, newConfigurationError("no credential configured")
	}
	if err := p.credential.Validate(); err != nil {
		return Session{}, err
	}
	if p.credential.Kind == CredentialToken {
		session, err := DecodeSession(p.credential.Token, "", SessionSourcePreIssued)
		if err != nil {
			return Session{}, err
		}
		if p.config.PreIssuedTokenPolicy == PreIssuedTokenFail && session.IsExpired(p.now(), p.config.ExpiryMargin()) {
			return Session{}, newInvalidSessionError("pre-issued session token has expired", nil)
		}
		return session, nil
	}

	if stored, ok := p.loadStored(ctx); ok {
		if !stored.IsExpired(p.now(), p.config.ExpiryMargin()) {
			return stored, nil
		}
		if stored.CanRefresh() {
			return p.refresh(ctx, stored)
		}
	}
	return p.exchange(ctx)
}

func (p *Pipeline) exchange(ctx context.Context) (Session, error) {
	if p.credential == nil {
		return Session{}, newConfigurationError("no credential configured")
	}
	params, err := ResolveCredential(*p.credential)
	if err != nil {
		return Session{}, err
	}
	var tokens AccessTokens
	err = p.Post(ctx, RequestDescriptor{
		Path:               AccessTokensPath,
		Auth:               &params,
		SkipAuthentication: true,
	}, &tokens)
	if err != nil {
		return Session{}, err
	}
	return DecodeSession(tokens.AccessToken, tokens.RefreshToken, SessionSourceExchange)
}

func (p *Pipeline) refresh(ctx context.Context, current Session) (Session, error) {
	if p.credential == nil {
		return Session{}, newConfigurationError("no credential configured")
	}
	params, err := ResolveCredential(*p.credential)
	if err != nil {
		return Session{}, err
	}
	var tokens AccessTokens
	err = p.Post(ctx, RequestDescriptor{
		Path: RefreshAccessTokensPath,
		Body: map[string]any{
			"accessToken":  current.Raw,
			"refreshToken": current.RefreshToken,
		},
		Auth:               &params,
		SkipAuthentication: true,
	}, &tokens)
	if err != nil {
		return Session{}, err
	}
	return DecodeSession(tokens.AccessToken, tokens.RefreshToken, current.Source)
}

func (p *Pipeline) loadStored(ctx context.Context) (Session, bool) {
	if p.store == nil || p.credential == nil {
		return Session{}, false
	}
	stored, ok, err := p.store.LoadSession(ctx, p.credential.Fingerprint())
	if err != nil {
		p.logError(ctx, "situm session store load failed", map[string]any{"error": err.Error()})
		return Session{}, false
	}
	if !ok || stored.IsZero() {
		return Session{}, false
	}
	return stored, true
}

func (p *Pipeline) persist(ctx context.Context, session Session) {
	if p.store == nil || p.credential == nil || session.Source == SessionSourcePreIssued {
		return
	}
	if err := p.store.SaveSession(ctx, p.credential.Fingerprint(), session); err != nil {
		p.logError(ctx, "situm session store save failed", map[string]any{"error": err.Error()})
	}
}
