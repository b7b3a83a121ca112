package viewer

import (
	"context"
	"net/http"
	"strings"
	"sync"
	"time"

	json "github.com/goccy/go-json"
	goerrors "github.com/goliatone/go-errors"
	glog "github.com/goliatone/go-logger/glog"
	"github.com/gorilla/websocket"

	"github.com/goliatone/go-situm/core"
)

const (
	defaultHandshakeTimeout = 10 * time.Second
	defaultWriteTimeout     = 10 * time.Second
)

type Callback func(payload json.RawMessage)

type DialOption func(*dialConfig)

type dialConfig struct {
	dialer       *websocket.Dialer
	header       http.Header
	logger       core.Logger
	writeTimeout time.Duration
}

func WithDialer(dialer *websocket.Dialer) DialOption {
	return func(c *dialConfig) {
		if dialer != nil {
			c.dialer = dialer
		}
	}
}

func WithHeader(header http.Header) DialOption {
	return func(c *dialConfig) {
		c.header = header.Clone()
	}
}

func WithLogger(logger core.Logger) DialOption {
	return func(c *dialConfig) {
		if logger != nil {
			c.logger = logger
		}
	}
}

func WithWriteTimeout(timeout time.Duration) DialOption {
	return func(c *dialConfig) {
		if timeout > 0 {
			c.writeTimeout = timeout
		}
	}
}

// Viewer is a live connection to a map viewer. Writes are serialized;
// callbacks run on the read goroutine in registration order.
type Viewer struct {
	conn         *websocket.Conn
	logger       core.Logger
	writeTimeout time.Duration

	writeMu sync.Mutex

	mu        sync.RWMutex
	listeners map[string][]Callback

	closeOnce sync.Once
	done      chan struct{}

	realtimeMu     sync.Mutex
	realtimeCancel context.CancelFunc
	realtimeDone   chan struct{}
}

// Dial opens the websocket at endpoint and starts dispatching incoming
// messages.
func Dial(ctx context.Context, endpoint string, opts ...DialOption) (*Viewer, error) {
	endpoint = strings.TrimSpace(endpoint)
	if endpoint == "" {
		return nil, core.NewBadInputError("viewer: endpoint is required",
			goerrors.FieldError{Field: "endpoint", Message: "required"})
	}
	_, logger := glog.Resolve("situm.viewer", nil, nil)
	cfg := dialConfig{
		dialer:       &websocket.Dialer{HandshakeTimeout: defaultHandshakeTimeout},
		logger:       logger,
		writeTimeout: defaultWriteTimeout,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	conn, res, err := cfg.dialer.DialContext(ctx, endpoint, cfg.header)
	if res != nil && res.Body != nil {
		defer res.Body.Close()
	}
	if err != nil {
		metadata := map[string]any{"endpoint": endpoint}
		if res != nil {
			metadata["status_code"] = res.StatusCode
		}
		return nil, goerrors.Wrap(err, goerrors.CategoryExternal, "viewer: dial websocket").
			WithCode(http.StatusBadGateway).
			WithTextCode(core.ServiceErrorExternalFailure).
			WithMetadata(metadata)
	}

	v := newViewer(conn, cfg)
	go v.readLoop()
	return v, nil
}

func newViewer(conn *websocket.Conn, cfg dialConfig) *Viewer {
	return &Viewer{
		conn:         conn,
		logger:       cfg.logger,
		writeTimeout: cfg.writeTimeout,
		listeners:    map[string][]Callback{},
		done:         make(chan struct{}),
	}
}

// On registers callback for eventType.
func (v *Viewer) On(eventType string, callback Callback) {
	if v == nil || callback == nil {
		return
	}
	v.mu.Lock()
	v.listeners[eventType] = append(v.listeners[eventType], callback)
	v.mu.Unlock()
}

// Send writes one {type, payload} envelope.
func (v *Viewer) Send(ctx context.Context, actionType string, payload any) error {
	if v == nil || v.conn == nil {
		return core.NewConfigurationError("viewer is not connected")
	}
	if strings.TrimSpace(actionType) == "" {
		return core.NewBadInputError("viewer: action type is required",
			goerrors.FieldError{Field: "type", Message: "required"})
	}
	select {
	case <-v.done:
		return goerrors.New("viewer: connection closed", goerrors.CategoryOperation).
			WithCode(http.StatusConflict).
			WithTextCode(core.ServiceErrorConflict)
	default:
	}

	encoded, err := json.Marshal(outgoing{Type: actionType, Payload: payload})
	if err != nil {
		return goerrors.Wrap(err, goerrors.CategoryBadInput, "viewer: encode message").
			WithCode(http.StatusBadRequest).
			WithTextCode(core.ServiceErrorBadInput)
	}

	deadline := time.Now().Add(v.writeTimeout)
	if ctx != nil {
		if ctxDeadline, ok := ctx.Deadline(); ok && ctxDeadline.Before(deadline) {
			deadline = ctxDeadline
		}
	}

	v.writeMu.Lock()
	defer v.writeMu.Unlock()
	if err := v.conn.SetWriteDeadline(deadline); err != nil {
		return v.writeError(err, actionType)
	}
	if err := v.conn.WriteMessage(websocket.TextMessage, encoded); err != nil {
		return v.writeError(err, actionType)
	}
	return nil
}

func (v *Viewer) writeError(err error, actionType string) error {
	return goerrors.Wrap(err, goerrors.CategoryExternal, "viewer: write message").
		WithCode(http.StatusBadGateway).
		WithTextCode(core.ServiceErrorExternalFailure).
		WithMetadata(map[string]any{"type": actionType})
}

// Done is closed once the connection stops reading.
func (v *Viewer) Done() <-chan struct{} {
	return v.done
}

// Close stops any realtime refresh and closes the connection with a normal
// closure frame.
func (v *Viewer) Close() error {
	if v == nil || v.conn == nil {
		return nil
	}
	v.StopRealtimePositions()

	var closeErr error
	v.closeOnce.Do(func() {
		v.writeMu.Lock()
		_ = v.conn.WriteControl(
			websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
			time.Now().Add(time.Second),
		)
		v.writeMu.Unlock()
		closeErr = v.conn.Close()
	})
	return closeErr
}

func (v *Viewer) readLoop() {
	defer v.markDone()
	for {
		_, data, err := v.conn.ReadMessage()
		if err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				v.log("debug", "viewer read stopped", map[string]any{"error": err.Error()})
			}
			return
		}
		v.dispatch(data)
	}
}

// dispatch ignores frames that are not JSON envelopes or carry no type.
func (v *Viewer) dispatch(data []byte) {
	var msg Message
	if err := json.Unmarshal(data, &msg); err != nil {
		return
	}
	if msg.Type == "" {
		return
	}
	v.mu.RLock()
	callbacks := append([]Callback(nil), v.listeners[msg.Type]...)
	v.mu.RUnlock()
	for _, callback := range callbacks {
		callback(msg.Payload)
	}
}

func (v *Viewer) markDone() {
	select {
	case <-v.done:
	default:
		close(v.done)
	}
}

func (v *Viewer) log(level, message string, fields map[string]any) {
	if v.logger == nil {
		return
	}
	logger := v.logger
	if fieldsLogger, ok := logger.(core.FieldsLogger); ok {
		logger = fieldsLogger.WithFields(fields)
	}
	args := make([]any, 0, len(fields)*2)
	for key, value := range fields {
		args = append(args, key, value)
	}
	switch level {
	case "error":
		logger.Error(message, args...)
	case "debug":
		logger.Debug(message, args...)
	default:
		logger.Info(message, args...)
	}
}
