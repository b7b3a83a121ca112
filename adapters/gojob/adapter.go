// Package gojob runs realtime position refreshes on go-job queues.
package gojob

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	goerrors "github.com/goliatone/go-errors"
	job "github.com/goliatone/go-job"
	"github.com/goliatone/go-job/queue"
	"github.com/goliatone/go-job/queue/worker"
	glog "github.com/goliatone/go-logger/glog"

	"github.com/goliatone/go-situm/core"
	"github.com/goliatone/go-situm/realtime"
)

const (
	JobIDRealtimePositions = "situm.realtime.positions"

	paramBuildingIDs = "building_ids"
	paramUserIDs     = "user_ids"
	paramDeviceIDs   = "device_ids"
	paramIndoor      = "indoor"
	paramMaxSeconds  = "max_sec_threshold"

	defaultRetryDelay = 5 * time.Second
)

// RetryPolicy defines queue retry bounds to avoid unbounded retry loops.
type RetryPolicy struct {
	MaxAttempts     int
	MaxDelay        time.Duration
	DeadLetterOnMax bool
}

// NormalizeAttempt enforces bounded retry behavior for a nack operation.
func (p RetryPolicy) NormalizeAttempt(opts queue.NackOptions, attempt int) queue.NackOptions {
	out := opts
	out.Reason = strings.TrimSpace(out.Reason)
	if out.Delay < 0 {
		out.Delay = 0
	}
	if p.MaxDelay > 0 && out.Delay > p.MaxDelay {
		out.Delay = p.MaxDelay
	}
	if out.DeadLetter {
		out.Requeue = false
	}
	if p.MaxAttempts > 0 && attempt >= p.MaxAttempts {
		out.Requeue = false
		if p.DeadLetterOnMax || out.DeadLetter {
			out.DeadLetter = true
		}
	}
	if !out.Requeue && !out.DeadLetter {
		out.Requeue = true
	}
	return out
}

// NewPositionsJobMessage encodes search as job parameters. Lists are kept
// comma joined so the parameters survive any queue codec.
func NewPositionsJobMessage(search realtime.Search, idempotencyKey string) *job.ExecutionMessage {
	params := map[string]any{}
	if len(search.BuildingIDs) > 0 {
		ids := make([]string, 0, len(search.BuildingIDs))
		for _, id := range search.BuildingIDs {
			ids = append(ids, strconv.Itoa(id))
		}
		params[paramBuildingIDs] = strings.Join(ids, ",")
	}
	if len(search.UserIDs) > 0 {
		params[paramUserIDs] = strings.Join(search.UserIDs, ",")
	}
	if len(search.DeviceIDs) > 0 {
		params[paramDeviceIDs] = strings.Join(search.DeviceIDs, ",")
	}
	if search.Indoor != nil {
		params[paramIndoor] = strconv.FormatBool(*search.Indoor)
	}
	if search.MaxSecondsThreshold != nil {
		params[paramMaxSeconds] = strconv.Itoa(*search.MaxSecondsThreshold)
	}
	return &job.ExecutionMessage{
		JobID:          JobIDRealtimePositions,
		ScriptPath:     JobIDRealtimePositions,
		Parameters:     params,
		IdempotencyKey: strings.TrimSpace(idempotencyKey),
	}
}

// SearchFromMessage decodes the parameters written by NewPositionsJobMessage.
func SearchFromMessage(msg *job.ExecutionMessage) (realtime.Search, error) {
	if msg == nil {
		return realtime.Search{}, badMessageError("gojob: execution message is required")
	}
	if strings.TrimSpace(msg.JobID) != JobIDRealtimePositions {
		return realtime.Search{}, badMessageError(fmt.Sprintf("gojob: unexpected job id %q", msg.JobID))
	}

	search := realtime.Search{}
	for _, raw := range splitParam(msg.Parameters, paramBuildingIDs) {
		id, err := strconv.Atoi(raw)
		if err != nil {
			return realtime.Search{}, badMessageError("gojob: building_ids must be integers")
		}
		search.BuildingIDs = append(search.BuildingIDs, id)
	}
	search.UserIDs = splitParam(msg.Parameters, paramUserIDs)
	search.DeviceIDs = splitParam(msg.Parameters, paramDeviceIDs)
	if raw := stringParam(msg.Parameters, paramIndoor); raw != "" {
		indoor, err := strconv.ParseBool(raw)
		if err != nil {
			return realtime.Search{}, badMessageError("gojob: indoor must be a boolean")
		}
		search.Indoor = &indoor
	}
	if raw := stringParam(msg.Parameters, paramMaxSeconds); raw != "" {
		seconds, err := strconv.Atoi(raw)
		if err != nil {
			return realtime.Search{}, badMessageError("gojob: max_sec_threshold must be an integer")
		}
		search.MaxSecondsThreshold = &seconds
	}
	return search, nil
}

type EnqueuerAdapter struct {
	enqueuer queue.Enqueuer
}

func NewEnqueuerAdapter(enqueuer queue.Enqueuer) *EnqueuerAdapter {
	return &EnqueuerAdapter{enqueuer: enqueuer}
}

func (a *EnqueuerAdapter) EnqueuePositions(ctx context.Context, search realtime.Search, idempotencyKey string) error {
	if a == nil || a.enqueuer == nil {
		return core.NewConfigurationError("gojob: enqueuer is not configured")
	}
	return a.enqueuer.Enqueue(ctx, NewPositionsJobMessage(search, idempotencyKey))
}

// PositionsSource is satisfied by *realtime.Service.
type PositionsSource interface {
	Positions(ctx context.Context, search realtime.Search) (realtime.Positions, error)
}

// PositionsSink receives every successful refresh, e.g. a viewer push.
type PositionsSink func(ctx context.Context, positions realtime.Positions) error

type PositionsHandler struct {
	source PositionsSource
	sink   PositionsSink
	policy RetryPolicy
	logger core.Logger
}

type HandlerOption func(*PositionsHandler)

func WithRetryPolicy(policy RetryPolicy) HandlerOption {
	return func(h *PositionsHandler) {
		h.policy = policy
	}
}

func WithLogger(logger core.Logger) HandlerOption {
	return func(h *PositionsHandler) {
		if logger != nil {
			h.logger = logger
		}
	}
}

func NewPositionsHandler(source PositionsSource, sink PositionsSink, opts ...HandlerOption) *PositionsHandler {
	_, logger := glog.Resolve("situm.jobs", nil, nil)
	handler := &PositionsHandler{
		source: source,
		sink:   sink,
		policy: RetryPolicy{MaxAttempts: 3, MaxDelay: time.Minute, DeadLetterOnMax: true},
		logger: logger,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(handler)
		}
	}
	return handler
}

// Handle processes one delivery. Malformed messages go straight to the dead
// letter queue; bad input from the API is not retried either. Other
// failures are requeued within the retry policy.
func (h *PositionsHandler) Handle(ctx context.Context, delivery queue.Delivery, attempt int) error {
	if h == nil || h.source == nil {
		return core.NewConfigurationError("gojob: positions source is not configured")
	}
	if delivery == nil {
		return core.NewConfigurationError("gojob: delivery is required")
	}

	search, err := SearchFromMessage(delivery.Message())
	if err != nil {
		h.log("error", "realtime job rejected", map[string]any{"error": err.Error()})
		if nackErr := delivery.Nack(ctx, h.policy.NormalizeAttempt(queue.NackOptions{
			DeadLetter: true,
			Reason:     err.Error(),
		}, attempt)); nackErr != nil {
			return nackErr
		}
		return err
	}

	positions, err := h.source.Positions(ctx, search)
	if err == nil && h.sink != nil {
		err = h.sink(ctx, positions)
	}
	if err != nil {
		opts := queue.NackOptions{Requeue: true, Delay: defaultRetryDelay * time.Duration(max(attempt, 1)), Reason: err.Error()}
		if !retryable(err) {
			opts = queue.NackOptions{DeadLetter: true, Reason: err.Error()}
		}
		normalized := h.policy.NormalizeAttempt(opts, attempt)
		h.log("error", "realtime job failed", map[string]any{
			"attempt":     attempt,
			"requeue":     normalized.Requeue,
			"dead_letter": normalized.DeadLetter,
			"error":       err.Error(),
		})
		if nackErr := delivery.Nack(ctx, normalized); nackErr != nil {
			return nackErr
		}
		return err
	}

	h.log("debug", "realtime job completed", map[string]any{
		"attempt":  attempt,
		"features": len(positions.Features),
	})
	return delivery.Ack(ctx)
}

// Run dequeues until ctx is done. Failures are already nacked by Handle, so
// only dequeue errors stop the loop. The attempt passed to Handle comes from
// the delivery when it reports one.
func (h *PositionsHandler) Run(ctx context.Context, dequeuer queue.Dequeuer) error {
	if dequeuer == nil {
		return core.NewConfigurationError("gojob: dequeuer is not configured")
	}
	for {
		if ctx.Err() != nil {
			return nil
		}
		delivery, err := dequeuer.Dequeue(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return err
		}
		attempt := deliveryAttempts(delivery)
		if err := h.Handle(ctx, delivery, attempt); err != nil {
			h.log("error", "realtime job delivery failed", map[string]any{
				"attempt": attempt,
				"error":   err.Error(),
			})
		}
	}
}

// deliveryAttempts reads the broker's delivery count when the delivery
// exposes one. A first delivery counts as attempt 1.
func deliveryAttempts(delivery queue.Delivery) int {
	if counted, ok := delivery.(interface{ Attempts() int }); ok {
		if attempts := counted.Attempts(); attempts > 0 {
			return attempts
		}
	}
	return 1
}

func retryable(err error) bool {
	var coreErr *core.Error
	if goerrors.As(err, &coreErr) {
		return coreErr.Status >= http.StatusInternalServerError ||
			coreErr.Status == http.StatusTooManyRequests ||
			coreErr.Status == http.StatusUnauthorized
	}
	var rich *goerrors.Error
	if goerrors.As(err, &rich) {
		switch rich.TextCode {
		case core.ServiceErrorBadInput, core.ServiceErrorForbidden, core.ServiceErrorNotFound:
			return false
		}
	}
	return true
}

func (h *PositionsHandler) log(level, message string, fields map[string]any) {
	if h.logger == nil {
		return
	}
	logger := h.logger
	if fieldsLogger, ok := logger.(core.FieldsLogger); ok {
		logger = fieldsLogger.WithFields(fields)
	}
	switch level {
	case "error":
		logger.Error(message)
	default:
		logger.Debug(message)
	}
}

// LoggingHook reports go-job worker events through a glog logger.
type LoggingHook struct {
	logger core.Logger
}

func NewLoggingHook(logger core.Logger) *LoggingHook {
	if logger == nil {
		_, logger = glog.Resolve("situm.jobs", nil, nil)
	}
	return &LoggingHook{logger: logger}
}

func (h *LoggingHook) OnStart(_ context.Context, event worker.Event) {
	h.emit("debug", "job started", event)
}

func (h *LoggingHook) OnSuccess(_ context.Context, event worker.Event) {
	h.emit("debug", "job succeeded", event)
}

func (h *LoggingHook) OnFailure(_ context.Context, event worker.Event) {
	h.emit("error", "job failed", event)
}

func (h *LoggingHook) OnRetry(_ context.Context, event worker.Event) {
	h.emit("info", "job retry scheduled", event)
}

func (h *LoggingHook) emit(level, message string, event worker.Event) {
	if h == nil || h.logger == nil {
		return
	}
	fields := eventFields(event)
	logger := h.logger
	if fieldsLogger, ok := logger.(core.FieldsLogger); ok {
		logger = fieldsLogger.WithFields(fields)
	}
	switch level {
	case "error":
		logger.Error(message)
	case "info":
		logger.Info(message)
	default:
		logger.Debug(message)
	}
}

func eventFields(event worker.Event) map[string]any {
	message := event.Message
	if message == nil && event.Delivery != nil {
		message = event.Delivery.Message()
	}
	fields := map[string]any{
		"attempt":     event.Attempt,
		"delay_ms":    event.Delay.Milliseconds(),
		"duration_ms": event.Duration.Milliseconds(),
	}
	if message != nil {
		fields["job_id"] = message.JobID
		fields["idempotency_key"] = message.IdempotencyKey
	}
	if event.Err != nil {
		fields["error"] = event.Err.Error()
	}
	return fields
}

func badMessageError(message string) error {
	return goerrors.New(message, goerrors.CategoryBadInput).
		WithCode(http.StatusBadRequest).
		WithTextCode(core.ServiceErrorBadInput)
}

func stringParam(params map[string]any, key string) string {
	value, ok := params[key]
	if !ok || value == nil {
		return ""
	}
	switch typed := value.(type) {
	case string:
		return strings.TrimSpace(typed)
	default:
		return strings.TrimSpace(fmt.Sprint(typed))
	}
}

func splitParam(params map[string]any, key string) []string {
	raw := stringParam(params, key)
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

var _ worker.Hook = (*LoggingHook)(nil)
