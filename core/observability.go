package core

import (
	"context"
	"sort"
	"strings"
	"time"
)

type NopMetricsRecorder struct{}

func (NopMetricsRecorder) IncCounter(context.Context, string, int64, map[string]string) {}

func (NopMetricsRecorder) ObserveHistogram(context.Context, string, float64, map[string]string) {}

// observeRequest records one pipeline call. Fields must never carry token
// or password material.
func (p *Pipeline) observeRequest(
	ctx context.Context,
	startedAt time.Time,
	method string,
	path string,
	status int,
	err error,
) {
	if p == nil {
		return
	}
	outcome := "success"
	if err != nil {
		outcome = "failure"
	}
	tags := map[string]string{
		"method":  strings.ToLower(method),
		"outcome": outcome,
	}
	elapsed := time.Since(startedAt)
	p.metrics.IncCounter(ctx, "situm.request.total", 1, tags)
	p.metrics.ObserveHistogram(ctx, "situm.request.duration_ms", float64(elapsed.Milliseconds()), tags)

	if err == nil {
		return
	}
	fields := map[string]any{
		"method":      method,
		"path":        path,
		"status":      status,
		"duration_ms": elapsed.Milliseconds(),
	}
	if normalized := NormalizeError(err); normalized != nil {
		fields["code"] = normalized.Code
		fields["status"] = normalized.Status
		fields["error"] = normalized.Message
	}
	p.logError(ctx, "situm request failed", fields)
}

func (p *Pipeline) observeSession(ctx context.Context, transition string, session Session, err error) {
	if p == nil {
		return
	}
	outcome := "success"
	if err != nil {
		outcome = "failure"
	}
	p.metrics.IncCounter(ctx, "situm.session."+transition, 1, map[string]string{"outcome": outcome})

	fields := map[string]any{"transition": transition}
	if err != nil {
		fields["error"] = err.Error()
		p.logError(ctx, "situm session "+transition+" failed", fields)
		return
	}
	fields["organization_id"] = session.OrganizationID
	fields["expires_at"] = session.ExpiresAtTime().Format(time.RFC3339)
	fields["source"] = string(session.Source)
	p.logInfo(ctx, "situm session "+transition, fields)
}

func (p *Pipeline) logInfo(ctx context.Context, message string, fields map[string]any) {
	p.logWithLevel(ctx, "info", message, fields)
}

func (p *Pipeline) logError(ctx context.Context, message string, fields map[string]any) {
	p.logWithLevel(ctx, "error", message, fields)
}

func (p *Pipeline) logWithLevel(ctx context.Context, level string, message string, fields map[string]any) {
	if p == nil || p.logger == nil {
		return
	}
	logger := p.logger
	if ctx != nil {
		logger = logger.WithContext(ctx)
	}
	if fieldsLogger, ok := logger.(FieldsLogger); ok {
		logger = fieldsLogger.WithFields(cloneFields(fields))
	}
	args := flattenFields(fields)
	switch level {
	case "error":
		logger.Error(message, args...)
	default:
		logger.Info(message, args...)
	}
}

func cloneFields(fields map[string]any) map[string]any {
	copied := make(map[string]any, len(fields))
	for key, value := range fields {
		copied[key] = value
	}
	return copied
}

func flattenFields(fields map[string]any) []any {
	if len(fields) == 0 {
		return nil
	}
	keys := make([]string, 0, len(fields))
	for key := range fields {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	args := make([]any, 0, len(keys)*2)
	for _, key := range keys {
		args = append(args, key, fields[key])
	}
	return args
}
