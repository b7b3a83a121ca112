package transport

import (
	"context"
	"errors"
	"net/http"

	goerrors "github.com/goliatone/go-errors"

	"github.com/goliatone/go-situm/core"
)

// requestError reports a request that could not be built from its
// TransportRequest. Nothing was sent.
func requestError(source error, message string, fields map[string]any) error {
	return newTransportError(source, goerrors.CategoryBadInput, http.StatusBadRequest, core.ServiceErrorBadInput, message, fields)
}

// upstreamError reports a failure while talking to the platform: the
// connection, a timeout, or an unreadable body.
func upstreamError(source error, message string, fields map[string]any) error {
	if errors.Is(source, context.DeadlineExceeded) {
		fields = withField(fields, "timeout", true)
	}
	return newTransportError(source, goerrors.CategoryExternal, http.StatusBadGateway, core.ServiceErrorExternalFailure, message, fields)
}

func adapterError(message string) error {
	return newTransportError(nil, goerrors.CategoryInternal, http.StatusInternalServerError, core.ServiceErrorInternal, message, nil)
}

func newTransportError(
	source error,
	category goerrors.Category,
	status int,
	textCode string,
	message string,
	fields map[string]any,
) error {
	var err *goerrors.Error
	if source == nil {
		err = goerrors.New(message, category)
	} else {
		err = goerrors.Wrap(source, category, message)
	}
	return err.
		WithCode(status).
		WithTextCode(textCode).
		WithMetadata(withField(fields, "adapter", KindREST))
}

func withField(fields map[string]any, key string, value any) map[string]any {
	out := make(map[string]any, len(fields)+1)
	for k, v := range fields {
		out[k] = v
	}
	out[key] = value
	return out
}
