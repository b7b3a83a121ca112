package core

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	goerrors "github.com/goliatone/go-errors"
)

const (
	CodeGenericError       = "generic_error"
	CodeHTTPError          = "http_error"
	CodeInvalidCredentials = "invalid_credentials"
	CodeInvalidSession     = "invalid_session"
	CodeConfigurationError = "configuration_error"
)

const invalidCredentialsMessage = "Invalid credentials, check your username and password or API key"

const (
	ServiceErrorBadInput        = "SITUM_BAD_INPUT"
	ServiceErrorUnauthorized    = "SITUM_UNAUTHORIZED"
	ServiceErrorForbidden       = "SITUM_FORBIDDEN"
	ServiceErrorNotFound        = "SITUM_NOT_FOUND"
	ServiceErrorConflict        = "SITUM_CONFLICT"
	ServiceErrorRateLimited     = "SITUM_RATE_LIMITED"
	ServiceErrorExternalFailure = "SITUM_EXTERNAL_FAILURE"
	ServiceErrorInternal        = "SITUM_INTERNAL_ERROR"
)

type SubError struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
	SubCode string `json:"subCode,omitempty"`
	Field   string `json:"field,omitempty"`
	Value   string `json:"value,omitempty"`
}

// Error is the single error shape returned by the pipeline. Callers tell
// authentication, validation and transport failures apart by Code and
// Status.
type Error struct {
	Status  int        `json:"status"`
	Code    string     `json:"code"`
	Message string     `json:"message"`
	Errors  []SubError `json:"errors,omitempty"`

	cause error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("situm: %s (%d): %s", e.Code, e.Status, e.Message)
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.cause
}

// HTTPStatusError carries a non-2xx response before normalization.
type HTTPStatusError struct {
	StatusCode int
	Body       []byte
	Headers    map[string]string
}

func (e *HTTPStatusError) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("situm: unexpected status %d", e.StatusCode)
}

// NormalizeError maps any failure into *Error. Already normalized errors are
// returned unchanged.
func NormalizeError(err error) *Error {
	if err == nil {
		return nil
	}

	var normalized *Error
	if errors.As(err, &normalized) && normalized != nil {
		return normalized
	}

	var statusErr *HTTPStatusError
	if errors.As(err, &statusErr) && statusErr != nil {
		return normalizeHTTPStatus(statusErr)
	}

	return &Error{
		Status:  http.StatusInternalServerError,
		Code:    CodeGenericError,
		Message: strings.TrimSpace(err.Error()),
		cause:   err,
	}
}

type wireErrorBody struct {
	Status  any            `json:"status"`
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Errors  []wireSubError `json:"errors"`
}

type wireSubError struct {
	Message string `json:"message"`
	Code    string `json:"code"`
	SubCode string `json:"subCode"`
	Field   string `json:"field"`
	Fields  string `json:"fields"`
	Value   any    `json:"value"`
}

func normalizeHTTPStatus(statusErr *HTTPStatusError) *Error {
	out := &Error{
		Status: statusErr.StatusCode,
		Code:   CodeHTTPError,
		cause:  statusErr,
	}

	var body wireErrorBody
	if decodeLocalCase(statusErr.Body, &body) == nil && strings.TrimSpace(body.Code) != "" {
		if status := statusFromAny(body.Status); status > 0 {
			out.Status = status
		}
		out.Code = strings.TrimSpace(body.Code)
		out.Message = body.Message
		for _, sub := range body.Errors {
			field := sub.Field
			if field == "" {
				field = sub.Fields
			}
			out.Errors = append(out.Errors, SubError{
				Message: sub.Message,
				Code:    sub.Code,
				SubCode: sub.SubCode,
				Field:   field,
				Value:   scalarString(sub.Value),
			})
		}
		if out.Code == CodeInvalidCredentials {
			out.Message = invalidCredentialsMessage
		}
		return out
	}

	out.Message = strings.TrimSpace(string(statusErr.Body))
	if out.Message == "" {
		out.Message = http.StatusText(statusErr.StatusCode)
	}
	return out
}

func statusFromAny(value any) int {
	switch typed := value.(type) {
	case float64:
		return int(typed)
	case int:
		return typed
	case int64:
		return int(typed)
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(typed))
		if err == nil {
			return n
		}
	case fmt.Stringer:
		n, err := strconv.Atoi(typed.String())
		if err == nil {
			return n
		}
	}
	return 0
}

func scalarString(value any) string {
	if value == nil {
		return ""
	}
	if s, ok := value.(string); ok {
		return s
	}
	return fmt.Sprint(value)
}

// IsCode reports whether err normalizes to the given code.
func IsCode(err error, code string) bool {
	if err == nil {
		return false
	}
	return NormalizeError(err).Code == code
}

func IsStatus(err error, status int) bool {
	if err == nil {
		return false
	}
	return NormalizeError(err).Status == status
}

func newConfigurationError(message string) *Error {
	return &Error{
		Status:  http.StatusInternalServerError,
		Code:    CodeConfigurationError,
		Message: "configuration: " + message,
	}
}

func newInvalidSessionError(message string, cause error) *Error {
	return &Error{
		Status:  http.StatusUnauthorized,
		Code:    CodeInvalidSession,
		Message: message,
		cause:   cause,
	}
}

// ToServiceError converts the normalized error into a go-errors envelope.
func (e *Error) ToServiceError() *goerrors.Error {
	if e == nil {
		return nil
	}
	category := categoryForStatus(e.Status)
	if e.Code == CodeConfigurationError {
		category = goerrors.CategoryInternal
	}

	var out *goerrors.Error
	if len(e.Errors) > 0 {
		fields := make([]goerrors.FieldError, 0, len(e.Errors))
		for _, sub := range e.Errors {
			fields = append(fields, goerrors.FieldError{Field: sub.Field, Message: sub.Message})
		}
		out = goerrors.NewValidation(e.Message, fields...)
	} else {
		out = goerrors.Wrap(e, category, e.Message)
	}
	out = out.WithCode(e.Status).WithTextCode(textCodeForCategory(category))
	out.WithMetadata(map[string]any{"code": e.Code})
	return ensureServiceErrorEnvelope(out)
}

func categoryForStatus(status int) goerrors.Category {
	switch {
	case status == http.StatusBadRequest, status == http.StatusUnprocessableEntity:
		return goerrors.CategoryBadInput
	case status == http.StatusUnauthorized:
		return goerrors.CategoryAuth
	case status == http.StatusForbidden:
		return goerrors.CategoryAuthz
	case status == http.StatusNotFound:
		return goerrors.CategoryNotFound
	case status == http.StatusConflict:
		return goerrors.CategoryConflict
	case status == http.StatusTooManyRequests:
		return goerrors.CategoryRateLimit
	case status >= 500 && status != http.StatusInternalServerError:
		return goerrors.CategoryExternal
	default:
		return goerrors.CategoryInternal
	}
}

func textCodeForCategory(category goerrors.Category) string {
	switch category {
	case goerrors.CategoryBadInput, goerrors.CategoryValidation:
		return ServiceErrorBadInput
	case goerrors.CategoryAuth:
		return ServiceErrorUnauthorized
	case goerrors.CategoryAuthz:
		return ServiceErrorForbidden
	case goerrors.CategoryNotFound:
		return ServiceErrorNotFound
	case goerrors.CategoryConflict:
		return ServiceErrorConflict
	case goerrors.CategoryRateLimit:
		return ServiceErrorRateLimited
	case goerrors.CategoryExternal:
		return ServiceErrorExternalFailure
	default:
		return ServiceErrorInternal
	}
}

func serviceHTTPStatus(category goerrors.Category) int {
	switch category {
	case goerrors.CategoryBadInput, goerrors.CategoryValidation:
		return http.StatusBadRequest
	case goerrors.CategoryNotFound:
		return http.StatusNotFound
	case goerrors.CategoryAuth:
		return http.StatusUnauthorized
	case goerrors.CategoryAuthz:
		return http.StatusForbidden
	case goerrors.CategoryConflict:
		return http.StatusConflict
	case goerrors.CategoryRateLimit:
		return http.StatusTooManyRequests
	case goerrors.CategoryExternal:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func ensureServiceErrorEnvelope(err *goerrors.Error) *goerrors.Error {
	if err == nil {
		return nil
	}
	if err.Code == 0 {
		err.Code = serviceHTTPStatus(err.Category)
	}
	if strings.TrimSpace(err.TextCode) == "" {
		err.TextCode = textCodeForCategory(err.Category)
	}
	if err.Category == goerrors.CategoryInternal && strings.TrimSpace(err.Message) == "" {
		err.Message = "An unexpected error occurred"
	}
	return err
}

// NewBadInputError is used by domain packages to reject requests before any
// network call.
func NewBadInputError(message string, fields ...goerrors.FieldError) *goerrors.Error {
	err := goerrors.NewValidation(message, fields...).
		WithCode(http.StatusBadRequest).
		WithTextCode(ServiceErrorBadInput).
		WithSeverity(goerrors.SeverityError)
	return err
}

// NewConfigurationError reports a client that was assembled without a
// required dependency.
func NewConfigurationError(message string) *Error {
	return newConfigurationError(message)
}
