package situm

import "github.com/goliatone/go-situm/core"

type Config = core.Config

type Option = core.Option

type Credential = core.Credential

type Session = core.Session

type SessionStore = core.SessionStore

type Error = core.Error

var (
	WithCredential      = core.WithCredential
	WithTransport       = core.WithTransport
	WithSessionStore    = core.WithSessionStore
	WithLogger          = core.WithLogger
	WithLoggerProvider  = core.WithLoggerProvider
	WithMetricsRecorder = core.WithMetricsRecorder
	WithConfigProvider  = core.WithConfigProvider
	WithOptionsResolver = core.WithOptionsResolver
	WithClock           = core.WithClock
)

var (
	BasicCredential       = core.BasicCredential
	APIKeyCredential      = core.APIKeyCredential
	APIKeyEmailCredential = core.APIKeyEmailCredential
	TokenCredential       = core.TokenCredential
)

func DefaultConfig() Config {
	return core.DefaultConfig()
}

// NormalizeError maps any pipeline failure onto *Error.
func NormalizeError(err error) *Error {
	return core.NormalizeError(err)
}
