package core

import (
	"context"
	"time"

	glog "github.com/goliatone/go-logger/glog"
)

type Logger = glog.Logger

type LoggerProvider = glog.LoggerProvider

type FieldsLogger = glog.FieldsLogger

type MetricsRecorder interface {
	IncCounter(ctx context.Context, name string, value int64, tags map[string]string)
	ObserveHistogram(ctx context.Context, name string, value float64, tags map[string]string)
}

type TransportRequest struct {
	Method               string
	URL                  string
	Headers              map[string]string
	Query                map[string]string
	Body                 []byte
	BasicAuth            *BasicAuth
	Metadata             map[string]any
	Timeout              time.Duration
	MaxResponseBodyBytes int64
}

type BasicAuth struct {
	Username string
	Password string
}

type TransportResponse struct {
	StatusCode int
	Headers    map[string]string
	Body       []byte
	Metadata   map[string]any
}

// TransportAdapter executes a single HTTP exchange. Non-2xx responses are
// returned as responses, not errors; errors are reserved for failures where
// no response was received.
type TransportAdapter interface {
	Kind() string
	Do(ctx context.Context, req TransportRequest) (TransportResponse, error)
}

type AuthParamsKind string

const (
	AuthParamsBasic  AuthParamsKind = "basic_auth"
	AuthParamsHeader AuthParamsKind = "header"
)

// AuthParams are the transport parameters derived from a Credential.
type AuthParams struct {
	Kind     AuthParamsKind
	Username string
	Password string
	Headers  map[string]string
}

type MultipartFile struct {
	Field       string
	Filename    string
	ContentType string
	Content     []byte
}

type MultipartBody struct {
	Fields map[string]string
	Files  []MultipartFile
}

// RequestDescriptor is the pipeline input. Body and Query hold local-case
// keys; SkipAuthentication is reserved for the token exchange calls.
type RequestDescriptor struct {
	Path               string
	Body               any
	Query              map[string]any
	Headers            map[string]string
	Auth               *AuthParams
	SkipAuthentication bool
	Multipart          *MultipartBody
}

// API is the contract domain services consume.
type API interface {
	Get(ctx context.Context, desc RequestDescriptor, out any) error
	Post(ctx context.Context, desc RequestDescriptor, out any) error
	Put(ctx context.Context, desc RequestDescriptor, out any) error
	Patch(ctx context.Context, desc RequestDescriptor, out any) error
	Delete(ctx context.Context, desc RequestDescriptor) error
	AuthSession(ctx context.Context) (Session, error)
	Domain() string
}

// SessionStore persists sessions across pipeline instances, keyed by a
// credential fingerprint.
type SessionStore interface {
	LoadSession(ctx context.Context, key string) (Session, bool, error)
	SaveSession(ctx context.Context, key string, session Session) error
	DeleteSession(ctx context.Context, key string) error
}

type AccessTokens struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken,omitempty"`
}

type Paginated[T any] struct {
	Data     []T      `json:"data"`
	Metadata Metadata `json:"metadata"`
}

type Metadata struct {
	First            bool `json:"first"`
	Last             bool `json:"last"`
	TotalPages       int  `json:"totalPages"`
	TotalElements    int  `json:"totalElements"`
	NumberOfElements int  `json:"numberOfElements"`
	Size             int  `json:"size"`
	Number           int  `json:"number"`
}

type CustomField struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

type LatLng struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}
