package core

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

type CredentialKind string

const (
	CredentialBasic  CredentialKind = "basic"
	CredentialAPIKey CredentialKind = "api_key"
	CredentialToken  CredentialKind = "token"
)

const (
	HeaderAPIKey        = "X-API-KEY"
	HeaderAPIEmail      = "X-API-EMAIL"
	HeaderAuthorization = "Authorization"
)

// Credential is a tagged union; Kind selects which fields are meaningful.
// Use the constructors so the discriminant is always set.
type Credential struct {
	Kind     CredentialKind
	Username string
	Password string
	APIKey   string
	Email    string
	Token    string
}

func BasicCredential(username, password string) Credential {
	return Credential{Kind: CredentialBasic, Username: username, Password: password}
}

func APIKeyCredential(apiKey string) Credential {
	return Credential{Kind: CredentialAPIKey, APIKey: apiKey}
}

// APIKeyEmailCredential is the v2 API key shape, sent with X-API-EMAIL.
func APIKeyEmailCredential(email, apiKey string) Credential {
	return Credential{Kind: CredentialAPIKey, APIKey: apiKey, Email: email}
}

func TokenCredential(token string) Credential {
	return Credential{Kind: CredentialToken, Token: token}
}

func (c Credential) Validate() error {
	switch c.Kind {
	case CredentialBasic:
		if strings.TrimSpace(c.Username) == "" {
			return newConfigurationError("basic credential requires a username")
		}
	case CredentialAPIKey:
		if strings.TrimSpace(c.APIKey) == "" {
			return newConfigurationError("api key credential requires a key")
		}
	case CredentialToken:
		if strings.TrimSpace(c.Token) == "" {
			return newConfigurationError("token credential requires a token")
		}
	default:
		return newConfigurationError("unrecognized credential kind " + quoteKind(c.Kind))
	}
	return nil
}

// Fingerprint identifies the credential without exposing its secret parts.
func (c Credential) Fingerprint() string {
	var identity string
	switch c.Kind {
	case CredentialBasic:
		identity = c.Username + ":" + c.Password
	case CredentialAPIKey:
		identity = c.Email + ":" + c.APIKey
	case CredentialToken:
		identity = c.Token
	}
	sum := sha256.Sum256([]byte(string(c.Kind) + "|" + identity))
	return hex.EncodeToString(sum[:])
}

// ResolveCredential maps a credential to the auth parameters used by the
// token exchange call, or by a direct bearer call for pre-issued tokens.
func ResolveCredential(c Credential) (AuthParams, error) {
	if err := c.Validate(); err != nil {
		return AuthParams{}, err
	}
	switch c.Kind {
	case CredentialBasic:
		return AuthParams{
			Kind:     AuthParamsBasic,
			Username: c.Username,
			Password: c.Password,
		}, nil
	case CredentialAPIKey:
		headers := map[string]string{HeaderAPIKey: c.APIKey}
		if strings.TrimSpace(c.Email) != "" {
			headers[HeaderAPIEmail] = strings.TrimSpace(c.Email)
		}
		return AuthParams{Kind: AuthParamsHeader, Headers: headers}, nil
	case CredentialToken:
		return AuthParams{
			Kind:    AuthParamsHeader,
			Headers: map[string]string{HeaderAuthorization: "Bearer " + c.Token},
		}, nil
	}
	return AuthParams{}, newConfigurationError("unrecognized credential kind " + quoteKind(c.Kind))
}

func quoteKind(kind CredentialKind) string {
	if kind == "" {
		return `""`
	}
	return `"` + string(kind) + `"`
}
