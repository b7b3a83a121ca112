package devkit

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	DefaultOrganizationID = "6f2b8c8e-3a9d-4b8e-9f61-2a7c1d5e9b10"
	DefaultRole           = "ADMIN_ORG"
	DefaultAPIPermission  = "read-write"

	tokenSecret = "devkit-secret"
)

// TokenOptions describes the claims of a minted session token. Zero values
// fall back to the package defaults and a one hour lifetime.
type TokenOptions struct {
	OrganizationID string
	Role           string
	APIPermission  string
	Email          string
	Subject        string
	ExpiresAt      time.Time
	Extra          map[string]any
}

// NewToken mints an HS256 compact token carrying the claims a session needs.
// Consumers never verify the signature, so the key is fixed.
func NewToken(opts TokenOptions) (string, error) {
	if opts.OrganizationID == "" {
		opts.OrganizationID = DefaultOrganizationID
	}
	if opts.Role == "" {
		opts.Role = DefaultRole
	}
	if opts.APIPermission == "" {
		opts.APIPermission = DefaultAPIPermission
	}
	if opts.ExpiresAt.IsZero() {
		opts.ExpiresAt = time.Now().Add(time.Hour)
	}

	claims := jwt.MapClaims{
		"exp":               opts.ExpiresAt.Unix(),
		"organization_uuid": opts.OrganizationID,
		"role":              opts.Role,
		"api_permission":    opts.APIPermission,
	}
	if opts.Email != "" {
		claims["email"] = opts.Email
	}
	if opts.Subject != "" {
		claims["sub"] = opts.Subject
	}
	for key, value := range opts.Extra {
		if value == nil {
			delete(claims, key)
			continue
		}
		claims[key] = value
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(tokenSecret))
	if err != nil {
		return "", fmt.Errorf("devkit: sign token: %w", err)
	}
	return signed, nil
}

func MustToken(opts TokenOptions) string {
	token, err := NewToken(opts)
	if err != nil {
		panic(err)
	}
	return token
}
