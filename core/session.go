package core

import (
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const DefaultExpiryMargin = 500 * time.Second

type Role string

const (
	RoleAdminOrg Role = "ADMIN_ORG"
	RoleAdmin    Role = "ADMIN"
	RoleUser     Role = "USER"
)

type PermissionLevel string

const (
	PermissionPositioning          PermissionLevel = "positioning"
	PermissionReadOnly             PermissionLevel = "read-only"
	PermissionCartographyReadWrite PermissionLevel = "cartography-read-write"
	PermissionReadWrite            PermissionLevel = "read-write"
)

type SessionSource string

const (
	SessionSourceExchange  SessionSource = "exchange"
	SessionSourcePreIssued SessionSource = "pre_issued"
)

// Session is the decoded view of a compact session token. Values are
// replaced, never mutated.
type Session struct {
	Raw            string
	RefreshToken   string
	ExpiresAt      int64
	OrganizationID string
	Role           Role
	APIPermission  PermissionLevel
	Email          string
	Subject        string
	Source         SessionSource
}

type sessionClaims struct {
	jwt.RegisteredClaims
	OrganizationUUID string `json:"organization_uuid"`
	Role             string `json:"role"`
	APIPermission    string `json:"api_permission"`
	Email            string `json:"email,omitempty"`
}

// DecodeSession reads the claims of a compact token without verifying its
// signature; the server remains the authority on validity.
func DecodeSession(raw, refreshToken string, source SessionSource) (Session, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Session{}, newInvalidSessionError("session token is empty", nil)
	}

	claims := &sessionClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(raw, claims); err != nil {
		return Session{}, newInvalidSessionError("session token could not be decoded", err)
	}
	if claims.ExpiresAt == nil {
		return Session{}, newInvalidSessionError("session token is missing the exp claim", nil)
	}
	if strings.TrimSpace(claims.OrganizationUUID) == "" {
		return Session{}, newInvalidSessionError("session token is missing the organization_uuid claim", nil)
	}
	if strings.TrimSpace(claims.Role) == "" {
		return Session{}, newInvalidSessionError("session token is missing the role claim", nil)
	}
	if strings.TrimSpace(claims.APIPermission) == "" {
		return Session{}, newInvalidSessionError("session token is missing the api_permission claim", nil)
	}
	if source == "" {
		source = SessionSourceExchange
	}

	return Session{
		Raw:            raw,
		RefreshToken:   strings.TrimSpace(refreshToken),
		ExpiresAt:      claims.ExpiresAt.Unix(),
		OrganizationID: claims.OrganizationUUID,
		Role:           Role(claims.Role),
		APIPermission:  PermissionLevel(claims.APIPermission),
		Email:          claims.Email,
		Subject:        claims.Subject,
		Source:         source,
	}, nil
}

func (s Session) IsZero() bool {
	return s.Raw == ""
}

func (s Session) ExpiresAtTime() time.Time {
	return time.Unix(s.ExpiresAt, 0).UTC()
}

// IsExpired reports whether the token is within margin of its expiry.
func (s Session) IsExpired(now time.Time, margin time.Duration) bool {
	return s.ExpiresAtTime().Add(-margin).Before(now)
}

func (s Session) CanRefresh() bool {
	return s.RefreshToken != ""
}
