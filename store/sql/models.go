package sqlstore

import (
	"time"

	"github.com/uptrace/bun"

	"github.com/goliatone/go-situm/core"
)

type sessionRecord struct {
	bun.BaseModel `bun:"table:situm_sessions,alias:ss"`

	ID             string    `bun:"id,pk"`
	CredentialKey  string    `bun:"credential_key,notnull,unique"`
	AccessToken    string    `bun:"access_token,notnull"`
	RefreshToken   string    `bun:"refresh_token,notnull"`
	Source         string    `bun:"source,notnull"`
	ExpiresAt      time.Time `bun:"expires_at,notnull"`
	OrganizationID string    `bun:"organization_id,notnull"`
	CreatedAt      time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp"`
	UpdatedAt      time.Time `bun:"updated_at,nullzero,notnull,default:current_timestamp"`
}

func newSessionRecord(key string, session core.Session, now time.Time) *sessionRecord {
	return &sessionRecord{
		CredentialKey:  key,
		AccessToken:    session.Raw,
		RefreshToken:   session.RefreshToken,
		Source:         string(session.Source),
		ExpiresAt:      session.ExpiresAtTime(),
		OrganizationID: session.OrganizationID,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}

// toDomain decodes the stored token again so claims always come from the
// token itself.
func (r *sessionRecord) toDomain() (core.Session, error) {
	return core.DecodeSession(r.AccessToken, r.RefreshToken, core.SessionSource(r.Source))
}
