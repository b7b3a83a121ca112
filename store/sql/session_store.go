// Package sqlstore persists pipeline sessions with bun so several processes
// sharing one credential reuse one session.
package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	persistence "github.com/goliatone/go-persistence-bun"
	repository "github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"github.com/goliatone/go-situm/core"
)

type SessionStore struct {
	db   *bun.DB
	repo repository.Repository[*sessionRecord]
}

func NewSessionStore(db *bun.DB) (*SessionStore, error) {
	if db == nil {
		return nil, storeConfigurationError("sqlstore: bun db is required")
	}
	repo := repository.NewRepository[*sessionRecord](db, sessionHandlers())
	if validator, ok := repo.(repository.Validator); ok {
		if err := validator.Validate(); err != nil {
			return nil, storeWrapError(err, "sqlstore: invalid session repository wiring")
		}
	}
	return &SessionStore{db: db, repo: repo}, nil
}

func NewSessionStoreFromPersistence(client *persistence.Client) (*SessionStore, error) {
	if client == nil {
		return nil, storeConfigurationError("sqlstore: persistence client is required")
	}
	db, err := resolveBunDB(client)
	if err != nil {
		return nil, err
	}
	return NewSessionStore(db)
}

func (s *SessionStore) DB() *bun.DB {
	if s == nil {
		return nil
	}
	return s.db
}

func (s *SessionStore) LoadSession(ctx context.Context, key string) (core.Session, bool, error) {
	if s == nil || s.repo == nil {
		return core.Session{}, false, storeConfigurationError("sqlstore: session store is not configured")
	}
	key = strings.TrimSpace(key)
	if key == "" {
		return core.Session{}, false, storeInputError("sqlstore: session key is required")
	}

	records, _, err := s.repo.List(ctx,
		repository.SelectBy("credential_key", "=", key),
		repository.SelectPaginate(1, 0),
	)
	if err != nil {
		return core.Session{}, false, storeWrapError(err, "sqlstore: load session")
	}
	if len(records) == 0 {
		return core.Session{}, false, nil
	}
	session, err := records[0].toDomain()
	if err != nil {
		return core.Session{}, false, err
	}
	return session, true, nil
}

// SaveSession replaces the session stored under key.
func (s *SessionStore) SaveSession(ctx context.Context, key string, session core.Session) error {
	if s == nil || s.db == nil || s.repo == nil {
		return storeConfigurationError("sqlstore: session store is not configured")
	}
	key = strings.TrimSpace(key)
	if key == "" {
		return storeInputError("sqlstore: session key is required")
	}
	if session.IsZero() {
		return storeInputError("sqlstore: session token is required")
	}

	now := time.Now().UTC()
	err := s.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		existing, err := findSessionTx(ctx, tx, key)
		if err != nil {
			return err
		}
		record := newSessionRecord(key, session, now)
		if existing == nil {
			record.ID = uuid.NewString()
			_, err := s.repo.CreateTx(ctx, tx, record)
			return err
		}
		record.ID = existing.ID
		record.CreatedAt = existing.CreatedAt
		_, err = tx.NewUpdate().
			Model(record).
			Column("access_token", "refresh_token", "source", "expires_at", "organization_id", "updated_at").
			Where("id = ?", existing.ID).
			Exec(ctx)
		return err
	})
	return storeWrapError(err, "sqlstore: save session")
}

func (s *SessionStore) DeleteSession(ctx context.Context, key string) error {
	if s == nil || s.db == nil {
		return storeConfigurationError("sqlstore: session store is not configured")
	}
	_, err := s.db.NewDelete().
		Model((*sessionRecord)(nil)).
		Where("credential_key = ?", strings.TrimSpace(key)).
		Exec(ctx)
	return storeWrapError(err, "sqlstore: delete session")
}

// PurgeExpired removes sessions that expired before cutoff and returns how
// many were deleted.
func (s *SessionStore) PurgeExpired(ctx context.Context, cutoff time.Time) (int64, error) {
	if s == nil || s.db == nil {
		return 0, storeConfigurationError("sqlstore: session store is not configured")
	}
	res, err := s.db.NewDelete().
		Model((*sessionRecord)(nil)).
		Where("expires_at < ?", cutoff.UTC()).
		Exec(ctx)
	if err != nil {
		return 0, storeWrapError(err, "sqlstore: purge expired sessions")
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, storeWrapError(err, "sqlstore: purge expired sessions")
	}
	return affected, nil
}

func findSessionTx(ctx context.Context, tx bun.Tx, key string) (*sessionRecord, error) {
	record := &sessionRecord{}
	err := tx.NewSelect().
		Model(record).
		Where("?TableAlias.credential_key = ?", key).
		Limit(1).
		Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return record, nil
}

func resolveBunDB(candidate any) (*bun.DB, error) {
	switch typed := candidate.(type) {
	case nil:
		return nil, storeConfigurationError("sqlstore: persistence client is required")
	case *bun.DB:
		return typed, nil
	case interface{ DB() *bun.DB }:
		db := typed.DB()
		if db == nil {
			return nil, storeConfigurationError("sqlstore: persistence client returned nil bun db")
		}
		return db, nil
	default:
		return nil, storeConfigurationError("sqlstore: unsupported persistence client type")
	}
}

var _ core.SessionStore = (*SessionStore)(nil)
