package sqlstore

import (
	"context"
	"net/url"
	"strings"

	repositorycache "github.com/goliatone/go-repository-cache/cache"

	"github.com/goliatone/go-situm/core"
)

const sessionCacheKeyPrefix = "go-situm::session::v1"

// CachedSessionStore fronts a session store with a read-through cache.
// Writes go to the base store first and then evict the cached entry.
type CachedSessionStore struct {
	base  core.SessionStore
	cache repositorycache.CacheService
}

type cachedSession struct {
	Session core.Session
	Found   bool
}

func NewCachedSessionStore(base core.SessionStore, cacheService repositorycache.CacheService) (*CachedSessionStore, error) {
	if base == nil {
		return nil, storeConfigurationError("sqlstore: base session store is required")
	}
	if cacheService == nil {
		return nil, storeConfigurationError("sqlstore: session cache service is required")
	}
	return &CachedSessionStore{base: base, cache: cacheService}, nil
}

// SessionCacheKey returns go-situm::session::v1::<key> with the key URL-path
// escaped.
func SessionCacheKey(key string) (string, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		return "", storeInputError("sqlstore: session key is required")
	}
	return sessionCacheKeyPrefix + "::" + url.PathEscape(key), nil
}

func (s *CachedSessionStore) LoadSession(ctx context.Context, key string) (core.Session, bool, error) {
	if s == nil || s.base == nil || s.cache == nil {
		return core.Session{}, false, storeConfigurationError("sqlstore: cached session store is not configured")
	}
	cacheKey, err := SessionCacheKey(key)
	if err != nil {
		return core.Session{}, false, err
	}

	entry, err := repositorycache.GetOrFetch(ctx, s.cache, cacheKey, func(ctx context.Context) (cachedSession, error) {
		session, found, fetchErr := s.base.LoadSession(ctx, key)
		if fetchErr != nil {
			return cachedSession{}, fetchErr
		}
		return cachedSession{Session: session, Found: found}, nil
	})
	if err != nil {
		return core.Session{}, false, err
	}
	return entry.Session, entry.Found, nil
}

func (s *CachedSessionStore) SaveSession(ctx context.Context, key string, session core.Session) error {
	if s == nil || s.base == nil || s.cache == nil {
		return storeConfigurationError("sqlstore: cached session store is not configured")
	}
	if err := s.base.SaveSession(ctx, key, session); err != nil {
		return err
	}
	return s.evict(ctx, key)
}

func (s *CachedSessionStore) DeleteSession(ctx context.Context, key string) error {
	if s == nil || s.base == nil || s.cache == nil {
		return storeConfigurationError("sqlstore: cached session store is not configured")
	}
	if err := s.base.DeleteSession(ctx, key); err != nil {
		return err
	}
	return s.evict(ctx, key)
}

func (s *CachedSessionStore) evict(ctx context.Context, key string) error {
	cacheKey, err := SessionCacheKey(key)
	if err != nil {
		return err
	}
	return s.cache.Delete(ctx, cacheKey)
}

var _ core.SessionStore = (*CachedSessionStore)(nil)
