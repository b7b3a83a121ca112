package devkit

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/goliatone/go-situm/core"
)

func ValidateTransportAdapterConformance(
	ctx context.Context,
	adapter core.TransportAdapter,
	request core.TransportRequest,
) error {
	if adapter == nil {
		return fmt.Errorf("devkit: transport adapter is required")
	}
	if strings.TrimSpace(adapter.Kind()) == "" {
		return fmt.Errorf("devkit: transport adapter kind is required")
	}
	_, err := adapter.Do(ctx, request)
	return err
}

// ValidateSessionStoreConformance runs a save, load, replace and delete
// cycle against store under key.
func ValidateSessionStoreConformance(ctx context.Context, store core.SessionStore, key string) error {
	if store == nil {
		return fmt.Errorf("devkit: session store is required")
	}
	key = strings.TrimSpace(key)
	if key == "" {
		return fmt.Errorf("devkit: session store key is required")
	}

	if _, found, err := store.LoadSession(ctx, key); err != nil {
		return fmt.Errorf("devkit: load missing session: %w", err)
	} else if found {
		return fmt.Errorf("devkit: expected no session for %q before save", key)
	}

	first, err := sessionFixture(time.Now().Add(time.Hour), "refresh-1")
	if err != nil {
		return err
	}
	if err := store.SaveSession(ctx, key, first); err != nil {
		return fmt.Errorf("devkit: save session: %w", err)
	}
	loaded, found, err := store.LoadSession(ctx, key)
	if err != nil {
		return fmt.Errorf("devkit: load session: %w", err)
	}
	if !found {
		return fmt.Errorf("devkit: expected session for %q after save", key)
	}
	if loaded.Raw != first.Raw || loaded.RefreshToken != first.RefreshToken || loaded.ExpiresAt != first.ExpiresAt {
		return fmt.Errorf("devkit: loaded session does not match saved session")
	}
	if loaded.OrganizationID != first.OrganizationID {
		return fmt.Errorf("devkit: loaded session lost organization id")
	}

	second, err := sessionFixture(time.Now().Add(2*time.Hour), "refresh-2")
	if err != nil {
		return err
	}
	if err := store.SaveSession(ctx, key, second); err != nil {
		return fmt.Errorf("devkit: replace session: %w", err)
	}
	loaded, _, err = store.LoadSession(ctx, key)
	if err != nil {
		return fmt.Errorf("devkit: load replaced session: %w", err)
	}
	if loaded.Raw != second.Raw || loaded.RefreshToken != "refresh-2" {
		return fmt.Errorf("devkit: expected replaced session to win")
	}

	if err := store.DeleteSession(ctx, key); err != nil {
		return fmt.Errorf("devkit: delete session: %w", err)
	}
	if _, found, err := store.LoadSession(ctx, key); err != nil {
		return fmt.Errorf("devkit: load deleted session: %w", err)
	} else if found {
		return fmt.Errorf("devkit: expected session for %q to be deleted", key)
	}
	return nil
}

func sessionFixture(expiresAt time.Time, refreshToken string) (core.Session, error) {
	token, err := NewToken(TokenOptions{ExpiresAt: expiresAt, Email: "ops@example.com"})
	if err != nil {
		return core.Session{}, err
	}
	return core.DecodeSession(token, refreshToken, core.SessionSourceExchange)
}
