package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/HikeSafe-Project/mobile/internal/common"
)

// TokenKey is the fixed key the bearer token is persisted under.
const TokenKey = "auth.token"

// KeyValueStore is the persistence a TokenStore needs.
type KeyValueStore interface {
	GetValue(ctx context.Context, key string) (string, error)
	SetValue(ctx context.Context, key, value string) error
	DeleteValue(ctx context.Context, key string) error
}

// TokenStore persists the single bearer token: set on login, read on every
// authenticated request, cleared on logout.
type TokenStore struct {
	kv KeyValueStore
}

// NewTokenStore creates a token store on top of kv.
func NewTokenStore(kv KeyValueStore) *TokenStore {
	return &TokenStore{kv: kv}
}

// Get returns the stored token, or common.ErrNoToken if there is none.
func (s *TokenStore) Get(ctx context.Context) (string, error) {
	token, err := s.kv.GetValue(ctx, TokenKey)
	if errors.Is(err, common.ErrNotFound) {
		return "", common.ErrNoToken
	}
	if err != nil {
		return "", fmt.Errorf("failed to load token: %w", err)
	}
	if strings.TrimSpace(token) == "" {
		return "", common.ErrNoToken
	}
	return token, nil
}

// Set stores token, replacing any previous one.
func (s *TokenStore) Set(ctx context.Context, token string) error {
	if strings.TrimSpace(token) == "" {
		return fmt.Errorf("%w: token", ErrEmptyString)
	}
	if err := s.kv.SetValue(ctx, TokenKey, token); err != nil {
		return fmt.Errorf("failed to save token: %w", err)
	}
	return nil
}

// Clear removes the token. Clearing an empty store is not an error.
func (s *TokenStore) Clear(ctx context.Context) error {
	if err := s.kv.DeleteValue(ctx, TokenKey); err != nil {
		return fmt.Errorf("failed to clear token: %w", err)
	}
	return nil
}
