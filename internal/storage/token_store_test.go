package storage

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/HikeSafe-Project/mobile/internal/common"
)

func TestTokenStore_Lifecycle(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()
	tokens := NewTokenStore(store)

	_, err := tokens.Get(ctx)
	require.ErrorIs(t, err, common.ErrNoToken)

	require.NoError(t, tokens.Set(ctx, "access-token-1"))
	got, err := tokens.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, "access-token-1", got)

	require.NoError(t, tokens.Set(ctx, "access-token-2"))
	got, err = tokens.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, "access-token-2", got)

	require.NoError(t, tokens.Clear(ctx))
	_, err = tokens.Get(ctx)
	require.ErrorIs(t, err, common.ErrNoToken)

	require.NoError(t, tokens.Clear(ctx), "clearing twice is harmless")
}

func TestTokenStore_RejectsBlankToken(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()

	err := NewTokenStore(store).Set(context.Background(), "   ")
	require.ErrorIs(t, err, ErrEmptyString)
}

type failingKV struct{ err error }

func (f failingKV) GetValue(context.Context, string) (string, error) { return "", f.err }
func (f failingKV) SetValue(context.Context, string, string) error   { return f.err }
func (f failingKV) DeleteValue(context.Context, string) error        { return f.err }

func TestTokenStore_PropagatesStorageErrors(t *testing.T) {
	boom := errors.New("locked")
	tokens := NewTokenStore(failingKV{err: boom})
	ctx := context.Background()

	_, err := tokens.Get(ctx)
	assert.ErrorIs(t, err, boom)
	assert.NotErrorIs(t, err, common.ErrNoToken)
	assert.ErrorIs(t, tokens.Set(ctx, "t"), boom)
	assert.ErrorIs(t, tokens.Clear(ctx), boom)
}
