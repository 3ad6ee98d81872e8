package identity

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"a2admin/internal/sentinel"
)

func TestInMemoryDirectoryLifecycle(t *testing.T) {
	ctx := context.Background()
	dir := NewInMemoryDirectory()

	acc, err := dir.CreateAccount(ctx, CreateAccountRequest{Email: "Admin@Club.fr", Role: "club_admin"})
	require.NoError(t, err)

	_, err = dir.CreateAccount(ctx, CreateAccountRequest{Email: "admin@club.fr"})
	assert.ErrorIs(t, err, sentinel.ErrAlreadyUsed)

	found, err := dir.ListAccountsByEmail(ctx, "ADMIN@club.fr")
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, acc.ID, found[0].ID)

	require.NoError(t, dir.DeleteAccount(ctx, acc.ID))
	assert.False(t, dir.Exists(acc.ID))
	assert.ErrorIs(t, dir.DeleteAccount(ctx, acc.ID), sentinel.ErrNotFound)
}

func TestInMemoryDirectoryFailDelete(t *testing.T) {
	ctx := context.Background()
	dir := NewInMemoryDirectory()
	acc, err := dir.CreateAccount(ctx, CreateAccountRequest{Email: "a@club.fr"})
	require.NoError(t, err)

	boom := errors.New("identity provider down")
	dir.FailDelete(acc.ID, boom)

	assert.ErrorIs(t, dir.DeleteAccount(ctx, acc.ID), boom)
	assert.True(t, dir.Exists(acc.ID))
}
