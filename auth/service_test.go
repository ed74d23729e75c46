package auth_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/zourit/zourit/auth"
	"github.com/zourit/zourit/internal/testutil"
	"github.com/zourit/zourit/store"
)

func TestRegisterThenLogin(t *testing.T) {
	ctx := context.Background()
	st, cleanup := testutil.AcquireStore(ctx, t)
	defer cleanup()

	registered, err := auth.Register(ctx, st, "alice", "secret123")
	require.NoError(t, err)
	require.Equal(t, store.RoleUser, registered.Role)
	require.NotEqual(t, "secret123", registered.PasswordHash)

	logged, err := auth.Login(ctx, st, "alice", "secret123")
	require.NoError(t, err)
	require.Equal(t, registered.ID, logged.ID)
}

func TestRegisterRejectsDuplicates(t *testing.T) {
	ctx := context.Background()
	st, cleanup := testutil.AcquireStore(ctx, t)
	defer cleanup()

	_, err := auth.Register(ctx, st, "alice", "secret123")
	require.NoError(t, err)
	_, err = auth.Register(ctx, st, "alice", "another")
	require.ErrorAs(t, err, &store.DuplicateUsername{})

	_, err = auth.Register(ctx, st, "", "secret123")
	require.ErrorIs(t, err, auth.ErrInvalidUsername)
}

func TestLoginFailuresAreIndistinguishable(t *testing.T) {
	ctx := context.Background()
	st, cleanup := testutil.AcquireStore(ctx, t)
	defer cleanup()

	_, err := auth.Register(ctx, st, "alice", "secret123")
	require.NoError(t, err)

	_, wrongPass := auth.Login(ctx, st, "alice", "wrongpass")
	_, noUser := auth.Login(ctx, st, "nobody", "secret123")
	require.ErrorIs(t, wrongPass, auth.ErrInvalidCredentials)
	require.ErrorIs(t, noUser, auth.ErrInvalidCredentials)
	require.Equal(t, wrongPass, noUser)
}

func TestBootstrapAdminOnlyOnce(t *testing.T) {
	ctx := context.Background()
	st, cleanup := testutil.AcquireStore(ctx, t)
	defer cleanup()

	first, err := auth.BootstrapAdmin(ctx, st, "root", "rootpass")
	require.NoError(t, err)
	require.Equal(t, store.RoleAdmin, first.Role)

	_, err = auth.BootstrapAdmin(ctx, st, "other", "otherpass")
	require.ErrorAs(t, err, &store.BootstrapClosed{})

	// the authenticated path keeps working
	second, err := auth.RegisterAdmin(ctx, st, "other", "otherpass")
	require.NoError(t, err)
	require.Equal(t, store.RoleAdmin, second.Role)
}
