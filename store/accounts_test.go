package store_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/zourit/zourit/internal/testutil"
	"github.com/zourit/zourit/store"
)

func TestCreateAndFindAccount(t *testing.T) {
	ctx := context.Background()
	st, cleanup := testutil.AcquireStore(ctx, t)
	defer cleanup()

	created, err := st.CreateAccount(ctx, "alice", "not-a-real-hash", store.RoleUser)
	require.NoError(t, err)
	require.NotZero(t, created.ID)

	found, err := st.FindAccount(ctx, "alice")
	require.NoError(t, err)
	require.Equal(t, created, found)

	_, err = st.FindAccount(ctx, "bob")
	require.ErrorAs(t, err, &store.AccountNotFound{})
}

func TestUsernamesAreCaseSensitive(t *testing.T) {
	ctx := context.Background()
	st, cleanup := testutil.AcquireStore(ctx, t)
	defer cleanup()

	_, err := st.CreateAccount(ctx, "alice", "h1", store.RoleUser)
	require.NoError(t, err)
	_, err = st.CreateAccount(ctx, "Alice", "h2", store.RoleUser)
	require.NoError(t, err)

	_, err = st.FindAccount(ctx, "ALICE")
	require.ErrorAs(t, err, &store.AccountNotFound{})
}

func TestDuplicateUsernameIsRejectedByTheStore(t *testing.T) {
	ctx := context.Background()
	st, cleanup := testutil.AcquireStore(ctx, t)
	defer cleanup()

	_, err := st.CreateAccount(ctx, "alice", "h1", store.RoleUser)
	require.NoError(t, err)
	_, err = st.CreateAccount(ctx, "alice", "h2", store.RoleUser)
	require.ErrorAs(t, err, &store.DuplicateUsername{})
}

func TestUpdateRole(t *testing.T) {
	ctx := context.Background()
	st, cleanup := testutil.AcquireStore(ctx, t)
	defer cleanup()

	acc, err := st.CreateAccount(ctx, "alice", "h1", store.RoleUser)
	require.NoError(t, err)

	require.NoError(t, st.UpdateRole(ctx, acc.ID, store.RoleAdmin))
	found, err := st.FindAccount(ctx, "alice")
	require.NoError(t, err)
	require.Equal(t, store.RoleAdmin, found.Role)

	err = st.UpdateRole(ctx, acc.ID+1000, store.RoleUser)
	require.ErrorAs(t, err, &store.AccountNotFound{})
}

func TestCreateFirstAdminClosesAfterOne(t *testing.T) {
	ctx := context.Background()
	st, cleanup := testutil.AcquireStore(ctx, t)
	defer cleanup()

	n, err := st.CountAdmins(ctx)
	require.NoError(t, err)
	require.Zero(t, n)

	first, err := st.CreateFirstAdmin(ctx, "root", "h1")
	require.NoError(t, err)
	require.Equal(t, store.RoleAdmin, first.Role)

	_, err = st.CreateFirstAdmin(ctx, "other", "h2")
	require.ErrorAs(t, err, &store.BootstrapClosed{})

	n, err = st.CountAdmins(ctx)
	require.NoError(t, err)
	require.EqualValues(t, 1, n)
}

func TestListAccountsOmitsPasswordHashes(t *testing.T) {
	ctx := context.Background()
	st, cleanup := testutil.AcquireStore(ctx, t)
	defer cleanup()

	_, err := st.CreateAccount(ctx, "alice", "h1", store.RoleUser)
	require.NoError(t, err)
	_, err = st.CreateAccount(ctx, "bob", "h2", store.RoleAdmin)
	require.NoError(t, err)

	accounts, err := st.ListAccounts(ctx)
	require.NoError(t, err)
	require.Len(t, accounts, 2)
	require.Equal(t, "alice", accounts[0].Username)
	require.Equal(t, "bob", accounts[1].Username)
	for _, acc := range accounts {
		require.Empty(t, acc.PasswordHash)
	}
}
