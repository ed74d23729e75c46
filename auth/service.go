package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/zourit/zourit/store"
)

var (
	// ErrInvalidCredentials is returned for unknown usernames and wrong
	// passwords alike, the two cases must stay indistinguishable.
	ErrInvalidCredentials = errors.New("invalid username or password")

	ErrInvalidUsername = errors.New("username must not be empty")
)

// Register creates a new account with the default user role. Returns
// store.DuplicateUsername when the username is taken: the pre-check below
// is a courtesy, the store's unique constraint is what actually closes the
// check-then-insert race.
func Register(ctx context.Context, st *store.Store, username, password string) (store.Account, error) {
	if username == "" {
		return store.Account{}, ErrInvalidUsername
	}
	_, err := st.FindAccount(ctx, username)
	if err == nil {
		return store.Account{}, store.DuplicateUsername{Username: username}
	}
	var notFound store.AccountNotFound
	if !errors.As(err, &notFound) {
		return store.Account{}, err
	}
	hash, err := HashPassword(password)
	if err != nil {
		return store.Account{}, fmt.Errorf("unable to hash password, cause %w", err)
	}
	return st.CreateAccount(ctx, username, hash, store.RoleUser)
}

// Login authenticates a username/password pair. Unknown usernames burn a
// hash verification against a decoy so the caller cannot tell them apart
// from wrong passwords, by response or by timing.
func Login(ctx context.Context, st *store.Store, username, password string) (store.Account, error) {
	acc, err := st.FindAccount(ctx, username)
	var notFound store.AccountNotFound
	if errors.As(err, &notFound) {
		VerifyPassword(decoyHash(), password)
		return store.Account{}, ErrInvalidCredentials
	} else if err != nil {
		return store.Account{}, err
	}
	if !VerifyPassword(acc.PasswordHash, password) {
		return store.Account{}, ErrInvalidCredentials
	}
	return acc, nil
}

// RegisterAdmin creates an admin account. The caller must already have
// established that the requester is allowed to do so.
func RegisterAdmin(ctx context.Context, st *store.Store, username, password string) (store.Account, error) {
	if username == "" {
		return store.Account{}, ErrInvalidUsername
	}
	hash, err := HashPassword(password)
	if err != nil {
		return store.Account{}, fmt.Errorf("unable to hash password, cause %w", err)
	}
	return st.CreateAccount(ctx, username, hash, store.RoleAdmin)
}

// BootstrapAdmin creates the first admin account without any
// authentication. It fails with store.BootstrapClosed once any admin
// exists, which permanently closes this path.
func BootstrapAdmin(ctx context.Context, st *store.Store, username, password string) (store.Account, error) {
	if username == "" {
		return store.Account{}, ErrInvalidUsername
	}
	hash, err := HashPassword(password)
	if err != nil {
		return store.Account{}, fmt.Errorf("unable to hash password, cause %w", err)
	}
	return st.CreateFirstAdmin(ctx, username, hash)
}
