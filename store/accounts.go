package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/cespare/xxhash/v2"
	"github.com/mattn/go-sqlite3"
)

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

type (
	// Account is an identity record. PasswordHash is opaque to everything
	// except the password hasher and must never be serialized outwards.
	Account struct {
		ID           int64
		Username     string
		PasswordHash string
		Role         string
	}
)

// ValidRole reports whether role belongs to the closed set of roles
// the service knows about.
func ValidRole(role string) bool {
	return role == RoleUser || role == RoleAdmin
}

// CreateAccount inserts a new account. Username uniqueness is enforced by
// the table constraint, a violation surfaces as DuplicateUsername.
func (s *Store) CreateAccount(ctx context.Context, username, passwordHash, role string) (Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.insertAccount(ctx, s.db, username, passwordHash, role)
}

type execQuerier interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
}

func (s *Store) insertAccount(ctx context.Context, db execQuerier, username, passwordHash, role string) (Account, error) {
	res, err := db.ExecContext(ctx, `insert into accounts (username, username_hash64, password_hash, role) values (?, ?, ?, ?)`,
		username, int64(xxhash.Sum64String(username)), passwordHash, role)
	var serr sqlite3.Error
	if errors.As(err, &serr) && serr.ExtendedCode == sqlite3.ErrConstraintUnique {
		return Account{}, DuplicateUsername{Username: username}
	} else if err != nil {
		return Account{}, fmt.Errorf("unable to insert account %v, cause %w", username, err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return Account{}, fmt.Errorf("unable to fetch id of account %v, cause %w", username, err)
	}
	return Account{ID: id, Username: username, PasswordHash: passwordHash, Role: role}, nil
}

// FindAccount looks an account up by its exact (case-sensitive) username.
func (s *Store) FindAccount(ctx context.Context, username string) (Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var acc Account
	err := s.db.QueryRowContext(ctx, `select account_id, username, password_hash, role from accounts
	where username_hash64 = ? and username = ?`, int64(xxhash.Sum64String(username)), username).
		Scan(&acc.ID, &acc.Username, &acc.PasswordHash, &acc.Role)
	if errors.Is(err, sql.ErrNoRows) {
		return Account{}, AccountNotFound{Username: username}
	} else if err != nil {
		return Account{}, fmt.Errorf("unable to load account %v, cause %w", username, err)
	}
	return acc, nil
}

// ListAccounts returns every account ordered by id. Password hashes are
// intentionally left out.
func (s *Store) ListAccounts(ctx context.Context) ([]Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rows, err := s.db.QueryContext(ctx, `select account_id, username, role from accounts order by account_id`)
	if err != nil {
		return nil, fmt.Errorf("unable to list accounts, cause %w", err)
	}
	defer rows.Close()
	var out []Account
	for rows.Next() {
		var acc Account
		err = rows.Scan(&acc.ID, &acc.Username, &acc.Role)
		if err != nil {
			return nil, fmt.Errorf("unable to scan account row, cause %w", err)
		}
		out = append(out, acc)
	}
	return out, rows.Err()
}

// UpdateRole changes the role of an existing account. Sessions issued
// before the change keep their old role until they expire.
func (s *Store) UpdateRole(ctx context.Context, id int64, role string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	res, err := s.db.ExecContext(ctx, `update accounts set role = ? where account_id = ?`, role, id)
	if err != nil {
		return fmt.Errorf("unable to update role of account %v, cause %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("unable to update role of account %v, cause %w", id, err)
	}
	if n == 0 {
		return AccountNotFound{ID: id}
	}
	return nil
}

// CountAdmins reports how many accounts currently hold the admin role.
func (s *Store) CountAdmins(ctx context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.countAdmins(ctx)
}

func (s *Store) countAdmins(ctx context.Context) (int64, error) {
	var n int64
	err := s.db.QueryRowContext(ctx, `select count(*) from accounts where role = ?`, RoleAdmin).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("unable to count admins, cause %w", err)
	}
	return n, nil
}

// CreateFirstAdmin inserts an admin account only while no other admin
// exists. The count check and the insert run inside a single transaction
// under the store lock, so two concurrent bootstrap attempts cannot both
// succeed within this process.
func (s *Store) CreateFirstAdmin(ctx context.Context, username, passwordHash string) (Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return Account{}, fmt.Errorf("unable to begin bootstrap transaction, cause %w", err)
	}
	defer tx.Rollback()
	var n int64
	err = tx.QueryRowContext(ctx, `select count(*) from accounts where role = ?`, RoleAdmin).Scan(&n)
	if err != nil {
		return Account{}, fmt.Errorf("unable to count admins, cause %w", err)
	}
	if n > 0 {
		return Account{}, BootstrapClosed{}
	}
	acc, err := s.insertAccount(ctx, tx, username, passwordHash, RoleAdmin)
	if err != nil {
		return Account{}, err
	}
	err = tx.Commit()
	if err != nil {
		return Account{}, fmt.Errorf("unable to commit bootstrap transaction, cause %w", err)
	}
	return acc, nil
}
