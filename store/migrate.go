package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/zourit/zourit/internal/logutil"
)

// ApplyMigrations applies every .sql script from dir that is not yet
// recorded in the _migrations ledger, in filename order. Scripts are named
// with zero-padded sequence prefixes so lexicographic order matches the
// intended chronological order.
//
// Each script runs inside its own transaction together with its ledger row,
// either the whole script applies or none of it does. A failing statement
// aborts the run with an error: the process must not serve traffic against
// a half-migrated schema.
//
// A missing directory means no migrations. An unreadable script is logged
// and skipped without being marked applied, so a transient read failure
// does not block scripts that already ran.
func (s *Store) ApplyMigrations(ctx context.Context, dir string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	log := logutil.GetOrDefault(ctx)
	_, err := s.db.ExecContext(ctx, `create table if not exists _migrations(
		id integer primary key autoincrement,
		filename text not null unique,
		applied_at text not null default (datetime('now'))
	)`)
	if err != nil {
		return fmt.Errorf("unable to create migration ledger, cause %w", err)
	}
	entries, err := os.ReadDir(dir)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	} else if err != nil {
		return fmt.Errorf("unable to read migration directory %v, cause %w", dir, err)
	}
	var scripts []string
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != ".sql" {
			continue
		}
		scripts = append(scripts, e.Name())
	}
	// lexicographic filename order is the application order
	sort.Strings(scripts)
	for _, name := range scripts {
		applied, err := s.migrationApplied(ctx, name)
		if err != nil {
			return err
		}
		if applied {
			continue
		}
		script, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			log.Error().Err(err).Str("migration", name).Msg("Unable to read migration script, skipping")
			continue
		}
		err = s.applyScript(ctx, name, string(script))
		if err != nil {
			return err
		}
		log.Info().Str("migration", name).Msg("Migration applied")
	}
	return nil
}

func (s *Store) migrationApplied(ctx context.Context, filename string) (bool, error) {
	var one int
	err := s.db.QueryRowContext(ctx, `select 1 from _migrations where filename = ? limit 1`, filename).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	} else if err != nil {
		return false, fmt.Errorf("unable to check ledger for %v, cause %w", filename, err)
	}
	return true, nil
}

func (s *Store) applyScript(ctx context.Context, filename, script string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("unable to begin transaction for %v, cause %w", filename, err)
	}
	defer tx.Rollback()
	for _, stmt := range strings.Split(script, ";") {
		stmt = strings.TrimSpace(stmt)
		if stmt == "" {
			continue
		}
		_, err = tx.ExecContext(ctx, stmt)
		if err != nil {
			return fmt.Errorf("unable to apply %v, cause %w", filename, err)
		}
	}
	_, err = tx.ExecContext(ctx, `insert into _migrations (filename) values (?)`, filename)
	if err != nil {
		return fmt.Errorf("unable to record %v in ledger, cause %w", filename, err)
	}
	err = tx.Commit()
	if err != nil {
		return fmt.Errorf("unable to commit %v, cause %w", filename, err)
	}
	return nil
}

// AppliedMigrations returns the ledger contents in application order.
func (s *Store) AppliedMigrations(ctx context.Context) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rows, err := s.db.QueryContext(ctx, `select filename from _migrations order by id`)
	if err != nil {
		return nil, fmt.Errorf("unable to read migration ledger, cause %w", err)
	}
	defer rows.Close()
	var out []string
	for rows.Next() {
		var name string
		err = rows.Scan(&name)
		if err != nil {
			return nil, fmt.Errorf("unable to scan ledger row, cause %w", err)
		}
		out = append(out, name)
	}
	return out, rows.Err()
}
