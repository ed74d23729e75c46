package store

import (
	"context"
	"database/sql"
	"fmt"
	"sync"

	_ "github.com/mattn/go-sqlite3"
)

type (
	// Store owns the sqlite connection used by every component of the
	// service. All access goes through the store's mutex, one operation
	// at a time, so concurrent requests never observe a partial write.
	Store struct {
		mu sync.Mutex
		db *sql.DB
	}
)

// Open opens (creating if needed) the sqlite database at the given path.
//
// The schema itself is not created here, callers are expected to run
// ApplyMigrations before using any other method.
func Open(ctx context.Context, path string) (*Store, error) {
	connstr := fmt.Sprintf("file:%v?_journal=wal&_busy_timeout=5000&_fk=true&mode=rwc", path)
	conn, err := sql.Open("sqlite3", connstr)
	if err != nil {
		return nil, fmt.Errorf("unable to open %v, cause %w", path, err)
	}
	err = conn.PingContext(ctx)
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("unable to ping %v, cause %w", path, err)
	}
	return &Store{db: conn}, nil
}

func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.db.Close()
}
