package store

import (
	"context"
	"database/sql"
	"fmt"
)

// TableColumns returns the column names of the given table, sorted by
// sqlite's pragma order. Mostly useful to verify that migrations left the
// schema in the expected shape.
func (s *Store) TableColumns(ctx context.Context, table string) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rows, err := s.db.QueryContext(ctx, `select name from pragma_table_info(?) order by cid`, table)
	if err != nil {
		return nil, fmt.Errorf("unable to inspect table %v, cause %w", table, err)
	}
	defer rows.Close()
	var out []string
	for rows.Next() {
		var name string
		err = rows.Scan(&name)
		if err != nil {
			return nil, fmt.Errorf("unable to inspect table %v, cause %w", table, err)
		}
		out = append(out, name)
	}
	if len(out) == 0 {
		return nil, sql.ErrNoRows
	}
	return out, rows.Err()
}
