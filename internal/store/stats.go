package store

import (
	"context"
	"os"
)

// Info holds database statistics.
type Info struct {
	DBPath      string `json:"db_path"`
	DBSizeBytes int64  `json:"db_size_bytes"`
	Records     int    `json:"records"`
	FirstDate   string `json:"first_date,omitempty"`
	LastDate    string `json:"last_date,omitempty"`
	LastID      int64  `json:"last_id"`
}

// Info returns database statistics.
func (s *SQLiteStore) Info(ctx context.Context, dbPath string) (*Info, error) {
	info := &Info{DBPath: dbPath}

	// DB file size
	if fi, err := os.Stat(dbPath); err == nil {
		info.DBSizeBytes = fi.Size()
	}

	var first, last *string
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*), MIN(date), MAX(date), COALESCE(MAX(id), 0) FROM anger_records`).
		Scan(&info.Records, &first, &last, &info.LastID)
	if err != nil {
		return info, err
	}
	if first != nil {
		info.FirstDate = *first
	}
	if last != nil {
		info.LastDate = *last
	}

	return info, nil
}
