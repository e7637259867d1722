package store

import (
	"context"
	"fmt"

	"github.com/rcliao/anger-log/internal/model"
)

// Import stores records from an export. Each record gets a fresh id and
// creation time; its detected distortions are kept as exported.
func Import(ctx context.Context, s Store, records []model.Record) (int, error) {
	imported := 0
	for _, r := range records {
		if _, err := s.Create(ctx, r); err != nil {
			return imported, fmt.Errorf("import record %d: %w", r.ID, err)
		}
		imported++
	}
	return imported, nil
}
