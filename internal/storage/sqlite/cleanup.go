// File: cleanup.go
// Purpose: Purges soft-deleted notifications older than an age threshold,
// with optional dry-run support.
package sqlite

import (
	"context"
	"fmt"
	"time"
)

// Cleanup permanently removes notifications soft-deleted more than olderThan
// ago and returns how many rows matched. In dry-run mode nothing is removed.
func (s *SQLiteStorage) Cleanup(ctx context.Context, olderThan time.Duration, dryRun bool) (int, error) {
	if olderThan < 0 {
		return 0, fmt.Errorf("sqlite storage: cleanup threshold must be >= 0")
	}
	cutoff := s.now().UTC().Add(-olderThan).UnixNano()

	var count int
	if err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM notifications WHERE deleted = 1 AND deleted_at <= ?`, cutoff,
	).Scan(&count); err != nil {
		return 0, fmt.Errorf("sqlite storage: count notifications for cleanup: %w", err)
	}
	if count == 0 || dryRun {
		return count, nil
	}

	if _, err := s.db.ExecContext(ctx,
		`DELETE FROM notifications WHERE deleted = 1 AND deleted_at <= ?`, cutoff,
	); err != nil {
		return 0, fmt.Errorf("sqlite storage: cleanup notifications: %w", err)
	}
	return count, nil
}
