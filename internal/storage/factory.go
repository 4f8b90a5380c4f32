// Package storage provides storage backend selection.
package storage

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/cristianoliveira/inboxkit/internal/colors"
	"github.com/cristianoliveira/inboxkit/internal/config"
	"github.com/cristianoliveira/inboxkit/internal/storage/sqlite"
)

const notificationsDBFileName = "notifications.db"

// NewFromConfig opens the SQLite repository at the configured db_path.
// Configuration must already be loaded.
func NewFromConfig() (*sqlite.SQLiteStorage, error) {
	dbPath := strings.TrimSpace(config.Get("db_path", ""))
	if dbPath == "" {
		stateDir := config.Get("state_dir", "")
		if stateDir == "" {
			return nil, fmt.Errorf("storage initialization failed: state_dir not configured")
		}
		dbPath = filepath.Join(stateDir, notificationsDBFileName)
	}
	colors.Debug("db_path: " + dbPath)

	s, err := sqlite.NewSQLiteStorage(dbPath)
	if err != nil {
		return nil, fmt.Errorf("storage initialization failed: %w", err)
	}
	return s, nil
}
