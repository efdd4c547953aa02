// Package dbtest opens throwaway SQLite databases for tests.
package dbtest

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/Rogue-Bear-Innovations/starwars-back/internal/config"
	"github.com/Rogue-Bear-Innovations/starwars-back/internal/db"
)

// Open returns a migrated database in t's temp dir, closed on cleanup.
func Open(t *testing.T) *gorm.DB {
	t.Helper()

	cfg := &config.Config{
		SQLitePath: filepath.Join(t.TempDir(), "test.db"),
	}
	conn, err := db.Open(cfg, zap.NewNop().Sugar())
	require.NoError(t, err)

	t.Cleanup(func() {
		_ = db.Close(conn)
	})

	return conn
}
