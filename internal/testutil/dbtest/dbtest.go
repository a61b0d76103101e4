// Package dbtest opens a migrated in-memory SQLite database for tests.
package dbtest

import (
	"testing"

	"github.com/DiPaolo/hltv-upcoming-events-bot/internal/infra/db"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// Open returns a fresh database private to t. A single connection keeps the
// in-memory database alive for the whole test.
func Open(t testing.TB) *gorm.DB {
	t.Helper()
	return OpenWithLogger(t, zaptest.NewLogger(t))
}

func OpenWithLogger(t testing.TB, logger *zap.Logger) *gorm.DB {
	t.Helper()
	gormDB, err := gorm.Open(sqlite.Open(db.SQLiteDSN("file::memory:")), db.GormConfig(logger))
	require.NoError(t, err)

	sqlDB, err := gormDB.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.Migrate(gormDB))
	return gormDB
}

// Store wraps Open in the production store.
func Store(t testing.TB) *db.Store {
	t.Helper()
	logger := zaptest.NewLogger(t)
	return db.NewStore(OpenWithLogger(t, logger), logger)
}
