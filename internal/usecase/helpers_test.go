package usecase

import (
	"testing"

	"github.com/DiPaolo/hltv-upcoming-events-bot/internal/infra/db"
	"github.com/DiPaolo/hltv-upcoming-events-bot/internal/testutil/dbtest"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	"gorm.io/gorm"
)

func observedLogger() (*zap.Logger, *observer.ObservedLogs) {
	core, logs := observer.New(zapcore.DebugLevel)
	return zap.New(core), logs
}

func newTestStore(t *testing.T, logger *zap.Logger) (*db.Store, *gorm.DB) {
	t.Helper()
	gormDB := dbtest.OpenWithLogger(t, logger)
	return db.NewStore(gormDB, logger), gormDB
}

func countRows(t *testing.T, gormDB *gorm.DB, table string) int64 {
	t.Helper()
	var count int64
	if err := gormDB.Table(table).Count(&count).Error; err != nil {
		t.Fatalf("count %s: %v", table, err)
	}
	return count
}
