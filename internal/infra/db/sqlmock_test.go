package db_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/DiPaolo/hltv-upcoming-events-bot/internal/domain"
	"github.com/DiPaolo/hltv-upcoming-events-bot/internal/infra/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func newMockStore(t *testing.T) (*db.Store, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	logger := zaptest.NewLogger(t)
	gormDB, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), db.GormConfig(logger))
	require.NoError(t, err)
	return db.NewStore(gormDB, logger), mock
}

func TestStoreErrorsPropagate(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	connDropped := errors.New("connection reset by peer")

	t.Run("recent unsent query", func(t *testing.T) {
		t.Parallel()
		store, mock := newMockStore(t)
		mock.ExpectQuery(`LEFT JOIN news_item_sent`).WillReturnError(connDropped)

		_, err := store.Repositories().News().RecentUnsentForChat(ctx, 1, time.Now(), 3)
		require.ErrorIs(t, err, connDropped)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("resolver lookup is not a resolution failure", func(t *testing.T) {
		t.Parallel()
		store, mock := newMockStore(t)
		mock.ExpectQuery(`SELECT \* FROM "teams"`).WillReturnError(connDropped)

		_, _, err := store.Repositories().Teams().ResolveOrCreate(ctx, domain.Team{Name: "NAVI"})
		require.ErrorIs(t, err, connDropped)
		assert.False(t, domain.IsRecordLevel(err))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("failed insert is not a resolution failure", func(t *testing.T) {
		t.Parallel()
		store, mock := newMockStore(t)
		mock.ExpectQuery(`SELECT \* FROM "streamers"`).WillReturnRows(sqlmock.NewRows([]string{"id"}))
		mock.ExpectBegin()
		mock.ExpectQuery(`INSERT INTO "streamers"`).WillReturnError(connDropped)
		mock.ExpectRollback()

		_, _, err := store.Repositories().Streamers().ResolveOrCreate(ctx, domain.Streamer{Name: "Maincast", URL: "https://twitch.tv/maincast"})
		require.ErrorIs(t, err, connDropped)
		assert.False(t, domain.IsRecordLevel(err))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("get by telegram id", func(t *testing.T) {
		t.Parallel()
		store, mock := newMockStore(t)
		mock.ExpectQuery(`SELECT \* FROM "users"`).WillReturnRows(sqlmock.NewRows([]string{"id"}))

		_, err := store.Repositories().Users().GetByTelegramID(ctx, 5)
		assert.ErrorIs(t, err, domain.ErrNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
