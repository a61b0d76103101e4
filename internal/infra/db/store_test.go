package db_test

import (
	"context"
	"testing"
	"time"

	"github.com/DiPaolo/hltv-upcoming-events-bot/internal/domain"
	"github.com/DiPaolo/hltv-upcoming-events-bot/internal/infra/db"
	"github.com/DiPaolo/hltv-upcoming-events-bot/internal/testutil/dbtest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"gorm.io/gorm"
)

func newStore(t *testing.T) (*db.Store, *gorm.DB) {
	t.Helper()
	logger := zaptest.NewLogger(t)
	gormDB := dbtest.OpenWithLogger(t, logger)
	return db.NewStore(gormDB, logger), gormDB
}

func countRows(t *testing.T, gormDB *gorm.DB, table string) int64 {
	t.Helper()
	var count int64
	require.NoError(t, gormDB.Table(table).Count(&count).Error)
	return count
}

func TestResolveOrCreate_NaturalKeyUniqueness(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("team", func(t *testing.T) {
		t.Parallel()
		store, gormDB := newStore(t)
		teams := store.Repositories().Teams()

		first, created, err := teams.ResolveOrCreate(ctx, domain.Team{Name: "NAVI", URL: "https://hltv.org/team/4608/navi"})
		require.NoError(t, err)
		assert.True(t, created)
		assert.NotZero(t, first.ID)

		second, created, err := teams.ResolveOrCreate(ctx, domain.Team{Name: "NAVI", URL: "https://other"})
		require.NoError(t, err)
		assert.False(t, created)
		assert.Equal(t, first, second)
		assert.Equal(t, int64(1), countRows(t, gormDB, "teams"))
	})

	t.Run("tournament", func(t *testing.T) {
		t.Parallel()
		store, gormDB := newStore(t)
		tournaments := store.Repositories().Tournaments()
		externalID := int64(7148)

		first, created, err := tournaments.ResolveOrCreate(ctx, domain.Tournament{Name: "IEM Cologne", URL: "https://hltv.org/events/7148", ExternalID: &externalID})
		require.NoError(t, err)
		assert.True(t, created)

		second, created, err := tournaments.ResolveOrCreate(ctx, domain.Tournament{Name: "IEM Cologne"})
		require.NoError(t, err)
		assert.False(t, created)
		assert.Equal(t, first.ID, second.ID)
		assert.Equal(t, "https://hltv.org/events/7148", second.URL)
		require.NotNil(t, second.ExternalID)
		assert.Equal(t, externalID, *second.ExternalID)
		assert.Equal(t, int64(1), countRows(t, gormDB, "tournaments"))
	})

	t.Run("streamer", func(t *testing.T) {
		t.Parallel()
		store, gormDB := newStore(t)
		streamers := store.Repositories().Streamers()

		for i := 0; i < 3; i++ {
			_, _, err := streamers.ResolveOrCreate(ctx, domain.Streamer{Name: "Maincast", Language: "Russia", URL: "https://twitch.tv/maincast"})
			require.NoError(t, err)
		}
		assert.Equal(t, int64(1), countRows(t, gormDB, "streamers"))
	})

	t.Run("chat and user", func(t *testing.T) {
		t.Parallel()
		store, gormDB := newStore(t)
		repos := store.Repositories()

		for i := 0; i < 2; i++ {
			_, _, err := repos.Chats().ResolveOrCreate(ctx, domain.Chat{TelegramID: 123, Title: "chat", Type: "group"})
			require.NoError(t, err)
			_, _, err = repos.Users().ResolveOrCreate(ctx, domain.User{TelegramUserID: 42, Username: "dipaolo"})
			require.NoError(t, err)
		}
		assert.Equal(t, int64(1), countRows(t, gormDB, "chats"))
		assert.Equal(t, int64(1), countRows(t, gormDB, "users"))
	})

	t.Run("match state", func(t *testing.T) {
		t.Parallel()
		store, gormDB := newStore(t)
		states := store.Repositories().MatchStates()

		planned, err := states.ResolveID(ctx, domain.MatchStatePlanned)
		require.NoError(t, err)
		again, err := states.ResolveID(ctx, domain.MatchStatePlanned)
		require.NoError(t, err)
		finished, err := states.ResolveID(ctx, domain.MatchStateFinished)
		require.NoError(t, err)

		assert.Equal(t, planned, again)
		assert.NotEqual(t, planned, finished)
		assert.Equal(t, int64(2), countRows(t, gormDB, "match_states"))
	})
}

func TestResolveOrCreate_ConcurrentWriterWins(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	store, gormDB := newStore(t)

	// Simulates another writer inserting the same team between our lookup and insert.
	raced := false
	require.NoError(t, gormDB.Callback().Create().Before("gorm:create").Register("test:race", func(tx *gorm.DB) {
		if raced || tx.Statement.Table != "teams" {
			return
		}
		raced = true
		require.NoError(t, tx.Session(&gorm.Session{NewDB: true}).Exec("INSERT INTO teams (name, url) VALUES (?, ?)", "Vitality", "racer").Error)
	}))

	team, created, err := store.Repositories().Teams().ResolveOrCreate(ctx, domain.Team{Name: "Vitality", URL: "ours"})
	require.NoError(t, err)
	assert.True(t, raced)
	assert.False(t, created)
	assert.Equal(t, "racer", team.URL)
	assert.Equal(t, int64(1), countRows(t, gormDB, "teams"))
}

func TestResolveOrCreate_ConflictOnSecondaryKeyIsResolutionFailure(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	store, gormDB := newStore(t)
	tournaments := store.Repositories().Tournaments()

	_, _, err := tournaments.ResolveOrCreate(ctx, domain.Tournament{Name: "BLAST Premier", URL: "https://hltv.org/events/1"})
	require.NoError(t, err)

	_, _, err = tournaments.ResolveOrCreate(ctx, domain.Tournament{Name: "BLAST Premier Spring", URL: "https://hltv.org/events/1"})
	require.ErrorIs(t, err, domain.ErrResolution)
	assert.Equal(t, int64(1), countRows(t, gormDB, "tournaments"))
}

func TestTeamURLBackfill(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	store, _ := newStore(t)
	teams := store.Repositories().Teams()

	_, _, err := teams.ResolveOrCreate(ctx, domain.Team{Name: "FaZe"})
	require.NoError(t, err)
	_, _, err = teams.ResolveOrCreate(ctx, domain.Team{Name: "FaZe", URL: "https://hltv.org/team/6667/faze"})
	require.NoError(t, err)
	_, _, err = teams.ResolveOrCreate(ctx, domain.Team{Name: "FaZe", URL: "https://elsewhere"})
	require.NoError(t, err)

	stored, err := teams.GetByName(ctx, "FaZe")
	require.NoError(t, err)
	assert.Equal(t, "https://hltv.org/team/6667/faze", stored.URL)
}

func TestUnknownTournament(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	store, gormDB := newStore(t)
	tournaments := store.Repositories().Tournaments()

	first, err := tournaments.Unknown(ctx)
	require.NoError(t, err)
	second, err := tournaments.Unknown(ctx)
	require.NoError(t, err)

	assert.True(t, first.IsUnknown())
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, int64(1), countRows(t, gormDB, "tournaments"))
}

func TestWithinTx_RollsBackOnError(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	store, gormDB := newStore(t)

	err := store.WithinTx(ctx, func(repos domain.Repositories) error {
		if _, _, err := repos.Teams().ResolveOrCreate(ctx, domain.Team{Name: "G2"}); err != nil {
			return err
		}
		return assert.AnError
	})
	require.ErrorIs(t, err, assert.AnError)
	assert.Equal(t, int64(0), countRows(t, gormDB, "teams"))
}

func TestTimezoneLatestWins(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	store, _ := newStore(t)
	repos := store.Repositories()

	user, _, err := repos.Users().ResolveOrCreate(ctx, domain.User{TelegramUserID: 1})
	require.NoError(t, err)

	_, err = repos.Timezones().Latest(ctx, user.ID)
	require.ErrorIs(t, err, domain.ErrNotFound)

	for _, offset := range []int{180, -300, 60} {
		require.NoError(t, repos.Timezones().Add(ctx, &domain.UserTimezone{UserID: user.ID, UTCOffsetMinutes: offset}))
	}
	latest, err := repos.Timezones().Latest(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, 60, latest.UTCOffsetMinutes)
}

func TestSubscribers(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	store, _ := newStore(t)
	repos := store.Repositories()

	chat, _, err := repos.Chats().ResolveOrCreate(ctx, domain.Chat{TelegramID: 777, Title: "fans"})
	require.NoError(t, err)

	_, created, err := repos.Subscribers().ResolveOrCreate(ctx, domain.Subscriber{ChatID: chat.ID})
	require.NoError(t, err)
	assert.True(t, created)
	_, created, err = repos.Subscribers().ResolveOrCreate(ctx, domain.Subscriber{ChatID: chat.ID})
	require.NoError(t, err)
	assert.False(t, created)

	chats, err := repos.Subscribers().ListChats(ctx)
	require.NoError(t, err)
	require.Len(t, chats, 1)
	assert.Equal(t, int64(777), chats[0].TelegramID)

	removed, err := repos.Subscribers().Remove(ctx, chat.ID)
	require.NoError(t, err)
	assert.True(t, removed)
	removed, err = repos.Subscribers().Remove(ctx, chat.ID)
	require.NoError(t, err)
	assert.False(t, removed)
}

func TestUserRequestsRecent(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	store, _ := newStore(t)
	requests := store.Repositories().UserRequests()
	now := time.Now().UTC().Truncate(time.Second)

	for i, text := range []string{"/start", "/matches", "/news"} {
		require.NoError(t, requests.Add(ctx, &domain.UserRequest{ChatID: 1, UserID: 1, ReceivedAt: now, TelegramAt: now, MessageID: i, Text: text}))
	}
	recent, err := requests.Recent(ctx, 2)
	require.NoError(t, err)
	require.Len(t, recent, 2)
	assert.Equal(t, "/news", recent[0].Text)
	assert.Equal(t, "/matches", recent[1].Text)
}
