package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/DiPaolo/hltv-upcoming-events-bot/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func requestFrom(userID int64, text string) RequestInfo {
	return RequestInfo{
		Chat:       domain.Chat{TelegramID: userID, Type: "private"},
		User:       domain.User{TelegramUserID: userID, Username: "zywoo", FirstName: "Mathieu"},
		Text:       text,
		MessageID:  7,
		TelegramAt: time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC),
	}
}

func TestUserUsecase_TrackRequest(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	logger, logs := observedLogger()
	store, gormDB := newTestStore(t, logger)
	users := NewUserUsecase(store, logger)

	for _, text := range []string{"/start", "/matches"} {
		user, err := users.TrackRequest(ctx, requestFrom(100, text))
		require.NoError(t, err)
		assert.Equal(t, int64(100), user.TelegramUserID)
	}

	assert.Equal(t, 1, logs.FilterMessage("user registered").Len())
	assert.Equal(t, int64(1), countRows(t, gormDB, "users"))
	assert.Equal(t, int64(1), countRows(t, gormDB, "chats"))

	requests, err := users.RecentRequests(ctx, 10)
	require.NoError(t, err)
	require.Len(t, requests, 2)
	assert.Equal(t, "/matches", requests[0].Text)
	assert.Equal(t, 7, requests[0].MessageID)

	list, err := users.ListUsers(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "zywoo", list[0].Username)
}

func TestUserUsecase_Timezone(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	logger, _ := observedLogger()
	store, _ := newTestStore(t, logger)
	users := NewUserUsecase(store, logger)

	_, err := users.SetTimezone(ctx, 100, 3)
	require.ErrorIs(t, err, ErrUserNotRegistered)
	assert.Equal(t, time.UTC, users.Location(ctx, 100))

	_, err = users.TrackRequest(ctx, requestFrom(100, "/timezone 3"))
	require.NoError(t, err)

	loc, err := users.SetTimezone(ctx, 100, 3)
	require.NoError(t, err)
	assert.Equal(t, "UTC+03", loc.String())

	_, err = users.SetTimezone(ctx, 100, -5)
	require.NoError(t, err)
	_, offset := time.Date(2024, 1, 1, 0, 0, 0, 0, users.Location(ctx, 100)).Zone()
	assert.Equal(t, -5*3600, offset)

	for _, hours := range []int{15, -13} {
		_, err = users.SetTimezone(ctx, 100, hours)
		require.ErrorIs(t, err, domain.ErrInvalidTimezone)
	}
	require.ErrorIs(t, users.SetTimezoneMinutes(ctx, 100, 14*60+1), domain.ErrInvalidTimezone)

	// rejected values leave the previous offset in place
	_, offset = time.Date(2024, 1, 1, 0, 0, 0, 0, users.Location(ctx, 100)).Zone()
	assert.Equal(t, -5*3600, offset)

	require.NoError(t, users.SetTimezoneMinutes(ctx, 100, 330))
	_, offset = time.Date(2024, 1, 1, 0, 0, 0, 0, users.Location(ctx, 100)).Zone()
	assert.Equal(t, 330*60, offset)

	// both ends of [-720, 840] are accepted, one minute past either is not
	for _, minutes := range []int{-720, 840} {
		require.NoError(t, users.SetTimezoneMinutes(ctx, 100, minutes))
		_, offset = time.Date(2024, 1, 1, 0, 0, 0, 0, users.Location(ctx, 100)).Zone()
		assert.Equal(t, minutes*60, offset)
	}
	require.ErrorIs(t, users.SetTimezoneMinutes(ctx, 100, -721), domain.ErrInvalidTimezone)
	_, offset = time.Date(2024, 1, 1, 0, 0, 0, 0, users.Location(ctx, 100)).Zone()
	assert.Equal(t, 840*60, offset)

	for _, hours := range []int{-12, 14} {
		loc, err = users.SetTimezone(ctx, 100, hours)
		require.NoError(t, err)
		_, offset = time.Date(2024, 1, 1, 0, 0, 0, 0, loc).Zone()
		assert.Equal(t, hours*3600, offset)
	}
}
