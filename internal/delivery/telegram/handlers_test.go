package telegram

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/DiPaolo/hltv-upcoming-events-bot/internal/domain"
	"github.com/DiPaolo/hltv-upcoming-events-bot/internal/infra/db"
	"github.com/DiPaolo/hltv-upcoming-events-bot/internal/testutil/dbtest"
	"github.com/DiPaolo/hltv-upcoming-events-bot/internal/usecase"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

type fakeAPI struct {
	mu   sync.Mutex
	sent []tgbotapi.MessageConfig
	err  error
}

func (f *fakeAPI) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return tgbotapi.Message{}, f.err
	}
	msg, ok := c.(tgbotapi.MessageConfig)
	if !ok {
		return tgbotapi.Message{}, fmt.Errorf("unexpected chattable %T", c)
	}
	f.sent = append(f.sent, msg)
	return tgbotapi.Message{MessageID: len(f.sent)}, nil
}

func (f *fakeAPI) last(t *testing.T) tgbotapi.MessageConfig {
	t.Helper()
	f.mu.Lock()
	defer f.mu.Unlock()
	require.NotEmpty(t, f.sent)
	return f.sent[len(f.sent)-1]
}

type handlerFixture struct {
	api      *fakeAPI
	handlers *Handlers
	store    *db.Store
	now      time.Time
}

func newHandlerFixture(t *testing.T) handlerFixture {
	t.Helper()
	logger := zaptest.NewLogger(t)
	store := db.NewStore(dbtest.OpenWithLogger(t, logger), logger)
	api := &fakeAPI{}

	notifications := usecase.NewNotificationUsecase(store, logger)
	matches := usecase.NewMatchUsecase(notifications, usecase.NewMatchCache(time.Minute, nil), 24*time.Hour, logger)
	handlers := NewHandlers(
		usecase.NewUserUsecase(store, logger),
		notifications,
		matches,
		NewSender(api, logger),
		NewRenderer("Russia"),
		HandlersConfig{NewsLookback: 24 * time.Hour, NewsMaxItems: 3, Version: "1.2.3"},
		logger,
	)
	now := time.Now().UTC().Truncate(time.Second)
	handlers.now = func() time.Time { return now }
	return handlerFixture{api: api, handlers: handlers, store: store, now: now}
}

func commandUpdate(chatID int64, text string) tgbotapi.Update {
	length := len(text)
	for i, r := range text {
		if r == ' ' {
			length = i
			break
		}
	}
	return tgbotapi.Update{Message: &tgbotapi.Message{
		MessageID: 11,
		Date:      int(time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC).Unix()),
		Text:      text,
		Entities:  []tgbotapi.MessageEntity{{Type: "bot_command", Offset: 0, Length: length}},
		Chat:      &tgbotapi.Chat{ID: chatID, Type: "private"},
		From:      &tgbotapi.User{ID: chatID, UserName: "monesy", FirstName: "Ilya"},
	}}
}

func TestHandlers_BasicCommands(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := newHandlerFixture(t)

	f.handlers.HandleUpdate(ctx, commandUpdate(1, "/start"))
	msg := f.api.last(t)
	assert.Equal(t, int64(1), msg.ChatID)
	assert.Equal(t, tgbotapi.ModeHTML, msg.ParseMode)
	assert.True(t, msg.DisableWebPagePreview)
	assert.Contains(t, msg.Text, HelpText)

	f.handlers.HandleUpdate(ctx, commandUpdate(1, "/version"))
	assert.Equal(t, "1.2.3", f.api.last(t).Text)

	f.handlers.HandleUpdate(ctx, commandUpdate(1, "/dance"))
	assert.Contains(t, f.api.last(t).Text, "Unknown command.")

	// plain text and updates without a message are ignored
	f.handlers.HandleUpdate(ctx, tgbotapi.Update{})
	f.handlers.HandleUpdate(ctx, tgbotapi.Update{Message: &tgbotapi.Message{Text: "hi", Chat: &tgbotapi.Chat{ID: 1}, From: &tgbotapi.User{ID: 1}}})
	assert.Len(t, f.api.sent, 3)

	requests, err := f.store.Repositories().UserRequests().Recent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, requests, 3)
	assert.Equal(t, "/dance", requests[0].Text)
	assert.Equal(t, 11, requests[0].MessageID)
}

func TestHandlers_SubscribeUnsubscribe(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := newHandlerFixture(t)

	steps := []struct {
		command string
		reply   string
	}{
		{"/unsubscribe", "Looks like you were not subscribed"},
		{"/subscribe", "Subscribed."},
		{"/subscribe", "You are already subscribed"},
		{"/unsubscribe", "Unsubscribed"},
	}
	for _, step := range steps {
		f.handlers.HandleUpdate(ctx, commandUpdate(5, step.command))
		assert.Contains(t, f.api.last(t).Text, step.reply, step.command)
	}
}

func TestHandlers_Timezone(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := newHandlerFixture(t)

	f.handlers.HandleUpdate(ctx, commandUpdate(7, "/timezone"))
	assert.Equal(t, "Your timezone is UTC. Use /timezone +3 to change it.", f.api.last(t).Text)

	f.handlers.HandleUpdate(ctx, commandUpdate(7, "/timezone +3"))
	assert.Equal(t, "Timezone set to UTC+03.", f.api.last(t).Text)

	f.handlers.HandleUpdate(ctx, commandUpdate(7, "/timezone 15"))
	assert.Equal(t, "Timezone must be between UTC-12 and UTC+14.", f.api.last(t).Text)

	f.handlers.HandleUpdate(ctx, commandUpdate(7, "/timezone soon"))
	assert.Equal(t, "Usage: /timezone +3", f.api.last(t).Text)

	f.handlers.HandleUpdate(ctx, commandUpdate(7, "/timezone"))
	assert.Contains(t, f.api.last(t).Text, "UTC+03")
}

func TestHandlers_News(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := newHandlerFixture(t)

	for i := 0; i < 4; i++ {
		_, _, err := f.store.Repositories().News().ResolveOrCreate(ctx, domain.NewsItem{
			PublishedAt:    f.now.Add(-time.Duration(i+1) * time.Hour),
			Title:          fmt.Sprintf("news %d", i),
			URL:            fmt.Sprintf("https://www.cybersport.ru/news/%d", i),
			CommentAvgHour: float64(10 - i),
		})
		require.NoError(t, err)
	}

	f.handlers.HandleUpdate(ctx, commandUpdate(9, "/news"))
	text := f.api.last(t).Text
	assert.Contains(t, text, "news 0")
	assert.Contains(t, text, "news 2")
	assert.NotContains(t, text, "news 3")

	f.handlers.HandleUpdate(ctx, commandUpdate(9, "/news"))
	assert.Contains(t, f.api.last(t).Text, "news 3")

	f.handlers.HandleUpdate(ctx, commandUpdate(9, "/news"))
	assert.Equal(t, NoNewsText, f.api.last(t).Text)
}

func TestHandlers_NewsNotMarkedWhenDeliveryFails(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := newHandlerFixture(t)

	_, _, err := f.store.Repositories().News().ResolveOrCreate(ctx, domain.NewsItem{
		PublishedAt: f.now.Add(-time.Hour),
		Title:       "news",
		URL:         "https://www.cybersport.ru/news/1",
	})
	require.NoError(t, err)

	f.api.err = errors.New("Forbidden: bot was blocked by the user")
	f.handlers.HandleUpdate(ctx, commandUpdate(9, "/news"))

	f.api.err = nil
	f.handlers.HandleUpdate(ctx, commandUpdate(9, "/news"))
	assert.Contains(t, f.api.last(t).Text, "https://www.cybersport.ru/news/1")
}

func TestHandlers_Matches(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := newHandlerFixture(t)

	f.handlers.HandleUpdate(ctx, commandUpdate(3, "/matches"))
	assert.Equal(t, NoMatchesText, f.api.last(t).Text)
}
