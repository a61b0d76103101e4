package usecase

import (
	"context"
	"time"

	"github.com/DiPaolo/hltv-upcoming-events-bot/internal/domain"
	"go.uber.org/zap"
)

type Sender interface {
	Send(ctx context.Context, chatTelegramID int64, text string) error
}

type Renderer interface {
	InterestingMatches(matches []domain.Match) []domain.Match
	RenderMatches(matches []domain.Match, loc *time.Location) string
	RenderNews(items []domain.NewsItem, now time.Time) string
}

// Broadcaster pushes scheduled digests to every subscribed chat.
type Broadcaster struct {
	notifications *NotificationUsecase
	matches       *MatchUsecase
	sender        Sender
	renderer      Renderer
	newsLookback  time.Duration
	newsMax       int
	now           func() time.Time
	logger        *zap.Logger
}

func NewBroadcaster(notifications *NotificationUsecase, matches *MatchUsecase, sender Sender, renderer Renderer, newsLookback time.Duration, newsMax int, logger *zap.Logger) *Broadcaster {
	return &Broadcaster{
		notifications: notifications,
		matches:       matches,
		sender:        sender,
		renderer:      renderer,
		newsLookback:  newsLookback,
		newsMax:       newsMax,
		now:           time.Now,
		logger:        logger,
	}
}

// NotifyMatches sends one digest of interesting upcoming matches to all subscribers.
// With nothing interesting the renderer's fallback text is sent instead.
func (b *Broadcaster) NotifyMatches(ctx context.Context) error {
	upcoming, err := b.matches.Upcoming(ctx)
	if err != nil {
		return err
	}
	interesting := b.renderer.InterestingMatches(upcoming)
	if len(interesting) == 0 {
		b.logger.Info("no interesting matches, sending fallback digest", zap.Int("upcoming", len(upcoming)))
	}
	text := b.renderer.RenderMatches(interesting, time.UTC)

	chats, err := b.notifications.SubscriberChats(ctx)
	if err != nil {
		return err
	}
	sent := 0
	for _, chat := range chats {
		if err := b.sender.Send(ctx, chat.TelegramID, text); err != nil {
			b.logger.Warn("match digest delivery failed", zap.Int64("telegram_chat_id", chat.TelegramID), zap.Error(err))
			continue
		}
		sent++
	}
	b.logger.Info("match digest sent", zap.Int("matches", len(interesting)), zap.Int("chats", len(chats)), zap.Int("delivered", sent))
	return nil
}

// NotifyNews sends each subscriber its own unsent news and marks them sent once the
// message is delivered.
func (b *Broadcaster) NotifyNews(ctx context.Context) error {
	chats, err := b.notifications.SubscriberChats(ctx)
	if err != nil {
		return err
	}
	now := b.now().UTC()
	since := now.Add(-b.newsLookback)
	delivered, failed := 0, 0
	for _, chat := range chats {
		items, err := b.notifications.RecentUnsentForChat(ctx, chat.TelegramID, since, b.newsMax)
		if err != nil {
			b.logger.Error("news selection failed", zap.Int64("telegram_chat_id", chat.TelegramID), zap.Error(err))
			failed++
			continue
		}
		if len(items) == 0 {
			continue
		}
		if err := b.sender.Send(ctx, chat.TelegramID, b.renderer.RenderNews(items, now)); err != nil {
			b.logger.Warn("news digest delivery failed", zap.Int64("telegram_chat_id", chat.TelegramID), zap.Error(err))
			continue
		}
		if err := b.notifications.MarkSent(ctx, items, []int64{chat.TelegramID}); err != nil {
			b.logger.Error("failed to mark news sent", zap.Int64("telegram_chat_id", chat.TelegramID), zap.Error(err))
			continue
		}
		delivered++
	}
	b.logger.Info("news digest sent", zap.Int("chats", len(chats)), zap.Int("delivered", delivered), zap.Int("selection_failed", failed))
	return nil
}
