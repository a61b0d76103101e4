package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/DiPaolo/hltv-upcoming-events-bot/internal/domain"
	"go.uber.org/zap"
)

type SubscriptionResult int

const (
	SubscriptionOK SubscriptionResult = iota
	SubscriptionAlreadyExists
	SubscriptionNotExists
	SubscriptionError
)

func (r SubscriptionResult) String() string {
	switch r {
	case SubscriptionOK:
		return "OK"
	case SubscriptionAlreadyExists:
		return "ALREADY_EXISTS"
	case SubscriptionNotExists:
		return "NOT_EXISTS"
	default:
		return "ERROR"
	}
}

// NotificationUsecase selects what a chat should receive and records what it got.
type NotificationUsecase struct {
	store  domain.Store
	logger *zap.Logger
	now    func() time.Time
}

func NewNotificationUsecase(store domain.Store, logger *zap.Logger) *NotificationUsecase {
	return &NotificationUsecase{store: store, logger: logger, now: time.Now}
}

// RecentUnsentForChat returns at most maxCount news items published since the given
// time that were never delivered to the chat, hottest first.
func (u *NotificationUsecase) RecentUnsentForChat(ctx context.Context, chatTelegramID int64, since time.Time, maxCount int) ([]domain.NewsItem, error) {
	repos := u.store.Repositories()
	var chatID uint
	chat, err := repos.Chats().GetByTelegramID(ctx, chatTelegramID)
	switch {
	case err == nil:
		chatID = chat.ID
	case !errors.Is(err, domain.ErrNotFound):
		return nil, err
	}
	// an unknown chat has no deliveries, so chat id 0 matches no ledger rows

	items, err := repos.News().RecentUnsentForChat(ctx, chatID, since, maxCount)
	if err != nil {
		u.logger.Error("recent news query failed", zap.Int64("telegram_chat_id", chatTelegramID), zap.Error(err))
		return nil, err
	}
	u.logger.Info(
		"recent news selected",
		zap.Int64("telegram_chat_id", chatTelegramID),
		zap.Time("since", since),
		zap.Int("max", maxCount),
		zap.Int("count", len(items)),
	)
	return items, nil
}

// MarkSent records delivery of every item to every chat. Pairs already recorded are
// left as they are.
func (u *NotificationUsecase) MarkSent(ctx context.Context, items []domain.NewsItem, chatTelegramIDs []int64) error {
	if len(items) == 0 || len(chatTelegramIDs) == 0 {
		return nil
	}
	sentAt := u.now().UTC()
	return u.store.WithinTx(ctx, func(repos domain.Repositories) error {
		for _, telegramID := range chatTelegramIDs {
			chat, _, err := repos.Chats().ResolveOrCreate(ctx, domain.Chat{TelegramID: telegramID})
			if err != nil {
				if domain.IsRecordLevel(err) {
					u.logger.Warn("mark sent: chat unresolved", zap.Int64("telegram_chat_id", telegramID), zap.Error(err))
					continue
				}
				return err
			}
			for _, item := range items {
				if err := u.markOne(ctx, repos, item, chat, sentAt); err != nil {
					return err
				}
			}
		}
		return nil
	})
}

func (u *NotificationUsecase) markOne(ctx context.Context, repos domain.Repositories, item domain.NewsItem, chat domain.Chat, sentAt time.Time) error {
	newsItemID := item.ID
	if newsItemID == 0 {
		stored, err := repos.News().GetByURL(ctx, item.URL)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				u.logger.Warn("mark sent: news item not stored", zap.String("url", item.URL))
				return nil
			}
			return err
		}
		newsItemID = stored.ID
	}
	_, created, err := repos.NewsSent().ResolveOrCreate(ctx, domain.NewsItemSent{NewsItemID: newsItemID, ChatID: chat.ID, SentAt: sentAt})
	if err != nil {
		if domain.IsRecordLevel(err) {
			u.logger.Warn("mark sent failed", zap.String("url", item.URL), zap.Int64("telegram_chat_id", chat.TelegramID), zap.Error(err))
			return nil
		}
		return err
	}
	if created {
		u.logger.Debug("news item marked sent", zap.String("url", item.URL), zap.Int64("telegram_chat_id", chat.TelegramID))
	}
	return nil
}

// UpcomingMatchesForWindow returns resolved matches starting strictly inside (start, end).
func (u *NotificationUsecase) UpcomingMatchesForWindow(ctx context.Context, start, end time.Time) ([]domain.Match, error) {
	matches, err := u.store.Repositories().Matches().ListInWindow(ctx, start, end)
	if err != nil {
		u.logger.Error("upcoming matches query failed", zap.Time("start", start), zap.Time("end", end), zap.Error(err))
		return nil, err
	}
	return matches, nil
}

func (u *NotificationUsecase) AddSubscriber(ctx context.Context, chat domain.Chat) SubscriptionResult {
	result := SubscriptionError
	err := u.store.WithinTx(ctx, func(repos domain.Repositories) error {
		stored, _, err := repos.Chats().ResolveOrCreate(ctx, chat)
		if err != nil {
			return err
		}
		_, created, err := repos.Subscribers().ResolveOrCreate(ctx, domain.Subscriber{ChatID: stored.ID})
		if err != nil {
			return err
		}
		result = SubscriptionAlreadyExists
		if created {
			result = SubscriptionOK
		}
		return nil
	})
	if err != nil {
		u.logger.Error("add subscriber failed", zap.Int64("telegram_chat_id", chat.TelegramID), zap.Error(err))
		return SubscriptionError
	}
	u.logger.Info("add subscriber", zap.Int64("telegram_chat_id", chat.TelegramID), zap.Stringer("result", result))
	return result
}

func (u *NotificationUsecase) RemoveSubscriber(ctx context.Context, chatTelegramID int64) SubscriptionResult {
	repos := u.store.Repositories()
	chat, err := repos.Chats().GetByTelegramID(ctx, chatTelegramID)
	if errors.Is(err, domain.ErrNotFound) {
		return SubscriptionNotExists
	}
	if err != nil {
		u.logger.Error("remove subscriber failed", zap.Int64("telegram_chat_id", chatTelegramID), zap.Error(err))
		return SubscriptionError
	}
	removed, err := repos.Subscribers().Remove(ctx, chat.ID)
	if err != nil {
		u.logger.Error("remove subscriber failed", zap.Int64("telegram_chat_id", chatTelegramID), zap.Error(err))
		return SubscriptionError
	}
	if !removed {
		return SubscriptionNotExists
	}
	u.logger.Info("subscriber removed", zap.Int64("telegram_chat_id", chatTelegramID))
	return SubscriptionOK
}

func (u *NotificationUsecase) SubscriberChats(ctx context.Context) ([]domain.Chat, error) {
	return u.store.Repositories().Subscribers().ListChats(ctx)
}
