package telegram

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/DiPaolo/hltv-upcoming-events-bot/internal/domain"
	"github.com/DiPaolo/hltv-upcoming-events-bot/internal/usecase"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

type HandlersConfig struct {
	NewsLookback time.Duration
	NewsMaxItems int
	Version      string
}

type Handlers struct {
	users         *usecase.UserUsecase
	notifications *usecase.NotificationUsecase
	matches       *usecase.MatchUsecase
	sender        usecase.Sender
	renderer      *Renderer
	cfg           HandlersConfig
	now           func() time.Time
	logger        *zap.Logger
}

func NewHandlers(
	users *usecase.UserUsecase,
	notifications *usecase.NotificationUsecase,
	matches *usecase.MatchUsecase,
	sender usecase.Sender,
	renderer *Renderer,
	cfg HandlersConfig,
	logger *zap.Logger,
) *Handlers {
	return &Handlers{
		users:         users,
		notifications: notifications,
		matches:       matches,
		sender:        sender,
		renderer:      renderer,
		cfg:           cfg,
		now:           time.Now,
		logger:        logger,
	}
}

func (h *Handlers) HandleUpdate(ctx context.Context, update tgbotapi.Update) {
	if update.Message == nil {
		return
	}
	if update.Message.From == nil {
		return
	}
	if update.Message.IsCommand() {
		h.handleCommand(ctx, update.Message)
	}
}

func (h *Handlers) handleCommand(ctx context.Context, message *tgbotapi.Message) {
	command := message.Command()
	args := message.CommandArguments()
	chatID := message.Chat.ID
	userID := message.From.ID

	h.logger.Info(
		"telegram command received",
		zap.Int64("chat_id", chatID),
		zap.Int64("telegram_user_id", userID),
		zap.String("username", message.From.UserName),
		zap.String("command", command),
		zap.String("args", args),
	)
	if _, err := h.users.TrackRequest(ctx, requestInfo(message)); err != nil {
		h.logger.Warn("request not tracked", zap.Int64("telegram_user_id", userID), zap.Error(err))
	}

	switch command {
	case "start":
		h.reply(ctx, chatID, "Welcome!\n\n"+HelpText)
	case "help":
		h.reply(ctx, chatID, HelpText)
	case "matches":
		upcoming, err := h.matches.Upcoming(ctx)
		if err != nil {
			h.logger.Warn("matches command failed", zap.Int64("chat_id", chatID), zap.Error(err))
			h.reply(ctx, chatID, h.errorMessage(err))
			return
		}
		h.reply(ctx, chatID, h.renderer.RenderMatches(upcoming, h.users.Location(ctx, userID)))
	case "news":
		h.handleNews(ctx, chatID)
	case "subscribe":
		result := h.notifications.AddSubscriber(ctx, domain.Chat{TelegramID: chatID, Title: message.Chat.Title, Type: message.Chat.Type})
		switch result {
		case usecase.SubscriptionOK:
			h.reply(ctx, chatID, "Subscribed. The next matches digest arrives tomorrow morning.")
		case usecase.SubscriptionAlreadyExists:
			h.reply(ctx, chatID, "You are already subscribed 👌")
		default:
			h.reply(ctx, chatID, "Sorry, something went wrong. Could not subscribe.")
		}
	case "unsubscribe":
		switch h.notifications.RemoveSubscriber(ctx, chatID) {
		case usecase.SubscriptionOK:
			h.reply(ctx, chatID, "Unsubscribed from daily digests. Sorry to see you go.")
		case usecase.SubscriptionNotExists:
			h.reply(ctx, chatID, "Looks like you were not subscribed 🤔")
		default:
			h.reply(ctx, chatID, "Sorry, something went wrong. Could not unsubscribe.")
		}
	case "timezone":
		h.handleTimezone(ctx, chatID, userID, args)
	case "version":
		h.reply(ctx, chatID, h.cfg.Version)
	default:
		h.logger.Warn("unknown command", zap.Int64("telegram_user_id", userID), zap.String("command", command))
		h.reply(ctx, chatID, "Unknown command.\n\n"+HelpText)
	}
}

func (h *Handlers) handleNews(ctx context.Context, chatID int64) {
	now := h.now().UTC()
	items, err := h.notifications.RecentUnsentForChat(ctx, chatID, now.Add(-h.cfg.NewsLookback), h.cfg.NewsMaxItems)
	if err != nil {
		h.logger.Warn("news command failed", zap.Int64("chat_id", chatID), zap.Error(err))
		h.reply(ctx, chatID, h.errorMessage(err))
		return
	}
	if err := h.sender.Send(ctx, chatID, h.renderer.RenderNews(items, now)); err != nil {
		return
	}
	if err := h.notifications.MarkSent(ctx, items, []int64{chatID}); err != nil {
		h.logger.Error("failed to mark news sent", zap.Int64("chat_id", chatID), zap.Error(err))
	}
}

func (h *Handlers) handleTimezone(ctx context.Context, chatID, userID int64, args string) {
	if args == "" {
		h.reply(ctx, chatID, fmt.Sprintf("Your timezone is %s. Use /timezone +3 to change it.", h.users.Location(ctx, userID)))
		return
	}
	hours, err := ParseTimezoneOffset(args)
	if err != nil {
		h.reply(ctx, chatID, "Usage: /timezone +3")
		return
	}
	loc, err := h.users.SetTimezone(ctx, userID, hours)
	if err != nil {
		h.reply(ctx, chatID, h.errorMessage(err))
		return
	}
	h.reply(ctx, chatID, fmt.Sprintf("Timezone set to %s.", loc))
}

func (h *Handlers) errorMessage(err error) string {
	switch {
	case errors.Is(err, usecase.ErrUserNotRegistered):
		return "Please /start first."
	case errors.Is(err, domain.ErrInvalidTimezone):
		return fmt.Sprintf("Timezone must be between UTC%d and UTC+%d.", usecase.MinTimezoneHours, usecase.MaxTimezoneHours)
	}

	h.logger.Warn("unhandled error", zap.Error(err))
	return "Something went wrong. Please try again."
}

func (h *Handlers) reply(ctx context.Context, chatID int64, text string) {
	// Sender logs its own failures
	_ = h.sender.Send(ctx, chatID, text)
}

func requestInfo(message *tgbotapi.Message) usecase.RequestInfo {
	from := message.From
	return usecase.RequestInfo{
		Chat: domain.Chat{TelegramID: message.Chat.ID, Title: message.Chat.Title, Type: message.Chat.Type},
		User: domain.User{
			TelegramUserID: from.ID,
			Username:       from.UserName,
			FirstName:      from.FirstName,
			LastName:       from.LastName,
			IsBot:          from.IsBot,
			LanguageCode:   from.LanguageCode,
		},
		Text:       message.Text,
		MessageID:  message.MessageID,
		TelegramAt: message.Time(),
	}
}
