package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/DiPaolo/hltv-upcoming-events-bot/internal/domain"
	"go.uber.org/zap"
)

const (
	MinTimezoneHours = domain.MinUTCOffsetMinutes / 60
	MaxTimezoneHours = domain.MaxUTCOffsetMinutes / 60
)

// RequestInfo is an incoming bot message as seen by the request log.
type RequestInfo struct {
	Chat       domain.Chat
	User       domain.User
	Text       string
	MessageID  int
	TelegramAt time.Time
}

type UserUsecase struct {
	store  domain.Store
	logger *zap.Logger
	now    func() time.Time
}

func NewUserUsecase(store domain.Store, logger *zap.Logger) *UserUsecase {
	return &UserUsecase{store: store, logger: logger, now: time.Now}
}

// TrackRequest registers the chat and user on first contact and appends the request
// to the request log.
func (u *UserUsecase) TrackRequest(ctx context.Context, info RequestInfo) (*domain.User, error) {
	var user domain.User
	err := u.store.WithinTx(ctx, func(repos domain.Repositories) error {
		chat, _, err := repos.Chats().ResolveOrCreate(ctx, info.Chat)
		if err != nil {
			return fmt.Errorf("chat: %w", err)
		}
		var created bool
		user, created, err = repos.Users().ResolveOrCreate(ctx, info.User)
		if err != nil {
			return fmt.Errorf("user: %w", err)
		}
		if created {
			u.logger.Info("user registered", zap.Int64("telegram_user_id", user.TelegramUserID), zap.String("username", user.Username))
		}
		return repos.UserRequests().Add(ctx, &domain.UserRequest{
			ChatID:     chat.ID,
			UserID:     user.ID,
			ReceivedAt: u.now().UTC(),
			TelegramAt: info.TelegramAt.UTC(),
			MessageID:  info.MessageID,
			Text:       info.Text,
		})
	})
	if err != nil {
		u.logger.Warn("failed to track request", zap.Int64("telegram_user_id", info.User.TelegramUserID), zap.Error(err))
		return nil, err
	}
	return &user, nil
}

// SetTimezone stores a whole-hour UTC offset for the user.
func (u *UserUsecase) SetTimezone(ctx context.Context, telegramUserID int64, hours int) (*time.Location, error) {
	if hours < MinTimezoneHours || hours > MaxTimezoneHours {
		return nil, fmt.Errorf("%w: %d hours", domain.ErrInvalidTimezone, hours)
	}
	if err := u.SetTimezoneMinutes(ctx, telegramUserID, hours*60); err != nil {
		return nil, err
	}
	return domain.FixedZone(hours * 60), nil
}

// SetTimezoneMinutes appends a new offset row. Out-of-range offsets are rejected
// without touching stored rows.
func (u *UserUsecase) SetTimezoneMinutes(ctx context.Context, telegramUserID int64, minutes int) error {
	if minutes < domain.MinUTCOffsetMinutes || minutes > domain.MaxUTCOffsetMinutes {
		u.logger.Warn("timezone out of range", zap.Int64("telegram_user_id", telegramUserID), zap.Int("utc_offset_minutes", minutes))
		return fmt.Errorf("%w: %d minutes", domain.ErrInvalidTimezone, minutes)
	}
	repos := u.store.Repositories()
	user, err := repos.Users().GetByTelegramID(ctx, telegramUserID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return ErrUserNotRegistered
		}
		return err
	}
	if err := repos.Timezones().Add(ctx, &domain.UserTimezone{UserID: user.ID, UTCOffsetMinutes: minutes}); err != nil {
		return err
	}
	u.logger.Info("timezone set", zap.Int64("telegram_user_id", telegramUserID), zap.Int("utc_offset_minutes", minutes))
	return nil
}

// Location is the latest timezone the user set, or UTC.
func (u *UserUsecase) Location(ctx context.Context, telegramUserID int64) *time.Location {
	repos := u.store.Repositories()
	user, err := repos.Users().GetByTelegramID(ctx, telegramUserID)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			u.logger.Warn("failed to load user", zap.Int64("telegram_user_id", telegramUserID), zap.Error(err))
		}
		return time.UTC
	}
	tz, err := repos.Timezones().Latest(ctx, user.ID)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			u.logger.Warn("failed to load timezone", zap.Int64("telegram_user_id", telegramUserID), zap.Error(err))
		}
		return time.UTC
	}
	return tz.Location()
}

func (u *UserUsecase) ListUsers(ctx context.Context) ([]domain.User, error) {
	return u.store.Repositories().Users().List(ctx)
}

func (u *UserUsecase) RecentRequests(ctx context.Context, limit int) ([]domain.UserRequest, error) {
	return u.store.Repositories().UserRequests().Recent(ctx, limit)
}
