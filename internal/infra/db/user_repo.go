package db

import (
	"context"
	"errors"

	"github.com/DiPaolo/hltv-upcoming-events-bot/internal/domain"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type UserRepository struct {
	resolver[domain.User, userModel]
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB, logger *zap.Logger) *UserRepository {
	return &UserRepository{
		resolver: resolver[domain.User, userModel]{db: db, logger: logger, key: naturalKey[domain.User, userModel]{
			kind:     "user",
			toModel:  mapUserToModel,
			toDomain: mapUserToDomain,
			where: func(m userModel) (string, []any) {
				return "telegram_user_id = ?", []any{m.TelegramUserID}
			},
			fields: func(m userModel) []zap.Field {
				return []zap.Field{zap.Int64("telegram_user_id", m.TelegramUserID), zap.String("username", m.Username)}
			},
		}},
		db: db,
	}
}

func (r *UserRepository) GetByTelegramID(ctx context.Context, telegramUserID int64) (*domain.User, error) {
	var model userModel
	if err := r.db.WithContext(ctx).Where("telegram_user_id = ?", telegramUserID).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	user := mapUserToDomain(model)
	return &user, nil
}

func (r *UserRepository) List(ctx context.Context) ([]domain.User, error) {
	var models []userModel
	if err := r.db.WithContext(ctx).Order("id").Find(&models).Error; err != nil {
		return nil, err
	}
	users := make([]domain.User, 0, len(models))
	for _, model := range models {
		users = append(users, mapUserToDomain(model))
	}
	return users, nil
}

type ChatRepository struct {
	resolver[domain.Chat, chatModel]
	db *gorm.DB
}

func NewChatRepository(db *gorm.DB, logger *zap.Logger) *ChatRepository {
	return &ChatRepository{
		resolver: resolver[domain.Chat, chatModel]{db: db, logger: logger, key: naturalKey[domain.Chat, chatModel]{
			kind:     "chat",
			toModel:  mapChatToModel,
			toDomain: mapChatToDomain,
			where: func(m chatModel) (string, []any) {
				return "telegram_id = ?", []any{m.TelegramID}
			},
			fields: func(m chatModel) []zap.Field {
				return []zap.Field{zap.Int64("telegram_chat_id", m.TelegramID), zap.String("type", m.Type)}
			},
		}},
		db: db,
	}
}

func (r *ChatRepository) GetByTelegramID(ctx context.Context, telegramID int64) (*domain.Chat, error) {
	var model chatModel
	if err := r.db.WithContext(ctx).Where("telegram_id = ?", telegramID).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	chat := mapChatToDomain(model)
	return &chat, nil
}

type SubscriberRepository struct {
	resolver[domain.Subscriber, subscriberModel]
	db *gorm.DB
}

func NewSubscriberRepository(db *gorm.DB, logger *zap.Logger) *SubscriberRepository {
	return &SubscriberRepository{
		resolver: resolver[domain.Subscriber, subscriberModel]{db: db, logger: logger, key: naturalKey[domain.Subscriber, subscriberModel]{
			kind:     "subscriber",
			toModel:  mapSubscriberToModel,
			toDomain: mapSubscriberToDomain,
			where: func(m subscriberModel) (string, []any) {
				return "chat_id = ?", []any{m.ChatID}
			},
			fields: func(m subscriberModel) []zap.Field {
				return []zap.Field{zap.Uint("chat_id", m.ChatID)}
			},
		}},
		db: db,
	}
}

func (r *SubscriberRepository) Remove(ctx context.Context, chatID uint) (bool, error) {
	result := r.db.WithContext(ctx).Where("chat_id = ?", chatID).Delete(&subscriberModel{})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *SubscriberRepository) ListChats(ctx context.Context) ([]domain.Chat, error) {
	var models []subscriberModel
	if err := r.db.WithContext(ctx).Preload("Chat").Order("id").Find(&models).Error; err != nil {
		return nil, err
	}
	chats := make([]domain.Chat, 0, len(models))
	for _, model := range models {
		chats = append(chats, mapChatToDomain(model.Chat))
	}
	return chats, nil
}

type TimezoneRepository struct {
	db *gorm.DB
}

func NewTimezoneRepository(db *gorm.DB) *TimezoneRepository {
	return &TimezoneRepository{db: db}
}

// Add appends a row; history is kept and Latest picks the newest.
func (r *TimezoneRepository) Add(ctx context.Context, tz *domain.UserTimezone) error {
	model := mapUserTimezoneToModel(*tz)
	if err := r.db.WithContext(ctx).Create(&model).Error; err != nil {
		return err
	}
	tz.ID = model.ID
	return nil
}

func (r *TimezoneRepository) Latest(ctx context.Context, userID uint) (*domain.UserTimezone, error) {
	var model userTimezoneModel
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("id DESC").First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	tz := mapUserTimezoneToDomain(model)
	return &tz, nil
}

type UserRequestRepository struct {
	db *gorm.DB
}

func NewUserRequestRepository(db *gorm.DB) *UserRequestRepository {
	return &UserRequestRepository{db: db}
}

func (r *UserRequestRepository) Add(ctx context.Context, request *domain.UserRequest) error {
	model := mapUserRequestToModel(*request)
	if err := r.db.WithContext(ctx).Create(&model).Error; err != nil {
		return err
	}
	request.ID = model.ID
	return nil
}

func (r *UserRequestRepository) Recent(ctx context.Context, limit int) ([]domain.UserRequest, error) {
	var models []userRequestModel
	if err := r.db.WithContext(ctx).Order("id DESC").Limit(limit).Find(&models).Error; err != nil {
		return nil, err
	}
	requests := make([]domain.UserRequest, 0, len(models))
	for _, model := range models {
		requests = append(requests, mapUserRequestToDomain(model))
	}
	return requests, nil
}
