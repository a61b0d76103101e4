package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/DiPaolo/hltv-upcoming-events-bot/internal/domain"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type NewsRepository struct {
	resolver[domain.NewsItem, newsItemModel]
	db *gorm.DB
}

func NewNewsRepository(db *gorm.DB, logger *zap.Logger) *NewsRepository {
	return &NewsRepository{
		resolver: resolver[domain.NewsItem, newsItemModel]{db: db, logger: logger, key: naturalKey[domain.NewsItem, newsItemModel]{
			kind:     "news_item",
			toModel:  mapNewsItemToModel,
			toDomain: mapNewsItemToDomain,
			where: func(m newsItemModel) (string, []any) {
				return "url = ?", []any{m.URL}
			},
			fields: func(m newsItemModel) []zap.Field {
				return []zap.Field{zap.String("url", m.URL), zap.String("title", m.Title)}
			},
		}},
		db: db,
	}
}

func (r *NewsRepository) GetByURL(ctx context.Context, url string) (*domain.NewsItem, error) {
	var model newsItemModel
	if err := r.db.WithContext(ctx).Where("url = ?", url).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	item := mapNewsItemToDomain(model)
	return &item, nil
}

// ApplyChanges writes only the changed columns of a news item.
func (r *NewsRepository) ApplyChanges(ctx context.Context, id uint, changes []domain.FieldChange) error {
	if len(changes) == 0 {
		return nil
	}
	updates := make(map[string]any, len(changes))
	for _, change := range changes {
		switch change.Field {
		case domain.NewsFieldPublishedAt, domain.NewsFieldTitle, domain.NewsFieldShortDesc,
			domain.NewsFieldCommentCount, domain.NewsFieldCommentAvgHour:
			updates[change.Field] = change.After
		default:
			return fmt.Errorf("unknown news field %q", change.Field)
		}
	}
	result := r.db.WithContext(ctx).Model(&newsItemModel{}).Where("id = ?", id).Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// RecentUnsentForChat ranks news published at or after since by comment velocity,
// excluding items already delivered to chatID. The exclusion is a left anti-join so
// sent items never take a slot inside maxCount.
func (r *NewsRepository) RecentUnsentForChat(ctx context.Context, chatID uint, since time.Time, maxCount int) ([]domain.NewsItem, error) {
	if maxCount <= 0 {
		return []domain.NewsItem{}, nil
	}
	var models []newsItemModel
	err := r.db.WithContext(ctx).
		Model(&newsItemModel{}).
		Select("news_items.*").
		Joins("LEFT JOIN news_item_sent ON news_item_sent.news_item_id = news_items.id AND news_item_sent.chat_id = ?", chatID).
		Where("news_item_sent.id IS NULL").
		Where("news_items.published_at >= ?", since.UTC()).
		Order("news_items.comment_avg_hour DESC").
		Order("news_items.published_at DESC").
		Order("news_items.id").
		Limit(maxCount).
		Find(&models).Error
	if err != nil {
		return nil, err
	}
	return mapNewsItemsToDomain(models), nil
}

type NewsSentRepository struct {
	resolver[domain.NewsItemSent, newsItemSentModel]
	db *gorm.DB
}

func NewNewsSentRepository(db *gorm.DB, logger *zap.Logger) *NewsSentRepository {
	return &NewsSentRepository{
		resolver: resolver[domain.NewsItemSent, newsItemSentModel]{db: db, logger: logger, key: naturalKey[domain.NewsItemSent, newsItemSentModel]{
			kind:     "news_item_sent",
			toModel:  mapNewsItemSentToModel,
			toDomain: mapNewsItemSentToDomain,
			where: func(m newsItemSentModel) (string, []any) {
				return "news_item_id = ? AND chat_id = ?", []any{m.NewsItemID, m.ChatID}
			},
			fields: func(m newsItemSentModel) []zap.Field {
				return []zap.Field{zap.Uint("news_item_id", m.NewsItemID), zap.Uint("chat_id", m.ChatID)}
			},
		}},
		db: db,
	}
}

func (r *NewsSentRepository) CountByChat(ctx context.Context, chatID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&newsItemSentModel{}).Where("chat_id = ?", chatID).Count(&count).Error
	return count, err
}
