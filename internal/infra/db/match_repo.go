package db

import (
	"context"
	"errors"
	"time"

	"github.com/DiPaolo/hltv-upcoming-events-bot/internal/domain"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type MatchRepository struct {
	resolver[domain.MatchRow, matchModel]
	db *gorm.DB
}

func NewMatchRepository(db *gorm.DB, logger *zap.Logger) *MatchRepository {
	return &MatchRepository{
		resolver: resolver[domain.MatchRow, matchModel]{db: db, logger: logger, key: naturalKey[domain.MatchRow, matchModel]{
			kind:     "match",
			toModel:  mapMatchRowToModel,
			toDomain: mapMatchRowToDomain,
			where: func(m matchModel) (string, []any) {
				return "url = ?", []any{m.URL}
			},
			fields: func(m matchModel) []zap.Field {
				return []zap.Field{zap.String("url", m.URL), zap.Int64("unix_time_utc_sec", m.UnixTimeUTCSec)}
			},
		}},
		db: db,
	}
}

func (r *MatchRepository) GetByURL(ctx context.Context, url string) (*domain.MatchRow, error) {
	var model matchModel
	if err := r.db.WithContext(ctx).Where("url = ?", url).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	row := mapMatchRowToDomain(model)
	return &row, nil
}

// Update rewrites the mutable columns of an existing match. The url is never changed.
func (r *MatchRepository) Update(ctx context.Context, row domain.MatchRow) error {
	model := mapMatchRowToModel(row)
	result := r.db.WithContext(ctx).Model(&matchModel{}).Where("id = ?", row.ID).Updates(map[string]any{
		"unix_time_utc_sec": model.UnixTimeUTCSec,
		"stars":             model.Stars,
		"team1_id":          model.Team1ID,
		"team2_id":          model.Team2ID,
		"tournament_id":     model.TournamentID,
		"state_id":          model.StateID,
	})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// ListInWindow returns matches starting strictly between start and end, fully resolved.
func (r *MatchRepository) ListInWindow(ctx context.Context, start, end time.Time) ([]domain.Match, error) {
	var models []matchModel
	err := r.db.WithContext(ctx).
		Preload("Team1").
		Preload("Team2").
		Preload("Tournament").
		Preload("State").
		Preload("Translations", func(db *gorm.DB) *gorm.DB { return db.Order("id") }).
		Preload("Translations.Streamer").
		Where("unix_time_utc_sec > ? AND unix_time_utc_sec < ?", start.Unix(), end.Unix()).
		Order("unix_time_utc_sec").
		Order("id").
		Find(&models).Error
	if err != nil {
		return nil, err
	}
	matches := make([]domain.Match, 0, len(models))
	for _, model := range models {
		matches = append(matches, mapMatchToDomain(model))
	}
	return matches, nil
}

type StreamerRepository struct {
	resolver[domain.Streamer, streamerModel]
}

func NewStreamerRepository(db *gorm.DB, logger *zap.Logger) *StreamerRepository {
	return &StreamerRepository{
		resolver: resolver[domain.Streamer, streamerModel]{db: db, logger: logger, key: naturalKey[domain.Streamer, streamerModel]{
			kind:     "streamer",
			toModel:  mapStreamerToModel,
			toDomain: mapStreamerToDomain,
			where: func(m streamerModel) (string, []any) {
				return "url = ?", []any{m.URL}
			},
			fields: func(m streamerModel) []zap.Field {
				return []zap.Field{zap.String("url", m.URL), zap.String("name", m.Name), zap.String("language", m.Language)}
			},
		}},
	}
}

type TranslationRepository struct {
	resolver[domain.Translation, translationModel]
	db *gorm.DB
}

func NewTranslationRepository(db *gorm.DB, logger *zap.Logger) *TranslationRepository {
	return &TranslationRepository{
		resolver: resolver[domain.Translation, translationModel]{db: db, logger: logger, key: naturalKey[domain.Translation, translationModel]{
			kind:     "translation",
			toModel:  mapTranslationToModel,
			toDomain: mapTranslationToDomain,
			where: func(m translationModel) (string, []any) {
				return "match_id = ? AND streamer_id = ?", []any{m.MatchID, m.StreamerID}
			},
			fields: func(m translationModel) []zap.Field {
				return []zap.Field{zap.Uint("match_id", m.MatchID), zap.Uint("streamer_id", m.StreamerID)}
			},
		}},
		db: db,
	}
}

func (r *TranslationRepository) ListByMatch(ctx context.Context, matchID uint) ([]domain.Translation, error) {
	var models []translationModel
	if err := r.db.WithContext(ctx).Where("match_id = ?", matchID).Order("id").Find(&models).Error; err != nil {
		return nil, err
	}
	translations := make([]domain.Translation, 0, len(models))
	for _, model := range models {
		translations = append(translations, mapTranslationToDomain(model))
	}
	return translations, nil
}
