package db

import (
	"context"
	"errors"

	"github.com/DiPaolo/hltv-upcoming-events-bot/internal/domain"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type TeamRepository struct {
	resolver[domain.Team, teamModel]
	db *gorm.DB
}

func NewTeamRepository(db *gorm.DB, logger *zap.Logger) *TeamRepository {
	return &TeamRepository{
		resolver: resolver[domain.Team, teamModel]{db: db, logger: logger, key: naturalKey[domain.Team, teamModel]{
			kind:     "team",
			toModel:  mapTeamToModel,
			toDomain: mapTeamToDomain,
			where: func(m teamModel) (string, []any) {
				return "name = ?", []any{m.Name}
			},
			fields: func(m teamModel) []zap.Field {
				return []zap.Field{zap.String("name", m.Name), zap.String("url", m.URL)}
			},
			backfill: func(stored, candidate teamModel) map[string]any {
				if stored.URL == "" && candidate.URL != "" {
					return map[string]any{"url": candidate.URL}
				}
				return nil
			},
		}},
		db: db,
	}
}

func (r *TeamRepository) GetByName(ctx context.Context, name string) (*domain.Team, error) {
	var model teamModel
	if err := r.db.WithContext(ctx).Where("name = ?", name).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	team := mapTeamToDomain(model)
	return &team, nil
}

type TournamentRepository struct {
	resolver[domain.Tournament, tournamentModel]
	db *gorm.DB
}

func NewTournamentRepository(db *gorm.DB, logger *zap.Logger) *TournamentRepository {
	return &TournamentRepository{
		resolver: resolver[domain.Tournament, tournamentModel]{db: db, logger: logger, key: naturalKey[domain.Tournament, tournamentModel]{
			kind:     "tournament",
			toModel:  mapTournamentToModel,
			toDomain: mapTournamentToDomain,
			where: func(m tournamentModel) (string, []any) {
				return "name = ?", []any{m.Name}
			},
			fields: func(m tournamentModel) []zap.Field {
				fields := []zap.Field{zap.String("name", m.Name)}
				if m.URL != nil {
					fields = append(fields, zap.String("url", *m.URL))
				}
				if m.ExternalID != nil {
					fields = append(fields, zap.Int64("external_id", *m.ExternalID))
				}
				return fields
			},
		}},
		db: db,
	}
}

func (r *TournamentRepository) GetByName(ctx context.Context, name string) (*domain.Tournament, error) {
	var model tournamentModel
	if err := r.db.WithContext(ctx).Where("name = ?", name).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	tournament := mapTournamentToDomain(model)
	return &tournament, nil
}

// Unknown resolves the sentinel tournament, creating it on first use.
func (r *TournamentRepository) Unknown(ctx context.Context) (domain.Tournament, error) {
	tournament, _, err := r.ResolveOrCreate(ctx, domain.Tournament{Name: domain.UnknownTournamentName})
	return tournament, err
}

type MatchStateRepository struct {
	resolver[domain.MatchState, matchStateModel]
}

func NewMatchStateRepository(db *gorm.DB, logger *zap.Logger) *MatchStateRepository {
	return &MatchStateRepository{
		resolver: resolver[domain.MatchState, matchStateModel]{db: db, logger: logger, key: naturalKey[domain.MatchState, matchStateModel]{
			kind: "match_state",
			toModel: func(state domain.MatchState) matchStateModel {
				return matchStateModel{Name: state.String()}
			},
			toDomain: func(m matchStateModel) domain.MatchState {
				return domain.ParseMatchState(m.Name)
			},
			where: func(m matchStateModel) (string, []any) {
				return "name = ?", []any{m.Name}
			},
			fields: func(m matchStateModel) []zap.Field {
				return []zap.Field{zap.String("name", m.Name)}
			},
		}},
	}
}

// ResolveID returns the lookup row id for state, creating the row on first use.
func (r *MatchStateRepository) ResolveID(ctx context.Context, state domain.MatchState) (uint, error) {
	if _, _, err := r.ResolveOrCreate(ctx, state); err != nil {
		return 0, err
	}
	model, err := r.lookup(ctx, matchStateModel{Name: state.String()})
	if err != nil {
		return 0, err
	}
	return model.ID, nil
}
