package db

import (
	"context"

	"github.com/DiPaolo/hltv-upcoming-events-bot/internal/domain"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Store struct {
	db     *gorm.DB
	logger *zap.Logger
}

func NewStore(db *gorm.DB, logger *zap.Logger) *Store {
	return &Store{db: db, logger: logger}
}

func (s *Store) WithinTx(ctx context.Context, fn func(repos domain.Repositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(repositories{db: tx, logger: s.logger})
	})
}

func (s *Store) Repositories() domain.Repositories {
	return repositories{db: s.db, logger: s.logger}
}

type repositories struct {
	db     *gorm.DB
	logger *zap.Logger
}

func (r repositories) Teams() domain.TeamRepository {
	return NewTeamRepository(r.db, r.logger)
}

func (r repositories) Tournaments() domain.TournamentRepository {
	return NewTournamentRepository(r.db, r.logger)
}

func (r repositories) MatchStates() domain.MatchStateRepository {
	return NewMatchStateRepository(r.db, r.logger)
}

func (r repositories) Matches() domain.MatchRepository {
	return NewMatchRepository(r.db, r.logger)
}

func (r repositories) Streamers() domain.StreamerRepository {
	return NewStreamerRepository(r.db, r.logger)
}

func (r repositories) Translations() domain.TranslationRepository {
	return NewTranslationRepository(r.db, r.logger)
}

func (r repositories) News() domain.NewsRepository {
	return NewNewsRepository(r.db, r.logger)
}

func (r repositories) NewsSent() domain.NewsSentRepository {
	return NewNewsSentRepository(r.db, r.logger)
}

func (r repositories) Chats() domain.ChatRepository {
	return NewChatRepository(r.db, r.logger)
}

func (r repositories) Users() domain.UserRepository {
	return NewUserRepository(r.db, r.logger)
}

func (r repositories) Subscribers() domain.SubscriberRepository {
	return NewSubscriberRepository(r.db, r.logger)
}

func (r repositories) Timezones() domain.TimezoneRepository {
	return NewTimezoneRepository(r.db)
}

func (r repositories) UserRequests() domain.UserRequestRepository {
	return NewUserRequestRepository(r.db)
}
