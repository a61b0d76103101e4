package domain

import (
	"context"
	"errors"
	"time"
)

var (
	ErrNotFound        = errors.New("not found")
	ErrResolution      = errors.New("resolution failure")
	ErrValidation      = errors.New("validation failure")
	ErrInvalidTimezone = errors.New("timezone offset out of range")
)

// IsRecordLevel reports whether err only affects the record being processed.
func IsRecordLevel(err error) bool {
	return errors.Is(err, ErrResolution) || errors.Is(err, ErrValidation)
}

// Resolver finds a row by its natural key or creates it. The stored row is returned
// unchanged when it already exists; created reports whether this call inserted it.
type Resolver[T any] interface {
	ResolveOrCreate(ctx context.Context, candidate T) (stored T, created bool, err error)
}

type TeamRepository interface {
	Resolver[Team]
	GetByName(ctx context.Context, name string) (*Team, error)
}

type TournamentRepository interface {
	Resolver[Tournament]
	GetByName(ctx context.Context, name string) (*Tournament, error)
	Unknown(ctx context.Context) (Tournament, error)
}

type MatchStateRepository interface {
	ResolveID(ctx context.Context, state MatchState) (uint, error)
}

type MatchRepository interface {
	Resolver[MatchRow]
	GetByURL(ctx context.Context, url string) (*MatchRow, error)
	Update(ctx context.Context, row MatchRow) error
	ListInWindow(ctx context.Context, start, end time.Time) ([]Match, error)
}

type StreamerRepository interface {
	Resolver[Streamer]
}

type TranslationRepository interface {
	Resolver[Translation]
	ListByMatch(ctx context.Context, matchID uint) ([]Translation, error)
}

type NewsRepository interface {
	Resolver[NewsItem]
	GetByURL(ctx context.Context, url string) (*NewsItem, error)
	ApplyChanges(ctx context.Context, id uint, changes []FieldChange) error
	RecentUnsentForChat(ctx context.Context, chatID uint, since time.Time, maxCount int) ([]NewsItem, error)
}

type NewsSentRepository interface {
	Resolver[NewsItemSent]
	CountByChat(ctx context.Context, chatID uint) (int64, error)
}

type ChatRepository interface {
	Resolver[Chat]
	GetByTelegramID(ctx context.Context, telegramID int64) (*Chat, error)
}

type UserRepository interface {
	Resolver[User]
	GetByTelegramID(ctx context.Context, telegramUserID int64) (*User, error)
	List(ctx context.Context) ([]User, error)
}

type SubscriberRepository interface {
	Resolver[Subscriber]
	Remove(ctx context.Context, chatID uint) (bool, error)
	ListChats(ctx context.Context) ([]Chat, error)
}

type TimezoneRepository interface {
	Add(ctx context.Context, tz *UserTimezone) error
	Latest(ctx context.Context, userID uint) (*UserTimezone, error)
}

type UserRequestRepository interface {
	Add(ctx context.Context, request *UserRequest) error
	Recent(ctx context.Context, limit int) ([]UserRequest, error)
}

// Repositories is one transaction scope. Every repository it hands out shares it.
type Repositories interface {
	Teams() TeamRepository
	Tournaments() TournamentRepository
	MatchStates() MatchStateRepository
	Matches() MatchRepository
	Streamers() StreamerRepository
	Translations() TranslationRepository
	News() NewsRepository
	NewsSent() NewsSentRepository
	Chats() ChatRepository
	Users() UserRepository
	Subscribers() SubscriberRepository
	Timezones() TimezoneRepository
	UserRequests() UserRequestRepository
}

// Store hands out transaction scopes. WithinTx commits when fn returns nil and rolls
// back otherwise; Repositories runs every statement in its own implicit transaction.
type Store interface {
	WithinTx(ctx context.Context, fn func(repos Repositories) error) error
	Repositories() Repositories
}
