package usecase

import (
	"context"
	"sync"
	"time"

	"github.com/DiPaolo/hltv-upcoming-events-bot/internal/domain"
	"go.uber.org/zap"
)

// MatchCache holds the last upcoming-matches query result for a limited time.
type MatchCache struct {
	ttl time.Duration
	now func() time.Time

	mu       sync.Mutex
	matches  []domain.Match
	loadedAt time.Time
	valid    bool
}

func NewMatchCache(ttl time.Duration, now func() time.Time) *MatchCache {
	if now == nil {
		now = time.Now
	}
	return &MatchCache{ttl: ttl, now: now}
}

// Get returns cached matches while fresh, otherwise calls load and caches its result.
// Errors are not cached.
func (c *MatchCache) Get(ctx context.Context, load func(ctx context.Context) ([]domain.Match, error)) ([]domain.Match, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.valid && c.now().Sub(c.loadedAt) < c.ttl {
		return c.matches, true, nil
	}
	matches, err := load(ctx)
	if err != nil {
		return nil, false, err
	}
	c.matches = matches
	c.loadedAt = c.now()
	c.valid = true
	return matches, false, nil
}

func (c *MatchCache) Invalidate() {
	c.mu.Lock()
	c.valid = false
	c.matches = nil
	c.mu.Unlock()
}

type MatchUsecase struct {
	notifications *NotificationUsecase
	cache         *MatchCache
	horizon       time.Duration
	now           func() time.Time
	logger        *zap.Logger
}

func NewMatchUsecase(notifications *NotificationUsecase, cache *MatchCache, horizon time.Duration, logger *zap.Logger) *MatchUsecase {
	return &MatchUsecase{notifications: notifications, cache: cache, horizon: horizon, now: time.Now, logger: logger}
}

// Upcoming returns matches starting within the horizon from now. Cached results are
// trimmed of matches that have started since they were loaded.
func (u *MatchUsecase) Upcoming(ctx context.Context) ([]domain.Match, error) {
	now := u.now().UTC()
	matches, cached, err := u.cache.Get(ctx, func(ctx context.Context) ([]domain.Match, error) {
		return u.notifications.UpcomingMatchesForWindow(ctx, now, now.Add(u.horizon))
	})
	if err != nil {
		return nil, err
	}

	upcoming := make([]domain.Match, 0, len(matches))
	for _, match := range matches {
		if match.TimeUTC.After(now) {
			upcoming = append(upcoming, match)
		}
	}
	u.logger.Debug("upcoming matches", zap.Bool("cached", cached), zap.Int("count", len(upcoming)))
	return upcoming, nil
}
