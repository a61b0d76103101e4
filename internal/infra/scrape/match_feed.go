package scrape

import (
	"context"
	"fmt"

	"github.com/DiPaolo/hltv-upcoming-events-bot/internal/domain"
	"go.uber.org/zap"
)

// MatchFeed reads upcoming matches from a JSON feed.
type MatchFeed struct {
	client *Client
	url    string
	logger *zap.Logger
}

func NewMatchFeed(client *Client, url string, logger *zap.Logger) *MatchFeed {
	return &MatchFeed{client: client, url: url, logger: logger}
}

func (f *MatchFeed) FetchMatches(ctx context.Context) ([]domain.ScrapedMatch, error) {
	if f.url == "" {
		return nil, fmt.Errorf("match feed url is not configured")
	}
	body, err := f.client.Get(ctx, f.url)
	if err != nil {
		return nil, err
	}
	matches, err := decodeFeed(body)
	if err != nil {
		f.logger.Error("failed to decode match feed", zap.String("url", f.url), zap.Error(err))
		return nil, fmt.Errorf("decode match feed: %w", err)
	}

	out := make([]domain.ScrapedMatch, 0, len(matches))
	for _, match := range matches {
		out = append(out, match.toScraped())
	}
	f.logger.Info("match feed parsed", zap.String("url", f.url), zap.Int("count", len(out)))
	return out, nil
}
