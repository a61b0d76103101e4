package domain

import (
	"context"
	"fmt"
	"strings"
	"time"
)

type ScrapedTournament struct {
	Name       string
	URL        string
	ExternalID *int64
}

func (t ScrapedTournament) Resolved() bool {
	return strings.TrimSpace(t.Name) != ""
}

type ScrapedStreamer struct {
	Name     string
	Language string
	URL      string
}

type ScrapedMatch struct {
	Team1Name  string
	Team1URL   string
	Team2Name  string
	Team2URL   string
	Stars      int
	TimeUTC    int64
	URL        string
	State      string
	Tournament ScrapedTournament
	Streamers  []ScrapedStreamer
}

func (m ScrapedMatch) Validate() error {
	switch {
	case strings.TrimSpace(m.URL) == "":
		return fmt.Errorf("%w: match url is empty", ErrValidation)
	case strings.TrimSpace(m.Team1Name) == "" || strings.TrimSpace(m.Team2Name) == "":
		return fmt.Errorf("%w: match %s has an empty team name", ErrValidation, m.URL)
	case m.Stars < 0 || m.Stars > MaxStars:
		return fmt.Errorf("%w: match %s has star rating %d", ErrValidation, m.URL, m.Stars)
	case m.TimeUTC <= 0:
		return fmt.Errorf("%w: match %s has no start time", ErrValidation, m.URL)
	}
	return nil
}

// MatchState defaults to Planned for scraped listings that carry no state.
func (m ScrapedMatch) MatchState() MatchState {
	if strings.TrimSpace(m.State) == "" {
		return MatchStatePlanned
	}
	return ParseMatchState(m.State)
}

func (m ScrapedMatch) Time() time.Time {
	return time.Unix(m.TimeUTC, 0).UTC()
}

type ScrapedNews struct {
	PublishedAtUTC int64
	Title          string
	ShortDesc      string
	URL            string
	CommentCount   int
	CommentAvgHour float64
}

func (n ScrapedNews) Validate() error {
	switch {
	case strings.TrimSpace(n.URL) == "":
		return fmt.Errorf("%w: news url is empty", ErrValidation)
	case strings.TrimSpace(n.Title) == "":
		return fmt.Errorf("%w: news %s has an empty title", ErrValidation, n.URL)
	case n.PublishedAtUTC <= 0:
		return fmt.Errorf("%w: news %s has no publication time", ErrValidation, n.URL)
	case n.CommentCount < 0 || n.CommentAvgHour < 0:
		return fmt.Errorf("%w: news %s has negative comment stats", ErrValidation, n.URL)
	}
	return nil
}

func (n ScrapedNews) NewsItem() NewsItem {
	return NewsItem{
		PublishedAt:    time.Unix(n.PublishedAtUTC, 0).UTC(),
		Title:          n.Title,
		ShortDesc:      n.ShortDesc,
		URL:            n.URL,
		CommentCount:   n.CommentCount,
		CommentAvgHour: n.CommentAvgHour,
	}
}

type MatchSource interface {
	FetchMatches(ctx context.Context) ([]ScrapedMatch, error)
}

type NewsSource interface {
	FetchNews(ctx context.Context, since time.Time) ([]ScrapedNews, error)
}
