package scrape

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/DiPaolo/hltv-upcoming-events-bot/internal/domain"
	"github.com/shopspring/decimal"
)

// unix timestamps above this are taken as milliseconds
const millisThreshold = 100_000_000_000

type feedMatch struct {
	Team1Name  string          `json:"team1_name"`
	Team1URL   string          `json:"team1_url"`
	Team2Name  string          `json:"team2_name"`
	Team2URL   string          `json:"team2_url"`
	StarRating FlexInt         `json:"star_rating"`
	TimeUTC    FlexInt         `json:"time_utc"`
	MatchURL   string          `json:"match_url"`
	State      string          `json:"state"`
	Tournament *feedTournament `json:"tournament"`
	Streamers  []feedStreamer  `json:"streamers"`
}

type feedTournament struct {
	Name       string  `json:"name"`
	URL        string  `json:"url"`
	ExternalID FlexInt `json:"external_id"`
}

type feedStreamer struct {
	Name     string `json:"name"`
	Language string `json:"language"`
	URL      string `json:"url"`
}

type feedEnvelope struct {
	Matches []feedMatch `json:"matches"`
}

func (m feedMatch) toScraped() domain.ScrapedMatch {
	timeUTC := m.TimeUTC.Int64()
	if timeUTC > millisThreshold {
		timeUTC /= 1000
	}
	out := domain.ScrapedMatch{
		Team1Name: strings.TrimSpace(m.Team1Name),
		Team1URL:  strings.TrimSpace(m.Team1URL),
		Team2Name: strings.TrimSpace(m.Team2Name),
		Team2URL:  strings.TrimSpace(m.Team2URL),
		Stars:     int(m.StarRating.Int64()),
		TimeUTC:   timeUTC,
		URL:       strings.TrimSpace(m.MatchURL),
		State:     m.State,
	}
	if m.Tournament != nil {
		out.Tournament = domain.ScrapedTournament{
			Name: strings.TrimSpace(m.Tournament.Name),
			URL:  strings.TrimSpace(m.Tournament.URL),
		}
		if m.Tournament.ExternalID.Valid {
			id := m.Tournament.ExternalID.Int64()
			out.Tournament.ExternalID = &id
		}
	}
	for _, streamer := range m.Streamers {
		out.Streamers = append(out.Streamers, domain.ScrapedStreamer{
			Name:     strings.TrimSpace(streamer.Name),
			Language: strings.TrimSpace(streamer.Language),
			URL:      strings.TrimSpace(streamer.URL),
		})
	}
	return out
}

// decodeFeed accepts either a bare array of matches or an object with a matches key.
func decodeFeed(data []byte) ([]feedMatch, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, fmt.Errorf("empty match feed")
	}
	if trimmed[0] == '[' {
		var matches []feedMatch
		if err := json.Unmarshal(trimmed, &matches); err != nil {
			return nil, err
		}
		return matches, nil
	}
	var envelope feedEnvelope
	if err := json.Unmarshal(trimmed, &envelope); err != nil {
		return nil, err
	}
	return envelope.Matches, nil
}

// FlexInt decodes a JSON number or a numeric string. Fractions are truncated.
type FlexInt struct {
	Decimal decimal.Decimal
	Valid   bool
}

func (n FlexInt) Int64() int64 {
	if !n.Valid {
		return 0
	}
	return n.Decimal.IntPart()
}

func (n *FlexInt) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		n.Valid = false
		return nil
	}
	trimmed := strings.TrimSpace(string(data))
	if len(trimmed) >= 2 && trimmed[0] == '"' && trimmed[len(trimmed)-1] == '"' {
		trimmed = strings.TrimSpace(trimmed[1 : len(trimmed)-1])
	}
	if trimmed == "" {
		n.Valid = false
		return nil
	}
	dec, err := decimal.NewFromString(trimmed)
	if err != nil {
		n.Valid = false
		return fmt.Errorf("not a number: %s", trimmed)
	}
	n.Decimal = dec
	n.Valid = true
	return nil
}
