package domain

import (
	"strings"
	"time"
)

type MatchState int

const (
	MatchStateUnknown MatchState = iota
	MatchStatePlanned
	MatchStateDelayed
	MatchStateRunning
	MatchStateFinished
)

var matchStateNames = map[MatchState]string{
	MatchStateUnknown:  "Unknown",
	MatchStatePlanned:  "Planned",
	MatchStateDelayed:  "Delayed",
	MatchStateRunning:  "Running",
	MatchStateFinished: "Finished",
}

func (s MatchState) String() string {
	if name, ok := matchStateNames[s]; ok {
		return name
	}
	return matchStateNames[MatchStateUnknown]
}

// ParseMatchState is case-insensitive; unrecognized names map to MatchStateUnknown.
func ParseMatchState(name string) MatchState {
	name = strings.TrimSpace(name)
	for state, stateName := range matchStateNames {
		if strings.EqualFold(stateName, name) {
			return state
		}
	}
	return MatchStateUnknown
}

const MaxStars = 5

type Team struct {
	ID   uint
	Name string
	URL  string
}

const UnknownTournamentName = "Unknown"

type Tournament struct {
	ID         uint
	Name       string
	URL        string
	ExternalID *int64
}

func (t Tournament) IsUnknown() bool {
	return t.Name == UnknownTournamentName
}

type Streamer struct {
	ID       uint
	Name     string
	Language string
	URL      string
}

type Translation struct {
	ID         uint
	MatchID    uint
	StreamerID uint
}

// MatchRow is the stored shape of a match: references only.
type MatchRow struct {
	ID           uint
	URL          string
	TimeUTC      time.Time
	Stars        int
	Team1ID      uint
	Team2ID      uint
	TournamentID uint
	StateID      uint
}

// Match is a fully resolved match as handed to the delivery side.
type Match struct {
	ID         uint
	URL        string
	TimeUTC    time.Time
	Stars      int
	Team1      Team
	Team2      Team
	Tournament Tournament
	State      MatchState
	Streamers  []Streamer
}

func (m Match) StreamersInLanguage(language string) []Streamer {
	var out []Streamer
	for _, streamer := range m.Streamers {
		if strings.EqualFold(streamer.Language, language) {
			out = append(out, streamer)
		}
	}
	return out
}
