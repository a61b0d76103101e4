package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/DiPaolo/hltv-upcoming-events-bot/internal/domain"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// MatchUpdatePolicy decides what happens when a scraped match url is already stored.
type MatchUpdatePolicy string

const (
	// MatchPolicyKeep leaves stored matches untouched; ingestion is additive only.
	MatchPolicyKeep MatchUpdatePolicy = "keep"
	// MatchPolicyRefresh rewrites time, stars, teams, tournament and state when they differ.
	MatchPolicyRefresh MatchUpdatePolicy = "refresh"
)

type MatchSummary struct {
	BatchID string
	Added   []string
	Present []string
	Updated []string
	Failed  []string
}

type MatchIngestor struct {
	store  domain.Store
	cache  *MatchCache
	policy MatchUpdatePolicy
	logger *zap.Logger
}

func NewMatchIngestor(store domain.Store, cache *MatchCache, policy MatchUpdatePolicy, logger *zap.Logger) *MatchIngestor {
	return &MatchIngestor{store: store, cache: cache, policy: policy, logger: logger}
}

// Sync fetches the current listing from source and ingests it as one batch.
func (u *MatchIngestor) Sync(ctx context.Context, source domain.MatchSource) (MatchSummary, error) {
	records, err := source.FetchMatches(ctx)
	if err != nil {
		u.logger.Error("failed to fetch matches", zap.Error(err))
		return MatchSummary{}, err
	}
	return u.Ingest(ctx, records)
}

// Ingest merges records in a single transaction. Records failing validation or
// resolution are skipped and listed in Failed; any other error rolls back the batch.
func (u *MatchIngestor) Ingest(ctx context.Context, records []domain.ScrapedMatch) (MatchSummary, error) {
	summary := MatchSummary{BatchID: uuid.NewString()}
	logger := u.logger.With(zap.String("batch_id", summary.BatchID))
	logger.Info("match batch start", zap.Int("records", len(records)), zap.String("policy", string(u.policy)))

	err := u.store.WithinTx(ctx, func(repos domain.Repositories) error {
		for _, record := range records {
			outcome, err := u.ingestOne(ctx, repos, record, logger.With(zap.String("match_url", record.URL)))
			if err != nil {
				if domain.IsRecordLevel(err) {
					logger.Warn("match record skipped", zap.String("match_url", record.URL), zap.Error(err))
					summary.Failed = append(summary.Failed, record.URL)
					continue
				}
				return err
			}
			switch outcome {
			case outcomeAdded:
				summary.Added = append(summary.Added, record.URL)
			case outcomeUpdated:
				summary.Updated = append(summary.Updated, record.URL)
			default:
				summary.Present = append(summary.Present, record.URL)
			}
		}
		return nil
	})
	if err != nil {
		logger.Error("match batch rolled back", zap.Error(err))
		return MatchSummary{BatchID: summary.BatchID}, err
	}

	if u.cache != nil {
		u.cache.Invalidate()
	}
	logger.Info(
		"match batch ingested",
		zap.Int("added_count", len(summary.Added)),
		zap.Int("present_count", len(summary.Present)),
		zap.Int("updated_count", len(summary.Updated)),
		zap.Int("failed_count", len(summary.Failed)),
		zap.Strings("added", summary.Added),
		zap.Strings("failed", summary.Failed),
	)
	return summary, nil
}

type ingestOutcome int

const (
	outcomeAdded ingestOutcome = iota
	outcomePresent
	outcomeUpdated
	outcomeUnchanged
)

func (u *MatchIngestor) ingestOne(ctx context.Context, repos domain.Repositories, record domain.ScrapedMatch, logger *zap.Logger) (ingestOutcome, error) {
	if err := record.Validate(); err != nil {
		return 0, err
	}

	team1, _, err := repos.Teams().ResolveOrCreate(ctx, domain.Team{Name: strings.TrimSpace(record.Team1Name), URL: record.Team1URL})
	if err != nil {
		return 0, fmt.Errorf("team1 %q: %w", record.Team1Name, err)
	}
	team2, _, err := repos.Teams().ResolveOrCreate(ctx, domain.Team{Name: strings.TrimSpace(record.Team2Name), URL: record.Team2URL})
	if err != nil {
		return 0, fmt.Errorf("team2 %q: %w", record.Team2Name, err)
	}

	stateID, err := repos.MatchStates().ResolveID(ctx, record.MatchState())
	if err != nil {
		return 0, fmt.Errorf("match state %q: %w", record.State, err)
	}

	tournament, err := u.resolveTournament(ctx, repos, record.Tournament, logger)
	if err != nil {
		return 0, err
	}

	candidate := domain.MatchRow{
		URL:          record.URL,
		TimeUTC:      record.Time(),
		Stars:        record.Stars,
		Team1ID:      team1.ID,
		Team2ID:      team2.ID,
		TournamentID: tournament.ID,
		StateID:      stateID,
	}
	stored, created, err := repos.Matches().ResolveOrCreate(ctx, candidate)
	if err != nil {
		return 0, fmt.Errorf("match: %w", err)
	}

	outcome := outcomeAdded
	if !created {
		outcome = outcomePresent
		if u.policy == MatchPolicyRefresh {
			candidate.ID = stored.ID
			if tournament.IsUnknown() {
				// a failed tournament lookup never demotes a known tournament
				candidate.TournamentID = stored.TournamentID
			}
			if matchRowChanged(stored, candidate) {
				if err := repos.Matches().Update(ctx, candidate); err != nil {
					return 0, fmt.Errorf("update match: %w", err)
				}
				logger.Info("match refreshed", zap.Uint("old_state_id", stored.StateID), zap.Uint("new_state_id", stateID), zap.Time("old_time", stored.TimeUTC), zap.Time("new_time", candidate.TimeUTC))
				outcome = outcomeUpdated
			}
		}
	}

	for _, scraped := range record.Streamers {
		if err := u.linkStreamer(ctx, repos, stored.ID, scraped, logger); err != nil {
			return 0, err
		}
	}
	return outcome, nil
}

// resolveTournament falls back to the Unknown sentinel when the scraped tournament is
// missing or cannot be stored.
func (u *MatchIngestor) resolveTournament(ctx context.Context, repos domain.Repositories, scraped domain.ScrapedTournament, logger *zap.Logger) (domain.Tournament, error) {
	if scraped.Resolved() {
		tournament, _, err := repos.Tournaments().ResolveOrCreate(ctx, domain.Tournament{
			Name:       strings.TrimSpace(scraped.Name),
			URL:        scraped.URL,
			ExternalID: scraped.ExternalID,
		})
		if err == nil {
			return tournament, nil
		}
		if !domain.IsRecordLevel(err) {
			return domain.Tournament{}, err
		}
		logger.Warn("tournament unresolved, falling back to Unknown", zap.String("tournament", scraped.Name), zap.Error(err))
	}

	tournament, err := repos.Tournaments().Unknown(ctx)
	if err != nil {
		return domain.Tournament{}, fmt.Errorf("unknown tournament: %w", err)
	}
	return tournament, nil
}

// linkStreamer only returns errors that must abort the batch; a streamer that cannot
// be stored is logged and skipped.
func (u *MatchIngestor) linkStreamer(ctx context.Context, repos domain.Repositories, matchID uint, scraped domain.ScrapedStreamer, logger *zap.Logger) error {
	if strings.TrimSpace(scraped.URL) == "" {
		logger.Warn("streamer without url skipped", zap.String("streamer", scraped.Name))
		return nil
	}
	streamer, _, err := repos.Streamers().ResolveOrCreate(ctx, domain.Streamer{Name: scraped.Name, Language: scraped.Language, URL: scraped.URL})
	if err != nil {
		if domain.IsRecordLevel(err) {
			logger.Warn("streamer skipped", zap.String("streamer_url", scraped.URL), zap.Error(err))
			return nil
		}
		return err
	}
	if _, _, err := repos.Translations().ResolveOrCreate(ctx, domain.Translation{MatchID: matchID, StreamerID: streamer.ID}); err != nil {
		if domain.IsRecordLevel(err) {
			logger.Warn("translation skipped", zap.String("streamer_url", scraped.URL), zap.Error(err))
			return nil
		}
		return err
	}
	return nil
}

func matchRowChanged(stored, candidate domain.MatchRow) bool {
	return !stored.TimeUTC.Equal(candidate.TimeUTC) ||
		stored.Stars != candidate.Stars ||
		stored.Team1ID != candidate.Team1ID ||
		stored.Team2ID != candidate.Team2ID ||
		stored.TournamentID != candidate.TournamentID ||
		stored.StateID != candidate.StateID
}
