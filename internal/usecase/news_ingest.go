package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/DiPaolo/hltv-upcoming-events-bot/internal/domain"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type NewsSummary struct {
	BatchID   string
	Added     []string
	Updated   []string
	Unchanged []string
	Failed    []string
}

type NewsIngestor struct {
	store  domain.Store
	logger *zap.Logger
}

func NewNewsIngestor(store domain.Store, logger *zap.Logger) *NewsIngestor {
	return &NewsIngestor{store: store, logger: logger}
}

// Sync fetches news published since the given time and ingests it as one batch.
func (u *NewsIngestor) Sync(ctx context.Context, source domain.NewsSource, since time.Time) (NewsSummary, error) {
	records, err := source.FetchNews(ctx, since)
	if err != nil {
		u.logger.Error("failed to fetch news", zap.Time("since", since), zap.Error(err))
		return NewsSummary{}, err
	}
	return u.Ingest(ctx, records)
}

// Ingest creates unseen news items and field-diffs known ones. Every changed field is
// logged with its before and after values; the batch summary is logged once.
func (u *NewsIngestor) Ingest(ctx context.Context, records []domain.ScrapedNews) (NewsSummary, error) {
	summary := NewsSummary{BatchID: uuid.NewString()}
	logger := u.logger.With(zap.String("batch_id", summary.BatchID))
	logger.Info("news batch start", zap.Int("records", len(records)))

	err := u.store.WithinTx(ctx, func(repos domain.Repositories) error {
		for _, record := range records {
			outcome, err := u.ingestOne(ctx, repos, record, logger)
			if err != nil {
				if domain.IsRecordLevel(err) {
					logger.Warn("news record skipped", zap.String("url", record.URL), zap.Error(err))
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
				summary.Unchanged = append(summary.Unchanged, record.URL)
			}
		}
		return nil
	})
	if err != nil {
		logger.Error("news batch rolled back", zap.Error(err))
		return NewsSummary{BatchID: summary.BatchID}, err
	}

	fields := []zap.Field{
		zap.Int("added_count", len(summary.Added)),
		zap.Int("updated_count", len(summary.Updated)),
		zap.Int("unchanged_count", len(summary.Unchanged)),
		zap.Int("failed_count", len(summary.Failed)),
		zap.Strings("added", summary.Added),
		zap.Strings("updated", summary.Updated),
		zap.Strings("failed", summary.Failed),
	}
	if len(summary.Added) == 0 && len(summary.Updated) == 0 {
		logger.Info("news batch: no changes", fields...)
	} else {
		logger.Info("news batch ingested", fields...)
	}
	return summary, nil
}

func (u *NewsIngestor) ingestOne(ctx context.Context, repos domain.Repositories, record domain.ScrapedNews, logger *zap.Logger) (ingestOutcome, error) {
	if err := record.Validate(); err != nil {
		return 0, err
	}

	scraped := record.NewsItem()
	stored, created, err := repos.News().ResolveOrCreate(ctx, scraped)
	if err != nil {
		return 0, fmt.Errorf("news item: %w", err)
	}
	if created {
		return outcomeAdded, nil
	}

	changes := domain.DiffNewsItems(stored, scraped)
	if len(changes) == 0 {
		return outcomeUnchanged, nil
	}
	if err := repos.News().ApplyChanges(ctx, stored.ID, changes); err != nil {
		return 0, fmt.Errorf("update news item: %w", err)
	}
	for _, change := range changes {
		logger.Info(
			"news item field changed",
			zap.String("url", stored.URL),
			zap.String("field", change.Field),
			zap.Any("before", change.Before),
			zap.Any("after", change.After),
		)
	}
	return outcomeUpdated, nil
}
