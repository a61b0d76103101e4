package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/DiPaolo/hltv-upcoming-events-bot/internal/config"
	"github.com/DiPaolo/hltv-upcoming-events-bot/internal/delivery/telegram"
	"github.com/DiPaolo/hltv-upcoming-events-bot/internal/domain"
	"github.com/DiPaolo/hltv-upcoming-events-bot/internal/infra/db"
	"github.com/DiPaolo/hltv-upcoming-events-bot/internal/infra/log"
	"github.com/DiPaolo/hltv-upcoming-events-bot/internal/infra/scrape"
	"github.com/DiPaolo/hltv-upcoming-events-bot/internal/usecase"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

var ErrNoBotToken = errors.New("TELEGRAM_BOT_TOKEN is not set")

type App struct {
	cfg    config.Config
	logger *zap.Logger
	dbConn *gorm.DB

	Users         *usecase.UserUsecase
	Notifications *usecase.NotificationUsecase
	Matches       *usecase.MatchUsecase
	MatchIngestor *usecase.MatchIngestor
	NewsIngestor  *usecase.NewsIngestor

	matchSource domain.MatchSource
	newsSource  domain.NewsSource
	now         func() time.Time
}

func New(ctx context.Context, cfg config.Config) (*App, error) {
	logger, err := log.NewLogger(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return nil, err
	}
	return NewWithLogger(ctx, cfg, logger)
}

func NewWithLogger(_ context.Context, cfg config.Config, logger *zap.Logger) (*App, error) {
	dbConn, err := db.Open(cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	store := db.NewStore(dbConn, logger)

	scrapeClient := scrape.NewClient(scrape.ClientConfig{
		Timeout:   cfg.ScrapeTimeout,
		UserAgent: cfg.ScrapeUserAgent,
		Retries:   cfg.ScrapeRetries,
	}, logger)

	cache := usecase.NewMatchCache(cfg.MatchCacheTTL, nil)
	notifications := usecase.NewNotificationUsecase(store, logger)

	return &App{
		cfg:           cfg,
		logger:        logger,
		dbConn:        dbConn,
		Users:         usecase.NewUserUsecase(store, logger),
		Notifications: notifications,
		Matches:       usecase.NewMatchUsecase(notifications, cache, cfg.MatchHorizon, logger),
		MatchIngestor: usecase.NewMatchIngestor(store, cache, usecase.MatchUpdatePolicy(cfg.MatchUpdatePolicy), logger),
		NewsIngestor:  usecase.NewNewsIngestor(store, logger),
		matchSource:   scrape.NewMatchFeed(scrapeClient, cfg.MatchFeedURL, logger),
		newsSource:    scrape.NewNewsPage(scrapeClient, cfg.NewsURL, logger),
		now:           time.Now,
	}, nil
}

func (a *App) Logger() *zap.Logger {
	return a.logger
}

// IngestMatches is a no-op when no match feed is configured.
func (a *App) IngestMatches(ctx context.Context) error {
	if a.cfg.MatchFeedURL == "" {
		a.logger.Warn("match ingestion skipped: MATCH_FEED_URL is not set")
		return nil
	}
	_, err := a.MatchIngestor.Sync(ctx, a.matchSource)
	return err
}

// IngestNews covers the longest window any news reader looks at.
func (a *App) IngestNews(ctx context.Context) error {
	since := a.now().UTC().Add(-max(a.cfg.NewsLookback, a.cfg.NewsCommandLookback))
	_, err := a.NewsIngestor.Sync(ctx, a.newsSource, since)
	return err
}

// IngestOnce runs both ingestions and reports every failure.
func (a *App) IngestOnce(ctx context.Context) error {
	return errors.Join(a.IngestMatches(ctx), a.IngestNews(ctx))
}

// Run serves the bot and the scheduled jobs until ctx is cancelled.
func (a *App) Run(ctx context.Context) error {
	if a.cfg.TelegramBotToken == "" {
		return ErrNoBotToken
	}
	a.logger.Info("hltvbot service starting", zap.String("version", a.cfg.BotVersion))

	api, err := telegram.NewAPI(a.cfg.TelegramBotToken)
	if err != nil {
		return fmt.Errorf("telegram: %w", err)
	}
	sender := telegram.NewSender(api, a.logger)
	renderer := telegram.NewRenderer(a.cfg.StreamLanguage)
	handlers := telegram.NewHandlers(a.Users, a.Notifications, a.Matches, sender, renderer, telegram.HandlersConfig{
		NewsLookback: a.cfg.NewsCommandLookback,
		NewsMaxItems: a.cfg.NewsMaxItems,
		Version:      a.cfg.BotVersion,
	}, a.logger)
	bot := telegram.NewBot(api, handlers, a.cfg.TelegramPollTimeout, a.logger)
	broadcaster := usecase.NewBroadcaster(a.Notifications, a.Matches, sender, renderer, a.cfg.NewsLookback, a.cfg.NewsMaxItems, a.logger)

	if err := a.IngestOnce(ctx); err != nil {
		a.logger.Warn("initial ingestion failed", zap.Error(err))
	}

	group, ctx := errgroup.WithContext(ctx)
	scheduler := NewScheduler(a.cfg.JobTimeout, a.logger)
	if err := a.registerJobs(ctx, scheduler, broadcaster); err != nil {
		return err
	}
	group.Go(func() error {
		return scheduler.Run(ctx)
	})
	group.Go(func() error {
		return bot.Start(ctx)
	})
	a.logger.Info("hltvbot service started")
	return group.Wait()
}

func (a *App) registerJobs(ctx context.Context, scheduler *Scheduler, broadcaster *usecase.Broadcaster) error {
	jobs := []Job{
		{Name: "ingest_matches", Spec: a.cfg.MatchIngestCron, Run: a.IngestMatches},
		{Name: "ingest_news", Spec: a.cfg.NewsIngestCron, Run: a.IngestNews},
		{Name: "notify_matches", Spec: a.cfg.MatchNotifyCron, Run: broadcaster.NotifyMatches},
		{Name: "notify_news", Spec: a.cfg.NewsNotifyCron, Run: broadcaster.NotifyNews},
	}
	for _, job := range jobs {
		if err := scheduler.Add(ctx, job); err != nil {
			return err
		}
	}
	return nil
}

func (a *App) Shutdown() {
	a.logger.Info("hltvbot service shutting down")
	if err := db.Close(a.dbConn); err != nil {
		a.logger.Warn("failed to close database", zap.Error(err))
	}
	_ = a.logger.Sync()
}
