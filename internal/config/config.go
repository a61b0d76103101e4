package config

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/sethvargo/go-envconfig"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

type Config struct {
	TelegramBotToken    string `env:"TELEGRAM_BOT_TOKEN"`
	TelegramPollTimeout int    `env:"TELEGRAM_POLL_TIMEOUT,default=60"`
	BotVersion          string `env:"BOT_VERSION,default=dev"`

	DBDriver          string        `env:"DB_DRIVER,default=postgres"`
	DBHost            string        `env:"DB_HOST,default=localhost"`
	DBPort            int           `env:"DB_PORT,default=5432"`
	DBUser            string        `env:"DB_USER,default=postgres"`
	DBPassword        string        `env:"DB_PASSWORD"`
	DBName            string        `env:"DB_NAME,default=hltv_events"`
	DBSSLMode         string        `env:"DB_SSLMODE,default=disable"`
	DBSQLitePath      string        `env:"DB_SQLITE_PATH,default=hltv_events.db"`
	DBMaxIdleConns    int           `env:"DB_MAX_IDLE_CONNS,default=10"`
	DBMaxOpenConns    int           `env:"DB_MAX_OPEN_CONNS,default=25"`
	DBConnMaxLifetime time.Duration `env:"DB_CONN_MAX_LIFETIME,default=30m"`

	MatchFeedURL    string        `env:"MATCH_FEED_URL"`
	NewsURL         string        `env:"NEWS_URL,default=https://www.cybersport.ru/tags/cs-go?sort=internalRating"`
	ScrapeTimeout   time.Duration `env:"SCRAPE_TIMEOUT,default=20s"`
	ScrapeUserAgent string        `env:"SCRAPE_USER_AGENT,default=Mozilla/5.0 (compatible; hltvbot/1.0)"`
	ScrapeRetries   int           `env:"SCRAPE_RETRIES,default=3"`

	MatchIngestCron string        `env:"MATCH_INGEST_CRON,default=0 */3 * * *"`
	NewsIngestCron  string        `env:"NEWS_INGEST_CRON,default=0 */4 * * *"`
	MatchNotifyCron string        `env:"MATCH_NOTIFY_CRON,default=10 9 * * *"`
	NewsNotifyCron  string        `env:"NEWS_NOTIFY_CRON,default=5 6,18 * * *"`
	JobTimeout      time.Duration `env:"JOB_TIMEOUT,default=10m"`

	NewsLookback        time.Duration `env:"NEWS_LOOKBACK,default=12h"`
	NewsCommandLookback time.Duration `env:"NEWS_COMMAND_LOOKBACK,default=24h"`
	NewsMaxItems        int           `env:"NEWS_MAX_ITEMS,default=3"`
	MatchHorizon        time.Duration `env:"MATCH_HORIZON,default=24h"`
	MatchCacheTTL       time.Duration `env:"MATCH_CACHE_TTL,default=10m"`
	MatchUpdatePolicy   string        `env:"MATCH_UPDATE_POLICY,default=keep"`
	StreamLanguage      string        `env:"STREAM_LANGUAGE,default=Russia"`

	LogLevel  string `env:"LOG_LEVEL,default=info"`
	LogFormat string `env:"LOG_FORMAT,default=json"`
}

func Load(ctx context.Context) (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}
	return LoadWith(ctx, envconfig.OsLookuper())
}

func LoadWith(ctx context.Context, lookuper envconfig.Lookuper) (Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &cfg, Lookuper: lookuper}); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	switch c.DBDriver {
	case DriverPostgres, DriverSQLite:
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.DBDriver)
	}
	switch c.MatchUpdatePolicy {
	case "keep", "refresh":
	default:
		return fmt.Errorf("unsupported MATCH_UPDATE_POLICY %q", c.MatchUpdatePolicy)
	}
	if c.NewsMaxItems <= 0 {
		return errors.New("NEWS_MAX_ITEMS must be positive")
	}
	return nil
}
