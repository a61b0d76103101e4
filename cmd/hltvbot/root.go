package main

import (
	"context"
	"fmt"

	"github.com/DiPaolo/hltv-upcoming-events-bot/internal/app"
	"github.com/DiPaolo/hltv-upcoming-events-bot/internal/config"
	"github.com/spf13/cobra"
)

type appFactory func(ctx context.Context) (*app.App, error)

func defaultApp(ctx context.Context) (*app.App, error) {
	cfg, err := config.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return app.New(ctx, cfg)
}

func root() *cobra.Command {
	return newRootCmd(defaultApp)
}

func newRootCmd(newApp appFactory) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "hltvbot",
		Short:         "Upcoming CS matches and news in Telegram",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.AddCommand(botCmd(newApp), ingestCmd(newApp), adminCmd(newApp))
	return rootCmd
}

func botCmd(newApp appFactory) *cobra.Command {
	return &cobra.Command{
		Use:   "bot",
		Short: "Run the Telegram bot with scheduled ingestion and digests",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			application, err := newApp(cmd.Context())
			if err != nil {
				return err
			}
			defer application.Shutdown()
			return application.Run(cmd.Context())
		},
	}
}

func ingestCmd(newApp appFactory) *cobra.Command {
	var onlyMatches, onlyNews bool
	cmd := &cobra.Command{
		Use:   "ingest",
		Short: "Scrape matches and news once and store them",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			application, err := newApp(cmd.Context())
			if err != nil {
				return err
			}
			defer application.Shutdown()

			switch {
			case onlyMatches && !onlyNews:
				return application.IngestMatches(cmd.Context())
			case onlyNews && !onlyMatches:
				return application.IngestNews(cmd.Context())
			default:
				return application.IngestOnce(cmd.Context())
			}
		},
	}
	cmd.Flags().BoolVar(&onlyMatches, "matches", false, "ingest matches only")
	cmd.Flags().BoolVar(&onlyNews, "news", false, "ingest news only")
	return cmd
}
