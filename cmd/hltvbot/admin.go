package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

func adminCmd(newApp appFactory) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "admin",
		Short: "Inspect bot users and requests",
	}
	cmd.AddCommand(usersCmd(newApp), requestsCmd(newApp))
	return cmd
}

func usersCmd(newApp appFactory) *cobra.Command {
	return &cobra.Command{
		Use:   "users",
		Short: "List registered users",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			application, err := newApp(cmd.Context())
			if err != nil {
				return err
			}
			defer application.Shutdown()

			users, err := application.Users.ListUsers(cmd.Context())
			if err != nil {
				return err
			}
			out := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(out, "ID\tTELEGRAM ID\tUSERNAME\tNAME\tLANG\tREGISTERED")
			for _, user := range users {
				fmt.Fprintf(out, "%d\t%d\t%s\t%s %s\t%s\t%s\n",
					user.ID, user.TelegramUserID, user.Username, user.FirstName, user.LastName, user.LanguageCode, humanize.Time(user.CreatedAt))
			}
			fmt.Fprintf(out, "\n%s users\n", humanize.Comma(int64(len(users))))
			return out.Flush()
		},
	}
}

func requestsCmd(newApp appFactory) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "requests",
		Short: "Show the latest user requests",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if limit <= 0 {
				return fmt.Errorf("-n must be positive, got %d", limit)
			}
			application, err := newApp(cmd.Context())
			if err != nil {
				return err
			}
			defer application.Shutdown()

			requests, err := application.Users.RecentRequests(cmd.Context(), limit)
			if err != nil {
				return err
			}
			out := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(out, "ID\tUSER\tCHAT\tRECEIVED\tTEXT")
			for _, request := range requests {
				fmt.Fprintf(out, "%d\t%d\t%d\t%s\t%s\n",
					request.ID, request.UserID, request.ChatID, request.ReceivedAt.UTC().Format("2006-01-02 15:04:05"), request.Text)
			}
			return out.Flush()
		},
	}
	cmd.Flags().IntVarP(&limit, "number", "n", 20, "how many requests to show")
	return cmd
}
