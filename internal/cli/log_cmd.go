package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/alexanderramin/tempo/internal/cli/formatter"
	"github.com/alexanderramin/tempo/internal/domain"
)

func newLogCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "log",
		Short: "Manage work log entries",
	}

	cmd.AddCommand(
		newLogAddCmd(app),
		newLogListCmd(app),
		newLogRemoveCmd(app),
	)

	return cmd
}

func newLogAddCmd(app *App) *cobra.Command {
	var itemRef, note string
	var minutes int

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Log work done outside a timer session",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			w, err := resolveItem(ctx, app, itemRef)
			if err != nil {
				return err
			}

			now := time.Now().UTC()
			entry := &domain.WorkLogEntry{
				ItemID:    w.ID,
				StartedAt: now.Add(-time.Duration(minutes) * time.Minute),
				EndedAt:   now,
				Minutes:   minutes,
				Note:      note,
			}
			if err := app.Logs.LogWork(ctx, entry); err != nil {
				return err
			}
			fmt.Printf("Logged %s against %s\n", formatter.FormatMinutes(minutes), formatter.TruncID(w.ID))
			return nil
		},
	}

	cmd.Flags().StringVar(&itemRef, "item", "", "Work item ID or title")
	cmd.Flags().IntVar(&minutes, "minutes", 0, "Minutes worked")
	cmd.Flags().StringVar(&note, "note", "", "What got done")
	_ = cmd.MarkFlagRequired("item")
	_ = cmd.MarkFlagRequired("minutes")

	return cmd
}

func newLogListCmd(app *App) *cobra.Command {
	var itemRef string
	var days int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List work log entries",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			var entries []*domain.WorkLogEntry
			var err error
			if itemRef != "" {
				w, resolveErr := resolveItem(ctx, app, itemRef)
				if resolveErr != nil {
					return resolveErr
				}
				entries, err = app.Logs.ListByItem(ctx, w.ID)
			} else {
				entries, err = app.Logs.ListRecent(ctx, days)
			}
			if err != nil {
				return err
			}

			if len(entries) == 0 {
				fmt.Println("No work logged.")
				return nil
			}

			headers := []string{"ID", "ITEM", "STARTED", "TIME", "NOTE"}
			rows := make([][]string, 0, len(entries))
			for _, e := range entries {
				rows = append(rows, []string{
					formatter.TruncID(e.ID),
					formatter.TruncID(e.ItemID),
					formatter.HumanTimestamp(e.StartedAt),
					formatter.FormatMinutes(e.Minutes),
					formatter.Dim(formatter.TruncText(e.Note, 40)),
				})
			}

			fmt.Print(formatter.RenderBox("Work Logged", formatter.RenderTable(headers, rows)))
			return nil
		},
	}

	cmd.Flags().StringVar(&itemRef, "item", "", "Filter by work item")
	cmd.Flags().IntVar(&days, "days", 7, "Number of recent days to show")

	return cmd
}

func newLogRemoveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "remove ID",
		Short: "Remove a work log entry",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.Logs.Delete(context.Background(), args[0]); err != nil {
				return err
			}
			fmt.Printf("Removed log entry %s\n", args[0])
			return nil
		},
	}
}
