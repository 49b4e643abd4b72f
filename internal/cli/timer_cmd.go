package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

func newTimerCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "timer ID",
		Short: "Run an interactive timer session against a work item",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if app.IsInteractive != nil && !app.IsInteractive() {
				return fmt.Errorf("the timer needs an interactive terminal")
			}

			w, err := resolveItem(context.Background(), app, args[0])
			if err != nil {
				return err
			}
			if !w.IsOpen() {
				return fmt.Errorf("item %q is not open", w.Title)
			}
			if app.RunTimer == nil {
				return fmt.Errorf("timer surface is not configured")
			}
			return app.RunTimer(w)
		},
	}
}
