package cli

import (
	"github.com/spf13/cobra"

	"github.com/alexanderramin/tempo/internal/config"
	"github.com/alexanderramin/tempo/internal/domain"
	"github.com/alexanderramin/tempo/internal/service"
)

// App holds references to all service interfaces used by CLI commands.
type App struct {
	Items    service.WorkItemService
	Logs     service.WorkLogService
	Contacts service.ContactService
	Settings config.Settings

	// RunTimer launches the interactive timer surface for an item. Wired
	// in main so the command layer stays decoupled from the TUI.
	RunTimer func(item *domain.WorkItem) error

	// IsInteractive reports whether stdin is attached to a terminal.
	IsInteractive func() bool
}

// NewRootCmd creates the top-level "tempo" command and registers all
// subcommands against the provided App.
func NewRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:   "tempo",
		Short: "Action timer and personal task tracker",
	}

	root.AddCommand(
		newItemCmd(app),
		newTimerCmd(app),
		newLogCmd(app),
		newContactCmd(app),
	)

	return root
}
