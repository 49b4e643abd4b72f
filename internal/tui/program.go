package tui

import (
	"fmt"
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/alexanderramin/tempo/internal/config"
	"github.com/alexanderramin/tempo/internal/domain"
	"github.com/alexanderramin/tempo/internal/timer"
)

// Run builds an engine for the item and drives the timer surface until the
// session ends. The final summary line is printed after the program exits.
func Run(item *domain.WorkItem, store timer.ItemStore, settings config.Settings, logger *slog.Logger) error {
	block := item.PlannedMinutes
	if block <= settings.DefaultBreakMinutes {
		block = settings.DefaultTimeBlockMinutes
	}
	engine, err := timer.NewEngine(item, store, timer.Config{
		TimeBlockMinutes: block,
		BreakMinutes:     settings.DefaultBreakMinutes,
		WeekendPolicy:    settings.WeekendPolicy(),
		Notifier: timer.BellNotifier{
			Out:     os.Stdout,
			Enabled: settings.EnableBreakAlerts,
		},
		Logger: logger,
	})
	if err != nil {
		return err
	}

	model := NewModel(engine, store, settings)
	program := tea.NewProgram(model, tea.WithAltScreen())

	final, err := program.Run()
	if err != nil {
		return fmt.Errorf("running timer surface: %w", err)
	}
	if m, ok := final.(*Model); ok && m.summary != "" {
		fmt.Println(m.summary)
	}
	return nil
}
