package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/mattn/go-isatty"

	"github.com/alexanderramin/tempo/internal/cli"
	"github.com/alexanderramin/tempo/internal/config"
	"github.com/alexanderramin/tempo/internal/db"
	"github.com/alexanderramin/tempo/internal/domain"
	"github.com/alexanderramin/tempo/internal/repository"
	"github.com/alexanderramin/tempo/internal/service"
	"github.com/alexanderramin/tempo/internal/tui"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// DB path: env var or default ~/.tempo/tempo.db
	dbPath := os.Getenv("TEMPO_DB")
	if dbPath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("finding home directory: %w", err)
		}
		dbPath = filepath.Join(home, ".tempo", "tempo.db")
	}
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating data directory: %w", err)
		}
	}

	settingsPath, err := config.SettingsPath()
	if err != nil {
		return fmt.Errorf("locating settings: %w", err)
	}
	settings, err := config.Load(settingsPath)
	if err != nil {
		return fmt.Errorf("loading settings: %w", err)
	}

	database, err := db.OpenDB(dbPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer database.Close()

	itemRepo := repository.NewSQLiteWorkItemRepo(database)
	logRepo := repository.NewSQLiteWorkLogRepo(database)
	contactRepo := repository.NewSQLiteContactRepo(database)
	uow := db.NewSQLiteUnitOfWork(database)

	var observer service.UseCaseObserver = service.NoopUseCaseObserver{}
	var logWriter io.Writer
	if os.Getenv("TEMPO_LOG") != "" {
		logWriter = os.Stderr
		observer = service.NewLogUseCaseObserver(os.Stderr)
	}

	items := service.NewWorkItemService(itemRepo, observer)
	logs := service.NewWorkLogService(logRepo, itemRepo, observer)
	contacts := service.NewContactService(contactRepo)
	store := service.NewTimerStore(items, logs, uow)

	logger := slog.New(slog.DiscardHandler)
	if logWriter != nil {
		logger = slog.New(slog.NewTextHandler(logWriter, nil))
	}

	app := &cli.App{
		Items:    items,
		Logs:     logs,
		Contacts: contacts,
		Settings: settings,
	}
	app.IsInteractive = func() bool {
		return isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())
	}
	app.RunTimer = func(item *domain.WorkItem) error {
		return tui.Run(item, store, settings, logger)
	}

	return cli.NewRootCmd(app).Execute()
}
