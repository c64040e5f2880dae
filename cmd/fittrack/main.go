package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"github.com/fittrackapp/fittrack/internal/config"
	"github.com/fittrackapp/fittrack/internal/prefs"
	"github.com/fittrackapp/fittrack/internal/scheduler"
	"github.com/fittrackapp/fittrack/internal/storage"
	"github.com/fittrackapp/fittrack/internal/tracker"
	"github.com/fittrackapp/fittrack/internal/tui"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "fittrack failed: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	configPath := flag.String("config", "", "path to config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		return err
	}

	logger, closeLog, err := openLogger(cfg)
	if err != nil {
		return err
	}
	defer closeLog()

	store, err := storage.Open(cfg.DatabasePath(), logger)
	if err != nil {
		return err
	}
	defer store.Close()

	prefStore := prefs.NewStore(cfg.PreferencesPath(), logger)
	if _, err := prefStore.Initialize(); err != nil {
		return err
	}

	projects := tracker.NewProjectRepository(store, logger)
	templates := tracker.NewTemplateRepository(store, projects, logger)

	engine := scheduler.NewEngine(16)
	engine.Start()
	defer engine.Stop()
	if err := scheduleReminders(context.Background(), projects, engine, logger); err != nil {
		return err
	}

	program := tea.NewProgram(tui.New(tui.Deps{
		Projects:  projects,
		Templates: templates,
		Prefs:     prefStore,
		Engine:    engine,
		Logger:    logger,
	}), tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return err
	}
	return nil
}

// openLogger writes structured logs to a file in the data directory; the
// terminal belongs to the UI.
func openLogger(cfg config.Config) (zerolog.Logger, func(), error) {
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		return zerolog.Nop(), nil, fmt.Errorf("parse log level: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(cfg.LogPath()), 0o755); err != nil {
		return zerolog.Nop(), nil, fmt.Errorf("create log directory: %w", err)
	}
	file, err := os.OpenFile(cfg.LogPath(), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return zerolog.Nop(), nil, fmt.Errorf("open log file: %w", err)
	}
	logger := zerolog.New(file).Level(level).With().Timestamp().Logger()
	return logger, func() { _ = file.Close() }, nil
}

// scheduleReminders queues every enabled reminder at startup so deadlines
// survive restarts.
func scheduleReminders(ctx context.Context, projects *tracker.ProjectRepository, engine *scheduler.Engine, logger zerolog.Logger) error {
	reminders, err := projects.ListEnabledReminders(ctx)
	if err != nil {
		return err
	}
	for _, reminder := range reminders {
		project, err := projects.Get(ctx, reminder.ProjectID)
		if err != nil {
			logger.Warn().Err(err).Str("reminder_id", reminder.ID).Msg("skipping reminder without project")
			continue
		}
		trigger, ok := scheduler.TriggerFor(reminder, project.Name)
		if !ok {
			continue
		}
		if err := engine.Schedule(trigger); err != nil {
			return err
		}
	}
	logger.Info().Int("count", len(reminders)).Msg("reminders scheduled")
	return nil
}
