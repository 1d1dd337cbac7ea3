// Package internal provides the App struct that wires the task list manager,
// its storage, and observability together and initializes the CLI layer.
package internal

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/valter-silva-au/todo/internal/cli"
	"github.com/valter-silva-au/todo/internal/core"
	"github.com/valter-silva-au/todo/internal/observability"
	"github.com/valter-silva-au/todo/internal/storage"
	"github.com/valter-silva-au/todo/pkg/models"
	"golang.org/x/text/language"
)

// EventLogFileName is the JSONL event log written in the base path.
const EventLogFileName = ".todo_events.jsonl"

// App holds all service dependencies.
type App struct {
	BasePath string

	// Configuration
	ConfigMgr core.ConfigurationManager
	Config    *models.GlobalConfig
	Logger    *slog.Logger

	// Storage layer
	KV storage.KeyValueStore

	// Core services
	Store   *core.Store
	Manager *core.Manager

	// Observability
	EventLog    observability.EventLog
	AlertEngine observability.AlertEngine
	MetricsCalc observability.MetricsCalculator
}

// NewApp creates and wires all components. basePath is the directory holding
// .todoconfig, the data file, and the event log. Diagnostics are written to
// stderr.
func NewApp(basePath string) (*App, error) {
	return newApp(basePath, os.Stderr)
}

func newApp(basePath string, logOut io.Writer) (*App, error) {
	app := &App{BasePath: basePath}

	// --- Configuration ---
	app.ConfigMgr = core.NewConfigurationManager(basePath)
	cfg, err := app.ConfigMgr.LoadGlobalConfig()
	if err != nil {
		return nil, fmt.Errorf("loading configuration: %w", err)
	}
	if err := app.ConfigMgr.ValidateConfig(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	app.Config = cfg
	app.Logger = observability.NewLogger(logOut, cfg.LogLevel)

	// --- Storage layer ---
	dataPath := core.StoragePath(basePath, cfg.Storage)
	app.KV, err = storage.Open(cfg.Storage.Backend, dataPath)
	if err != nil {
		return nil, fmt.Errorf("opening %s storage: %w", cfg.Storage.Backend, err)
	}
	app.Logger.Debug("storage opened", "backend", cfg.Storage.Backend, "path", dataPath)

	// --- Observability ---
	var events core.EventLogger
	if cfg.EventLog {
		app.EventLog, err = observability.NewJSONLEventLog(filepath.Join(basePath, EventLogFileName))
		if err != nil {
			// Non-fatal: run without the event log.
			app.Logger.Warn("event log disabled", "error", err)
			app.EventLog = nil
		}
	}
	if app.EventLog != nil {
		events = observability.NewRecorder(app.EventLog, nil)
		app.MetricsCalc = observability.NewMetricsCalculator(app.EventLog)
	}

	// --- Core services ---
	app.Store = core.NewStore(app.KV, core.StoreOptions{
		Key:    cfg.Storage.Key,
		Logger: app.Logger,
		Events: events,
	})
	app.Store.Hydrate()

	locale, err := language.Parse(cfg.View.Locale)
	if err != nil {
		locale = language.English
	}
	app.Manager = core.NewManager(app.Store, core.ViewOptions{
		Filter: cfg.View.Filter,
		Sort:   cfg.View.Sort,
		Locale: locale,
	})
	app.AlertEngine = observability.NewAlertEngine(app.Store, cfg.Alerts, nil)

	// --- Wire CLI package-level variables ---
	cli.BasePath = basePath
	cli.Manager = app.Manager
	cli.Logger = app.Logger
	cli.EventLog = app.EventLog
	cli.AlertEngine = app.AlertEngine
	cli.MetricsCalc = app.MetricsCalc

	return app, nil
}

// Close releases the storage backend and the event log file handle. It is
// safe to call on an App whose EventLog is nil.
func (a *App) Close() error {
	var errs []error
	if a.KV != nil {
		if err := a.KV.Close(); err != nil {
			errs = append(errs, fmt.Errorf("closing storage: %w", err))
		}
	}
	if a.EventLog != nil {
		if err := a.EventLog.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// ResolveBasePath determines the data directory. It checks the TODO_HOME
// env var, then walks up from the working directory looking for
// .todoconfig (with or without a .yaml extension), then falls back to the
// working directory.
func ResolveBasePath() string {
	if home := os.Getenv("TODO_HOME"); home != "" {
		return home
	}
	cwd, err := os.Getwd()
	if err != nil {
		return "."
	}
	for dir := cwd; ; {
		for _, name := range []string{core.ConfigFileName, core.ConfigFileName + ".yaml"} {
			if _, err := os.Stat(filepath.Join(dir, name)); err == nil {
				return dir
			}
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return cwd
}
