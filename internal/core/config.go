// Package core contains the task list logic: the task store and its
// persistence, the form and edit-mode state, the derived view, and
// configuration loading.
package core

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
	"github.com/valter-silva-au/todo/pkg/models"
	"golang.org/x/text/language"
)

// ConfigFileName is the base name of the configuration file (a .yaml
// extension is optional).
const ConfigFileName = ".todoconfig"

// ConfigurationManager loads and validates the .todoconfig settings.
type ConfigurationManager interface {
	LoadGlobalConfig() (*models.GlobalConfig, error)
	ValidateConfig(cfg *models.GlobalConfig) error
}

// viperConfigManager implements ConfigurationManager using Viper. Values come
// from, in increasing precedence: defaults, .todoconfig, TODO_* environment
// variables.
type viperConfigManager struct {
	basePath string
}

// NewConfigurationManager creates a ConfigurationManager reading .todoconfig
// from basePath.
func NewConfigurationManager(basePath string) ConfigurationManager {
	return &viperConfigManager{basePath: basePath}
}

// DefaultGlobalConfig returns the configuration used when no file exists.
func DefaultGlobalConfig() *models.GlobalConfig {
	return &models.GlobalConfig{
		Storage: models.StorageConfig{
			Backend: models.BackendFile,
			Key:     DefaultStorageKey,
		},
		View: models.ViewConfig{
			Filter: models.FilterAll,
			Sort:   models.SortNone,
			Locale: "en",
		},
		Alerts: models.AlertConfig{
			DueSoonDays:     3,
			MaxPendingTasks: 20,
		},
		LogLevel: "warn",
		EventLog: true,
	}
}

func (cm *viperConfigManager) LoadGlobalConfig() (*models.GlobalConfig, error) {
	cfg := DefaultGlobalConfig()

	v := viper.New()
	v.SetConfigName(ConfigFileName)
	v.SetConfigType("yaml")
	v.AddConfigPath(cm.basePath)

	v.SetEnvPrefix("TODO")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("storage.backend", string(cfg.Storage.Backend))
	v.SetDefault("storage.path", cfg.Storage.Path)
	v.SetDefault("storage.key", cfg.Storage.Key)
	v.SetDefault("view.filter", string(cfg.View.Filter))
	v.SetDefault("view.sort", string(cfg.View.Sort))
	v.SetDefault("view.locale", cfg.View.Locale)
	v.SetDefault("alerts.due_soon_days", cfg.Alerts.DueSoonDays)
	v.SetDefault("alerts.max_pending_tasks", cfg.Alerts.MaxPendingTasks)
	v.SetDefault("log_level", cfg.LogLevel)
	v.SetDefault("event_log", cfg.EventLog)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading %s: %w", ConfigFileName, err)
		}
	}

	cfg.Storage.Backend = models.StorageBackend(strings.ToLower(v.GetString("storage.backend")))
	cfg.Storage.Path = v.GetString("storage.path")
	cfg.Storage.Key = v.GetString("storage.key")
	// Accept the same spellings as the CLI flags; unknown values are kept so
	// ValidateConfig can report them.
	cfg.View.Filter = models.FilterStatus(v.GetString("view.filter"))
	if f, err := ParseFilter(v.GetString("view.filter")); err == nil {
		cfg.View.Filter = f
	}
	cfg.View.Sort = models.SortOrder(v.GetString("view.sort"))
	if o, err := ParseSort(v.GetString("view.sort")); err == nil {
		cfg.View.Sort = o
	}
	cfg.View.Locale = v.GetString("view.locale")
	cfg.Alerts.DueSoonDays = v.GetInt("alerts.due_soon_days")
	cfg.Alerts.MaxPendingTasks = v.GetInt("alerts.max_pending_tasks")
	cfg.LogLevel = strings.ToLower(v.GetString("log_level"))
	cfg.EventLog = v.GetBool("event_log")

	return cfg, nil
}

// ValidateConfig checks cfg for invalid values and returns an error naming
// the offending key.
func (cm *viperConfigManager) ValidateConfig(cfg *models.GlobalConfig) error {
	if cfg == nil {
		return fmt.Errorf("configuration is nil")
	}

	switch cfg.Storage.Backend {
	case models.BackendFile, models.BackendSQLite, models.BackendMemory:
	default:
		return fmt.Errorf("storage.backend: invalid value %q (must be file, sqlite, or memory)", cfg.Storage.Backend)
	}
	if strings.TrimSpace(cfg.Storage.Key) == "" {
		return fmt.Errorf("storage.key: must not be empty")
	}
	if !containsFilter(cfg.View.Filter) {
		return fmt.Errorf("view.filter: invalid value %q", cfg.View.Filter)
	}
	if !containsSort(cfg.View.Sort) {
		return fmt.Errorf("view.sort: invalid value %q", cfg.View.Sort)
	}
	if _, err := language.Parse(cfg.View.Locale); err != nil {
		return fmt.Errorf("view.locale: %w", err)
	}
	if cfg.Alerts.DueSoonDays < 0 {
		return fmt.Errorf("alerts.due_soon_days: must not be negative, got %d", cfg.Alerts.DueSoonDays)
	}
	if cfg.Alerts.MaxPendingTasks < 0 {
		return fmt.Errorf("alerts.max_pending_tasks: must not be negative, got %d", cfg.Alerts.MaxPendingTasks)
	}
	switch cfg.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log_level: invalid value %q (must be debug, info, warn, or error)", cfg.LogLevel)
	}
	return nil
}

// StoragePath resolves where the configured backend keeps its data.
func StoragePath(basePath string, cfg models.StorageConfig) string {
	path := cfg.Path
	if path == "" {
		switch cfg.Backend {
		case models.BackendSQLite:
			path = "todo.db"
		default:
			path = "todo.yaml"
		}
	}
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(basePath, path)
}

// ParseFilter maps user input to a FilterStatus, accepting the canonical
// names case-insensitively plus dashed forms such as "in-progress".
func ParseFilter(s string) (models.FilterStatus, error) {
	for _, f := range models.FilterStatuses {
		if matchesName(string(f), s) {
			return f, nil
		}
	}
	return "", fmt.Errorf("invalid filter %q (must be one of All, Pending, In progress, Completed)", s)
}

// ParseSort maps user input to a SortOrder, e.g. "due-date" or "Title".
func ParseSort(s string) (models.SortOrder, error) {
	for _, o := range models.SortOrders {
		if matchesName(string(o), s) {
			return o, nil
		}
	}
	return "", fmt.Errorf("invalid sort order %q (must be one of None, Due Date, Title)", s)
}

// ParseStatus maps user input to a TaskStatus, e.g. "completed" or
// "in_progress".
func ParseStatus(s string) (models.TaskStatus, error) {
	for _, st := range models.TaskStatuses {
		if matchesName(string(st), s) {
			return st, nil
		}
	}
	return "", fmt.Errorf("invalid status %q (must be one of Pending, In progress, Completed)", s)
}

func matchesName(canonical, input string) bool {
	norm := func(s string) string {
		s = strings.ToLower(strings.TrimSpace(s))
		return strings.NewReplacer("-", " ", "_", " ").Replace(s)
	}
	return norm(canonical) == norm(input)
}

func containsFilter(f models.FilterStatus) bool {
	for _, known := range models.FilterStatuses {
		if f == known {
			return true
		}
	}
	return false
}

func containsSort(o models.SortOrder) bool {
	for _, known := range models.SortOrders {
		if o == known {
			return true
		}
	}
	return false
}
