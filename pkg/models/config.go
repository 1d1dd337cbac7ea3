package models

// StorageBackend names a key-value storage implementation.
type StorageBackend string

const (
	BackendFile   StorageBackend = "file"
	BackendSQLite StorageBackend = "sqlite"
	BackendMemory StorageBackend = "memory"
)

// StorageConfig controls where the task list is persisted. Path is relative
// to the base path unless absolute.
type StorageConfig struct {
	Backend StorageBackend `yaml:"backend" mapstructure:"backend"`
	Path    string         `yaml:"path" mapstructure:"path"`
	Key     string         `yaml:"key" mapstructure:"key"`
}

// ViewConfig holds the startup state of the filter and sort selectors.
type ViewConfig struct {
	Filter FilterStatus `yaml:"filter" mapstructure:"filter"`
	Sort   SortOrder    `yaml:"sort" mapstructure:"sort"`
	Locale string       `yaml:"locale" mapstructure:"locale"`
}

// AlertConfig configures the due-date alert thresholds.
type AlertConfig struct {
	DueSoonDays     int `yaml:"due_soon_days" mapstructure:"due_soon_days"`
	MaxPendingTasks int `yaml:"max_pending_tasks" mapstructure:"max_pending_tasks"`
}

// GlobalConfig holds the settings read from .todoconfig via Viper.
type GlobalConfig struct {
	Storage  StorageConfig `yaml:"storage" mapstructure:"storage"`
	View     ViewConfig    `yaml:"view" mapstructure:"view"`
	Alerts   AlertConfig   `yaml:"alerts" mapstructure:"alerts"`
	LogLevel string        `yaml:"log_level" mapstructure:"log_level"`
	EventLog bool          `yaml:"event_log" mapstructure:"event_log"`
}
