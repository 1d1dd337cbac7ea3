package cli

import (
	"log/slog"

	"github.com/valter-silva-au/todo/internal/core"
	"github.com/valter-silva-au/todo/internal/observability"
)

// Service instances, set during app initialization in app.go.
var (
	BasePath string
	Manager  *core.Manager
	Logger   *slog.Logger
)

// Observability service instances, set during app initialization in app.go.
var (
	EventLog    observability.EventLog
	AlertEngine observability.AlertEngine
	MetricsCalc observability.MetricsCalculator
)

func requireManager() (*core.Manager, error) {
	if Manager == nil {
		return nil, errNotInitialized
	}
	return Manager, nil
}
