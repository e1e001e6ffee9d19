package cli

import (
	"log/slog"

	"github.com/valter-silva-au/tailstamp/internal/core"
	"github.com/valter-silva-au/tailstamp/internal/observability"
	"github.com/valter-silva-au/tailstamp/pkg/models"
)

// Service instances, set during app initialization in app.go.
var (
	Config      *models.Config
	ConfigMgr   core.ConfigurationManager
	Logger      *slog.Logger
	EventLog    observability.EventLog
	MetricsCalc observability.MetricsCalculator
	AlertEngine observability.AlertEngine
)

// currentConfig returns the loaded config, or the defaults when the app
// was not initialized.
func currentConfig() *models.Config {
	if Config != nil {
		return Config
	}
	return core.DefaultConfig()
}
