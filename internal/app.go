// Package internal provides the App struct that wires all components of
// tailstamp together and initializes the CLI layer.
package internal

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/valter-silva-au/tailstamp/internal/cli"
	"github.com/valter-silva-au/tailstamp/internal/core"
	"github.com/valter-silva-au/tailstamp/internal/observability"
	"github.com/valter-silva-au/tailstamp/pkg/models"
)

// App holds all service dependencies for tailstamp.
type App struct {
	BasePath string

	// Configuration
	ConfigMgr core.ConfigurationManager
	Config    *models.Config

	// Observability
	Logger      *slog.Logger
	EventLog    observability.EventLog
	MetricsCalc observability.MetricsCalculator
	AlertEngine observability.AlertEngine
}

// NewApp loads configuration from basePath and wires the CLI layer.
// A missing config file is not an error; an invalid one is.
func NewApp(basePath string) (*App, error) {
	app := &App{BasePath: basePath}

	// --- Configuration ---
	app.ConfigMgr = core.NewConfigurationManager(basePath)
	cfg, err := app.ConfigMgr.Load()
	if err != nil {
		return nil, fmt.Errorf("loading configuration: %w", err)
	}
	app.Config = cfg

	// --- Observability ---
	app.Logger = observability.NewLogger(os.Stderr, cfg.Log.Level)

	if cfg.Events.Path != "" {
		app.EventLog, err = observability.NewJSONLEventLog(cfg.Events.Path)
		if err != nil {
			// Non-fatal: run without the event log.
			app.Logger.Warn("event log disabled", "path", cfg.Events.Path, "error", err)
			app.EventLog = nil
		}
	}
	if app.EventLog != nil {
		thresholds := observability.DefaultAlertThresholds()
		if cfg.Alerts.MaxSkipRatio > 0 {
			thresholds.MaxSkipRatio = cfg.Alerts.MaxSkipRatio
		}
		if cfg.Alerts.MaxConsecutiveSkips > 0 {
			thresholds.MaxConsecutiveSkips = cfg.Alerts.MaxConsecutiveSkips
		}
		if cfg.Alerts.StaleMinutes > 0 {
			thresholds.StaleMinutes = cfg.Alerts.StaleMinutes
		}
		app.MetricsCalc = observability.NewMetricsCalculator(app.EventLog)
		app.AlertEngine = observability.NewAlertEngine(app.EventLog, thresholds)
	}

	// --- Wire CLI ---
	cli.Config = app.Config
	cli.ConfigMgr = app.ConfigMgr
	cli.Logger = app.Logger
	cli.EventLog = app.EventLog
	cli.MetricsCalc = app.MetricsCalc
	cli.AlertEngine = app.AlertEngine

	return app, nil
}

// Close releases resources held by the app.
func (a *App) Close() error {
	if a.EventLog != nil {
		return a.EventLog.Close()
	}
	return nil
}

// ResolveBasePath determines the directory holding .tailstamp.yaml. It
// checks the TAILSTAMP_HOME environment variable first, then walks up from
// the current directory, and falls back to the current directory.
func ResolveBasePath() string {
	if home := os.Getenv("TAILSTAMP_HOME"); home != "" {
		return home
	}
	dir, err := os.Getwd()
	if err != nil {
		return "."
	}
	// Walk up to find a directory containing .tailstamp.yaml.
	for d := dir; ; {
		if _, err := os.Stat(filepath.Join(d, core.ConfigFileName+".yaml")); err == nil {
			return d
		}
		parent := filepath.Dir(d)
		if parent == d {
			break
		}
		d = parent
	}
	return dir
}
