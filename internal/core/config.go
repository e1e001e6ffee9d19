// Package core contains the business logic for tailstamp: the append
// engine, its scheduler, byte-range locking, path handling and
// configuration.
package core

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
	"github.com/valter-silva-au/tailstamp/pkg/models"
)

// ConfigFileName is the base name of the config file, without extension.
const ConfigFileName = ".tailstamp"

var validLogLevels = map[string]bool{"debug": true, "info": true, "warn": true, "error": true}

// ConfigurationManager loads and validates .tailstamp.yaml.
type ConfigurationManager interface {
	Load() (*models.Config, error)
	Validate(cfg *models.Config) error
	Path() string
}

// viperConfigManager implements ConfigurationManager using Viper for
// reading YAML configuration files.
type viperConfigManager struct {
	// basePath is the directory where .tailstamp.yaml resides.
	basePath string
}

// NewConfigurationManager creates a new ConfigurationManager that reads
// configuration files relative to basePath.
func NewConfigurationManager(basePath string) ConfigurationManager {
	return &viperConfigManager{basePath: basePath}
}

// DefaultConfig returns a Config populated with the built-in defaults.
func DefaultConfig() *models.Config {
	return &models.Config{
		Read: models.ReadConfig{
			Sleep: 20,
			Poll:  false,
			Lines: 10,
		},
		Write: models.WriteConfig{
			Interval: 2000,
			Mode:     ModeNone.String(),
		},
		Log: models.LogConfig{
			Level: "info",
		},
	}
}

// Path returns the location the config file is expected at.
func (cm *viperConfigManager) Path() string {
	return filepath.Join(cm.basePath, ConfigFileName+".yaml")
}

// Load reads .tailstamp.yaml from the base path. If the file does not
// exist, defaults are returned.
func (cm *viperConfigManager) Load() (*models.Config, error) {
	cfg := DefaultConfig()

	v := viper.New()
	v.SetConfigName(ConfigFileName)
	v.SetConfigType("yaml")
	v.AddConfigPath(cm.basePath)

	v.SetDefault("read.sleep", cfg.Read.Sleep)
	v.SetDefault("read.poll", cfg.Read.Poll)
	v.SetDefault("read.lines", cfg.Read.Lines)
	v.SetDefault("write.interval", cfg.Write.Interval)
	v.SetDefault("write.mode", cfg.Write.Mode)
	v.SetDefault("events.path", cfg.Events.Path)
	v.SetDefault("log.level", cfg.Log.Level)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return cfg, nil
		}
		return nil, fmt.Errorf("reading %s: %w", cm.Path(), err)
	}

	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decoding %s: %w", cm.Path(), err)
	}

	// A relative event log path is relative to the config file, not the cwd.
	if cfg.Events.Path != "" && !filepath.IsAbs(cfg.Events.Path) {
		cfg.Events.Path = filepath.Join(cm.basePath, cfg.Events.Path)
	}

	if err := cm.Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that all values in cfg are usable.
func (cm *viperConfigManager) Validate(cfg *models.Config) error {
	if cfg == nil {
		return fmt.Errorf("config is nil")
	}
	if cfg.Read.Sleep < 0 {
		return fmt.Errorf("read.sleep must not be negative, got %d", cfg.Read.Sleep)
	}
	if cfg.Read.Lines < 0 {
		return fmt.Errorf("read.lines must not be negative, got %d", cfg.Read.Lines)
	}
	if cfg.Write.Interval < 0 {
		return fmt.Errorf("write.interval must not be negative, got %d", cfg.Write.Interval)
	}
	if _, err := ParseCoordinationMode(cfg.Write.Mode); err != nil {
		return fmt.Errorf("write.mode: %w", err)
	}
	if !validLogLevels[strings.ToLower(cfg.Log.Level)] {
		return fmt.Errorf("log.level must be one of debug, info, warn, error; got %q", cfg.Log.Level)
	}
	return nil
}
