package models

// ReadConfig holds the defaults for the follow (read) command.
type ReadConfig struct {
	// Sleep is the poll interval in seconds.
	Sleep int  `yaml:"sleep" mapstructure:"sleep"`
	Poll  bool `yaml:"poll" mapstructure:"poll"`
	// Lines is how many trailing lines are printed before following.
	Lines int `yaml:"lines" mapstructure:"lines"`
}

// WriteConfig holds the defaults for the append (write) command.
type WriteConfig struct {
	// Interval is the tick period in milliseconds.
	Interval int    `yaml:"interval" mapstructure:"interval"`
	Mode     string `yaml:"mode" mapstructure:"mode"`
}

// EventsConfig controls the JSONL attempt log. An empty Path disables it.
type EventsConfig struct {
	Path string `yaml:"path,omitempty" mapstructure:"path"`
}

// AlertsConfig overrides the alert thresholds used by the stats command.
// Zero values keep the built-in defaults.
type AlertsConfig struct {
	MaxSkipRatio        float64 `yaml:"max_skip_ratio,omitempty" mapstructure:"max_skip_ratio"`
	MaxConsecutiveSkips int     `yaml:"max_consecutive_skips,omitempty" mapstructure:"max_consecutive_skips"`
	StaleMinutes        int     `yaml:"stale_minutes,omitempty" mapstructure:"stale_minutes"`
}

// LogConfig controls the structured diagnostic logger.
type LogConfig struct {
	Level string `yaml:"level" mapstructure:"level"`
}

// Config holds settings read from .tailstamp.yaml via Viper.
type Config struct {
	Read   ReadConfig   `yaml:"read" mapstructure:"read"`
	Write  WriteConfig  `yaml:"write" mapstructure:"write"`
	Events EventsConfig `yaml:"events" mapstructure:"events"`
	Alerts AlertsConfig `yaml:"alerts,omitempty" mapstructure:"alerts"`
	Log    LogConfig    `yaml:"log" mapstructure:"log"`
}
