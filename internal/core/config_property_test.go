package core

import (
	"fmt"
	"testing"

	"pgregory.net/rapid"
)

type configValues struct {
	Sleep    int
	Poll     bool
	Lines    int
	Interval int
	Mode     string
	Level    string
}

func genConfigValues(t *rapid.T) configValues {
	return configValues{
		Sleep:    rapid.IntRange(0, 3600).Draw(t, "sleep"),
		Poll:     rapid.Bool().Draw(t, "poll"),
		Lines:    rapid.IntRange(0, 10000).Draw(t, "lines"),
		Interval: rapid.IntRange(0, 600000).Draw(t, "interval"),
		Mode:     rapid.SampledFrom([]string{"none", "lock", "recheck", "exclusive", "LOCK"}).Draw(t, "mode"),
		Level:    rapid.SampledFrom([]string{"debug", "info", "warn", "error", "WARN"}).Draw(t, "level"),
	}
}

// Every valid file loads back with exactly the values it contains.
func TestProperty_ConfigFileValuesSurviveLoad(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		v := genConfigValues(rt)
		dir := t.TempDir()
		writeFile(t, dir, ".tailstamp.yaml", fmt.Sprintf(
			"read:\n  sleep: %d\n  poll: %t\n  lines: %d\nwrite:\n  interval: %d\n  mode: %s\nlog:\n  level: %s\n",
			v.Sleep, v.Poll, v.Lines, v.Interval, v.Mode, v.Level))

		cfg, err := NewConfigurationManager(dir).Load()
		if err != nil {
			rt.Fatalf("Load failed: %v", err)
		}
		if cfg.Read.Sleep != v.Sleep || cfg.Read.Poll != v.Poll || cfg.Read.Lines != v.Lines {
			rt.Errorf("read = %+v, want %+v", cfg.Read, v)
		}
		if cfg.Write.Interval != v.Interval || cfg.Write.Mode != v.Mode {
			rt.Errorf("write = %+v, want %+v", cfg.Write, v)
		}
		if cfg.Log.Level != v.Level {
			rt.Errorf("log.level = %q, want %q", cfg.Log.Level, v.Level)
		}
	})
}

// Any negative duration or count is rejected.
func TestProperty_NegativeValuesRejected(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		cfg := DefaultConfig()
		neg := rapid.IntRange(-100000, -1).Draw(rt, "negative")
		switch rapid.IntRange(0, 2).Draw(rt, "field") {
		case 0:
			cfg.Read.Sleep = neg
		case 1:
			cfg.Read.Lines = neg
		case 2:
			cfg.Write.Interval = neg
		}

		if err := NewConfigurationManager(t.TempDir()).Validate(cfg); err == nil {
			rt.Fatalf("Validate accepted %+v", cfg)
		}
	})
}
