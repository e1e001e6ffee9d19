package observability

import (
	"fmt"
	"sort"
	"time"
)

// AlertSeverity represents the urgency of an alert.
type AlertSeverity string

const (
	SeverityHigh   AlertSeverity = "high"
	SeverityMedium AlertSeverity = "medium"
	SeverityLow    AlertSeverity = "low"
)

// Alert represents a triggered alert condition.
type Alert struct {
	ID          string        `json:"id"`
	Condition   string        `json:"condition"`
	Severity    AlertSeverity `json:"severity"`
	Message     string        `json:"message"`
	TriggeredAt time.Time     `json:"triggered_at"`
}

// AlertThresholds configures when alerts should fire.
type AlertThresholds struct {
	// MaxSkipRatio is the highest tolerated fraction of skipped attempts.
	MaxSkipRatio float64 `yaml:"max_skip_ratio" json:"max_skip_ratio"`
	// MaxConsecutiveSkips is how many skips in a row a target may see.
	MaxConsecutiveSkips int `yaml:"max_consecutive_skips" json:"max_consecutive_skips"`
	// StaleMinutes is how long a target may go without a written line.
	StaleMinutes int `yaml:"stale_minutes" json:"stale_minutes"`
}

// DefaultAlertThresholds returns sensible defaults for alert thresholds.
func DefaultAlertThresholds() AlertThresholds {
	return AlertThresholds{
		MaxSkipRatio:        0.5,
		MaxConsecutiveSkips: 10,
		StaleMinutes:        60,
	}
}

// AlertEngine evaluates alert conditions against the event log.
type AlertEngine interface {
	Evaluate() ([]Alert, error)
}

// alertEngine implements AlertEngine by reading events and checking thresholds.
type alertEngine struct {
	eventLog   EventLog
	thresholds AlertThresholds
	now        func() time.Time
}

// NewAlertEngine creates a new AlertEngine with the given EventLog and thresholds.
func NewAlertEngine(eventLog EventLog, thresholds AlertThresholds) AlertEngine {
	return &alertEngine{
		eventLog:   eventLog,
		thresholds: thresholds,
		now:        time.Now,
	}
}

// targetHistory is the attempt history of one target file.
type targetHistory struct {
	attempts    int
	skipped     int
	trailing    int // skips since the last written line
	lastWritten time.Time
}

// Evaluate reads events and checks all alert conditions, returning any triggered alerts.
func (ae *alertEngine) Evaluate() ([]Alert, error) {
	now := ae.now().UTC()

	events, err := ae.eventLog.Read(EventFilter{})
	if err != nil {
		return nil, fmt.Errorf("reading events for alerts: %w", err)
	}

	targets := make(map[string]*targetHistory)
	for _, event := range events {
		target, _ := event.Data["target"].(string)
		if target == "" {
			continue
		}
		h := targets[target]
		if h == nil {
			h = &targetHistory{}
			targets[target] = h
		}

		switch event.Type {
		case EventAttemptWritten:
			h.attempts++
			h.trailing = 0
			if event.Time.After(h.lastWritten) {
				h.lastWritten = event.Time
			}
		case EventAttemptContention, EventAttemptRace:
			h.attempts++
			h.skipped++
			h.trailing++
		}
	}

	names := make([]string, 0, len(targets))
	for name := range targets {
		names = append(names, name)
	}
	sort.Strings(names)

	var alerts []Alert
	for _, name := range names {
		alerts = append(alerts, ae.checkTarget(name, targets[name], now)...)
	}
	return alerts, nil
}

func (ae *alertEngine) checkTarget(target string, h *targetHistory, now time.Time) []Alert {
	var alerts []Alert

	if limit := ae.thresholds.MaxConsecutiveSkips; limit > 0 && h.trailing >= limit {
		alerts = append(alerts, Alert{
			ID:          fmt.Sprintf("consecutive-skips-%s", target),
			Condition:   "consecutive_skips",
			Severity:    SeverityHigh,
			Message:     fmt.Sprintf("%s: last %d attempts were all skipped", target, h.trailing),
			TriggeredAt: now,
		})
	}

	if h.attempts > 0 && ae.thresholds.MaxSkipRatio > 0 {
		ratio := float64(h.skipped) / float64(h.attempts)
		if ratio > ae.thresholds.MaxSkipRatio {
			alerts = append(alerts, Alert{
				ID:          fmt.Sprintf("skip-ratio-%s", target),
				Condition:   "skip_ratio_high",
				Severity:    SeverityMedium,
				Message:     fmt.Sprintf("%s: %.0f%% of %d attempts skipped (threshold %.0f%%)", target, ratio*100, h.attempts, ae.thresholds.MaxSkipRatio*100),
				TriggeredAt: now,
			})
		}
	}

	if mins := ae.thresholds.StaleMinutes; mins > 0 && !h.lastWritten.IsZero() {
		threshold := time.Duration(mins) * time.Minute
		if now.Sub(h.lastWritten) > threshold {
			alerts = append(alerts, Alert{
				ID:          fmt.Sprintf("stale-%s", target),
				Condition:   "writer_stale",
				Severity:    SeverityLow,
				Message:     fmt.Sprintf("%s: no line written for more than %d minutes", target, mins),
				TriggeredAt: now,
			})
		}
	}

	return alerts
}
