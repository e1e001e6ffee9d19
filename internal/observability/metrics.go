package observability

import (
	"fmt"
	"time"
)

// Metrics holds calculated metrics derived from the event log.
type Metrics struct {
	Attempts    int            `json:"attempts" yaml:"attempts"`
	Written     int            `json:"written" yaml:"written"`
	Contention  int            `json:"contention" yaml:"contention"`
	Race        int            `json:"race" yaml:"race"`
	ByTarget    map[string]int `json:"by_target" yaml:"by_target"`
	OldestEvent *time.Time     `json:"oldest_event,omitempty" yaml:"oldest_event,omitempty"`
	NewestEvent *time.Time     `json:"newest_event,omitempty" yaml:"newest_event,omitempty"`
}

// Skipped returns the number of attempts that forfeited their tick.
func (m *Metrics) Skipped() int {
	return m.Contention + m.Race
}

// SkipRatio returns the fraction of attempts that were skipped, or 0 when
// there were no attempts.
func (m *Metrics) SkipRatio() float64 {
	if m.Attempts == 0 {
		return 0
	}
	return float64(m.Skipped()) / float64(m.Attempts)
}

// MetricsCalculator derives metrics from the event log.
type MetricsCalculator interface {
	Calculate(since time.Time) (*Metrics, error)
}

// metricsCalculator implements MetricsCalculator by reading from an EventLog.
type metricsCalculator struct {
	eventLog EventLog
}

// NewMetricsCalculator creates a new MetricsCalculator that reads from the given EventLog.
func NewMetricsCalculator(eventLog EventLog) MetricsCalculator {
	return &metricsCalculator{eventLog: eventLog}
}

// Calculate reads all events since the given time and aggregates them into metrics.
func (mc *metricsCalculator) Calculate(since time.Time) (*Metrics, error) {
	events, err := mc.eventLog.Read(EventFilter{Since: &since})
	if err != nil {
		return nil, fmt.Errorf("reading events for metrics: %w", err)
	}

	m := &Metrics{ByTarget: make(map[string]int)}

	for _, event := range events {
		switch event.Type {
		case EventAttemptWritten:
			m.Written++
		case EventAttemptContention:
			m.Contention++
		case EventAttemptRace:
			m.Race++
		default:
			continue
		}
		m.Attempts++

		if target, ok := event.Data["target"].(string); ok {
			m.ByTarget[target]++
		}

		t := event.Time
		if m.OldestEvent == nil || t.Before(*m.OldestEvent) {
			m.OldestEvent = &t
		}
		if m.NewestEvent == nil || t.After(*m.NewestEvent) {
			m.NewestEvent = &t
		}
	}

	return m, nil
}
