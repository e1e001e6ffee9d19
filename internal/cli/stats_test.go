package cli

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/valter-silva-au/tailstamp/internal/observability"
)

func TestParseSinceDuration(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    time.Duration
		wantErr string
	}{
		{name: "empty defaults to 24h", input: "", want: 24 * time.Hour},
		{name: "whitespace defaults to 24h", input: "  ", want: 24 * time.Hour},
		{name: "days", input: "7d", want: 7 * 24 * time.Hour},
		{name: "hours", input: "24h", want: 24 * time.Hour},
		{name: "minutes", input: "15m", want: 15 * time.Minute},
		{name: "bad day count", input: "xd", wantErr: "invalid day duration"},
		{name: "unknown unit", input: "abc", wantErr: "unsupported duration format"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseSinceDuration(tt.input)
			if tt.wantErr != "" {
				if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
					t.Fatalf("error = %v, want it to contain %q", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			ago := time.Since(got)
			if ago < tt.want-time.Minute || ago > tt.want+time.Minute {
				t.Errorf("parseSinceDuration(%q) is %v ago, want about %v", tt.input, ago, tt.want)
			}
		})
	}
}

type metricsMock struct {
	calcFn func(since time.Time) (*observability.Metrics, error)
}

func (m *metricsMock) Calculate(since time.Time) (*observability.Metrics, error) {
	return m.calcFn(since)
}

type alertsMock struct {
	alerts []observability.Alert
	err    error
}

func (m *alertsMock) Evaluate() ([]observability.Alert, error) {
	return m.alerts, m.err
}

func withObservability(t *testing.T, calc observability.MetricsCalculator, engine observability.AlertEngine) {
	t.Helper()
	origCalc := MetricsCalc
	origEngine := AlertEngine
	t.Cleanup(func() {
		MetricsCalc = origCalc
		AlertEngine = origEngine
	})
	MetricsCalc = calc
	AlertEngine = engine
}

func sampleMetrics() *observability.Metrics {
	return &observability.Metrics{
		Attempts:   10,
		Written:    6,
		Contention: 3,
		Race:       1,
		ByTarget:   map[string]int{"/tmp/stamps.txt": 10},
	}
}

func TestStats_NotConfigured(t *testing.T) {
	withObservability(t, nil, nil)

	_, _, err := execute(t, time.Second, "stats")
	if err == nil || !strings.Contains(err.Error(), "event log not configured") {
		t.Fatalf("error = %v, want event log not configured", err)
	}
}

func TestStats_TextOutput(t *testing.T) {
	withObservability(t,
		&metricsMock{calcFn: func(time.Time) (*observability.Metrics, error) { return sampleMetrics(), nil }},
		&alertsMock{alerts: []observability.Alert{{
			ID:        "consecutive-skips-/tmp/stamps.txt",
			Condition: "consecutive_skips",
			Severity:  observability.SeverityHigh,
			Message:   "12 consecutive skipped ticks on /tmp/stamps.txt",
		}}},
	)

	out, _, err := execute(t, time.Second, "stats")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, want := range []string{
		"Write attempts",
		"Attempts:",
		"Contention:",
		"40.0%",
		"/tmp/stamps.txt",
		"1 active alert(s)",
		"[HIGH]",
		"12 consecutive skipped ticks",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestStats_NoAlerts(t *testing.T) {
	withObservability(t,
		&metricsMock{calcFn: func(time.Time) (*observability.Metrics, error) { return sampleMetrics(), nil }},
		&alertsMock{},
	)

	out, _, err := execute(t, time.Second, "stats")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out, "No active alerts.") {
		t.Errorf("output = %q", out)
	}
}

func TestStats_JSONOutput(t *testing.T) {
	var gotSince time.Time
	withObservability(t,
		&metricsMock{calcFn: func(since time.Time) (*observability.Metrics, error) {
			gotSince = since
			return sampleMetrics(), nil
		}},
		nil,
	)

	out, _, err := execute(t, time.Second, "stats", "--json", "--since", "7d")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var m observability.Metrics
	if err := json.Unmarshal([]byte(out), &m); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, out)
	}
	if m.Attempts != 10 || m.Race != 1 {
		t.Errorf("decoded metrics = %+v", m)
	}
	if ago := time.Since(gotSince); ago < 7*24*time.Hour-time.Minute {
		t.Errorf("since window = %v, want about 7 days", ago)
	}
}

func TestStats_Errors(t *testing.T) {
	failing := &metricsMock{calcFn: func(time.Time) (*observability.Metrics, error) {
		return nil, errors.New("disk on fire")
	}}
	ok := &metricsMock{calcFn: func(time.Time) (*observability.Metrics, error) { return sampleMetrics(), nil }}

	tests := []struct {
		name    string
		calc    observability.MetricsCalculator
		engine  observability.AlertEngine
		args    []string
		wantErr string
	}{
		{name: "bad since", calc: ok, args: []string{"stats", "--since", "soon"}, wantErr: "parsing --since"},
		{name: "calculator failure", calc: failing, args: []string{"stats"}, wantErr: "disk on fire"},
		{name: "alert failure", calc: ok, engine: &alertsMock{err: errors.New("bad log")}, args: []string{"stats"}, wantErr: "evaluating alerts"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			withObservability(t, tt.calc, tt.engine)
			_, _, err := execute(t, time.Second, tt.args...)
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("error = %v, want it to contain %q", err, tt.wantErr)
			}
		})
	}
}
