package cli

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

var (
	statsJSON  bool
	statsSince string
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Summarize recorded write attempts",
	Long: `Display write-attempt counts derived from the event log, followed by any
alerts about unhealthy writers (long runs of skipped ticks, a high skip
ratio, or a writer that stopped producing lines).

The event log is enabled by setting events.path in .tailstamp.yaml.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if MetricsCalc == nil {
			return fmt.Errorf("event log not configured (set events.path in .tailstamp.yaml)")
		}

		sinceTime, err := parseSinceDuration(statsSince)
		if err != nil {
			return fmt.Errorf("parsing --since: %w", err)
		}

		metrics, err := MetricsCalc.Calculate(sinceTime)
		if err != nil {
			return fmt.Errorf("calculating metrics: %w", err)
		}

		out := cmd.OutOrStdout()
		if statsJSON {
			data, err := json.MarshalIndent(metrics, "", "  ")
			if err != nil {
				return fmt.Errorf("formatting metrics as JSON: %w", err)
			}
			fmt.Fprintln(out, string(data))
			return nil
		}

		fmt.Fprintln(out, headerStyle.Render(fmt.Sprintf("Write attempts (since %s)", sinceTime.Format("2006-01-02 15:04"))))
		fmt.Fprintf(out, "  %-20s %d\n", "Attempts:", metrics.Attempts)
		fmt.Fprintf(out, "  %-20s %d\n", "Written:", metrics.Written)
		fmt.Fprintf(out, "  %-20s %d\n", "Contention:", metrics.Contention)
		fmt.Fprintf(out, "  %-20s %d\n", "Race:", metrics.Race)
		fmt.Fprintf(out, "  %-20s %.1f%%\n", "Skip ratio:", metrics.SkipRatio()*100)

		if len(metrics.ByTarget) > 0 {
			fmt.Fprintln(out, "\n  Attempts by target:")
			for target, count := range metrics.ByTarget {
				fmt.Fprintf(out, "    %-40s %d\n", target, count)
			}
		}

		if metrics.OldestEvent != nil {
			fmt.Fprintf(out, "\n  %-20s %s\n", "Oldest event:", metrics.OldestEvent.Format(time.RFC3339))
		}
		if metrics.NewestEvent != nil {
			fmt.Fprintf(out, "  %-20s %s\n", "Newest event:", metrics.NewestEvent.Format(time.RFC3339))
		}

		if AlertEngine == nil {
			return nil
		}
		alerts, err := AlertEngine.Evaluate()
		if err != nil {
			return fmt.Errorf("evaluating alerts: %w", err)
		}
		if len(alerts) == 0 {
			fmt.Fprintln(out, "\nNo active alerts.")
			return nil
		}
		fmt.Fprintf(out, "\n%d active alert(s):\n", len(alerts))
		for _, alert := range alerts {
			severity := string(alert.Severity)
			label := severityStyles[severity].Render("[" + strings.ToUpper(severity) + "]")
			fmt.Fprintf(out, "  %s %s\n", label, alert.Message)
		}
		return nil
	},
}

// parseSinceDuration parses a human-friendly duration string like "7d",
// "24h" or "15m" and returns the corresponding time in the past.
func parseSinceDuration(s string) (time.Time, error) {
	now := time.Now().UTC()
	s = strings.TrimSpace(s)
	if s == "" {
		return now.Add(-24 * time.Hour), nil
	}

	if strings.HasSuffix(s, "d") {
		days, err := strconv.Atoi(strings.TrimSuffix(s, "d"))
		if err != nil {
			return time.Time{}, fmt.Errorf("invalid day duration %q", s)
		}
		return now.AddDate(0, 0, -days), nil
	}

	d, err := time.ParseDuration(s)
	if err != nil {
		return time.Time{}, fmt.Errorf("unsupported duration format %q (use e.g. 7d, 24h, 15m)", s)
	}
	return now.Add(-d), nil
}

func init() {
	statsCmd.Flags().BoolVar(&statsJSON, "json", false, "Output metrics as JSON")
	statsCmd.Flags().StringVar(&statsSince, "since", "24h", "Time window (e.g. 7d, 24h, 15m)")
	rootCmd.AddCommand(statsCmd)
}
