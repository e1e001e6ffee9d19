package cli

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"
	"github.com/valter-silva-au/tailstamp/internal/core"
	"github.com/valter-silva-au/tailstamp/internal/observability"
)

var (
	writeInterval int
	writeMode     string
	writeLock     bool
)

var writeCmd = &cobra.Command{
	Use:     "write FILE",
	Aliases: []string{"w"},
	Short:   "Append the current time to the file at fixed intervals",
	Long: `Append a line with the current local time (HH:MM:SS.mmm) to FILE every
--interval milliseconds until interrupted. FILE is created if needed.

Coordination modes:
  none     write without locking; only safe with a single writer
  lock     take a non-blocking exclusive lock over [0, size+line) per write;
           if another writer holds it, the tick is skipped
  recheck  like lock, and also skip the tick if the file grew between
           measuring it and acquiring the lock

Skipped ticks are reported and never retried.`,
	Args: cobra.ExactArgs(1),
	RunE: runWrite,
}

// writeOptions resolves the interval and mode from the loaded config,
// overridden by any flags set on cmd.
func writeOptions(cmd *cobra.Command) (time.Duration, core.CoordinationMode, error) {
	wc := currentConfig().Write
	if cmd.Flags().Changed("interval") {
		wc.Interval = writeInterval
	}
	if cmd.Flags().Changed("mode") {
		wc.Mode = writeMode
	}
	if writeLock {
		if cmd.Flags().Changed("mode") && wc.Mode != core.ModeLockRecheck.String() {
			return 0, core.ModeNone, fmt.Errorf("--lock conflicts with --mode %s", wc.Mode)
		}
		wc.Mode = core.ModeLockRecheck.String()
	}

	if wc.Interval < 0 {
		return 0, core.ModeNone, fmt.Errorf("--interval must not be negative, got %d", wc.Interval)
	}
	mode, err := core.ParseCoordinationMode(wc.Mode)
	if err != nil {
		return 0, core.ModeNone, err
	}
	return time.Duration(wc.Interval) * time.Millisecond, mode, nil
}

func runWrite(cmd *cobra.Command, args []string) error {
	path, err := core.ExpandPath(args[0])
	if err != nil {
		return err
	}
	interval, mode, err := writeOptions(cmd)
	if err != nil {
		return err
	}

	f, err := core.OpenTarget(path)
	if err != nil {
		return err
	}
	defer f.Close()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	out := cmd.OutOrStdout()
	printStatus(out, "Writing to: %q every %d milliseconds.", path, interval.Milliseconds())

	app := core.NewAppender(f, mode, core.WithEcho(out))
	sched := &core.Scheduler{
		Interval:  interval,
		Attempt:   app.Append,
		OnAttempt: attemptReporter(cmd, path, out),
	}
	return sched.Start(ctx)
}

// attemptReporter returns the scheduler callback that surfaces each attempt
// to the operator, the diagnostic log and the event log.
func attemptReporter(cmd *cobra.Command, path string, out io.Writer) func(*core.Attempt) {
	logger := Logger
	if logger == nil {
		logger = observability.NewLogger(cmd.ErrOrStderr(), currentConfig().Log.Level)
	}

	return func(att *core.Attempt) {
		observability.LogAttempt(logger, path, att)

		switch att.Outcome {
		case core.OutcomeContention:
			printWarning(out, "contention: lock on [0, %d) held elsewhere, skipping tick", att.LockLen)
		case core.OutcomeRace:
			printWarning(out, "race: size changed %d -> %d, skipping tick", att.Size, att.RecheckSize)
		}

		if EventLog != nil {
			if err := EventLog.Write(observability.AttemptEvent(path, att)); err != nil {
				logger.Warn("recording write attempt", "error", err)
			}
		}
	}
}

func init() {
	cfg := core.DefaultConfig()
	writeCmd.Flags().IntVarP(&writeInterval, "interval", "i", cfg.Write.Interval, "Write interval in milliseconds")
	writeCmd.Flags().StringVarP(&writeMode, "mode", "m", cfg.Write.Mode, "Coordination mode: none, lock or recheck")
	writeCmd.Flags().BoolVarP(&writeLock, "lock", "l", false, "Shorthand for --mode recheck")
	rootCmd.AddCommand(writeCmd)
}
