package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/valter-silva-au/tailstamp/internal/core"
	"github.com/valter-silva-au/tailstamp/internal/follow"
)

var (
	readSleep int
	readPoll  bool
	readLines int
	readAll   bool
)

var readCmd = &cobra.Command{
	Use:     "read FILE",
	Aliases: []string{"r"},
	Short:   "Print the end of the file, then follow incoming changes",
	Long: `Print the last lines of FILE (or all of it with --all), then keep printing
anything appended to it until interrupted.

Growth is detected through filesystem notifications, with --sleep as the
fallback wakeup interval. Use --poll on filesystems that do not deliver
notifications, such as some network mounts.`,
	Args: cobra.ExactArgs(1),
	RunE: runRead,
}

// addReadFlags registers the follow flags. They are shared by the root
// command, which defaults to reading.
func addReadFlags(cmd *cobra.Command) {
	cfg := core.DefaultConfig()
	cmd.Flags().IntVarP(&readSleep, "sleep", "s", cfg.Read.Sleep, "Sleep/poll interval in seconds")
	cmd.Flags().BoolVarP(&readPoll, "poll", "p", cfg.Read.Poll, "Poll for changes instead of using filesystem notifications")
	cmd.Flags().IntVarP(&readLines, "lines", "n", cfg.Read.Lines, "Number of trailing lines to print before following")
	cmd.Flags().BoolVarP(&readAll, "all", "a", false, "Print the whole file before following")
}

// readOptions builds the follow config from the loaded config, overridden
// by any flags set on cmd.
func readOptions(cmd *cobra.Command, path string) (follow.Config, error) {
	rc := currentConfig().Read
	if cmd.Flags().Changed("sleep") {
		rc.Sleep = readSleep
	}
	if cmd.Flags().Changed("poll") {
		rc.Poll = readPoll
	}
	if cmd.Flags().Changed("lines") {
		rc.Lines = readLines
	}
	if rc.Sleep < 0 {
		return follow.Config{}, fmt.Errorf("--sleep must not be negative, got %d", rc.Sleep)
	}

	strategy := follow.StrategyNotify
	if rc.Poll {
		strategy = follow.StrategyPoll
	}
	return follow.Config{
		Path:      path,
		Lines:     rc.Lines,
		FromStart: readAll,
		Sleep:     time.Duration(rc.Sleep) * time.Second,
		Strategy:  strategy,
		Notices:   cmd.ErrOrStderr(),
	}, nil
}

func runRead(cmd *cobra.Command, args []string) error {
	path, err := core.ExpandPath(args[0])
	if err != nil {
		return err
	}
	if err := core.ValidateFollowTarget(path); err != nil {
		return fmt.Errorf("'%s' is %w!", path, core.ErrNotAFile)
	}

	cfg, err := readOptions(cmd, path)
	if err != nil {
		return err
	}
	fl, err := follow.New(cfg)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	out := cmd.OutOrStdout()
	printStatus(out, "Following %q", path)
	return fl.Follow(ctx, out)
}

func init() {
	addReadFlags(readCmd)
	rootCmd.AddCommand(readCmd)
}
