package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var (
	appVersion = "dev"
	appCommit  = "none"
	appDate    = "unknown"
)

// SetVersionInfo sets the version information injected via ldflags.
func SetVersionInfo(version, commit, date string) {
	appVersion = version
	appCommit = commit
	appDate = date
}

var rootCmd = &cobra.Command{
	Use:   "tailstamp [command] FILE",
	Short: "Follow a file, or append timestamps to it at intervals",
	Long: `tailstamp reads, follows and prints out any changes in the specified file,
or appends the current time to the file at fixed intervals.

Without a command, FILE is followed as with "tailstamp read FILE".

Writers can coordinate through advisory byte-range locks (see "tailstamp
write --help"), which makes tailstamp useful for exercising concurrent
appenders and readers of a shared file.`,
	Args:          cobra.ExactArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runRead,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "tailstamp %s\ncommit: %s\nbuilt:  %s\n", appVersion, appCommit, appDate)
	},
}

func init() {
	addReadFlags(rootCmd)
	rootCmd.AddCommand(versionCmd)
}

// Execute runs the root command. ctx is cancelled by the interrupt handler.
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}
