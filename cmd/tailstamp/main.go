package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	app "github.com/valter-silva-au/tailstamp/internal"
	"github.com/valter-silva-au/tailstamp/internal/cli"
)

// Set by goreleaser ldflags at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	os.Exit(run())
}

func run() int {
	cli.SetVersionInfo(version, commit, date)

	// The only interrupt handler; installed once, it cancels every loop.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := app.NewApp(app.ResolveBasePath())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing tailstamp: %v\n", err)
		return 1
	}
	defer a.Close()

	if err := cli.Execute(ctx); err != nil {
		if errors.Is(err, context.Canceled) {
			return 0
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}
