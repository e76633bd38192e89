package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/orchester-labs/orchester/internal/cli"
)

// Set via ldflags.
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	// Interrupting an install cancels the clone instead of leaving git
	// running behind us.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := cli.Execute(ctx, version, commit, date)
	stop()
	if err != nil {
		os.Exit(1)
	}
}
