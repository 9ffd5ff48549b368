// main.go - Entry point for the rosterctl command line client

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go-training-backend/cli"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := cli.RootCmd(cli.Options{}).ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		stop()
		os.Exit(1)
	}
}
