package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "Print the users known to the service",
	Long:  "Fetches the user list once and prints it. A failed fetch is logged and prints an empty list.",
	Args:  cobra.NoArgs,
	RunE:  runList,
}

func runList(cmd *cobra.Command, args []string) error {
	as, err := newAppState()
	if err != nil {
		return err
	}
	defer as.Logger.Sync() //nolint:errcheck

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	as.Controller.Initialize(ctx)

	return writeUsers(cmd.OutOrStdout(), flagFormat, as.Controller.Snapshot().Users)
}
