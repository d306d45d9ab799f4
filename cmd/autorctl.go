package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/acervo/autorctl/internal/cmd"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "autorctl",
	Short: "Fetch authors from the acervo backend",
}

func Execute() {
	// Create a context that can be cancelled by interrupt signals
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	err := rootCmd.ExecuteContext(ctx)
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	cmd.AddCommands(rootCmd)
}
