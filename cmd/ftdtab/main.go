package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/ftdtab/ftdtab/internal/app"
)

var rootCmd = &cobra.Command{
	Use:   "ftdtab",
	Short: "Raw input capture for the FTD graphics tablet",
	Long: "ftdtab takes the FTD tablet's button and pen interfaces away from the\n" +
		"kernel driver, switches the firmware into report mode, and streams the\n" +
		"raw input reports. Driver bindings are restored on exit.",
}

func init() {
	rootCmd.CompletionOptions.DisableDefaultCmd = true
	rootCmd.AddCommand(
		app.NewRunCommand(),
		app.NewListCommand(),
		app.NewHidcapCommand(),
	)
}

func main() {
	ctx, stop := signal.NotifyContext(
		context.Background(),
		os.Interrupt,
		syscall.SIGTERM, syscall.SIGINT,
	)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
