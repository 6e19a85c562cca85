// Package cmd provides the command-line interface of xenon.
package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/tebeka/atexit"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "xenon",
	Short: "Xenon generates Aladdin and gem5 design sweeps.",
	Long: `Xenon expands design sweep descriptions into per-point ` +
		`configuration files and run scripts for Aladdin and gem5-Aladdin, ` +
		`and converts gem5 statistics into McPAT inputs.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags
// appropriately.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		atexit.Exit(1)
	}
}

func waitForInterrupt() {
	ctx, stop := signal.NotifyContext(
		context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fmt.Fprintln(os.Stderr, "Press Ctrl+C to exit.")
	<-ctx.Done()
}
