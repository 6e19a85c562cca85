package cmd

import (
	"log"

	"github.com/sarchlab/xenon/manifest"
	"github.com/sarchlab/xenon/monitoring"
	"github.com/spf13/cobra"
)

var serveOpts struct {
	port        int
	openBrowser bool
}

var serveCmd = &cobra.Command{
	Use:   "serve <manifest.sqlite3>",
	Short: "Serve a manifest over the monitoring API.",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		reader, err := manifest.NewReader(args[0])
		if err != nil {
			log.Fatalf("Error: %v", err)
		}
		defer reader.Close()

		m := monitoring.NewMonitor().WithPortNumber(serveOpts.port)
		m.RegisterManifest(reader)

		url := m.StartServer()
		if serveOpts.openBrowser {
			monitoring.OpenInBrowser(url)
		}

		waitForInterrupt()
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().IntVar(&serveOpts.port, "port", 0,
		"port of the server, random by default")
	serveCmd.Flags().BoolVar(&serveOpts.openBrowser, "open", false,
		"open the page in a browser")
}
