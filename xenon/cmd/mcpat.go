package cmd

import (
	"fmt"
	"io"
	"log"
	"os"

	"github.com/sarchlab/xenon/mcpat"
	"github.com/spf13/cobra"
)

type mcpatOptions struct {
	multiplePhases bool
	aggregate      bool
	quiet          bool
	dir            string
	out            string
}

var mcpatOpts mcpatOptions

var mcpatCmd = &cobra.Command{
	Use:   "mcpat <stats.txt> <config.json> <template.xml>",
	Short: "Convert gem5 statistics into a McPAT input file.",
	Long: `Mcpat fills the config.* and stats.* expressions of a McPAT ` +
		`template with values from a gem5 config.json and stats dump.`,
	Args: cobra.ExactArgs(3),
	Run: func(cmd *cobra.Command, args []string) {
		err := runMcpat(args[0], args[1], args[2], mcpatOpts, os.Stdout)
		if err != nil {
			log.Fatalf("Error: %v", err)
		}
	},
}

func init() {
	rootCmd.AddCommand(mcpatCmd)

	f := mcpatCmd.Flags()
	f.BoolVarP(&mcpatOpts.multiplePhases, "multiple_phases", "m", false,
		"the stats file contains one dump per program phase")
	f.BoolVarP(&mcpatOpts.aggregate, "aggregate", "a", false,
		"with multiple phases, sum all phases into one McPAT input")
	f.BoolVarP(&mcpatOpts.quiet, "quiet", "q", false,
		"don't print status messages")
	f.StringVarP(&mcpatOpts.dir, "dir", "d", ".",
		"McPAT input file output directory")
	f.StringVarP(&mcpatOpts.out, "out", "o", mcpat.DefaultOutput,
		"McPAT input file name")
}

func runMcpat(
	statsFile, configFile, templateFile string,
	opts mcpatOptions,
	out io.Writer,
) error {
	logOut := out
	if opts.quiet {
		logOut = nil
	}

	if logOut != nil {
		fmt.Fprintf(logOut, "Reading config from: %s\n", configFile)
	}

	cfg, err := mcpat.LoadConfig(configFile)
	if err != nil {
		return err
	}

	if logOut != nil {
		fmt.Fprintf(logOut, "Reading McPAT template from: %s\n", templateFile)
	}

	tmpl, err := mcpat.LoadTemplate(templateFile)
	if err != nil {
		return err
	}

	mode := mcpat.SingleDump
	if opts.multiplePhases {
		mode = mcpat.MultiplePhases
		if opts.aggregate {
			mode = mcpat.AggregatePhases
		}
	}

	f, err := os.Open(statsFile)
	if err != nil {
		return err
	}
	defer f.Close()

	c := &mcpat.Converter{
		Template: tmpl,
		Config:   cfg,
		Mode:     mode,
		OutDir:   opts.dir,
		OutName:  opts.out,
		Log:      logOut,
	}

	_, err = c.Run(f)

	return err
}
