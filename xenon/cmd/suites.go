package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/sarchlab/xenon/benchmark/suites"
	"github.com/spf13/cobra"
)

var suitesCmd = &cobra.Command{
	Use:   "suites",
	Short: "List the built-in benchmark suites.",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		listSuites(os.Stdout)
	},
}

func init() {
	rootCmd.AddCommand(suitesCmd)
}

func listSuites(w io.Writer) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "SUITE\tBENCHMARK\tSUB DIR\tKERNELS")

	for _, name := range suites.Names() {
		benchmarks, _ := suites.Get(name)
		for _, b := range benchmarks {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n",
				name, b.Name, b.SubDir, strings.Join(b.Kernels, ","))
		}
	}

	tw.Flush()
}
