package cmd

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"text/tabwriter"

	"github.com/sarchlab/xenon/manifest"
	"github.com/sarchlab/xenon/sweep"
	"github.com/spf13/cobra"
)

var expandFormat struct {
	csv  bool
	json bool
}

var expandCmd = &cobra.Command{
	Use:   "expand <sweep.yaml>",
	Short: "Print the design points of a sweep without writing files.",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		s, err := sweep.Load(args[0])
		if err != nil {
			log.Fatalf("Error: %v", err)
		}

		if err := s.Validate(false); err != nil {
			log.Fatalf("Error: %v", err)
		}

		points, err := s.Expand()
		if err != nil {
			log.Fatalf("Error: %v", err)
		}

		format := "table"
		switch {
		case expandFormat.csv:
			format = "csv"
		case expandFormat.json:
			format = "json"
		}

		if err := printPoints(os.Stdout, points, format); err != nil {
			log.Fatalf("Error: %v", err)
		}
	},
}

func init() {
	rootCmd.AddCommand(expandCmd)

	expandCmd.Flags().BoolVar(&expandFormat.csv, "csv", false,
		"print the points as CSV")
	expandCmd.Flags().BoolVar(&expandFormat.json, "json", false,
		"print the points as JSON")
	expandCmd.MarkFlagsMutuallyExclusive("csv", "json")
}

type pointJSON struct {
	Index       int               `json:"index"`
	Label       string            `json:"label"`
	Swept       map[string]string `json:"swept"`
	Assignments string            `json:"assignments"`
}

func printPoints(w io.Writer, points []*sweep.Point, format string) error {
	switch format {
	case "csv":
		cw := csv.NewWriter(w)

		if err := cw.Write([]string{"index", "label", "assignments"}); err != nil {
			return err
		}

		for _, p := range points {
			err := cw.Write([]string{
				fmt.Sprint(p.Index),
				p.Label(),
				manifest.FormatAssignments(p),
			})
			if err != nil {
				return err
			}
		}

		cw.Flush()

		return cw.Error()
	case "json":
		out := make([]pointJSON, 0, len(points))
		for _, p := range points {
			pj := pointJSON{
				Index:       p.Index,
				Label:       p.Label(),
				Swept:       make(map[string]string),
				Assignments: manifest.FormatAssignments(p),
			}

			for _, sv := range p.Swept {
				pj.Swept[sv.Key] = sv.Value.String()
			}

			out = append(out, pj)
		}

		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")

		return enc.Encode(out)
	default:
		tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "INDEX\tLABEL\tASSIGNMENTS")

		for _, p := range points {
			fmt.Fprintf(tw, "%d\t%s\t%s\n",
				p.Index, p.Label(), manifest.FormatAssignments(p))
		}

		return tw.Flush()
	}
}
