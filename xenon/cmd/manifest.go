package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/sarchlab/xenon/manifest"
	"github.com/spf13/cobra"
)

var manifestOpts struct {
	benchmark string
	runID     string
	limit     int
	json      bool
}

var manifestCmd = &cobra.Command{
	Use:   "manifest <manifest.sqlite3>",
	Short: "List the design points recorded in a manifest.",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		reader, err := manifest.NewReader(args[0])
		if err != nil {
			log.Fatalf("Error: %v", err)
		}
		defer reader.Close()

		err = listManifest(cmd.Context(), reader, os.Stdout)
		if err != nil {
			log.Fatalf("Error: %v", err)
		}
	},
}

func init() {
	rootCmd.AddCommand(manifestCmd)

	f := manifestCmd.Flags()
	f.StringVar(&manifestOpts.benchmark, "benchmark", "",
		"only list the points of this benchmark")
	f.StringVar(&manifestOpts.runID, "run", "", "only list the points of this run")
	f.IntVar(&manifestOpts.limit, "limit", 0, "maximum number of points to list")
	f.BoolVar(&manifestOpts.json, "json", false, "print the points as JSON")
}

func manifestQuery() manifest.QueryParams {
	q := manifest.QueryParams{
		OrderBy: "RunID, PointIndex, Benchmark",
		Limit:   manifestOpts.limit,
	}

	var conds []string

	if manifestOpts.benchmark != "" {
		conds = append(conds, "Benchmark = ?")
		q.Args = append(q.Args, manifestOpts.benchmark)
	}

	if manifestOpts.runID != "" {
		conds = append(conds, "RunID = ?")
		q.Args = append(q.Args, manifestOpts.runID)
	}

	q.Where = strings.Join(conds, " AND ")

	return q
}

func listManifest(
	ctx context.Context,
	reader manifest.DataReader,
	w io.Writer,
) error {
	points, total, err := manifest.ReadPoints(ctx, reader, manifestQuery())
	if err != nil {
		return err
	}

	if manifestOpts.json {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")

		return enc.Encode(points)
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "BENCHMARK\tJOB\tPOINT\tLABEL\tDIR")

	for _, p := range points {
		fmt.Fprintf(tw, "%s\t%d\t%d\t%s\t%s\n",
			p.Benchmark, p.JobID, p.PointIndex, p.Label, p.Dir)
	}

	if err := tw.Flush(); err != nil {
		return err
	}

	if total > len(points) {
		fmt.Fprintf(w, "%d of %d points listed\n", len(points), total)
	}

	return nil
}
