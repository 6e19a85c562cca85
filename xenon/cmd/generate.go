package cmd

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"

	"github.com/sarchlab/xenon/config"
	"github.com/sarchlab/xenon/generator"
	"github.com/sarchlab/xenon/manifest"
	"github.com/sarchlab/xenon/monitoring"
	"github.com/sarchlab/xenon/sweep"
	"github.com/sarchlab/xenon/writer"
	"github.com/spf13/cobra"
)

type generateOptions struct {
	envFiles     []string
	writers      []string
	manifestPath string
	noManifest   bool
	clickHouse   string
	monitor      bool
	monitorPort  int
	openBrowser  bool
	skipGenerate bool
}

var generateOpts generateOptions

var generateCmd = &cobra.Command{
	Use:   "generate <sweep.yaml>",
	Short: "Generate the configuration files of a sweep.",
	Long: `Generate runs the generation steps requested by the sweep, ` +
		`expands it into design points, and writes the configuration files ` +
		`and run scripts of every point. The points are recorded in a ` +
		`sqlite manifest in the output directory.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		err := runGenerate(cmd.Context(), args[0], generateOpts, os.Stdout)
		if err != nil {
			log.Fatalf("Error: %v", err)
		}
	},
}

func init() {
	rootCmd.AddCommand(generateCmd)

	f := generateCmd.Flags()
	f.StringSliceVar(&generateOpts.envFiles, "env", nil,
		".env files to load, ./.env if present by default")
	f.StringSliceVar(&generateOpts.writers, "writers", nil,
		"writers to run (aladdin, gem5, condor), all by default")
	f.StringVar(&generateOpts.manifestPath, "manifest", "",
		"manifest path without the .sqlite3 extension")
	f.BoolVar(&generateOpts.noManifest, "no-manifest", false,
		"do not record the design points")
	f.StringVar(&generateOpts.clickHouse, "clickhouse", "",
		"record the design points to the ClickHouse server at this DSN")
	f.BoolVar(&generateOpts.monitor, "monitor", false,
		"serve the progress and the manifest over HTTP")
	f.IntVar(&generateOpts.monitorPort, "monitor-port", 0,
		"port of the monitoring server, random by default")
	f.BoolVar(&generateOpts.openBrowser, "open", false,
		"open the monitoring page in a browser")
	f.BoolVar(&generateOpts.skipGenerate, "skip-generate", false,
		"skip the trace and binary generation steps")
}

func runGenerate(
	ctx context.Context,
	path string,
	opts generateOptions,
	out io.Writer,
) error {
	env, err := config.LoadEnv(opts.envFiles...)
	if err != nil {
		return err
	}

	s, err := sweep.Load(path)
	if err != nil {
		return err
	}

	if err := s.Validate(true); err != nil {
		return err
	}

	if !opts.skipGenerate {
		if err := runGenerators(ctx, s, env, out); err != nil {
			return err
		}
	}

	plan, err := s.Plan()
	if err != nil {
		return err
	}

	writers := writer.All(env)
	if len(opts.writers) > 0 {
		writers, err = writer.Select(writers, opts.writers)
		if err != nil {
			return err
		}
	}

	var monitor *monitoring.Monitor
	var tracker writer.ProgressTracker

	if opts.monitor {
		monitor = newMonitor(opts.monitorPort)
		monitor.RegisterSweep(s)

		url := monitor.StartServer()
		if opts.openBrowser {
			monitoring.OpenInBrowser(url)
		}

		bar := monitor.CreateProgressBar(
			"Writing "+s.Name, uint64(len(plan.Jobs)))
		defer monitor.CompleteProgressBar(bar)

		tracker = bar
	}

	if err := writer.Run(writers, plan, tracker); err != nil {
		return err
	}

	fmt.Fprintf(out, "Wrote %d jobs of %d points to %s\n",
		len(plan.Jobs), len(plan.Points), s.OutputDir)

	dbFile, err := recordManifest(s, plan, path, opts)
	if err != nil {
		return err
	}

	if monitor != nil {
		if dbFile != "" {
			reader, err := manifest.NewReader(dbFile)
			if err != nil {
				return err
			}
			defer reader.Close()

			monitor.RegisterManifest(reader)
		}

		waitForInterrupt()
	}

	return nil
}

func runGenerators(
	ctx context.Context,
	s *sweep.Sweep,
	env config.Env,
	out io.Writer,
) error {
	for _, g := range generator.ForSweep(s, generator.MakeRunner{}, env) {
		fmt.Fprintf(out, "Running %s generation\n", g.Name())

		files, err := g.Generate(ctx, s)
		if err != nil {
			return fmt.Errorf("%s generation: %w", g.Name(), err)
		}

		fmt.Fprintf(out, "%s generation produced %d files\n",
			g.Name(), len(files))
	}

	return nil
}

// newMonitor creates a monitor that listens on port, or on a random port if
// port is 0.
func newMonitor(port int) *monitoring.Monitor {
	monitor := monitoring.NewMonitor()
	if port != 0 {
		monitor = monitor.WithPortNumber(port)
	}

	return monitor
}

// recordManifest stores the plan and returns the sqlite file written, if any.
func recordManifest(
	s *sweep.Sweep,
	plan *sweep.Plan,
	sweepFile string,
	opts generateOptions,
) (string, error) {
	var recorder manifest.DataRecorder
	var dbFile string

	switch {
	case opts.clickHouse != "":
		r, err := manifest.NewClickHouseRecorder(opts.clickHouse)
		if err != nil {
			return "", err
		}
		recorder = r
	case opts.noManifest:
		return "", nil
	default:
		dbPath := opts.manifestPath
		if dbPath == "" {
			dbPath = filepath.Join(s.OutputDir, manifest.DefaultName())
		}

		if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
			return "", err
		}

		recorder = manifest.New(dbPath)
		dbFile = dbPath + ".sqlite3"
	}

	runID := manifest.NewRunID()

	execRecorder := manifest.NewExecRecorder(recorder)
	execRecorder.Start()
	execRecorder.Set("Sweep File", sweepFile)
	execRecorder.Set("Run ID", runID)

	manifest.Record(recorder, plan, runID)
	execRecorder.End()

	return dbFile, recorder.Close()
}
