// Package writer turns planned sweep jobs into the configuration files and
// run scripts consumed by Aladdin, gem5, CACTI, and Condor.
package writer

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/sarchlab/xenon/config"
	"github.com/sarchlab/xenon/sweep"
)

// A ConfigWriter produces the files of one tool for every job of a sweep.
type ConfigWriter interface {
	// Name identifies the writer on the command line.
	Name() string

	// IsApplicable tells if the writer has anything to produce for the
	// sweep.
	IsApplicable(s *sweep.Sweep) bool

	// Write produces the files of a single job.
	Write(j *sweep.Job) error

	// Finish is called once after all jobs are written.
	Finish() error
}

// A ProgressTracker is told when a job starts and finishes being written.
type ProgressTracker interface {
	IncrementInProgress(amount uint64)
	MoveInProgressToFinished(amount uint64)
}

// Run lets every applicable writer process every job of the plan. The
// tracker may be nil.
func Run(
	writers []ConfigWriter,
	plan *sweep.Plan,
	tracker ProgressTracker,
) error {
	var active []ConfigWriter

	for _, w := range writers {
		if w.IsApplicable(plan.Sweep) {
			active = append(active, w)
		}
	}

	for _, j := range plan.Jobs {
		if tracker != nil {
			tracker.IncrementInProgress(1)
		}

		for _, w := range active {
			err := w.Write(j)
			if err != nil {
				return fmt.Errorf("%s writer, %s job %d: %w",
					w.Name(), j.Benchmark(), j.ID, err)
			}
		}

		if tracker != nil {
			tracker.MoveInProgressToFinished(1)
		}
	}

	for _, w := range active {
		if err := w.Finish(); err != nil {
			return fmt.Errorf("%s writer: %w", w.Name(), err)
		}
	}

	return nil
}

// All returns every writer in the order they should run.
func All(env config.Env) []ConfigWriter {
	return []ConfigWriter{
		NewAladdinWriter(env),
		NewGem5Writer(env),
		NewCondorWriter(),
	}
}

// Select picks writers by name, keeping the order of the names.
func Select(all []ConfigWriter, names []string) ([]ConfigWriter, error) {
	var out []ConfigWriter

	for _, name := range names {
		found := false
		for _, w := range all {
			if w.Name() == name {
				out = append(out, w)
				found = true
				break
			}
		}

		if !found {
			return nil, fmt.Errorf("unknown writer %q", name)
		}
	}

	return out, nil
}

func writeFile(path, content string) error {
	err := os.MkdirAll(filepath.Dir(path), 0755)
	if err != nil {
		return err
	}

	return os.WriteFile(path, []byte(content), 0644)
}

// writeRunscript joins the command parts into a shell script with one part
// per line.
func writeRunscript(path string, lines []string) error {
	err := writeFile(path, strings.Join(lines, " \\\n"))
	if err != nil {
		return err
	}

	return os.Chmod(path, 0755)
}

// commandValues are the substitutions available to exec commands and run
// arguments.
func commandValues(j *sweep.Job) map[string]string {
	return map[string]string{
		"source_dir": j.Sweep.SourceDir,
		"output_dir": j.Sweep.OutputDir,
		"sweep_dir":  j.Dir,
		"benchmark":  j.Benchmark(),
		"sub_dir":    j.Config.SubDir,
	}
}
