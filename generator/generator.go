// Package generator drives the benchmark Makefiles that produce the inputs
// of a sweep: dynamic traces and gem5 binaries.
package generator

import (
	"context"
	"fmt"
	"io"
	"os/exec"
	"path/filepath"

	"github.com/sarchlab/xenon/config"
	"github.com/sarchlab/xenon/sweep"
)

// A Runner builds a Makefile target.
type Runner interface {
	Run(ctx context.Context, dir, target string, out io.Writer) error
}

// MakeRunner runs make as a subprocess.
type MakeRunner struct {
	// Make is the make executable, "make" by default.
	Make string
}

// Run runs `make target` in dir. Both output streams go to out.
func (r MakeRunner) Run(
	ctx context.Context,
	dir, target string,
	out io.Writer,
) error {
	bin := r.Make
	if bin == "" {
		bin = "make"
	}

	cmd := exec.CommandContext(ctx, bin, target)
	cmd.Dir = dir
	cmd.Stdout = out
	cmd.Stderr = out

	if err := cmd.Run(); err != nil {
		return fmt.Errorf("make %s in %s: %w", target, dir, err)
	}

	return nil
}

// A Generator produces files that sweep jobs depend on.
type Generator interface {
	Name() string

	// Generate runs for all benchmarks of the sweep and returns the files
	// produced.
	Generate(ctx context.Context, s *sweep.Sweep) ([]string, error)
}

// ForSweep returns the generators requested by the sweep, in order.
func ForSweep(s *sweep.Sweep, runner Runner, env config.Env) []Generator {
	var gens []Generator

	for _, g := range s.Generate {
		switch g {
		case sweep.GenerateTrace:
			gens = append(gens, NewTraceGenerator(runner, env, false))
		case sweep.GenerateDMATrace:
			gens = append(gens, NewTraceGenerator(runner, env, true))
		case sweep.GenerateGem5Binary:
			gens = append(gens, NewGem5BinaryGenerator(runner, env))
		}
	}

	return gens
}

func benchmarkSourceDir(s *sweep.Sweep, subDir string) (string, error) {
	dir := filepath.Join(s.SourceDir, subDir)
	if filepath.IsAbs(dir) {
		return dir, nil
	}

	return filepath.Abs(dir)
}
