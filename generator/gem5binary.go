package generator

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/sarchlab/xenon/config"
	"github.com/sarchlab/xenon/sweep"
)

// Gem5BinaryGenerator builds the plain and the accelerated gem5 binaries of
// every benchmark. The binaries stay in the source tree.
type Gem5BinaryGenerator struct {
	runner Runner
	env    config.Env
}

// NewGem5BinaryGenerator creates a Gem5BinaryGenerator.
func NewGem5BinaryGenerator(runner Runner, env config.Env) *Gem5BinaryGenerator {
	return &Gem5BinaryGenerator{runner: runner, env: env}
}

// Name returns the generate step that the generator implements.
func (g *Gem5BinaryGenerator) Name() string {
	return sweep.GenerateGem5Binary
}

// Generate builds the binaries. Build output is collected in a log file,
// which is named in the error if any build fails.
func (g *Gem5BinaryGenerator) Generate(
	ctx context.Context,
	s *sweep.Sweep,
) ([]string, error) {
	if err := g.env.RequireTracer(); err != nil {
		return nil, err
	}

	buildLog, err := os.CreateTemp("", "xenon_gem5_build_*.log")
	if err != nil {
		return nil, err
	}
	defer buildLog.Close()

	var binaries []string

	for _, b := range s.Benchmarks {
		log.Printf("Building gem5 binaries for %s", b.Name)

		src, err := benchmarkSourceDir(s, b.SubDir)
		if err != nil {
			return binaries, err
		}

		steps := []struct {
			target, binary, failure string
		}{
			{"clean-gem5", "", "failed to clean the existing gem5 build"},
			{"gem5-cpu", b.Name + "-gem5",
				"failed to build non-accelerated gem5 binary"},
			{"gem5-accel", b.Name + "-gem5-accel",
				"failed to build accelerated gem5 binary"},
		}

		for _, step := range steps {
			err := g.runner.Run(ctx, src, step.target, buildLog)
			if err != nil {
				return binaries, fmt.Errorf("%s: %s, see %s: %w",
					b.Name, step.failure, buildLog.Name(), err)
			}

			if step.binary != "" {
				binaries = append(binaries, step.binary)
			}
		}
	}

	os.Remove(buildLog.Name())

	return binaries, nil
}
