package generator

import (
	"context"
	"io"
	"log"
	"os"
	"path/filepath"

	"github.com/sarchlab/xenon/config"
	"github.com/sarchlab/xenon/sweep"
)

// DynamicTrace is the name of the trace file that the instrumented binaries
// produce.
const DynamicTrace = "dynamic_trace.gz"

// TraceGenerator builds instrumented binaries and runs them to obtain the
// dynamic traces. The benchmark Makefiles must provide the clean-trace,
// trace-binary, dma-trace-binary, and run-trace targets.
type TraceGenerator struct {
	runner Runner
	env    config.Env
	dma    bool
}

// NewTraceGenerator creates a TraceGenerator. With dma set, the binaries are
// built for DMA-based memory.
func NewTraceGenerator(runner Runner, env config.Env, dma bool) *TraceGenerator {
	return &TraceGenerator{runner: runner, env: env, dma: dma}
}

// Name returns the generate step that the generator implements.
func (g *TraceGenerator) Name() string {
	if g.dma {
		return sweep.GenerateDMATrace
	}

	return sweep.GenerateTrace
}

// Generate produces a trace for every benchmark and moves it into the
// benchmark's inputs directory. Benchmarks that fail to build are skipped.
func (g *TraceGenerator) Generate(
	ctx context.Context,
	s *sweep.Sweep,
) ([]string, error) {
	if err := g.env.RequireTracer(); err != nil {
		return nil, err
	}

	target := "trace-binary"
	if g.dma {
		target = "dma-trace-binary"
	}

	var traces []string

	for _, b := range s.Benchmarks {
		log.Printf("Building traces for %s", b.Name)

		src, err := benchmarkSourceDir(s, b.SubDir)
		if err != nil {
			return traces, err
		}

		if !g.make(ctx, src, "clean-trace",
			"Failed to clean the existing trace.") ||
			!g.make(ctx, src, target,
				"Failed to build the instrumented binary. "+
					"Skipping trace generation.") ||
			!g.make(ctx, src, "run-trace",
				"Failed to execute the instrumented binary "+
					"and generate the trace.") {
			continue
		}

		inputs, err := filepath.Abs(
			filepath.Join(s.OutputDir, b.Name, "inputs"))
		if err != nil {
			return traces, err
		}

		if err := os.MkdirAll(inputs, 0755); err != nil {
			return traces, err
		}

		dst := filepath.Join(inputs, DynamicTrace)
		if err := os.Rename(filepath.Join(src, DynamicTrace), dst); err != nil {
			return traces, err
		}
		traces = append(traces, dst)

		g.make(ctx, src, "clean-trace",
			"Failed to clean up after building and generating traces.")
	}

	return traces, nil
}

func (g *TraceGenerator) make(
	ctx context.Context,
	dir, target, failure string,
) bool {
	err := g.runner.Run(ctx, dir, target, io.Discard)
	if err != nil {
		log.Printf("[ERROR] %s %v", failure, err)
		return false
	}

	return true
}
