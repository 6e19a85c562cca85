package writer

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/sarchlab/xenon/benchmark"
	"github.com/sarchlab/xenon/config"
	"github.com/sarchlab/xenon/params"
	"github.com/sarchlab/xenon/sweep"
)

// AladdinWriter writes the accelerator configuration files. For standalone
// Aladdin sweeps it also writes the run scripts.
type AladdinWriter struct {
	env config.Env
}

// NewAladdinWriter creates an AladdinWriter.
func NewAladdinWriter(env config.Env) *AladdinWriter {
	return &AladdinWriter{env: env}
}

// Name returns "aladdin".
func (w *AladdinWriter) Name() string {
	return "aladdin"
}

// IsApplicable returns true for every simulator, as gem5 also reads the
// accelerator configurations.
func (w *AladdinWriter) IsApplicable(s *sweep.Sweep) bool {
	switch s.Simulator {
	case sweep.Aladdin, sweep.Gem5CPU, sweep.Gem5Cache:
		return true
	}

	return false
}

// Write writes <bench>.cfg, one <kernel>.cfg per kernel if the benchmark
// separates its kernels, and run.sh for standalone Aladdin.
func (w *AladdinWriter) Write(j *sweep.Job) error {
	c := j.Config

	path := filepath.Join(j.Dir, c.Name+".cfg")
	if err := writeFile(path, AladdinConfig(c)); err != nil {
		return err
	}

	if c.SeparateKernels {
		for _, k := range c.Kernels {
			kpath := filepath.Join(j.Dir, k+".cfg")
			if err := writeFile(kpath, AladdinConfig(c.ForKernel(k))); err != nil {
				return err
			}
		}
	}

	if j.Sweep.Simulator != sweep.Aladdin {
		return nil
	}

	if err := w.env.RequireAladdin(); err != nil {
		return err
	}

	return w.writeRunscript(j)
}

// Finish does nothing.
func (w *AladdinWriter) Finish() error {
	return nil
}

func (w *AladdinWriter) writeRunscript(j *sweep.Job) error {
	lines := []string{
		"#!/bin/sh",
		w.env.AladdinBinary(),
		filepath.Join("outputs", j.Benchmark()),
		filepath.Join("..", "inputs", "dynamic_trace.gz"),
		j.Benchmark() + ".cfg",
		">" + filepath.Join("outputs", "stdout"),
		"2>" + filepath.Join("outputs", "stderr"),
	}

	if err := os.MkdirAll(j.OutputsDir(), 0755); err != nil {
		return err
	}

	return writeRunscript(filepath.Join(j.Dir, "run.sh"), lines)
}

// AladdinConfig renders the accelerator configuration of a benchmark.
func AladdinConfig(c *benchmark.Config) string {
	b := &strings.Builder{}

	for _, name := range []string{
		params.CycleTime, params.Pipelining, params.ReadyMode,
	} {
		fmt.Fprintf(b, "%s,%s\n", name, c.Formatted(name))
	}

	for _, a := range c.Arrays {
		writeArray(b, a)
	}

	for _, l := range c.Loops {
		fmt.Fprintf(b, "unrolling,%s,%s,%d\n", l.Function, l.Name, l.Unrolling)
	}

	return b.String()
}

func writeArray(b *strings.Builder, a benchmark.ArrayConfig) {
	switch {
	case a.MemoryType == params.SPAD && !a.IsHostArray:
		fmt.Fprintf(b, "partition,%s,%s,%d,%d",
			a.PartitionType, a.QualifiedName(), a.Bytes(), a.WordLength)

		if a.PartitionType == params.Cyclic || a.PartitionType == params.Block {
			fmt.Fprintf(b, ",%d", a.PartitionFactor)
		}
	case a.MemoryType == params.Cache && a.IsHostArray:
		fmt.Fprintf(b, "cache,%s,%d,%d",
			a.QualifiedName(), a.Bytes(), a.WordLength)
	default:
		return
	}

	b.WriteString("\n")
}
