package writer

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/ini.v1"

	"github.com/sarchlab/xenon/benchmark"
	"github.com/sarchlab/xenon/config"
	"github.com/sarchlab/xenon/params"
	"github.com/sarchlab/xenon/sweep"
)

// ErrBinariesNotBuilt is returned when a gem5-cpu sweep lacks the benchmark
// binaries.
var ErrBinariesNotBuilt = errors.New(
	"benchmarks have not been completely built, " +
		"did you add gem5_binary to the generate steps?")

// Gem5Writer writes the gem5 system configuration, the CACTI inputs, and the
// run script of every job of a gem5 sweep.
type Gem5Writer struct {
	env config.Env
}

// NewGem5Writer creates a Gem5Writer.
func NewGem5Writer(env config.Env) *Gem5Writer {
	return &Gem5Writer{env: env}
}

// Name returns "gem5".
func (w *Gem5Writer) Name() string {
	return "gem5"
}

// IsApplicable returns true for the gem5 simulators.
func (w *Gem5Writer) IsApplicable(s *sweep.Sweep) bool {
	return s.Simulator == sweep.Gem5CPU || s.Simulator == sweep.Gem5Cache
}

// Write writes gem5.cfg, the CACTI configurations, the required file links,
// and run.sh.
func (w *Gem5Writer) Write(j *sweep.Job) error {
	if err := w.env.RequireAladdin(); err != nil {
		return err
	}

	if err := os.MkdirAll(j.OutputsDir(), 0755); err != nil {
		return err
	}

	cfg, err := Gem5Config(j)
	if err != nil {
		return err
	}

	if err := saveINI(cfg, filepath.Join(j.Dir, "gem5.cfg")); err != nil {
		return fmt.Errorf("failed to write gem5.cfg: %w", err)
	}

	if err := w.writeCactiConfigs(j); err != nil {
		return err
	}

	if err := linkRequiredFiles(j); err != nil {
		return err
	}

	return w.writeRunscript(j)
}

// Finish does nothing.
func (w *Gem5Writer) Finish() error {
	return nil
}

type cactiPaths struct {
	cache, tlb, queue string
}

func cactiConfigPaths(j *sweep.Job) cactiPaths {
	prefix := filepath.Join(j.Dir, j.Benchmark())

	return cactiPaths{
		cache: prefix + "-cache.cfg",
		tlb:   prefix + "-tlb.cfg",
		queue: prefix + "-queue.cfg",
	}
}

// Gem5Config builds the gem5.cfg of a job. The default section carries the
// default of every parameter. Each accelerator gets a section of its own.
func Gem5Config(j *sweep.Job) (*ini.File, error) {
	cfg := ini.Empty()

	def := cfg.Section(ini.DefaultSection)
	for _, p := range params.All() {
		if _, err := def.NewKey(p.Name, p.Format(p.Default)); err != nil {
			return nil, err
		}
	}

	c := j.Config
	if !c.SeparateKernels {
		err := addAccelerator(cfg, j,
			strings.ReplaceAll(c.Name, "-", ""), c.Name, c.MainID)
		if err != nil {
			return nil, err
		}

		return cfg, nil
	}

	for _, k := range c.Kernels {
		err := addAccelerator(cfg, j,
			strings.ReplaceAll(k, "-", ""), k, c.KernelID(k))
		if err != nil {
			return nil, err
		}
	}

	return cfg, nil
}

func addAccelerator(
	cfg *ini.File,
	j *sweep.Job,
	section, cfgName string,
	id int,
) error {
	sec, err := cfg.NewSection(section)
	if err != nil {
		return err
	}

	cacti := cactiConfigPaths(j)
	keys := [][2]string{
		{params.MemoryType, j.SweepValue(params.MemoryType).String()},
		{"accelerator_id", strconv.Itoa(id)},
		{"bench_name", filepath.Join(j.OutputsDir(), cfgName)},
		{"trace_file_name", filepath.Join(j.Dir, "..", "inputs",
			"dynamic_trace.gz")},
		{"config_file_name", filepath.Join(j.Dir, cfgName+".cfg")},
		{"cacti_cache_config", cacti.cache},
		{"cacti_tlb_config", cacti.tlb},
		{"use_db", "False"},
		{"experiment_name", ""},
	}

	for _, name := range params.BenchmarkParams {
		keys = append(keys, [2]string{name, j.Config.Formatted(name)})
	}

	for _, kv := range keys {
		if _, err := sec.NewKey(kv[0], kv[1]); err != nil {
			return err
		}
	}

	return nil
}

func (w *Gem5Writer) writeCactiConfigs(j *sweep.Job) error {
	paths := cactiConfigPaths(j)
	cache, tlb, queue := CactiConfigs(j.Config)

	for path, c := range map[string]CactiConfig{
		paths.cache: cache,
		paths.tlb:   tlb,
		paths.queue: queue,
	} {
		if err := writeFile(path, c.String()); err != nil {
			return err
		}
	}

	return nil
}

func sourceDir(j *sweep.Job) (string, error) {
	dir := filepath.Join(j.Sweep.SourceDir, j.Config.SubDir)
	if filepath.IsAbs(dir) {
		return dir, nil
	}

	return filepath.Abs(dir)
}

func linkRequiredFiles(j *sweep.Job) error {
	src, err := sourceDir(j)
	if err != nil {
		return err
	}

	for _, f := range j.Config.RequiredFiles {
		err := symlink(filepath.Join(src, f),
			filepath.Join(j.Dir, filepath.Base(f)))
		if err != nil {
			return err
		}
	}

	if j.Sweep.Simulator != sweep.Gem5CPU {
		return nil
	}

	for _, bin := range gem5Binaries(j.Config.Benchmark) {
		target := filepath.Join(src, bin)
		if _, err := os.Stat(target); err != nil {
			return fmt.Errorf("%w: %s", ErrBinariesNotBuilt, target)
		}
	}

	for _, bin := range gem5Binaries(j.Config.Benchmark) {
		err := symlink(filepath.Join(src, bin), filepath.Join(j.Dir, bin))
		if err != nil {
			return err
		}
	}

	return nil
}

// saveINI writes cfg in the layout gem5 reads: an explicit [DEFAULT] header
// and "key = value" lines without alignment. ini.v1 only exposes these
// options as package globals.
func saveINI(cfg *ini.File, path string) error {
	ini.DefaultHeader = true
	ini.PrettyFormat = false
	ini.PrettyEqual = true

	return cfg.SaveTo(path)
}

func gem5Binaries(b *benchmark.Benchmark) []string {
	return []string{b.Name + "-gem5", b.Name + "-gem5-accel"}
}

// symlink creates a link, replacing any stale link at the same place.
func symlink(target, link string) error {
	if _, err := os.Lstat(link); err == nil {
		if err := os.Remove(link); err != nil {
			return err
		}
	}

	return os.Symlink(target, link)
}

// SysClock converts a cycle time in nanoseconds to a gem5 clock string.
func SysClock(cycleTime int64) (string, error) {
	if cycleTime <= 0 {
		return "", fmt.Errorf("cycle time %d must be positive", cycleTime)
	}

	return fmt.Sprintf("%dMHz", int64(1000.0/float64(cycleTime))), nil
}

func (w *Gem5Writer) writeRunscript(j *sweep.Job) error {
	c := j.Config

	clock, err := SysClock(c.Int(params.CycleTime))
	if err != nil {
		return err
	}

	numCPUs := 0
	if j.Sweep.Simulator == sweep.Gem5CPU {
		numCPUs = 1
	}

	l2Flag := ""
	if c.Int(params.EnableL2) != 0 {
		l2Flag = "--l2cache"
	}

	perfectBusFlag := ""
	if c.Int(params.PerfectBus) != 0 {
		perfectBusFlag = "--is_perfect_bus=1 "
	}

	memFlag := "--mem-type=DDR3_1600_8x8 "
	perfectL1Flag := ""
	if c.Int(params.PerfectL1) != 0 {
		memFlag = "--mem-latency=0ns --mem-type=simple_mem "
		perfectL1Flag = "--is_perfect_cache=1 --is_perfect_bus=1"
	}

	execCmd, err := execFlags(j)
	if err != nil {
		return err
	}

	lines := []string{
		"#!/bin/sh",
		w.env.Gem5Binary(),
		"--stats-db-file=stats.db",
		"--outdir=" + j.OutputsDir(),
		w.env.Gem5Script(),
		"--num-cpus=" + strconv.Itoa(numCPUs),
		"--mem-size=4GB",
		"--enable-stats-dump",
		"--enable_prefetchers",
		"--prefetcher-type=stride",
		memFlag,
		"--sys-clock=" + clock,
		"--cpu-type=DerivO3CPU ",
		"--caches",
		l2Flag,
		fmt.Sprintf("--cacheline_size=%d ", c.Int(params.CacheLineSz)),
		perfectL1Flag,
		perfectBusFlag,
		"--accel_cfg_file=" + filepath.Join(j.Dir, "gem5.cfg"),
		execCmd,
		"> " + filepath.Join(j.OutputsDir(), "stdout"),
		"2> " + filepath.Join(j.OutputsDir(), "stderr"),
	}

	return writeRunscript(filepath.Join(j.Dir, "run.sh"), lines)
}

func execFlags(j *sweep.Job) (string, error) {
	if j.Config.ExecCmd == "" {
		return "", nil
	}

	values := commandValues(j)

	cmd, err := j.Config.ExpandExecCmd(values)
	if err != nil {
		return "", err
	}

	args, err := j.Config.ExpandRunArgs(values)
	if err != nil {
		return "", err
	}

	return fmt.Sprintf("-c %s -o \"%s\"", cmd, args), nil
}
