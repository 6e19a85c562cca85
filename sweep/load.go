package sweep

import (
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/sarchlab/xenon/benchmark"
	"github.com/sarchlab/xenon/benchmark/suites"
)

type fileSweep struct {
	Name       string          `yaml:"name"`
	OutputDir  string          `yaml:"output_dir"`
	SourceDir  string          `yaml:"source_dir"`
	Simulator  string          `yaml:"simulator"`
	Generate   []string        `yaml:"generate"`
	Suite      string          `yaml:"suite"`
	Include    []string        `yaml:"include"`
	Benchmarks []fileBenchmark `yaml:"benchmarks"`
	Set        []fileSetting   `yaml:"set"`
	Sweep      []fileParam     `yaml:"sweep"`
}

type fileSetting struct {
	Param  string `yaml:"param"`
	Target string `yaml:"target"`
	Value  string `yaml:"value"`
}

type fileParam struct {
	Param     string   `yaml:"param"`
	Start     string   `yaml:"start"`
	End       string   `yaml:"end"`
	Step      int64    `yaml:"step"`
	Type      string   `yaml:"type"`
	Values    []string `yaml:"values"`
	ShortName string   `yaml:"short_name"`
	Target    string   `yaml:"target"`
	PerKernel bool     `yaml:"per_kernel"`
	LinkWith  string   `yaml:"link_with"`
}

type fileBenchmark struct {
	Name            string         `yaml:"name"`
	SubDir          string         `yaml:"sub_dir"`
	Kernels         []string       `yaml:"kernels"`
	MainID          int            `yaml:"main_id"`
	KernelIDs       map[string]int `yaml:"kernel_ids"`
	ExecCmd         string         `yaml:"exec_cmd"`
	RunArgs         string         `yaml:"run_args"`
	RequiredFiles   []string       `yaml:"required_files"`
	TestHarness     string         `yaml:"test_harness"`
	LocalMakefile   bool           `yaml:"local_makefile"`
	SeparateKernels bool           `yaml:"separate_kernels"`
	Arrays          []fileArray    `yaml:"arrays"`
	Loops           []fileLoop     `yaml:"loops"`
}

type fileArray struct {
	Name          string `yaml:"name"`
	Function      string `yaml:"function"`
	Size          int64  `yaml:"size"`
	WordLength    int64  `yaml:"word_length"`
	Host          bool   `yaml:"host"`
	PartitionType string `yaml:"partition_type"`
	MemoryType    string `yaml:"memory_type"`
}

type fileLoop struct {
	Function  string `yaml:"function"`
	Name      string `yaml:"name"`
	Line      int    `yaml:"line"`
	TripCount *int   `yaml:"trip_count"`
}

// Load reads a sweep description from a YAML file.
func Load(path string) (*Sweep, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open sweep file: %w", err)
	}
	defer f.Close()

	s, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return s, nil
}

// Parse reads a sweep description in YAML format.
func Parse(r io.Reader) (*Sweep, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	fs := fileSweep{}
	if err := dec.Decode(&fs); err != nil {
		return nil, fmt.Errorf("failed to parse sweep: %w", err)
	}

	s := &Sweep{
		Name:      fs.Name,
		OutputDir: fs.OutputDir,
		SourceDir: fs.SourceDir,
		Simulator: fs.Simulator,
		Generate:  fs.Generate,
	}

	if err := s.loadSuite(fs.Suite, fs.Include); err != nil {
		return nil, err
	}

	for _, fb := range fs.Benchmarks {
		b, err := fb.build()
		if err != nil {
			return nil, err
		}

		if s.Benchmark(b.Name) != nil {
			return nil, fmt.Errorf("benchmark %s is defined twice", b.Name)
		}

		s.Benchmarks = append(s.Benchmarks, b)
	}

	for _, st := range fs.Set {
		s.Settings = append(s.Settings, Setting(st))
	}

	for _, fp := range fs.Sweep {
		p, err := fp.build()
		if err != nil {
			return nil, err
		}
		s.Params = append(s.Params, p)
	}

	return s, nil
}

func (s *Sweep) loadSuite(suite string, include []string) error {
	if suite == "" {
		if len(include) > 0 {
			return fmt.Errorf("include needs a suite")
		}
		return nil
	}

	bmks, ok := suites.Get(suite)
	if !ok {
		return fmt.Errorf("unknown benchmark suite %s", suite)
	}

	if len(include) == 0 {
		s.Benchmarks = append(s.Benchmarks, bmks...)
		return nil
	}

	for _, name := range include {
		found := false
		for _, b := range bmks {
			if b.Name == name {
				s.Benchmarks = append(s.Benchmarks, b)
				found = true
			}
		}

		if !found {
			return fmt.Errorf("suite %s has no benchmark %s", suite, name)
		}
	}

	return nil
}

func (fp fileParam) build() (*Param, error) {
	st, err := ParseStepType(fp.Type)
	if err != nil {
		return nil, fmt.Errorf("param %s: %w", fp.Param, err)
	}

	return &Param{
		Name:      fp.Param,
		Start:     fp.Start,
		End:       fp.End,
		Step:      fp.Step,
		StepType:  st,
		Values:    fp.Values,
		ShortName: fp.ShortName,
		Target:    fp.Target,
		PerKernel: fp.PerKernel,
		LinkWith:  fp.LinkWith,
	}, nil
}

func (fb fileBenchmark) build() (*benchmark.Benchmark, error) {
	if fb.Name == "" {
		return nil, fmt.Errorf("benchmark without a name")
	}

	b := benchmark.New(fb.Name, fb.SubDir)
	b.SetKernels(fb.Kernels...)
	b.SetMainID(fb.MainID)
	for k, id := range fb.KernelIDs {
		b.SetKernelID(k, id)
	}
	b.SetExecCmd(fb.ExecCmd)
	b.SetRunArgs(fb.RunArgs)
	b.AddRequiredFiles(fb.RequiredFiles...)
	b.SetTestHarness(fb.TestHarness)

	if fb.LocalMakefile {
		b.UseLocalMakefile()
	}

	if fb.SeparateKernels {
		b.GenerateSeparateKernels()
	}

	for _, fa := range fb.Arrays {
		if err := fa.addTo(b); err != nil {
			return nil, err
		}
	}

	for _, fl := range fb.Loops {
		if err := fl.addTo(b); err != nil {
			return nil, err
		}
	}

	return b, nil
}

func (fa fileArray) addTo(b *benchmark.Benchmark) error {
	if fa.Size <= 0 || fa.WordLength <= 0 {
		return fmt.Errorf("array %s.%s: size and word length must be positive",
			b.Name, fa.Name)
	}

	var a *benchmark.Array

	if fa.Function == "" {
		if b.HasPath(b.Name + "." + fa.Name) {
			return fmt.Errorf("benchmark %s: duplicated object %s",
				b.Name, fa.Name)
		}

		if fa.Host {
			a = b.AddHostArray(fa.Name, fa.Size, fa.WordLength)
		} else {
			a = b.AddArray(fa.Name, fa.Size, fa.WordLength)
		}
	} else {
		if err := checkFunctionChild(b, fa.Function, fa.Name); err != nil {
			return err
		}

		a = b.AddFunctionArray(fa.Function, fa.Name, fa.Size, fa.WordLength)
		a.IsHostArray = fa.Host
	}

	a.PartitionType = fa.PartitionType
	a.MemoryType = fa.MemoryType

	return nil
}

func (fl fileLoop) addTo(b *benchmark.Benchmark) error {
	if fl.Function == "" {
		return fmt.Errorf("benchmark %s: loop without a function", b.Name)
	}

	name := fl.Name
	if name == "" {
		name = fmt.Sprintf("%d", fl.Line)
	}

	if err := checkFunctionChild(b, fl.Function, name); err != nil {
		return err
	}

	tripCount := benchmark.AlwaysUnroll
	if fl.TripCount != nil {
		tripCount = *fl.TripCount
	}

	b.AddLoopAt(fl.Function, name, fl.Line, tripCount)

	return nil
}

func checkFunctionChild(b *benchmark.Benchmark, function, name string) error {
	fp := b.Name + "." + function
	if b.Function(function) == nil && b.HasPath(fp) {
		return fmt.Errorf("benchmark %s: %s is an array, not a function",
			b.Name, function)
	}

	if b.HasPath(fp + "." + name) {
		return fmt.Errorf("benchmark %s: duplicated object %s.%s",
			b.Name, function, name)
	}

	return nil
}
