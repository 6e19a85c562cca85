// Package benchmark describes the workloads that are mapped onto an
// accelerator: their kernels, arrays, loops and the files they need.
package benchmark

import (
	"fmt"
	"regexp"

	"github.com/sarchlab/xenon/params"
)

// Loop trip count settings. A loop with AlwaysUnroll has its unrolling factor
// swept. Any other value pins the unrolling factor.
const (
	AlwaysUnroll  = -1
	UnrollFlatten = 0
	UnrollOne     = 1
)

// An Array is an array accessed by an accelerated kernel.
type Array struct {
	Name string

	// Size is the number of elements.
	Size int64

	// WordLength is the size of each element in bytes.
	WordLength int64

	// IsHostArray marks arrays that live in host memory and are accessed
	// through the accelerator's cache.
	IsHostArray bool

	// PartitionType and MemoryType are the defaults used when no sweep
	// setting overrides them. Empty means the parameter registry default.
	PartitionType string
	MemoryType    string
}

// A Loop is a loop inside a kernel function.
type Loop struct {
	Name      string
	LineNum   int
	TripCount int
}

// Pinned tells if the unrolling factor of the loop is fixed.
func (l *Loop) Pinned() bool {
	return l.TripCount != AlwaysUnroll
}

// A Function is a function of the benchmark that owns arrays or loops.
type Function struct {
	Name   string
	Arrays []*Array
	Loops  []*Loop
}

func (f *Function) hasChild(name string) bool {
	for _, a := range f.Arrays {
		if a.Name == name {
			return true
		}
	}

	for _, l := range f.Loops {
		if l.Name == name {
			return true
		}
	}

	return false
}

// A Benchmark describes a workload.
type Benchmark struct {
	Name string

	// SubDir is the directory of the benchmark relative to the source
	// directory of the benchmark suite.
	SubDir string

	Kernels   []string
	kernelIDs map[string]int
	MainID    int

	// ExecCmd and RunArgs run the benchmark binary under the simulator. They
	// may contain %(key)s tokens.
	ExecCmd string
	RunArgs string

	// RequiredFiles are input files relative to the benchmark directory that
	// are symlinked into every sweep directory.
	RequiredFiles []string

	// TestHarness is the source file holding main(), if it is not part of
	// the benchmark source.
	TestHarness string

	Arrays    []*Array
	Functions []*Function

	LocalMakefile   bool
	SeparateKernels bool
}

// New creates a new benchmark.
func New(name, subDir string) *Benchmark {
	return &Benchmark{
		Name:      name,
		SubDir:    subDir,
		kernelIDs: make(map[string]int),
	}
}

// AddArray adds an array owned by the benchmark's top-level kernel.
func (b *Benchmark) AddArray(name string, size, wordLength int64) *Array {
	return b.addArray(&Array{Name: name, Size: size, WordLength: wordLength})
}

// AddHostArray adds an array that lives in host memory.
func (b *Benchmark) AddHostArray(name string, size, wordLength int64) *Array {
	return b.addArray(&Array{
		Name:        name,
		Size:        size,
		WordLength:  wordLength,
		IsHostArray: true,
	})
}

func (b *Benchmark) addArray(a *Array) *Array {
	if b.hasArray(a.Name) || b.function(a.Name) != nil {
		panic(fmt.Sprintf("benchmark %s already has an object named %s",
			b.Name, a.Name))
	}

	b.Arrays = append(b.Arrays, a)

	return a
}

func (b *Benchmark) hasArray(name string) bool {
	for _, a := range b.Arrays {
		if a.Name == name {
			return true
		}
	}

	return false
}

// AddFunctionArray adds an array declared inside a function that is not the
// top-level kernel. It is referred to as function.array.
func (b *Benchmark) AddFunctionArray(
	function, name string,
	size, wordLength int64,
) *Array {
	f := b.AddFunction(function)
	if f.hasChild(name) {
		panic(fmt.Sprintf("function %s.%s already has an object named %s",
			b.Name, function, name))
	}

	a := &Array{Name: name, Size: size, WordLength: wordLength}
	f.Arrays = append(f.Arrays, a)

	return a
}

// AddLoop adds a labeled loop to a function. Its unrolling is swept.
func (b *Benchmark) AddLoop(function, name string) *Loop {
	return b.AddLoopAt(function, name, 0, AlwaysUnroll)
}

// AddLoopAt adds a loop identified by its line number and trip count
// setting. If name is empty, the line number is used as the loop name.
func (b *Benchmark) AddLoopAt(
	function, name string,
	lineNum, tripCount int,
) *Loop {
	if name == "" {
		name = fmt.Sprintf("%d", lineNum)
	}

	f := b.AddFunction(function)
	if f.hasChild(name) {
		panic(fmt.Sprintf("function %s.%s already has an object named %s",
			b.Name, function, name))
	}

	l := &Loop{Name: name, LineNum: lineNum, TripCount: tripCount}
	f.Loops = append(f.Loops, l)

	return l
}

// AddFunction returns the function with the given name, creating it if it
// does not exist yet.
func (b *Benchmark) AddFunction(name string) *Function {
	if f := b.function(name); f != nil {
		return f
	}

	if b.hasArray(name) {
		panic(fmt.Sprintf("benchmark %s already has an array named %s",
			b.Name, name))
	}

	f := &Function{Name: name}
	b.Functions = append(b.Functions, f)

	return f
}

func (b *Benchmark) function(name string) *Function {
	for _, f := range b.Functions {
		if f.Name == name {
			return f
		}
	}

	return nil
}

// Function returns the function with the given name or nil.
func (b *Benchmark) Function(name string) *Function {
	return b.function(name)
}

// SetKernels sets the functions to trace. When more than one kernel is
// given, they execute in the given order.
func (b *Benchmark) SetKernels(kernels ...string) {
	b.Kernels = kernels
}

// SetMainID sets the accelerator id of the benchmark.
func (b *Benchmark) SetMainID(id int) {
	b.MainID = id
}

// SetKernelID overrides the accelerator id of a kernel.
func (b *Benchmark) SetKernelID(kernel string, id int) {
	b.kernelIDs[kernel] = id
}

// KernelID returns the accelerator id of a kernel. Kernels without an
// explicit id are numbered after the main id in kernel order. It returns -1
// for unknown kernels.
func (b *Benchmark) KernelID(kernel string) int {
	if id, ok := b.kernelIDs[kernel]; ok {
		return id
	}

	for i, k := range b.Kernels {
		if k == kernel {
			return b.MainID + i + 1
		}
	}

	return -1
}

// AddRequiredFiles adds files to be symlinked into the sweep directories.
func (b *Benchmark) AddRequiredFiles(files ...string) {
	b.RequiredFiles = append(b.RequiredFiles, files...)
}

// SetExecCmd sets the command that runs the benchmark on a simulated CPU.
func (b *Benchmark) SetExecCmd(cmd string) {
	b.ExecCmd = cmd
}

// SetRunArgs sets the arguments of the exec command.
func (b *Benchmark) SetRunArgs(args string) {
	b.RunArgs = args
}

// SetTestHarness sets the source file that drives the kernels.
func (b *Benchmark) SetTestHarness(file string) {
	b.TestHarness = file
}

// UseLocalMakefile marks that the benchmark directory has a Makefile with the
// trace and binary targets.
func (b *Benchmark) UseLocalMakefile() {
	b.LocalMakefile = true
}

// GenerateSeparateKernels asks writers to produce one accelerator config per
// kernel.
func (b *Benchmark) GenerateSeparateKernels() {
	b.SeparateKernels = true
}

var tokenRe = regexp.MustCompile(`%\(([A-Za-z0-9_]+)\)s`)

// ExpandExecCmd substitutes %(key)s tokens in the exec command.
func (b *Benchmark) ExpandExecCmd(values map[string]string) (string, error) {
	return expand(b.ExecCmd, values)
}

// ExpandRunArgs substitutes %(key)s tokens in the run arguments.
func (b *Benchmark) ExpandRunArgs(values map[string]string) (string, error) {
	return expand(b.RunArgs, values)
}

func expand(s string, values map[string]string) (string, error) {
	var missing string

	out := tokenRe.ReplaceAllStringFunc(s, func(tok string) string {
		key := tokenRe.FindStringSubmatch(tok)[1]

		v, ok := values[key]
		if !ok {
			if missing == "" {
				missing = key
			}
			return tok
		}

		return v
	})

	if missing != "" {
		return "", fmt.Errorf("no value for %%(%s)s in %q", missing, s)
	}

	return out, nil
}

// Paths returns the paths of all objects that sweep settings can target.
func (b *Benchmark) Paths() []string {
	paths := []string{b.Name}

	for _, a := range b.Arrays {
		paths = append(paths, b.Name+"."+a.Name)
	}

	for _, f := range b.Functions {
		fp := b.Name + "." + f.Name
		paths = append(paths, fp)

		for _, a := range f.Arrays {
			paths = append(paths, fp+"."+a.Name)
		}

		for _, l := range f.Loops {
			paths = append(paths, fp+"."+l.Name)
		}
	}

	return paths
}

// ParamsAt returns the parameters that apply to the object at path, or
// false if there is no such object. The benchmark itself takes every
// parameter and a function takes those of its arrays and loops.
func (b *Benchmark) ParamsAt(path string) ([]string, bool) {
	all := func(groups ...[]string) []string {
		var out []string
		for _, g := range groups {
			out = append(out, g...)
		}
		return out
	}

	if path == b.Name {
		return all(params.BenchmarkParams, params.ArrayParams,
			params.LoopParams), true
	}

	for _, a := range b.Arrays {
		if path == b.Name+"."+a.Name {
			return params.ArrayParams, true
		}
	}

	for _, f := range b.Functions {
		fp := b.Name + "." + f.Name
		if path == fp {
			return all(params.ArrayParams, params.LoopParams), true
		}

		for _, a := range f.Arrays {
			if path == fp+"."+a.Name {
				return params.ArrayParams, true
			}
		}

		for _, l := range f.Loops {
			if path == fp+"."+l.Name {
				return params.LoopParams, true
			}
		}
	}

	return nil, false
}

// HasPath checks if the benchmark has an object at the given path.
func (b *Benchmark) HasPath(path string) bool {
	for _, p := range b.Paths() {
		if p == path {
			return true
		}
	}

	return false
}
