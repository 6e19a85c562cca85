package benchmark

import (
	"fmt"
	"strings"

	"github.com/sarchlab/xenon/params"
)

// An Assignment binds a value to a parameter for the objects under a path.
// An empty target applies to every object.
type Assignment struct {
	Param  string
	Target string
	Value  params.Value
}

// Matches tells if the assignment applies to the object at path.
func (a Assignment) Matches(path string) bool {
	return a.Target == "" ||
		a.Target == path ||
		strings.HasPrefix(path, a.Target+".")
}

// ArrayConfig is an array with its parameters bound.
type ArrayConfig struct {
	*Array

	// Function is the owning function, empty for top-level arrays.
	Function string
	Path     string

	PartitionType   string
	PartitionFactor int64
	MemoryType      string
}

// QualifiedName is the array name as the accelerator model refers to it.
func (a ArrayConfig) QualifiedName() string {
	if a.Function == "" {
		return a.Name
	}

	return a.Function + "." + a.Name
}

// Bytes is the total size of the array.
func (a ArrayConfig) Bytes() int64 {
	return a.Size * a.WordLength
}

// LoopConfig is a loop with its unrolling factor bound.
type LoopConfig struct {
	*Loop

	Function  string
	Path      string
	Unrolling int64
}

// Config is a benchmark with all its sweepable parameters bound.
type Config struct {
	*Benchmark

	Values map[string]params.Value
	Arrays []ArrayConfig
	Loops  []LoopConfig
}

// Value returns the value of a benchmark-level parameter.
func (c *Config) Value(name string) params.Value {
	v, ok := c.Values[name]
	if !ok {
		panic(fmt.Sprintf("benchmark %s has no parameter %s", c.Name, name))
	}

	return v
}

// Int returns the integer value of a benchmark-level parameter.
func (c *Config) Int(name string) int64 {
	return c.Value(name).Int()
}

// Formatted returns the textual value of a benchmark-level parameter as
// written to configuration files.
func (c *Config) Formatted(name string) string {
	return params.MustLookup(name).Format(c.Value(name))
}

// ForKernel returns the part of the configuration that belongs to a single
// kernel: top-level arrays and the kernel function's arrays and loops.
func (c *Config) ForKernel(kernel string) *Config {
	out := &Config{
		Benchmark: c.Benchmark,
		Values:    c.Values,
	}

	for _, a := range c.Arrays {
		if a.Function == "" || a.Function == kernel {
			out.Arrays = append(out.Arrays, a)
		}
	}

	for _, l := range c.Loops {
		if l.Function == kernel {
			out.Loops = append(out.Loops, l)
		}
	}

	return out
}

// Resolve binds every sweepable parameter of the benchmark. Registry
// defaults apply first, then the assignments in order, so later assignments
// win.
func (b *Benchmark) Resolve(assignments []Assignment) (*Config, error) {
	c := &Config{
		Benchmark: b,
		Values:    make(map[string]params.Value),
	}

	for _, name := range params.BenchmarkParams {
		v := params.MustLookup(name).Default
		for _, a := range assignments {
			if a.Param == name && a.Matches(b.Name) {
				v = a.Value
			}
		}
		c.Values[name] = v
	}

	for _, a := range b.Arrays {
		ac, err := resolveArray(a, "", b.Name+"."+a.Name, assignments)
		if err != nil {
			return nil, err
		}
		c.Arrays = append(c.Arrays, ac)
	}

	for _, f := range b.Functions {
		fp := b.Name + "." + f.Name

		for _, a := range f.Arrays {
			ac, err := resolveArray(a, f.Name, fp+"."+a.Name, assignments)
			if err != nil {
				return nil, err
			}
			c.Arrays = append(c.Arrays, ac)
		}

		for _, l := range f.Loops {
			c.Loops = append(c.Loops,
				resolveLoop(l, f.Name, fp+"."+l.Name, assignments))
		}
	}

	return c, nil
}

func resolveArray(
	a *Array,
	function, path string,
	assignments []Assignment,
) (ArrayConfig, error) {
	ac := ArrayConfig{
		Array:           a,
		Function:        function,
		Path:            path,
		PartitionType:   params.MustLookup(params.PartitionType).Default.String(),
		PartitionFactor: params.MustLookup(params.PartitionFactor).Default.Int(),
		MemoryType:      params.MustLookup(params.MemoryType).Default.String(),
	}

	if a.PartitionType != "" {
		ac.PartitionType = a.PartitionType
	}

	if a.MemoryType != "" {
		ac.MemoryType = a.MemoryType
	}

	for _, asg := range assignments {
		if !asg.Matches(path) {
			continue
		}

		switch asg.Param {
		case params.PartitionType:
			ac.PartitionType = asg.Value.String()
		case params.PartitionFactor:
			ac.PartitionFactor = asg.Value.Int()
		case params.MemoryType:
			ac.MemoryType = asg.Value.String()
		}
	}

	if ac.PartitionFactor < 1 {
		return ac, fmt.Errorf("array %s: partition factor %d must be positive",
			path, ac.PartitionFactor)
	}

	return ac, nil
}

func resolveLoop(
	l *Loop,
	function, path string,
	assignments []Assignment,
) LoopConfig {
	lc := LoopConfig{
		Loop:      l,
		Function:  function,
		Path:      path,
		Unrolling: params.MustLookup(params.Unrolling).Default.Int(),
	}

	if l.Pinned() {
		lc.Unrolling = int64(l.TripCount)
		return lc
	}

	for _, asg := range assignments {
		if asg.Param == params.Unrolling && asg.Matches(path) {
			lc.Unrolling = asg.Value.Int()
		}
	}

	return lc
}
