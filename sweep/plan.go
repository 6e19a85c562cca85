package sweep

import (
	"fmt"
	"path/filepath"
	"strconv"

	"github.com/sarchlab/xenon/benchmark"
	"github.com/sarchlab/xenon/params"
)

// A Job is one benchmark configured at one design point. Every job gets its
// own sweep directory.
type Job struct {
	// ID numbers the jobs of a benchmark, starting at 0.
	ID int

	Sweep  *Sweep
	Point  *Point
	Config *benchmark.Config

	// Dir is the absolute sweep directory, <output_dir>/<benchmark>/<id>.
	Dir string
}

// Benchmark returns the name of the job's benchmark.
func (j *Job) Benchmark() string {
	return j.Config.Name
}

// SweepValue returns the sweep-level value of a parameter. It panics if the
// parameter is not bound once for the whole sweep.
func (j *Job) SweepValue(name string) params.Value {
	if !params.Contains(params.SweepParams, name) {
		panic(fmt.Sprintf("%s is not a sweep-wide parameter", name))
	}

	return j.Point.Value(name)
}

// OutputsDir is the directory the simulator writes its outputs to.
func (j *Job) OutputsDir() string {
	return filepath.Join(j.Dir, "outputs")
}

// InputsDir is the directory that holds the benchmark's trace, shared by all
// jobs of the benchmark.
func (j *Job) InputsDir() string {
	return filepath.Join(filepath.Dir(j.Dir), "inputs")
}

// A Plan is an expanded sweep.
type Plan struct {
	Sweep  *Sweep
	Points []*Point
	Jobs   []*Job
}

// Plan expands the sweep and resolves every point against every benchmark.
func (s *Sweep) Plan() (*Plan, error) {
	points, err := s.Expand()
	if err != nil {
		return nil, err
	}

	outputDir, err := filepath.Abs(s.OutputDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve output directory: %w", err)
	}

	plan := &Plan{Sweep: s, Points: points}
	nextID := make(map[string]int)

	for _, p := range points {
		for _, b := range s.Benchmarks {
			c, err := b.Resolve(p.Assignments)
			if err != nil {
				return nil, fmt.Errorf("point %d: %w", p.Index, err)
			}

			id := nextID[b.Name]
			nextID[b.Name]++

			plan.Jobs = append(plan.Jobs, &Job{
				ID:     id,
				Sweep:  s,
				Point:  p,
				Config: c,
				Dir:    filepath.Join(outputDir, b.Name, strconv.Itoa(id)),
			})
		}
	}

	return plan, nil
}
