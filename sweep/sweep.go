// Package sweep expands design sweep descriptions into design points and
// resolves them against benchmarks.
package sweep

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/sarchlab/xenon/benchmark"
	"github.com/sarchlab/xenon/params"
)

// The simulators a sweep can target.
const (
	Aladdin   = "aladdin"
	Gem5CPU   = "gem5-cpu"
	Gem5Cache = "gem5-cache"
)

// The generation steps that run before configuration files are written.
const (
	GenerateTrace      = "trace"
	GenerateDMATrace   = "dma_trace"
	GenerateGem5Binary = "gem5_binary"
)

// A Setting binds a constant value to a parameter.
type Setting struct {
	Param  string
	Target string
	Value  string
}

// A Sweep is a design sweep over a set of benchmarks.
type Sweep struct {
	Name      string
	OutputDir string

	// SourceDir is the root directory of the benchmark suite.
	SourceDir string

	Simulator string
	Generate  []string

	Benchmarks []*benchmark.Benchmark
	Settings   []Setting
	Params     []*Param
}

// Generates tells if a generation step is requested.
func (s *Sweep) Generates(step string) bool {
	for _, g := range s.Generate {
		if g == step {
			return true
		}
	}

	return false
}

// Benchmark returns the benchmark with the given name or nil.
func (s *Sweep) Benchmark(name string) *benchmark.Benchmark {
	for _, b := range s.Benchmarks {
		if b.Name == name {
			return b
		}
	}

	return nil
}

// Validate checks the sweep description. When checkFS is set, the source
// directory must exist.
func (s *Sweep) Validate(checkFS bool) error {
	var errs []error

	if s.Name == "" {
		errs = append(errs, errors.New("sweep has no name"))
	}

	if s.OutputDir == "" {
		errs = append(errs, errors.New("sweep has no output directory"))
	}

	switch s.Simulator {
	case Aladdin, Gem5CPU, Gem5Cache:
	default:
		errs = append(errs, fmt.Errorf(
			"invalid simulator %q, must be one of %s, %s, %s",
			s.Simulator, Aladdin, Gem5CPU, Gem5Cache))
	}

	for _, g := range s.Generate {
		switch g {
		case GenerateTrace, GenerateDMATrace, GenerateGem5Binary:
		default:
			errs = append(errs, fmt.Errorf("unknown generate step %q", g))
		}
	}

	if checkFS {
		if _, err := os.Stat(s.SourceDir); err != nil {
			errs = append(errs, fmt.Errorf(
				"source directory %s does not exist", s.SourceDir))
		}
	}

	if len(s.Benchmarks) == 0 {
		errs = append(errs, errors.New("sweep has no benchmarks"))
	}

	for _, st := range s.Settings {
		errs = append(errs, s.validateSetting(st)...)
	}

	for _, p := range s.Params {
		errs = append(errs, s.validateParam(p)...)
	}

	if _, err := s.dimensions(); err != nil {
		errs = append(errs, err)
	}

	return errors.Join(errs...)
}

func (s *Sweep) validateSetting(st Setting) []error {
	var errs []error

	rp, ok := params.Lookup(st.Param)
	if !ok {
		return []error{fmt.Errorf("unknown parameter %s", st.Param)}
	}

	if _, err := rp.Parse(st.Value); err != nil {
		errs = append(errs, err)
	}

	if err := s.validateTarget(st.Param, st.Target); err != nil {
		errs = append(errs, err)
	}

	return errs
}

func (s *Sweep) validateParam(p *Param) []error {
	var errs []error

	if _, ok := params.Lookup(p.Name); !ok {
		return []error{fmt.Errorf("unknown parameter %s", p.Name)}
	}

	if p.LinkWith == "" {
		if _, err := p.Expand(); err != nil {
			errs = append(errs, err)
		}
	}

	if err := s.validateTarget(p.Name, p.Target); err != nil {
		errs = append(errs, err)
	}

	return errs
}

func (s *Sweep) validateTarget(param, target string) error {
	if target == "" {
		return nil
	}

	bmkName, _, _ := strings.Cut(target, ".")

	b := s.Benchmark(bmkName)
	if b == nil {
		return fmt.Errorf("target %s does not match any object", target)
	}

	accepted, ok := b.ParamsAt(target)
	if !ok {
		return fmt.Errorf("target %s does not match any object", target)
	}

	if !params.Contains(accepted, param) {
		return fmt.Errorf("parameter %s does not apply to target %s",
			param, target)
	}

	return nil
}

type dimension struct {
	param  *Param
	key    string
	target string
	values []params.Value
}

type link struct {
	param *Param
	from  int
}

// dimensions returns the independent dimensions of the sweep and the linked
// params bound to them.
func (s *Sweep) dimensions() ([]dimension, error) {
	dims, byKey, err := s.independentDimensions()
	if err != nil {
		return nil, err
	}

	for _, p := range s.Params {
		if p.LinkWith == "" {
			continue
		}

		if _, err := s.resolveLink(p, byKey, nil); err != nil {
			return nil, err
		}
	}

	return dims, nil
}

func (s *Sweep) independentDimensions() ([]dimension, map[string]int, error) {
	var dims []dimension

	byKey := make(map[string]int)

	for _, p := range s.Params {
		if p.LinkWith != "" {
			continue
		}

		values, err := p.Expand()
		if err != nil {
			return nil, nil, err
		}

		if !p.PerKernel {
			byKey[p.Key()] = len(dims)
			dims = append(dims, dimension{
				param:  p,
				key:    p.Key(),
				target: p.Target,
				values: values,
			})
			continue
		}

		for _, b := range s.Benchmarks {
			for _, k := range b.Kernels {
				dims = append(dims, dimension{
					param:  p,
					key:    p.Key() + "@" + k,
					target: b.Name + "." + k,
					values: values,
				})
			}
		}
		byKey[p.Key()] = -1
	}

	return dims, byKey, nil
}

// resolveLink follows a chain of links to the dimension that drives p.
func (s *Sweep) resolveLink(
	p *Param,
	byKey map[string]int,
	seen map[*Param]bool,
) (int, error) {
	if seen == nil {
		seen = make(map[*Param]bool)
	}

	if seen[p] {
		return 0, fmt.Errorf("param %s is part of a link cycle", p.Key())
	}
	seen[p] = true

	q, err := s.linkTarget(p)
	if err != nil {
		return 0, err
	}

	if q.LinkWith != "" {
		return s.resolveLink(q, byKey, seen)
	}

	idx := byKey[q.Key()]
	if idx < 0 {
		return 0, fmt.Errorf("param %s cannot link with per-kernel param %s",
			p.Key(), p.LinkWith)
	}

	return idx, nil
}

// linkTarget finds the param named by p.LinkWith. Short names take
// precedence over parameter names.
func (s *Sweep) linkTarget(p *Param) (*Param, error) {
	var byName []*Param

	for _, q := range s.Params {
		if q.Key() == p.LinkWith {
			return q, nil
		}

		if q.Name == p.LinkWith {
			byName = append(byName, q)
		}
	}

	switch len(byName) {
	case 0:
		return nil, fmt.Errorf("param %s links with unknown param %s",
			p.Key(), p.LinkWith)
	case 1:
		return byName[0], nil
	default:
		return nil, fmt.Errorf(
			"param %s links with %s, which names %d params; use a short name",
			p.Key(), p.LinkWith, len(byName))
	}
}

func (s *Sweep) links(byKey map[string]int) ([]link, error) {
	var out []link

	for _, p := range s.Params {
		if p.LinkWith == "" {
			continue
		}

		idx, err := s.resolveLink(p, byKey, nil)
		if err != nil {
			return nil, err
		}

		out = append(out, link{param: p, from: idx})
	}

	return out, nil
}

func (s *Sweep) constants() ([]benchmark.Assignment, error) {
	out := make([]benchmark.Assignment, 0, len(s.Settings))

	for _, st := range s.Settings {
		rp, ok := params.Lookup(st.Param)
		if !ok {
			return nil, fmt.Errorf("unknown parameter %s", st.Param)
		}

		v, err := rp.Parse(st.Value)
		if err != nil {
			return nil, err
		}

		out = append(out, benchmark.Assignment{
			Param:  st.Param,
			Target: st.Target,
			Value:  v,
		})
	}

	return out, nil
}
