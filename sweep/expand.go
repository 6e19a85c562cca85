package sweep

import (
	"fmt"
	"strings"

	"github.com/sarchlab/xenon/benchmark"
	"github.com/sarchlab/xenon/params"
)

// A Point is one design point of a sweep.
type Point struct {
	Index int

	// Assignments hold the constant settings followed by the swept and
	// linked values. Later assignments override earlier ones.
	Assignments []benchmark.Assignment

	// Swept lists the swept values in dimension order, keyed by the short
	// name of the parameter.
	Swept []SweptValue
}

// SweptValue is the value a swept dimension takes at a point.
type SweptValue struct {
	Key   string
	Value params.Value
}

// Label returns a short description of the swept values of the point, for
// example unr_4_part_8.
func (p *Point) Label() string {
	if len(p.Swept) == 0 {
		return "default"
	}

	parts := make([]string, 0, 2*len(p.Swept))
	for _, sv := range p.Swept {
		parts = append(parts, sv.Key, sv.Value.String())
	}

	return strings.Join(parts, "_")
}

// Value returns the sweep-level value of a parameter at this point, which is
// set by assignments without a target.
func (p *Point) Value(name string) params.Value {
	v := params.MustLookup(name).Default
	for _, a := range p.Assignments {
		if a.Param == name && a.Target == "" {
			v = a.Value
		}
	}

	return v
}

// Expand enumerates the cartesian product of all swept dimensions. The first
// dimension varies slowest.
func (s *Sweep) Expand() ([]*Point, error) {
	dims, byKey, err := s.independentDimensions()
	if err != nil {
		return nil, err
	}

	links, err := s.links(byKey)
	if err != nil {
		return nil, err
	}

	constants, err := s.constants()
	if err != nil {
		return nil, err
	}

	var points []*Point

	chosen := make([]params.Value, len(dims))

	var recurse func(d int) error
	recurse = func(d int) error {
		if d == len(dims) {
			p, err := buildPoint(len(points), dims, links, constants, chosen)
			if err != nil {
				return err
			}
			points = append(points, p)
			return nil
		}

		for _, v := range dims[d].values {
			chosen[d] = v
			if err := recurse(d + 1); err != nil {
				return err
			}
		}

		return nil
	}

	if err := recurse(0); err != nil {
		return nil, err
	}

	return points, nil
}

func buildPoint(
	index int,
	dims []dimension,
	links []link,
	constants []benchmark.Assignment,
	chosen []params.Value,
) (*Point, error) {
	p := &Point{Index: index}
	p.Assignments = append(p.Assignments, constants...)

	for i, d := range dims {
		p.Assignments = append(p.Assignments, benchmark.Assignment{
			Param:  d.param.Name,
			Target: d.target,
			Value:  chosen[i],
		})

		if d.param.StepType != NoSweep || len(d.values) > 1 {
			p.Swept = append(p.Swept, SweptValue{Key: d.key, Value: chosen[i]})
		}
	}

	for _, l := range links {
		from := chosen[l.from]

		v, err := params.MustLookup(l.param.Name).Parse(from.String())
		if err != nil {
			return nil, fmt.Errorf("param %s cannot take the value of %s: %w",
				l.param.Key(), l.param.LinkWith, err)
		}

		p.Assignments = append(p.Assignments, benchmark.Assignment{
			Param:  l.param.Name,
			Target: l.param.Target,
			Value:  v,
		})
	}

	return p, nil
}
