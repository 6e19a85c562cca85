package sweep

import (
	"fmt"

	"github.com/sarchlab/xenon/params"
)

// StepType determines how the values of a swept parameter are generated.
type StepType int

// The step types.
const (
	NoSweep StepType = iota
	LinearSweep
	ExpSweep
)

// ParseStepType converts the textual step type used in sweep files.
func ParseStepType(s string) (StepType, error) {
	switch s {
	case "", "none", "no_sweep":
		return NoSweep, nil
	case "linear":
		return LinearSweep, nil
	case "exp", "exponential":
		return ExpSweep, nil
	}

	return NoSweep, fmt.Errorf("unknown step type %q", s)
}

func (t StepType) String() string {
	switch t {
	case LinearSweep:
		return "linear"
	case ExpSweep:
		return "exp"
	default:
		return "none"
	}
}

// maxValuesPerParam bounds runaway sweeps such as an exponential sweep with
// an end that can never be reached.
const maxValuesPerParam = 1 << 16

// A Param describes how one parameter is swept.
type Param struct {
	// Name is the registry name of the parameter.
	Name string

	// Start and End (inclusive) bound a numeric sweep. With NoSweep only
	// Start is used.
	Start string
	End   string

	// Step is added (LinearSweep) or multiplied (ExpSweep) per value.
	Step     int64
	StepType StepType

	// Values lists the values explicitly. It takes precedence over the
	// start/end/step description.
	Values []string

	// ShortName is used in point labels and by LinkWith. It defaults to
	// Name.
	ShortName string

	// Target restricts the parameter to the objects under a path.
	Target string

	// PerKernel sweeps the parameter independently within each kernel of
	// each benchmark.
	PerKernel bool

	// LinkWith names another swept parameter whose value this parameter
	// takes. Linked parameters add no dimension to the sweep.
	LinkWith string
}

// Key returns the name used to refer to the param in labels and links.
func (p *Param) Key() string {
	if p.ShortName != "" {
		return p.ShortName
	}

	return p.Name
}

// Expand returns the values the parameter takes.
func (p *Param) Expand() ([]params.Value, error) {
	rp, ok := params.Lookup(p.Name)
	if !ok {
		return nil, fmt.Errorf("unknown parameter %s", p.Name)
	}

	if len(p.Values) > 0 {
		return parseAll(rp, p.Values)
	}

	start, err := rp.Parse(p.Start)
	if err != nil {
		return nil, err
	}

	if p.StepType == NoSweep {
		return []params.Value{start}, nil
	}

	if rp.Kind != params.IntKind {
		return nil, fmt.Errorf(
			"param %s: %s sweeps need an integer parameter, use values instead",
			p.Name, p.StepType)
	}

	end, err := rp.Parse(p.End)
	if err != nil {
		return nil, err
	}

	return p.numericValues(start.Int(), end.Int())
}

func (p *Param) numericValues(start, end int64) ([]params.Value, error) {
	switch p.StepType {
	case LinearSweep:
		if p.Step < 1 {
			return nil, fmt.Errorf("param %s: linear step must be at least 1",
				p.Name)
		}
	case ExpSweep:
		if p.Step < 2 {
			return nil, fmt.Errorf(
				"param %s: exponential step must be at least 2", p.Name)
		}
		if start <= 0 {
			return nil, fmt.Errorf(
				"param %s: exponential sweeps must start above 0", p.Name)
		}
	}

	if end < start {
		return nil, fmt.Errorf("param %s: end %d is smaller than start %d",
			p.Name, end, start)
	}

	var out []params.Value
	for v := start; v <= end; {
		out = append(out, params.Int(v))
		if len(out) > maxValuesPerParam {
			return nil, fmt.Errorf("param %s: too many values", p.Name)
		}

		if p.StepType == LinearSweep {
			v += p.Step
		} else {
			v *= p.Step
		}
	}

	return out, nil
}

func parseAll(rp *params.Param, raw []string) ([]params.Value, error) {
	out := make([]params.Value, 0, len(raw))
	for _, r := range raw {
		v, err := rp.Parse(r)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}

	return out, nil
}
