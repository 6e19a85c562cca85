// Package params defines the parameters of the accelerator and its memory
// system that can be swept.
package params

import (
	"fmt"
	"strconv"
	"strings"
)

// Kind is the type of values a parameter holds.
type Kind int

// The kinds of parameter values.
const (
	IntKind Kind = iota
	StrKind
	BoolKind
)

func (k Kind) String() string {
	switch k {
	case IntKind:
		return "int"
	case StrKind:
		return "string"
	case BoolKind:
		return "bool"
	default:
		return "unknown"
	}
}

// Value is a parameter value.
type Value struct {
	kind Kind
	i    int64
	s    string
	b    bool
}

// Int creates an integer value.
func Int(v int64) Value {
	return Value{kind: IntKind, i: v}
}

// Str creates a string value.
func Str(v string) Value {
	return Value{kind: StrKind, s: v}
}

// Bool creates a boolean value.
func Bool(v bool) Value {
	return Value{kind: BoolKind, b: v}
}

// Kind returns the kind of the value.
func (v Value) Kind() Kind {
	return v.kind
}

// Int returns the value as an integer. Booleans convert to 0 or 1.
func (v Value) Int() int64 {
	switch v.kind {
	case IntKind:
		return v.i
	case BoolKind:
		if v.b {
			return 1
		}
		return 0
	default:
		panic(fmt.Sprintf("value %q is not an integer", v.s))
	}
}

// Bool returns the value as a boolean. Integers are true when non-zero.
func (v Value) Bool() bool {
	switch v.kind {
	case BoolKind:
		return v.b
	case IntKind:
		return v.i != 0
	default:
		panic(fmt.Sprintf("value %q is not a boolean", v.s))
	}
}

// String returns the plain textual form of the value.
func (v Value) String() string {
	switch v.kind {
	case IntKind:
		return strconv.FormatInt(v.i, 10)
	case BoolKind:
		if v.b {
			return "True"
		}
		return "False"
	default:
		return v.s
	}
}

// A Param is a named, typed parameter with a default value.
type Param struct {
	Name       string
	Kind       Kind
	Default    Value
	ValidOpts  []string
	formatFunc func(int64) string
}

// Parse converts the textual form of a value into a Value of the param's
// kind.
func (p *Param) Parse(raw string) (Value, error) {
	raw = strings.TrimSpace(raw)

	switch p.Kind {
	case IntKind:
		n, err := parseInt(raw)
		if err != nil {
			return Value{}, fmt.Errorf("param %s: %w", p.Name, err)
		}
		return Int(n), nil
	case BoolKind:
		switch strings.ToLower(raw) {
		case "true", "1", "yes":
			return Bool(true), nil
		case "false", "0", "no":
			return Bool(false), nil
		}
		return Value{}, fmt.Errorf("param %s: invalid boolean %q", p.Name, raw)
	default:
		if len(p.ValidOpts) > 0 && !p.IsValidOpt(raw) {
			return Value{}, fmt.Errorf(
				"param %s: invalid option %q, must be one of %v",
				p.Name, raw, p.ValidOpts)
		}
		return Str(raw), nil
	}
}

// IsValidOpt checks if a string is one of the param's valid options.
func (p *Param) IsValidOpt(opt string) bool {
	for _, o := range p.ValidOpts {
		if o == opt {
			return true
		}
	}

	return false
}

// Format returns the form of the value written into configuration files.
func (p *Param) Format(v Value) string {
	if p.formatFunc != nil && v.kind == IntKind {
		return p.formatFunc(v.i)
	}

	return v.String()
}

func parseInt(raw string) (int64, error) {
	if raw == "" {
		return 0, fmt.Errorf("empty integer")
	}

	if n, err := strconv.ParseInt(raw, 0, 64); err == nil {
		return n, nil
	}

	if strings.HasSuffix(raw, "B") {
		return ShortSizeToInt(raw)
	}

	return 0, fmt.Errorf("invalid integer %q", raw)
}

// ShortSizeToInt converts a size like 16kB into a number of bytes.
func ShortSizeToInt(size string) (int64, error) {
	multipliers := []struct {
		suffix string
		factor int64
	}{
		{"kB", 1 << 10},
		{"MB", 1 << 20},
		{"GB", 1 << 30},
		{"B", 1},
	}

	for _, m := range multipliers {
		if !strings.HasSuffix(size, m.suffix) {
			continue
		}

		n, err := strconv.ParseInt(strings.TrimSuffix(size, m.suffix), 10, 64)
		if err != nil {
			break
		}

		return n * m.factor, nil
	}

	return 0, fmt.Errorf("size %q cannot be converted into bytes", size)
}

// IntToShortSize converts a number of bytes into a size like 16kB. Sizes
// below 1kB are printed as plain numbers.
func IntToShortSize(size int64) string {
	if size < 1024 {
		return strconv.FormatInt(size, 10)
	}

	return fmt.Sprintf("%dkB", size/1024)
}
