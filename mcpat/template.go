package mcpat

import (
	"errors"
	"fmt"
	"io"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/beevik/etree"
)

var (
	configRe = regexp.MustCompile(`config\.([a-zA-Z0-9_:.]+)(\|[0-9]*\.?[0-9]+)?`)
	statRe   = regexp.MustCompile(`stats\.([a-zA-Z0-9_:.]+)`)
)

// Template is a McPAT input file whose param values may refer to config.X
// and whose stat values may refer to stats.X.
type Template struct {
	doc *etree.Document
}

// LoadTemplate reads a McPAT template file.
func LoadTemplate(path string) (*Template, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromFile(path); err != nil {
		return nil, fmt.Errorf("failed to read McPAT template: %w", err)
	}

	return &Template{doc: doc}, nil
}

// ParseTemplate reads a McPAT template.
func ParseTemplate(r io.Reader) (*Template, error) {
	doc := etree.NewDocument()
	if _, err := doc.ReadFrom(r); err != nil {
		return nil, fmt.Errorf("failed to parse McPAT template: %w", err)
	}

	return &Template{doc: doc}, nil
}

// Fill substitutes the config and stats references of a copy of the
// template. The template itself is left untouched.
func (t *Template) Fill(stats Stats, cfg *Config) (*etree.Document, error) {
	doc := t.doc.Copy()

	for _, param := range doc.FindElements("//param") {
		value := param.SelectAttrValue("value", "")
		if !strings.Contains(value, "config") {
			continue
		}

		filled, err := fillParam(value, cfg)
		if err != nil {
			return nil, fmt.Errorf("param %s: %w",
				param.SelectAttrValue("name", ""), err)
		}

		param.CreateAttr("value", filled)
	}

	for _, stat := range doc.FindElements("//stat") {
		value := stat.SelectAttrValue("value", "")
		if !strings.Contains(value, "stats") {
			continue
		}

		filled, ok, err := fillStat(value, stats)
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w",
				stat.SelectAttrValue("name", ""), err)
		}

		if ok {
			stat.CreateAttr("value", filled)
		}
	}

	return doc, nil
}

func fillParam(value string, cfg *Config) (string, error) {
	var missing string

	value = configRe.ReplaceAllStringFunc(value, func(ref string) string {
		m := configRe.FindStringSubmatch(ref)

		v, found := cfg.Lookup(m[1])
		if found {
			return formatConfigValue(v)
		}

		if m[2] != "" {
			return strings.TrimPrefix(m[2], "|")
		}

		if missing == "" {
			missing = m[1]
		}

		return ref
	})

	if missing != "" {
		return "", fmt.Errorf("config %s not found and has no default", missing)
	}

	exprs := strings.Split(value, ",")
	for i, e := range exprs {
		v, err := evaluate(e)
		if err != nil {
			return "", err
		}
		exprs[i] = formatValue(v)
	}

	return strings.Join(exprs, ","), nil
}

// fillStat substitutes the stats of an expression and evaluates it. An
// expression that refers to a stat missing from the dump evaluates to 0, as
// gem5 omits stats that depend on zero-valued ones. It reports false if the
// expression still holds unresolved references.
func fillStat(value string, stats Stats) (string, bool, error) {
	missing := false

	expr := statRe.ReplaceAllStringFunc(value, func(ref string) string {
		v, ok := stats[strings.TrimPrefix(ref, "stats.")]
		if !ok {
			missing = true
			return ref
		}

		return strconv.FormatFloat(math.Trunc(v), 'f', 0, 64)
	})

	if missing {
		expr = "0"
	}

	if strings.Contains(expr, "config") || strings.Contains(expr, "stats") {
		return "", false, nil
	}

	v, err := evaluate(expr)
	if errors.Is(err, errDivisionByZero) {
		return "0", true, nil
	}
	if err != nil {
		return "", false, err
	}

	s, err := truncate(v)
	if err != nil {
		return "", false, err
	}

	return s, true, nil
}
