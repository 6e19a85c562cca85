package mcpat

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
)

// Config is a parsed gem5 config.json.
type Config struct {
	root any
}

// LoadConfig reads a gem5 config.json file.
func LoadConfig(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return ParseConfig(f)
}

// ParseConfig reads a gem5 configuration dump. Numbers keep their literal
// form.
func ParseConfig(r io.Reader) (*Config, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()

	var root any
	if err := dec.Decode(&root); err != nil {
		return nil, fmt.Errorf("failed to parse gem5 config: %w", err)
	}

	return &Config{root: root}, nil
}

// Lookup walks a dotted path through the configuration. A list is entered
// through its first element, as gem5 dumps repeated objects such as
// system.cpu as lists.
func (c *Config) Lookup(path string) (any, bool) {
	cur := c.root

	for _, part := range strings.Split(path, ".") {
		if list, ok := cur.([]any); ok {
			if len(list) == 0 {
				return nil, false
			}
			cur = list[0]
		}

		m, ok := cur.(map[string]any)
		if !ok {
			return nil, false
		}

		cur, ok = m[part]
		if !ok {
			return nil, false
		}
	}

	return cur, true
}

// formatConfigValue renders a configuration value as it appears in
// template expressions. Single-element lists are unwrapped.
func formatConfigValue(v any) string {
	if list, ok := v.([]any); ok && len(list) == 1 {
		v = list[0]
	}

	switch v := v.(type) {
	case nil:
		return "None"
	case bool:
		if v {
			return "True"
		}
		return "False"
	case json.Number:
		return v.String()
	case string:
		return v
	case []any:
		parts := make([]string, len(v))
		for i, e := range v {
			parts[i] = formatConfigValue(e)
		}
		return "[" + strings.Join(parts, ", ") + "]"
	default:
		return fmt.Sprint(v)
	}
}
