package mcpat

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// ErrNoDumps is returned when a stats file holds no complete dump.
var ErrNoDumps = errors.New("no statistics dump found")

// A Mode selects how the dumps of a stats file are turned into McPAT
// inputs.
type Mode int

// Conversion modes.
const (
	// SingleDump converts the first dump only.
	SingleDump Mode = iota

	// MultiplePhases writes one McPAT input per dump, named
	// <prefix>.<phase>.<ext>.
	MultiplePhases

	// AggregatePhases sums all dumps into a single McPAT input.
	AggregatePhases
)

// DefaultOutput is the default McPAT input file name.
const DefaultOutput = "mcpat-out.xml"

// Converter writes McPAT inputs from gem5 stats dumps.
type Converter struct {
	Template *Template
	Config   *Config
	Mode     Mode

	// OutDir is the directory that receives the McPAT inputs.
	OutDir string

	// OutName is the McPAT input file name, DefaultOutput if empty.
	OutName string

	// Log receives status messages. Nil silences them.
	Log io.Writer
}

// Run converts the stats read from r and returns the files written.
func (c *Converter) Run(r io.Reader) ([]string, error) {
	segments, err := Segments(r)
	if err != nil {
		return nil, err
	}

	if len(segments) == 0 {
		return nil, ErrNoDumps
	}

	switch c.Mode {
	case MultiplePhases:
		return c.runPhases(segments)
	case AggregatePhases:
		return c.runAggregate(segments)
	default:
		return c.runSingle(segments[0])
	}
}

func (c *Converter) runSingle(segment []string) ([]string, error) {
	stats, err := ParseSegment(segment)
	if err != nil {
		return nil, err
	}

	path := filepath.Join(c.OutDir, c.outName())
	if err := c.write(stats, path); err != nil {
		return nil, err
	}

	return []string{path}, nil
}

func (c *Converter) runPhases(segments [][]string) ([]string, error) {
	var files []string

	for phase, segment := range segments {
		stats, err := ParseSegment(segment)
		if err != nil {
			return files, fmt.Errorf("phase %d: %w", phase, err)
		}

		path := filepath.Join(c.OutDir, PhaseFileName(c.outName(), phase))
		if err := c.write(stats, path); err != nil {
			return files, err
		}

		files = append(files, path)
	}

	return files, nil
}

func (c *Converter) runAggregate(segments [][]string) ([]string, error) {
	total := make(Stats)

	for phase, segment := range segments {
		stats, err := ParseSegment(segment)
		if err != nil {
			return nil, fmt.Errorf("phase %d: %w", phase, err)
		}

		Aggregate(total, stats)
	}

	path := filepath.Join(c.OutDir, c.outName())
	if err := c.write(total, path); err != nil {
		return nil, err
	}

	return []string{path}, nil
}

func (c *Converter) outName() string {
	if c.OutName == "" {
		return DefaultOutput
	}

	return c.OutName
}

func (c *Converter) write(stats Stats, path string) error {
	doc, err := c.Template.Fill(stats, c.Config)
	if err != nil {
		return err
	}

	if c.Log != nil {
		fmt.Fprintf(c.Log, "Writing input to McPAT in: %s\n", path)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	return doc.WriteToFile(path)
}

// PhaseFileName inserts the phase number before the extension of name.
func PhaseFileName(name string, phase int) string {
	i := strings.LastIndex(name, ".")
	if i < 0 {
		return fmt.Sprintf("%s.%d", name, phase)
	}

	return fmt.Sprintf("%s.%d.%s", name[:i], phase, name[i+1:])
}
