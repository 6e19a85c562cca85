// Package mcpat fills McPAT input templates from gem5 statistics and
// configuration dumps.
package mcpat

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
)

const (
	beginFlag = "Begin Simulation Statistics"
	endFlag   = "End Simulation Statistics"
)

// Stats maps gem5 statistic names to their values.
type Stats map[string]float64

// Segments splits a gem5 stats file into its dumps. Blank and comment lines
// are dropped. A dump that is not terminated is ignored.
func Segments(r io.Reader) ([][]string, error) {
	var (
		segments [][]string
		buf      []string
	)

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 16*1024*1024)

	for scanner.Scan() {
		line := scanner.Text()

		switch {
		case strings.Contains(line, beginFlag):
		case strings.Contains(line, endFlag):
			segments = append(segments, buf)
			buf = nil
		case strings.TrimSpace(line) != "" && !strings.HasPrefix(line, "#"):
			buf = append(buf, line)
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read stats: %w", err)
	}

	return segments, nil
}

// ParseSegment reads the `name value` pairs of a dump. Non-finite values
// are read as 0.
func ParseSegment(lines []string) (Stats, error) {
	stats := make(Stats, len(lines))

	for _, line := range lines {
		fields := strings.Fields(line)
		if len(fields) < 2 {
			return nil, fmt.Errorf("malformed stat line %q", line)
		}

		// glibc prints NaN with a sign, which ParseFloat rejects.
		if strings.EqualFold(strings.TrimLeft(fields[1], "+-"), "nan") {
			stats[fields[0]] = 0
			continue
		}

		v, err := strconv.ParseFloat(fields[1], 64)
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", fields[0], err)
		}

		if math.IsNaN(v) || math.IsInf(v, 0) {
			v = 0
		}

		stats[fields[0]] = v
	}

	return stats, nil
}

// Aggregate adds src into dst. Duty cycles are not summed.
func Aggregate(dst, src Stats) {
	for name, v := range src {
		if strings.Contains(name, "duty_cycle") {
			continue
		}

		dst[name] += v
	}
}
