package manifest

import (
	"context"
	"strings"

	"github.com/rs/xid"
	"github.com/sarchlab/xenon/params"
	"github.com/sarchlab/xenon/sweep"
)

// PointTable holds one row per generated job.
const PointTable = "design_point"

// PointEntry is a generated job as stored in the manifest.
type PointEntry struct {
	RunID      string
	Sweep      string
	Benchmark  string
	JobID      int
	PointIndex int
	Label      string
	Dir        string
	Simulator  string

	// Params lists the assignments of the point, for example
	// "unrolling=4,md_knn.force_x:partition_factor=8".
	Params string
}

// NewRunID returns a fresh id to tag the entries of one generation run.
func NewRunID() string {
	return xid.New().String()
}

// Record creates the point table and stores every job of the plan.
func Record(recorder DataRecorder, plan *sweep.Plan, runID string) {
	recorder.CreateTable(PointTable, PointEntry{})

	for _, j := range plan.Jobs {
		recorder.InsertData(PointTable, EntryOf(j, runID))
	}

	recorder.Flush()
}

// EntryOf converts a job to a manifest entry.
func EntryOf(j *sweep.Job, runID string) PointEntry {
	return PointEntry{
		RunID:      runID,
		Sweep:      j.Sweep.Name,
		Benchmark:  j.Benchmark(),
		JobID:      j.ID,
		PointIndex: j.Point.Index,
		Label:      j.Point.Label(),
		Dir:        j.Dir,
		Simulator:  j.Sweep.Simulator,
		Params:     FormatAssignments(j.Point),
	}
}

// FormatAssignments writes the assignments of a point in application order.
func FormatAssignments(p *sweep.Point) string {
	parts := make([]string, 0, len(p.Assignments))

	for _, a := range p.Assignments {
		name := a.Param
		if a.Target != "" {
			name = a.Target + ":" + a.Param
		}

		value := a.Value.String()
		if rp, ok := params.Lookup(a.Param); ok {
			value = rp.Format(a.Value)
		}

		parts = append(parts, name+"="+value)
	}

	return strings.Join(parts, ",")
}

// ReadPoints queries the point table of a manifest.
func ReadPoints(
	ctx context.Context,
	reader DataReader,
	query QueryParams,
) ([]PointEntry, int, error) {
	reader.MapTable(PointTable, PointEntry{})

	results, total, err := reader.Query(ctx, PointTable, query)
	if err != nil {
		return nil, 0, err
	}

	entries := make([]PointEntry, 0, len(results))
	for _, r := range results {
		entries = append(entries, *r.(*PointEntry))
	}

	return entries, total, nil
}
