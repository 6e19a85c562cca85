package writer

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/sarchlab/xenon/sweep"
)

var condorHeader = []string{
	"#Submit this file in the directory where the input and output files live",
	"Universe        = vanilla",
	"# With the following setting, Condor will try to copy and use the environ-",
	"# ment of the submitter, provided its not too large.",
	"GetEnv          = True",
	"# This forces the jobs to be run on the less crowded server",
	"Requirements    = (OpSys == \"LINUX\") && (Arch == \"X86_64\") && " +
		"( TotalMemory > 128000)",
	"# Change the email address to suit yourself",
	"Notification    = Error",
	"Executable = /bin/bash",
}

// CondorWriter writes a single Condor submission file that queues the run
// script of every job.
type CondorWriter struct {
	path string
	buf  strings.Builder
}

// NewCondorWriter creates a CondorWriter.
func NewCondorWriter() *CondorWriter {
	return &CondorWriter{}
}

// Name returns "condor".
func (w *CondorWriter) Name() string {
	return "condor"
}

// IsApplicable returns true. Sweep.Validate guarantees the name and output
// directory the submission file is named after.
func (w *CondorWriter) IsApplicable(_ *sweep.Sweep) bool {
	return true
}

// Write queues the job.
func (w *CondorWriter) Write(j *sweep.Job) error {
	if w.path == "" {
		w.path = filepath.Join(j.Sweep.OutputDir, j.Sweep.Name+".con")
		for _, line := range condorHeader {
			w.buf.WriteString(line + "\n")
		}
		w.buf.WriteString("\n")
	}

	if err := os.MkdirAll(j.Dir, 0755); err != nil {
		return err
	}

	fmt.Fprintf(&w.buf, "InitialDir = %s\n", j.Dir)
	fmt.Fprintf(&w.buf, "Arguments = %s\n", filepath.Join(j.Dir, "run.sh"))
	fmt.Fprintf(&w.buf, "Log = %s\n", filepath.Join(j.Dir, "log"))
	w.buf.WriteString("Queue\n\n")

	return nil
}

// Finish writes the submission file.
func (w *CondorWriter) Finish() error {
	if w.path == "" {
		return nil
	}

	err := writeFile(w.path, w.buf.String())

	w.path = ""
	w.buf.Reset()

	return err
}
