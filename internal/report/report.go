// Package report is the reporting sink for a mirror run: a chronological
// operation log, a concise human-readable summary file, and colored
// console status lines. Both files are opened in append mode and carry the
// run's start timestamp in their names, so runs never overwrite each
// other's artifacts.
package report

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/muesli/termenv"
)

const (
	filePrefix = "gitmirror"

	// Stamp is the compact timestamp layout embedded in file and branch names
	Stamp = "20060102_150405"

	logLayout = "2006-01-02 15:04:05"
)

// Status is the recorded outcome of one push category.
type Status string

const (
	StatusSuccess Status = "success"
	StatusPartial Status = "partial"
	StatusFailed  Status = "failed"
)

// Reporter appends operation events to the run's log file, accumulates
// summary facts in the summary file, and echoes status lines to the
// console.
type Reporter struct {
	started time.Time
	logFile io.WriteCloser
	sumFile io.WriteCloser
	console *termenv.Output

	logPath string
	sumPath string
}

// New opens the run's log and summary files in dir. Console output goes to
// out, with colors degraded automatically when out is not a terminal.
func New(dir string, out io.Writer, started time.Time) (*Reporter, error) {
	stamp := started.Format(Stamp)
	logPath := filepath.Join(dir, fmt.Sprintf("%s_%s.log", filePrefix, stamp))
	sumPath := filepath.Join(dir, fmt.Sprintf("%s_summary_%s.txt", filePrefix, stamp))

	logFile, err := os.OpenFile(logPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}
	sumFile, err := os.OpenFile(sumPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		logFile.Close()
		return nil, fmt.Errorf("failed to open summary file: %w", err)
	}

	return &Reporter{
		started: started,
		logFile: logFile,
		sumFile: sumFile,
		console: termenv.NewOutput(out),
		logPath: logPath,
		sumPath: sumPath,
	}, nil
}

// Started returns the run's start time.
func (r *Reporter) Started() time.Time { return r.started }

// Timestamp returns the run's start time in the compact stamp layout used
// for file and mirror branch names.
func (r *Reporter) Timestamp() string { return r.started.Format(Stamp) }

// LogPath returns the path of the operation log file.
func (r *Reporter) LogPath() string { return r.logPath }

// SummaryPath returns the path of the summary file.
func (r *Reporter) SummaryPath() string { return r.sumPath }

// Step records entry into a workflow step.
func (r *Reporter) Step(name string) {
	r.event("STEP", name, "12")
}

// Info records a notable event.
func (r *Reporter) Info(format string, a ...any) {
	r.event("INFO", fmt.Sprintf(format, a...), "2")
}

// Warn records a non-fatal problem; the run continues.
func (r *Reporter) Warn(format string, a ...any) {
	r.event("WARN", fmt.Sprintf(format, a...), "3")
}

// Error records a fatal condition.
func (r *Reporter) Error(format string, a ...any) {
	r.event("ERROR", fmt.Sprintf(format, a...), "1")
}

// Summary appends one structured fact to the summary file. Summary lines
// are configuration facts and push outcomes only; chronology lives in the
// log file.
func (r *Reporter) Summary(key, value string) {
	fmt.Fprintf(r.sumFile, "%s: %s\n", key, value)
}

// Outcome records one push category's outcome in both the summary and the
// log.
func (r *Reporter) Outcome(category string, status Status, detail string) {
	value := string(status)
	if detail != "" {
		value = fmt.Sprintf("%s (%s)", status, detail)
	}
	r.Summary(category, value)

	switch status {
	case StatusSuccess:
		r.Info("%s: %s", category, value)
	default:
		r.Warn("%s: %s", category, value)
	}
}

// Close flushes and closes both files.
func (r *Reporter) Close() error {
	logErr := r.logFile.Close()
	sumErr := r.sumFile.Close()
	if logErr != nil {
		return logErr
	}
	return sumErr
}

func (r *Reporter) event(level, msg, color string) {
	fmt.Fprintf(r.logFile, "%s [%s] %s\n", time.Now().Format(logLayout), level, msg)

	tag := r.console.String(fmt.Sprintf("[%s]", level)).
		Foreground(r.console.Color(color)).
		String()
	r.console.WriteString(fmt.Sprintf("%s %s\n", tag, msg))
}
