package cli

import (
	"io"
	"time"

	"github.com/charmbracelet/log"
)

// newLogger creates a new logger with timestamp formatting.
// Timestamps are formatted as "HH:MM:SS.ms" (e.g., "14:32:01.45").
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// progress tracks the start time of an operation and logs completion with
// elapsed duration at debug level.
type progress struct {
	logger *log.Logger
	start  time.Time
}

func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

// done logs msg and kv along with the elapsed time, rounded to the millisecond.
// Example output: "fetched trending elapsed=1.234s records=50"
func (p *progress) done(msg string, kv ...any) {
	kv = append([]any{"elapsed", time.Since(p.start).Round(time.Millisecond)}, kv...)
	p.logger.Debug(msg, kv...)
}
