// Package progress writes the run's audit trail: one timestamped line per
// pipeline milestone, appended to a file that is never truncated.
package progress

import (
	"fmt"
	"os"
	"sync"
	"time"
)

// TimeLayout is the second-resolution timestamp prefix of every entry.
const TimeLayout = "2006-01-02 15:04:05"

// Logger appends "<timestamp> : <message>" lines to Path. The file is opened
// per entry so earlier lines survive a crash mid-run.
type Logger struct {
	Path string

	mu  sync.Mutex
	now func() time.Time
}

// New returns a Logger appending to path.
func New(path string) *Logger {
	return &Logger{Path: path, now: time.Now}
}

// Log appends one entry.
func (l *Logger) Log(message string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now
	if l.now != nil {
		now = l.now
	}

	f, err := os.OpenFile(l.Path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("progress: open %s: %w", l.Path, err)
	}
	if _, err := fmt.Fprintf(f, "%s : %s\n", now().Format(TimeLayout), message); err != nil {
		_ = f.Close()
		return fmt.Errorf("progress: write %s: %w", l.Path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("progress: close %s: %w", l.Path, err)
	}
	return nil
}
