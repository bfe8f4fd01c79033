// Package reports writes timestamped JSON report files.
//
// Commands use this package when --report is set. Reports land in the
// "reports/" directory of the working directory unless a Dir is given.
package reports

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// DefaultDir is where reports are written when Writer.Dir is empty.
const DefaultDir = "reports"

// Writer writes reports into Dir.
type Writer struct {
	Dir string
	now func() time.Time
}

// WriteJSON writes data to {prefix}-{YYYYMMDD-HHMMSS}.json under DefaultDir
// and returns the path.
func WriteJSON(data any, prefix string) (string, error) {
	return (&Writer{}).WriteJSON(data, prefix)
}

// WriteJSON pretty-prints data into a timestamped file and returns its path.
func (w *Writer) WriteJSON(data any, prefix string) (string, error) {
	if prefix == "" {
		prefix = "report"
	}
	dir := w.Dir
	if dir == "" {
		dir = DefaultDir
	}
	now := time.Now
	if w.now != nil {
		now = w.now
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create reports directory: %w", err)
	}

	ts := now().UTC().Format("20060102-150405")
	path := filepath.Join(dir, fmt.Sprintf("%s-%s.json", prefix, ts))

	b, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal JSON: %w", err)
	}

	if err := os.WriteFile(path, append(b, '\n'), 0o644); err != nil {
		return "", fmt.Errorf("write report: %w", err)
	}
	return path, nil
}
