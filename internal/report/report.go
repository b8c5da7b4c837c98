// Package report renders today's tasks as a downloadable plain-text
// document.
package report

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/sadopc/moodo/internal/store"
)

// Report is a ready-to-save text payload. The caller owns the actual
// save mechanics; Save is a convenience over os.WriteFile.
type Report struct {
	Payload  []byte
	FileName string
}

// Build renders a report over the tasks created on now's UTC day,
// in list order. Returns nil when there is nothing to report.
func Build(tasks []store.Task, now time.Time) *Report {
	today := store.DayString(now)

	var todays []store.Task
	for _, t := range tasks {
		if store.DayString(t.CreatedAt) == today {
			todays = append(todays, t)
		}
	}
	if len(todays) == 0 {
		return nil
	}

	completed := 0
	for _, t := range todays {
		if t.Completed {
			completed++
		}
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Task Report for %s\n", now.UTC().Format("January 2, 2006"))
	fmt.Fprintf(&b, "Total Tasks: %d\n", len(todays))
	fmt.Fprintf(&b, "Completed Tasks: %d\n\n", completed)
	b.WriteString("Tasks:\n")

	for i, t := range todays {
		status := "PENDING"
		if t.Completed {
			status = "COMPLETED"
		}
		fmt.Fprintf(&b, "%d. [%s] %s\n", i+1, status, t.Text)
		if t.Emotion != nil {
			fmt.Fprintf(&b, "   Emotion: %s %s\n", t.Emotion.Label, t.Emotion.Glyph)
		}
		fmt.Fprintf(&b, "   Created: %s\n", formatClock(t.CreatedAt))
		if t.CompletedAt != nil {
			fmt.Fprintf(&b, "   Completed: %s\n", formatClock(*t.CompletedAt))
		}
		b.WriteString("\n")
	}

	return &Report{
		Payload:  []byte(b.String()),
		FileName: fmt.Sprintf("task-report-%s.txt", today),
	}
}

// Save writes the report into dir and returns the full path.
func (r *Report) Save(dir string) (string, error) {
	path := filepath.Join(dir, r.FileName)
	if err := os.WriteFile(path, r.Payload, 0o644); err != nil {
		return "", fmt.Errorf("write report: %w", err)
	}
	return path, nil
}

// formatClock renders a timestamp as a local wall-clock time. Day
// classification stays UTC; times inside the report are display only.
func formatClock(t time.Time) string {
	return t.Local().Format("3:04:05 PM")
}
