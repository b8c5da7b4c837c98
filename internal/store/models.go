package store

import (
	"time"

	"github.com/sadopc/moodo/internal/emotion"
)

// Task is a single to-do item. Emotion is a snapshot of the catalog
// entry chosen at creation time, not a live reference. CompletedAt is
// set exactly when Completed is true.
type Task struct {
	ID          string           `json:"id"`
	Text        string           `json:"text"`
	Completed   bool             `json:"completed"`
	Emotion     *emotion.Emotion `json:"emotion"`
	CreatedAt   time.Time        `json:"createdAt"`
	CompletedAt *time.Time       `json:"completedAt"`
}

// Summary aggregates today's tasks. EmotionCounts only has keys for
// emotions that actually tagged a task today.
type Summary struct {
	TotalTasks     int
	CompletedTasks int
	EmotionCounts  map[string]int
}

// CompletionPercent is 0 when there are no tasks today.
func (s Summary) CompletionPercent() int {
	if s.TotalTasks == 0 {
		return 0
	}
	return s.CompletedTasks * 100 / s.TotalTasks
}
