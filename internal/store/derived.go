package store

import "time"

// DayString collapses a timestamp to its UTC calendar day. Day
// classification uses UTC everywhere so "today" at render time always
// agrees with "today" at creation time.
func DayString(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}

// TodayString returns the current day in YYYY-MM-DD form.
func (s *Store) TodayString() string {
	s.mu.Lock()
	now := s.now()
	s.mu.Unlock()
	return DayString(now)
}

// TodayTasks returns tasks created today, preserving list order.
func (s *Store) TodayTasks() []Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.todayLocked()
}

func (s *Store) todayLocked() []Task {
	today := DayString(s.now())
	var out []Task
	for _, t := range s.tasks {
		if DayString(t.CreatedAt) == today {
			out = append(out, t)
		}
	}
	return out
}

// FilteredTasks returns today's tasks, narrowed to the active emotion
// filter when one is set.
func (s *Store) FilteredTasks() []Task {
	s.mu.Lock()
	defer s.mu.Unlock()

	today := s.todayLocked()
	if s.filter == "" {
		return today
	}
	var out []Task
	for _, t := range today {
		if t.Emotion != nil && t.Emotion.ID == s.filter {
			out = append(out, t)
		}
	}
	return out
}

// DailySummary aggregates counts over today's tasks. Emotions that
// tagged no task today have no entry in EmotionCounts.
func (s *Store) DailySummary() Summary {
	s.mu.Lock()
	defer s.mu.Unlock()

	sum := Summary{EmotionCounts: make(map[string]int)}
	for _, t := range s.todayLocked() {
		sum.TotalTasks++
		if t.Completed {
			sum.CompletedTasks++
		}
		if t.Emotion != nil {
			sum.EmotionCounts[t.Emotion.ID]++
		}
	}
	return sum
}

// DominantEmotion returns the emotion id with the strictly highest
// count among today's tasks, and that count. Ties resolve to the
// emotion first encountered in list order. Returns ("", 0) when no
// task today carries a tag.
func (s *Store) DominantEmotion() (string, int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	counts := make(map[string]int)
	var order []string // ids in first-encounter order
	for _, t := range s.todayLocked() {
		if t.Emotion == nil {
			continue
		}
		if _, seen := counts[t.Emotion.ID]; !seen {
			order = append(order, t.Emotion.ID)
		}
		counts[t.Emotion.ID]++
	}

	best, bestCount := "", 0
	for _, id := range order {
		if counts[id] > bestCount {
			best, bestCount = id, counts[id]
		}
	}
	return best, bestCount
}
