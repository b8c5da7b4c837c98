package store

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/sadopc/moodo/internal/emotion"
	"github.com/sadopc/moodo/internal/kv"
)

func newTestStore(t *testing.T) (*Store, *kv.Map) {
	t.Helper()
	db := kv.NewMap()
	s, err := New(db, zerolog.Nop())
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	return s, db
}

func happy() *emotion.Emotion {
	return &emotion.Emotion{ID: "happy", Glyph: "😌", Label: "Happy"}
}

// ============================================================
// AddTask
// ============================================================

func TestAddTask(t *testing.T) {
	s, _ := newTestStore(t)
	s.SetSelectedEmotion(happy())

	task, err := s.AddTask("Buy milk")
	if err != nil {
		t.Fatal(err)
	}
	if task == nil {
		t.Fatal("expected task")
	}
	if task.Text != "Buy milk" {
		t.Fatalf("text = %q", task.Text)
	}
	if task.Completed {
		t.Fatal("new task should not be completed")
	}
	if task.CompletedAt != nil {
		t.Fatal("new task should have no completion time")
	}
	if task.Emotion == nil || task.Emotion.ID != "happy" {
		t.Fatalf("emotion = %+v, want happy", task.Emotion)
	}
	if task.CreatedAt.IsZero() {
		t.Fatal("CreatedAt should be set")
	}

	if got := len(s.Tasks()); got != 1 {
		t.Fatalf("task count = %d, want 1", got)
	}

	// Selected emotion resets after a successful create.
	if s.SelectedEmotion() != nil {
		t.Fatal("selected emotion should reset after add")
	}
}

func TestAddTaskBlank(t *testing.T) {
	s, _ := newTestStore(t)

	for _, text := range []string{"", "   ", "\t\n"} {
		task, err := s.AddTask(text)
		if err != nil {
			t.Fatal(err)
		}
		if task != nil {
			t.Fatalf("blank %q should be a no-op", text)
		}
	}
	if len(s.Tasks()) != 0 {
		t.Fatal("blank adds must not change the list")
	}
}

func TestAddTaskTrims(t *testing.T) {
	s, _ := newTestStore(t)
	task, _ := s.AddTask("  call mom  ")
	if task.Text != "call mom" {
		t.Fatalf("text = %q, want trimmed", task.Text)
	}
}

func TestAddTaskNewestFirst(t *testing.T) {
	s, _ := newTestStore(t)
	s.AddTask("first")
	s.AddTask("second")

	tasks := s.Tasks()
	if tasks[0].Text != "second" || tasks[1].Text != "first" {
		t.Fatalf("order = %q, %q; want newest first", tasks[0].Text, tasks[1].Text)
	}
}

func TestAddTaskUniqueIDs(t *testing.T) {
	s, _ := newTestStore(t)
	// Freeze the clock so every create sees the same timestamp.
	at := time.Now()
	s.SetClock(func() time.Time { return at })

	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		task, _ := s.AddTask("task")
		if seen[task.ID] {
			t.Fatalf("duplicate id %q", task.ID)
		}
		seen[task.ID] = true
	}
}

func TestAddTaskNoEmotion(t *testing.T) {
	s, _ := newTestStore(t)
	task, _ := s.AddTask("untagged")
	if task.Emotion != nil {
		t.Fatalf("emotion = %+v, want nil", task.Emotion)
	}
}

// ============================================================
// ToggleTask
// ============================================================

func TestToggleTask(t *testing.T) {
	s, _ := newTestStore(t)
	task, _ := s.AddTask("toggle me")

	got, err := s.ToggleTask(task.ID)
	if err != nil {
		t.Fatal(err)
	}
	if !got.Completed {
		t.Fatal("should be completed")
	}
	if got.CompletedAt == nil {
		t.Fatal("CompletedAt should be set on completion")
	}

	got, _ = s.ToggleTask(task.ID)
	if got.Completed {
		t.Fatal("should be pending again")
	}
	if got.CompletedAt != nil {
		t.Fatal("CompletedAt should clear on un-completion")
	}
}

func TestToggleTaskUnknownID(t *testing.T) {
	s, _ := newTestStore(t)
	s.AddTask("a")

	got, err := s.ToggleTask("nope")
	if err != nil {
		t.Fatal(err)
	}
	if got != nil {
		t.Fatal("unknown id should be a no-op")
	}
}

// completed == true ⟺ completedAt present, across mutations.
func TestCompletionInvariant(t *testing.T) {
	s, _ := newTestStore(t)
	a, _ := s.AddTask("a")
	b, _ := s.AddTask("b")
	s.ToggleTask(a.ID)
	s.ToggleTask(b.ID)
	s.ToggleTask(b.ID)
	s.EditTask(a.ID, "a edited")

	for _, task := range s.Tasks() {
		if task.Completed != (task.CompletedAt != nil) {
			t.Fatalf("invariant broken: %+v", task)
		}
	}
}

// ============================================================
// DeleteTask
// ============================================================

func TestDeleteTask(t *testing.T) {
	s, _ := newTestStore(t)
	task, _ := s.AddTask("doomed")
	s.AddTask("survivor")

	removed, err := s.DeleteTask(task.ID)
	if err != nil {
		t.Fatal(err)
	}
	if !removed {
		t.Fatal("expected removal")
	}

	tasks := s.Tasks()
	if len(tasks) != 1 || tasks[0].Text != "survivor" {
		t.Fatalf("unexpected remainder: %+v", tasks)
	}

	removed, err = s.DeleteTask(task.ID)
	if err != nil {
		t.Fatal(err)
	}
	if removed {
		t.Fatal("second delete should be a no-op")
	}
}

// ============================================================
// EditTask
// ============================================================

func TestEditTask(t *testing.T) {
	s, _ := newTestStore(t)
	task, _ := s.AddTask("original")
	s.ToggleTask(task.ID)

	got, err := s.EditTask(task.ID, "  revised  ")
	if err != nil {
		t.Fatal(err)
	}
	if got.Text != "revised" {
		t.Fatalf("text = %q", got.Text)
	}
	if !got.Completed || got.CompletedAt == nil {
		t.Fatal("edit must not touch completion state")
	}
}

func TestEditTaskBlankRejected(t *testing.T) {
	s, _ := newTestStore(t)
	task, _ := s.AddTask("keep me")

	got, err := s.EditTask(task.ID, "   ")
	if err != nil {
		t.Fatal(err)
	}
	if got != nil {
		t.Fatal("blank edit should be rejected")
	}
	if s.Tasks()[0].Text != "keep me" {
		t.Fatal("text must be unchanged after rejected edit")
	}
}

func TestEditTaskUnknownID(t *testing.T) {
	s, _ := newTestStore(t)
	got, err := s.EditTask("nope", "text")
	if err != nil {
		t.Fatal(err)
	}
	if got != nil {
		t.Fatal("unknown id should be a no-op")
	}
}

// ============================================================
// Persistence
// ============================================================

func TestPersistenceRoundTrip(t *testing.T) {
	s, db := newTestStore(t)
	s.SetSelectedEmotion(happy())
	a, _ := s.AddTask("persisted")
	s.AddTask("pending one")
	s.ToggleTask(a.ID)

	// A fresh store over the same kv sees identical tasks.
	s2, err := New(db, zerolog.Nop())
	if err != nil {
		t.Fatal(err)
	}

	before, after := s.Tasks(), s2.Tasks()
	if len(after) != len(before) {
		t.Fatalf("reloaded %d tasks, want %d", len(after), len(before))
	}
	for i := range before {
		b, a := before[i], after[i]
		if b.ID != a.ID || b.Text != a.Text || b.Completed != a.Completed {
			t.Fatalf("task %d mismatch: %+v vs %+v", i, b, a)
		}
		if !b.CreatedAt.Equal(a.CreatedAt) {
			t.Fatalf("task %d CreatedAt mismatch", i)
		}
		if (b.CompletedAt == nil) != (a.CompletedAt == nil) {
			t.Fatalf("task %d CompletedAt presence mismatch", i)
		}
		if (b.Emotion == nil) != (a.Emotion == nil) {
			t.Fatalf("task %d Emotion presence mismatch", i)
		}
		if b.Emotion != nil && *b.Emotion != *a.Emotion {
			t.Fatalf("task %d Emotion mismatch: %+v vs %+v", i, b.Emotion, a.Emotion)
		}
	}
}

func TestPersistedSchema(t *testing.T) {
	s, db := newTestStore(t)
	s.SetSelectedEmotion(happy())
	s.AddTask("check the wire format")

	data, err := db.Get("tasks")
	if err != nil {
		t.Fatal(err)
	}

	// Emotion is embedded as a full snapshot, not a foreign key.
	var raw []map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatalf("stored payload is not a JSON array: %v", err)
	}
	for _, field := range []string{"id", "text", "completed", "emotion", "createdAt", "completedAt"} {
		if _, ok := raw[0][field]; !ok {
			t.Fatalf("missing field %q in %s", field, data)
		}
	}
	var em emotion.Emotion
	if err := json.Unmarshal(raw[0]["emotion"], &em); err != nil {
		t.Fatalf("emotion is not an embedded object: %v", err)
	}
	if em.ID != "happy" || em.Label != "Happy" {
		t.Fatalf("emotion snapshot = %+v", em)
	}
}

func TestCorruptStateStartsEmpty(t *testing.T) {
	db := kv.NewMap()
	db.Put("tasks", []byte("{not json"))

	s, err := New(db, zerolog.Nop())
	if err != nil {
		t.Fatalf("corrupt state must not fail startup: %v", err)
	}
	if len(s.Tasks()) != 0 {
		t.Fatal("store should start empty after corruption")
	}

	// The corrupted record is purged, not left behind.
	if _, err := db.Get("tasks"); !errors.Is(err, kv.ErrNotFound) {
		t.Fatalf("corrupt record should be purged, got err = %v", err)
	}
}

func TestMissingKeyStartsEmpty(t *testing.T) {
	s, _ := newTestStore(t)
	if len(s.Tasks()) != 0 {
		t.Fatal("fresh store should be empty")
	}
}

func TestIDsStayUniqueAcrossReload(t *testing.T) {
	s, db := newTestStore(t)
	at := time.Now()
	s.SetClock(func() time.Time { return at })
	s.AddTask("one")
	s.AddTask("two")

	s2, err := New(db, zerolog.Nop())
	if err != nil {
		t.Fatal(err)
	}
	s2.SetClock(func() time.Time { return at })
	task, _ := s2.AddTask("three")

	for _, existing := range s2.Tasks()[1:] {
		if existing.ID == task.ID {
			t.Fatalf("reloaded store reissued id %q", task.ID)
		}
	}
}
