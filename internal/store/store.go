package store

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/sadopc/moodo/internal/emotion"
	"github.com/sadopc/moodo/internal/kv"
)

// tasksKey is the single durable-storage key holding the task list.
const tasksKey = "tasks"

// Store owns the task list plus the session-only selection and filter
// state. Every mutation persists the full list before returning; the
// kv layer is a passive mirror of the in-memory state.
type Store struct {
	mu  sync.Mutex
	db  kv.Store
	log zerolog.Logger
	now func() time.Time

	tasks    []Task // newest first
	selected *emotion.Emotion
	filter   string // emotion id, "" = show all
	lastID   int64
}

// New hydrates a store from db. A missing key starts empty; an
// unparsable value is treated as corrupt, logged, purged, and the
// store starts empty.
func New(db kv.Store, log zerolog.Logger) (*Store, error) {
	s := &Store{db: db, log: log, now: time.Now}

	data, err := db.Get(tasksKey)
	if err == kv.ErrNotFound {
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read tasks: %w", err)
	}

	if err := json.Unmarshal(data, &s.tasks); err != nil {
		s.log.Warn().Err(err).Msg("stored tasks are corrupt, purging")
		if derr := db.Delete(tasksKey); derr != nil {
			return nil, fmt.Errorf("purge corrupt tasks: %w", derr)
		}
		s.tasks = nil
		return s, nil
	}

	for _, t := range s.tasks {
		if id, err := strconv.ParseInt(t.ID, 10, 64); err == nil && id > s.lastID {
			s.lastID = id
		}
	}
	return s, nil
}

// SetClock replaces the time source, for tests.
func (s *Store) SetClock(now func() time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = now
}

// AddTask creates a task from text, tagged with the currently selected
// emotion, and prepends it to the list. Blank text is a no-op. The
// selected emotion is cleared after a successful create.
func (s *Store) AddTask(text string) (*Task, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	t := Task{
		ID:        s.nextID(now),
		Text:      text,
		Emotion:   s.selected,
		CreatedAt: now,
	}
	s.tasks = append([]Task{t}, s.tasks...)
	s.selected = nil

	if err := s.persist(); err != nil {
		return &t, err
	}
	return &t, nil
}

// ToggleTask flips a task's completion state, setting CompletedAt on
// the false→true transition and clearing it on true→false. Unknown
// ids are a no-op.
func (s *Store) ToggleTask(id string) (*Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.index(id)
	if i < 0 {
		return nil, nil
	}

	t := &s.tasks[i]
	t.Completed = !t.Completed
	if t.Completed {
		at := s.now()
		t.CompletedAt = &at
	} else {
		t.CompletedAt = nil
	}

	cp := *t
	if err := s.persist(); err != nil {
		return &cp, err
	}
	return &cp, nil
}

// DeleteTask removes a task. Reports whether anything was removed.
func (s *Store) DeleteTask(id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.index(id)
	if i < 0 {
		return false, nil
	}

	s.tasks = append(s.tasks[:i], s.tasks[i+1:]...)
	if err := s.persist(); err != nil {
		return true, err
	}
	return true, nil
}

// EditTask replaces a task's text. Blank replacement text is rejected
// without mutating; completion state is never touched.
func (s *Store) EditTask(id, newText string) (*Task, error) {
	newText = strings.TrimSpace(newText)
	if newText == "" {
		return nil, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.index(id)
	if i < 0 {
		return nil, nil
	}

	s.tasks[i].Text = newText
	cp := s.tasks[i]
	if err := s.persist(); err != nil {
		return &cp, err
	}
	return &cp, nil
}

// SetSelectedEmotion stages the emotion for the next created task.
func (s *Store) SetSelectedEmotion(e *emotion.Emotion) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if e == nil {
		s.selected = nil
		return
	}
	cp := *e
	s.selected = &cp
}

func (s *Store) SelectedEmotion() *emotion.Emotion {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.selected == nil {
		return nil
	}
	cp := *s.selected
	return &cp
}

// SetFilterEmotion narrows the displayed list to one emotion id;
// the empty string shows all.
func (s *Store) SetFilterEmotion(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.filter = id
}

func (s *Store) FilterEmotion() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.filter
}

// Tasks returns a copy of the full list, newest first.
func (s *Store) Tasks() []Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Task(nil), s.tasks...)
}

// index returns the position of id, or -1.
func (s *Store) index(id string) int {
	for i := range s.tasks {
		if s.tasks[i].ID == id {
			return i
		}
	}
	return -1
}

// nextID derives an id from the creation timestamp, bumping past the
// last issued id so rapid creates stay unique and ordered.
func (s *Store) nextID(now time.Time) string {
	id := now.UnixNano()
	if id <= s.lastID {
		id = s.lastID + 1
	}
	s.lastID = id
	return strconv.FormatInt(id, 10)
}

// persist writes the full task list under tasksKey. Callers hold mu.
func (s *Store) persist() error {
	data, err := json.Marshal(s.tasks)
	if err != nil {
		return fmt.Errorf("marshal tasks: %w", err)
	}
	if err := s.db.Put(tasksKey, data); err != nil {
		return fmt.Errorf("write tasks: %w", err)
	}
	return nil
}
