package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/sadopc/moodo/internal/emotion"
	"github.com/sadopc/moodo/internal/store"
)

// noEmotion is the form option for tasks without a tag.
const noEmotion = "none"

type tasksModel struct {
	store   *store.Store
	catalog emotion.Catalog
	width   int
	height  int

	tasks  []store.Task
	cursor int

	// filterIdx cycles -1 (all) → 0..len(catalog)-1.
	filterIdx int

	formActive bool
	form       *huh.Form
	formType   string // "add", "edit"

	// Form field pointers (survive value copies)
	formText    *string
	formEmotion *string

	editingID string
}

func newTasksModel(s *store.Store, catalog emotion.Catalog) tasksModel {
	text, em := "", noEmotion
	return tasksModel{
		store:       s,
		catalog:     catalog,
		filterIdx:   -1,
		formText:    &text,
		formEmotion: &em,
	}
}

func (t *tasksModel) setSize(w, h int) {
	t.width = w
	t.height = h
}

func (t tasksModel) refresh() tea.Cmd {
	return func() tea.Msg {
		return tasksDataMsg{tasks: t.store.FilteredTasks()}
	}
}

func (t tasksModel) update(msg tea.Msg) (tasksModel, tea.Cmd) {
	if t.formActive && t.form != nil {
		return t.updateForm(msg)
	}

	switch msg := msg.(type) {
	case tasksDataMsg:
		t.tasks = msg.tasks
		if t.cursor >= len(t.tasks) {
			t.cursor = max(0, len(t.tasks)-1)
		}
		return t, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Up):
			if t.cursor > 0 {
				t.cursor--
			}
		case key.Matches(msg, keys.Down):
			if t.cursor < len(t.tasks)-1 {
				t.cursor++
			}
		case key.Matches(msg, keys.Toggle):
			if len(t.tasks) > 0 {
				if _, err := t.store.ToggleTask(t.tasks[t.cursor].ID); err != nil {
					return t, tea.Batch(t.refresh(), reportError(err))
				}
				return t, t.refresh()
			}
		case key.Matches(msg, keys.Delete):
			if len(t.tasks) > 0 {
				if _, err := t.store.DeleteTask(t.tasks[t.cursor].ID); err != nil {
					return t, tea.Batch(t.refresh(), reportError(err))
				}
				return t, t.refresh()
			}
		case key.Matches(msg, keys.New):
			return t.showAddForm()
		case key.Matches(msg, keys.Edit):
			if len(t.tasks) > 0 {
				return t.showEditForm()
			}
		case key.Matches(msg, keys.Filter):
			t.filterIdx++
			if t.filterIdx >= len(t.catalog) {
				t.filterIdx = -1
			}
			if t.filterIdx < 0 {
				t.store.SetFilterEmotion("")
			} else {
				t.store.SetFilterEmotion(t.catalog[t.filterIdx].ID)
			}
			return t, t.refresh()
		}
	}
	return t, nil
}

func (t tasksModel) emotionOptions() []huh.Option[string] {
	options := []huh.Option[string]{huh.NewOption("No emotion", noEmotion)}
	for _, e := range t.catalog {
		options = append(options, huh.NewOption(fmt.Sprintf("%s %s", e.Glyph, e.Label), e.ID))
	}
	return options
}

func (t tasksModel) showAddForm() (tasksModel, tea.Cmd) {
	*t.formText = ""
	*t.formEmotion = noEmotion
	t.formType = "add"
	t.formActive = true

	t.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Task").Value(t.formText),
			huh.NewSelect[string]().Title("How does it feel?").Options(t.emotionOptions()...).Value(t.formEmotion),
		),
	)
	return t, t.form.Init()
}

func (t tasksModel) showEditForm() (tasksModel, tea.Cmd) {
	task := t.tasks[t.cursor]
	*t.formText = task.Text
	t.formType = "edit"
	t.formActive = true
	t.editingID = task.ID

	t.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Task").Value(t.formText),
		),
	)
	return t, t.form.Init()
}

func (t tasksModel) updateForm(msg tea.Msg) (tasksModel, tea.Cmd) {
	// Check for escape to cancel form
	if msg, ok := msg.(tea.KeyMsg); ok {
		if msg.String() == "esc" {
			t.formActive = false
			t.form = nil
			return t, nil
		}
	}

	form, cmd := t.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		t.form = f
	}

	if t.form.State == huh.StateCompleted {
		t.formActive = false
		var err error
		switch t.formType {
		case "add":
			if id := *t.formEmotion; id != noEmotion {
				if e, ok := t.catalog.ByID(id); ok {
					t.store.SetSelectedEmotion(&e)
				}
			} else {
				t.store.SetSelectedEmotion(nil)
			}
			// Blank text is rejected by the store, silently.
			_, err = t.store.AddTask(*t.formText)
		case "edit":
			_, err = t.store.EditTask(t.editingID, *t.formText)
		}
		if err != nil {
			return t, tea.Batch(t.refresh(), reportError(err))
		}
		return t, t.refresh()
	}

	return t, cmd
}

func (t tasksModel) view() string {
	w := t.width - 4

	if t.formActive && t.form != nil {
		title := titleStyle.Render("New Task")
		if t.formType == "edit" {
			title = titleStyle.Render("Edit Task")
		}
		content := lipgloss.JoinVertical(lipgloss.Left, title, "", t.form.View())
		return panelStyle.Width(w).Render(content)
	}

	title := titleStyle.Render("Today's Tasks")
	filterLabel := "all"
	if t.filterIdx >= 0 {
		e := t.catalog[t.filterIdx]
		filterLabel = fmt.Sprintf("%s %s", e.Glyph, e.Label)
	}
	header := lipgloss.JoinHorizontal(lipgloss.Bottom,
		title, "  ", mutedStyle.Render("filter: "+filterLabel),
	)

	if len(t.tasks) == 0 {
		hint := "No tasks today. Press n to add one."
		if t.filterIdx >= 0 {
			hint = "No tasks match this filter. Press f to cycle."
		}
		content := lipgloss.JoinVertical(lipgloss.Left, header, "", mutedStyle.Render(hint))
		return panelStyle.Width(w).Render(content)
	}

	var rows []string
	rows = append(rows, header)
	rows = append(rows, "")

	for i, task := range t.tasks {
		cursor := "  "
		style := normalItemStyle
		if i == t.cursor {
			cursor = "> "
			style = selectedItemStyle
		}

		check := "[ ]"
		text := task.Text
		if task.Completed {
			check = successStyle.Render("[✓]")
			text = doneStyle.Render(text)
		}

		tag := ""
		if task.Emotion != nil {
			tag = " " + task.Emotion.Glyph
		}
		at := mutedStyle.Render(" " + task.CreatedAt.Local().Format("15:04"))

		rows = append(rows, style.Render(cursor+check+" ")+truncate(text, max(10, w-14))+tag+at)
	}

	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render("  n: new  e: edit  d: delete  space: toggle  f: filter"))

	return panelStyle.Width(w).Render(strings.Join(rows, "\n"))
}
