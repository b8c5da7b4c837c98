package tui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/sadopc/moodo/internal/store"
	"github.com/sadopc/moodo/internal/voice"
)

// viewState represents the currently active view.
type viewState int

const (
	viewTasks viewState = iota
	viewSummary
)

var viewNames = []string{"Tasks", "Summary"}

// --- Messages ---

type tasksDataMsg struct {
	tasks []store.Task
}

type summaryDataMsg struct {
	summary  store.Summary
	dominant string
	count    int
}

type statusMsg struct {
	text    string
	isError bool
}

// reportError surfaces a failure on the status line.
func reportError(err error) tea.Cmd {
	return func() tea.Msg {
		return statusMsg{text: err.Error(), isError: true}
	}
}

// VoiceEventMsg carries controller events into the Bubble Tea loop;
// main forwards them via Program.Send.
type VoiceEventMsg struct {
	Event voice.Event
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	if n <= 1 {
		return "…"
	}
	return string(r[:n-1]) + "…"
}
