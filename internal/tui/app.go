package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sadopc/moodo/internal/emotion"
	"github.com/sadopc/moodo/internal/report"
	"github.com/sadopc/moodo/internal/store"
	"github.com/sadopc/moodo/internal/voice"
)

// App is the root Bubble Tea model.
type App struct {
	store     *store.Store
	catalog   emotion.Catalog
	voice     *voice.Controller
	reportDir string

	width  int
	height int

	activeView viewState
	showHelp   bool

	tasks   tasksModel
	summary summaryModel

	help        help.Model
	status      string
	statusError bool
}

func NewApp(s *store.Store, catalog emotion.Catalog, vc *voice.Controller, reportDir string) App {
	h := help.New()
	h.ShowAll = false

	return App{
		store:      s,
		catalog:    catalog,
		voice:      vc,
		reportDir:  reportDir,
		activeView: viewTasks,
		tasks:      newTasksModel(s, catalog),
		summary:    newSummaryModel(s, catalog),
		help:       h,
	}
}

func (a App) Init() tea.Cmd {
	return tea.Batch(a.tasks.refresh(), a.summary.refresh())
}

func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.help.Width = msg.Width
		contentHeight := a.height - 4 // header + footer
		a.tasks.setSize(a.width, contentHeight)
		a.summary.setSize(a.width, contentHeight)
		return a, nil

	case tea.KeyMsg:
		// If the tasks form is capturing input, delegate first.
		if a.tasks.formActive {
			return a.updateActiveView(msg)
		}

		switch {
		case key.Matches(msg, keys.Quit):
			return a, tea.Quit
		case key.Matches(msg, keys.Help):
			a.showHelp = !a.showHelp
			a.help.ShowAll = a.showHelp
			return a, nil
		case key.Matches(msg, keys.Mic):
			return a.toggleMic()
		case key.Matches(msg, keys.Report):
			return a.saveReport()
		case key.Matches(msg, keys.Tab1):
			a.activeView = viewTasks
			return a, a.tasks.refresh()
		case key.Matches(msg, keys.Tab2):
			a.activeView = viewSummary
			return a, a.summary.refresh()
		case key.Matches(msg, keys.Tab):
			a.activeView = (a.activeView + 1) % 2
			return a, a.refreshCurrentView()
		}
		return a.updateActiveView(msg)

	case tasksDataMsg:
		var cmd tea.Cmd
		a.tasks, cmd = a.tasks.update(msg)
		return a, tea.Batch(cmd, a.summary.refresh())

	case summaryDataMsg:
		var cmd tea.Cmd
		a.summary, cmd = a.summary.update(msg)
		return a, cmd

	case statusMsg:
		a.status = msg.text
		a.statusError = msg.isError
		return a, nil

	case VoiceEventMsg:
		return a.handleVoiceEvent(msg.Event)
	}

	return a.updateActiveView(msg)
}

func (a App) updateActiveView(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch a.activeView {
	case viewTasks:
		a.tasks, cmd = a.tasks.update(msg)
	case viewSummary:
		a.summary, cmd = a.summary.update(msg)
	}
	return a, cmd
}

func (a App) refreshCurrentView() tea.Cmd {
	switch a.activeView {
	case viewSummary:
		return a.summary.refresh()
	default:
		return a.tasks.refresh()
	}
}

func (a App) toggleMic() (tea.Model, tea.Cmd) {
	if !a.voice.Available() {
		a.status = "Speech recognition is not available; add tasks by typing"
		a.statusError = true
		return a, nil
	}
	if a.voice.State() != voice.Idle {
		a.voice.Stop()
		return a, nil
	}
	if err := a.voice.Start(); err != nil {
		a.status = err.Error()
		a.statusError = true
		return a, nil
	}
	a.status = fmt.Sprintf("Listening for %q…", "hi moodo")
	a.statusError = false
	return a, nil
}

func (a App) saveReport() (tea.Model, tea.Cmd) {
	r := report.Build(a.store.Tasks(), time.Now())
	if r == nil {
		a.status = "No tasks today, nothing to report"
		a.statusError = false
		return a, nil
	}
	path, err := r.Save(a.reportDir)
	if err != nil {
		a.status = err.Error()
		a.statusError = true
		return a, nil
	}
	a.status = "Report saved to " + path
	a.statusError = false
	return a, nil
}

func (a App) handleVoiceEvent(e voice.Event) (tea.Model, tea.Cmd) {
	a.statusError = false
	switch e.Kind {
	case voice.EventState:
		switch e.State {
		case voice.ListeningForTrigger:
			a.status = fmt.Sprintf("Listening for %q…", "hi moodo")
		case voice.CapturingTask:
			a.status = "Trigger heard — speak your task"
		default:
			a.status = "Mic off"
		}
	case voice.EventHeard:
		a.status = fmt.Sprintf("Heard: %q", truncate(e.Transcript, 60))
	case voice.EventTaskAdded:
		a.status = fmt.Sprintf("Added task: %q", truncate(e.Transcript, 60))
		return a, tea.Batch(a.tasks.refresh(), a.summary.refresh())
	case voice.EventError:
		a.status = "Voice error: " + e.Err.Error()
		a.statusError = true
	}
	return a, nil
}

func (a App) View() string {
	if a.width == 0 {
		return "loading…"
	}

	header := a.renderHeader()
	footer := a.renderFooter()

	var content string
	switch a.activeView {
	case viewTasks:
		content = a.tasks.view()
	case viewSummary:
		content = a.summary.view()
	}

	return lipgloss.JoinVertical(lipgloss.Left, header, content, footer)
}

func (a App) renderHeader() string {
	var tabs []string
	for i, name := range viewNames {
		if viewState(i) == a.activeView {
			tabs = append(tabs, activeTabStyle.Render(name))
		} else {
			tabs = append(tabs, inactiveTabStyle.Render(name))
		}
	}

	mic := ""
	if a.voice.Available() {
		switch a.voice.State() {
		case voice.Idle:
			mic = mutedStyle.Render("🎤 off")
		case voice.ListeningForTrigger:
			mic = highlightStyle.Render("🎤 listening")
		case voice.CapturingTask:
			mic = successStyle.Render("🎤 capturing")
		}
	}

	title := titleStyle.Render("moodo")
	row := lipgloss.JoinHorizontal(lipgloss.Bottom,
		title, "  ", strings.Join(tabs, ""), "  ", mic,
	)
	return headerStyle.Render(row)
}

func (a App) renderFooter() string {
	status := a.status
	if a.statusError {
		status = errorStyle.Render(status)
	} else {
		status = mutedStyle.Render(status)
	}
	return footerStyle.Render(lipgloss.JoinVertical(lipgloss.Left, status, a.help.View(keys)))
}
