package tui

import (
	"fmt"
	"strings"

	"github.com/NimbleMarkets/ntcharts/barchart"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sadopc/moodo/internal/emotion"
	"github.com/sadopc/moodo/internal/store"
)

type summaryModel struct {
	store   *store.Store
	catalog emotion.Catalog
	width   int
	height  int

	summary  store.Summary
	dominant string
	count    int

	chart barchart.Model
}

func newSummaryModel(s *store.Store, catalog emotion.Catalog) summaryModel {
	return summaryModel{
		store:   s,
		catalog: catalog,
		chart:   barchart.New(40, 8),
	}
}

func (s *summaryModel) setSize(w, h int) {
	s.width = w
	s.height = h
}

func (s summaryModel) refresh() tea.Cmd {
	return func() tea.Msg {
		dominant, count := s.store.DominantEmotion()
		return summaryDataMsg{
			summary:  s.store.DailySummary(),
			dominant: dominant,
			count:    count,
		}
	}
}

func (s summaryModel) update(msg tea.Msg) (summaryModel, tea.Cmd) {
	if msg, ok := msg.(summaryDataMsg); ok {
		s.summary = msg.summary
		s.dominant = msg.dominant
		s.count = msg.count
		s.buildChart()
	}
	return s, nil
}

// buildChart draws one bar per catalog emotion that tagged a task
// today, in catalog order.
func (s *summaryModel) buildChart() {
	chartWidth := s.width - 8
	if chartWidth < 20 {
		chartWidth = 20
	}
	chartHeight := 8
	if s.height > 24 {
		chartHeight = 12
	}

	s.chart = barchart.New(chartWidth, chartHeight)

	var bars []barchart.BarData
	for i, e := range s.catalog {
		n, ok := s.summary.EmotionCounts[e.ID]
		if !ok {
			continue
		}
		style := lipgloss.NewStyle().Foreground(emotionColors[i%len(emotionColors)])
		bars = append(bars, barchart.BarData{
			Label: e.Glyph,
			Values: []barchart.BarValue{
				{Name: e.Label, Value: float64(n), Style: style},
			},
		})
	}

	s.chart.PushAll(bars)
	s.chart.Draw()
}

func (s summaryModel) view() string {
	w := s.width - 4
	title := titleStyle.Render("Daily Summary")
	date := mutedStyle.Render(s.store.TodayString())
	header := lipgloss.JoinHorizontal(lipgloss.Bottom, title, "  ", date)

	if s.summary.TotalTasks == 0 {
		content := lipgloss.JoinVertical(lipgloss.Left,
			header,
			"",
			mutedStyle.Render("Nothing tracked today yet."),
		)
		return panelStyle.Width(w).Render(content)
	}

	stats := fmt.Sprintf("  %s  %s  %s",
		fmt.Sprintf("Total: %d", s.summary.TotalTasks),
		successStyle.Render(fmt.Sprintf("Done: %d", s.summary.CompletedTasks)),
		highlightStyle.Render(fmt.Sprintf("%d%% complete", s.summary.CompletionPercent())),
	)

	dominant := mutedStyle.Render("  No emotion tags today")
	if s.dominant != "" {
		if e, ok := s.catalog.ByID(s.dominant); ok {
			dominant = fmt.Sprintf("  Dominant emotion: %s %s (%d)", e.Glyph, e.Label, s.count)
		} else {
			// Tag from a retired catalog entry; still report it.
			dominant = fmt.Sprintf("  Dominant emotion: %s (%d)", s.dominant, s.count)
		}
	}

	var parts []string
	parts = append(parts, header, "", stats, "", dominant)
	if len(s.summary.EmotionCounts) > 0 {
		parts = append(parts, "", s.chart.View(), "", s.renderLegend())
	}

	return panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left, strings.Join(parts, "\n")))
}

func (s summaryModel) renderLegend() string {
	var items []string
	for i, e := range s.catalog {
		n, ok := s.summary.EmotionCounts[e.ID]
		if !ok {
			continue
		}
		dot := lipgloss.NewStyle().Foreground(emotionColors[i%len(emotionColors)]).Render("●")
		items = append(items, fmt.Sprintf("%s %s %d", dot, e.Label, n))
	}
	return "  " + strings.Join(items, "  ")
}
