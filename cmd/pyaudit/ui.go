// # cmd/pyaudit/ui.go
package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"pyaudit/internal/analyzer"
)

var (
	titleStyle = lipgloss.NewStyle().
			MarginLeft(2).
			Foreground(lipgloss.Color("#3B82F6")).
			Bold(true).
			Render

	docStyle = lipgloss.NewStyle().Margin(1, 2)

	cycleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F87171")).
			Bold(true)

	undefinedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FBBF24")).
			Bold(true)

	unusedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#A78BFA"))

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#10B981")).
			Bold(true)

	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#64748B")).
			Italic(true)
)

type item struct {
	title, desc string
}

func (i item) Title() string       { return i.title }
func (i item) Description() string { return i.desc }
func (i item) FilterValue() string { return i.title + i.desc }

type model struct {
	list       list.Model
	report     *analyzer.Report
	lastUpdate time.Time
}

type reportMsg struct {
	report *analyzer.Report
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" || msg.String() == "q" {
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		h, v := docStyle.GetFrameSize()
		m.list.SetSize(msg.Width-h, msg.Height-v-4)
	case reportMsg:
		m.report = msg.report
		m.lastUpdate = time.Now()
		m.list.SetItems(reportItems(msg.report))
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func reportItems(rep *analyzer.Report) []list.Item {
	items := []list.Item{}
	for _, c := range rep.Cycles {
		items = append(items, item{
			title: "Circular Import",
			desc:  strings.Join(c, " -> "),
		})
	}
	for _, u := range rep.Undefined {
		items = append(items, item{
			title: "Undefined Symbol",
			desc:  fmt.Sprintf("%s in %s:%d", u.Symbol, u.File, u.Line),
		})
	}
	for _, u := range rep.Unused {
		items = append(items, item{
			title: "Unused Symbol",
			desc:  fmt.Sprintf("%s (%s) in %s:%d", u.Symbol, u.Kind, u.File, u.Line),
		})
	}
	return items
}

func (m model) View() string {
	fileCount := 0
	if m.report != nil {
		fileCount = m.report.FilesScanned
	}
	status := statusStyle.Render(fmt.Sprintf("Last update: %v | %d files",
		m.lastUpdate.Format("15:04:05"), fileCount))

	var summary string
	if m.report == nil || (len(m.report.Cycles) == 0 && len(m.report.Undefined) == 0 && len(m.report.Unused) == 0) {
		summary = successStyle.Render("✅ Project Clean")
	} else {
		summary = fmt.Sprintf("⚠️  %s | %s | %s",
			cycleStyle.Render(fmt.Sprintf("%d Cycles", len(m.report.Cycles))),
			undefinedStyle.Render(fmt.Sprintf("%d Undefined", len(m.report.Undefined))),
			unusedStyle.Render(fmt.Sprintf("%d Unused", len(m.report.Unused))))
	}

	header := fmt.Sprintf("%s\n%s | %s\n", titleStyle("Python Audit Monitor"), status, summary)
	return docStyle.Render(header + "\n" + m.list.View())
}

func initialModel() model {
	l := list.New([]list.Item{}, list.NewDefaultDelegate(), 0, 0)
	l.Title = "Findings"
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(true)

	return model{
		list:       l,
		lastUpdate: time.Now(),
	}
}
