package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"github.com/fittrackapp/fittrack/internal/model"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	panelStyle  = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	noticeStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("11")).Padding(0, 1)
	dimStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

const helpMarkdown = `# fittrack

Track fitness projects from the terminal.

- **1 / 2** switch between projects and templates
- **enter** open the selected project
- **r** record a progress event on the open project
- **m** toggle a 24h deadline reminder
- **a** materialize every config in the selected template
- **x** delete the selected project or template
- **t** cycle the color theme preference
- **esc** go back, **q** quit

Completed projects stay on the list for the rest of the day,
then disappear while remaining in the store.
`

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var body string
	switch m.screen {
	case screenProjects:
		body = m.projectList.View()
	case screenTemplates:
		body = m.templateList.View()
	case screenDetail:
		body = m.viewDetail()
	case screenRecord:
		body = m.viewRecord()
	case screenHelp:
		body = renderMarkdown(helpMarkdown)
	}

	lines := []string{
		headerStyle.Render("fittrack"),
		body,
	}
	if m.notice != "" {
		lines = append(lines, noticeStyle.Render(m.notice))
	}
	if m.status != "" {
		style := statusStyle
		if m.statusErr {
			style = errorStyle
		}
		lines = append(lines, style.Render(m.status))
	}
	lines = append(lines, m.helpModel.View(m.keys))
	return strings.Join(lines, "\n")
}

func (m Model) viewDetail() string {
	p := m.selected
	pct := model.PercentComplete(p)

	var b strings.Builder
	b.WriteString(headerStyle.Render(p.Name) + "\n")
	if p.Description != "" {
		b.WriteString(dimStyle.Render(p.Description) + "\n")
	}
	b.WriteString("\n" + m.bar.ViewAs(pct/100) + fmt.Sprintf("  %.0f%%\n\n", pct))

	switch p.Type {
	case model.ProjectTypeSetsReps:
		b.WriteString(fmt.Sprintf("Sets: %d · Reps per set: %d · Logged: %d reps in %d events\n",
			p.Sets, p.RepsPerSet, p.TotalCompletedReps(), len(p.CompletedSets)))
	case model.ProjectTypeTotalCount:
		line := fmt.Sprintf("Count: %d of %d", p.CurrentCount, p.TargetCount)
		if p.TargetWeight > 0 {
			line += fmt.Sprintf(" · Target weight: %.2f kg", p.TargetWeight)
		}
		b.WriteString(line + "\n")
	}
	if p.Status == model.ProjectStatusCompleted {
		b.WriteString(statusStyle.Render("Completed "+p.CompletedDate) + "\n")
	}

	if len(m.records) > 0 {
		b.WriteString("\n" + dimStyle.Render("History") + "\n")
		start := 0
		if len(m.records) > 8 {
			start = len(m.records) - 8
		}
		for _, rec := range m.records[start:] {
			b.WriteString(fmt.Sprintf("  %s  %d\n", rec.Timestamp.Local().Format("Jan 2 15:04"), rec.Value))
		}
	}

	return panelStyle.Render(b.String())
}

func (m Model) viewRecord() string {
	prompt := "Reps completed this set"
	if m.selected.Type == model.ProjectTypeTotalCount {
		prompt = "New total count"
	}
	return panelStyle.Render(fmt.Sprintf("%s\n\n%s\n\n%s",
		headerStyle.Render(m.selected.Name),
		prompt+": "+m.valueInput.View(),
		dimStyle.Render("enter to save · esc to cancel"),
	))
}

func renderMarkdown(md string) string {
	out, err := glamour.Render(md, "dark")
	if err != nil {
		return md
	}
	return strings.TrimSpace(out)
}
