package tui

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/fittrackapp/fittrack/internal/model"
	"github.com/fittrackapp/fittrack/internal/prefs"
	"github.com/fittrackapp/fittrack/internal/scheduler"
	"github.com/fittrackapp/fittrack/internal/tracker"
)

type projectsLoadedMsg struct {
	projects []model.Project
}

type templatesLoadedMsg struct {
	templates []model.Template
}

type projectOpenedMsg struct {
	project model.Project
	records []model.ProgressRecord
}

type projectSavedMsg struct {
	project model.Project
}

type projectDeletedMsg struct {
	id string
}

type materializedMsg struct {
	result tracker.MaterializeResult
}

type reminderDueMsg struct {
	trigger scheduler.Trigger
}

type themeChangedMsg struct {
	theme model.Theme
}

type errMsg struct {
	err error
}

func loadProjects(repo *tracker.ProjectRepository) tea.Cmd {
	return func() tea.Msg {
		projects, err := repo.ListActive(context.Background(), today())
		if err != nil {
			return errMsg{err}
		}
		return projectsLoadedMsg{projects}
	}
}

func loadTemplates(repo *tracker.TemplateRepository) tea.Cmd {
	return func() tea.Msg {
		templates, err := repo.List(context.Background())
		if err != nil {
			return errMsg{err}
		}
		return templatesLoadedMsg{templates}
	}
}

func openProject(repo *tracker.ProjectRepository, id string) tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()
		project, err := repo.Get(ctx, id)
		if err != nil {
			return errMsg{err}
		}
		records, err := repo.ListRecords(ctx, id)
		if err != nil {
			return errMsg{err}
		}
		return projectOpenedMsg{project: project, records: records}
	}
}

func recordProgress(repo *tracker.ProjectRepository, id string, value int) tea.Cmd {
	return func() tea.Msg {
		project, err := repo.RecordProgress(context.Background(), id, tracker.ProgressEvent{Value: value})
		if err != nil {
			return errMsg{err}
		}
		return projectSavedMsg{project}
	}
}

func deleteProject(repo *tracker.ProjectRepository, id string) tea.Cmd {
	return func() tea.Msg {
		if err := repo.Delete(context.Background(), id); err != nil {
			return errMsg{err}
		}
		return projectDeletedMsg{id}
	}
}

func toggleReminder(repo *tracker.ProjectRepository, engine *scheduler.Engine, project model.Project) tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()
		enabled := true
		deadline := time.Now().Add(24 * time.Hour)
		if existing, err := repo.GetReminder(ctx, project.ID); err == nil && existing.Enabled {
			enabled = false
		}
		reminder, err := repo.SetReminder(ctx, project.ID, enabled, &deadline, 30)
		if err != nil {
			return errMsg{err}
		}
		if engine != nil {
			if !reminder.Enabled {
				engine.Cancel(reminder.ID)
			} else if trigger, ok := scheduler.TriggerFor(reminder, project.Name); ok {
				if err := engine.Schedule(trigger); err != nil {
					return errMsg{err}
				}
			}
		}
		return projectSavedMsg{project}
	}
}

// cycleTheme rotates light → dark → system through the preference store.
func cycleTheme(store *prefs.Store) tea.Cmd {
	return func() tea.Msg {
		current, err := store.Get()
		if err != nil {
			return errMsg{err}
		}
		var next model.Theme
		switch current.Theme {
		case model.ThemeLight:
			next = model.ThemeDark
		case model.ThemeDark:
			next = model.ThemeSystem
		default:
			next = model.ThemeLight
		}
		saved, err := store.Set(prefs.Patch{Theme: &next})
		if err != nil {
			return errMsg{err}
		}
		return themeChangedMsg{theme: saved.Theme}
	}
}

func materializeAll(repo *tracker.TemplateRepository, id string) tea.Cmd {
	return func() tea.Msg {
		result, err := repo.MaterializeAll(context.Background(), id)
		if err != nil {
			return errMsg{err}
		}
		return materializedMsg{result}
	}
}

// waitForTrigger blocks on the scheduler channel; the returned command is
// re-issued after every delivery so the UI keeps listening.
func waitForTrigger(engine *scheduler.Engine) tea.Cmd {
	return func() tea.Msg {
		trigger, ok := <-engine.C()
		if !ok {
			return nil
		}
		return reminderDueMsg{trigger}
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		listHeight := msg.Height - 6
		if listHeight < 4 {
			listHeight = 4
		}
		m.projectList.SetSize(msg.Width-4, listHeight)
		m.templateList.SetSize(msg.Width-4, listHeight)
		m.bar.Width = msg.Width - 12
		m.helpModel.Width = msg.Width
		return m, nil

	case projectsLoadedMsg:
		items := make([]list.Item, 0, len(msg.projects))
		for _, p := range msg.projects {
			items = append(items, projectItem{project: p})
		}
		m.projectList.SetItems(items)
		return m, nil

	case templatesLoadedMsg:
		items := make([]list.Item, 0, len(msg.templates))
		for _, t := range msg.templates {
			items = append(items, templateItem{template: t})
		}
		m.templateList.SetItems(items)
		return m, nil

	case projectOpenedMsg:
		m.selected = msg.project
		m.records = msg.records
		m.screen = screenDetail
		return m, nil

	case projectSavedMsg:
		m.selected = msg.project
		m.setStatus(fmt.Sprintf("saved %s", msg.project.Name), false)
		if m.screen == screenRecord {
			m.screen = screenDetail
		}
		return m, tea.Batch(loadProjects(m.deps.Projects), openProject(m.deps.Projects, msg.project.ID))

	case projectDeletedMsg:
		m.setStatus("project deleted", false)
		m.screen = screenProjects
		return m, loadProjects(m.deps.Projects)

	case materializedMsg:
		m.setStatus(fmt.Sprintf("materialized %d projects, %d failed",
			len(msg.result.Created), len(msg.result.Failed)), len(msg.result.Failed) > 0)
		return m, loadProjects(m.deps.Projects)

	case themeChangedMsg:
		m.setStatus(fmt.Sprintf("theme: %s", msg.theme), false)
		return m, nil

	case reminderDueMsg:
		m.notice = fmt.Sprintf("Reminder: %s is due %s",
			msg.trigger.ProjectName, msg.trigger.Deadline.Local().Format("Jan 2 15:04"))
		return m, waitForTrigger(m.deps.Engine)

	case errMsg:
		m.log.Error().Err(msg.err).Msg("operation failed")
		m.setStatus(msg.err.Error(), true)
		if m.screen == screenRecord {
			m.screen = screenDetail
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.screen == screenRecord {
		return m.handleRecordKey(msg)
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		if m.screen == screenHelp {
			m.screen = screenProjects
		} else {
			m.screen = screenHelp
		}
		return m, nil
	case key.Matches(msg, m.keys.Projects):
		m.screen = screenProjects
		return m, loadProjects(m.deps.Projects)
	case key.Matches(msg, m.keys.Templates):
		m.screen = screenTemplates
		return m, loadTemplates(m.deps.Templates)
	case key.Matches(msg, m.keys.Theme):
		return m, cycleTheme(m.deps.Prefs)
	case key.Matches(msg, m.keys.Back):
		switch m.screen {
		case screenDetail, screenHelp, screenTemplates:
			m.screen = screenProjects
		}
		return m, nil
	}

	switch m.screen {
	case screenProjects:
		return m.handleProjectsKey(msg)
	case screenDetail:
		return m.handleDetailKey(msg)
	case screenTemplates:
		return m.handleTemplatesKey(msg)
	}
	return m, nil
}

func (m Model) handleProjectsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Select):
		if item, ok := m.projectList.SelectedItem().(projectItem); ok {
			return m, openProject(m.deps.Projects, item.project.ID)
		}
		return m, nil
	case key.Matches(msg, m.keys.Delete):
		if item, ok := m.projectList.SelectedItem().(projectItem); ok {
			return m, deleteProject(m.deps.Projects, item.project.ID)
		}
		return m, nil
	case key.Matches(msg, m.keys.Reminder):
		if item, ok := m.projectList.SelectedItem().(projectItem); ok {
			return m, toggleReminder(m.deps.Projects, m.deps.Engine, item.project)
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.projectList, cmd = m.projectList.Update(msg)
	return m, cmd
}

func (m Model) handleDetailKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Record):
		if m.selected.Status == model.ProjectStatusCompleted {
			m.setStatus("project is already complete", false)
			return m, nil
		}
		m.valueInput.SetValue("")
		m.valueInput.Focus()
		m.screen = screenRecord
		return m, nil
	}
	return m, nil
}

func (m Model) handleRecordKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		value, err := strconv.Atoi(m.valueInput.Value())
		if err != nil {
			m.setStatus("enter a whole number", true)
			return m, nil
		}
		m.valueInput.Blur()
		return m, recordProgress(m.deps.Projects, m.selected.ID, value)
	case "esc":
		m.valueInput.Blur()
		m.screen = screenDetail
		return m, nil
	}

	var cmd tea.Cmd
	m.valueInput, cmd = m.valueInput.Update(msg)
	return m, cmd
}

func (m Model) handleTemplatesKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Expand):
		if item, ok := m.templateList.SelectedItem().(templateItem); ok {
			return m, materializeAll(m.deps.Templates, item.template.ID)
		}
		return m, nil
	case key.Matches(msg, m.keys.Delete):
		if item, ok := m.templateList.SelectedItem().(templateItem); ok {
			id := item.template.ID
			repo := m.deps.Templates
			return m, func() tea.Msg {
				ctx := context.Background()
				if err := repo.Delete(ctx, id); err != nil {
					return errMsg{err}
				}
				templates, err := repo.List(ctx)
				if err != nil {
					return errMsg{err}
				}
				return templatesLoadedMsg{templates}
			}
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.templateList, cmd = m.templateList.Update(msg)
	return m, cmd
}

func (m *Model) setStatus(text string, isErr bool) {
	m.status = text
	m.statusErr = isErr
}
