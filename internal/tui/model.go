// Package tui is the terminal front end. It holds no domain logic; every
// state change round-trips through the repositories and comes back as a
// message.
package tui

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"github.com/fittrackapp/fittrack/internal/model"
	"github.com/fittrackapp/fittrack/internal/prefs"
	"github.com/fittrackapp/fittrack/internal/scheduler"
	"github.com/fittrackapp/fittrack/internal/tracker"
)

type screen int

const (
	screenProjects screen = iota
	screenDetail
	screenRecord
	screenTemplates
	screenHelp
)

type projectItem struct {
	project model.Project
}

func (i projectItem) Title() string {
	if i.project.Status == model.ProjectStatusCompleted {
		return "✓ " + i.project.Name
	}
	return i.project.Name
}

func (i projectItem) Description() string {
	pct := model.PercentComplete(i.project)
	switch i.project.Type {
	case model.ProjectTypeSetsReps:
		return fmt.Sprintf("%.0f%% · %d reps logged over %d sets", pct, i.project.TotalCompletedReps(), i.project.Sets)
	default:
		return fmt.Sprintf("%.0f%% · %d of %d", pct, i.project.CurrentCount, i.project.TargetCount)
	}
}

func (i projectItem) FilterValue() string { return i.project.Name }

type templateItem struct {
	template model.Template
}

func (i templateItem) Title() string { return i.template.Name }

func (i templateItem) Description() string {
	return fmt.Sprintf("%d configs · %s", len(i.template.ProjectList), i.template.Description)
}

func (i templateItem) FilterValue() string { return i.template.Name }

// Deps are the wired application services the UI consumes.
type Deps struct {
	Projects  *tracker.ProjectRepository
	Templates *tracker.TemplateRepository
	Prefs     *prefs.Store
	Engine    *scheduler.Engine
	Logger    zerolog.Logger
}

type Model struct {
	deps Deps
	log  zerolog.Logger
	keys keyMap

	screen   screen
	width    int
	height   int
	quitting bool

	projectList  list.Model
	templateList list.Model
	valueInput   textinput.Model
	bar          progress.Model
	helpModel    help.Model

	selected model.Project
	records  []model.ProgressRecord

	status    string
	statusErr bool
	notice    string
}

func New(deps Deps) Model {
	delegate := list.NewDefaultDelegate()

	projectList := list.New([]list.Item{}, delegate, 0, 0)
	projectList.Title = "Today's Projects"
	projectList.SetShowHelp(false)

	templateList := list.New([]list.Item{}, delegate, 0, 0)
	templateList.Title = "Templates"
	templateList.SetShowHelp(false)

	valueInput := textinput.New()
	valueInput.Placeholder = "value"
	valueInput.CharLimit = 6
	valueInput.Width = 12

	return Model{
		deps:         deps,
		log:          deps.Logger.With().Str("component", "tui").Logger(),
		keys:         defaultKeyMap(),
		screen:       screenProjects,
		projectList:  projectList,
		templateList: templateList,
		valueInput:   valueInput,
		bar:          progress.New(progress.WithDefaultGradient()),
		helpModel:    help.New(),
	}
}

func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{
		loadProjects(m.deps.Projects),
		loadTemplates(m.deps.Templates),
	}
	if m.deps.Engine != nil {
		cmds = append(cmds, waitForTrigger(m.deps.Engine))
	}
	return tea.Batch(cmds...)
}

func today() string {
	return tracker.Today(time.Now())
}
