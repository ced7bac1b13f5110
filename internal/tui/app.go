// Package tui provides the interactive terminal UI for Tasker.
package tui

import (
	"context"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/tasker-app/tasker/internal/models"
	"github.com/tasker-app/tasker/internal/session"
)

// Breaker is the slice of the breakdown client the TUI needs.
type Breaker interface {
	Breakdown(ctx context.Context, text string) []string
}

// App is the main TUI application model.
type App struct {
	session *session.Session
	breaker Breaker
	timeout time.Duration

	tasks        []models.Task
	selectedIdx  int
	filterIdx    int
	input        textinput.Model
	spinner      spinner.Model
	confirmClear bool
	message      string
	width        int
	height       int
}

// New creates a new TUI application.
func New(sess *session.Session, breaker Breaker, timeout time.Duration) *App {
	ti := textinput.New()
	ti.Placeholder = "Add a new task..."
	ti.Focus()
	ti.CharLimit = 256
	ti.Width = 60

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = spinnerStyle

	return &App{
		session: sess,
		breaker: breaker,
		timeout: timeout,
		tasks:   sess.Tasks(),
		input:   ti,
		spinner: sp,
	}
}

// Run starts the TUI application.
func (a *App) Run() error {
	p := tea.NewProgram(a, tea.WithAltScreen())
	_, err := p.Run()
	return err
}

// Init implements tea.Model
func (a *App) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements tea.Model
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		// Clear-all confirmation swallows every key.
		if a.confirmClear {
			switch msg.String() {
			case "enter", "y":
				a.tasks = a.session.Clear()
				a.selectedIdx = 0
				a.message = "✓ All tasks cleared"
			}
			a.confirmClear = false
			return a, nil
		}

		switch msg.String() {
		case "ctrl+c", "esc":
			return a, tea.Quit

		case "up":
			if a.selectedIdx > 0 {
				a.selectedIdx--
			}
			return a, nil

		case "down":
			if a.selectedIdx < len(a.visible())-1 {
				a.selectedIdx++
			}
			return a, nil

		case "tab":
			a.filterIdx = (a.filterIdx + 1) % len(models.Filters)
			a.clampSelection()
			return a, nil

		case "enter":
			text := strings.TrimSpace(a.input.Value())
			if text != "" {
				a.tasks = a.session.Add(text)
				a.input.SetValue("")
				a.message = ""
				a.clampSelection()
				return a, nil
			}
			// Empty input: enter toggles the selected task.
			if task, ok := a.selected(); ok {
				a.tasks = a.session.Toggle(task.ID)
				a.clampSelection()
			}
			return a, nil

		case "ctrl+d":
			if task, ok := a.selected(); ok {
				a.tasks = a.session.Delete(task.ID)
				a.clampSelection()
				a.message = "✓ Task deleted"
			}
			return a, nil

		case "ctrl+b":
			if task, ok := a.selected(); ok {
				if cmd := a.requestBreakdown(task.ID); cmd != nil {
					cmds = append(cmds, cmd)
				}
			}
			return a, tea.Batch(cmds...)

		case "ctrl+x":
			if len(a.tasks) > 0 {
				a.confirmClear = true
			}
			return a, nil
		}

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.input.Width = msg.Width - 8

	case breakdownDoneMsg:
		a.tasks = a.session.CompleteBreakdown(msg.id, msg.steps)
		if len(msg.steps) > 0 {
			a.message = "✨ Breakdown added"
		} else {
			a.message = "No sub-steps available"
		}

	case spinner.TickMsg:
		if a.anyInFlight() {
			var cmd tea.Cmd
			a.spinner, cmd = a.spinner.Update(msg)
			cmds = append(cmds, cmd)
		}
	}

	// Update input
	var cmd tea.Cmd
	a.input, cmd = a.input.Update(msg)
	cmds = append(cmds, cmd)

	return a, tea.Batch(cmds...)
}

type breakdownDoneMsg struct {
	id    string
	steps []string
}

// requestBreakdown dispatches one breakdown request for id. The session
// refuses tasks that are completed, already broken down, or already in
// flight; the id travels with the request so a late reply lands on the right
// task (or nowhere, if it was deleted meanwhile).
func (a *App) requestBreakdown(id string) tea.Cmd {
	text, ok := a.session.BeginBreakdown(id)
	if !ok {
		a.message = "Breakdown not available for this task"
		return nil
	}

	a.message = "✨ Thinking..."
	timeout := a.timeout
	breaker := a.breaker

	return tea.Batch(a.spinner.Tick, func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		steps := breaker.Breakdown(ctx, text)
		return breakdownDoneMsg{id: id, steps: steps}
	})
}

func (a *App) filter() models.Filter {
	return models.Filters[a.filterIdx]
}

func (a *App) visible() []models.Task {
	// Recomputed on every render; the projection is cheap and pure.
	return filtered(a.tasks, a.filter())
}

func (a *App) selected() (models.Task, bool) {
	visible := a.visible()
	if len(visible) == 0 || a.selectedIdx >= len(visible) {
		return models.Task{}, false
	}
	return visible[a.selectedIdx], true
}

func (a *App) clampSelection() {
	if n := len(a.visible()); a.selectedIdx >= n {
		a.selectedIdx = maxInt(0, n-1)
	}
}

func (a *App) anyInFlight() bool {
	for _, t := range a.tasks {
		if a.session.BreakdownInFlight(t.ID) {
			return true
		}
	}
	return false
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
