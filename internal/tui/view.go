package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/tasker-app/tasker/internal/models"
	"github.com/tasker-app/tasker/internal/tasklist"
)

var (
	// Colors
	primaryColor = lipgloss.Color("#6366F1")
	successColor = lipgloss.Color("#10B981")
	errorColor   = lipgloss.Color("#EF4444")
	mutedColor   = lipgloss.Color("#6B7280")
	fgColor      = lipgloss.Color("#F9FAFB")

	// Styles
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(primaryColor).
			Padding(0, 1)

	statsStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(mutedColor).
			Padding(0, 2)

	inputBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(primaryColor).
			Padding(0, 1)

	taskItemStyle = lipgloss.NewStyle().
			Padding(0, 2)

	selectedStyle = lipgloss.NewStyle().
			Background(primaryColor).
			Foreground(fgColor).
			Bold(true).
			Padding(0, 2)

	completedStyle = lipgloss.NewStyle().
			Foreground(mutedColor).
			Strikethrough(true)

	subtaskStyle = lipgloss.NewStyle().
			Foreground(mutedColor).
			Padding(0, 6)

	spinnerStyle = lipgloss.NewStyle().
			Foreground(primaryColor)

	messageStyle = lipgloss.NewStyle().
			Foreground(successColor)

	confirmStyle = lipgloss.NewStyle().
			Foreground(errorColor).
			Bold(true)

	statusBarStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("#374151")).
			Foreground(fgColor).
			Padding(0, 1)

	helpStyle = lipgloss.NewStyle().
			Foreground(mutedColor).
			Italic(true)
)

var filterNames = map[models.Filter]string{
	models.FilterAll:       "ALL",
	models.FilterActive:    "ACTIVE",
	models.FilterCompleted: "DONE",
}

func filtered(tasks []models.Task, filter models.Filter) []models.Task {
	return tasklist.Filtered(tasks, filter)
}

// View implements tea.Model
func (a *App) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("✨ Smart Tasker") + "\n")
	b.WriteString(strings.Repeat("─", maxInt(a.width, 20)) + "\n")

	// Stats card
	stats := tasklist.ComputeStats(a.tasks)
	statsLine := fmt.Sprintf("%d%% done  │  Total: %d  │  Pending: %d",
		stats.Percent, stats.Total, stats.Total-stats.Completed)
	b.WriteString(statsStyle.Render(statsLine) + "\n\n")

	// Filter tabs
	var tabs []string
	for i, f := range models.Filters {
		name := filterNames[f]
		if i == a.filterIdx {
			tabs = append(tabs, lipgloss.NewStyle().Foreground(primaryColor).Bold(true).Render("["+name+"]"))
		} else {
			tabs = append(tabs, helpStyle.Render(" "+name+" "))
		}
	}
	b.WriteString("  " + strings.Join(tabs, " ") + "\n\n")

	// Task list
	b.WriteString(a.renderTasks())

	// Message / confirmation bar
	b.WriteString("\n")
	switch {
	case a.confirmClear:
		b.WriteString(confirmStyle.Render("Clear ALL tasks? enter/y to confirm, any other key to cancel"))
	case a.message != "":
		style := messageStyle
		if strings.HasPrefix(a.message, "Error") {
			style = lipgloss.NewStyle().Foreground(errorColor)
		}
		b.WriteString(style.Render(a.message))
	}
	b.WriteString("\n\n")

	// Input box
	b.WriteString(inputBoxStyle.Render(a.input.View()) + "\n")

	// Status bar
	status := fmt.Sprintf(" Tasks: %d | ↑↓:nav | Enter:add/toggle | Tab:filter | ^B:breakdown | ^D:delete | ^X:clear | Esc:quit",
		len(a.tasks))
	b.WriteString(statusBarStyle.Width(maxInt(a.width, len(status))).Render(status))

	return b.String()
}

func (a *App) renderTasks() string {
	visible := a.visible()
	if len(visible) == 0 {
		return helpStyle.Render("  No tasks found. Time to relax or add a new one!") + "\n"
	}

	var b strings.Builder
	for i, task := range visible {
		checkbox := "☐"
		if task.Completed {
			checkbox = "☑"
		}

		text := task.Text
		if task.Completed {
			text = completedStyle.Render(text)
		}

		line := fmt.Sprintf("%s %s", checkbox, text)
		if a.session.BreakdownInFlight(task.ID) {
			line += "  " + a.spinner.View() + spinnerStyle.Render("thinking...")
		}

		if i == a.selectedIdx {
			b.WriteString(selectedStyle.Render("▶ "+line) + "\n")
		} else {
			b.WriteString(taskItemStyle.Render("  "+line) + "\n")
		}

		for _, sub := range task.Subtasks {
			b.WriteString(subtaskStyle.Render("• "+sub) + "\n")
		}
	}
	return b.String()
}
