// Package models defines the core domain types for Tasker.
package models

import "fmt"

// Task represents a single user-created to-do item.
type Task struct {
	ID        string   `json:"id"`
	Text      string   `json:"text"`
	Completed bool     `json:"completed"`
	CreatedAt int64    `json:"createdAt"` // milliseconds since epoch
	// Subtasks is nil when a breakdown was never attempted and non-nil
	// (possibly empty) once one was. No omitempty: the nil/empty distinction
	// must survive the persistence round trip.
	Subtasks []string `json:"subtasks"`
}

// HasSubtasks reports whether the task has a non-empty breakdown attached.
// An empty (non-nil) subtask list counts as "attempted, nothing to show" and
// is deliberately not distinguished from a failed breakdown.
func (t Task) HasSubtasks() bool {
	return len(t.Subtasks) > 0
}

// Filter selects which tasks a view shows.
type Filter string

const (
	FilterAll       Filter = "all"
	FilterActive    Filter = "active"
	FilterCompleted Filter = "completed"
)

// Filters lists all filters in display order.
var Filters = []Filter{FilterAll, FilterActive, FilterCompleted}

// ParseFilter validates a filter name.
func ParseFilter(s string) (Filter, error) {
	switch Filter(s) {
	case FilterAll, FilterActive, FilterCompleted:
		return Filter(s), nil
	}
	return "", fmt.Errorf("unknown filter %q (want all, active or completed)", s)
}

// Stats are the aggregate completion statistics for a task list.
type Stats struct {
	Total     int `json:"total"`
	Completed int `json:"completed"`
	Percent   int `json:"percent"`
}
