// Package tasklist implements the task collection as pure snapshot
// transformations. Every operation takes the current snapshot and returns a
// new one; callers detect a change by comparing lengths or the returned
// slice header and decide whether to persist. Nothing here touches storage.
package tasklist

import (
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/tasker-app/tasker/internal/models"
)

// now is swappable for tests.
var now = func() int64 { return time.Now().UnixMilli() }

// Add prepends a new task built from rawText. Whitespace-only input is
// rejected silently and the snapshot is returned unchanged. Newest tasks go
// to the front.
func Add(list []models.Task, rawText string) []models.Task {
	text := strings.TrimSpace(rawText)
	if text == "" {
		return list
	}

	task := models.Task{
		ID:        uuid.New().String(),
		Text:      text,
		Completed: false,
		CreatedAt: now(),
	}

	next := make([]models.Task, 0, len(list)+1)
	next = append(next, task)
	return append(next, list...)
}

// Toggle flips the completion state of the task matching id. Unknown ids are
// a no-op. Ordering and all other tasks are untouched.
func Toggle(list []models.Task, id string) []models.Task {
	return replace(list, id, func(t models.Task) models.Task {
		t.Completed = !t.Completed
		return t
	})
}

// Delete removes the task matching id, preserving the order of the rest.
// Unknown ids are a no-op.
func Delete(list []models.Task, id string) []models.Task {
	idx := indexOf(list, id)
	if idx < 0 {
		return list
	}
	next := make([]models.Task, 0, len(list)-1)
	next = append(next, list[:idx]...)
	return append(next, list[idx+1:]...)
}

// AttachSubtasks replaces the subtasks of the task matching id. The steps
// slice may be empty, which records "breakdown attempted, nothing produced"
// as an empty (non-nil) list. Unconditional overwrite: whether a breakdown
// should have been requested at all is the caller's decision. Unknown ids
// are a no-op, which makes a late completion for a deleted task harmless.
func AttachSubtasks(list []models.Task, id string, steps []string) []models.Task {
	return replace(list, id, func(t models.Task) models.Task {
		t.Subtasks = append([]string{}, steps...)
		return t
	})
}

// Clear drops every task.
func Clear(list []models.Task) []models.Task {
	return []models.Task{}
}

// Filtered returns the subsequence of list selected by filter, in the
// list's own (newest-first) order.
func Filtered(list []models.Task, filter models.Filter) []models.Task {
	switch filter {
	case models.FilterActive:
		return keep(list, func(t models.Task) bool { return !t.Completed })
	case models.FilterCompleted:
		return keep(list, func(t models.Task) bool { return t.Completed })
	default:
		return list
	}
}

// ComputeStats derives the aggregate completion statistics for list.
// Percent rounds half-up to the nearest integer; an empty list is 0%.
func ComputeStats(list []models.Task) models.Stats {
	s := models.Stats{Total: len(list)}
	for _, t := range list {
		if t.Completed {
			s.Completed++
		}
	}
	if s.Total > 0 {
		s.Percent = int(math.Round(float64(s.Completed) / float64(s.Total) * 100))
	}
	return s
}

func indexOf(list []models.Task, id string) int {
	for i, t := range list {
		if t.ID == id {
			return i
		}
	}
	return -1
}

func replace(list []models.Task, id string, fn func(models.Task) models.Task) []models.Task {
	idx := indexOf(list, id)
	if idx < 0 {
		return list
	}
	next := make([]models.Task, len(list))
	copy(next, list)
	next[idx] = fn(next[idx])
	return next
}

func keep(list []models.Task, pred func(models.Task) bool) []models.Task {
	out := make([]models.Task, 0, len(list))
	for _, t := range list {
		if pred(t) {
			out = append(out, t)
		}
	}
	return out
}
