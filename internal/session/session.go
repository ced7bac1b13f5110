// Package session wires the task list to its persistence adapter and owns
// the per-task breakdown bookkeeping. All mutations flow through one
// Session, one at a time; every transition that produces a new snapshot is
// persisted before the next one is accepted.
package session

import (
	"log"
	"sync"

	"github.com/tasker-app/tasker/internal/models"
	"github.com/tasker-app/tasker/internal/tasklist"
)

// Adapter persists the task list. Load must not fail outward: unreadable
// state is an empty list. Save failures are tolerated and only logged.
type Adapter interface {
	Load() []models.Task
	Save(tasks []models.Task) error
}

// Session owns the live task snapshot.
type Session struct {
	mu       sync.Mutex
	adapter  Adapter
	tasks    []models.Task
	inFlight map[string]struct{}
}

// New creates a Session, loading the persisted task list.
func New(adapter Adapter) *Session {
	return &Session{
		adapter:  adapter,
		tasks:    adapter.Load(),
		inFlight: make(map[string]struct{}),
	}
}

// Tasks returns the current snapshot. Snapshots are copy-on-write, so the
// returned slice never changes under the caller.
func (s *Session) Tasks() []models.Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tasks
}

// Add creates a task from rawText. Whitespace-only text is rejected
// silently.
func (s *Session) Add(rawText string) []models.Task {
	return s.apply(func(list []models.Task) []models.Task {
		return tasklist.Add(list, rawText)
	})
}

// Toggle flips completion for id; unknown ids are a no-op.
func (s *Session) Toggle(id string) []models.Task {
	return s.apply(func(list []models.Task) []models.Task {
		return tasklist.Toggle(list, id)
	})
}

// Delete removes the task with id; unknown ids are a no-op.
func (s *Session) Delete(id string) []models.Task {
	return s.apply(func(list []models.Task) []models.Task {
		return tasklist.Delete(list, id)
	})
}

// Clear removes every task.
func (s *Session) Clear() []models.Task {
	return s.apply(tasklist.Clear)
}

// apply runs one mutation under the lock and persists the result if the
// snapshot changed. Holding the lock across the save keeps persistence
// exactly-once per transition.
func (s *Session) apply(op func([]models.Task) []models.Task) []models.Task {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := op(s.tasks)
	if !changed(s.tasks, next) {
		return s.tasks
	}

	s.tasks = next
	if err := s.adapter.Save(next); err != nil {
		// Best-effort persistence: the in-memory state stays authoritative.
		log.Printf("persist tasks: %v", err)
	}
	return next
}

// changed reports whether op produced a new snapshot. No-op operations
// return their input unchanged.
func changed(prev, next []models.Task) bool {
	if len(prev) != len(next) {
		return true
	}
	if len(prev) == 0 {
		return false
	}
	return &prev[0] != &next[0]
}

// --- Breakdown workflow ---
//
// The breakdown client itself imposes no mutual exclusion, so the session
// tracks which task ids have a request outstanding and refuses duplicates.
// The task id is captured at request time; if the task is deleted before the
// response arrives, CompleteBreakdown degrades to a no-op.

// CanBreakdown reports whether a breakdown may be requested for id: the task
// exists, is not completed, has no non-empty subtasks, and has no request in
// flight. A task whose previous breakdown attempt yielded nothing keeps its
// empty subtask list and stays ineligible; that matches the product's
// no-retry behavior.
func (s *Session) CanBreakdown(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.canBreakdownLocked(id)
}

func (s *Session) canBreakdownLocked(id string) bool {
	if _, busy := s.inFlight[id]; busy {
		return false
	}
	for _, t := range s.tasks {
		if t.ID == id {
			// Subtasks == nil means "never attempted". An attempt that
			// produced nothing leaves an empty list behind and permanently
			// retires the affordance; there is no retry path.
			return !t.Completed && t.Subtasks == nil
		}
	}
	return false
}

// BeginBreakdown marks id as having a request in flight and returns the
// task's text. It returns ok=false if the task is not eligible.
func (s *Session) BeginBreakdown(id string) (text string, ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.canBreakdownLocked(id) {
		return "", false
	}
	for _, t := range s.tasks {
		if t.ID == id {
			s.inFlight[id] = struct{}{}
			return t.Text, true
		}
	}
	return "", false
}

// CompleteBreakdown attaches the returned steps (possibly empty) to the task
// and clears the in-flight mark. Attaching to a deleted task is a no-op.
func (s *Session) CompleteBreakdown(id string, steps []string) []models.Task {
	s.mu.Lock()
	delete(s.inFlight, id)
	s.mu.Unlock()

	return s.apply(func(list []models.Task) []models.Task {
		return tasklist.AttachSubtasks(list, id, steps)
	})
}

// BreakdownInFlight reports whether a request for id is outstanding.
func (s *Session) BreakdownInFlight(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, busy := s.inFlight[id]
	return busy
}
