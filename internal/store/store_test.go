package store

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/tasker-app/tasker/internal/models"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	s, err := New(dbPath)
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	return s
}

func TestNew(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")

	s, err := New(dbPath)
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	defer s.Close()

	// Verify file was created
	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("Database file was not created")
	}
}

func TestLoadEmptyDatabase(t *testing.T) {
	s := newTestStore(t)
	defer s.Close()

	tasks := s.Load()
	if tasks == nil {
		t.Fatal("Load should return an empty list, not nil")
	}
	if len(tasks) != 0 {
		t.Errorf("Expected 0 tasks, got %d", len(tasks))
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	s := newTestStore(t)
	defer s.Close()

	want := []models.Task{
		{ID: "b", Text: "newer", Completed: false, CreatedAt: time.Now().UnixMilli(), Subtasks: []string{"one", "two"}},
		{ID: "a", Text: "older", Completed: true, CreatedAt: time.Now().UnixMilli() - 1000},
	}

	if err := s.Save(want); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	got := s.Load()
	if len(got) != len(want) {
		t.Fatalf("Expected %d tasks, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i].ID != want[i].ID || got[i].Text != want[i].Text ||
			got[i].Completed != want[i].Completed || got[i].CreatedAt != want[i].CreatedAt {
			t.Errorf("task %d: got %+v, want %+v", i, got[i], want[i])
		}
	}
	if len(got[0].Subtasks) != 2 || got[0].Subtasks[0] != "one" {
		t.Errorf("subtasks did not survive the round trip: %v", got[0].Subtasks)
	}
	if got[1].Subtasks != nil {
		t.Errorf("absent subtasks should stay absent, got %v", got[1].Subtasks)
	}
}

func TestSaveReplacesPreviousEntry(t *testing.T) {
	s := newTestStore(t)
	defer s.Close()

	if err := s.Save([]models.Task{{ID: "a", Text: "first"}}); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if err := s.Save([]models.Task{{ID: "b", Text: "second"}}); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	got := s.Load()
	if len(got) != 1 || got[0].ID != "b" {
		t.Errorf("Expected only the latest save to survive, got %+v", got)
	}
}

func TestSaveNilList(t *testing.T) {
	s := newTestStore(t)
	defer s.Close()

	if err := s.Save(nil); err != nil {
		t.Fatalf("Save(nil) failed: %v", err)
	}
	if got := s.Load(); len(got) != 0 {
		t.Errorf("Expected empty list, got %d tasks", len(got))
	}
}

func TestLoadCorruptEntryStartsEmpty(t *testing.T) {
	s := newTestStore(t)
	defer s.Close()

	_, err := s.db.Exec(
		`INSERT INTO kv (name, value, updated_at) VALUES (?, ?, ?)`,
		tasksKey, []byte("{not json"), time.Now().UTC(),
	)
	if err != nil {
		t.Fatalf("failed to plant corrupt entry: %v", err)
	}

	tasks := s.Load()
	if len(tasks) != 0 {
		t.Errorf("Corrupt entry should load as empty, got %d tasks", len(tasks))
	}
}
