package tasks

import (
	"context"
	"fmt"
	"strconv"
	"sync"
)

// MemoryStore keeps tasks in insertion order for the lifetime of the process.
// Ids come from a counter that only moves forward, so a deleted id is never handed out again.
type MemoryStore struct {
	mu     sync.RWMutex
	tasks  []Task
	nextID uint64
}

// NewMemoryStore creates an empty store whose first id is "1".
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{nextID: 1}
}

// List returns a copy of all tasks in creation order.
func (s *MemoryStore) List(_ context.Context) ([]Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Task, len(s.tasks))
	copy(out, s.tasks)
	return out, nil
}

// Get returns the task with the given id.
func (s *MemoryStore) Get(_ context.Context, id string) (Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i := s.indexOf(id)
	if i < 0 {
		return Task{}, fmt.Errorf("get %q: %w", id, ErrNotFound)
	}
	return s.tasks[i], nil
}

// Create appends a new, not completed task.
func (s *MemoryStore) Create(_ context.Context, description string) (Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t := Task{
		ID:          strconv.FormatUint(s.nextID, 10),
		Description: description,
	}
	s.nextID++
	s.tasks = append(s.tasks, t)
	return t, nil
}

// Update applies patch to the task with the given id and returns the result.
func (s *MemoryStore) Update(_ context.Context, id string, patch Patch) (Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return Task{}, fmt.Errorf("update %q: %w", id, ErrNotFound)
	}
	patch.apply(&s.tasks[i])
	return s.tasks[i], nil
}

// Delete removes the task with the given id.
func (s *MemoryStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return fmt.Errorf("delete %q: %w", id, ErrNotFound)
	}
	s.tasks = append(s.tasks[:i], s.tasks[i+1:]...)
	return nil
}

// Len returns the number of stored tasks.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.tasks)
}

// indexOf does a linear scan; callers must hold the lock.
func (s *MemoryStore) indexOf(id string) int {
	for i := range s.tasks {
		if s.tasks[i].ID == id {
			return i
		}
	}
	return -1
}
