package tasks

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/dohr-michael/taskgraph/internal/events"
)

// Service implements the task operations on top of a Store and reports every
// successful mutation on the event bus.
type Service struct {
	store Store
	bus   *events.Bus
}

// NewService creates a service. bus may be nil.
func NewService(store Store, bus *events.Bus) *Service {
	return &Service{store: store, bus: bus}
}

// List returns every task in creation order.
func (s *Service) List(ctx context.Context) ([]Task, error) {
	return s.store.List(ctx)
}

// Get returns the task with the given id. A missing task is not an error: found is false.
func (s *Service) Get(ctx context.Context, id string) (task Task, found bool, err error) {
	task, err = s.store.Get(ctx, id)
	if err != nil {
		if isNotFound(err) {
			return Task{}, false, nil
		}
		return Task{}, false, err
	}
	return task, true, nil
}

// Create adds a new task with the given description.
func (s *Service) Create(ctx context.Context, description string) (Task, error) {
	valid, err := ValidateDescription(description)
	if err != nil {
		return Task{}, err
	}

	task, err := s.store.Create(ctx, valid)
	if err != nil {
		return Task{}, fmt.Errorf("create task: %w", err)
	}

	slog.Debug("task created", "id", task.ID)
	s.publish(events.TaskCreatedPayload{
		Task:      snapshot(task),
		RequestID: events.RequestIDFromContext(ctx),
	})
	return task, nil
}

// Update overwrites the supplied fields of the task with the given id.
func (s *Service) Update(ctx context.Context, id string, patch Patch) (Task, error) {
	if patch.Description != nil {
		valid, err := ValidateDescription(*patch.Description)
		if err != nil {
			return Task{}, err
		}
		patch.Description = &valid
	}

	task, err := s.store.Update(ctx, id, patch)
	if err != nil {
		return Task{}, err
	}

	slog.Debug("task updated", "id", task.ID, "fields", patch.Fields())
	s.publish(events.TaskUpdatedPayload{
		Task:      snapshot(task),
		Fields:    patch.Fields(),
		RequestID: events.RequestIDFromContext(ctx),
	})
	return task, nil
}

// Delete removes the task with the given id and returns that id.
func (s *Service) Delete(ctx context.Context, id string) (string, error) {
	if err := s.store.Delete(ctx, id); err != nil {
		return "", err
	}

	slog.Debug("task deleted", "id", id)
	s.publish(events.TaskDeletedPayload{
		ID:        id,
		RequestID: events.RequestIDFromContext(ctx),
	})
	return id, nil
}

// Count returns the number of stored tasks.
func (s *Service) Count() int {
	return s.store.Len()
}

func (s *Service) publish(payload events.EventPayload) {
	if s.bus == nil {
		return
	}
	s.bus.Publish(events.NewTypedEvent(events.SourceGraphQL, payload))
}

func snapshot(t Task) events.TaskSnapshot {
	return events.TaskSnapshot{
		ID:          t.ID,
		Description: t.Description,
		Completed:   t.Completed,
	}
}
