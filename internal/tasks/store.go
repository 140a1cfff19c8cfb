package tasks

import "context"

// Store defines the storage interface for tasks.
type Store interface {
	List(ctx context.Context) ([]Task, error)
	Get(ctx context.Context, id string) (Task, error)
	Create(ctx context.Context, description string) (Task, error)
	Update(ctx context.Context, id string, patch Patch) (Task, error)
	Delete(ctx context.Context, id string) error
	Len() int
}
