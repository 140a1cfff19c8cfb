package graph

import (
	"context"

	graphql "github.com/graph-gophers/graphql-go"

	"github.com/dohr-michael/taskgraph/internal/tasks"
)

// Resolver is the root resolver for both Query and Mutation.
type Resolver struct {
	svc *tasks.Service
}

// NewResolver creates a root resolver.
func NewResolver(svc *tasks.Service) *Resolver {
	return &Resolver{svc: svc}
}

// Tasks resolves Query.tasks.
func (r *Resolver) Tasks(ctx context.Context) (*[]*taskResolver, error) {
	list, err := r.svc.List(ctx)
	if err != nil {
		return nil, toGraphError(err, "")
	}
	out := make([]*taskResolver, len(list))
	for i := range list {
		out[i] = &taskResolver{t: list[i]}
	}
	return &out, nil
}

// Task resolves Query.task. An unknown id resolves to null without an error.
func (r *Resolver) Task(ctx context.Context, args struct{ ID graphql.ID }) (*taskResolver, error) {
	t, found, err := r.svc.Get(ctx, string(args.ID))
	if err != nil {
		return nil, toGraphError(err, string(args.ID))
	}
	if !found {
		return nil, nil
	}
	return &taskResolver{t: t}, nil
}

// CreateTask resolves Mutation.createTask.
func (r *Resolver) CreateTask(ctx context.Context, args struct{ Description string }) (*taskResolver, error) {
	t, err := r.svc.Create(ctx, args.Description)
	if err != nil {
		return nil, toGraphError(err, "")
	}
	return &taskResolver{t: t}, nil
}

type updateTaskArgs struct {
	ID          graphql.ID
	Description *string
	Completed   *bool
}

// UpdateTask resolves Mutation.updateTask. Omitted arguments arrive as nil and are left alone.
func (r *Resolver) UpdateTask(ctx context.Context, args updateTaskArgs) (*taskResolver, error) {
	t, err := r.svc.Update(ctx, string(args.ID), tasks.Patch{
		Description: args.Description,
		Completed:   args.Completed,
	})
	if err != nil {
		return nil, toGraphError(err, string(args.ID))
	}
	return &taskResolver{t: t}, nil
}

// DeleteTask resolves Mutation.deleteTask.
func (r *Resolver) DeleteTask(ctx context.Context, args struct{ ID graphql.ID }) (*graphql.ID, error) {
	id, err := r.svc.Delete(ctx, string(args.ID))
	if err != nil {
		return nil, toGraphError(err, string(args.ID))
	}
	deleted := graphql.ID(id)
	return &deleted, nil
}

type taskResolver struct {
	t tasks.Task
}

func (r *taskResolver) ID() graphql.ID      { return graphql.ID(r.t.ID) }
func (r *taskResolver) Description() string { return r.t.Description }
func (r *taskResolver) Completed() bool     { return r.t.Completed }
