package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/dohr-michael/taskgraph/internal/tasks"
)

// Tool groups usable as a filter.
const (
	GroupRead  = "read"
	GroupWrite = "write"
)

// TaskClient is the subset of the gateway client the tools call.
type TaskClient interface {
	ListTasks(ctx context.Context) ([]tasks.Task, error)
	GetTask(ctx context.Context, id string) (*tasks.Task, error)
	CreateTask(ctx context.Context, description string) (tasks.Task, error)
	UpdateTask(ctx context.Context, id string, patch tasks.Patch) (tasks.Task, error)
	DeleteTask(ctx context.Context, id string) (string, error)
}

type toolFunc func(ctx context.Context, client TaskClient, args json.RawMessage) (any, error)

type tool struct {
	spec ToolSpec
	run  toolFunc
}

var idParam = ParamSpec{Type: "string", Description: "Task id", Required: true}

func taskTools() []tool {
	return []tool{
		{
			spec: ToolSpec{
				Name:        "list_tasks",
				Description: "List every task in creation order.",
				Group:       GroupRead,
				Parameters:  map[string]ParamSpec{},
			},
			run: func(ctx context.Context, c TaskClient, _ json.RawMessage) (any, error) {
				return c.ListTasks(ctx)
			},
		},
		{
			spec: ToolSpec{
				Name:        "get_task",
				Description: "Fetch a single task by id. Returns null when it does not exist.",
				Group:       GroupRead,
				Parameters:  map[string]ParamSpec{"id": idParam},
			},
			run: func(ctx context.Context, c TaskClient, raw json.RawMessage) (any, error) {
				var in struct {
					ID string `json:"id"`
				}
				if err := decodeArgs(raw, &in); err != nil {
					return nil, err
				}
				if in.ID == "" {
					return nil, errors.New("id is required")
				}
				return c.GetTask(ctx, in.ID)
			},
		},
		{
			spec: ToolSpec{
				Name:        "create_task",
				Description: "Create a task. New tasks are not completed.",
				Group:       GroupWrite,
				Parameters: map[string]ParamSpec{
					"description": {Type: "string", Description: "What needs doing", Required: true},
				},
			},
			run: func(ctx context.Context, c TaskClient, raw json.RawMessage) (any, error) {
				var in struct {
					Description string `json:"description"`
				}
				if err := decodeArgs(raw, &in); err != nil {
					return nil, err
				}
				return c.CreateTask(ctx, in.Description)
			},
		},
		{
			spec: ToolSpec{
				Name:        "update_task",
				Description: "Update a task. Only the supplied fields change.",
				Group:       GroupWrite,
				Parameters: map[string]ParamSpec{
					"id":          idParam,
					"description": {Type: "string", Description: "New description"},
					"completed":   {Type: "boolean", Description: "New completion state"},
				},
			},
			run: func(ctx context.Context, c TaskClient, raw json.RawMessage) (any, error) {
				var in struct {
					ID          string  `json:"id"`
					Description *string `json:"description"`
					Completed   *bool   `json:"completed"`
				}
				if err := decodeArgs(raw, &in); err != nil {
					return nil, err
				}
				if in.ID == "" {
					return nil, errors.New("id is required")
				}
				return c.UpdateTask(ctx, in.ID, tasks.Patch{Description: in.Description, Completed: in.Completed})
			},
		},
		{
			spec: ToolSpec{
				Name:        "delete_task",
				Description: "Delete a task and return its id.",
				Group:       GroupWrite,
				Parameters:  map[string]ParamSpec{"id": idParam},
			},
			run: func(ctx context.Context, c TaskClient, raw json.RawMessage) (any, error) {
				var in struct {
					ID string `json:"id"`
				}
				if err := decodeArgs(raw, &in); err != nil {
					return nil, err
				}
				if in.ID == "" {
					return nil, errors.New("id is required")
				}
				id, err := c.DeleteTask(ctx, in.ID)
				if err != nil {
					return nil, err
				}
				return map[string]string{"id": id}, nil
			},
		},
	}
}

func decodeArgs(raw json.RawMessage, v any) error {
	if len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("invalid arguments: %w", err)
	}
	return nil
}
