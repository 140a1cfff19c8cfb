// Package api provides a GraphQL-over-HTTP client for the taskgraph gateway.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/dohr-michael/taskgraph/internal/tasks"
)

const taskFields = "id description completed"

// Client talks to a running gateway.
type Client struct {
	baseURL string
	http    *http.Client
}

// New creates a client for the gateway at baseURL (e.g. http://127.0.0.1:4000).
func New(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

// BaseURL returns the gateway base URL.
func (c *Client) BaseURL() string { return c.baseURL }

// Health is the body of GET /api/health.
type Health struct {
	Status string `json:"status" yaml:"status"`
	Tasks  int    `json:"tasks" yaml:"tasks"`
}

// Health calls the gateway health endpoint.
func (c *Client) Health(ctx context.Context) (Health, error) {
	var h Health
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/health", nil)
	if err != nil {
		return h, fmt.Errorf("create request: %w", err)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return h, fmt.Errorf("health: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return h, fmt.Errorf("health: HTTP %d", resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(&h); err != nil {
		return h, fmt.Errorf("decode health: %w", err)
	}
	return h, nil
}

// ListTasks returns every task in creation order.
func (c *Client) ListTasks(ctx context.Context) ([]tasks.Task, error) {
	var data struct {
		Tasks []*tasks.Task `json:"tasks"`
	}
	if err := c.do(ctx, "query { tasks { "+taskFields+" } }", nil, &data); err != nil {
		return nil, err
	}
	out := make([]tasks.Task, 0, len(data.Tasks))
	for _, t := range data.Tasks {
		if t != nil {
			out = append(out, *t)
		}
	}
	return out, nil
}

// GetTask returns the task with the given id, or nil when there is none.
func (c *Client) GetTask(ctx context.Context, id string) (*tasks.Task, error) {
	var data struct {
		Task *tasks.Task `json:"task"`
	}
	q := "query($id: ID!) { task(id: $id) { " + taskFields + " } }"
	if err := c.do(ctx, q, map[string]any{"id": id}, &data); err != nil {
		return nil, err
	}
	return data.Task, nil
}

// CreateTask creates a task.
func (c *Client) CreateTask(ctx context.Context, description string) (tasks.Task, error) {
	var data struct {
		CreateTask *tasks.Task `json:"createTask"`
	}
	q := "mutation($description: String!) { createTask(description: $description) { " + taskFields + " } }"
	if err := c.do(ctx, q, map[string]any{"description": description}, &data); err != nil {
		return tasks.Task{}, err
	}
	if data.CreateTask == nil {
		return tasks.Task{}, errors.New("createTask returned null")
	}
	return *data.CreateTask, nil
}

// UpdateTask applies the supplied fields of patch to the task.
func (c *Client) UpdateTask(ctx context.Context, id string, patch tasks.Patch) (tasks.Task, error) {
	var data struct {
		UpdateTask *tasks.Task `json:"updateTask"`
	}

	vars := map[string]any{"id": id}
	params := []string{"$id: ID!"}
	args := []string{"id: $id"}
	if patch.Description != nil {
		vars["description"] = *patch.Description
		params = append(params, "$description: String")
		args = append(args, "description: $description")
	}
	if patch.Completed != nil {
		vars["completed"] = *patch.Completed
		params = append(params, "$completed: Boolean")
		args = append(args, "completed: $completed")
	}

	q := fmt.Sprintf("mutation(%s) { updateTask(%s) { %s } }",
		strings.Join(params, ", "), strings.Join(args, ", "), taskFields)
	if err := c.do(ctx, q, vars, &data); err != nil {
		return tasks.Task{}, err
	}
	if data.UpdateTask == nil {
		return tasks.Task{}, errors.New("updateTask returned null")
	}
	return *data.UpdateTask, nil
}

// DeleteTask deletes a task and returns its id.
func (c *Client) DeleteTask(ctx context.Context, id string) (string, error) {
	var data struct {
		DeleteTask *string `json:"deleteTask"`
	}
	q := "mutation($id: ID!) { deleteTask(id: $id) }"
	if err := c.do(ctx, q, map[string]any{"id": id}, &data); err != nil {
		return "", err
	}
	if data.DeleteTask == nil {
		return "", errors.New("deleteTask returned null")
	}
	return *data.DeleteTask, nil
}

type request struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables,omitempty"`
}

type response struct {
	Data   json.RawMessage `json:"data"`
	Errors []*GraphQLError `json:"errors"`
}

func (c *Client) do(ctx context.Context, query string, vars map[string]any, out any) error {
	body, err := json.Marshal(request{Query: query, Variables: vars})
	if err != nil {
		return fmt.Errorf("encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/graphql", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("graphql request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	var r response
	if err := json.Unmarshal(raw, &r); err != nil {
		return fmt.Errorf("decode response (HTTP %d): %w", resp.StatusCode, err)
	}
	if len(r.Errors) > 0 {
		return r.Errors[0]
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("graphql: HTTP %d", resp.StatusCode)
	}
	if out != nil && len(r.Data) > 0 {
		if err := json.Unmarshal(r.Data, out); err != nil {
			return fmt.Errorf("decode data: %w", err)
		}
	}
	return nil
}
