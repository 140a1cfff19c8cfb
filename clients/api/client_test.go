package api

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dohr-michael/taskgraph/internal/events"
	"github.com/dohr-michael/taskgraph/internal/gateway"
	"github.com/dohr-michael/taskgraph/internal/graph"
	"github.com/dohr-michael/taskgraph/internal/tasks"
)

func newTestClient(t *testing.T) *Client {
	t.Helper()
	bus := events.NewBus(64)
	t.Cleanup(func() { bus.Close() })

	svc := tasks.NewService(tasks.NewMemoryStore(), bus)
	srv, err := gateway.NewServer(svc, bus, gateway.Options{
		GraphQL: graph.Options{MaxDepth: 10, MaxParallelism: 10},
	})
	if err != nil {
		t.Fatalf("NewServer: %v", err)
	}
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)

	return New(ts.URL+"/", 5*time.Second)
}

func ptr[T any](v T) *T { return &v }

func TestClientCRUD(t *testing.T) {
	c := newTestClient(t)
	ctx := t.Context()

	milk, err := c.CreateTask(ctx, "Buy milk")
	if err != nil {
		t.Fatalf("CreateTask: %v", err)
	}
	if milk.ID != "1" || milk.Description != "Buy milk" || milk.Completed {
		t.Fatalf("unexpected task: %+v", milk)
	}
	if _, err := c.CreateTask(ctx, "Walk dog"); err != nil {
		t.Fatalf("CreateTask: %v", err)
	}

	updated, err := c.UpdateTask(ctx, "1", tasks.Patch{Completed: ptr(true)})
	if err != nil {
		t.Fatalf("UpdateTask: %v", err)
	}
	if !updated.Completed || updated.Description != "Buy milk" {
		t.Fatalf("unexpected update: %+v", updated)
	}

	id, err := c.DeleteTask(ctx, "2")
	if err != nil {
		t.Fatalf("DeleteTask: %v", err)
	}
	if id != "2" {
		t.Fatalf("expected deleted id %q, got %q", "2", id)
	}

	list, err := c.ListTasks(ctx)
	if err != nil {
		t.Fatalf("ListTasks: %v", err)
	}
	want := []tasks.Task{{ID: "1", Description: "Buy milk", Completed: true}}
	if len(list) != 1 || list[0] != want[0] {
		t.Fatalf("expected %+v, got %+v", want, list)
	}
}

func TestClientUpdateDescriptionOnly(t *testing.T) {
	c := newTestClient(t)
	ctx := t.Context()

	if _, err := c.CreateTask(ctx, "Buy milk"); err != nil {
		t.Fatalf("CreateTask: %v", err)
	}
	if _, err := c.UpdateTask(ctx, "1", tasks.Patch{Completed: ptr(true)}); err != nil {
		t.Fatalf("UpdateTask: %v", err)
	}
	got, err := c.UpdateTask(ctx, "1", tasks.Patch{Description: ptr("Buy oat milk")})
	if err != nil {
		t.Fatalf("UpdateTask: %v", err)
	}
	if got.Description != "Buy oat milk" || !got.Completed {
		t.Fatalf("unexpected task: %+v", got)
	}
}

func TestClientGetTask(t *testing.T) {
	c := newTestClient(t)
	ctx := t.Context()

	got, err := c.GetTask(ctx, "99")
	if err != nil {
		t.Fatalf("GetTask: %v", err)
	}
	if got != nil {
		t.Fatalf("expected nil for unknown id, got %+v", got)
	}

	if _, err := c.CreateTask(ctx, "Buy milk"); err != nil {
		t.Fatalf("CreateTask: %v", err)
	}
	got, err = c.GetTask(ctx, "1")
	if err != nil {
		t.Fatalf("GetTask: %v", err)
	}
	if got == nil || got.Description != "Buy milk" {
		t.Fatalf("unexpected task: %+v", got)
	}
}

func TestClientErrors(t *testing.T) {
	c := newTestClient(t)
	ctx := t.Context()

	_, err := c.DeleteTask(ctx, "42")
	if !IsNotFound(err) {
		t.Fatalf("expected NOT_FOUND, got %v", err)
	}

	_, err = c.UpdateTask(ctx, "42", tasks.Patch{Completed: ptr(false)})
	if !IsNotFound(err) {
		t.Fatalf("expected NOT_FOUND, got %v", err)
	}

	_, err = c.CreateTask(ctx, "   ")
	if !IsInvalidArgument(err) {
		t.Fatalf("expected INVALID_ARGUMENT, got %v", err)
	}
	if IsNotFound(err) {
		t.Fatal("INVALID_ARGUMENT must not be reported as NOT_FOUND")
	}
}

func TestClientHealth(t *testing.T) {
	c := newTestClient(t)
	ctx := t.Context()

	if _, err := c.CreateTask(ctx, "Buy milk"); err != nil {
		t.Fatalf("CreateTask: %v", err)
	}
	h, err := c.Health(ctx)
	if err != nil {
		t.Fatalf("Health: %v", err)
	}
	if h.Status != "ok" || h.Tasks != 1 {
		t.Fatalf("unexpected health: %+v", h)
	}
}

func TestClientHTTPError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusBadGateway)
	}))
	defer ts.Close()

	c := New(ts.URL, time.Second)
	if _, err := c.ListTasks(t.Context()); err == nil {
		t.Fatal("expected error for non-JSON response")
	}
	if _, err := c.Health(t.Context()); err == nil {
		t.Fatal("expected error for HTTP 502")
	}
}
