package mcp

import (
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/dohr-michael/taskgraph/clients/api"
	"github.com/dohr-michael/taskgraph/internal/events"
	"github.com/dohr-michael/taskgraph/internal/gateway"
	"github.com/dohr-michael/taskgraph/internal/graph"
	"github.com/dohr-michael/taskgraph/internal/tasks"
)

func TestToolSpecToMCPTool(t *testing.T) {
	spec := ToolSpec{
		Name:        "update_task",
		Description: "Update a task",
		Parameters: map[string]ParamSpec{
			"id":          {Type: "string", Description: "Task id", Required: true},
			"description": {Type: "string", Description: "New description"},
			"completed":   {Type: "boolean", Description: "New state"},
		},
	}

	mcpTool := toolSpecToMCPTool(spec)

	if mcpTool.Name != "update_task" {
		t.Errorf("Name = %q, want %q", mcpTool.Name, "update_task")
	}

	// Verify InputSchema is a proper JSON Schema object
	schemaBytes, err := json.Marshal(mcpTool.InputSchema)
	if err != nil {
		t.Fatalf("marshal InputSchema: %v", err)
	}

	var schema map[string]any
	if err := json.Unmarshal(schemaBytes, &schema); err != nil {
		t.Fatalf("unmarshal InputSchema: %v", err)
	}

	if schema["type"] != "object" {
		t.Errorf("schema type = %v, want %q", schema["type"], "object")
	}
	props, ok := schema["properties"].(map[string]any)
	if !ok {
		t.Fatal("schema properties not a map")
	}
	if len(props) != 3 {
		t.Errorf("schema properties len = %d, want 3", len(props))
	}
	req, ok := schema["required"].([]any)
	if !ok || len(req) != 1 || req[0] != "id" {
		t.Errorf("schema required = %v, want [id]", schema["required"])
	}
}

func TestToolSpecToMCPTool_NoParams(t *testing.T) {
	mcpTool := toolSpecToMCPTool(ToolSpec{Name: "list_tasks", Parameters: map[string]ParamSpec{}})

	schema, ok := mcpTool.InputSchema.(map[string]any)
	if !ok {
		t.Fatal("InputSchema not a map")
	}
	if _, ok := schema["required"]; ok {
		t.Error("expected no required field")
	}
}

func TestMatchesFilter(t *testing.T) {
	spec := ToolSpec{Name: "create_task", Group: GroupWrite}

	if !matchesFilter(spec, "create_task") {
		t.Error("matchesFilter by name = false, want true")
	}
	if !matchesFilter(spec, GroupWrite) {
		t.Error("matchesFilter by group = false, want true")
	}
	if matchesFilter(spec, GroupRead) {
		t.Error("matchesFilter(read) = true, want false")
	}
}

func connect(t *testing.T, filter string) *mcpsdk.ClientSession {
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

	server := NewMCPServer(api.New(ts.URL, 5*time.Second), filter)

	ctx := t.Context()
	serverTransport, clientTransport := mcpsdk.NewInMemoryTransports()
	ss, err := server.Connect(ctx, serverTransport, nil)
	if err != nil {
		t.Fatalf("server connect: %v", err)
	}
	t.Cleanup(func() { ss.Close() })

	client := mcpsdk.NewClient(&mcpsdk.Implementation{Name: "test", Version: "v0"}, nil)
	cs, err := client.Connect(ctx, clientTransport, nil)
	if err != nil {
		t.Fatalf("client connect: %v", err)
	}
	t.Cleanup(func() { cs.Close() })
	return cs
}

func call(t *testing.T, cs *mcpsdk.ClientSession, name string, args map[string]any) (string, bool) {
	t.Helper()
	res, err := cs.CallTool(t.Context(), &mcpsdk.CallToolParams{Name: name, Arguments: args})
	if err != nil {
		t.Fatalf("CallTool %s: %v", name, err)
	}
	if len(res.Content) != 1 {
		t.Fatalf("expected 1 content item, got %d", len(res.Content))
	}
	text, ok := res.Content[0].(*mcpsdk.TextContent)
	if !ok {
		t.Fatalf("expected text content, got %T", res.Content[0])
	}
	return text.Text, res.IsError
}

func TestListTools(t *testing.T) {
	cs := connect(t, "")

	res, err := cs.ListTools(t.Context(), nil)
	if err != nil {
		t.Fatalf("ListTools: %v", err)
	}
	if len(res.Tools) != 5 {
		t.Fatalf("expected 5 tools, got %d", len(res.Tools))
	}
}

func TestListToolsFiltered(t *testing.T) {
	cs := connect(t, GroupRead)

	res, err := cs.ListTools(t.Context(), nil)
	if err != nil {
		t.Fatalf("ListTools: %v", err)
	}
	if len(res.Tools) != 2 {
		t.Fatalf("expected 2 read tools, got %d", len(res.Tools))
	}
}

func TestTaskTools(t *testing.T) {
	cs := connect(t, "")

	out, isErr := call(t, cs, "create_task", map[string]any{"description": "Buy milk"})
	if isErr {
		t.Fatalf("create_task failed: %s", out)
	}
	var created tasks.Task
	if err := json.Unmarshal([]byte(out), &created); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if created.ID != "1" || created.Completed {
		t.Fatalf("unexpected task: %+v", created)
	}

	out, isErr = call(t, cs, "update_task", map[string]any{"id": "1", "completed": true})
	if isErr {
		t.Fatalf("update_task failed: %s", out)
	}
	var updated tasks.Task
	if err := json.Unmarshal([]byte(out), &updated); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !updated.Completed || updated.Description != "Buy milk" {
		t.Fatalf("unexpected task: %+v", updated)
	}

	out, _ = call(t, cs, "get_task", map[string]any{"id": "7"})
	if out != "null" {
		t.Fatalf("expected null for unknown id, got %s", out)
	}

	out, isErr = call(t, cs, "delete_task", map[string]any{"id": "1"})
	if isErr {
		t.Fatalf("delete_task failed: %s", out)
	}

	out, _ = call(t, cs, "list_tasks", nil)
	if out != "[]" {
		t.Fatalf("expected empty list, got %s", out)
	}
}

func TestToolErrors(t *testing.T) {
	cs := connect(t, "")

	out, isErr := call(t, cs, "delete_task", map[string]any{"id": "1"})
	if !isErr {
		t.Fatalf("expected error result, got %s", out)
	}

	_, isErr = call(t, cs, "create_task", map[string]any{"description": " "})
	if !isErr {
		t.Fatal("expected error result for blank description")
	}
}
