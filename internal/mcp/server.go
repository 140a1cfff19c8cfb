package mcp

import (
	"context"
	"encoding/json"
	"log/slog"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"
)

// Version is reported to MCP clients.
const Version = "0.1.0"

// NewMCPServer creates an MCP server whose tools call the gateway through client.
// If filter is non-empty, only tools matching the filter (by tool name or
// group, "read" or "write") are exposed.
func NewMCPServer(client TaskClient, filter string) *mcpsdk.Server {
	server := mcpsdk.NewServer(&mcpsdk.Implementation{
		Name:    "taskgraph",
		Version: Version,
	}, nil)

	for _, t := range taskTools() {
		if filter != "" && !matchesFilter(t.spec, filter) {
			continue
		}

		// Capture tool in closure
		run := t.run
		toolName := t.spec.Name

		server.AddTool(toolSpecToMCPTool(t.spec), func(ctx context.Context, req *mcpsdk.CallToolRequest) (*mcpsdk.CallToolResult, error) {
			result, err := run(ctx, client, req.Params.Arguments)
			if err != nil {
				slog.Debug("mcp tool error", "tool", toolName, "error", err)
				return errorResult(err.Error()), nil
			}
			out, err := json.Marshal(result)
			if err != nil {
				return errorResult(err.Error()), nil
			}
			return &mcpsdk.CallToolResult{
				Content: []mcpsdk.Content{&mcpsdk.TextContent{Text: string(out)}},
			}, nil
		})

		slog.Debug("mcp tool registered", "tool", toolName)
	}

	return server
}

func errorResult(msg string) *mcpsdk.CallToolResult {
	return &mcpsdk.CallToolResult{
		IsError: true,
		Content: []mcpsdk.Content{&mcpsdk.TextContent{Text: msg}},
	}
}

// matchesFilter checks if a tool matches the filter, by name or by group.
func matchesFilter(spec ToolSpec, filter string) bool {
	return spec.Name == filter || spec.Group == filter
}
