package commands

import (
	"context"
	"log/slog"
	"os"

	"github.com/urfave/cli/v3"

	taskmcp "github.com/dohr-michael/taskgraph/internal/mcp"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"
)

// NewMCPServeCommand returns the mcp-serve subcommand.
func NewMCPServeCommand() *cli.Command {
	return &cli.Command{
		Name:  "mcp-serve",
		Usage: "Expose the task operations of a running gateway as an MCP server (stdio)",
		Arguments: []cli.Argument{
			&cli.StringArg{
				Name:      "filter",
				UsageText: "Tool name or group (read, write) to expose (empty = all)",
			},
		},
		Action: runMCPServe,
	}
}

func runMCPServe(ctx context.Context, cmd *cli.Command) error {
	// Setup logging to stderr (stdout is used for MCP stdio transport)
	if cmd.Bool("debug") {
		slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})))
	} else {
		slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn})))
	}

	client, err := newAPIClient(cmd)
	if err != nil {
		return err
	}
	filter := cmd.StringArg("filter")

	slog.Debug("starting MCP server", "filter", filter, "gateway", client.BaseURL())

	server := taskmcp.NewMCPServer(client, filter)
	return server.Run(ctx, &mcpsdk.StdioTransport{})
}
