package commands

import (
	"github.com/urfave/cli/v3"

	"github.com/dohr-michael/taskgraph/internal/config"
)

// NewRootCommand returns the top-level CLI command.
func NewRootCommand() *cli.Command {
	return &cli.Command{
		Name:  "taskgraph",
		Usage: "In-memory task list behind a GraphQL API",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to config file",
				Value:   config.ConfigPath(),
			},
			&cli.BoolFlag{
				Name:  "debug",
				Usage: "Enable debug logging",
			},
			&cli.StringFlag{
				Name:    "url",
				Usage:   "Gateway base URL for client commands (default: client.url from config)",
				Sources: cli.EnvVars("TASKGRAPH_URL"),
			},
		},
		Commands: []*cli.Command{
			NewServeCommand(),
			NewStatusCommand(),
			NewTasksCommand(),
			NewWatchCommand(),
			NewMCPServeCommand(),
		},
	}
}
