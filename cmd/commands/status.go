package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/dohr-michael/taskgraph/internal/config"
	"github.com/dohr-michael/taskgraph/internal/heartbeat"
)

// NewStatusCommand returns the status subcommand.
func NewStatusCommand() *cli.Command {
	return &cli.Command{
		Name:  "status",
		Usage: "Show gateway status",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			w := stdout(cmd)

			status, hb, err := heartbeat.Check(config.HeartbeatPath(), 2*time.Minute)
			if err != nil {
				return fmt.Errorf("check heartbeat: %w", err)
			}

			switch status {
			case heartbeat.StatusAlive:
				fmt.Fprintf(w, "Local gateway: ALIVE (PID %d, uptime %s, %s)\n", hb.PID, hb.Uptime, hb.URL)
			case heartbeat.StatusStale:
				fmt.Fprintf(w, "Local gateway: STALE (PID %d, last heartbeat %s ago)\n",
					hb.PID, time.Since(hb.Timestamp).Truncate(time.Second))
			case heartbeat.StatusDead:
				fmt.Fprintln(w, "Local gateway: NOT RUNNING")
			}

			client, err := newAPIClient(cmd)
			if err != nil {
				return err
			}
			health, err := client.Health(ctx)
			if err != nil {
				return fmt.Errorf("gateway %s unreachable: %w", client.BaseURL(), err)
			}
			fmt.Fprintf(w, "Gateway %s: %s (%d tasks)\n", client.BaseURL(), health.Status, health.Tasks)
			return nil
		},
	}
}
