package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/urfave/cli/v3"

	wsclient "github.com/dohr-michael/taskgraph/clients/ws"
	"github.com/dohr-michael/taskgraph/internal/events"
)

// NewWatchCommand returns the watch subcommand.
func NewWatchCommand() *cli.Command {
	return &cli.Command{
		Name:  "watch",
		Usage: "Stream task changes from a running gateway",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:  "history",
				Usage: "Print the last N events before streaming",
			},
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Print raw events as JSON lines",
			},
		},
		Action: runWatch,
	}
}

func runWatch(ctx context.Context, cmd *cli.Command) error {
	base, _, err := gatewayURL(cmd)
	if err != nil {
		return err
	}

	client, err := wsclient.Dial(ctx, wsclient.URLFromBase(base))
	if err != nil {
		return err
	}
	defer client.Close()

	w := stdout(cmd)
	asJSON := cmd.Bool("json")

	if n := cmd.Int("history"); n > 0 {
		history, pending, err := client.History(n)
		if err != nil {
			return fmt.Errorf("history: %w", err)
		}
		for _, e := range history {
			printEvent(w, e, asJSON)
		}
		for _, f := range pending {
			if e, err := wsclient.DecodeEvent(f); err == nil {
				printEvent(w, e, asJSON)
			}
		}
	}

	for {
		e, err := client.ReadEvent()
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("read event: %w", err)
		}
		printEvent(w, e, asJSON)
	}
}

func printEvent(w io.Writer, e events.Event, asJSON bool) {
	if asJSON {
		data, err := json.Marshal(e)
		if err == nil {
			fmt.Fprintln(w, string(data))
		}
		return
	}
	fmt.Fprintf(w, "%s  %-13s %s\n", e.Timestamp.Format("15:04:05"), e.Type, describeEvent(e))
}

func describeEvent(e events.Event) string {
	switch e.Type {
	case events.EventTaskCreated:
		if p, ok := events.ExtractPayload[events.TaskCreatedPayload](e); ok {
			return fmt.Sprintf("#%s %q", p.Task.ID, p.Task.Description)
		}
	case events.EventTaskUpdated:
		if p, ok := events.ExtractPayload[events.TaskUpdatedPayload](e); ok {
			return fmt.Sprintf("#%s %q completed=%t fields=%v", p.Task.ID, p.Task.Description, p.Task.Completed, p.Fields)
		}
	case events.EventTaskDeleted:
		if p, ok := events.ExtractPayload[events.TaskDeletedPayload](e); ok {
			return "#" + p.ID
		}
	}
	return ""
}
