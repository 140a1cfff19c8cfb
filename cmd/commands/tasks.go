package commands

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/dohr-michael/taskgraph/clients/api"
	"github.com/dohr-michael/taskgraph/internal/tasks"
)

// NewTasksCommand returns the tasks subcommand.
func NewTasksCommand() *cli.Command {
	return &cli.Command{
		Name:  "tasks",
		Usage: "Manage tasks on a running gateway",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Output format: table, json or yaml",
				Value:   outputTable,
				Validator: validOutput,
			},
		},
		Commands: []*cli.Command{
			{
				Name:   "list",
				Usage:  "List all tasks",
				Action: runTasksList,
			},
			{
				Name:      "show",
				Usage:     "Show a task",
				ArgsUsage: "<id>",
				Action:    runTasksShow,
			},
			{
				Name:      "add",
				Usage:     "Create a task",
				ArgsUsage: "<description>",
				Action:    runTasksAdd,
			},
			{
				Name:      "update",
				Usage:     "Update a task's description and/or completion",
				ArgsUsage: "<id>",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "description", Aliases: []string{"d"}, Usage: "New description"},
					&cli.BoolFlag{Name: "completed", Usage: "New completion state (--completed=false to reopen)"},
				},
				Action: runTasksUpdate,
			},
			{
				Name:      "done",
				Usage:     "Mark a task completed",
				ArgsUsage: "<id>",
				Action:    setCompleted(true),
			},
			{
				Name:      "undo",
				Usage:     "Mark a task not completed",
				ArgsUsage: "<id>",
				Action:    setCompleted(false),
			},
			{
				Name:      "rm",
				Usage:     "Delete a task",
				ArgsUsage: "<id>",
				Action:    runTasksRemove,
			},
		},
		DefaultCommand: "list",
	}
}

func requireID(cmd *cli.Command) (string, error) {
	id := cmd.Args().First()
	if id == "" {
		return "", fmt.Errorf("usage: taskgraph tasks %s <id>", cmd.Name)
	}
	return id, nil
}

func runTasksList(ctx context.Context, cmd *cli.Command) error {
	client, err := newAPIClient(cmd)
	if err != nil {
		return err
	}
	list, err := client.ListTasks(ctx)
	if err != nil {
		return fmt.Errorf("list tasks: %w", err)
	}
	return printTasks(stdout(cmd), cmd.String("output"), list)
}

func runTasksShow(ctx context.Context, cmd *cli.Command) error {
	id, err := requireID(cmd)
	if err != nil {
		return err
	}

	client, err := newAPIClient(cmd)
	if err != nil {
		return err
	}
	t, err := client.GetTask(ctx, id)
	if err != nil {
		return fmt.Errorf("get task: %w", err)
	}
	if t == nil {
		return fmt.Errorf("no task found with id %s", id)
	}
	return printTask(stdout(cmd), cmd.String("output"), *t)
}

func runTasksAdd(ctx context.Context, cmd *cli.Command) error {
	description := strings.Join(cmd.Args().Slice(), " ")
	if strings.TrimSpace(description) == "" {
		return errors.New("usage: taskgraph tasks add <description>")
	}

	client, err := newAPIClient(cmd)
	if err != nil {
		return err
	}
	t, err := client.CreateTask(ctx, description)
	if err != nil {
		return fmt.Errorf("create task: %w", err)
	}
	return printTask(stdout(cmd), cmd.String("output"), t)
}

func runTasksUpdate(ctx context.Context, cmd *cli.Command) error {
	id, err := requireID(cmd)
	if err != nil {
		return err
	}

	var patch tasks.Patch
	if cmd.IsSet("description") {
		d := cmd.String("description")
		patch.Description = &d
	}
	if cmd.IsSet("completed") {
		c := cmd.Bool("completed")
		patch.Completed = &c
	}
	if patch.Empty() {
		return errors.New("nothing to update: pass --description and/or --completed")
	}

	return update(ctx, cmd, id, patch)
}

func setCompleted(completed bool) cli.ActionFunc {
	return func(ctx context.Context, cmd *cli.Command) error {
		id, err := requireID(cmd)
		if err != nil {
			return err
		}
		return update(ctx, cmd, id, tasks.Patch{Completed: &completed})
	}
}

func update(ctx context.Context, cmd *cli.Command, id string, patch tasks.Patch) error {
	client, err := newAPIClient(cmd)
	if err != nil {
		return err
	}
	t, err := client.UpdateTask(ctx, id, patch)
	if err != nil {
		if api.IsNotFound(err) {
			return err
		}
		return fmt.Errorf("update task: %w", err)
	}
	return printTask(stdout(cmd), cmd.String("output"), t)
}

func runTasksRemove(ctx context.Context, cmd *cli.Command) error {
	id, err := requireID(cmd)
	if err != nil {
		return err
	}

	client, err := newAPIClient(cmd)
	if err != nil {
		return err
	}
	deleted, err := client.DeleteTask(ctx, id)
	if err != nil {
		if api.IsNotFound(err) {
			return err
		}
		return fmt.Errorf("delete task: %w", err)
	}

	format := cmd.String("output")
	if format != outputTable {
		return printValue(stdout(cmd), format, map[string]string{"id": deleted})
	}
	_, err = fmt.Fprintf(stdout(cmd), "Deleted task %s\n", deleted)
	return err
}
