package commands

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"charm.land/lipgloss/v2"
	"golang.org/x/term"
	"gopkg.in/yaml.v3"

	"github.com/dohr-michael/taskgraph/internal/tasks"
)

// Output formats accepted by --output.
const (
	outputTable = "table"
	outputJSON  = "json"
	outputYAML  = "yaml"
)

var (
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#60A5FA")).Bold(true)
	doneStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#10B981"))
	openStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#F59E0B"))
	mutedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280"))
)

func validOutput(format string) error {
	switch format {
	case outputTable, outputJSON, outputYAML:
		return nil
	}
	return fmt.Errorf("unknown output format %q (want table, json or yaml)", format)
}

// isTerminal reports whether w is a terminal; styling is only applied then.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

func status(t tasks.Task) string {
	if t.Completed {
		return "done"
	}
	return "open"
}

// printValue writes v as JSON or YAML.
func printValue(w io.Writer, format string, v any) error {
	switch format {
	case outputYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return fmt.Errorf("encode yaml: %w", err)
		}
		return enc.Close()
	default:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	}
}

func printTasks(w io.Writer, format string, list []tasks.Task) error {
	if format != outputTable {
		return printValue(w, format, list)
	}

	styled := isTerminal(w)
	if len(list) == 0 {
		msg := "No tasks found."
		if styled {
			msg = mutedStyle.Render(msg)
		}
		_, err := fmt.Fprintln(w, msg)
		return err
	}

	var buf bytes.Buffer
	tw := tabwriter.NewWriter(&buf, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tDESCRIPTION\tSTATUS")
	for _, t := range list {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", t.ID, t.Description, status(t))
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	for i, line := range lines {
		if styled {
			line = styleRow(i, line)
		}
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

// styleRow colors an aligned table row. STATUS is the last column, so
// styling it does not disturb alignment.
func styleRow(i int, line string) string {
	if i == 0 {
		return headerStyle.Render(line)
	}
	switch {
	case strings.HasSuffix(line, "done"):
		return strings.TrimSuffix(line, "done") + doneStyle.Render("done")
	case strings.HasSuffix(line, "open"):
		return strings.TrimSuffix(line, "open") + openStyle.Render("open")
	}
	return line
}

func printTask(w io.Writer, format string, t tasks.Task) error {
	if format != outputTable {
		return printValue(w, format, t)
	}

	st := status(t)
	if isTerminal(w) {
		if t.Completed {
			st = doneStyle.Render(st)
		} else {
			st = openStyle.Render(st)
		}
	}
	_, err := fmt.Fprintf(w, "ID:          %s\nDescription: %s\nStatus:      %s\n", t.ID, t.Description, st)
	return err
}
