// Package storage writes the task change journal.
package storage

import (
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/dohr-michael/taskgraph/internal/events"
)

// EventLogger appends bus events to JSONL files, one file per UTC day.
// It is an audit trail only; tasks are never restored from it.
type EventLogger struct {
	dir         string
	mu          sync.Mutex
	unsubscribe func()
}

// NewEventLogger creates an EventLogger that subscribes to the task events
// of bus and writes them as JSONL under dir.
func NewEventLogger(dir string, bus *events.Bus) *EventLogger {
	el := &EventLogger{dir: dir}
	el.unsubscribe = bus.Subscribe(el.handleEvent,
		events.EventTaskCreated,
		events.EventTaskUpdated,
		events.EventTaskDeleted,
	)
	return el
}

// Close unsubscribes the logger from the event bus.
func (el *EventLogger) Close() {
	if el.unsubscribe != nil {
		el.unsubscribe()
	}
}

func (el *EventLogger) handleEvent(e events.Event) {
	if err := el.writeEvent(e); err != nil {
		slog.Warn("event log write", "event", e.ID, "error", err)
	}
}

func (el *EventLogger) writeEvent(e events.Event) error {
	data, err := json.Marshal(e)
	if err != nil {
		return err
	}
	data = append(data, '\n')

	// Subscribers run concurrently; keep lines whole.
	el.mu.Lock()
	defer el.mu.Unlock()

	path := el.LogPath(e)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}
	defer f.Close()

	_, err = f.Write(data)
	return err
}

// LogPath returns the file an event is written to.
func (el *EventLogger) LogPath(e events.Event) string {
	return filepath.Join(el.dir, "tasks-"+e.Timestamp.UTC().Format("2006-01-02")+".jsonl")
}
