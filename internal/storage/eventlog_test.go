package storage

import (
	"bufio"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/dohr-michael/taskgraph/internal/events"
	"github.com/dohr-michael/taskgraph/internal/tasks"
)

func readLines(t *testing.T, path string, want int) []events.Event {
	t.Helper()

	var got []events.Event
	deadline := time.Now().Add(2 * time.Second)
	for {
		got = got[:0]
		if f, err := os.Open(path); err == nil {
			scanner := bufio.NewScanner(f)
			for scanner.Scan() {
				var e events.Event
				if err := json.Unmarshal(scanner.Bytes(), &e); err != nil {
					f.Close()
					t.Fatalf("unmarshal line: %v", err)
				}
				got = append(got, e)
			}
			f.Close()
		}
		if len(got) >= want || time.Now().After(deadline) {
			return got
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestEventLogger_WriteAndReadBack(t *testing.T) {
	dir := t.TempDir()
	bus := events.NewBus(64)
	defer bus.Close()

	el := NewEventLogger(dir, bus)
	defer el.Close()

	evt := events.NewTypedEvent(events.SourceGraphQL, events.TaskCreatedPayload{
		Task: events.TaskSnapshot{ID: "1", Description: "Buy milk"},
	})
	bus.Publish(evt)

	got := readLines(t, el.LogPath(evt), 1)
	if len(got) != 1 {
		t.Fatalf("expected 1 line, got %d", len(got))
	}
	if got[0].ID != evt.ID {
		t.Errorf("got ID %q, want %q", got[0].ID, evt.ID)
	}
	p, ok := events.ExtractPayload[events.TaskCreatedPayload](got[0])
	if !ok || p.Task.Description != "Buy milk" {
		t.Errorf("unexpected payload: %+v", p)
	}
}

func TestEventLogger_AppendsEveryTaskEvent(t *testing.T) {
	dir := t.TempDir()
	bus := events.NewBus(64)
	defer bus.Close()

	el := NewEventLogger(dir, bus)
	defer el.Close()

	created := events.NewTypedEvent(events.SourceGraphQL, events.TaskCreatedPayload{Task: events.TaskSnapshot{ID: "1"}})
	deleted := events.NewTypedEvent(events.SourceGraphQL, events.TaskDeletedPayload{ID: "1"})
	bus.Publish(created)
	bus.Publish(deleted)

	got := readLines(t, el.LogPath(created), 2)
	if len(got) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(got))
	}
	types := map[events.EventType]bool{got[0].Type: true, got[1].Type: true}
	if !types[events.EventTaskCreated] || !types[events.EventTaskDeleted] {
		t.Errorf("unexpected types: %s, %s", got[0].Type, got[1].Type)
	}
}

func TestEventLogger_DailyFiles(t *testing.T) {
	el := &EventLogger{dir: "/var/log/taskgraph"}

	e := events.Event{Timestamp: time.Date(2026, 3, 4, 23, 30, 0, 0, time.UTC)}
	want := filepath.Join("/var/log/taskgraph", "tasks-2026-03-04.jsonl")
	if got := el.LogPath(e); got != want {
		t.Errorf("LogPath = %q, want %q", got, want)
	}
}

func TestEventLogger_CloseStopsWriting(t *testing.T) {
	dir := t.TempDir()
	bus := events.NewBus(64)
	defer bus.Close()

	el := NewEventLogger(dir, bus)
	el.Close()

	evt := events.NewTypedEvent(events.SourceGraphQL, events.TaskDeletedPayload{ID: "1"})
	bus.Publish(evt)
	time.Sleep(50 * time.Millisecond)

	if _, err := os.Stat(el.LogPath(evt)); !os.IsNotExist(err) {
		t.Errorf("expected no log file after Close, got err=%v", err)
	}
}

func TestEventLogger_KeepsMutationOrder(t *testing.T) {
	ctx := t.Context()

	for run := 0; run < 20; run++ {
		dir := t.TempDir()
		bus := events.NewBus(64)
		el := NewEventLogger(dir, bus)
		svc := tasks.NewService(tasks.NewMemoryStore(), bus)

		task, err := svc.Create(ctx, "Buy milk")
		if err != nil {
			t.Fatalf("Create: %v", err)
		}
		completed := true
		if _, err := svc.Update(ctx, task.ID, tasks.Patch{Completed: &completed}); err != nil {
			t.Fatalf("Update: %v", err)
		}
		if _, err := svc.Delete(ctx, task.ID); err != nil {
			t.Fatalf("Delete: %v", err)
		}

		deadline := time.Now().Add(2 * time.Second)
		for len(bus.History(3)) < 3 && time.Now().Before(deadline) {
			time.Sleep(5 * time.Millisecond)
		}
		history := bus.History(3)
		if len(history) != 3 {
			t.Fatalf("run %d: expected 3 events on the bus, got %d", run, len(history))
		}
		path := el.LogPath(history[0])
		got := readLines(t, path, 3)
		el.Close()
		bus.Close()

		if len(got) != 3 {
			t.Fatalf("run %d: expected 3 lines, got %d", run, len(got))
		}
		want := []events.EventType{events.EventTaskCreated, events.EventTaskUpdated, events.EventTaskDeleted}
		for i, e := range got {
			if e.Type != want[i] {
				t.Fatalf("run %d: line %d is %s, want %s", run, i, e.Type, want[i])
			}
		}
	}
}
