package events

import (
	"strconv"
	"sync"
	"testing"
	"time"
)

func TestBusPublishSubscribe(t *testing.T) {
	bus := NewBus(64)
	defer bus.Close()

	var mu sync.Mutex
	var received []Event

	bus.Subscribe(func(e Event) {
		mu.Lock()
		received = append(received, e)
		mu.Unlock()
	}, EventTaskCreated)

	bus.Publish(NewTypedEvent(SourceGraphQL, TaskCreatedPayload{Task: TaskSnapshot{ID: "1"}}))
	bus.Publish(NewTypedEvent(SourceGraphQL, TaskDeletedPayload{ID: "1"}))

	time.Sleep(50 * time.Millisecond)

	mu.Lock()
	defer mu.Unlock()

	if len(received) != 1 {
		t.Fatalf("expected 1 event, got %d", len(received))
	}
	if received[0].Type != EventTaskCreated {
		t.Errorf("expected task.created, got %s", received[0].Type)
	}
}

func TestBusSubscribeAll(t *testing.T) {
	bus := NewBus(64)
	defer bus.Close()

	var mu sync.Mutex
	count := 0

	bus.Subscribe(func(e Event) {
		mu.Lock()
		count++
		mu.Unlock()
	})

	bus.Publish(NewTypedEvent(SourceGraphQL, TaskCreatedPayload{Task: TaskSnapshot{ID: "1"}}))
	bus.Publish(NewTypedEvent(SourceGraphQL, TaskDeletedPayload{ID: "1"}))

	time.Sleep(50 * time.Millisecond)

	mu.Lock()
	defer mu.Unlock()

	if count != 2 {
		t.Errorf("expected 2 events, got %d", count)
	}
}

func TestBusUnsubscribe(t *testing.T) {
	bus := NewBus(64)
	defer bus.Close()

	var mu sync.Mutex
	count := 0

	unsub := bus.Subscribe(func(e Event) {
		mu.Lock()
		count++
		mu.Unlock()
	})
	unsub()

	bus.Publish(NewTypedEvent(SourceGraphQL, TaskDeletedPayload{ID: "1"}))
	time.Sleep(50 * time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	if count != 0 {
		t.Errorf("expected no events after unsubscribe, got %d", count)
	}
}

func TestBusPublishAfterClose(t *testing.T) {
	bus := NewBus(4)
	bus.Close()
	bus.Close() // idempotent

	bus.Publish(NewTypedEvent(SourceGraphQL, TaskDeletedPayload{ID: "1"}))
	if got := bus.History(10); len(got) != 0 {
		t.Fatalf("expected empty history after close, got %d", len(got))
	}
}

func TestRingBuffer(t *testing.T) {
	rb := NewRingBuffer(3)

	for i := 0; i < 5; i++ {
		rb.Add(NewEvent(EventTaskCreated, SourceSystem, map[string]any{"i": i}))
	}

	events := rb.Get(10)
	if len(events) != 3 {
		t.Fatalf("expected 3 events, got %d", len(events))
	}
	// Oldest retained first.
	if events[0].Payload["i"] != 2 || events[2].Payload["i"] != 4 {
		t.Errorf("unexpected order: %v, %v", events[0].Payload, events[2].Payload)
	}

	if got := rb.Get(0); got != nil {
		t.Errorf("Get(0) = %v, want nil", got)
	}
}

func TestSubscribeChan(t *testing.T) {
	bus := NewBus(64)
	defer bus.Close()

	ch, unsub := bus.SubscribeChan(8, EventTaskUpdated)
	defer unsub()

	bus.Publish(NewTypedEvent(SourceGraphQL, TaskUpdatedPayload{Task: TaskSnapshot{ID: "1"}, Fields: []string{"completed"}}))

	select {
	case e := <-ch:
		if e.Type != EventTaskUpdated {
			t.Errorf("expected task.updated, got %s", e.Type)
		}
	case <-time.After(time.Second):
		t.Fatal("timeout waiting for event")
	}
}

func TestBusDeliversInPublishOrder(t *testing.T) {
	bus := NewBus(256)
	defer bus.Close()

	const n = 200
	got := make(chan string, n)
	bus.Subscribe(func(e Event) {
		got <- e.Payload["id"].(string)
	}, EventTaskDeleted)

	for i := 0; i < n; i++ {
		bus.Publish(NewTypedEvent(SourceGraphQL, TaskDeletedPayload{ID: strconv.Itoa(i)}))
	}

	for i := 0; i < n; i++ {
		select {
		case id := <-got:
			if id != strconv.Itoa(i) {
				t.Fatalf("event %d: got id %s", i, id)
			}
		case <-time.After(2 * time.Second):
			t.Fatalf("timeout after %d events", i)
		}
	}
}

func TestBusUnsubscribeStopsDelivery(t *testing.T) {
	bus := NewBus(16)
	defer bus.Close()

	got := make(chan Event, 16)
	unsub := bus.Subscribe(func(e Event) { got <- e })
	unsub()
	unsub() // idempotent

	bus.Publish(NewTypedEvent(SourceGraphQL, TaskDeletedPayload{ID: "1"}))
	select {
	case e := <-got:
		t.Fatalf("unexpected event after unsubscribe: %s", e.Type)
	case <-time.After(50 * time.Millisecond):
	}
}
