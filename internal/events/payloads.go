package events

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// EventPayload is the interface all typed payloads implement.
type EventPayload interface {
	EventType() EventType
}

// TaskSnapshot is the state of a task at the time an event was emitted.
type TaskSnapshot struct {
	ID          string `json:"id"`
	Description string `json:"description"`
	Completed   bool   `json:"completed"`
}

type TaskCreatedPayload struct {
	Task      TaskSnapshot `json:"task"`
	RequestID string       `json:"request_id,omitempty"`
}

func (TaskCreatedPayload) EventType() EventType { return EventTaskCreated }

// TaskUpdatedPayload carries the task after the update and the names of the supplied fields.
type TaskUpdatedPayload struct {
	Task      TaskSnapshot `json:"task"`
	Fields    []string     `json:"fields"`
	RequestID string       `json:"request_id,omitempty"`
}

func (TaskUpdatedPayload) EventType() EventType { return EventTaskUpdated }

type TaskDeletedPayload struct {
	ID        string `json:"id"`
	RequestID string `json:"request_id,omitempty"`
}

func (TaskDeletedPayload) EventType() EventType { return EventTaskDeleted }

// NewTypedEvent builds an event whose type and payload come from a typed payload.
func NewTypedEvent(source EventSource, payload EventPayload) Event {
	return Event{
		ID:        uuid.NewString(),
		Type:      payload.EventType(),
		Timestamp: time.Now(),
		Source:    source,
		Payload:   toMap(payload),
	}
}

func toMap(v any) map[string]any {
	var result map[string]any
	data, err := json.Marshal(v)
	if err != nil {
		return nil
	}
	if err := json.Unmarshal(data, &result); err != nil {
		return nil
	}
	return result
}

// ExtractPayload decodes the payload of e into T.
func ExtractPayload[T EventPayload](e Event) (T, bool) {
	var result T
	if e.Type != result.EventType() {
		return result, false
	}
	data, err := json.Marshal(e.Payload)
	if err != nil {
		return result, false
	}
	if err := json.Unmarshal(data, &result); err != nil {
		return result, false
	}
	return result, true
}
