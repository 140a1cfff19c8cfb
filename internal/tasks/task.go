// Package tasks provides the in-memory task list and the operations exposed over GraphQL.
package tasks

import "strings"

// Task is a single entry of the task list.
type Task struct {
	ID          string `json:"id" yaml:"id"`
	Description string `json:"description" yaml:"description"`
	Completed   bool   `json:"completed" yaml:"completed"`
}

// Patch describes a partial update. A nil field was not supplied and is left untouched.
type Patch struct {
	Description *string
	Completed   *bool
}

// Empty reports whether the patch changes nothing.
func (p Patch) Empty() bool {
	return p.Description == nil && p.Completed == nil
}

// Fields returns the names of the supplied fields, in schema order.
func (p Patch) Fields() []string {
	var fields []string
	if p.Description != nil {
		fields = append(fields, "description")
	}
	if p.Completed != nil {
		fields = append(fields, "completed")
	}
	return fields
}

// apply overwrites the supplied fields of t.
func (p Patch) apply(t *Task) {
	if p.Description != nil {
		t.Description = *p.Description
	}
	if p.Completed != nil {
		t.Completed = *p.Completed
	}
}

// ValidateDescription rejects blank descriptions. Accepted values are returned
// unchanged, surrounding whitespace included.
func ValidateDescription(description string) (string, error) {
	if strings.TrimSpace(description) == "" {
		return "", ErrInvalidDescription
	}
	return description, nil
}
