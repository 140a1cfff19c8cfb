package graph

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/dohr-michael/taskgraph/internal/tasks"
)

// Error codes reported in GraphQL error extensions.
const (
	CodeNotFound        = "NOT_FOUND"
	CodeInvalidArgument = "INVALID_ARGUMENT"
	CodeInternal        = "INTERNAL"
)

// Error is a resolver error tagged with a code. graph-gophers copies Extensions()
// into the "extensions" member of the response error.
type Error struct {
	Code    string
	ID      string
	Message string
	err     error
}

func (e *Error) Error() string { return e.Message }

func (e *Error) Unwrap() error { return e.err }

// Extensions implements the graph-gophers resolver error interface.
func (e *Error) Extensions() map[string]interface{} {
	ext := map[string]interface{}{"code": e.Code}
	if e.ID != "" {
		ext["id"] = e.ID
	}
	return ext
}

// toGraphError maps service errors onto tagged GraphQL errors.
func toGraphError(err error, id string) error {
	switch {
	case errors.Is(err, tasks.ErrNotFound):
		return &Error{
			Code:    CodeNotFound,
			ID:      id,
			Message: fmt.Sprintf("no task found with id %s", id),
			err:     err,
		}
	case errors.Is(err, tasks.ErrInvalidDescription):
		return &Error{Code: CodeInvalidArgument, Message: err.Error(), err: err}
	default:
		slog.Error("resolver failed", "error", err)
		return &Error{Code: CodeInternal, Message: "internal error", err: err}
	}
}

// panicLogger reports resolver panics through slog.
type panicLogger struct{}

func (panicLogger) LogPanic(ctx context.Context, value interface{}) {
	slog.Error("graphql resolver panic", "panic", value)
}
