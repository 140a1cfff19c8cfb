package tasks

import "errors"

var (
	ErrNotFound           = errors.New("task not found")
	ErrInvalidDescription = errors.New("description must not be empty")
)

func isNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
