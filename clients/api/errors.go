package api

import "errors"

// Error codes reported in extensions.code.
const (
	CodeNotFound        = "NOT_FOUND"
	CodeInvalidArgument = "INVALID_ARGUMENT"
)

// GraphQLError is an entry of a GraphQL response's errors array.
type GraphQLError struct {
	Message    string         `json:"message"`
	Path       []any          `json:"path,omitempty"`
	Extensions map[string]any `json:"extensions,omitempty"`
}

func (e *GraphQLError) Error() string { return e.Message }

// Code returns extensions.code, or "" when absent.
func (e *GraphQLError) Code() string {
	code, _ := e.Extensions["code"].(string)
	return code
}

// IsNotFound reports whether err is a NOT_FOUND GraphQL error.
func IsNotFound(err error) bool {
	var gqlErr *GraphQLError
	return errors.As(err, &gqlErr) && gqlErr.Code() == CodeNotFound
}

// IsInvalidArgument reports whether err is an INVALID_ARGUMENT GraphQL error.
func IsInvalidArgument(err error) bool {
	var gqlErr *GraphQLError
	return errors.As(err, &gqlErr) && gqlErr.Code() == CodeInvalidArgument
}
