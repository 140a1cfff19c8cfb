// Package graph exposes the task operations as a GraphQL schema and serves it over HTTP.
package graph

import (
	"fmt"

	graphql "github.com/graph-gophers/graphql-go"

	"github.com/dohr-michael/taskgraph/internal/tasks"
)

// Schema is the GraphQL SDL served at /graphql.
const Schema = `
schema {
	query: Query
	mutation: Mutation
}

type Task {
	id: ID!
	description: String!
	completed: Boolean!
}

type Query {
	tasks: [Task]
	task(id: ID!): Task
}

type Mutation {
	createTask(description: String!): Task
	updateTask(id: ID!, description: String, completed: Boolean): Task
	deleteTask(id: ID!): ID
}
`

// Options tune schema execution.
type Options struct {
	MaxDepth       int
	MaxParallelism int
}

// NewSchema parses the SDL and binds it to a resolver backed by svc.
func NewSchema(svc *tasks.Service, opts Options) (*graphql.Schema, error) {
	schemaOpts := []graphql.SchemaOpt{
		graphql.Logger(panicLogger{}),
	}
	if opts.MaxDepth > 0 {
		schemaOpts = append(schemaOpts, graphql.MaxDepth(opts.MaxDepth))
	}
	if opts.MaxParallelism > 0 {
		schemaOpts = append(schemaOpts, graphql.MaxParallelism(opts.MaxParallelism))
	}

	schema, err := graphql.ParseSchema(Schema, NewResolver(svc), schemaOpts...)
	if err != nil {
		return nil, fmt.Errorf("parse schema: %w", err)
	}
	return schema, nil
}
