package graph

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"net/http"

	graphql "github.com/graph-gophers/graphql-go"
)

const maxBodyBytes = 1 << 20

// Request is a GraphQL-over-HTTP request body.
type Request struct {
	Query         string         `json:"query"`
	OperationName string         `json:"operationName,omitempty"`
	Variables     map[string]any `json:"variables,omitempty"`
}

// Handler serves the schema: POST executes a document, GET renders GraphiQL.
type Handler struct {
	schema     *graphql.Schema
	playground bool
}

// NewHandler creates a handler. When playground is false, GET returns 405.
func NewHandler(schema *graphql.Schema, playground bool) *Handler {
	return &Handler{schema: schema, playground: playground}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		h.serveQuery(w, r)
	case http.MethodGet:
		if !h.playground {
			w.Header().Set("Allow", http.MethodPost)
			writeErrors(w, http.StatusMethodNotAllowed, "GraphQL only supports POST requests")
			return
		}
		servePlayground(w, r)
	default:
		w.Header().Set("Allow", "GET, POST")
		writeErrors(w, http.StatusMethodNotAllowed, "GraphQL only supports GET and POST requests")
	}
}

func (h *Handler) serveQuery(w http.ResponseWriter, r *http.Request) {
	req, err := decodeRequest(w, r)
	if err != nil {
		writeErrors(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.Query == "" {
		writeErrors(w, http.StatusBadRequest, "must provide query string")
		return
	}

	resp := h.schema.Exec(r.Context(), req.Query, req.OperationName, req.Variables)

	// Errors without data mean the document never reached the resolvers
	// (syntax or validation failure).
	status := http.StatusOK
	if len(resp.Errors) > 0 && len(resp.Data) == 0 {
		status = http.StatusBadRequest
	}
	if len(resp.Errors) > 0 {
		slog.Debug("graphql errors", "operation", req.OperationName, "count", len(resp.Errors), "first", resp.Errors[0].Message)
	}

	writeJSON(w, status, resp)
}

func decodeRequest(w http.ResponseWriter, r *http.Request) (Request, error) {
	defer r.Body.Close()
	body := http.MaxBytesReader(w, r.Body, maxBodyBytes)

	mediaType := "application/json"
	if ct := r.Header.Get("Content-Type"); ct != "" {
		mt, _, err := mime.ParseMediaType(ct)
		if err != nil {
			return Request{}, fmt.Errorf("invalid content type: %w", err)
		}
		mediaType = mt
	}

	switch mediaType {
	case "application/graphql":
		data, err := io.ReadAll(body)
		if err != nil {
			return Request{}, fmt.Errorf("read body: %w", err)
		}
		return Request{Query: string(data)}, nil
	case "application/json":
		var req Request
		dec := json.NewDecoder(body)
		if err := dec.Decode(&req); err != nil {
			return Request{}, fmt.Errorf("invalid JSON: %w", err)
		}
		if dec.More() {
			return Request{}, errors.New("invalid JSON: multiple JSON values")
		}
		return req, nil
	default:
		return Request{}, fmt.Errorf("unsupported content type %q", mediaType)
	}
}

type errorBody struct {
	Errors []errorMessage `json:"errors"`
}

type errorMessage struct {
	Message string `json:"message"`
}

func writeErrors(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorBody{Errors: []errorMessage{{Message: msg}}})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Debug("write response", "error", err)
	}
}
