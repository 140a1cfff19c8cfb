package config

import (
	"fmt"
	"log/slog"
	"strings"
	"time"
)

// Config is the root configuration for taskgraph.
type Config struct {
	Gateway GatewayConfig `json:"gateway"`
	GraphQL GraphQLConfig `json:"graphql"`
	Events  EventsConfig  `json:"events"`
	Log     LogConfig     `json:"log"`
	Client  ClientConfig  `json:"client"`
}

// GatewayConfig holds the HTTP server settings.
type GatewayConfig struct {
	Host string `json:"host"`
	Port int    `json:"port"`
}

// Addr returns host:port.
func (g GatewayConfig) Addr() string {
	return fmt.Sprintf("%s:%d", g.Host, g.Port)
}

// GraphQLConfig tunes the /graphql endpoint.
type GraphQLConfig struct {
	Playground     *bool `json:"playground,omitempty"` // GraphiQL on GET (default: true)
	MaxDepth       int   `json:"max_depth"`
	MaxParallelism int   `json:"max_parallelism"`
}

// PlaygroundEnabled reports whether GET /graphql serves GraphiQL.
func (g GraphQLConfig) PlaygroundEnabled() bool {
	return g.Playground == nil || *g.Playground
}

// EventsConfig holds event bus settings.
type EventsConfig struct {
	BufferSize int    `json:"buffer_size"`
	LogDir     string `json:"log_dir,omitempty"` // JSONL change journal; empty disables it
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level string `json:"level"` // debug | info | warn | error
}

// SlogLevel converts Level to a slog.Level; unknown values fall back to info.
func (l LogConfig) SlogLevel() slog.Level {
	switch strings.ToLower(l.Level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// ClientConfig configures the CLI commands that talk to a running gateway.
type ClientConfig struct {
	URL     string   `json:"url"`
	Timeout Duration `json:"timeout,omitempty"`
}

// Duration wraps time.Duration for JSON unmarshaling.
type Duration time.Duration

func (d Duration) Duration() time.Duration {
	return time.Duration(d)
}

func (d *Duration) UnmarshalJSON(b []byte) error {
	// Remove quotes
	s := string(b)
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		s = s[1 : len(s)-1]
	}
	dur, err := time.ParseDuration(s)
	if err != nil {
		return err
	}
	*d = Duration(dur)
	return nil
}

func (d Duration) MarshalJSON() ([]byte, error) {
	return []byte(`"` + time.Duration(d).String() + `"`), nil
}
