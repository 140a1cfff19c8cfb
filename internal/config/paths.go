package config

import (
	"os"
	"path/filepath"
)

// TaskgraphPath returns the root directory for taskgraph settings.
// It uses $TASKGRAPH_PATH if set, otherwise defaults to ~/.taskgraph.
func TaskgraphPath() string {
	if v := os.Getenv("TASKGRAPH_PATH"); v != "" {
		return v
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", ".taskgraph")
	}
	return filepath.Join(home, ".taskgraph")
}

// ConfigPath returns the path to the config file.
func ConfigPath() string {
	return filepath.Join(TaskgraphPath(), "config.jsonc")
}

// DotenvPath returns the path to the .env file.
func DotenvPath() string {
	return filepath.Join(TaskgraphPath(), ".env")
}

// HeartbeatPath returns the path to the gateway heartbeat file.
func HeartbeatPath() string {
	return filepath.Join(TaskgraphPath(), "heartbeat.json")
}
