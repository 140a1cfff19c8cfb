package commands

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/dohr-michael/taskgraph/internal/config"
	"github.com/dohr-michael/taskgraph/internal/events"
	"github.com/dohr-michael/taskgraph/internal/gateway"
	"github.com/dohr-michael/taskgraph/internal/graph"
	"github.com/dohr-michael/taskgraph/internal/heartbeat"
	"github.com/dohr-michael/taskgraph/internal/storage"
	"github.com/dohr-michael/taskgraph/internal/tasks"
)

// NewServeCommand returns the serve subcommand.
func NewServeCommand() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Start the GraphQL gateway",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "host",
				Usage: "Host to listen on",
			},
			&cli.IntFlag{
				Name:  "port",
				Usage: "Port to listen on",
			},
		},
		Action: runServe,
	}
}

func runServe(ctx context.Context, cmd *cli.Command) error {
	level := new(slog.LevelVar)
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	applyLevel := func(cfg *config.Config) {
		if cmd.Bool("debug") {
			level.Set(slog.LevelDebug)
			return
		}
		level.Set(cfg.Log.SlogLevel())
	}

	configPath := cmd.String("config")
	cfg, err := loadConfig(configPath, slog.LevelWarn)
	if err != nil {
		return err
	}
	applyLevel(cfg)

	// CLI flags override config
	if cmd.IsSet("host") {
		cfg.Gateway.Host = cmd.String("host")
	}
	if cmd.IsSet("port") {
		cfg.Gateway.Port = cmd.Int("port")
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Event bus
	bus := events.NewBus(cfg.Events.BufferSize)
	defer bus.Close()

	if cfg.Events.LogDir != "" {
		journal := storage.NewEventLogger(cfg.Events.LogDir, bus)
		defer journal.Close()
		slog.Info("task change journal enabled", "dir", cfg.Events.LogDir)
	}

	svc := tasks.NewService(tasks.NewMemoryStore(), bus)

	server, err := gateway.NewServer(svc, bus, gateway.Options{
		Host:       cfg.Gateway.Host,
		Port:       cfg.Gateway.Port,
		Playground: cfg.GraphQL.PlaygroundEnabled(),
		GraphQL: graph.Options{
			MaxDepth:       cfg.GraphQL.MaxDepth,
			MaxParallelism: cfg.GraphQL.MaxParallelism,
		},
	})
	if err != nil {
		return fmt.Errorf("init gateway: %w", err)
	}

	// SIGHUP reloads config and .env; only the log level is applied live.
	reloader := config.NewReloader(configPath, config.DotenvPath(), cfg)
	reloader.OnReload(applyLevel)
	hup := make(chan os.Signal, 1)
	signal.Notify(hup, syscall.SIGHUP)
	defer signal.Stop(hup)
	go reloader.Watch(ctx, hup)

	hb := heartbeat.NewWriter(config.HeartbeatPath(), "http://"+cfg.Gateway.Addr(), svc.Count)
	hb.Start()
	defer hb.Stop()

	// Start server in goroutine
	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	// Wait for signal or error
	select {
	case <-ctx.Done():
		slog.Info("shutting down...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	case err := <-errCh:
		return err
	}
}

// loadConfig loads the config file. A missing file yields the defaults and is
// logged at missingLevel; any other error (malformed JSONC, bad values) is returned.
func loadConfig(path string, missingLevel slog.Level) (*config.Config, error) {
	cfg, err := config.Load(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			slog.Log(context.Background(), missingLevel, "config not found, using defaults", "path", path)
			return config.Default(), nil
		}
		return nil, fmt.Errorf("load config %s: %w", path, err)
	}
	return cfg, nil
}
