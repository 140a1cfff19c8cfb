package commands

import (
	"io"
	"log/slog"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/dohr-michael/taskgraph/clients/api"
	"github.com/dohr-michael/taskgraph/internal/config"
)

// gatewayURL resolves the gateway base URL: --url / $TASKGRAPH_URL, then client.url.
func gatewayURL(cmd *cli.Command) (string, *config.Config, error) {
	cfg, err := loadConfig(cmd.String("config"), slog.LevelDebug)
	if err != nil {
		return "", nil, err
	}
	if u := cmd.String("url"); u != "" {
		return u, cfg, nil
	}
	return cfg.Client.URL, cfg, nil
}

func newAPIClient(cmd *cli.Command) (*api.Client, error) {
	url, cfg, err := gatewayURL(cmd)
	if err != nil {
		return nil, err
	}
	return api.New(url, cfg.Client.Timeout.Duration()), nil
}

// stdout returns the writer client commands print to.
func stdout(cmd *cli.Command) io.Writer {
	if w := cmd.Root().Writer; w != nil {
		return w
	}
	return os.Stdout
}
