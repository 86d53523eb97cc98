// Package cli implements the graphctl command set: small commands that
// exercise the msgraph-go client against a real tenant.
package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/msgraph-go/graph"
)

var (
	// version is set by goreleaser ldflags.
	version = "dev"

	// configPath is the --config flag value.
	configPath string

	// verbose enables debug logging.
	verbose bool
)

// rootCmd is the base command.
var rootCmd = &cobra.Command{
	Use:   "graphctl",
	Short: "Call the Microsoft Graph API with app-only credentials",
	Long: `graphctl authenticates against the Microsoft identity platform using
client credentials from a TOML config file (default ~/.graphctl/config.toml)
and runs one-shot Graph API operations.`,
	SilenceUsage: true,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// SetVersion sets the version string for the CLI.
func SetVersion(v string) {
	version = v
	rootCmd.Version = v
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default ~/.graphctl/config.toml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose debug output")
}

// loadConfig resolves and loads the effective config file.
func loadConfig() (*Config, error) {
	path := configPath
	if path == "" {
		var err error
		path, err = DefaultConfigPath()
		if err != nil {
			return nil, err
		}
	}
	return LoadConfig(path)
}

// newClient builds a Graph client from the config and a logger honouring
// the verbose flag.
func newClient(cfg *Config) (*graph.Client, error) {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	opts := []graph.Option{graph.WithLogger(logger)}
	if cfg.BaseURL != "" {
		opts = append(opts, graph.WithBaseURL(cfg.BaseURL))
	}

	client := graph.New(opts...)
	if cfg.TokenRefreshIntervalSec != 0 {
		if err := client.SetTokenRefreshInterval(cfg.RefreshInterval()); err != nil {
			return nil, err
		}
	}
	return client, nil
}

// authedClient loads the config, builds a client, and acquires a token
// for one-shot command use.
func authedClient(ctx context.Context) (*graph.Client, string, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, "", err
	}

	client, err := newClient(cfg)
	if err != nil {
		return nil, "", err
	}

	tr, _, err := client.AcquireToken(ctx, cfg.Credentials())
	if err != nil {
		return nil, "", fmt.Errorf("acquire token: %w", err)
	}
	return client, tr.AccessToken, nil
}
