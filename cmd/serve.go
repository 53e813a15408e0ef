package cmd

import (
	"fmt"
	"items-api/internal/config"
	"items-api/internal/server"
	"os"

	"github.com/spf13/cobra"
)

// EnvConfigPath is read when --config is not given.
const EnvConfigPath = "CONFIG_PATH"

type serveOptions struct {
	configPath string
}

func newServeCmd() *cobra.Command {
	opts := &serveOptions{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		Long: `Start the API server. Configuration is read from the YAML file given by
--config (or $CONFIG_PATH) and then overridden from the environment, so a
deployment can run on environment variables alone.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(opts)
		},
	}

	cmd.Flags().StringVarP(&opts.configPath, "config", "c", "", "path to the YAML config file")

	return cmd
}

func (o *serveOptions) resolveConfigPath() string {
	if o.configPath != "" {
		return o.configPath
	}
	return os.Getenv(EnvConfigPath)
}

func runServe(opts *serveOptions) error {
	cfg, err := config.LoadConfig(opts.resolveConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	srv, err := server.New(cfg)
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	return srv.Start()
}
