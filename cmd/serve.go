// File: cmd/serve.go
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/xkilldash9x/formfill-cli/internal/observability"
	"github.com/xkilldash9x/formfill-cli/internal/server"
)

// newServeCmd creates and configures the `serve` command.
func newServeCmd() *cobra.Command {
	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Starts the HTTP API server",
		Long:  "Starts the HTTP API exposing form parsing and fill runs with a live progress stream.",
		PreRunE: func(cmd *cobra.Command, args []string) error {
			if err := viper.BindPFlag("server.listen_addr", cmd.Flags().Lookup("listen")); err != nil {
				return err
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := observability.GetLogger()

			// Re-resolve the listen address now that the flag is bound.
			if listen := viper.GetString("server.listen_addr"); listen != "" {
				appCfg.Server.ListenAddr = listen
			}

			srv, err := server.New(appCfg, Version, logger)
			if err != nil {
				return fmt.Errorf("failed to initialize server: %w", err)
			}
			return srv.Start()
		},
	}

	serveCmd.Flags().StringP("listen", "l", "", "Listen address, e.g. ':5000'. (Overrides config/env)")

	return serveCmd
}
