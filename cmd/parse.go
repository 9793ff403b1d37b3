// File: cmd/parse.go
package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/xkilldash9x/formfill-cli/internal/formparser"
	"github.com/xkilldash9x/formfill-cli/internal/network"
	"github.com/xkilldash9x/formfill-cli/internal/observability"
)

// newParseCmd creates and configures the `parse` command.
func newParseCmd() *cobra.Command {
	parseCmd := &cobra.Command{
		Use:   "parse <form-url>",
		Short: "Parses a Google Form and prints its structure as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := observability.GetLogger()

			clientCfg := network.NewDefaultClientConfig()
			clientCfg.RequestTimeout = appCfg.Network.RequestTimeout
			clientCfg.UserAgent = appCfg.Network.UserAgent
			clientCfg.Logger = logger

			parser := formparser.New(network.NewClient(clientCfg), logger)

			form, err := parser.Parse(ctx, args[0])
			if err != nil {
				return fmt.Errorf("failed to parse form: %w", err)
			}

			out, err := json.MarshalIndent(form, "", "  ")
			if err != nil {
				return fmt.Errorf("failed to encode form: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(out))
			return nil
		},
	}
	return parseCmd
}
