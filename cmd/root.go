// -- cmd/root.go --
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/xkilldash9x/formfill-cli/internal/config"
	"github.com/xkilldash9x/formfill-cli/internal/observability"
)

var (
	cfgFile string
	// appCfg holds the resolved configuration for subcommands. It is
	// populated by the root PersistentPreRunE before any RunE fires.
	appCfg *config.Config
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:     "formfill-cli",
	Short:   "Formfill parses Google Forms and submits generated responses.",
	Version: Version,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Runs before any command, setting up config and logging.
		if err := initializeConfig(); err != nil {
			return err
		}

		cfg, err := config.NewConfigFromViper(viper.GetViper())
		if err != nil {
			// Initialize a fallback logger so the error itself gets logged.
			observability.InitializeLogger(config.LoggerConfig{Level: "info", Format: "console", ServiceName: "formfill-cli"})
			return err
		}
		appCfg = cfg

		observability.InitializeLogger(cfg.Logger)
		observability.GetLogger().Info("Starting formfill-cli", zap.String("version", Version))
		return nil
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		if logger := observability.GetLogger(); logger != nil && logger != zap.NewNop() {
			logger.Error("Command execution failed", zap.Error(err))
		} else {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file (default is ./config.yaml)")
	rootCmd.SetVersionTemplate(`{{printf "%s\n" .Version}}`)

	rootCmd.AddCommand(newServeCmd())
	rootCmd.AddCommand(newParseCmd())
	rootCmd.AddCommand(newFillCmd())
}

// initializeConfig reads in config file and ENV variables if set.
func initializeConfig() error {
	v := viper.GetViper()

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.AddConfigPath(".")
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}

	config.SetDefaults(v)
	config.BindEnv(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found; proceed with defaults/env vars.
	}
	return nil
}
