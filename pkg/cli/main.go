package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/evoengine/evoengine/pkg/config"
	"github.com/evoengine/evoengine/pkg/observability/logger"
	"github.com/evoengine/evoengine/pkg/version"
)

const serviceName = "evoengine"

// NewRootCommand builds the engine CLI with config and version subcommands.
func NewRootCommand() *cobra.Command {
	var envFile string
	var logLevel string
	var logFormat string

	rootCmd := &cobra.Command{
		Use:   serviceName,
		Short: "Autonomous market evolution engine",
	}
	rootCmd.PersistentFlags().StringVarP(&envFile, "env-file", "e", config.DefaultEnvFile, "path to the environment override file")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", string(logger.InfoLevel), "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", string(logger.JSONFormat), "log format (json, text)")

	newLogger := func() (logger.Logger, error) {
		level, err := logger.ParseLogLevel(logLevel)
		if err != nil {
			return nil, err
		}
		format, err := logger.ParseLogFormat(logFormat)
		if err != nil {
			return nil, err
		}
		return logger.NewZapLogger(logger.Config{Level: level, Format: format})
	}

	loadConfig := func() (*config.Config, error) {
		log, err := newLogger()
		if err != nil {
			return nil, err
		}
		provider := config.NewProvider(config.NewViperLoader(envFile), log)
		return provider.Initialize()
	}

	// version command
	rootCmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			info := version.Current(serviceName)
			fmt.Fprintf(cmd.OutOrStdout(), "Service:    %s\n", info.Service)
			fmt.Fprintf(cmd.OutOrStdout(), "Version:    %s\n", info.Version)
			fmt.Fprintf(cmd.OutOrStdout(), "Commit:     %s\n", info.Commit)
			fmt.Fprintf(cmd.OutOrStdout(), "Build Time: %s\n", info.BuildTime)
		},
	})

	// config command
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Configuration management commands",
	}

	configCmd.AddCommand(&cobra.Command{
		Use:   "validate",
		Short: "Validate configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := loadConfig(); err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "configuration is valid")
			return nil
		},
	})

	var showSecrets bool
	showCmd := &cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			if showSecrets {
				fmt.Fprint(cmd.OutOrStdout(), cfg.String())
				return nil
			}
			fmt.Fprint(cmd.OutOrStdout(), cfg.Redacted())
			return nil
		},
	}
	showCmd.Flags().BoolVar(&showSecrets, "show-secrets", false, "show secret values")
	configCmd.AddCommand(showCmd)

	rootCmd.AddCommand(configCmd)

	return rootCmd
}

// Execute runs the command and exits with appropriate code.
func Execute(cmd *cobra.Command) {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
