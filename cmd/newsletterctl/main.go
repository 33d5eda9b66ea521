// newsletterctl is the operator CLI for the newsletter service.
//
// Usage:
//
//	newsletterctl migrate [--create-db]
//	newsletterctl send-email --to ursula@example.com --subject "Hello" --text "Hi"
//	newsletterctl check-config
//
// Configuration is read the same way as the API: configuration/base.yaml plus
// the APP_ENVIRONMENT overlay and environment-variable overrides.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Overland-East-Bay/newsletter-api/internal/platform/config"
	"github.com/Overland-East-Bay/newsletter-api/internal/platform/logging"
)

var (
	version   = "dev"
	configDir string
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "newsletterctl",
		Short:         "Operate the newsletter service",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&configDir, "config-dir", config.DefaultDir, "Directory holding base.yaml and the environment overlays")

	rootCmd.AddCommand(migrateCmd())
	rootCmd.AddCommand(sendEmailCmd())
	rootCmd.AddCommand(checkConfigCmd())
	return rootCmd
}

func loadSettings() (config.Settings, *zap.Logger, error) {
	cfg, err := config.LoadFromEnv(configDir)
	if err != nil {
		return config.Settings{}, nil, err
	}
	logger, err := logging.New(cfg.Environment.String(), cfg.Log.Level)
	if err != nil {
		return config.Settings{}, nil, err
	}
	return cfg, logger, nil
}
