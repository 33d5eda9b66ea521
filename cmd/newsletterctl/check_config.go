package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

func checkConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check-config",
		Short: "Load, validate and print the effective configuration",
		Long: `Load configuration exactly as the API does, validate it, and print the
effective settings as YAML. Secrets are printed as [REDACTED].`,
		RunE: runCheckConfig,
	}
}

func runCheckConfig(cmd *cobra.Command, _ []string) error {
	cfg, logger, err := loadSettings()
	if err != nil {
		return err
	}
	defer logger.Sync()

	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "# environment: %s\n", cfg.Environment)
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(cfg); err != nil {
		return err
	}
	return enc.Close()
}
