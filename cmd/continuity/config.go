package main

import (
	"github.com/spf13/cobra"

	"github.com/gorewood/continuity/internal/config"
	"github.com/gorewood/continuity/internal/output"
)

// newConfigCmd creates the config command.
func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration",
		Long: `Print the configuration after config.yaml, env files, and environment
overrides are applied. Secrets are masked.

Examples:
  continuity config          # YAML
  continuity config --json   # JSON`,
		Args: cobra.NoArgs,
		RunE: runConfig,
	}
}

// runConfig executes the config command.
func runConfig(cmd *cobra.Command, _ []string) error {
	printer := newPrinter(cmd)

	cfg, err := loadConfig(cmd)
	if err != nil {
		printer.Error(err)
		return err
	}
	shown := cfg.Redacted()

	if printer.IsJSON() {
		return printer.WriteJSON(map[string]any{
			"config_dir": config.Dir(),
			"config":     shown,
		})
	}

	text, err := shown.YAML()
	if err != nil {
		sysErr := output.NewSystemErrorWithCause("failed to render configuration", err)
		printer.Error(sysErr)
		return sysErr
	}
	printer.KeyValue("Config dir", config.Dir())
	printer.Println()
	printer.Print("%s", text)
	return nil
}
