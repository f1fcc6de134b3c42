package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

const configLongDesc string = `Print the effective configuration as YAML.

Values come from defaults, the config file, .env and the environment, in
increasing order of precedence. The API key is masked.`

const configShortDesc string = "Print the effective configuration"

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: configShortDesc,
		Long:  configLongDesc,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			out, err := cfg.Redacted().YAML()
			if err != nil {
				return fmt.Errorf("rendering config: %w", err)
			}
			_, err = cmd.OutOrStdout().Write(out)
			return err
		},
	}
}
