package main

import (
	"github.com/spf13/cobra"

	"github.com/dmitrymomot/hostkit/internal/config"
)

func configCommand(opts *rootOptions) *cobra.Command {
	var usage bool

	cmd := &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration as YAML",
		Long: "Print the effective configuration as YAML. Secrets are omitted " +
			"and passwords in connection URLs are redacted.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if usage {
				return config.Usage(cmd.OutOrStdout())
			}
			cfg, err := opts.load()
			if err != nil {
				return err
			}
			return config.Write(cmd.OutOrStdout(), cfg)
		},
	}

	cmd.Flags().BoolVar(&usage, "env", false, "list the supported environment variables instead")
	return cmd
}
