package cmd

import (
	"github.com/spf13/cobra"
)

func newConfigCmd(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Show the active configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p := out(cmd)
			p.line("Config file: %s", rt.configPath)
			p.line("Database path: %s", rt.cfg.DBPath)
			p.line("Log file: %s", rt.logPath())
			return nil
		},
	}
}
