package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/margins/internal/config"
	"github.com/mesh-intelligence/margins/internal/paths"
)

func newInitCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Write a default config.yaml",
		Long:  "Create the configuration directory and write config.yaml with the built-in\ndefaults. An existing config.yaml is left alone.",
		Args:  noArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			wrote, err := config.WriteDefault(a.configDir)
			if err != nil {
				return sysError(err)
			}
			path := paths.ConfigFile(a.configDir)
			if wrote {
				fmt.Fprintf(stdout(cmd), "Wrote %s\n", path)
			} else {
				fmt.Fprintf(stdout(cmd), "%s already exists\n", path)
			}
			return nil
		},
	}
}
