package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/multierr"
)

func newTablesCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "tables",
		Short: "List the tables saved in the SQLite database",
		Args:  noArgs,
		RunE: func(cmd *cobra.Command, _ []string) (err error) {
			store, err := a.openStore(cmd.Context())
			if err != nil {
				return err
			}
			defer func() { err = multierr.Append(err, store.Close()) }()

			names, err := store.SavedTables(cmd.Context())
			if err != nil {
				return sysError(err)
			}
			if a.jsonMode {
				if names == nil {
					names = []string{}
				}
				data, err := json.MarshalIndent(names, "", "  ")
				if err != nil {
					return sysError(err)
				}
				fmt.Fprintln(stdout(cmd), string(data))
				return nil
			}
			for _, n := range names {
				fmt.Fprintln(stdout(cmd), n)
			}
			return nil
		},
	}
}
