package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

// officers: list the officers the intake server has recorded calls for.
func officersCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "officers",
		Short: "List officers known to the intake server",
		RunE: func(cmd *cobra.Command, args []string) error {
			officers, err := client.Officers(cmd.Context())
			if err != nil {
				return err
			}
			if len(officers) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "no officers recorded yet")
				return nil
			}
			for _, o := range officers {
				fmt.Fprintf(cmd.OutOrStdout(), "%-16s %3d call(s)  last %s\n",
					o.ID, o.CallCount, o.LastSeen.Local().Format("2006-01-02 15:04:05"))
			}
			return nil
		},
	}
}
