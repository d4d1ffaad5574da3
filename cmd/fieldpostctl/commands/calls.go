package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

// calls --officer U: list the officer's call ids.
func callsCmd() *cobra.Command {
	var officer string
	cmd := &cobra.Command{
		Use:   "calls",
		Short: "List an officer's calls",
		RunE: func(cmd *cobra.Command, args []string) error {
			calls, err := client.Calls(cmd.Context(), officer)
			if err != nil {
				return err
			}
			if len(calls) == 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "no calls recorded for %s\n", officer)
				return nil
			}
			for _, c := range calls {
				fmt.Fprintf(cmd.OutOrStdout(), "%s  opened %s  updated %s\n",
					c.ID,
					c.CreatedAt.Local().Format("2006-01-02 15:04:05"),
					c.UpdatedAt.Local().Format("2006-01-02 15:04:05"))
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&officer, "officer", "", "officer id")
	_ = cmd.MarkFlagRequired("officer")
	return cmd
}
