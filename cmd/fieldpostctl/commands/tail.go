package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/jask/fieldpost/internal/intake"
	"github.com/jask/fieldpost/internal/service"
)

// tail --officer U --call FRAGMENT [--follow]: print a call's update rows,
// optionally polling for new ones with the server's cursor.
func tailCmd() *cobra.Command {
	var (
		officer  string
		call     string
		follow   bool
		interval time.Duration
	)
	cmd := &cobra.Command{
		Use:   "tail",
		Short: "Print a call's updates, optionally following new ones",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			calls, err := client.Calls(ctx, officer)
			if err != nil {
				return err
			}
			known := make([]string, 0, len(calls))
			for _, c := range calls {
				known = append(known, c.ID)
			}
			target, err := service.ResolveCall(call, known)
			if err != nil {
				return err
			}
			if target == intake.NewCallSentinel {
				return fmt.Errorf("tail needs an existing call, not %q", call)
			}

			var cursor int64
			for {
				ups, last, err := client.Updates(ctx, officer, target, cursor)
				if err != nil {
					return err
				}
				for _, u := range ups {
					fmt.Fprintf(cmd.OutOrStdout(), "[%s] %s\n",
						u.CreatedAt.Local().Format("2006-01-02 15:04:05"), u.Body)
				}
				cursor = last
				if !follow {
					return nil
				}
				select {
				case <-ctx.Done():
					return ctx.Err()
				case <-time.After(interval):
				}
			}
		},
	}
	cmd.Flags().StringVar(&officer, "officer", "", "officer id")
	cmd.Flags().StringVar(&call, "call", "", "call id or unique fragment")
	cmd.Flags().BoolVar(&follow, "follow", false, "keep polling for new updates")
	cmd.Flags().DurationVar(&interval, "interval", 2*time.Second, "poll interval with --follow")
	_ = cmd.MarkFlagRequired("officer")
	_ = cmd.MarkFlagRequired("call")
	return cmd
}
