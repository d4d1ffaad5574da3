package commands

import (
	"fmt"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jask/fieldpost/internal/intake"
	"github.com/jask/fieldpost/internal/service"
	"github.com/jask/fieldpost/internal/staging"
)

// send --officer U --call new|FRAGMENT [--text "..."] [FILE...]: stage the
// given files and submit everything as one intake request.
func sendCmd() *cobra.Command {
	var (
		officer string
		call    string
		text    string
	)
	cmd := &cobra.Command{
		Use:   "send [FILE...]",
		Short: "Submit a dispatch update in one shot",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !slices.Contains(cfg.Roster.Officers, officer) {
				return fmt.Errorf("officer %q is not on the roster (%s)",
					officer, strings.Join(cfg.Roster.Officers, ", "))
			}

			ctx := cmd.Context()
			target, err := resolveTarget(cmd, officer, call)
			if err != nil {
				return err
			}

			set := staging.NewSet()
			skipped := 0
			for _, path := range args {
				f, err := staging.LoadFile(path)
				if err != nil {
					return err
				}
				if !set.Add(f) {
					skipped++
					fmt.Fprintf(cmd.ErrOrStderr(), "skipping %s: not an image (%s)\n", f.Name, f.MIME)
				}
			}
			if skipped > 0 {
				fmt.Fprintf(cmd.ErrOrStderr(), "skipped %d non-image file(s)\n", skipped)
			}

			submitter := &service.Submitter{Client: client}
			out, err := submitter.Submit(ctx, officer, target, text, set.List())
			if err != nil {
				return err
			}

			if target == intake.NewCallSentinel {
				fmt.Fprintf(cmd.OutOrStdout(), "new call opened: %s\n", out.CallID)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "submitted to %s (%d image(s))\n", out.CallID, out.Images)
			if out.Message != "" {
				fmt.Fprintln(cmd.OutOrStdout(), out.Message)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&officer, "officer", "", "receiving officer id")
	cmd.Flags().StringVar(&call, "call", "new", `call id, unique fragment, or "new"`)
	cmd.Flags().StringVar(&text, "text", "", "update text")
	_ = cmd.MarkFlagRequired("officer")
	return cmd
}

// resolveTarget turns the --call value into a real call id, fetching the
// officer's calls only when the input is not the new-call sentinel.
func resolveTarget(cmd *cobra.Command, officer, call string) (string, error) {
	if id, err := service.ResolveCall(call, nil); err == nil && id == intake.NewCallSentinel {
		return id, nil
	}
	calls, err := client.Calls(cmd.Context(), officer)
	if err != nil {
		return "", err
	}
	known := make([]string, 0, len(calls))
	for _, c := range calls {
		known = append(known, c.ID)
	}
	return service.ResolveCall(call, known)
}
