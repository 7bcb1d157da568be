package commands

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/walteh/themesync/cmd/themesync/opts"
	"gitlab.com/tozd/go/errors"
)

// NewPlanCmd creates a command that lists what sync would upload
func NewPlanCmd(opts *opts.RootOpts) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "plan [paths...]",
		Short: "List the files sync would upload",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			env, err := opts.LoadEnvironment(ctx)
			if err != nil {
				return err
			}

			op, err := opts.NewOperator(ctx, env, nil)
			if err != nil {
				return err
			}
			defer op.Close()

			entries, err := op.Plan(ctx, args)
			if err != nil {
				return errors.Errorf("planning sync: %w", err)
			}

			for _, e := range entries {
				fmt.Fprintln(cmd.OutOrStdout(), e.RemoteKey)
			}
			opts.Logger.Infof("%d files would be synced to %s", len(entries), target(env.Store, string(env.ThemeID)))
			return nil
		},
	}

	return cmd
}
