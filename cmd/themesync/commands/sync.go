package commands

import (
	"context"

	"github.com/spf13/cobra"
	"github.com/walteh/themesync/cmd/themesync/opts"
	"github.com/walteh/themesync/pkg/operation"
	"github.com/walteh/themesync/pkg/taskqueue"
	"gitlab.com/tozd/go/errors"
)

// NewSyncCmd creates a new sync command
func NewSyncCmd(opts *opts.RootOpts) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sync [paths...]",
		Short: "Upload theme files to the remote store",
		Long: `Sync uploads local theme files to the configured store.
With no paths the whole theme directory is synced. Directories are expanded
recursively and ignored files are skipped.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			err := execute(cmd.Context(), opts, "syncing", args, func(ctx context.Context, op operation.Operator, paths []string) (taskqueue.Outcome, error) {
				return op.Sync(ctx, paths)
			})
			if err != nil {
				return errors.Errorf("syncing files: %w", err)
			}
			return nil
		},
	}

	return cmd
}
