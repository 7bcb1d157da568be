package commands

import (
	"context"

	"github.com/spf13/cobra"
	"github.com/walteh/themesync/cmd/themesync/opts"
	"github.com/walteh/themesync/pkg/operation"
	"github.com/walteh/themesync/pkg/taskqueue"
	"gitlab.com/tozd/go/errors"
)

// NewUnsyncCmd creates a new unsync command
func NewUnsyncCmd(opts *opts.RootOpts) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "unsync paths...",
		Short: "Remove theme files from the remote store",
		Long: `Unsync deletes the given files from the configured store.
Local files are left alone. At least one path is required.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return errors.Errorf("%w: must specify paths to unsync", operation.ErrInvalidArgument)
			}

			err := execute(cmd.Context(), opts, "unsyncing", args, func(ctx context.Context, op operation.Operator, paths []string) (taskqueue.Outcome, error) {
				return op.Unsync(ctx, paths)
			})
			if err != nil {
				return errors.Errorf("unsyncing files: %w", err)
			}
			return nil
		},
	}

	return cmd
}
