package operation

import (
	"context"

	"github.com/rs/zerolog"
	"github.com/walteh/themesync/pkg/taskqueue"
	"gitlab.com/tozd/go/errors"
)

// Unsync implements Operator.Unsync. Paths must name local files or
// directories; the matching remote keys are deleted.
func (o *operator) Unsync(ctx context.Context, paths []string) (taskqueue.Outcome, error) {
	if len(paths) == 0 {
		return taskqueue.Outcome{}, errors.Errorf("%w: must specify paths to unsync", ErrInvalidArgument)
	}

	zerolog.Ctx(ctx).Debug().Strs("paths", paths).Msg("unsyncing theme files")

	return o.run(ctx, taskqueue.KindDelete, paths)
}
