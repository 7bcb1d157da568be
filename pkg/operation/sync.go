package operation

import (
	"context"

	"github.com/rs/zerolog"
	"github.com/walteh/themesync/pkg/taskqueue"
)

// Sync implements Operator.Sync. Every resolved file is uploaded, unchanged or not.
func (o *operator) Sync(ctx context.Context, paths []string) (taskqueue.Outcome, error) {
	zerolog.Ctx(ctx).Debug().Strs("paths", paths).Msg("syncing theme files")

	return o.run(ctx, taskqueue.KindUpload, paths)
}
