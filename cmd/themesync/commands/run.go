package commands

import (
	"context"

	"github.com/walteh/themesync/cmd/themesync/opts"
	"github.com/walteh/themesync/pkg/operation"
	"github.com/walteh/themesync/pkg/taskqueue"
	"gitlab.com/tozd/go/errors"
)

// ErrIncomplete is returned when some files failed or were never attempted
var ErrIncomplete = errors.Base("run incomplete")

type runFunc func(ctx context.Context, op operation.Operator, paths []string) (taskqueue.Outcome, error)

// execute loads the environment, runs fn and prints the summary
func execute(ctx context.Context, o *opts.RootOpts, verb string, paths []string, fn runFunc) error {
	env, err := o.LoadEnvironment(ctx)
	if err != nil {
		return err
	}

	reporter, stop := o.Reporter(ctx, verb)
	defer stop()

	op, err := o.NewOperator(ctx, env, reporter)
	if err != nil {
		return err
	}
	defer op.Close()

	o.Logger.Header(verb, target(env.Store, string(env.ThemeID)))

	out, err := fn(ctx, op, paths)
	stop()
	if err != nil {
		return err
	}

	o.Logger.Summary(verb, out)
	if !out.OK() {
		return errors.Errorf("%w: %d failed, %d cancelled", ErrIncomplete, len(out.Failed), len(out.Cancelled))
	}
	return nil
}

func target(store, id string) string {
	if id == "" {
		return store
	}
	return store + " (" + id + ")"
}
