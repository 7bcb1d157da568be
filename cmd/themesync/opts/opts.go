package opts

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/walteh/themesync/pkg/config"
	"github.com/walteh/themesync/pkg/log"
	"github.com/walteh/themesync/pkg/operation"
	"github.com/walteh/themesync/pkg/status"
	"github.com/walteh/themesync/pkg/taskqueue"
	"gitlab.com/tozd/go/errors"
)

// RootOpts contains shared options used by all commands
type RootOpts struct {
	ConfigFile  string
	Theme       string
	Debug       bool
	Concurrency int
	Root        string
	NoProgress  bool

	Console io.Writer
	Logger  *log.Logger

	// Build overrides how the operator is created, tests swap in a fake remote
	Build func(ctx context.Context, o operation.Options) (operation.Operator, error)
}

// LoadEnvironment reads the selected theme from the config file
func (o *RootOpts) LoadEnvironment(ctx context.Context) (*config.Environment, error) {
	env, err := config.Load(ctx, o.ConfigFile, o.Theme)
	if err != nil {
		return nil, errors.Errorf("loading config: %w", err)
	}
	return env, nil
}

// ThemeRoot picks the local theme directory: the flag, then the config value
// (relative to the config file), then the working directory
func (o *RootOpts) ThemeRoot(env *config.Environment) string {
	switch {
	case o.Root != "":
		return o.Root
	case env.Root == "":
		return "."
	case filepath.IsAbs(env.Root):
		return env.Root
	default:
		return filepath.Join(filepath.Dir(o.ConfigFile), env.Root)
	}
}

// Reporter builds the progress output for a run; the returned stop func ends
// any bar still drawn after an interrupted run. With --debug progress goes to
// the context logger as structured events so it does not interleave with a bar.
func (o *RootOpts) Reporter(ctx context.Context, verb string) (taskqueue.ProgressReporter, func()) {
	switch {
	case o.Debug:
		return status.Combine(status.NewLogReporter(*zerolog.Ctx(ctx), verb), o.Logger.FailuresOnly(false)), func() {}
	case o.NoProgress || !isTerminal(o.Console):
		return status.Combine(status.NewLineReporter(o.Console, verb), o.Logger.FailuresOnly(false)), func() {}
	}

	bar := status.NewBarReporter(o.Console, verb)
	return status.Combine(bar, o.Logger.FailuresOnly(true)), func() { _ = bar.Stop() }
}

// OperatorOptions maps the environment onto engine options
func (o *RootOpts) OperatorOptions(env *config.Environment, reporter taskqueue.ProgressReporter) operation.Options {
	concurrency := env.Concurrency
	if o.Concurrency > 0 {
		concurrency = o.Concurrency
	}

	return operation.Options{
		Root: o.ThemeRoot(env),
		Config: operation.Config{
			AuthToken:       env.Password,
			StoreIdentifier: env.Store,
			ResourceID:      string(env.ThemeID),
			IgnorePatterns:  env.IgnoreFiles,
			Backend:         env.Backend,
			BackendOptions:  env.Options,
		},
		Queue: taskqueue.Options{
			Concurrency:    concurrency,
			MaxAttempts:    env.MaxAttempts,
			AttemptTimeout: env.Timeout.Std(),
		},
		Reporter:             reporter,
		SkipRepositoryIgnore: !env.UseRepositoryIgnore(),
	}
}

// NewOperator creates the sync engine for env
func (o *RootOpts) NewOperator(ctx context.Context, env *config.Environment, reporter taskqueue.ProgressReporter) (operation.Operator, error) {
	build := o.Build
	if build == nil {
		build = operation.New
	}
	op, err := build(ctx, o.OperatorOptions(env, reporter))
	if err != nil {
		return nil, errors.Errorf("creating operator: %w", err)
	}
	return op, nil
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
