// Copyright 2025 walteh LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package operation

import (
	"context"
	"path/filepath"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/osfs"
	"github.com/rs/zerolog"
	"github.com/walteh/themesync/pkg/ignore"
	"github.com/walteh/themesync/pkg/provider"
	"github.com/walteh/themesync/pkg/remote"
	"github.com/walteh/themesync/pkg/resolve"
	"github.com/walteh/themesync/pkg/taskqueue"
	"gitlab.com/tozd/go/errors"
)

var (
	// ErrInvalidArgument marks caller misuse, e.g. unsync without paths
	ErrInvalidArgument = resolve.ErrInvalidArgument
	// ErrNotFound marks a requested path missing under the theme root
	ErrNotFound = resolve.ErrNotFound
)

// 🎯 Operator defines the main interface for theme sync operations
type Operator interface {
	// Sync uploads the requested paths (everything when empty)
	Sync(ctx context.Context, paths []string) (taskqueue.Outcome, error)
	// Unsync deletes the requested paths from the remote; paths must not be empty
	Unsync(ctx context.Context, paths []string) (taskqueue.Outcome, error)
	// Plan resolves paths without touching the remote
	Plan(ctx context.Context, paths []string) ([]resolve.FileEntry, error)
	// Close releases the remote client
	Close() error
}

// 🔧 Config is the remote target of one theme environment
type Config struct {
	AuthToken       string
	StoreIdentifier string
	ResourceID      string
	IgnorePatterns  []string
	// Backend names the registered provider, empty means provider.DefaultBackend
	Backend        string
	BackendOptions map[string]string
}

// 🔧 Options contains configuration for the operator
type Options struct {
	Config Config
	// Root is the local theme directory, default "."
	Root string
	// Filesystem overrides the filesystem rooted at Root
	Filesystem billy.Filesystem
	// Client overrides the backend built from Config
	Client remote.Client
	// Queue tunes concurrency and retries shared by Sync and Unsync
	Queue taskqueue.Options
	// Reporter receives progress for every run
	Reporter taskqueue.ProgressReporter
	// DefaultIgnores replaces ignore.DefaultPatterns when non-nil
	DefaultIgnores []string
	// SkipRepositoryIgnore disables reading .gitignore files under Root
	SkipRepositoryIgnore bool
	// ContentHash fills FileEntry.ContentHash during resolution
	ContentHash bool
}

// 🎮 operator implements the Operator interface
type operator struct {
	resolver *resolve.Resolver
	queue    *taskqueue.Queue
	client   remote.Client
	reporter taskqueue.ProgressReporter
}

// 🏭 New creates a new operator with the given options
func New(ctx context.Context, opts Options) (Operator, error) {
	logger := zerolog.Ctx(ctx)

	root := opts.Root
	if root == "" {
		root = "."
	}
	root, err := filepath.Abs(root)
	if err != nil {
		return nil, errors.Errorf("resolving root %s: %w", opts.Root, err)
	}

	fs := opts.Filesystem
	if fs == nil {
		fs = osfs.New(root)
	}

	matcher, err := buildMatcher(opts, fs)
	if err != nil {
		return nil, err
	}

	var resolveOpts []resolve.Option
	if opts.ContentHash {
		resolveOpts = append(resolveOpts, resolve.WithContentHash())
	}
	resolver := resolve.New(fs, root, matcher, resolveOpts...)

	client := opts.Client
	if client == nil {
		client, err = provider.New(ctx, opts.Config.Backend, provider.Args{
			AuthToken:       opts.Config.AuthToken,
			StoreIdentifier: opts.Config.StoreIdentifier,
			ResourceID:      opts.Config.ResourceID,
			Options:         opts.Config.BackendOptions,
		})
		if err != nil {
			return nil, errors.Errorf("creating remote client: %w", err)
		}
	}

	queueOpts := opts.Queue
	if queueOpts.Read == nil {
		queueOpts.Read = func(entry resolve.FileEntry) ([]byte, error) {
			return resolver.ReadFile(entry.RemoteKey)
		}
	}

	queue, err := taskqueue.New(client, queueOpts)
	if err != nil {
		return nil, errors.Errorf("creating task queue: %w", err)
	}

	logger.Debug().
		Str("root", root).
		Int("ignore_rules", len(matcher.Rules())).
		Int("concurrency", queue.Options().Concurrency).
		Msg("sync engine ready")

	return &operator{
		resolver: resolver,
		queue:    queue,
		client:   client,
		reporter: opts.Reporter,
	}, nil
}

func buildMatcher(opts Options, fs billy.Filesystem) (*ignore.Matcher, error) {
	defaults := opts.DefaultIgnores
	if defaults == nil {
		defaults = ignore.DefaultPatterns
	}

	b := ignore.NewBuilder().
		Defaults(defaults...).
		Config(opts.Config.IgnorePatterns...)
	if !opts.SkipRepositoryIgnore {
		b = b.RepositoryFiles(fs)
	}

	m, err := b.Build()
	if err != nil {
		return nil, errors.Errorf("building ignore rules: %w", err)
	}
	return m, nil
}

// Close implements Operator.Close
func (o *operator) Close() error {
	return provider.Close(o.client)
}

// Plan implements Operator.Plan
func (o *operator) Plan(ctx context.Context, paths []string) ([]resolve.FileEntry, error) {
	entries, err := o.resolver.Resolve(ctx, paths)
	if err != nil {
		return nil, errors.Errorf("resolving paths: %w", err)
	}
	return entries, nil
}

func (o *operator) run(ctx context.Context, kind taskqueue.Kind, paths []string) (taskqueue.Outcome, error) {
	logger := zerolog.Ctx(ctx)

	entries, err := o.Plan(ctx, paths)
	if err != nil {
		return taskqueue.Outcome{}, err
	}

	tasks := taskqueue.NewTasks(kind, entries, 0)
	logger.Debug().Str("kind", kind.String()).Int("tasks", len(tasks)).Msg("dispatching")

	out := o.queue.Run(ctx, tasks, o.reporter)

	if len(out.Failed) > 0 {
		logger.Warn().Int("failed", len(out.Failed)).Int("succeeded", out.Succeeded).Msgf("%s finished with failures", kind)
	}
	return out, nil
}
