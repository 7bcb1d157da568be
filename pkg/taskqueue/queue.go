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

// Package taskqueue runs remote upload and delete tasks on a bounded worker
// pool with retry on transient failure and serialized progress reporting.
package taskqueue

import (
	"context"
	"os"
	"sort"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/rs/zerolog"
	"github.com/walteh/themesync/pkg/remote"
	"github.com/walteh/themesync/pkg/resolve"
	"gitlab.com/tozd/go/errors"
	"golang.org/x/sync/errgroup"
)

const (
	DefaultConcurrency = 10
	DefaultMaxAttempts = 3
	DefaultBaseDelay   = 500 * time.Millisecond
	DefaultMaxDelay    = 10 * time.Second
)

// ContentReader loads the bytes to upload for an entry
type ContentReader func(entry resolve.FileEntry) ([]byte, error)

// 🔧 Options configures a Queue. Zero values take the defaults above.
type Options struct {
	Concurrency    int
	MaxAttempts    int
	BaseDelay      time.Duration
	MaxDelay       time.Duration
	AttemptTimeout time.Duration // 0 means no per-attempt deadline
	// Sleep waits between attempts and returns early with ctx.Err() on cancellation
	Sleep func(ctx context.Context, d time.Duration) error
	// Read loads upload content when the task executes; defaults to os.ReadFile(LocalPath)
	Read ContentReader
}

// 🚦 Queue dispatches tasks against one remote client
type Queue struct {
	client remote.Client
	opts   Options
	serial *sync.Mutex
}

// 🏭 New creates a queue over client
func New(client remote.Client, opts Options) (*Queue, error) {
	if client == nil {
		return nil, errors.Errorf("remote client is required")
	}
	if opts.Concurrency < 0 || opts.MaxAttempts < 0 || opts.BaseDelay < 0 || opts.MaxDelay < 0 || opts.AttemptTimeout < 0 {
		return nil, errors.Errorf("%w: queue options must not be negative", resolve.ErrInvalidArgument)
	}

	if opts.Concurrency == 0 {
		opts.Concurrency = DefaultConcurrency
	}
	if opts.MaxAttempts == 0 {
		opts.MaxAttempts = DefaultMaxAttempts
	}
	if opts.BaseDelay == 0 {
		opts.BaseDelay = DefaultBaseDelay
	}
	if opts.MaxDelay == 0 {
		opts.MaxDelay = DefaultMaxDelay
	}
	if opts.Sleep == nil {
		opts.Sleep = sleep
	}
	if opts.Read == nil {
		opts.Read = func(entry resolve.FileEntry) ([]byte, error) {
			return os.ReadFile(entry.LocalPath)
		}
	}

	q := &Queue{client: client, opts: opts}
	if remote.IsSequential(client) {
		q.serial = &sync.Mutex{}
	}
	return q, nil
}

// Options returns the effective options after defaults were applied
func (q *Queue) Options() Options {
	return q.opts
}

// 🏃 Run executes tasks and returns once every dispatched task is terminal.
// After ctx is done no new task is dispatched; in-flight attempts finish.
func (q *Queue) Run(ctx context.Context, tasks []Task, reporter ProgressReporter) Outcome {
	logger := zerolog.Ctx(ctx)

	st := &runState{
		tasks:    tasks,
		total:    len(tasks),
		reporter: reporter,
		logger:   logger,
	}
	if len(tasks) == 0 {
		return st.outcome()
	}

	workers := min(q.opts.Concurrency, len(tasks))
	logger.Debug().Int("tasks", len(tasks)).Int("workers", workers).Msg("starting task queue")

	var g errgroup.Group
	for range workers {
		g.Go(func() error {
			for {
				task, ok := st.next(ctx)
				if !ok {
					return nil
				}
				attempts, err := q.execute(ctx, task)
				st.finish(task, attempts, err)
			}
		})
	}
	_ = g.Wait()

	out := st.outcome()
	logger.Debug().
		Int("succeeded", out.Succeeded).
		Int("failed", len(out.Failed)).
		Int("cancelled", len(out.Cancelled)).
		Msg("task queue finished")
	return out
}

// execute drives one task through its attempts and returns how many were made
func (q *Queue) execute(ctx context.Context, t Task) (int, error) {
	logger := zerolog.Ctx(ctx)

	if t.Attempt < 1 {
		t.Attempt = 1
	}
	maxAttempts := t.MaxAttempts
	if maxAttempts <= 0 {
		maxAttempts = q.opts.MaxAttempts
	}

	var content []byte
	if t.Kind == KindUpload {
		c, err := q.opts.Read(t.Entry)
		if err != nil {
			return t.Attempt, remote.Fatal(errors.Errorf("reading %s: %w", t.Entry.LocalPath, err))
		}
		content = c
	}

	policy := q.retryPolicy(t.Attempt, maxAttempts)
	for {
		err := q.attempt(ctx, t, content)
		if err == nil {
			return t.Attempt, nil
		}
		if !remote.IsTransient(err) {
			return t.Attempt, err
		}

		delay := policy.NextBackOff()
		if delay == backoff.Stop {
			return t.Attempt, err
		}
		logger.Debug().
			Err(err).
			Str("key", t.Entry.RemoteKey).
			Int("attempt", t.Attempt).
			Dur("delay", delay).
			Msg("retrying transient failure")

		if serr := q.opts.Sleep(ctx, delay); serr != nil {
			// cancelled while backing off, the last remote error stands
			return t.Attempt, err
		}
		t.Attempt++
	}
}

func (q *Queue) attempt(ctx context.Context, t Task, content []byte) error {
	actx := context.WithoutCancel(ctx)
	if q.opts.AttemptTimeout > 0 {
		var cancel context.CancelFunc
		actx, cancel = context.WithTimeout(actx, q.opts.AttemptTimeout)
		defer cancel()
	}

	if q.serial != nil {
		q.serial.Lock()
		defer q.serial.Unlock()
	}

	switch t.Kind {
	case KindUpload:
		if err := q.client.Put(actx, t.Entry.RemoteKey, content); err != nil {
			return errors.Errorf("uploading %s: %w", t.Entry.RemoteKey, err)
		}
	case KindDelete:
		if err := q.client.Delete(actx, t.Entry.RemoteKey); err != nil {
			return errors.Errorf("deleting %s: %w", t.Entry.RemoteKey, err)
		}
	default:
		return remote.Fatal(errors.Errorf("unknown task kind %d", t.Kind))
	}
	return nil
}

// retryPolicy yields the delays after attempt, attempt+1 and so on up to
// maxAttempts: BaseDelay doubling per attempt, capped at MaxDelay, no jitter
func (q *Queue) retryPolicy(attempt, maxAttempts int) backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = q.opts.BaseDelay
	b.Multiplier = 2
	b.RandomizationFactor = 0
	b.MaxInterval = q.opts.MaxDelay
	b.MaxElapsedTime = 0
	b.Reset()

	for i := 1; i < attempt; i++ {
		b.NextBackOff()
	}
	return backoff.WithMaxRetries(b, uint64(max(maxAttempts-attempt, 0)))
}

func sleep(ctx context.Context, d time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// runState is owned by one Run; mu guards every field and the reporter calls
type runState struct {
	mu        sync.Mutex
	tasks     []Task
	cursor    int
	total     int
	completed int
	succeeded int
	failed    []Failure
	reporter  ProgressReporter
	logger    *zerolog.Logger
}

func (s *runState) next(ctx context.Context) (Task, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if ctx.Err() != nil || s.cursor >= len(s.tasks) {
		return Task{}, false
	}
	t := s.tasks[s.cursor]
	s.cursor++
	return t, true
}

func (s *runState) finish(t Task, attempts int, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.completed++
	t.Attempt = attempts
	if err != nil {
		s.failed = append(s.failed, Failure{
			RemoteKey: t.Entry.RemoteKey,
			Kind:      t.Kind,
			Reason:    err.Error(),
			Attempts:  attempts,
			Err:       err,
		})
	} else {
		s.succeeded++
	}

	s.report(t, err)
}

// report must be called with mu held. Each reporter call recovers on its own
// so a panicking result hook never swallows the progress update.
func (s *runState) report(t Task, taskErr error) {
	if s.reporter == nil {
		return
	}

	if rr, ok := s.reporter.(ResultReporter); ok {
		s.guard(t, "result reporter", func() error {
			rr.ReportResult(t, taskErr)
			return nil
		})
	}

	s.guard(t, "progress reporter", func() error {
		return s.reporter.ReportProgress(s.total, s.total-s.completed)
	})
}

func (s *runState) guard(t Task, name string, fn func() error) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error().Interface("panic", r).Str("key", t.Entry.RemoteKey).Msg(name + " panicked")
		}
	}()

	if err := fn(); err != nil {
		s.logger.Warn().Err(err).Msg(name + " failed")
	}
}

func (s *runState) outcome() Outcome {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := Outcome{
		Succeeded: s.succeeded,
		Failed:    append([]Failure(nil), s.failed...),
	}
	sort.SliceStable(out.Failed, func(i, j int) bool { return out.Failed[i].RemoteKey < out.Failed[j].RemoteKey })

	for _, t := range s.tasks[s.cursor:] {
		out.Cancelled = append(out.Cancelled, t.Entry.RemoteKey)
	}
	return out
}
