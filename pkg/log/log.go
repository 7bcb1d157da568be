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

package log

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/fatih/color"
	"github.com/rs/zerolog"
	"github.com/walteh/themesync/pkg/taskqueue"
)

// 🎨 Display configuration
const (
	fileIndent  = 4  // spaces to indent file entries
	nameWidth   = 45 // Base width for remote key
	kindWidth   = 8  // Width for task kind
	statusWidth = 15 // Width for status text
)

// 🎯 FileOperation is the end state of one file in a run
type FileOperation struct {
	Key      string         // Remote key
	Kind     taskqueue.Kind // Upload or delete
	Attempts int            // Attempts made
	Err      error          // nil on success
}

// Status is the short text shown next to the key
func (op FileOperation) Status() string {
	switch {
	case op.Err != nil && op.Attempts > 1:
		return fmt.Sprintf("failed after %d attempts", op.Attempts)
	case op.Err != nil:
		return "failed"
	case op.Kind == taskqueue.KindDelete:
		return "deleted"
	default:
		return "uploaded"
	}
}

// 🎯 Logger prints per-file results and run summaries for people, and mirrors
// them to zerolog
type Logger struct {
	zlog         zerolog.Logger
	console      io.Writer
	mu           sync.Mutex
	failuresOnly bool
	operations   []FileOperation
}

var _ taskqueue.ResultReporter = (*Logger)(nil)

// 🏭 New creates a new logger
func New(console io.Writer, zlog zerolog.Logger) *Logger {
	return &Logger{
		zlog:    zlog,
		console: console,
	}
}

// FailuresOnly hides successful files on the console, e.g. while a progress bar is drawn
func (l *Logger) FailuresOnly(v bool) *Logger {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.failuresOnly = v
	return l
}

// 🔑 contextKey is the type for context values
type contextKey struct{}

// 🎯 FromContext gets the logger from context, or a silent one
func FromContext(ctx context.Context) *Logger {
	logger, ok := ctx.Value(contextKey{}).(*Logger)
	if !ok {
		return New(io.Discard, zerolog.Nop())
	}
	return logger
}

// 🎯 NewContext adds the logger to context
func NewContext(ctx context.Context, l *Logger) context.Context {
	return context.WithValue(ctx, contextKey{}, l)
}

// 📝 formatFileOperation formats a file operation for display
func (l *Logger) formatFileOperation(op FileOperation) string {
	var symbol rune
	var symbolColor color.Attribute
	switch {
	case op.Err != nil:
		symbol = '!'
		symbolColor = color.FgRed
	case op.Kind == taskqueue.KindDelete:
		symbol = '✗'
		symbolColor = color.FgYellow
	default:
		symbol = '✓'
		symbolColor = color.FgGreen
	}

	kindColor := color.FgBlue
	if op.Kind == taskqueue.KindDelete {
		kindColor = color.FgMagenta
	}

	return fmt.Sprintf("%s%s %s %s %s",
		fmt.Sprintf("%*s", fileIndent, ""),
		color.New(symbolColor).Sprint(string(symbol)),
		fmt.Sprintf("%-*s", nameWidth, op.Key),
		color.New(kindColor).Sprint(fmt.Sprintf("%-*s", kindWidth, op.Kind)),
		fmt.Sprintf("%-*s", statusWidth, op.Status()))
}

// 📝 LogFileOperation logs a file operation
func (l *Logger) LogFileOperation(ctx context.Context, op FileOperation) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.operations = append(l.operations, op)

	if op.Err != nil || !l.failuresOnly {
		fmt.Fprintln(l.console, l.formatFileOperation(op))
	}

	ev := l.zlog.Info()
	if op.Err != nil {
		ev = l.zlog.Error().Err(op.Err)
	}
	ev.
		Str("key", op.Key).
		Str("kind", op.Kind.String()).
		Int("attempts", op.Attempts).
		Msg("file operation")
}

// ReportResult implements taskqueue.ResultReporter
func (l *Logger) ReportResult(task taskqueue.Task, err error) {
	l.LogFileOperation(context.Background(), FileOperation{
		Key:      task.Entry.RemoteKey,
		Kind:     task.Kind,
		Attempts: task.Attempt,
		Err:      err,
	})
}

// Operations returns the file operations logged so far
func (l *Logger) Operations() []FileOperation {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]FileOperation(nil), l.operations...)
}

// 📝 Header starts a run, e.g. Header("syncing", "example.myshopify.com")
func (l *Logger) Header(verb, target string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.operations = nil
	name := color.New(color.Bold, color.FgCyan).Sprint("themesync")
	fmt.Fprintf(l.console, "\n%s %s\n\n", name, color.New(color.Faint).Sprint("• "+verb+" "+target))
	l.zlog.Info().Str("target", target).Msg(verb)
}

// 📝 Summary prints how a run ended
func (l *Logger) Summary(verb string, out taskqueue.Outcome) {
	switch {
	case out.OK():
		l.Successf("%s complete: %d files", verb, out.Succeeded)
	default:
		l.Warningf("%s finished: %d succeeded, %d failed, %d cancelled", verb, out.Succeeded, len(out.Failed), len(out.Cancelled))
		for _, f := range out.Failed {
			l.Errorf("%s %s: %s", f.Kind, f.RemoteKey, f.Reason)
		}
	}
}

// 📝 LogNewline logs a newline
func (l *Logger) LogNewline() {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintln(l.console)
}

// 📝 Success logs a success message
func (l *Logger) Success(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.console, "✅ %s\n", color.New(color.FgGreen).Sprint(msg))
	l.zlog.Info().Msg(msg)
}

// 📝 Warning logs a warning message
func (l *Logger) Warning(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.console, "⚠️  %s\n", color.New(color.FgYellow).Sprint(msg))
	l.zlog.Warn().Msg(msg)
}

// 📝 Error logs an error message
func (l *Logger) Error(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.console, "❌ %s\n", color.New(color.FgRed).Sprint(msg))
	l.zlog.Error().Msg(msg)
}

// 📝 Info logs an info message
func (l *Logger) Info(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.console, "ℹ️  %s\n", color.New(color.FgCyan).Sprint(msg))
	l.zlog.Info().Msg(msg)
}

// 📝 Infof logs a formatted info message
func (l *Logger) Infof(format string, args ...interface{}) {
	l.Info(fmt.Sprintf(format, args...))
}

// 📝 Warningf logs a formatted warning message
func (l *Logger) Warningf(format string, args ...interface{}) {
	l.Warning(fmt.Sprintf(format, args...))
}

// 📝 Errorf logs a formatted error message
func (l *Logger) Errorf(format string, args ...interface{}) {
	l.Error(fmt.Sprintf(format, args...))
}

// 📝 Successf logs a formatted success message
func (l *Logger) Successf(format string, args ...interface{}) {
	l.Success(fmt.Sprintf(format, args...))
}
