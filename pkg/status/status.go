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

package status

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/walteh/themesync/pkg/taskqueue"
	"gitlab.com/tozd/go/errors"
)

// 📝 LineReporter prints one progress line per finished file
type LineReporter struct {
	w    io.Writer
	verb string
}

var _ taskqueue.ProgressReporter = (*LineReporter)(nil)

// 🏭 NewLineReporter creates a line reporter, verb is usually "syncing" or "unsyncing"
func NewLineReporter(w io.Writer, verb string) *LineReporter {
	return &LineReporter{w: w, verb: verb}
}

func (r *LineReporter) ReportProgress(total, remaining int) error {
	line := FormatProgress(r.verb, total, remaining)
	if remaining == 0 {
		line = color.GreenString(line)
	}
	if _, err := fmt.Fprintln(r.w, line); err != nil {
		return errors.Errorf("writing progress: %w", err)
	}
	return nil
}

// combined forwards progress to one reporter and results to many
type combined struct {
	progress taskqueue.ProgressReporter
	results  []taskqueue.ResultReporter
}

// 🔗 Combine returns a reporter that sends progress to progress (may be nil)
// and every task result to results
func Combine(progress taskqueue.ProgressReporter, results ...taskqueue.ResultReporter) taskqueue.ProgressReporter {
	c := &combined{progress: progress}
	if rr, ok := progress.(taskqueue.ResultReporter); ok {
		c.results = append(c.results, rr)
	}
	for _, r := range results {
		if r != nil {
			c.results = append(c.results, r)
		}
	}
	return c
}

func (c *combined) ReportResult(task taskqueue.Task, err error) {
	for _, r := range c.results {
		r.ReportResult(task, err)
	}
}

func (c *combined) ReportProgress(total, remaining int) error {
	if c.progress == nil {
		return nil
	}
	return c.progress.ReportProgress(total, remaining)
}
