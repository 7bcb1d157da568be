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
	"io"

	"github.com/pterm/pterm"
	"gitlab.com/tozd/go/errors"
)

// 📊 BarReporter draws a pterm progress bar. A bar starts on the first report
// of a run and stops once nothing remains.
type BarReporter struct {
	w    io.Writer
	verb string
	bar  *pterm.ProgressbarPrinter
}

// 🏭 NewBarReporter creates a bar reporter writing to w
func NewBarReporter(w io.Writer, verb string) *BarReporter {
	return &BarReporter{w: w, verb: verb}
}

func (r *BarReporter) ReportProgress(total, remaining int) error {
	if r.bar == nil || r.bar.Total != total {
		if err := r.Stop(); err != nil {
			return err
		}
		bar, err := pterm.DefaultProgressbar.
			WithTotal(total).
			WithWriter(r.w).
			WithShowCount(false).
			Start(FormatProgress(r.verb, total, total))
		if err != nil {
			return errors.Errorf("starting progress bar: %w", err)
		}
		r.bar = bar
	}

	r.bar.UpdateTitle(FormatProgress(r.verb, total, remaining))
	r.bar.Add(total - remaining - r.bar.Current)

	if remaining == 0 {
		return r.Stop()
	}
	return nil
}

// Stop ends the current bar, e.g. after an interrupted run
func (r *BarReporter) Stop() error {
	if r.bar == nil {
		return nil
	}
	bar := r.bar
	r.bar = nil
	if !bar.IsActive {
		return nil
	}
	if _, err := bar.Stop(); err != nil {
		return errors.Errorf("stopping progress bar: %w", err)
	}
	return nil
}
