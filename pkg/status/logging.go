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
	"github.com/rs/zerolog"
)

// 📝 LogReporter writes progress as structured log events
type LogReporter struct {
	logger zerolog.Logger
	verb   string
}

// 🏭 NewLogReporter creates a log reporter
func NewLogReporter(logger zerolog.Logger, verb string) *LogReporter {
	return &LogReporter{logger: logger, verb: verb}
}

func (r *LogReporter) ReportProgress(total, remaining int) error {
	done := total - remaining
	ev := r.logger.Debug()
	if remaining == 0 {
		ev = r.logger.Info()
	}
	ev.
		Int("done", done).
		Int("total", total).
		Int("percent", Percent(done, total)).
		Msg(r.verb)
	return nil
}
