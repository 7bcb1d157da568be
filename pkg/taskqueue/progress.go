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

package taskqueue

// ProgressReporter receives one call per terminal task. Calls are serialized
// and remaining strictly decreases within a run.
type ProgressReporter interface {
	ReportProgress(total, remaining int) error
}

// ResultReporter is an optional extension of ProgressReporter that is told
// how each task ended; err is nil on success.
type ResultReporter interface {
	ReportResult(task Task, err error)
}

// ProgressFunc adapts a plain function to ProgressReporter
type ProgressFunc func(total, remaining int) error

func (f ProgressFunc) ReportProgress(total, remaining int) error {
	return f(total, remaining)
}
