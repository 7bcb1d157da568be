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
)

// Percent returns done/total as a percentage rounded up. An empty run is complete.
func Percent(done, total int) int {
	if total <= 0 {
		return 100
	}
	if done <= 0 {
		return 0
	}
	if done >= total {
		return 100
	}
	return (done*100 + total - 1) / total
}

// 🎯 FormatProgress renders a progress line, e.g. "syncing 3 of 10 files - 30%"
func FormatProgress(verb string, total, remaining int) string {
	done := total - remaining
	return fmt.Sprintf("%s %d of %d files - %d%%", verb, done, total, Percent(done, total))
}
