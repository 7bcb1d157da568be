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

import (
	"github.com/walteh/themesync/pkg/resolve"
)

// Kind is the remote operation a task performs
type Kind int

const (
	KindUpload Kind = iota
	KindDelete
)

func (k Kind) String() string {
	switch k {
	case KindUpload:
		return "upload"
	case KindDelete:
		return "delete"
	default:
		return "unknown"
	}
}

// 📦 Task is one remote operation for one file
type Task struct {
	Kind        Kind
	Entry       resolve.FileEntry
	Attempt     int // 1-based, incremented on each retry
	MaxAttempts int // 0 means the queue default
}

// NewTasks builds one task of kind per entry, preserving order
func NewTasks(kind Kind, entries []resolve.FileEntry, maxAttempts int) []Task {
	tasks := make([]Task, 0, len(entries))
	for _, e := range entries {
		tasks = append(tasks, Task{
			Kind:        kind,
			Entry:       e,
			Attempt:     1,
			MaxAttempts: maxAttempts,
		})
	}
	return tasks
}

// ❌ Failure records a task that ended without success
type Failure struct {
	RemoteKey string
	Kind      Kind
	Reason    string
	Attempts  int
	Err       error
}

// 📊 Outcome summarizes a run
type Outcome struct {
	Succeeded int
	Failed    []Failure
	// Cancelled lists remote keys never dispatched because the run was cancelled
	Cancelled []string
}

// Total is the number of tasks the run was given
func (o Outcome) Total() int {
	return o.Succeeded + len(o.Failed) + len(o.Cancelled)
}

// OK reports whether every task succeeded
func (o Outcome) OK() bool {
	return len(o.Failed) == 0 && len(o.Cancelled) == 0
}
