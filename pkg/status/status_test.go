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
	"bytes"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/walteh/themesync/pkg/resolve"
	"github.com/walteh/themesync/pkg/taskqueue"
	"gitlab.com/tozd/go/errors"
)

func TestPercent(t *testing.T) {
	tests := []struct {
		done, total int
		want        int
	}{
		{done: 0, total: 10, want: 0},
		{done: 1, total: 3, want: 34},
		{done: 2, total: 3, want: 67},
		{done: 3, total: 3, want: 100},
		{done: 1, total: 200, want: 1},
		{done: 199, total: 200, want: 100},
		{done: 0, total: 0, want: 100},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, Percent(tt.done, tt.total), "%d of %d", tt.done, tt.total)
	}
}

func TestFormatProgress(t *testing.T) {
	assert.Equal(t, "syncing 3 of 10 files - 30%", FormatProgress("syncing", 10, 7))
	assert.Equal(t, "unsyncing 1 of 3 files - 34%", FormatProgress("unsyncing", 3, 2))
	assert.Equal(t, "syncing 4 of 4 files - 100%", FormatProgress("syncing", 4, 0))
}

func TestLineReporter(t *testing.T) {
	color.NoColor = true
	defer func() { color.NoColor = false }()

	var buf bytes.Buffer
	r := NewLineReporter(&buf, "syncing")
	for remaining := 2; remaining >= 0; remaining-- {
		require.NoError(t, r.ReportProgress(3, remaining))
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	assert.Equal(t, []string{
		"syncing 1 of 3 files - 34%",
		"syncing 2 of 3 files - 67%",
		"syncing 3 of 3 files - 100%",
	}, lines)
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("closed pipe") }

func TestLineReporterWriteError(t *testing.T) {
	err := NewLineReporter(failingWriter{}, "syncing").ReportProgress(1, 0)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "closed pipe")
}

type recordingResults struct {
	keys []string
	errs []error
}

func (r *recordingResults) ReportResult(task taskqueue.Task, err error) {
	r.keys = append(r.keys, task.Entry.RemoteKey)
	r.errs = append(r.errs, err)
}

type progressWithResults struct {
	recordingResults
	calls [][2]int
}

func (p *progressWithResults) ReportProgress(total, remaining int) error {
	p.calls = append(p.calls, [2]int{total, remaining})
	return nil
}

func TestCombine(t *testing.T) {
	progress := &progressWithResults{}
	extra := &recordingResults{}
	r := Combine(progress, extra, nil)

	task := taskqueue.Task{Kind: taskqueue.KindUpload, Entry: resolve.FileEntry{RemoteKey: "assets/a.css"}}
	boom := errors.New("boom")

	rr, ok := r.(taskqueue.ResultReporter)
	require.True(t, ok, "combined reporter should accept results")
	rr.ReportResult(task, boom)
	require.NoError(t, r.ReportProgress(1, 0))

	assert.Equal(t, []string{"assets/a.css"}, progress.keys, "progress reporter that takes results should get them")
	assert.Equal(t, []string{"assets/a.css"}, extra.keys)
	assert.Equal(t, []error{boom}, extra.errs)
	assert.Equal(t, [][2]int{{1, 0}}, progress.calls)

	assert.NoError(t, Combine(nil, extra).ReportProgress(5, 4), "nil progress reporter is allowed")
}

func TestLogReporter(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf).Level(zerolog.DebugLevel)
	r := NewLogReporter(logger, "syncing")

	require.NoError(t, r.ReportProgress(2, 1))
	require.NoError(t, r.ReportProgress(2, 0))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], `"level":"debug"`)
	assert.Contains(t, lines[0], `"percent":50`)
	assert.Contains(t, lines[1], `"level":"info"`)
	assert.Contains(t, lines[1], `"done":2`)
	assert.Contains(t, lines[1], `"message":"syncing"`)
}

func TestBarReporter(t *testing.T) {
	var buf bytes.Buffer
	r := NewBarReporter(&buf, "syncing")

	require.NoError(t, r.ReportProgress(3, 2))
	require.NotNil(t, r.bar)
	assert.Equal(t, 1, r.bar.Current)

	require.NoError(t, r.ReportProgress(3, 1))
	assert.Equal(t, 2, r.bar.Current)

	require.NoError(t, r.ReportProgress(3, 0))
	assert.Nil(t, r.bar, "bar should stop once nothing remains")

	require.NoError(t, r.ReportProgress(2, 1), "a second run starts a fresh bar")
	require.NotNil(t, r.bar)
	require.NoError(t, r.Stop())
	assert.Nil(t, r.bar)
	assert.NoError(t, r.Stop(), "stop without a bar is a no-op")
}
