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

package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/fatih/color"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/walteh/themesync/pkg/operation"
	"gitlab.com/tozd/go/errors"
)

type fixture struct {
	config string
	theme  string
	store  string
}

func newFixture(t *testing.T, files map[string]string) fixture {
	t.Helper()
	base := t.TempDir()
	f := fixture{
		config: filepath.Join(base, "config.yml"),
		theme:  filepath.Join(base, "theme"),
		store:  filepath.Join(base, "store"),
	}

	for name, content := range files {
		p := filepath.Join(f.theme, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	}
	require.NoError(t, os.MkdirAll(f.theme, 0o755))

	cfg := "development:\n  backend: dir\n  store: " + f.store + "\n  theme_id: \"1\"\n  root: theme\n  ignore_files:\n    - \"*.md\"\n"
	require.NoError(t, os.WriteFile(f.config, []byte(cfg), 0o644))
	return f
}

func (f fixture) stored(t *testing.T, key string) (string, bool) {
	t.Helper()
	b, err := os.ReadFile(filepath.Join(f.store, "1", filepath.FromSlash(key)))
	if os.IsNotExist(err) {
		return "", false
	}
	require.NoError(t, err)
	return string(b), true
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	color.NoColor = true
	t.Cleanup(func() { color.NoColor = false })

	var out bytes.Buffer
	cmd := NewRootCmd(&out)
	cmd.SetOut(&out)
	cmd.SetArgs(args)

	ctx := zerolog.New(zerolog.NewTestWriter(t)).WithContext(context.Background())
	err := cmd.ExecuteContext(ctx)
	return out.String(), err
}

func TestSyncCommand(t *testing.T) {
	f := newFixture(t, map[string]string{
		"layout/theme.liquid": "<html>",
		"assets/app.css":      "body{}",
		"README.md":           "ignored by config",
		"assets/scripts/x.js": "ignored by default",
	})

	out, err := run(t, "sync", "-c", f.config, "--no-progress")
	require.NoError(t, err)

	got, ok := f.stored(t, "layout/theme.liquid")
	require.True(t, ok, "theme.liquid should be synced")
	assert.Equal(t, "<html>", got)
	_, ok = f.stored(t, "assets/app.css")
	assert.True(t, ok)
	_, ok = f.stored(t, "README.md")
	assert.False(t, ok, "config ignore pattern should apply")
	_, ok = f.stored(t, "assets/scripts/x.js")
	assert.False(t, ok, "default ignore pattern should apply")

	assert.Contains(t, out, "syncing 1 of 2 files - 50%")
	assert.Contains(t, out, "syncing 2 of 2 files - 100%")
	assert.Contains(t, out, "✓ assets/app.css")
	assert.Contains(t, out, "syncing complete: 2 files")
}

func TestSyncCommandPaths(t *testing.T) {
	f := newFixture(t, map[string]string{
		"layout/theme.liquid": "<html>",
		"assets/app.css":      "body{}",
	})

	_, err := run(t, "sync", "-c", f.config, "--no-progress", "assets")
	require.NoError(t, err)

	_, ok := f.stored(t, "assets/app.css")
	assert.True(t, ok)
	_, ok = f.stored(t, "layout/theme.liquid")
	assert.False(t, ok, "only the requested directory is synced")

	_, err = run(t, "sync", "-c", f.config, "--no-progress", "missing.liquid")
	require.Error(t, err)
	assert.True(t, errors.Is(err, operation.ErrNotFound))
}

func TestUnsyncCommand(t *testing.T) {
	f := newFixture(t, map[string]string{
		"assets/app.css": "body{}",
		"assets/old.css": "old",
	})

	_, err := run(t, "sync", "-c", f.config, "--no-progress")
	require.NoError(t, err)

	out, err := run(t, "unsync", "-c", f.config, "--no-progress", "assets/old.css")
	require.NoError(t, err)
	assert.Contains(t, out, "unsyncing 1 of 1 files - 100%")

	_, ok := f.stored(t, "assets/old.css")
	assert.False(t, ok)
	_, ok = f.stored(t, "assets/app.css")
	assert.True(t, ok, "other files stay")
}

func TestUnsyncCommandRequiresPaths(t *testing.T) {
	f := newFixture(t, nil)

	_, err := run(t, "unsync", "-c", f.config)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "must specify paths to unsync")
	assert.True(t, errors.Is(err, operation.ErrInvalidArgument))
}

func TestUnknownTheme(t *testing.T) {
	f := newFixture(t, nil)

	_, err := run(t, "sync", "-c", f.config, "-t", "staging")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "staging theme configuration does not exist")
}

func TestPlanCommand(t *testing.T) {
	f := newFixture(t, map[string]string{
		"b.liquid":  "b",
		"a.liquid":  "a",
		"notes.md":  "ignored",
		".DS_Store": "ignored",
	})

	out, err := run(t, "plan", "-c", f.config)
	require.NoError(t, err)
	assert.Contains(t, out, "a.liquid\nb.liquid\n")
	assert.NotContains(t, out, "notes.md")
	assert.Contains(t, out, "2 files would be synced")

	_, ok := f.stored(t, "a.liquid")
	assert.False(t, ok, "plan never writes")
}

func TestRootFlagOverridesConfig(t *testing.T) {
	f := newFixture(t, nil)
	other := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(other, "x.liquid"), []byte("x"), 0o644))

	_, err := run(t, "sync", "-c", f.config, "--no-progress", "--root", other)
	require.NoError(t, err)
	_, ok := f.stored(t, "x.liquid")
	assert.True(t, ok)
}

func TestVersionCommand(t *testing.T) {
	out, err := run(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "themesync version info")

	out, err = run(t, "version", "--json")
	require.NoError(t, err)
	var info VersionInfo
	require.NoError(t, json.Unmarshal([]byte(out), &info))
	assert.NotEmpty(t, info.GoVersion)
}
