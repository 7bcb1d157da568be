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

package ignore

import (
	"sync"
	"testing"

	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-billy/v5/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompile(t *testing.T) {
	tests := []struct {
		name     string
		patterns []string
		ignored  []string
		kept     []string
	}{
		{
			name:     "double_star_directory",
			patterns: []string{"ignored/**"},
			ignored:  []string{"ignored/x.txt", "ignored/deep/y.txt"},
			kept:     []string{"a.txt", "b.txt", "notignored/x.txt"},
		},
		{
			name:     "base_name_at_any_depth",
			patterns: []string{"*.log"},
			ignored:  []string{"debug.log", "logs/deep/app.log"},
			kept:     []string{"debug.log.txt", "log"},
		},
		{
			name:     "anchored_pattern",
			patterns: []string{"/config.json"},
			ignored:  []string{"config.json"},
			kept:     []string{"nested/config.json"},
		},
		{
			name:     "directory_match_ignores_descendants",
			patterns: []string{"assets/vendor/"},
			ignored:  []string{"assets/vendor/jquery.js", "assets/vendor/a/b/c.css"},
			kept:     []string{"assets/vendor.js"},
		},
		{
			name:     "negation_overrides_earlier_rule",
			patterns: []string{"*.json", "!settings_schema.json"},
			ignored:  []string{"locales/en.json"},
			kept:     []string{"settings_schema.json", "config/settings_schema.json"},
		},
		{
			name:     "later_rule_overrides_negation",
			patterns: []string{"!*.json", "*.json"},
			ignored:  []string{"a.json"},
		},
		{
			name:     "negation_under_double_star_directory",
			patterns: []string{"ignored/**", "!ignored/keep.txt"},
			ignored:  []string{"ignored/x.txt", "ignored/deep/keep.txt"},
			kept:     []string{"ignored/keep.txt"},
		},
		{
			name:     "excluded_directory_cannot_be_reentered",
			patterns: []string{"vendor/", "!vendor/keep.js"},
			ignored:  []string{"vendor/keep.js", "vendor/a.js"},
		},
		{
			name:     "windows_separators",
			patterns: []string{"snippets/**"},
			ignored:  []string{`snippets\header.liquid`},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := Compile(tt.patterns)
			require.NoError(t, err)

			for _, p := range tt.ignored {
				assert.True(t, m.IsIgnored(p), "%s should be ignored", p)
			}
			for _, p := range tt.kept {
				assert.False(t, m.IsIgnored(p), "%s should be kept", p)
			}
		})
	}
}

func TestCompileInvalidPattern(t *testing.T) {
	_, err := Compile([]string{"templates/[.liquid"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid ignore pattern")
}

func TestDefaults(t *testing.T) {
	m, err := NewBuilder().Defaults(DefaultPatterns...).Build()
	require.NoError(t, err)

	assert.True(t, m.IsIgnored("scripts/theme.js"))
	assert.True(t, m.IsIgnored("src/styles/main.scss"))
	assert.True(t, m.IsIgnored(".DS_Store"))
	assert.True(t, m.IsIgnored("assets/.DS_Store"))
	assert.False(t, m.IsIgnored("assets/theme.js"))
}

func TestLayerPrecedence(t *testing.T) {
	// layers are applied in fixed order whatever order the builder sees them
	m, err := NewBuilder().
		Repository("!assets/keep.css").
		Config("assets/*.css").
		Defaults("**/*.css").
		Build()
	require.NoError(t, err)

	rules := m.Rules()
	require.Len(t, rules, 3)
	assert.Equal(t, SourceDefault, rules[0].Source)
	assert.Equal(t, SourceConfig, rules[1].Source)
	assert.Equal(t, SourceRepository, rules[2].Source)
	for i, r := range rules {
		assert.Equal(t, i, r.Index)
	}
	assert.True(t, rules[2].Negated)

	assert.True(t, m.IsIgnored("assets/theme.css"))
	assert.False(t, m.IsIgnored("assets/keep.css"))
}

func TestConfigOverridesDefaults(t *testing.T) {
	m, err := NewBuilder().
		Defaults(DefaultPatterns...).
		Config("!scripts/keep.js").
		Build()
	require.NoError(t, err)

	assert.False(t, m.IsIgnored("scripts/keep.js"), "config negation beats a default")
	assert.True(t, m.IsIgnored("scripts/other.js"))
	assert.True(t, m.IsIgnored(".git/HEAD"))
}

func TestPrune(t *testing.T) {
	tests := []struct {
		name     string
		patterns []string
		dir      string
		want     bool
	}{
		{name: "dir_rule", patterns: []string{"node_modules/"}, dir: "node_modules", want: true},
		{name: "below_dir_rule", patterns: []string{"node_modules/"}, dir: "node_modules/lodash", want: true},
		{name: "content_rule_without_negation", patterns: []string{"**/scripts/**"}, dir: "assets/scripts/vendor", want: true},
		{name: "content_rule_with_later_negation", patterns: []string{"**/scripts/**", "!scripts/keep.js"}, dir: "scripts", want: false},
		{name: "negation_before_content_rule", patterns: []string{"!scripts/keep.js", "scripts/**"}, dir: "scripts/sub", want: true},
		{name: "not_matched", patterns: []string{"*.md"}, dir: "templates", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := Compile(tt.patterns)
			require.NoError(t, err)
			assert.Equal(t, tt.want, m.Prune(tt.dir))
		})
	}
}

func TestRepositoryFiles(t *testing.T) {
	fs := memfs.New()
	require.NoError(t, util.WriteFile(fs, ".gitignore", []byte("# comment\n\nnode_modules/\n*.map\n"), 0o644))
	require.NoError(t, util.WriteFile(fs, "assets/.gitignore", []byte("generated.js\n"), 0o644))
	require.NoError(t, util.WriteFile(fs, "assets/generated.js", []byte("x"), 0o644))
	require.NoError(t, util.WriteFile(fs, ".git/.gitignore", []byte("*\n"), 0o644))

	m, err := NewBuilder().RepositoryFiles(fs).Build()
	require.NoError(t, err)

	assert.Len(t, m.Rules(), 3, ".git contents are skipped and comments dropped")
	assert.True(t, m.IsIgnored("node_modules/lodash/index.js"))
	assert.True(t, m.IsIgnored("assets/theme.js.map"))
	assert.True(t, m.IsIgnored("assets/generated.js"))
	assert.False(t, m.IsIgnored("generated.js"), "nested ignore file is scoped to its directory")
	assert.False(t, m.IsIgnored("assets/theme.js"))
}

func TestRepositoryFilesMissing(t *testing.T) {
	m, err := NewBuilder().RepositoryFiles(memfs.New()).Build()
	require.NoError(t, err)
	assert.Empty(t, m.Rules())
	assert.False(t, m.IsIgnored("anything.txt"))
}

func TestMatcherDeterministicAndConcurrent(t *testing.T) {
	m, err := NewBuilder().
		Defaults(DefaultPatterns...).
		Config("ignored/**", "*.tmp", "!keep.tmp").
		Build()
	require.NoError(t, err)

	paths := []string{"a.txt", "ignored/x.txt", "b.tmp", "keep.tmp", "scripts/a.js", "templates/index.liquid"}
	want := make([]bool, len(paths))
	for i, p := range paths {
		want[i] = m.IsIgnored(p)
	}

	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i, p := range paths {
				assert.Equal(t, want[i], m.IsIgnored(p), p)
			}
		}()
	}
	wg.Wait()
}

func TestNilMatcher(t *testing.T) {
	var m *Matcher
	assert.False(t, m.IsIgnored("a.txt"))
}
