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
	"path"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/go-git/go-git/v5/plumbing/format/gitignore"
	"gitlab.com/tozd/go/errors"
)

// 📚 Source is the layer a rule came from. Later layers override earlier ones.
type Source int

const (
	SourceDefault    Source = iota // built-in defaults
	SourceConfig                   // ignore_files from the theme config
	SourceRepository               // .gitignore files under the theme root
)

// String returns a string representation of Source
func (s Source) String() string {
	switch s {
	case SourceDefault:
		return "default"
	case SourceConfig:
		return "config"
	case SourceRepository:
		return "repository"
	default:
		return "unknown"
	}
}

// 🧹 DefaultPatterns are always applied first.
var DefaultPatterns = []string{
	"**/scripts/**",
	"**/styles/**",
	".DS_Store",
	".git/",
}

// 🎯 Rule is a single compiled ignore pattern
type Rule struct {
	Pattern string // pattern as written by the user
	Negated bool   // a matching negated rule un-ignores the path
	Source  Source // layer the rule came from
	Index   int    // position in the compiled rule list

	content bool // "dir/**" style: matches what is below a directory, not the directory itself
	match   func(parts []string, isDir bool) bool
}

// 🔒 Matcher decides per-path inclusion. It is immutable once built and does no I/O.
type Matcher struct {
	rules []Rule
}

// 🏭 Compile compiles patterns as a single config layer, in order
func Compile(patterns []string) (*Matcher, error) {
	return NewBuilder().Config(patterns...).Build()
}

// Rules returns a copy of the compiled rules in precedence order
func (m *Matcher) Rules() []Rule {
	out := make([]Rule, len(m.rules))
	copy(out, m.rules)
	return out
}

// IsIgnored reports whether a root-relative file path is ignored
func (m *Matcher) IsIgnored(rel string) bool {
	return m.Match(rel, false)
}

// Match reports whether a root-relative path is ignored. A directory excluded
// as a whole (by a rule that is not a "dir/**" content rule) ignores everything
// below it; content rules leave later negations free to re-include files.
func (m *Matcher) Match(rel string, isDir bool) bool {
	if m == nil || len(m.rules) == 0 {
		return false
	}

	parts := splitPath(rel)
	if len(parts) == 0 {
		return false
	}

	for i := 1; i < len(parts); i++ {
		if m.excludes(parts[:i]) {
			return true
		}
	}

	return m.eval(parts, isDir)
}

// Prune reports whether the walk can skip a directory and everything below it
func (m *Matcher) Prune(rel string) bool {
	if m == nil || len(m.rules) == 0 {
		return false
	}

	parts := splitPath(rel)
	if len(parts) == 0 {
		return false
	}

	for i := 1; i <= len(parts); i++ {
		if m.excludes(parts[:i]) {
			return true
		}
	}

	last := m.lastMatch(parts, true)
	if last < 0 || m.rules[last].Negated {
		return false
	}
	for _, r := range m.rules[last+1:] {
		if r.Negated {
			return false
		}
	}
	return true
}

// eval applies every rule in order; the last matching rule decides
func (m *Matcher) eval(parts []string, isDir bool) bool {
	last := m.lastMatch(parts, isDir)
	return last >= 0 && !m.rules[last].Negated
}

func (m *Matcher) lastMatch(parts []string, isDir bool) int {
	last := -1
	for i, r := range m.rules {
		if r.match(parts, isDir) {
			last = i
		}
	}
	return last
}

// excludes reports whether the directory at parts is excluded as a whole
func (m *Matcher) excludes(parts []string) bool {
	ignored := false
	for _, r := range m.rules {
		if r.content && !r.Negated {
			continue
		}
		if r.match(parts, true) {
			ignored = !r.Negated
		}
	}
	return ignored
}

func splitPath(rel string) []string {
	rel = strings.ReplaceAll(rel, "\\", "/")
	rel = strings.Trim(path.Clean("/"+rel), "/")
	if rel == "" {
		return nil
	}
	return strings.Split(rel, "/")
}

// 🔧 globRule compiles a doublestar pattern with gitignore-like conveniences:
// a pattern without a slash matches the base name at any depth, a leading
// slash anchors it to the root and a trailing slash restricts it to directories.
func globRule(raw string) (Rule, error) {
	r := Rule{Pattern: raw}

	p := strings.TrimSpace(raw)
	if strings.HasPrefix(p, "!") {
		r.Negated = true
		p = p[1:]
	}

	dirOnly := strings.HasSuffix(p, "/")
	p = strings.TrimSuffix(p, "/")
	r.content = !dirOnly && strings.HasSuffix(p, "/**")

	switch {
	case strings.HasPrefix(p, "/"):
		p = strings.TrimPrefix(p, "/")
	case !strings.Contains(p, "/") && !strings.HasPrefix(p, "**"):
		p = "**/" + p
	}

	if p == "" {
		return r, errors.Errorf("empty ignore pattern %q", raw)
	}
	if !doublestar.ValidatePattern(p) {
		return r, errors.Errorf("invalid ignore pattern %q", raw)
	}

	r.match = func(parts []string, isDir bool) bool {
		if dirOnly && !isDir {
			return false
		}
		ok, err := doublestar.Match(p, strings.Join(parts, "/"))
		return err == nil && ok
	}

	return r, nil
}

// 🔧 gitRule adapts a go-git gitignore pattern scoped to domain
func gitRule(raw string, domain []string) Rule {
	pattern := gitignore.ParsePattern(raw, domain)
	r := Rule{
		Pattern: raw,
		Negated: strings.HasPrefix(raw, "!"),
		content: strings.HasSuffix(strings.TrimSpace(raw), "/**"),
	}
	r.match = func(parts []string, isDir bool) bool {
		return pattern.Match(parts, isDir) != gitignore.NoMatch
	}
	return r
}
