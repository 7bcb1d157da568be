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
	"bufio"
	"os"
	"path"
	"strings"

	"github.com/go-git/go-billy/v5"
	"gitlab.com/tozd/go/errors"
)

// IgnoreFileName is the repository ignore file read by RepositoryFiles
const IgnoreFileName = ".gitignore"

type pending struct {
	raw    string
	domain []string
	source Source
}

// 🏗️ Builder assembles the layered rule list: defaults, then config
// patterns, then repository ignore files. Layer order is fixed no matter
// which order the builder methods are called in.
type Builder struct {
	layers map[Source][]pending
	err    error
}

// 🏭 NewBuilder creates an empty builder
func NewBuilder() *Builder {
	return &Builder{layers: map[Source][]pending{}}
}

// Defaults appends built-in default patterns
func (b *Builder) Defaults(patterns ...string) *Builder {
	return b.add(SourceDefault, patterns)
}

// Config appends patterns from the theme configuration
func (b *Builder) Config(patterns ...string) *Builder {
	return b.add(SourceConfig, patterns)
}

// Repository appends gitignore-syntax lines as if read from the root ignore file
func (b *Builder) Repository(lines ...string) *Builder {
	for _, line := range lines {
		if raw, ok := cleanLine(line); ok {
			b.layers[SourceRepository] = append(b.layers[SourceRepository], pending{raw: raw, source: SourceRepository})
		}
	}
	return b
}

// RepositoryFiles reads every .gitignore under fs, scoping nested files to
// their directory. The .git directory is skipped. A missing root file is fine.
func (b *Builder) RepositoryFiles(fs billy.Filesystem) *Builder {
	if b.err != nil {
		return b
	}
	if err := b.readDir(fs, nil); err != nil {
		b.err = errors.Errorf("reading repository ignore files: %w", err)
	}
	return b
}

func (b *Builder) readDir(fs billy.Filesystem, domain []string) error {
	if err := b.readFile(fs, domain); err != nil {
		return err
	}

	entries, err := fs.ReadDir(path.Join(append([]string{"/"}, domain...)...))
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return errors.Errorf("listing %s: %w", strings.Join(domain, "/"), err)
	}

	for _, e := range entries {
		if !e.IsDir() || e.Name() == ".git" {
			continue
		}
		sub := append(append([]string{}, domain...), e.Name())
		if err := b.readDir(fs, sub); err != nil {
			return err
		}
	}
	return nil
}

func (b *Builder) readFile(fs billy.Filesystem, domain []string) error {
	name := path.Join(append(append([]string{"/"}, domain...), IgnoreFileName)...)
	f, err := fs.Open(name)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return errors.Errorf("opening %s: %w", name, err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		raw, ok := cleanLine(scanner.Text())
		if !ok {
			continue
		}
		b.layers[SourceRepository] = append(b.layers[SourceRepository], pending{
			raw:    raw,
			domain: domain,
			source: SourceRepository,
		})
	}
	if err := scanner.Err(); err != nil {
		return errors.Errorf("reading %s: %w", name, err)
	}
	return nil
}

func (b *Builder) add(src Source, patterns []string) *Builder {
	for _, p := range patterns {
		if strings.TrimSpace(p) == "" {
			continue
		}
		b.layers[src] = append(b.layers[src], pending{raw: p, source: src})
	}
	return b
}

// 🎯 Build compiles all layers into an immutable Matcher
func (b *Builder) Build() (*Matcher, error) {
	if b.err != nil {
		return nil, b.err
	}

	m := &Matcher{}
	for _, src := range []Source{SourceDefault, SourceConfig, SourceRepository} {
		for _, p := range b.layers[src] {
			var (
				r   Rule
				err error
			)
			if src == SourceRepository {
				r = gitRule(p.raw, p.domain)
			} else if r, err = globRule(p.raw); err != nil {
				return nil, errors.Errorf("compiling %s rule: %w", src, err)
			}
			r.Source = src
			r.Index = len(m.rules)
			m.rules = append(m.rules, r)
		}
	}
	return m, nil
}

// cleanLine drops blank lines and comments, and trailing unescaped spaces
func cleanLine(line string) (string, bool) {
	line = strings.TrimRight(line, "\r")
	if strings.HasPrefix(line, "#") {
		return "", false
	}
	if !strings.HasSuffix(line, "\\ ") {
		line = strings.TrimRight(line, " \t")
	}
	if line == "" {
		return "", false
	}
	return line, true
}
