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

package config

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
	"gopkg.in/yaml.v3"
)

const (
	DefaultFile        = "config.yml"
	DefaultEnvironment = "development"
)

// ErrEnvironmentNotFound marks a theme name missing from the config file
var ErrEnvironmentNotFound = errors.Base("theme configuration does not exist")

// 🔌 Parser is the interface for config parsers
type Parser interface {
	// 📝 Parse parses the config from bytes
	Parse(ctx context.Context, data []byte, filename string) (*File, error)

	// 🔍 CanParse checks if this parser can handle the given file
	CanParse(filename string) bool
}

var (
	// 🗺️ parsers is a list of available parsers
	parsers []Parser
)

// 📝 Register registers a parser
func Register(p Parser) {
	parsers = append(parsers, p)
}

// 🎯 GetParser returns a parser that can handle the given file
func GetParser(filename string) Parser {
	for _, p := range parsers {
		if p.CanParse(filename) {
			return p
		}
	}
	return nil
}

// 📚 File is a parsed config file: one Environment per theme name
type File struct {
	Environments map[string]Environment
	location     string
}

// Location is the path the file was loaded from
func (f *File) Location() string {
	return f.location
}

// Names lists the environment names in the file
func (f *File) Names() []string {
	out := make([]string, 0, len(f.Environments))
	for k := range f.Environments {
		out = append(out, k)
	}
	return out
}

// 🎨 Environment is the remote target and tuning for one theme
type Environment struct {
	Name             string            `json:"-" yaml:"-"`
	Password         string            `json:"password" yaml:"password"`
	Store            string            `json:"store" yaml:"store"`
	ThemeID          ID                `json:"theme_id" yaml:"theme_id"`
	IgnoreFiles      []string          `json:"ignore_files" yaml:"ignore_files"`
	Backend          string            `json:"backend" yaml:"backend"`
	Options          map[string]string `json:"options" yaml:"options"`
	Root             string            `json:"root" yaml:"root"`
	Concurrency      int               `json:"concurrency" yaml:"concurrency"`
	MaxAttempts      int               `json:"max_attempts" yaml:"max_attempts"`
	Timeout          Duration          `json:"timeout" yaml:"timeout"`
	IgnoreRepository *bool             `json:"ignore_repository" yaml:"ignore_repository"`
}

// ID accepts both numbers and strings, theme ids are usually written bare
type ID string

func (id *ID) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		*id = ID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return errors.Errorf("theme_id must be a string or number: %w", err)
	}
	*id = ID(n.String())
	return nil
}

func (id *ID) UnmarshalYAML(node *yaml.Node) error {
	*id = ID(node.Value)
	return nil
}

// Duration is a time.Duration written as "30s" or as whole seconds
type Duration time.Duration

func (d *Duration) parse(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		*d = 0
		return nil
	}
	if secs, err := strconv.Atoi(s); err == nil {
		*d = Duration(time.Duration(secs) * time.Second)
		return nil
	}
	v, err := time.ParseDuration(s)
	if err != nil {
		return errors.Errorf("invalid duration %q: %w", s, err)
	}
	*d = Duration(v)
	return nil
}

func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	return d.parse(node.Value)
}

func (d *Duration) UnmarshalJSON(b []byte) error {
	return d.parse(strings.Trim(string(b), `"`))
}

// Std returns the value as a time.Duration
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

// UseRepositoryIgnore reports whether .gitignore files join the ignore rules
func (e *Environment) UseRepositoryIgnore() bool {
	return e.IgnoreRepository == nil || *e.IgnoreRepository
}

// BackendName returns the configured backend or the default theme API
func (e *Environment) BackendName() string {
	if e.Backend == "" {
		return "theme"
	}
	return e.Backend
}

// 🔍 Validate checks if the environment is usable
func (e *Environment) Validate() error {
	backend := e.BackendName()

	if e.Store == "" {
		return errors.Errorf("%s: store is required", e.Name)
	}
	if e.ThemeID == "" && (backend == "theme" || backend == "sftp") {
		return errors.Errorf("%s: theme_id is required for the %s backend", e.Name, backend)
	}
	if e.Password == "" && (backend == "theme" || backend == "github") {
		return errors.Errorf("%s: password is required for the %s backend", e.Name, backend)
	}
	if e.Concurrency < 0 {
		return errors.Errorf("%s: concurrency must not be negative", e.Name)
	}
	if e.MaxAttempts < 0 {
		return errors.Errorf("%s: max_attempts must not be negative", e.Name)
	}
	if e.Timeout < 0 {
		return errors.Errorf("%s: timeout must not be negative", e.Name)
	}
	return nil
}

// expand replaces ${VAR} references in string values with the process environment
func (e *Environment) expand() {
	e.Password = expandEnv(e.Password)
	e.Store = expandEnv(e.Store)
	e.ThemeID = ID(expandEnv(string(e.ThemeID)))
	e.Root = expandEnv(e.Root)
	for k, v := range e.Options {
		e.Options[k] = expandEnv(v)
	}
}

// expandEnv only touches the braced form so a literal $ in a password survives
func expandEnv(s string) string {
	var b strings.Builder
	for {
		start := strings.Index(s, "${")
		if start < 0 {
			b.WriteString(s)
			return b.String()
		}
		end := strings.Index(s[start:], "}")
		if end < 0 {
			b.WriteString(s)
			return b.String()
		}
		b.WriteString(s[:start])
		b.WriteString(os.Getenv(s[start+2 : start+end]))
		s = s[start+end+1:]
	}
}

// 📂 LoadFile parses a config file, picking the parser by extension
func LoadFile(ctx context.Context, path string) (*File, error) {
	logger := zerolog.Ctx(ctx)
	logger.Debug().Str("path", path).Msg("loading configuration")

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Errorf("reading config file: %w", err)
	}

	p := GetParser(strings.ToLower(filepath.Base(path)))
	if p == nil {
		return nil, errors.Errorf("unsupported file extension %q", filepath.Ext(path))
	}

	f, err := p.Parse(ctx, data, path)
	if err != nil {
		return nil, errors.Errorf("parsing config: %w", err)
	}
	f.location = path
	return f, nil
}

// 🎯 Load reads path and returns the validated environment called name
// ("" means DefaultEnvironment)
func Load(ctx context.Context, path, name string) (*Environment, error) {
	f, err := LoadFile(ctx, path)
	if err != nil {
		return nil, err
	}
	return f.Environment(name)
}

// Environment returns the validated environment called name
func (f *File) Environment(name string) (*Environment, error) {
	if name == "" {
		name = DefaultEnvironment
	}

	env, ok := f.Environments[name]
	if !ok {
		return nil, errors.Errorf("%s %w", name, ErrEnvironmentNotFound)
	}

	env.Name = name
	env.expand()
	if err := env.Validate(); err != nil {
		return nil, errors.Errorf("validating config: %w", err)
	}
	return &env, nil
}
