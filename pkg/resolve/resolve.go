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

// Package resolve expands requested paths under a theme root into the
// ordered, de-duplicated list of files to sync.
package resolve

import (
	"context"
	"io"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/util"
	"github.com/opencontainers/go-digest"
	"github.com/rs/zerolog"
	"github.com/walteh/themesync/pkg/ignore"
	"gitlab.com/tozd/go/errors"
)

var (
	// ErrInvalidArgument marks caller misuse
	ErrInvalidArgument = errors.Base("invalid argument")
	// ErrNotFound marks a requested path that does not exist under the root
	ErrNotFound = errors.Base("path not found")
)

// 📄 FileEntry is one local file and the remote key it maps to
type FileEntry struct {
	LocalPath   string        // absolute OS path
	RemoteKey   string        // root-relative, slash separated
	ContentHash digest.Digest // only set when hashing is enabled
}

// 🔧 Option configures a Resolver
type Option func(*Resolver)

// WithContentHash fills FileEntry.ContentHash while resolving
func WithContentHash() Option {
	return func(r *Resolver) {
		r.hash = true
	}
}

// 🔍 Resolver maps requested paths to file entries. fs must be rooted at root.
type Resolver struct {
	fs      billy.Filesystem
	root    string
	matcher *ignore.Matcher
	hash    bool
}

// 🏭 New creates a resolver over fs, whose root corresponds to the OS path root
func New(fs billy.Filesystem, root string, matcher *ignore.Matcher, opts ...Option) *Resolver {
	r := &Resolver{
		fs:      fs,
		root:    filepath.Clean(root),
		matcher: matcher,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Root returns the OS path the resolver maps keys against
func (r *Resolver) Root() string {
	return r.root
}

// 🎯 Resolve expands requested paths (empty means everything) into entries
// sorted by remote key. Ignored paths are dropped silently.
func (r *Resolver) Resolve(ctx context.Context, requested []string) ([]FileEntry, error) {
	logger := zerolog.Ctx(ctx)

	if len(requested) == 0 {
		requested = []string{"."}
	}

	seen := map[string]FileEntry{}
	for _, req := range requested {
		key, err := r.keyFor(req)
		if err != nil {
			return nil, err
		}

		if err := r.expand(ctx, key, seen); err != nil {
			return nil, err
		}
	}

	out := make([]FileEntry, 0, len(seen))
	for _, e := range seen {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].RemoteKey < out[j].RemoteKey })

	logger.Debug().Int("requested", len(requested)).Int("resolved", len(out)).Msg("resolved paths")
	return out, nil
}

// keyFor turns a user path (relative to root or absolute under it) into a
// slash separated root-relative key; "" is the root itself
func (r *Resolver) keyFor(req string) (string, error) {
	p := req
	if filepath.IsAbs(p) {
		rel, err := filepath.Rel(r.root, p)
		if err != nil {
			return "", errors.Errorf("%w: %s is not under %s", ErrInvalidArgument, req, r.root)
		}
		p = rel
	}

	p = path.Clean(filepath.ToSlash(p))
	if p == ".." || strings.HasPrefix(p, "../") {
		return "", errors.Errorf("%w: %s is not under %s", ErrInvalidArgument, req, r.root)
	}
	if p == "." {
		return "", nil
	}
	return p, nil
}

func (r *Resolver) expand(ctx context.Context, key string, seen map[string]FileEntry) error {
	name := "/" + key
	info, err := r.fs.Lstat(name)
	if err != nil {
		if os.IsNotExist(err) {
			return errors.Errorf("%w: %s", ErrNotFound, filepath.Join(r.root, filepath.FromSlash(key)))
		}
		return errors.Errorf("stat %s: %w", key, err)
	}

	if info.Mode()&os.ModeSymlink != 0 {
		target, err := r.fs.Stat(name)
		if err != nil {
			return errors.Errorf("%w: %s is a dangling link", ErrNotFound, key)
		}
		if target.IsDir() {
			zerolog.Ctx(ctx).Debug().Str("path", key).Msg("skipping symlinked directory")
			return nil
		}
		return r.add(key, seen)
	}

	if !info.IsDir() {
		return r.add(key, seen)
	}

	if key != "" && r.matcher.Prune(key) {
		return nil
	}

	return util.Walk(r.fs, name, func(p string, fi os.FileInfo, err error) error {
		if err != nil {
			return errors.Errorf("walking %s: %w", p, err)
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		rel := strings.TrimPrefix(path.Clean(filepath.ToSlash(p)), "/")
		if rel == key {
			return nil
		}

		switch {
		case fi.IsDir():
			if r.matcher.Prune(rel) {
				return filepath.SkipDir
			}
			return nil
		case fi.Mode()&os.ModeSymlink != 0:
			target, err := r.fs.Stat("/" + rel)
			if err != nil || target.IsDir() {
				return nil
			}
			return r.add(rel, seen)
		case fi.Mode().IsRegular():
			return r.add(rel, seen)
		default:
			return nil
		}
	})
}

func (r *Resolver) add(key string, seen map[string]FileEntry) error {
	if r.matcher.IsIgnored(key) {
		return nil
	}
	if _, ok := seen[key]; ok {
		return nil
	}

	entry := FileEntry{
		LocalPath: filepath.Join(r.root, filepath.FromSlash(key)),
		RemoteKey: key,
	}

	if r.hash {
		d, err := r.digest(key)
		if err != nil {
			return err
		}
		entry.ContentHash = d
	}

	seen[key] = entry
	return nil
}

func (r *Resolver) digest(key string) (digest.Digest, error) {
	f, err := r.fs.Open("/" + key)
	if err != nil {
		return "", errors.Errorf("opening %s: %w", key, err)
	}
	defer f.Close()

	d, err := digest.SHA256.FromReader(f)
	if err != nil {
		return "", errors.Errorf("hashing %s: %w", key, err)
	}
	return d, nil
}

// ReadFile reads the content behind an entry's key
func (r *Resolver) ReadFile(key string) ([]byte, error) {
	f, err := r.fs.Open("/" + key)
	if err != nil {
		return nil, errors.Errorf("opening %s: %w", key, err)
	}
	defer f.Close()

	content, err := io.ReadAll(f)
	if err != nil {
		return nil, errors.Errorf("reading %s: %w", key, err)
	}
	return content, nil
}
