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

// Package dirstore mirrors theme assets into a local or mounted directory.
package dirstore

import (
	"context"
	"os"
	"path"
	"path/filepath"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/osfs"
	"github.com/go-git/go-billy/v5/util"
	"github.com/rs/zerolog"
	"github.com/walteh/themesync/pkg/provider"
	"github.com/walteh/themesync/pkg/remote"
	"gitlab.com/tozd/go/errors"
)

const Name = "dir"

func init() {
	provider.Register(Name, New)
}

// 📁 Client writes keys as files below the root of fs
type Client struct {
	fs billy.Filesystem
}

// 🏭 New creates a directory store at StoreIdentifier/ResourceID. The
// directory is created when missing; AuthToken is ignored.
func New(ctx context.Context, args provider.Args) (remote.Client, error) {
	if args.StoreIdentifier == "" {
		return nil, errors.Errorf("store (directory) is required for the dir backend")
	}

	dir := filepath.Join(args.StoreIdentifier, filepath.FromSlash(args.ResourceID))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.Errorf("creating %s: %w", dir, err)
	}

	zerolog.Ctx(ctx).Debug().Str("dir", dir).Msg("created directory store")

	return NewWithFilesystem(osfs.New(dir)), nil
}

// NewWithFilesystem wraps an existing filesystem
func NewWithFilesystem(fs billy.Filesystem) *Client {
	return &Client{fs: fs}
}

// Describe names the target directory
func (c *Client) Describe() string {
	return c.fs.Root()
}

// 📤 Put writes content to key, creating parent directories
func (c *Client) Put(ctx context.Context, key string, content []byte) error {
	if err := c.fs.MkdirAll(path.Dir(key), 0o755); err != nil {
		return remote.Fatal(errors.Errorf("creating directory for %s: %w", key, err))
	}
	if err := util.WriteFile(c.fs, key, content, 0o644); err != nil {
		return remote.Fatal(errors.Errorf("writing %s: %w", key, err))
	}
	return nil
}

// 🗑️ Delete removes key. A missing file is a fatal error matching remote.ErrNotFound
func (c *Client) Delete(ctx context.Context, key string) error {
	if err := c.fs.Remove(key); err != nil {
		if os.IsNotExist(err) {
			return remote.Fatal(errors.Errorf("removing %s: %w", key, remote.ErrNotFound))
		}
		return remote.Fatal(errors.Errorf("removing %s: %w", key, err))
	}
	return nil
}
