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

package dirstore

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-billy/v5/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/walteh/themesync/pkg/provider"
	"github.com/walteh/themesync/pkg/remote"
)

func TestPutAndDelete(t *testing.T) {
	ctx := context.Background()
	fs := memfs.New()
	c := NewWithFilesystem(fs)

	require.NoError(t, c.Put(ctx, "sections/header.liquid", []byte("header")))
	require.NoError(t, c.Put(ctx, "sections/header.liquid", []byte("hdr")))

	got, err := util.ReadFile(fs, "sections/header.liquid")
	require.NoError(t, err)
	assert.Equal(t, "hdr", string(got))

	require.NoError(t, c.Delete(ctx, "sections/header.liquid"))

	err = c.Delete(ctx, "sections/header.liquid")
	require.Error(t, err)
	assert.ErrorIs(t, err, remote.ErrNotFound)
	assert.False(t, remote.IsTransient(err))

	_, err = fs.Stat("sections/header.liquid")
	assert.True(t, os.IsNotExist(err))
}

func TestNewOnDisk(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	c, err := provider.New(ctx, Name, provider.Args{StoreIdentifier: dir, ResourceID: "dev"})
	require.NoError(t, err)
	require.NoError(t, c.Put(ctx, "layout/theme.liquid", []byte("theme")))

	got, err := os.ReadFile(filepath.Join(dir, "dev", "layout", "theme.liquid"))
	require.NoError(t, err)
	assert.Equal(t, "theme", string(got))

	_, err = New(ctx, provider.Args{})
	assert.Error(t, err)
}
