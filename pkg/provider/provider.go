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

package provider

import (
	"context"
	"net/http"
	"sort"
	"strings"
	"sync"

	"github.com/walteh/themesync/pkg/remote"
	"gitlab.com/tozd/go/errors"
)

// DefaultBackend is the backend used when none is configured
const DefaultBackend = "theme"

// 🔑 Args carries what a backend needs to reach its store
type Args struct {
	// AuthToken is the credential (API token, password, "KEY:SECRET")
	AuthToken string
	// StoreIdentifier names the store (shop URL, bucket, owner/repo, user@host, directory)
	StoreIdentifier string
	// ResourceID names the target inside the store (theme id, prefix, branch, remote dir)
	ResourceID string
	// Endpoint overrides the backend's default service endpoint
	Endpoint string
	// Options holds backend specific settings (region, known_hosts, api_version)
	Options map[string]string
	// HTTPClient is used by HTTP based backends when set
	HTTPClient *http.Client
}

// Option returns a backend option or def when it is unset
func (a Args) Option(key, def string) string {
	if v, ok := a.Options[key]; ok && v != "" {
		return v
	}
	return def
}

// 🏭 Factory creates a remote client from args
type Factory func(ctx context.Context, args Args) (remote.Client, error)

var (
	// 🗺️ providers is a map of backend names to factories
	providers   = make(map[string]Factory)
	providersMu sync.RWMutex
)

// 📝 Register registers a backend factory
func Register(name string, factory Factory) {
	providersMu.Lock()
	defer providersMu.Unlock()
	providers[name] = factory
}

// 🎯 Get returns the factory registered for name
func Get(name string) (Factory, bool) {
	providersMu.RLock()
	defer providersMu.RUnlock()
	f, ok := providers[name]
	return f, ok
}

// Names lists the registered backends in order
func Names() []string {
	providersMu.RLock()
	defer providersMu.RUnlock()
	out := make([]string, 0, len(providers))
	for k := range providers {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// 🔌 New creates a client for the named backend ("" means DefaultBackend)
func New(ctx context.Context, name string, args Args) (remote.Client, error) {
	if name == "" {
		name = DefaultBackend
	}

	factory, ok := Get(name)
	if !ok {
		return nil, errors.Errorf("backend %s not found, options: %s", name, strings.Join(Names(), ", "))
	}

	client, err := factory(ctx, args)
	if err != nil {
		return nil, errors.Errorf("creating %s backend: %w", name, err)
	}
	return client, nil
}

// Close releases client resources when it holds any
func Close(client remote.Client) error {
	if c, ok := client.(interface{ Close() error }); ok {
		return c.Close()
	}
	return nil
}
