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

// Package themeapi writes theme assets through a Shopify style admin asset API.
package themeapi

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"unicode/utf8"

	"github.com/gabriel-vasile/mimetype"
	"github.com/rs/zerolog"
	"github.com/walteh/themesync/pkg/provider"
	"github.com/walteh/themesync/pkg/remote"
	"gitlab.com/tozd/go/errors"
)

const (
	Name              = "theme"
	DefaultAPIVersion = "2024-01"
	tokenHeader       = "X-Shopify-Access-Token"
	maxErrorBody      = 4 << 10
)

func init() {
	provider.Register(Name, New)
}

// 🌐 Client talks to the asset endpoint of one theme
type Client struct {
	http       *http.Client
	base       *url.URL
	themeID    string
	token      string
	apiVersion string
}

// 🏭 New creates a theme API client. StoreIdentifier is the shop host or URL,
// ResourceID the theme id and AuthToken the admin API access token.
func New(ctx context.Context, args provider.Args) (remote.Client, error) {
	if args.AuthToken == "" {
		return nil, errors.Errorf("password is required for the theme backend")
	}
	if args.ResourceID == "" {
		return nil, errors.Errorf("theme_id is required for the theme backend")
	}

	store := args.StoreIdentifier
	if args.Endpoint != "" {
		store = args.Endpoint
	}
	if store == "" {
		return nil, errors.Errorf("store is required for the theme backend")
	}
	if !strings.Contains(store, "://") {
		store = "https://" + store
	}

	base, err := url.Parse(strings.TrimSuffix(store, "/"))
	if err != nil {
		return nil, errors.Errorf("parsing store url %q: %w", store, err)
	}

	hc := args.HTTPClient
	if hc == nil {
		hc = http.DefaultClient
	}

	zerolog.Ctx(ctx).Debug().Str("store", base.Host).Str("theme_id", args.ResourceID).Msg("created theme api client")

	return &Client{
		http:       hc,
		base:       base,
		themeID:    args.ResourceID,
		token:      args.AuthToken,
		apiVersion: args.Option("api_version", DefaultAPIVersion),
	}, nil
}

// Describe names the theme this client writes to
func (c *Client) Describe() string {
	return fmt.Sprintf("%s theme %s", c.base.Host, c.themeID)
}

func (c *Client) assetsURL() string {
	return fmt.Sprintf("%s/admin/api/%s/themes/%s/assets.json", c.base.String(), c.apiVersion, url.PathEscape(c.themeID))
}

type asset struct {
	Key        string  `json:"key"`
	Value      *string `json:"value,omitempty"`
	Attachment string  `json:"attachment,omitempty"`
}

type assetEnvelope struct {
	Asset asset `json:"asset"`
}

// 📤 Put creates or replaces the asset at key
func (c *Client) Put(ctx context.Context, key string, content []byte) error {
	body, err := json.Marshal(assetEnvelope{Asset: encodeAsset(key, content)})
	if err != nil {
		return remote.Fatal(errors.Errorf("encoding asset %s: %w", key, err))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, c.assetsURL(), bytes.NewReader(body))
	if err != nil {
		return remote.Fatal(errors.Errorf("creating request: %w", err))
	}
	req.Header.Set("Content-Type", "application/json")

	return c.do(req, key)
}

// 🗑️ Delete removes the asset at key. A 404 is a fatal error matching remote.ErrNotFound
func (c *Client) Delete(ctx context.Context, key string) error {
	q := url.Values{}
	q.Set("asset[key]", key)

	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, c.assetsURL()+"?"+q.Encode(), nil)
	if err != nil {
		return remote.Fatal(errors.Errorf("creating request: %w", err))
	}

	return c.do(req, key)
}

func (c *Client) do(req *http.Request, key string) error {
	req.Header.Set(tokenHeader, c.token)
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		if errors.Is(req.Context().Err(), context.Canceled) {
			return remote.Fatal(errors.Errorf("%s %s: %w", req.Method, key, err))
		}
		return remote.Transient(errors.Errorf("%s %s: %w", req.Method, key, err))
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}

	msg, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	se := &StatusError{
		Method:  req.Method,
		Key:     key,
		Code:    resp.StatusCode,
		Message: strings.TrimSpace(string(msg)),
	}

	if retryable(resp.StatusCode) {
		return remote.Transient(se)
	}
	return remote.Fatal(se)
}

func retryable(code int) bool {
	return code == http.StatusTooManyRequests || code == http.StatusRequestTimeout || code >= 500
}

// StatusError is a non-2xx answer from the asset API
type StatusError struct {
	Method  string
	Key     string
	Code    int
	Message string
}

// Is lets a 404 on delete match remote.ErrNotFound
func (e *StatusError) Is(target error) bool {
	return target == remote.ErrNotFound && e.Method == http.MethodDelete && e.Code == http.StatusNotFound
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("%s %s: %d %s", e.Method, e.Key, e.Code, http.StatusText(e.Code))
	}
	return fmt.Sprintf("%s %s: %d %s: %s", e.Method, e.Key, e.Code, http.StatusText(e.Code), e.Message)
}

// encodeAsset sends text as value and everything else as a base64 attachment.
// An empty text file still carries an empty value.
func encodeAsset(key string, content []byte) asset {
	if isText(content) {
		value := string(content)
		return asset{Key: key, Value: &value}
	}
	return asset{Key: key, Attachment: base64.StdEncoding.EncodeToString(content)}
}

func isText(content []byte) bool {
	if len(content) == 0 {
		return true
	}
	if !utf8.Valid(content) {
		return false
	}
	for mt := mimetype.Detect(content); mt != nil; mt = mt.Parent() {
		if mt.Is("text/plain") {
			return true
		}
	}
	return false
}
