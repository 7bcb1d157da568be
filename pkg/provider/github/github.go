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

// Package github writes theme assets as files on a branch of a GitHub repository.
package github

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/go-git/go-git/v5/plumbing"
	"github.com/google/go-github/v60/github"
	"github.com/rs/zerolog"
	"github.com/walteh/themesync/pkg/provider"
	"github.com/walteh/themesync/pkg/remote"
	"gitlab.com/tozd/go/errors"
)

const Name = "github"

func init() {
	provider.Register(Name, New)
}

// 🎯 Client commits assets to one branch through the contents API
type Client struct {
	client *github.Client
	owner  string
	repo   string
	branch string
}

// 🏭 New creates a GitHub client. StoreIdentifier is owner/repo, ResourceID
// the branch (default branch when empty) and AuthToken a token with contents write.
func New(ctx context.Context, args provider.Args) (remote.Client, error) {
	logger := zerolog.Ctx(ctx)

	if args.AuthToken == "" {
		return nil, errors.Errorf("password (token) is required for the github backend")
	}

	owner, repo, err := parseRepo(args.StoreIdentifier)
	if err != nil {
		return nil, errors.Errorf("parsing repo: %w", err)
	}

	client := github.NewClient(args.HTTPClient).WithAuthToken(args.AuthToken)

	if args.Endpoint != "" {
		base, err := url.Parse(strings.TrimSuffix(args.Endpoint, "/") + "/")
		if err != nil {
			return nil, errors.Errorf("parsing endpoint: %w", err)
		}
		client.BaseURL = base
	}

	logger.Debug().Str("repo", owner+"/"+repo).Str("branch", args.ResourceID).Msg("created github client")

	return &Client{
		client: client,
		owner:  owner,
		repo:   repo,
		branch: args.ResourceID,
	}, nil
}

// 🔍 parseRepo accepts owner/repo, github.com/owner/repo or a full URL
func parseRepo(repo string) (owner, name string, err error) {
	trimmed := strings.TrimSuffix(strings.TrimSuffix(repo, "/"), ".git")
	trimmed = strings.TrimPrefix(trimmed, "https://")
	trimmed = strings.TrimPrefix(trimmed, "http://")
	trimmed = strings.TrimPrefix(trimmed, "github.com/")

	parts := strings.Split(trimmed, "/")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", errors.Errorf("invalid GitHub repository: %q", repo)
	}
	return parts[0], parts[1], nil
}

// Sequential is true: every write is a commit on the same branch
func (c *Client) Sequential() bool {
	return true
}

// Describe names the repository and branch
func (c *Client) Describe() string {
	if c.branch == "" {
		return fmt.Sprintf("github.com/%s/%s", c.owner, c.repo)
	}
	return fmt.Sprintf("github.com/%s/%s@%s", c.owner, c.repo, c.branch)
}

// 📤 Put creates or updates the file at key; unchanged content makes no commit
func (c *Client) Put(ctx context.Context, key string, content []byte) error {
	sha, err := c.currentSHA(ctx, key)
	if err != nil {
		return err
	}

	if sha != "" && sha == plumbing.ComputeHash(plumbing.BlobObject, content).String() {
		zerolog.Ctx(ctx).Debug().Str("key", key).Msg("content unchanged, skipping commit")
		return nil
	}

	opts := &github.RepositoryContentFileOptions{
		Content: content,
		Branch:  c.branchRef(),
	}

	if sha == "" {
		opts.Message = github.String("themesync: add " + key)
		_, _, err = c.client.Repositories.CreateFile(ctx, c.owner, c.repo, key, opts)
	} else {
		opts.Message = github.String("themesync: update " + key)
		opts.SHA = github.String(sha)
		_, _, err = c.client.Repositories.UpdateFile(ctx, c.owner, c.repo, key, opts)
	}
	if err != nil {
		return classify(errors.Errorf("writing %s: %w", key, err))
	}
	return nil
}

// 🗑️ Delete removes the file at key. A missing file is a fatal error matching remote.ErrNotFound
func (c *Client) Delete(ctx context.Context, key string) error {
	sha, err := c.currentSHA(ctx, key)
	if err != nil {
		return err
	}
	if sha == "" {
		return remote.Fatal(errors.Errorf("deleting %s from %s/%s: %w", key, c.owner, c.repo, remote.ErrNotFound))
	}

	_, _, err = c.client.Repositories.DeleteFile(ctx, c.owner, c.repo, key, &github.RepositoryContentFileOptions{
		Message: github.String("themesync: remove " + key),
		SHA:     github.String(sha),
		Branch:  c.branchRef(),
	})
	if err != nil {
		return classify(errors.Errorf("deleting %s: %w", key, err))
	}
	return nil
}

// currentSHA returns the blob sha of key on the branch, "" when absent
func (c *Client) currentSHA(ctx context.Context, key string) (string, error) {
	file, _, resp, err := c.client.Repositories.GetContents(ctx, c.owner, c.repo, key, &github.RepositoryContentGetOptions{
		Ref: c.branch,
	})
	if err != nil {
		if resp != nil && resp.StatusCode == http.StatusNotFound {
			return "", nil
		}
		return "", classify(errors.Errorf("getting %s: %w", key, err))
	}
	if file == nil {
		return "", remote.Fatal(errors.Errorf("%s is a directory in %s/%s", key, c.owner, c.repo))
	}
	return file.GetSHA(), nil
}

func (c *Client) branchRef() *string {
	if c.branch == "" {
		return nil
	}
	return github.String(c.branch)
}

// classify marks rate limits, sha races and 5xx answers transient
func classify(err error) error {
	var rateErr *github.RateLimitError
	var abuseErr *github.AbuseRateLimitError
	if errors.As(err, &rateErr) || errors.As(err, &abuseErr) {
		return remote.Transient(err)
	}

	var respErr *github.ErrorResponse
	if errors.As(err, &respErr) && respErr.Response != nil {
		code := respErr.Response.StatusCode
		if code == http.StatusConflict || code == http.StatusTooManyRequests || code >= 500 {
			return remote.Transient(err)
		}
		return remote.Fatal(err)
	}
	return err
}
