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

// Package sftp writes theme assets below a directory on an SSH server.
package sftp

import (
	"context"
	"fmt"
	"io"
	"net"
	"os"
	"path"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/pkg/sftp"
	"github.com/rs/zerolog"
	"github.com/walteh/themesync/pkg/provider"
	"github.com/walteh/themesync/pkg/remote"
	"gitlab.com/tozd/go/errors"
	"golang.org/x/crypto/ssh"
	"golang.org/x/crypto/ssh/knownhosts"
)

const (
	Name        = "sftp"
	DefaultPort = "22"
	dialTimeout = 10 * time.Second
)

func init() {
	provider.Register(Name, New)
}

// dialFunc opens a session; closer releases whatever carries it
type dialFunc func(ctx context.Context) (*sftp.Client, io.Closer, error)

// 📡 Client maps remote keys to files under dir. A session that fails at the
// transport level is dropped and redialed on the next call.
type Client struct {
	mu     sync.Mutex
	dial   dialFunc
	sess   *sftp.Client
	closer io.Closer
	dir    string
	target string
}

// 🏭 New creates an sftp client. StoreIdentifier is user@host[:port],
// ResourceID the remote directory and AuthToken the password; without a
// password the key at option "identity" (default ~/.ssh/id_ed25519, then
// ~/.ssh/id_rsa) is used. Host keys are checked against option "known_hosts"
// (default ~/.ssh/known_hosts) unless "insecure_ignore_host_key" is "true".
func New(ctx context.Context, args provider.Args) (remote.Client, error) {
	user, addr, err := parseTarget(args.StoreIdentifier)
	if err != nil {
		return nil, err
	}
	if args.ResourceID == "" {
		return nil, errors.Errorf("theme_id (remote directory) is required for the sftp backend")
	}

	auth, err := authMethods(args)
	if err != nil {
		return nil, err
	}

	hostKeys, err := hostKeyCallback(args)
	if err != nil {
		return nil, err
	}

	cfg := &ssh.ClientConfig{
		User:            user,
		Auth:            auth,
		HostKeyCallback: hostKeys,
		Timeout:         dialTimeout,
	}

	dial := func(ctx context.Context) (*sftp.Client, io.Closer, error) {
		d := net.Dialer{Timeout: dialTimeout}
		conn, err := d.DialContext(ctx, "tcp", addr)
		if err != nil {
			return nil, nil, remote.Transient(errors.Errorf("dialing %s: %w", addr, err))
		}

		c, chans, reqs, err := ssh.NewClientConn(conn, addr, cfg)
		if err != nil {
			conn.Close()
			return nil, nil, remote.Fatal(errors.Errorf("ssh handshake with %s: %w", addr, err))
		}
		sshClient := ssh.NewClient(c, chans, reqs)

		sess, err := sftp.NewClient(sshClient)
		if err != nil {
			sshClient.Close()
			return nil, nil, remote.Fatal(errors.Errorf("starting sftp subsystem on %s: %w", addr, err))
		}
		zerolog.Ctx(ctx).Debug().Str("addr", addr).Str("user", user).Msg("sftp session opened")
		return sess, sshClient, nil
	}

	return newClient(dial, args.ResourceID, user+"@"+addr), nil
}

func newClient(dial dialFunc, dir, target string) *Client {
	return &Client{
		dial:   dial,
		dir:    path.Clean("/" + strings.TrimPrefix(dir, "/")),
		target: target,
	}
}

// parseTarget splits user@host[:port]
func parseTarget(store string) (user, addr string, err error) {
	user, host, ok := strings.Cut(store, "@")
	if !ok || user == "" || host == "" {
		return "", "", errors.Errorf("sftp store must be user@host[:port], got %q", store)
	}
	if _, _, err := net.SplitHostPort(host); err != nil {
		host = net.JoinHostPort(host, DefaultPort)
	}
	return user, host, nil
}

func authMethods(args provider.Args) ([]ssh.AuthMethod, error) {
	if args.AuthToken != "" {
		return []ssh.AuthMethod{ssh.Password(args.AuthToken)}, nil
	}

	candidates := []string{args.Option("identity", "")}
	if candidates[0] == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, errors.Errorf("locating home directory: %w", err)
		}
		candidates = []string{
			filepath.Join(home, ".ssh", "id_ed25519"),
			filepath.Join(home, ".ssh", "id_rsa"),
		}
	}

	for _, p := range candidates {
		key, err := os.ReadFile(p)
		if err != nil {
			continue
		}
		signer, err := ssh.ParsePrivateKey(key)
		if err != nil {
			return nil, errors.Errorf("parsing private key %s: %w", p, err)
		}
		return []ssh.AuthMethod{ssh.PublicKeys(signer)}, nil
	}
	return nil, errors.Errorf("no password and no private key found for the sftp backend")
}

func hostKeyCallback(args provider.Args) (ssh.HostKeyCallback, error) {
	if args.Option("insecure_ignore_host_key", "") == "true" {
		return ssh.InsecureIgnoreHostKey(), nil
	}

	file := args.Option("known_hosts", "")
	if file == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, errors.Errorf("locating home directory: %w", err)
		}
		file = filepath.Join(home, ".ssh", "known_hosts")
	}

	cb, err := knownhosts.New(file)
	if err != nil {
		return nil, errors.Errorf("loading known hosts %s: %w", file, err)
	}
	return cb, nil
}

// Describe names the server and directory
func (c *Client) Describe() string {
	return fmt.Sprintf("sftp://%s%s", c.target, c.dir)
}

func (c *Client) session(ctx context.Context) (*sftp.Client, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.sess != nil {
		return c.sess, nil
	}
	sess, closer, err := c.dial(ctx)
	if err != nil {
		return nil, err
	}
	c.sess, c.closer = sess, closer
	return sess, nil
}

// drop forgets sess if it is still the current session
func (c *Client) drop(sess *sftp.Client) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.sess != sess {
		return
	}
	_ = c.sess.Close()
	if c.closer != nil {
		_ = c.closer.Close()
	}
	c.sess, c.closer = nil, nil
}

func (c *Client) remotePath(key string) string {
	return path.Join(c.dir, key)
}

// 📤 Put writes content to the file for key, creating parent directories
func (c *Client) Put(ctx context.Context, key string, content []byte) error {
	sess, err := c.session(ctx)
	if err != nil {
		return err
	}

	p := c.remotePath(key)
	if err := sess.MkdirAll(path.Dir(p)); err != nil {
		return c.classify(sess, errors.Errorf("creating %s: %w", path.Dir(p), err))
	}

	f, err := sess.OpenFile(p, os.O_WRONLY|os.O_CREATE|os.O_TRUNC)
	if err != nil {
		return c.classify(sess, errors.Errorf("opening %s: %w", p, err))
	}

	if _, err := f.Write(content); err != nil {
		f.Close()
		return c.classify(sess, errors.Errorf("writing %s: %w", p, err))
	}
	if err := f.Close(); err != nil {
		return c.classify(sess, errors.Errorf("closing %s: %w", p, err))
	}
	return nil
}

// 🗑️ Delete removes the file for key. A missing file is a fatal error matching remote.ErrNotFound
func (c *Client) Delete(ctx context.Context, key string) error {
	sess, err := c.session(ctx)
	if err != nil {
		return err
	}

	p := c.remotePath(key)
	if err := sess.Remove(p); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return remote.Fatal(errors.Errorf("removing %s: %w", p, remote.ErrNotFound))
		}
		return c.classify(sess, errors.Errorf("removing %s: %w", p, err))
	}
	return nil
}

// Close ends the current session
func (c *Client) Close() error {
	c.mu.Lock()
	sess := c.sess
	c.mu.Unlock()

	if sess != nil {
		c.drop(sess)
	}
	return nil
}

// classify treats server answers as fatal and transport failures as transient,
// dropping the session so the next attempt redials
func (c *Client) classify(sess *sftp.Client, err error) error {
	var status *sftp.StatusError
	if errors.As(err, &status) || errors.Is(err, os.ErrNotExist) || errors.Is(err, os.ErrPermission) {
		return remote.Fatal(err)
	}
	c.drop(sess)
	return remote.Transient(err)
}
