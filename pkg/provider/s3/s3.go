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

// Package s3 writes theme assets as objects under a key prefix of an S3 bucket.
package s3

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
	"github.com/gabriel-vasile/mimetype"
	"github.com/rs/zerolog"
	"github.com/walteh/themesync/pkg/provider"
	"github.com/walteh/themesync/pkg/remote"
	"gitlab.com/tozd/go/errors"
)

const (
	Name          = "s3"
	DefaultRegion = "us-east-1"
)

func init() {
	provider.Register(Name, New)
}

// API is the slice of the S3 client this backend uses
type API interface {
	HeadObject(ctx context.Context, params *s3.HeadObjectInput, optFns ...func(*s3.Options)) (*s3.HeadObjectOutput, error)
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

// 🪣 Client maps remote keys to objects under prefix in bucket
type Client struct {
	api    API
	bucket string
	prefix string
}

// 🏭 New creates an S3 client. StoreIdentifier is the bucket, ResourceID the
// key prefix and AuthToken an optional "ACCESS_KEY_ID:SECRET" pair; without it
// the default credential chain applies. SDK retries are off, the task queue retries.
func New(ctx context.Context, args provider.Args) (remote.Client, error) {
	if args.StoreIdentifier == "" {
		return nil, errors.Errorf("store (bucket) is required for the s3 backend")
	}

	loadOpts := []func(*config.LoadOptions) error{
		config.WithRetryMaxAttempts(1),
	}

	if args.AuthToken != "" {
		id, secret, ok := strings.Cut(args.AuthToken, ":")
		if !ok || id == "" || secret == "" {
			return nil, errors.Errorf("s3 password must be ACCESS_KEY_ID:SECRET_ACCESS_KEY")
		}
		loadOpts = append(loadOpts, config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(id, secret, "")))
	}

	if region := args.Option("region", ""); region != "" {
		loadOpts = append(loadOpts, config.WithRegion(region))
	}

	if args.HTTPClient != nil {
		loadOpts = append(loadOpts, config.WithHTTPClient(args.HTTPClient))
	}

	cfg, err := config.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, errors.Errorf("loading aws config: %w", err)
	}
	if cfg.Region == "" {
		cfg.Region = DefaultRegion
	}

	var s3Opts []func(*s3.Options)
	if args.Endpoint != "" {
		s3Opts = append(s3Opts, func(o *s3.Options) {
			o.BaseEndpoint = aws.String(args.Endpoint)
			o.UsePathStyle = true
		})
	}

	zerolog.Ctx(ctx).Debug().Str("bucket", args.StoreIdentifier).Str("prefix", args.ResourceID).Str("region", cfg.Region).Msg("created s3 client")

	return NewWithAPI(s3.NewFromConfig(cfg, s3Opts...), args.StoreIdentifier, args.ResourceID), nil
}

// NewWithAPI wraps an existing S3 API implementation
func NewWithAPI(api API, bucket, prefix string) *Client {
	return &Client{
		api:    api,
		bucket: bucket,
		prefix: strings.Trim(prefix, "/"),
	}
}

// Describe names the bucket and prefix
func (c *Client) Describe() string {
	return fmt.Sprintf("s3://%s/%s", c.bucket, c.prefix)
}

func (c *Client) objectKey(key string) string {
	if c.prefix == "" {
		return key
	}
	return path.Join(c.prefix, key)
}

// 📤 Put uploads content as the object for key
func (c *Client) Put(ctx context.Context, key string, content []byte) error {
	_, err := c.api.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(c.bucket),
		Key:           aws.String(c.objectKey(key)),
		Body:          bytes.NewReader(content),
		ContentLength: aws.Int64(int64(len(content))),
		ContentType:   aws.String(contentType(key, content)),
	})
	if err != nil {
		return classify(errors.Errorf("putting s3://%s/%s: %w", c.bucket, c.objectKey(key), err))
	}
	return nil
}

// 🗑️ Delete removes the object for key. S3 deletes are idempotent, so the
// object is looked up first and a missing one fails with remote.ErrNotFound
func (c *Client) Delete(ctx context.Context, key string) error {
	_, err := c.api.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(c.bucket),
		Key:    aws.String(c.objectKey(key)),
	})
	if err != nil {
		if isNotFound(err) {
			return remote.Fatal(errors.Errorf("deleting s3://%s/%s: %w", c.bucket, c.objectKey(key), remote.ErrNotFound))
		}
		return classify(errors.Errorf("looking up s3://%s/%s: %w", c.bucket, c.objectKey(key), err))
	}

	_, err = c.api.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(c.bucket),
		Key:    aws.String(c.objectKey(key)),
	})
	if err != nil {
		return classify(errors.Errorf("deleting s3://%s/%s: %w", c.bucket, c.objectKey(key), err))
	}
	return nil
}

func isNotFound(err error) bool {
	var nf *types.NotFound
	if errors.As(err, &nf) {
		return true
	}
	var statusErr interface{ HTTPStatusCode() int }
	return errors.As(err, &statusErr) && statusErr.HTTPStatusCode() == http.StatusNotFound
}

func contentType(key string, content []byte) string {
	switch path.Ext(key) {
	case ".css":
		return "text/css; charset=utf-8"
	case ".js":
		return "text/javascript; charset=utf-8"
	case ".liquid":
		return "text/plain; charset=utf-8"
	}
	return mimetype.Detect(content).String()
}

var transientCodes = map[string]bool{
	"SlowDown":                true,
	"Throttling":              true,
	"ThrottlingException":     true,
	"RequestTimeout":          true,
	"RequestTimeoutException": true,
	"InternalError":           true,
	"ServiceUnavailable":      true,
}

// classify marks throttling, timeouts and 5xx answers transient and every
// other service answer fatal; transport errors fall through to remote.IsTransient
func classify(err error) error {
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) && transientCodes[apiErr.ErrorCode()] {
		return remote.Transient(err)
	}

	var statusErr interface{ HTTPStatusCode() int }
	if errors.As(err, &statusErr) {
		code := statusErr.HTTPStatusCode()
		if code == http.StatusTooManyRequests || code >= 500 {
			return remote.Transient(err)
		}
		return remote.Fatal(err)
	}

	if apiErr != nil {
		return remote.Fatal(err)
	}
	return err
}
