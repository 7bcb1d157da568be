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

package s3

import (
	"context"
	"io"
	"net/http"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
	smithyhttp "github.com/aws/smithy-go/transport/http"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/walteh/themesync/pkg/provider"
	"github.com/walteh/themesync/pkg/remote"
	"gitlab.com/tozd/go/errors"
)

type object struct {
	body        string
	contentType string
}

type fakeAPI struct {
	objects map[string]object
	deleted []string
	err     error
}

func (f *fakeAPI) PutObject(ctx context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	b, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	if f.objects == nil {
		f.objects = map[string]object{}
	}
	f.objects[aws.ToString(in.Bucket)+"/"+aws.ToString(in.Key)] = object{body: string(b), contentType: aws.ToString(in.ContentType)}
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeAPI) HeadObject(ctx context.Context, in *s3.HeadObjectInput, _ ...func(*s3.Options)) (*s3.HeadObjectOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	if _, ok := f.objects[aws.ToString(in.Bucket)+"/"+aws.ToString(in.Key)]; !ok {
		return nil, &smithy.OperationError{ServiceID: "S3", OperationName: "HeadObject", Err: &types.NotFound{}}
	}
	return &s3.HeadObjectOutput{}, nil
}

func (f *fakeAPI) DeleteObject(ctx context.Context, in *s3.DeleteObjectInput, _ ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	k := aws.ToString(in.Bucket) + "/" + aws.ToString(in.Key)
	delete(f.objects, k)
	f.deleted = append(f.deleted, k)
	return &s3.DeleteObjectOutput{}, nil
}

func TestPutAndDelete(t *testing.T) {
	ctx := context.Background()
	api := &fakeAPI{}
	c := NewWithAPI(api, "themes", "/dev/")

	require.NoError(t, c.Put(ctx, "assets/app.css", []byte("body{}")))
	require.NoError(t, c.Put(ctx, "config/settings_data.json", []byte(`{"current":{}}`)))
	require.NoError(t, c.Put(ctx, "assets/old.js", []byte("old()")))
	require.NoError(t, c.Delete(ctx, "assets/old.js"))

	assert.Equal(t, object{body: "body{}", contentType: "text/css; charset=utf-8"}, api.objects["themes/dev/assets/app.css"])
	assert.Equal(t, "application/json", api.objects["themes/dev/config/settings_data.json"].contentType)
	assert.Equal(t, []string{"themes/dev/assets/old.js"}, api.deleted)
	assert.NotContains(t, api.objects, "themes/dev/assets/old.js")
	assert.Equal(t, "s3://themes/dev", c.Describe())
}

func TestDeleteMissingObject(t *testing.T) {
	ctx := context.Background()
	api := &fakeAPI{}
	c := NewWithAPI(api, "themes", "dev")

	err := c.Delete(ctx, "assets/gone.js")
	require.Error(t, err)
	assert.ErrorIs(t, err, remote.ErrNotFound)
	assert.False(t, remote.IsTransient(err))
	assert.Empty(t, api.deleted)

	api.err = &smithy.OperationError{ServiceID: "S3", OperationName: "HeadObject", Err: responseError(http.StatusNotFound)}
	err = c.Delete(ctx, "assets/gone.js")
	assert.ErrorIs(t, err, remote.ErrNotFound)
}

func TestNoPrefix(t *testing.T) {
	api := &fakeAPI{}
	c := NewWithAPI(api, "themes", "")
	require.NoError(t, c.Put(context.Background(), "layout/theme.liquid", []byte("x")))
	assert.Contains(t, api.objects, "themes/layout/theme.liquid")
}

func responseError(code int) error {
	return &smithyhttp.ResponseError{
		Response: &smithyhttp.Response{Response: &http.Response{StatusCode: code}},
		Err:      errors.New(http.StatusText(code)),
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name          string
		err           error
		wantTransient bool
	}{
		{name: "slow_down", err: &smithy.GenericAPIError{Code: "SlowDown", Message: "reduce your request rate"}, wantTransient: true},
		{name: "internal_error", err: &smithy.GenericAPIError{Code: "InternalError"}, wantTransient: true},
		{name: "access_denied", err: &smithy.GenericAPIError{Code: "AccessDenied"}},
		{name: "no_such_bucket", err: &smithy.GenericAPIError{Code: "NoSuchBucket"}},
		{name: "http_503", err: responseError(http.StatusServiceUnavailable), wantTransient: true},
		{name: "http_403", err: responseError(http.StatusForbidden)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewWithAPI(&fakeAPI{err: &smithy.OperationError{ServiceID: "S3", OperationName: "PutObject", Err: tt.err}}, "b", "p")
			err := c.Put(context.Background(), "a.txt", []byte("a"))
			require.Error(t, err)
			assert.Equal(t, tt.wantTransient, remote.IsTransient(err))
			assert.Contains(t, err.Error(), "s3://b/p/a.txt")
		})
	}
}

func TestNew(t *testing.T) {
	ctx := context.Background()

	_, err := New(ctx, provider.Args{})
	assert.ErrorContains(t, err, "bucket")

	_, err = New(ctx, provider.Args{StoreIdentifier: "b", AuthToken: "no-colon"})
	assert.ErrorContains(t, err, "ACCESS_KEY_ID:SECRET_ACCESS_KEY")

	c, err := New(ctx, provider.Args{
		StoreIdentifier: "b",
		ResourceID:      "themes/dev",
		AuthToken:       "AKID:SECRET",
		Endpoint:        "http://127.0.0.1:9000",
	})
	require.NoError(t, err)
	assert.Equal(t, "s3://b/themes/dev", c.(*Client).Describe())
}
