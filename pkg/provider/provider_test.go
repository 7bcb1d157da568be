package provider_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/walteh/themesync/gen/mockery"
	"github.com/walteh/themesync/pkg/provider"
	_ "github.com/walteh/themesync/pkg/provider/all"
	"github.com/walteh/themesync/pkg/remote"
)

func TestBuiltinsRegistered(t *testing.T) {
	assert.Subset(t, provider.Names(), []string{"dir", "github", "s3", "sftp", "theme"})
}

func TestNewUnknownBackend(t *testing.T) {
	_, err := provider.New(context.Background(), "ftp", provider.Args{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "backend ftp not found")
	assert.Contains(t, err.Error(), "theme")
}

func TestNewDefaultsToTheme(t *testing.T) {
	_, err := provider.New(context.Background(), "", provider.Args{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "creating theme backend")
}

func TestRegisterCustom(t *testing.T) {
	m := mockery.NewMockClient_remote(t)
	provider.Register("test-mock", func(ctx context.Context, args provider.Args) (remote.Client, error) {
		assert.Equal(t, "eu-west-1", args.Option("region", "us-east-1"))
		assert.Equal(t, "fallback", args.Option("missing", "fallback"))
		return m, nil
	})

	c, err := provider.New(context.Background(), "test-mock", provider.Args{Options: map[string]string{"region": "eu-west-1"}})
	require.NoError(t, err)
	assert.Same(t, m, c)
	assert.NoError(t, provider.Close(c))
}
