package remote_test

import (
	"context"
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/walteh/themesync/pkg/remote"
	"gitlab.com/tozd/go/errors"
)

type sequentialClient struct {
	remote.Client
	seq bool
}

func (s sequentialClient) Sequential() bool { return s.seq }

func TestIsTransient(t *testing.T) {
	base := errors.New("boom")

	tests := []struct {
		name string
		err  error
		want bool
	}{
		{name: "nil", err: nil, want: false},
		{name: "plain_error", err: base, want: false},
		{name: "marked_transient", err: remote.Transient(base), want: true},
		{name: "marked_fatal", err: remote.Fatal(base), want: false},
		{name: "wrapped_transient", err: errors.Errorf("uploading: %w", remote.Transient(base)), want: true},
		{name: "fatal_wins_over_inner_transient", err: remote.Fatal(remote.Transient(base)), want: false},
		{name: "deadline", err: errors.Errorf("put: %w", context.DeadlineExceeded), want: true},
		{name: "canceled", err: context.Canceled, want: false},
		{name: "net_error", err: &net.OpError{Op: "dial", Err: base}, want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, remote.IsTransient(tt.err))
		})
	}
}

func TestMarkersKeepCause(t *testing.T) {
	base := errors.New("rate limited")

	err := remote.Transient(base)
	assert.True(t, errors.Is(err, base))
	assert.Equal(t, "transient: rate limited", err.Error())

	err = remote.Fatal(base)
	assert.True(t, errors.Is(err, base))
	assert.Equal(t, "fatal: rate limited", err.Error())

	assert.NoError(t, remote.Transient(nil))
	assert.NoError(t, remote.Fatal(nil))
}

func TestIsSequential(t *testing.T) {
	assert.True(t, remote.IsSequential(sequentialClient{seq: true}))
	assert.False(t, remote.IsSequential(sequentialClient{seq: false}))
	assert.False(t, remote.IsSequential(nil))
}
