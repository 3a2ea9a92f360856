// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: BUSL-1.1

package event

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConvertArgs(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		args []any
		want map[string]any
	}{
		{
			name: "no-args",
			args: []any{},
			want: nil,
		},
		{
			name: "one-pair",
			args: []any{"name", "alice"},
			want: map[string]any{"name": "alice"},
		},
		{
			name: "missing-key",
			args: []any{"name", "alice", "dangling"},
			want: map[string]any{"name": "alice", MissingKey: "dangling"},
		},
		{
			name: "non-string-key",
			args: []any{42, "meaning"},
			want: map[string]any{"42": "meaning"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert := assert.New(t)
			got := ConvertArgs(tt.args...)
			assert.Equal(tt.want, got)
		})
	}
}

func TestWriteSysEvent(t *testing.T) {
	c, sinkPath := TestEventerConfig(t, "sys")
	eventer := TestEventer(t, c)
	ctx, err := NewEventerContext(context.Background(), eventer)
	require.NoError(t, err)

	WriteSysEvent(ctx, "test.op", "hello", "worker", 3)

	b, err := os.ReadFile(sinkPath)
	require.NoError(t, err)
	got := string(b)
	assert.Contains(t, got, "system event")
	assert.Contains(t, got, "test.op")
	assert.Contains(t, got, "hello")
}

func TestWriteError(t *testing.T) {
	c, sinkPath := TestEventerConfig(t, "err")
	eventer := TestEventer(t, c)
	ctx, err := NewEventerContext(context.Background(), eventer)
	require.NoError(t, err)

	WriteError(ctx, "test.op", errors.New("something bad"), WithInfoMsg("context of the failure"))

	b, err := os.ReadFile(sinkPath)
	require.NoError(t, err)
	got := string(b)
	assert.Contains(t, got, "error event")
	assert.Contains(t, got, "something bad")
	assert.Contains(t, got, "context of the failure")
}

func TestWriteObservation(t *testing.T) {
	t.Run("enabled", func(t *testing.T) {
		c, sinkPath := TestEventerConfig(t, "obs")
		eventer := TestEventer(t, c)
		ctx, err := NewEventerContext(context.Background(), eventer)
		require.NoError(t, err)

		err = WriteObservation(ctx, "test.op", WithHeader("targets", 12))
		require.NoError(t, err)

		b, err := os.ReadFile(sinkPath)
		require.NoError(t, err)
		assert.Contains(t, string(b), "observation event")
	})
	t.Run("disabled", func(t *testing.T) {
		c, sinkPath := TestEventerConfig(t, "obs-disabled")
		c.ObservationsEnabled = false
		eventer := TestEventer(t, c)
		ctx, err := NewEventerContext(context.Background(), eventer)
		require.NoError(t, err)

		err = WriteObservation(ctx, "test.op", WithHeader("targets", 12))
		require.NoError(t, err)

		_, err = os.Stat(sinkPath)
		assert.True(t, os.IsNotExist(err))
	})
	t.Run("missing-payload", func(t *testing.T) {
		c, _ := TestEventerConfig(t, "obs-missing")
		eventer := TestEventer(t, c)
		ctx, err := NewEventerContext(context.Background(), eventer)
		require.NoError(t, err)

		err = WriteObservation(ctx, "test.op")
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrInvalidParameter)
	})
}
