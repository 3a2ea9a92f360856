// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: BUSL-1.1

package telemetry

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/hashicorp/parade/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnabled(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		want bool
	}{
		{name: "default-on", env: map[string]string{DisableEnvVar: "", "CI": ""}, want: true},
		{name: "no-telemetry", env: map[string]string{DisableEnvVar: "1", "CI": ""}, want: false},
		{name: "no-telemetry-any-value", env: map[string]string{DisableEnvVar: "false", "CI": ""}, want: false},
		{name: "ci", env: map[string]string{DisableEnvVar: "", "CI": "true"}, want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			assert.Equal(t, tt.want, Enabled())
		})
	}
}

func TestReporter_Send(t *testing.T) {
	ctx := context.Background()

	t.Run("posts-report", func(t *testing.T) {
		t.Setenv(DisableEnvVar, "")
		t.Setenv("CI", "")
		assert, require := assert.New(t), require.New(t)

		var got Report
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(http.MethodPost, r.Method)
			assert.Equal("application/json", r.Header.Get("Content-Type"))
			require.NoError(json.NewDecoder(r.Body).Decode(&got))
			w.WriteHeader(http.StatusNoContent)
		}))
		defer srv.Close()

		rep, err := NewReporter(ctx, WithURL(srv.URL))
		require.NoError(err)
		require.True(rep.Enabled())

		require.NoError(rep.Send(ctx, Report{
			Version:    "0.1.0",
			Targets:    4,
			Workers:    2,
			Failures:   1,
			DurationMS: 1500,
		}))
		assert.Equal(4, got.Targets)
		assert.Equal(1, got.Failures)
		assert.NotEmpty(got.OS)
		assert.NotEmpty(got.GoVersion)
		assert.False(got.Timestamp.IsZero())
	})

	t.Run("no-telemetry-sends-nothing", func(t *testing.T) {
		t.Setenv(DisableEnvVar, "1")
		assert, require := assert.New(t), require.New(t)

		var calls int32
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			atomic.AddInt32(&calls, 1)
		}))
		defer srv.Close()

		rep, err := NewReporter(ctx, WithURL(srv.URL))
		require.NoError(err)
		assert.False(rep.Enabled())
		require.NoError(rep.Send(ctx, Report{}))
		assert.Zero(atomic.LoadInt32(&calls))
	})

	t.Run("server-error", func(t *testing.T) {
		t.Setenv(DisableEnvVar, "")
		t.Setenv("CI", "")
		assert, require := assert.New(t), require.New(t)

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusForbidden)
		}))
		defer srv.Close()

		rep, err := NewReporter(ctx, WithURL(srv.URL))
		require.NoError(err)
		err = rep.Send(ctx, Report{})
		require.Error(err)
		assert.True(errors.Match(errors.T(errors.Unavailable), err))
	})

	t.Run("missing-url", func(t *testing.T) {
		_, err := NewReporter(ctx, WithURL(""))
		require.Error(t, err)
		assert.True(t, errors.Match(errors.T(errors.InvalidParameter), err))
	})
}
