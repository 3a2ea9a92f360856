// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: BUSL-1.1

package run

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/hashicorp/parade/internal/cmd/base"
	"github.com/hashicorp/parade/internal/cmd/config"
	"github.com/mitchellh/cli"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommand_Run(t *testing.T) {
	tests := []struct {
		name         string
		args         []string
		wantCode     int
		wantContains string
	}{
		{
			name:         "no-targets",
			args:         []string{},
			wantCode:     base.CommandCliError,
			wantContains: "No test targets given",
		},
		{
			name:         "unknown-flag",
			args:         []string{"-not-a-flag", "./pkg"},
			wantCode:     base.CommandCliError,
			wantContains: "flag provided but not defined",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert, require := assert.New(t), require.New(t)
			ui := cli.NewMockUi()
			c := &Command{Command: base.NewCommand(ui)}

			code := c.Run(tt.args)
			require.Equal(tt.wantCode, code)
			assert.Contains(ui.ErrorWriter.String(), tt.wantContains)
		})
	}
}

func TestCommand_Flags(t *testing.T) {
	t.Parallel()
	assert, require := assert.New(t), require.New(t)

	ui := cli.NewMockUi()
	c := &Command{Command: base.NewCommand(ui)}

	f := c.Flags()
	require.NoError(f.Parse([]string{
		"-workers", "4",
		"-benchmark",
		"-junitxml", "report.xml",
		"-per-target-timeout", "90s",
		"-env", "A=1",
		"-env", "B=2",
		"-template", "custom_template",
		"-go-binary", "/usr/local/go/bin/go",
		"./internal/foo",
	}))

	assert.Equal(4, c.flagWorkers)
	assert.True(c.flagBenchmark)
	assert.Equal("report.xml", c.flagJunitXml)
	assert.Equal(90*time.Second, c.flagPerTargetTimeout)
	assert.Equal([]string{"A=1", "B=2"}, c.flagEnv)
	assert.Equal("custom_template", c.flagTemplate)
	assert.Equal("/usr/local/go/bin/go", c.flagGoBinary)
	assert.Equal([]string{"./internal/foo"}, f.Args())
}

func TestTelemetryEndpoint(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name      string
		telemetry *config.Telemetry
		want      string
	}{
		{
			name:      "configured",
			telemetry: &config.Telemetry{Url: "https://telemetry.example.com/v1/run"},
			want:      "https://telemetry.example.com/v1/run",
		},
		{
			name:      "no-endpoint-means-off",
			telemetry: &config.Telemetry{},
			want:      "",
		},
		{
			name:      "disabled-wins-over-url",
			telemetry: &config.Telemetry{Disabled: true, Url: "https://telemetry.example.com/v1/run"},
			want:      "",
		},
		{
			name:      "missing-stanza",
			telemetry: nil,
			want:      "",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, telemetryEndpoint(&config.Config{Telemetry: tt.telemetry}))
		})
	}
}

func TestCommand_sendTelemetry(t *testing.T) {
	t.Setenv("NO_TELEMETRY", "")
	t.Setenv("CI", "")

	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	ui := cli.NewMockUi()
	c := &Command{Command: base.NewCommand(ui)}
	ctx := context.Background()

	// No endpoint configured: nothing may leave the process.
	c.sendTelemetry(ctx, &config.Config{Telemetry: &config.Telemetry{}}, 2, 4, 0, time.Second)
	assert.Equal(t, int32(0), atomic.LoadInt32(&calls))

	c.sendTelemetry(ctx, &config.Config{Telemetry: &config.Telemetry{Url: srv.URL}}, 2, 4, 0, time.Second)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestCommand_Help(t *testing.T) {
	t.Parallel()
	assert := assert.New(t)

	ui := cli.NewMockUi()
	c := &Command{Command: base.NewCommand(ui)}

	help := c.Help()
	assert.Contains(help, "parade run [options] TARGET")
	assert.Contains(help, "-workers")
	assert.Contains(help, "-junitxml")
}
