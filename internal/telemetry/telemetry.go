// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: BUSL-1.1

// Package telemetry reports anonymous run statistics. Reporting is skipped
// entirely when NO_TELEMETRY or CI is set; the opt-out is honored before any
// network activity happens.
package telemetry

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"runtime"
	"time"

	"github.com/hashicorp/go-cleanhttp"
	"github.com/hashicorp/go-retryablehttp"
	"github.com/hashicorp/parade/internal/errors"
	"github.com/hashicorp/parade/internal/event"
)

const (
	// DisableEnvVar turns telemetry off when set to any non-empty value.
	DisableEnvVar = "NO_TELEMETRY"

	// ciEnvVar is set by most CI systems; CI runs never report.
	ciEnvVar = "CI"

	// DefaultURL is the endpoint run reports are posted to.
	DefaultURL = "https://telemetry.parade-project.io/v1/run"

	defaultTimeout = 3 * time.Second
)

// Enabled reports whether the environment allows telemetry.
func Enabled() bool {
	if os.Getenv(DisableEnvVar) != "" {
		return false
	}
	if os.Getenv(ciEnvVar) != "" {
		return false
	}
	return true
}

// Report is the payload posted after a run. It carries counts and platform
// facts only, never target names, database urls or test output.
type Report struct {
	Version    string    `json:"version"`
	Targets    int       `json:"targets"`
	Workers    int       `json:"workers"`
	Failures   int       `json:"failures"`
	DurationMS int64     `json:"duration_ms"`
	OS         string    `json:"os"`
	Arch       string    `json:"arch"`
	GoVersion  string    `json:"go_version"`
	Timestamp  time.Time `json:"timestamp"`
}

// Reporter posts run reports.
type Reporter struct {
	url     string
	client  *retryablehttp.Client
	enabled bool
}

// NewReporter creates a Reporter. Supported options: WithURL, WithHTTPClient.
// The reporter checks the environment once, at construction.
func NewReporter(ctx context.Context, opt ...Option) (*Reporter, error) {
	const op = "telemetry.NewReporter"
	opts := getOpts(opt...)
	if opts.withURL == "" {
		return nil, errors.New(ctx, errors.InvalidParameter, op, "missing url")
	}

	client := retryablehttp.NewClient()
	client.RetryMax = 2
	client.HTTPClient = cleanhttp.DefaultClient()
	client.HTTPClient.Timeout = defaultTimeout
	client.Logger = nil
	if opts.withHTTPClient != nil {
		client.HTTPClient = opts.withHTTPClient
	}

	return &Reporter{
		url:     opts.withURL,
		client:  client,
		enabled: Enabled(),
	}, nil
}

// Enabled reports whether this reporter will send anything.
func (r *Reporter) Enabled() bool {
	return r.enabled
}

// Send posts the report. When telemetry is disabled it returns nil without
// touching the network. Failures are reported as errors; callers decide
// whether a lost report is worth mentioning.
func (r *Reporter) Send(ctx context.Context, rep Report) error {
	const op = "telemetry.(Reporter).Send"
	if !r.enabled {
		return nil
	}
	if rep.Timestamp.IsZero() {
		rep.Timestamp = time.Now().UTC()
	}
	rep.OS = runtime.GOOS
	rep.Arch = runtime.GOARCH
	rep.GoVersion = runtime.Version()

	body, err := json.Marshal(rep)
	if err != nil {
		return errors.New(ctx, errors.Encode, op, "could not encode report", errors.WithWrap(err))
	}
	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodPost, r.url, bytes.NewReader(body))
	if err != nil {
		return errors.New(ctx, errors.InvalidParameter, op, "could not build request", errors.WithWrap(err))
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.client.Do(req)
	if err != nil {
		return errors.New(ctx, errors.Unavailable, op, "could not send report", errors.WithWrap(err), errors.WithoutEvent())
	}
	defer func() {
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
	}()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return errors.New(ctx, errors.Unavailable, op, fmt.Sprintf("report rejected with status %d", resp.StatusCode), errors.WithoutEvent())
	}

	_ = event.WriteObservation(ctx, op, event.WithDetails("msg", "telemetry report sent"))
	return nil
}
