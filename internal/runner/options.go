// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: BUSL-1.1

package runner

import (
	"context"
	"io"
	"time"
)

// getOpts - iterate the inbound Options and return a struct.
func getOpts(opt ...Option) options {
	opts := getDefaultOptions()
	for _, o := range opt {
		if o != nil {
			o(&opts)
		}
	}
	return opts
}

// Option - how Options are passed as arguments.
type Option func(*options)

// options = how options are represented
type options struct {
	withBenchmark        bool
	withJUnitXML         string
	withWorkers          int
	withPerTargetTimeout time.Duration
	withGoBinary         string
	withExtraEnv         []string
	withBenchmarkWriter  io.Writer
	withExecFunc         execFunc
}

type execFunc func(ctx context.Context, target, dbURL string, res *TargetResult) error

func getDefaultOptions() options {
	return options{
		withGoBinary: "go",
	}
}

// WithBenchmark provides an option to print a per-target timing report after
// the run.
func WithBenchmark(benchmark bool) Option {
	return func(o *options) {
		o.withBenchmark = benchmark
	}
}

// WithJUnitXML provides a path to write a JUnit XML report to after the run.
func WithJUnitXML(path string) Option {
	return func(o *options) {
		o.withJUnitXML = path
	}
}

// WithWorkers provides the number of concurrent workers. Zero or less means
// one worker per CPU.
func WithWorkers(n int) Option {
	return func(o *options) {
		o.withWorkers = n
	}
}

// WithPerTargetTimeout provides a deadline applied to each target
// individually. Zero means no deadline.
func WithPerTargetTimeout(d time.Duration) Option {
	return func(o *options) {
		o.withPerTargetTimeout = d
	}
}

// WithGoBinary provides the go binary used to run targets.
func WithGoBinary(path string) Option {
	return func(o *options) {
		o.withGoBinary = path
	}
}

// WithExtraEnv provides additional "key=value" entries for the environment of
// spawned test processes.
func WithExtraEnv(env []string) Option {
	return func(o *options) {
		o.withExtraEnv = env
	}
}

// WithBenchmarkWriter provides the destination for the timing report.
func WithBenchmarkWriter(w io.Writer) Option {
	return func(o *options) {
		o.withBenchmarkWriter = w
	}
}

// WithExecFunc provides an alternate target executor, used in tests.
func WithExecFunc(fn execFunc) Option {
	return func(o *options) {
		o.withExecFunc = fn
	}
}
