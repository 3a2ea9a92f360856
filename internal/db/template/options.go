// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: BUSL-1.1

package template

import (
	"context"
	"database/sql"
)

// GetOpts - iterate the inbound Options and return a struct
func GetOpts(opt ...Option) Options {
	opts := getDefaultOptions()
	for _, o := range opt {
		if o != nil {
			o(&opts)
		}
	}
	return opts
}

// Option - how Options are passed as arguments
type Option func(*Options)

// Options - how Options are represented
type Options struct {
	withDialect        string
	withTemplate       string
	withDatabasePrefix string
	withOpenFunc       func(ctx context.Context, url string) (*sql.DB, error)
}

func getDefaultOptions() Options {
	return Options{
		withDialect:        Postgres,
		withTemplate:       DefaultTemplate,
		withDatabasePrefix: DefaultDatabasePrefix,
	}
}

// WithDialect provides a dialect. Only Postgres is supported.
func WithDialect(dialect string) Option {
	return func(o *Options) {
		o.withDialect = dialect
	}
}

// WithTemplate provides the template database to clone from.
func WithTemplate(template string) Option {
	return func(o *Options) {
		o.withTemplate = template
	}
}

// WithDatabasePrefix provides the prefix for generated database names.
func WithDatabasePrefix(prefix string) Option {
	return func(o *Options) {
		o.withDatabasePrefix = prefix
	}
}

// WithOpenFunc provides an alternate connection opener, used in tests.
func WithOpenFunc(open func(ctx context.Context, url string) (*sql.DB, error)) Option {
	return func(o *Options) {
		o.withOpenFunc = open
	}
}
