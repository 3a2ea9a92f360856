// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: BUSL-1.1

package schema

import (
	"context"
	"database/sql"

	"github.com/hashicorp/parade/internal/db/template"
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
	withTemplate      string
	withMigrationsURL string
	withForce         bool
	withOpenFunc      func(ctx context.Context, url string) (*sql.DB, error)
	withMigrateFunc   func(ctx context.Context, sourceURL, dbURL string) (bool, error)
}

func getDefaultOptions() options {
	return options{
		withTemplate:    template.DefaultTemplate,
		withMigrateFunc: runMigrations,
	}
}

// WithTemplate provides the name of the template database to manage.
func WithTemplate(name string) Option {
	return func(o *options) {
		o.withTemplate = name
	}
}

// WithMigrationsURL provides the migration source, e.g. "file://migrations".
// When empty, the template database is created without running migrations.
func WithMigrationsURL(sourceURL string) Option {
	return func(o *options) {
		o.withMigrationsURL = sourceURL
	}
}

// WithForce provides an option to drop and rebuild an existing template.
func WithForce(force bool) Option {
	return func(o *options) {
		o.withForce = force
	}
}

// WithOpenFunc provides an alternate connection opener, used in tests.
func WithOpenFunc(open func(ctx context.Context, url string) (*sql.DB, error)) Option {
	return func(o *options) {
		o.withOpenFunc = open
	}
}

// WithMigrateFunc provides an alternate migration runner, used in tests.
func WithMigrateFunc(fn func(ctx context.Context, sourceURL, dbURL string) (bool, error)) Option {
	return func(o *options) {
		o.withMigrateFunc = fn
	}
}
