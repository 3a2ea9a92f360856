// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: BUSL-1.1

package telemetry

import (
	"net/http"
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
	withURL        string
	withHTTPClient *http.Client
}

func getDefaultOptions() options {
	return options{
		withURL: DefaultURL,
	}
}

// WithURL provides an alternate endpoint to post reports to.
func WithURL(url string) Option {
	return func(o *options) {
		o.withURL = url
	}
}

// WithHTTPClient provides an alternate http client, used in tests.
func WithHTTPClient(c *http.Client) Option {
	return func(o *options) {
		o.withHTTPClient = c
	}
}
