// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: BUSL-1.1

package event

import "errors"

// Errors from this package are kept as simple stdlib sentinels so the
// application error package can depend on eventing without a cycle.
var (
	// ErrInvalidParameter defines a value for invalid parameter errors
	ErrInvalidParameter = errors.New("invalid parameter")

	// ErrMaxRetries defines a value for exceeding max retries
	ErrMaxRetries = errors.New("too many retries")

	// ErrIo defines a value for Io errors
	ErrIo = errors.New("error during io operation")

	// ErrInvalidOperation defines a value for an invalid operation
	ErrInvalidOperation = errors.New("invalid operation")
)
