// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: BUSL-1.1

package base

// Exit codes returned by commands. A run that completes but observes test
// failures exits with CommandFailure so callers can distinguish failing
// tests from infrastructure or usage problems.
const (
	CommandSuccess  = 0
	CommandFailure  = 1
	CommandCliError = 2
)
