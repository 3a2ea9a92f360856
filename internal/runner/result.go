// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: BUSL-1.1

package runner

import (
	"time"
)

// TestStatus is the terminal status of a single test.
type TestStatus string

const (
	StatusPass TestStatus = "pass"
	StatusFail TestStatus = "fail"
	StatusSkip TestStatus = "skip"
)

// TestResult is the outcome of a single test within a target.
type TestResult struct {
	// Name of the test, e.g. "TestAccountLifecycle/duplicate_email".
	Name string

	// Status is the terminal status reported for the test.
	Status TestStatus

	// Elapsed is the test's own runtime as reported by the test binary.
	Elapsed time.Duration

	// Output holds the lines the test printed, in order.
	Output []string
}

// TargetResult is the outcome of one test target run against its own
// database.
type TargetResult struct {
	// Target is the identifier that was run, e.g. "./internal/accounts".
	Target string

	// DatabaseName is the database the target ran against, empty if
	// provisioning failed.
	DatabaseName string

	// Tests has one entry per test the target ran.
	Tests []TestResult

	// Output holds target-level lines not attributed to any single test.
	Output []string

	// Err is set when the target could not be run to completion: database
	// provisioning failed, the build failed or the test binary could not be
	// executed. Test failures are not an Err.
	Err error

	// Start and Elapsed cover the whole target, provisioning included.
	Start   time.Time
	Elapsed time.Duration

	index int
}

// Failures counts the failed tests in the result. A target that could not
// run at all counts as a single failure, otherwise an unbuildable target
// would make the run look clean.
func (r *TargetResult) Failures() int {
	var n int
	for _, t := range r.Tests {
		if t.Status == StatusFail {
			n++
		}
	}
	if n == 0 && r.Err != nil {
		n = 1
	}
	return n
}

// Counts returns the number of passed, failed and skipped tests.
func (r *TargetResult) Counts() (passed, failed, skipped int) {
	for _, t := range r.Tests {
		switch t.Status {
		case StatusPass:
			passed++
		case StatusFail:
			failed++
		case StatusSkip:
			skipped++
		}
	}
	return passed, failed, skipped
}
