// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: BUSL-1.1

package runner

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/hashicorp/parade/internal/errors"
	"github.com/hashicorp/parade/internal/event"
)

// slowestTestCount caps the per-test section of the timing report.
const slowestTestCount = 10

type slowTest struct {
	target string
	test   TestResult
}

// slowestTests returns up to n tests across all targets, slowest first.
func slowestTests(results []*TargetResult, n int) []slowTest {
	var all []slowTest
	for _, res := range results {
		for _, t := range res.Tests {
			all = append(all, slowTest{target: res.Target, test: t})
		}
	}
	sort.Slice(all, func(i, j int) bool { return all[i].test.Elapsed > all[j].test.Elapsed })
	if len(all) > n {
		all = all[:n]
	}
	return all
}

// writeBenchmark prints a per-target timing report, slowest first, the
// slowest individual tests, and the serial/wall comparison that tells you
// whether adding workers is still paying off.
func (r *Runner) writeBenchmark(ctx context.Context, results []*TargetResult, wall time.Duration) error {
	const op = "runner.(Runner).writeBenchmark"

	sorted := make([]*TargetResult, len(results))
	copy(sorted, results)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Elapsed > sorted[j].Elapsed })

	var serial time.Duration
	for _, res := range sorted {
		serial += res.Elapsed
	}

	w := r.benchWriter
	if _, err := fmt.Fprintf(w, "\nTarget timing (slowest first):\n"); err != nil {
		return errors.New(ctx, errors.Io, op, "could not write timing report", errors.WithWrap(err))
	}
	for _, res := range sorted {
		passed, failed, skipped := res.Counts()
		if _, err := fmt.Fprintf(w, "  %9.2fs  %s (%d passed, %d failed, %d skipped)\n",
			res.Elapsed.Seconds(), res.Target, passed, failed, skipped); err != nil {
			return errors.New(ctx, errors.Io, op, "could not write timing report", errors.WithWrap(err))
		}
	}
	if slow := slowestTests(results, slowestTestCount); len(slow) > 0 {
		if _, err := fmt.Fprintf(w, "\nSlowest tests:\n"); err != nil {
			return errors.New(ctx, errors.Io, op, "could not write timing report", errors.WithWrap(err))
		}
		for _, st := range slow {
			if _, err := fmt.Fprintf(w, "  %9.2fs  %s (%s)\n",
				st.test.Elapsed.Seconds(), st.test.Name, st.target); err != nil {
				return errors.New(ctx, errors.Io, op, "could not write timing report", errors.WithWrap(err))
			}
		}
	}

	speedup := 1.0
	if wall > 0 {
		speedup = serial.Seconds() / wall.Seconds()
	}
	if _, err := fmt.Fprintf(w, "\n  serial: %.2fs  wall: %.2fs  speedup: %.1fx  workers: %d\n",
		serial.Seconds(), wall.Seconds(), speedup, r.workers); err != nil {
		return errors.New(ctx, errors.Io, op, "could not write timing report", errors.WithWrap(err))
	}

	_ = event.WriteObservation(ctx, op, event.WithDetails(
		"msg", "run timing",
		"serial_ms", serial.Milliseconds(),
		"wall_ms", wall.Milliseconds(),
		"workers", r.workers,
	))
	return nil
}
