// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: BUSL-1.1

// Package runner runs test targets concurrently, each against its own
// database cloned from a template. Workers pull targets off a shared channel,
// provision a database, run "go test -json" with the database url injected
// into the child environment and aggregate the parsed results.
package runner

import (
	"context"
	"fmt"
	"io"
	"os"
	"runtime"
	"sort"
	"sync"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/hashicorp/go-secure-stdlib/parseutil"
	"github.com/hashicorp/parade/internal/errors"
	"github.com/hashicorp/parade/internal/event"
	"github.com/hashicorp/parade/internal/runner/junit"
	ua "go.uber.org/atomic"
)

const (
	// ConcurrentEnvVar gates concurrency. Unless it is set to a truthy value,
	// targets run serially on a single worker.
	ConcurrentEnvVar = "PARADE_CONCURRENT"

	// TestDBURLEnvVar is the variable spawned test processes read to find
	// their private database.
	TestDBURLEnvVar = "PARADE_TEST_DB_URL"
)

// ConcurrencyEnabled reports whether the environment allows concurrent
// workers. Malformed values count as off; a typo'd toggle should not let
// tests stampede a shared database server.
func ConcurrencyEnabled() bool {
	v := os.Getenv(ConcurrentEnvVar)
	if v == "" {
		return false
	}
	b, err := parseutil.ParseBool(v)
	if err != nil {
		return false
	}
	return b
}

// DatabaseProvider supplies a fresh database per target.
// *template.Manager satisfies it.
type DatabaseProvider interface {
	CreateDatabase(ctx context.Context) (cleanup func() error, url string, dbname string, err error)
}

// Runner runs test targets against isolated databases.
type Runner struct {
	provider DatabaseProvider

	workers          int
	benchmark        bool
	junitPath        string
	perTargetTimeout time.Duration
	goBinary         string
	extraEnv         []string
	benchWriter      io.Writer

	exec    execFunc
	running ua.Bool
}

// New creates a Runner.
//
// • provider must be provided and supplies a database per target.
//
// Supported options: WithBenchmark, WithJUnitXML, WithWorkers,
// WithPerTargetTimeout, WithGoBinary, WithExtraEnv, WithBenchmarkWriter.
func New(ctx context.Context, provider DatabaseProvider, opt ...Option) (*Runner, error) {
	const op = "runner.New"
	if provider == nil {
		return nil, errors.New(ctx, errors.InvalidParameter, op, "missing database provider")
	}

	opts := getOpts(opt...)
	workers := opts.withWorkers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if !ConcurrencyEnabled() && workers > 1 {
		event.WriteSysEvent(ctx, op, "concurrency not enabled, falling back to a single worker", "env", ConcurrentEnvVar)
		workers = 1
	}
	if opts.withGoBinary == "" {
		return nil, errors.New(ctx, errors.InvalidParameter, op, "missing go binary")
	}

	r := &Runner{
		provider:         provider,
		workers:          workers,
		benchmark:        opts.withBenchmark,
		junitPath:        opts.withJUnitXML,
		perTargetTimeout: opts.withPerTargetTimeout,
		goBinary:         opts.withGoBinary,
		extraEnv:         opts.withExtraEnv,
		benchWriter:      opts.withBenchmarkWriter,
		exec:             opts.withExecFunc,
	}
	if r.benchWriter == nil {
		r.benchWriter = os.Stdout
	}
	if r.exec == nil {
		r.exec = r.execTarget
	}
	return r, nil
}

// Workers returns the number of concurrent workers the runner will use.
func (r *Runner) Workers() int {
	return r.workers
}

// Run runs the targets and returns the number of failures. The count is the
// number of failed tests across all targets; a target that could not run at
// all contributes one failure. A non-nil error reports a problem with the run
// itself, not with the tests.
func (r *Runner) Run(ctx context.Context, targets []string) (int, error) {
	const op = "runner.(Runner).Run"
	if len(targets) == 0 {
		return 0, errors.New(ctx, errors.InvalidParameter, op, "missing test targets")
	}
	seen := make(map[string]struct{}, len(targets))
	for _, t := range targets {
		if t == "" {
			return 0, errors.New(ctx, errors.InvalidParameter, op, "empty test target")
		}
		if _, ok := seen[t]; ok {
			return 0, errors.New(ctx, errors.InvalidParameter, op, fmt.Sprintf("duplicate test target: %s", t))
		}
		seen[t] = struct{}{}
	}
	if !r.running.CompareAndSwap(false, true) {
		return 0, errors.New(ctx, errors.AlreadyRunning, op, "run already in progress")
	}
	defer r.running.Store(false)

	_ = event.WriteObservation(ctx, op, event.WithHeader(
		"msg", "starting run",
		"targets", len(targets),
		"workers", r.workers,
	))

	start := time.Now()
	work := make(chan int)
	resultCh := make(chan *TargetResult, len(targets))

	var wg sync.WaitGroup
	for i := 0; i < r.workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range work {
				resultCh <- r.runTarget(ctx, idx, targets[idx])
			}
		}()
	}

	go func() {
		defer close(work)
		for i := range targets {
			select {
			case work <- i:
			case <-ctx.Done():
				return
			}
		}
	}()

	wg.Wait()
	close(resultCh)

	results := make([]*TargetResult, 0, len(targets))
	for res := range resultCh {
		results = append(results, res)
	}
	sort.Slice(results, func(i, j int) bool { return results[i].index < results[j].index })

	var failures int
	for _, res := range results {
		failures += res.Failures()
	}

	// Attempt every report before giving up so one bad path doesn't
	// suppress the other report.
	var reportErrs *multierror.Error
	if r.junitPath != "" {
		if err := junit.WriteFile(ctx, r.junitPath, toSuites(results)); err != nil {
			reportErrs = multierror.Append(reportErrs, errors.Wrap(ctx, err, op))
		}
	}
	if r.benchmark {
		if err := r.writeBenchmark(ctx, results, time.Since(start)); err != nil {
			reportErrs = multierror.Append(reportErrs, errors.Wrap(ctx, err, op))
		}
	}
	if err := reportErrs.ErrorOrNil(); err != nil {
		return failures, err
	}

	if err := ctx.Err(); err != nil {
		return failures, errors.New(ctx, errors.Canceled, op, "run canceled", errors.WithWrap(err))
	}
	return failures, nil
}

func (r *Runner) runTarget(ctx context.Context, idx int, target string) *TargetResult {
	const op = "runner.(Runner).runTarget"
	res := &TargetResult{
		Target: target,
		Start:  time.Now(),
		index:  idx,
	}
	defer func() {
		res.Elapsed = time.Since(res.Start)
	}()

	cleanup, url, dbname, err := r.provider.CreateDatabase(ctx)
	if err != nil {
		res.Err = errors.Wrap(ctx, err, op, errors.WithMsg(fmt.Sprintf("could not provision database for %s", target)), errors.WithoutEvent())
		event.WriteError(ctx, op, res.Err, event.WithInfo("target", target))
		return res
	}
	defer func() {
		// The clone must go away even when the target failed, or every run
		// leaks databases on the server.
		if err := cleanup(); err != nil {
			event.WriteError(ctx, op, err, event.WithInfoMsg("could not drop test database", "database", dbname, "target", target))
		}
	}()
	res.DatabaseName = dbname

	runCtx := ctx
	if r.perTargetTimeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, r.perTargetTimeout)
		defer cancel()
	}

	if err := r.exec(runCtx, target, url, res); err != nil {
		res.Err = errors.Wrap(ctx, err, op, errors.WithMsg(fmt.Sprintf("target %s did not run to completion", target)), errors.WithoutEvent())
		event.WriteError(ctx, op, res.Err, event.WithInfo("target", target, "database", dbname))
		return res
	}

	passed, failed, skipped := res.Counts()
	_ = event.WriteObservation(ctx, op, event.WithDetails(
		"msg", "target finished",
		"target", target,
		"passed", passed,
		"failed", failed,
		"skipped", skipped,
	))
	return res
}

// toSuites converts target results into report suites.
func toSuites(results []*TargetResult) []junit.Suite {
	suites := make([]junit.Suite, 0, len(results))
	for _, res := range results {
		s := junit.Suite{
			Name: res.Target,
			Time: res.Elapsed,
		}
		if res.Err != nil {
			s.Err = res.Err.Error()
		}
		for _, t := range res.Tests {
			c := junit.Case{
				Name:      t.Name,
				ClassName: res.Target,
				Time:      t.Elapsed,
				Output:    joinLines(t.Output),
			}
			switch t.Status {
			case StatusFail:
				c.Status = junit.Failed
				c.Message = "test failed"
			case StatusSkip:
				c.Status = junit.Skipped
				c.Message = "test skipped"
			default:
				c.Status = junit.Passed
			}
			s.Cases = append(s.Cases, c)
		}
		suites = append(suites, s)
	}
	return suites
}

func joinLines(lines []string) string {
	if len(lines) == 0 {
		return ""
	}
	out := lines[0]
	for _, l := range lines[1:] {
		out += "\n" + l
	}
	return out
}
