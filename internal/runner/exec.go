// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: BUSL-1.1

package runner

import (
	"bytes"
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"

	"github.com/hashicorp/parade/internal/errors"
)

// execTarget runs one target via "go test -json" against dbURL and parses the
// stream into res. The -count=1 disables the test cache; a cached result
// would not have touched the freshly cloned database at all.
func (r *Runner) execTarget(ctx context.Context, target, dbURL string, res *TargetResult) error {
	const op = "runner.(Runner).execTarget"

	cmd := exec.CommandContext(ctx, r.goBinary, "test", "-json", "-count=1", target)
	cmd.Env = append(os.Environ(), fmt.Sprintf("%s=%s", TestDBURLEnvVar, dbURL))
	cmd.Env = append(cmd.Env, r.extraEnv...)

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return errors.New(ctx, errors.Io, op, "could not pipe test process output", errors.WithWrap(err))
	}
	if err := cmd.Start(); err != nil {
		return errors.New(ctx, errors.Io, op, "could not start test process", errors.WithWrap(err))
	}

	parseErr := parseTestEvents(stdout, res)
	if parseErr != nil {
		// The child keeps writing whether or not the stream made sense; the
		// rest must be drained or Wait blocks on the full pipe forever.
		_, _ = io.Copy(io.Discard, stdout)
	}
	waitErr := cmd.Wait()

	// Build failures and panics land on stderr, outside the json stream.
	for _, line := range strings.Split(strings.TrimRight(stderr.String(), "\n"), "\n") {
		if line != "" {
			res.Output = append(res.Output, line)
		}
	}

	if parseErr != nil {
		return errors.New(ctx, errors.Io, op, "could not parse test process output", errors.WithWrap(parseErr))
	}
	if waitErr != nil {
		if ctx.Err() != nil {
			if stderrors.Is(ctx.Err(), context.DeadlineExceeded) {
				return errors.New(ctx, errors.Timeout, op, fmt.Sprintf("target %s exceeded its deadline", target), errors.WithWrap(waitErr))
			}
			return errors.New(ctx, errors.Canceled, op, fmt.Sprintf("target %s canceled", target), errors.WithWrap(waitErr))
		}
		var exitErr *exec.ExitError
		if stderrors.As(waitErr, &exitErr) {
			// go test exits non-zero when tests fail; the failures are
			// already in the parsed results and are counted from there.
			if _, failed, _ := res.Counts(); failed > 0 {
				return nil
			}
			return errors.New(ctx, errors.Internal, op, fmt.Sprintf("test process for %s exited without running tests: %v", target, waitErr))
		}
		return errors.New(ctx, errors.Io, op, "could not run test process", errors.WithWrap(waitErr))
	}
	return nil
}
