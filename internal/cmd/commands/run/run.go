// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: BUSL-1.1

package run

import (
	"context"
	"fmt"
	"time"

	"github.com/fatih/color"
	"github.com/hashicorp/parade/internal/cmd/base"
	"github.com/hashicorp/parade/internal/cmd/config"
	"github.com/hashicorp/parade/internal/db/template"
	"github.com/hashicorp/parade/internal/runner"
	"github.com/hashicorp/parade/internal/telemetry"
	"github.com/hashicorp/parade/version"
	"github.com/mitchellh/cli"
	"github.com/posener/complete"
)

var (
	_ cli.Command             = (*Command)(nil)
	_ cli.CommandAutocomplete = (*Command)(nil)
)

type Command struct {
	*base.Command

	flagWorkers          int
	flagBenchmark        bool
	flagJunitXml         string
	flagPerTargetTimeout time.Duration
	flagEnv              []string
	flagTemplate         string
	flagGoBinary         string
}

func (c *Command) Synopsis() string {
	return "Run Go test targets concurrently against isolated databases"
}

func (c *Command) Help() string {
	return base.WrapForHelpText([]string{
		"Usage: parade run [options] TARGET [TARGET...]",
		"",
		"  Runs each Go test target in its own 'go test' process against a",
		"  private database cloned from the template database, spreading the",
		"  targets over a pool of workers. The template must have been",
		"  initialized first with 'parade database init'.",
		"",
		"  Run two packages with four workers:",
		"",
		`      $ parade run -workers=4 ./internal/foo ./internal/bar`,
		"",
		"  Concurrent execution is gated on the " + runner.ConcurrentEnvVar + " environment",
		"  variable; when it is unset or false, targets run one at a time.",
		"",
		"  The command exits 0 when every test passed, 1 when any test failed",
		"  and 2 when the run itself could not be carried out.",
	}) + c.Flags().Help()
}

func (c *Command) Flags() *base.FlagSets {
	set := c.FlagSet(base.FlagSetClient)
	f := set.NewFlagSet("Command Options")

	f.IntVar(&base.IntVar{
		Name:   "workers",
		Target: &c.flagWorkers,
		EnvVar: "PARADE_WORKERS",
		Usage:  "Number of concurrent workers. Defaults to the number of CPUs.",
	})

	f.BoolVar(&base.BoolVar{
		Name:   "benchmark",
		Target: &c.flagBenchmark,
		Usage:  "Print per-target timing and the speedup over a serial run.",
	})

	f.StringVar(&base.StringVar{
		Name:       "junitxml",
		Aliases:    []string{"junit"},
		Target:     &c.flagJunitXml,
		EnvVar:     "PARADE_JUNITXML",
		Completion: complete.PredictFiles("*.xml"),
		Usage:      "Path to write a JUnit XML report of the run to.",
	})

	f.DurationVar(&base.DurationVar{
		Name:   "per-target-timeout",
		Target: &c.flagPerTargetTimeout,
		EnvVar: "PARADE_PER_TARGET_TIMEOUT",
		Usage:  "Maximum wall time for a single target, e.g. \"90s\" or \"5m\". Zero means no limit.",
	})

	f.StringSliceVar(&base.StringSliceVar{
		Name:   "env",
		Target: &c.flagEnv,
		Usage:  "Extra KEY=VALUE environment entries for the test processes. Can be specified multiple times.",
	})

	f.StringVar(&base.StringVar{
		Name:   "template",
		Target: &c.flagTemplate,
		EnvVar: "PARADE_DB_TEMPLATE",
		Usage:  "Name of the template database to clone worker databases from.",
	})

	f.StringVar(&base.StringVar{
		Name:       "go-binary",
		Target:     &c.flagGoBinary,
		EnvVar:     "PARADE_GO_BINARY",
		Completion: complete.PredictFiles("*"),
		Usage:      "Path to the go binary used to run targets.",
	})

	return set
}

func (c *Command) AutocompleteArgs() complete.Predictor {
	return complete.PredictDirs("*")
}

func (c *Command) AutocompleteFlags() complete.Flags {
	return c.Flags().Completions()
}

func (c *Command) Run(args []string) int {
	f := c.Flags()
	if err := f.Parse(args); err != nil {
		c.PrintCliError(err)
		return base.CommandCliError
	}

	targets := f.Args()
	if len(targets) == 0 {
		c.PrintCliError(fmt.Errorf("No test targets given; see 'parade run -help'"))
		return base.CommandCliError
	}

	ctx, err := c.SetupEventing(c.Context)
	if err != nil {
		c.PrintCliError(err)
		return base.CommandCliError
	}

	cfg, err := c.LoadConfig(ctx)
	if err != nil {
		c.PrintCliError(err)
		return base.CommandCliError
	}
	if c.flagWorkers > 0 {
		cfg.Runner.Workers = c.flagWorkers
	}
	if c.flagBenchmark {
		cfg.Runner.Benchmark = true
	}
	if c.flagJunitXml != "" {
		cfg.Runner.JunitXml = c.flagJunitXml
	}
	if c.flagPerTargetTimeout > 0 {
		cfg.Runner.PerTargetTimeout = c.flagPerTargetTimeout
	}
	if len(c.flagEnv) > 0 {
		cfg.Runner.ExtraEnv = append(cfg.Runner.ExtraEnv, c.flagEnv...)
	}
	if c.flagTemplate != "" {
		cfg.Database.Template = c.flagTemplate
	}
	if c.flagGoBinary != "" {
		cfg.Runner.GoBinary = c.flagGoBinary
	}

	adminURL := cfg.Database.Url
	if adminURL == "" {
		adminURL = template.DefaultURL()
	}

	mgr, err := template.NewManager(ctx, adminURL,
		template.WithTemplate(cfg.Database.Template),
		template.WithDatabasePrefix(cfg.Database.DatabasePrefix),
	)
	if err != nil {
		c.PrintCliError(err)
		return base.CommandCliError
	}

	r, err := runner.New(ctx, mgr,
		runner.WithWorkers(cfg.Runner.Workers),
		runner.WithBenchmark(cfg.Runner.Benchmark),
		runner.WithJUnitXML(cfg.Runner.JunitXml),
		runner.WithPerTargetTimeout(cfg.Runner.PerTargetTimeout),
		runner.WithGoBinary(cfg.Runner.GoBinary),
		runner.WithExtraEnv(cfg.Runner.ExtraEnv),
	)
	if err != nil {
		c.PrintCliError(err)
		return base.CommandCliError
	}

	start := time.Now()
	failures, err := r.Run(ctx, targets)
	if err != nil {
		c.PrintCliError(err)
		return base.CommandCliError
	}

	c.sendTelemetry(ctx, cfg, len(targets), r.Workers(), failures, time.Since(start))

	switch failures {
	case 0:
		c.UI.Output(base.Colorize(
			fmt.Sprintf("All tests passed across %s.", pluralize(len(targets), "target")),
			color.New(color.FgGreen)))
		return base.CommandSuccess
	default:
		c.UI.Error(fmt.Sprintf("%s across %s.", pluralize(failures, "failure"), pluralize(len(targets), "target")))
		return base.CommandFailure
	}
}

// telemetryEndpoint returns the endpoint run reports go to, or "" when
// reporting is off. No configured endpoint means no reporting; the command
// never falls back to a baked-in url.
func telemetryEndpoint(cfg *config.Config) string {
	switch {
	case cfg.Telemetry == nil, cfg.Telemetry.Disabled, cfg.Telemetry.Url == "":
		return ""
	default:
		return cfg.Telemetry.Url
	}
}

// sendTelemetry posts a run report on a best effort basis. Failures never
// affect the command's exit code.
func (c *Command) sendTelemetry(ctx context.Context, cfg *config.Config, targets, workers, failures int, elapsed time.Duration) {
	url := telemetryEndpoint(cfg)
	if url == "" {
		return
	}
	rep, err := telemetry.NewReporter(ctx, telemetry.WithURL(url))
	if err != nil {
		return
	}
	_ = rep.Send(ctx, telemetry.Report{
		Version:    version.Get().VersionNumber(),
		Targets:    targets,
		Workers:    workers,
		Failures:   failures,
		DurationMS: elapsed.Milliseconds(),
	})
}

func pluralize(n int, noun string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s", noun)
	}
	return fmt.Sprintf("%d %ss", n, noun)
}
