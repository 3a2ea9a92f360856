// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: BUSL-1.1

package database

import (
	"fmt"

	"github.com/hashicorp/parade/internal/cmd/base"
	"github.com/hashicorp/parade/internal/db/schema"
	"github.com/hashicorp/parade/internal/db/template"
	"github.com/mitchellh/cli"
	"github.com/posener/complete"
)

var (
	_ cli.Command             = (*InitCommand)(nil)
	_ cli.CommandAutocomplete = (*InitCommand)(nil)
)

type InitCommand struct {
	*base.Command

	flagTemplate      string
	flagMigrationsUrl string
	flagForce         bool
}

func (c *InitCommand) Synopsis() string {
	return "Initialize the template database workers clone from"
}

func (c *InitCommand) Help() string {
	return base.WrapForHelpText([]string{
		"Usage: parade database init [options]",
		"",
		"  Creates the template database on the postgres server and applies",
		"  migrations to it, then marks it as a template so worker databases",
		"  can be cloned from it. Initializing an already current template is",
		"  a no-op.",
		"",
		"  Initialize using migrations from a local directory:",
		"",
		`      $ parade database init -migrations-url "file://migrations"`,
	}) + c.Flags().Help()
}

func (c *InitCommand) Flags() *base.FlagSets {
	set := c.FlagSet(base.FlagSetClient)
	f := set.NewFlagSet("Command Options")

	f.StringVar(&base.StringVar{
		Name:   "template",
		Target: &c.flagTemplate,
		EnvVar: "PARADE_DB_TEMPLATE",
		Usage:  "Name of the template database to create.",
	})

	f.StringVar(&base.StringVar{
		Name:       "migrations-url",
		Target:     &c.flagMigrationsUrl,
		Completion: complete.PredictAnything,
		Usage:      `Migration source applied to the template, e.g. "file://migrations".`,
	})

	f.BoolVar(&base.BoolVar{
		Name:   "force",
		Target: &c.flagForce,
		Usage:  "Recreate the template from scratch even when it already exists.",
	})

	return set
}

func (c *InitCommand) AutocompleteArgs() complete.Predictor {
	return complete.PredictNothing
}

func (c *InitCommand) AutocompleteFlags() complete.Flags {
	return c.Flags().Completions()
}

func (c *InitCommand) Run(args []string) int {
	f := c.Flags()
	if err := f.Parse(args); err != nil {
		c.PrintCliError(err)
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
	if c.flagTemplate != "" {
		cfg.Database.Template = c.flagTemplate
	}
	if c.flagMigrationsUrl != "" {
		cfg.Database.MigrationsUrl = c.flagMigrationsUrl
	}

	adminURL := cfg.Database.Url
	if adminURL == "" {
		adminURL = template.DefaultURL()
	}

	ran, err := schema.InitTemplate(ctx, adminURL,
		schema.WithTemplate(cfg.Database.Template),
		schema.WithMigrationsURL(cfg.Database.MigrationsUrl),
		schema.WithForce(c.flagForce),
	)
	if err != nil {
		c.PrintCliError(err)
		return base.CommandCliError
	}

	state, err := schema.CurrentState(ctx, adminURL, schema.WithTemplate(cfg.Database.Template))
	if err != nil {
		c.PrintCliError(err)
		return base.CommandCliError
	}

	switch {
	case ran:
		c.UI.Output(fmt.Sprintf("Template database %q initialized at schema version %d.", state.TemplateName, state.SchemaVersion))
	default:
		c.UI.Output(fmt.Sprintf("Template database %q already current at schema version %d.", state.TemplateName, state.SchemaVersion))
	}

	return base.CommandSuccess
}
