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
	_ cli.Command             = (*DestroyCommand)(nil)
	_ cli.CommandAutocomplete = (*DestroyCommand)(nil)
)

type DestroyCommand struct {
	*base.Command

	flagTemplate string
}

func (c *DestroyCommand) Synopsis() string {
	return "Drop the template database"
}

func (c *DestroyCommand) Help() string {
	return base.WrapForHelpText([]string{
		"Usage: parade database destroy [options]",
		"",
		"  Unmarks the template database as a template and drops it. Worker",
		"  databases left over from interrupted runs are not touched.",
	}) + c.Flags().Help()
}

func (c *DestroyCommand) Flags() *base.FlagSets {
	set := c.FlagSet(base.FlagSetClient)
	f := set.NewFlagSet("Command Options")

	f.StringVar(&base.StringVar{
		Name:   "template",
		Target: &c.flagTemplate,
		EnvVar: "PARADE_DB_TEMPLATE",
		Usage:  "Name of the template database to drop.",
	})

	return set
}

func (c *DestroyCommand) AutocompleteArgs() complete.Predictor {
	return complete.PredictNothing
}

func (c *DestroyCommand) AutocompleteFlags() complete.Flags {
	return c.Flags().Completions()
}

func (c *DestroyCommand) Run(args []string) int {
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

	adminURL := cfg.Database.Url
	if adminURL == "" {
		adminURL = template.DefaultURL()
	}

	if err := schema.DestroyTemplate(ctx, adminURL, schema.WithTemplate(cfg.Database.Template)); err != nil {
		c.PrintCliError(err)
		return base.CommandCliError
	}

	c.UI.Output(fmt.Sprintf("Template database %q destroyed.", cfg.Database.Template))
	return base.CommandSuccess
}
