// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: BUSL-1.1

package cmd

import (
	"github.com/hashicorp/parade/internal/cmd/base"
	"github.com/hashicorp/parade/internal/cmd/commands/database"
	"github.com/hashicorp/parade/internal/cmd/commands/run"
	"github.com/hashicorp/parade/internal/cmd/commands/version"
	"github.com/mitchellh/cli"
)

// Commands is the mapping of all the available commands.
var Commands map[string]cli.CommandFactory

func initCommands(ui cli.Ui) {
	Commands = map[string]cli.CommandFactory{
		"run": func() (cli.Command, error) {
			return &run.Command{
				Command: base.NewCommand(ui),
			}, nil
		},
		"database init": func() (cli.Command, error) {
			return &database.InitCommand{
				Command: base.NewCommand(ui),
			}, nil
		},
		"database destroy": func() (cli.Command, error) {
			return &database.DestroyCommand{
				Command: base.NewCommand(ui),
			}, nil
		},
		"version": func() (cli.Command, error) {
			return &version.Command{
				Command: base.NewCommand(ui),
			}, nil
		},
	}
}
