// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: BUSL-1.1

package database

import (
	"testing"

	"github.com/hashicorp/parade/internal/cmd/base"
	"github.com/mitchellh/cli"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitCommand_Flags(t *testing.T) {
	t.Parallel()
	assert, require := assert.New(t), require.New(t)

	ui := cli.NewMockUi()
	c := &InitCommand{Command: base.NewCommand(ui)}

	f := c.Flags()
	require.NoError(f.Parse([]string{
		"-template", "custom_template",
		"-migrations-url", "file://migrations",
		"-force",
	}))

	assert.Equal("custom_template", c.flagTemplate)
	assert.Equal("file://migrations", c.flagMigrationsUrl)
	assert.True(c.flagForce)
}

func TestInitCommand_Run(t *testing.T) {
	t.Parallel()
	assert, require := assert.New(t), require.New(t)

	ui := cli.NewMockUi()
	c := &InitCommand{Command: base.NewCommand(ui)}

	code := c.Run([]string{"-not-a-flag"})
	require.Equal(base.CommandCliError, code)
	assert.Contains(ui.ErrorWriter.String(), "flag provided but not defined")
}

func TestDestroyCommand_Help(t *testing.T) {
	t.Parallel()
	assert := assert.New(t)

	ui := cli.NewMockUi()
	c := &DestroyCommand{Command: base.NewCommand(ui)}

	assert.Contains(c.Help(), "parade database destroy")
	assert.NotEmpty(c.Synopsis())
}
