// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: BUSL-1.1

package version

import (
	"testing"

	"github.com/hashicorp/parade/internal/cmd/base"
	"github.com/mitchellh/cli"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommand_Run(t *testing.T) {
	t.Parallel()
	assert, require := assert.New(t), require.New(t)

	ui := cli.NewMockUi()
	c := &Command{Command: base.NewCommand(ui)}

	code := c.Run(nil)
	require.Equal(base.CommandSuccess, code, "stderr: %s", ui.ErrorWriter.String())

	out := ui.OutputWriter.String()
	assert.Contains(out, "Version information:")
	assert.Contains(out, "Version Number:")
}

func TestCommand_Help(t *testing.T) {
	t.Parallel()
	assert := assert.New(t)

	ui := cli.NewMockUi()
	c := &Command{Command: base.NewCommand(ui)}

	assert.Contains(c.Help(), "parade version")
	assert.NotEmpty(c.Synopsis())
}
