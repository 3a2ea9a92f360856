// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: BUSL-1.1

package base

import (
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
)

func TestColorize(t *testing.T) {
	old := color.NoColor
	t.Cleanup(func() { color.NoColor = old })

	color.NoColor = true
	assert.Equal(t, "all tests passed", Colorize("all tests passed", color.New(color.FgGreen)))

	color.NoColor = false
	out := Colorize("all tests passed", color.New(color.FgGreen))
	assert.Contains(t, out, "all tests passed")
	assert.Contains(t, out, "\x1b[")
}
