// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: BUSL-1.1

package base

import (
	"os"

	"github.com/fatih/color"
	colorable "github.com/mattn/go-colorable"
	"github.com/mitchellh/cli"
	"golang.org/x/term"
)

// ParadeUI wraps a cli.Ui with the output format requested on the command
// line.
type ParadeUI struct {
	cli.Ui
	Format string
}

var TermWidth uint = 80

func init() {
	width, _, err := term.GetSize(int(os.Stdin.Fd()))
	if err == nil {
		TermWidth = uint(width)
	}
}

// NewUI returns the colored UI commands print through.
func NewUI() *ParadeUI {
	return &ParadeUI{
		Ui: &cli.ColoredUi{
			ErrorColor: cli.UiColorRed,
			WarnColor:  cli.UiColorYellow,
			Ui: &cli.BasicUi{
				Reader:      os.Stdin,
				Writer:      colorable.NewColorableStdout(),
				ErrorWriter: colorable.NewColorableStderr(),
			},
		},
		Format: "table",
	}
}

// Colorize returns s decorated with c unless color output is disabled.
func Colorize(s string, c *color.Color) string {
	if color.NoColor {
		return s
	}
	return c.Sprint(s)
}
