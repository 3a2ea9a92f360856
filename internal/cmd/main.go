// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: BUSL-1.1

package cmd

import (
	"bytes"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/hashicorp/parade/internal/cmd/base"
	"github.com/mitchellh/cli"
)

// setupEnv rewrites args for the few cases the CLI library cannot express,
// like treating a lone -version as the version command.
func setupEnv(args []string) []string {
	for _, arg := range args {
		if arg == "--" {
			break
		}

		if len(args) == 1 && (arg == "-version" || arg == "-v") {
			return []string{"version"}
		}
	}

	return args
}

func Run(args []string) int {
	args = setupEnv(args)

	ui := base.NewUI()

	// For autocompletion we need to manage the COMP_LINE var. That means
	// reading args out of it now and then setting updated args back.
	compLine := os.Getenv("COMP_LINE")
	if compLine != "" {
		point, err := strconv.Atoi(os.Getenv("COMP_POINT"))
		if err != nil {
			point = len(compLine)
		}
		if point != 0 && point < len(compLine) {
			compLine = compLine[:point]
		}
		args = strings.Split(compLine, " ")
		args = args[1:] // elide "parade" since the function below expects it to not be there
		os.Setenv("COMP_LINE", strings.Join(append([]string{"parade"}, args...), " "))
	}

	initCommands(ui)

	c := &cli.CLI{
		Name:     "parade",
		Args:     args,
		Commands: Commands,
		HelpFunc: groupedHelpFunc(
			cli.BasicHelpFunc("parade"),
		),
		HelpWriter:                 os.Stderr,
		HiddenCommands:             []string{"version"},
		Autocomplete:               true,
		AutocompleteNoDefaultFlags: true,
	}

	exitCode, err := c.Run()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error executing CLI: %s\n", err.Error())
		return 1
	}

	return exitCode
}

func groupedHelpFunc(f cli.HelpFunc) cli.HelpFunc {
	return func(commands map[string]cli.CommandFactory) string {
		var b bytes.Buffer
		tw := tabwriter.NewWriter(&b, 0, 2, 6, ' ', 0)

		fmt.Fprintf(tw, "Usage: parade <command> [args]\n")

		runCommands := make([]string, 0, 1)
		databaseCommands := make([]string, 0, len(commands))
		for k := range commands {
			switch {
			case strings.HasPrefix(k, "database"):
				databaseCommands = append(databaseCommands, k)
			default:
				runCommands = append(runCommands, k)
			}
		}

		sort.Strings(runCommands)
		fmt.Fprintf(tw, "\n")
		fmt.Fprintf(tw, "Commands:\n")
		for _, v := range runCommands {
			printCommand(tw, v, commands[v])
		}

		sort.Strings(databaseCommands)
		fmt.Fprintf(tw, "\n")
		fmt.Fprintf(tw, "Database Commands:\n")
		for _, v := range databaseCommands {
			printCommand(tw, v, commands[v])
		}

		tw.Flush()

		return strings.TrimSpace(b.String())
	}
}

func printCommand(w *tabwriter.Writer, name string, cmdFn cli.CommandFactory) {
	cmd, err := cmdFn()
	if err != nil {
		panic(fmt.Sprintf("failed to load %q command: %s", name, err))
	}
	fmt.Fprintf(w, "    %s\t%s\n", name, cmd.Synopsis())
}
