// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: BUSL-1.1

package base

import (
	"testing"
	"time"

	"github.com/mitchellh/cli"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFlagSets_Parse(t *testing.T) {
	assert, require := assert.New(t), require.New(t)

	sets := NewFlagSets(cli.NewMockUi())
	f := sets.NewFlagSet("Command Options")

	var (
		name    string
		count   int
		verbose bool
		wait    time.Duration
		env     []string
	)
	f.StringVar(&StringVar{Name: "name", Target: &name, Default: "dflt"})
	f.IntVar(&IntVar{Name: "count", Target: &count, Default: 2})
	f.BoolVar(&BoolVar{Name: "verbose", Target: &verbose})
	f.DurationVar(&DurationVar{Name: "wait", Target: &wait})
	f.StringSliceVar(&StringSliceVar{Name: "env", Target: &env})

	require.NoError(sets.Parse([]string{
		"-name", "runner",
		"-count", "8",
		"-verbose",
		"-wait", "90s",
		"-env", "A=1",
		"-env", "B=2",
		"./pkg/one", "./pkg/two",
	}))

	assert.Equal("runner", name)
	assert.Equal(8, count)
	assert.True(verbose)
	assert.Equal(90*time.Second, wait)
	assert.Equal([]string{"A=1", "B=2"}, env)
	assert.Equal([]string{"./pkg/one", "./pkg/two"}, sets.Args())
}

func TestFlagSets_Defaults(t *testing.T) {
	assert, require := assert.New(t), require.New(t)

	sets := NewFlagSets(cli.NewMockUi())
	f := sets.NewFlagSet("Command Options")

	var name string
	var count int
	f.StringVar(&StringVar{Name: "name", Target: &name, Default: "dflt"})
	f.IntVar(&IntVar{Name: "count", Target: &count, Default: 4})

	require.NoError(sets.Parse(nil))
	assert.Equal("dflt", name)
	assert.Equal(4, count)
}

func TestFlagSets_EnvVar(t *testing.T) {
	t.Setenv("PARADE_TEST_FLAG_NAME", "from-env")
	t.Setenv("PARADE_TEST_FLAG_WAIT", "30")
	assert, require := assert.New(t), require.New(t)

	sets := NewFlagSets(cli.NewMockUi())
	f := sets.NewFlagSet("Command Options")

	var name string
	var wait time.Duration
	f.StringVar(&StringVar{Name: "name", Target: &name, Default: "dflt", EnvVar: "PARADE_TEST_FLAG_NAME"})
	f.DurationVar(&DurationVar{Name: "wait", Target: &wait, EnvVar: "PARADE_TEST_FLAG_WAIT"})

	require.NoError(sets.Parse(nil))
	// env beats default, bare numbers read as seconds
	assert.Equal("from-env", name)
	assert.Equal(30*time.Second, wait)

	// flags beat env
	require.NoError(sets.Parse([]string{"-name", "from-flag"}))
	assert.Equal("from-flag", name)
}

func TestFlagSets_Help(t *testing.T) {
	assert := assert.New(t)

	sets := NewFlagSets(cli.NewMockUi())
	f := sets.NewFlagSet("Command Options")

	var name, secret string
	f.StringVar(&StringVar{Name: "name", Target: &name, Usage: "Name of the run."})
	f.StringVar(&StringVar{Name: "old-name", Target: &secret, Hidden: true, Usage: "Deprecated."})

	help := sets.Help()
	assert.Contains(help, "Command Options:")
	assert.Contains(help, "-name")
	assert.Contains(help, "Name of the run.")
	assert.NotContains(help, "-old-name")
}

func TestParseLogFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    LogFormat
		wantErr bool
	}{
		{in: "", want: UnspecifiedFormat},
		{in: "standard", want: StandardFormat},
		{in: "json", want: JSONFormat},
		{in: " JSON ", want: JSONFormat},
		{in: "yaml", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseLogFormat(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
