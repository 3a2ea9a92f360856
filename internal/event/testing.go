// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: BUSL-1.1

package event

import (
	"path/filepath"
	"testing"

	"github.com/hashicorp/go-hclog"
	"github.com/stretchr/testify/require"
)

// TestEventerConfig returns an EventerConfig that sends every event type to a
// single json file sink in a test temp directory, along with the path of that
// sink file.
func TestEventerConfig(t testing.TB, name string) (EventerConfig, string) {
	t.Helper()
	require := require.New(t)
	require.NotEmpty(name)
	dir := t.TempDir()
	fileName := name + ".ndjson"
	c := EventerConfig{
		ObservationsEnabled: true,
		Sinks: []*SinkConfig{
			{
				Name:       name,
				EventTypes: []Type{EveryType},
				Type:       FileSink,
				Format:     JSONHclogSinkFormat,
				Path:       dir,
				FileName:   fileName,
			},
		},
	}
	return c, filepath.Join(dir, fileName)
}

// TestEventer constructs an Eventer from the config for tests, failing the
// test on error.
func TestEventer(t testing.TB, c EventerConfig) *Eventer {
	t.Helper()
	require := require.New(t)
	e, err := NewEventer(hclog.NewNullLogger(), c)
	require.NoError(err)
	return e
}
