// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: BUSL-1.1

package runner

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSlowestTests(t *testing.T) {
	t.Parallel()
	assert := assert.New(t)

	results := []*TargetResult{
		{
			Target: "./a",
			Tests: []TestResult{
				{Name: "TestFast", Status: StatusPass, Elapsed: 5 * time.Millisecond},
				{Name: "TestSlow", Status: StatusPass, Elapsed: 3 * time.Second},
			},
		},
		{
			Target: "./b",
			Tests: []TestResult{
				{Name: "TestMedium", Status: StatusFail, Elapsed: time.Second},
			},
		},
	}

	slow := slowestTests(results, 2)
	require.Len(t, slow, 2)
	assert.Equal("TestSlow", slow[0].test.Name)
	assert.Equal("./a", slow[0].target)
	assert.Equal("TestMedium", slow[1].test.Name)

	assert.Len(slowestTests(results, 10), 3)
	assert.Empty(slowestTests(nil, 10))
}

func TestRunner_writeBenchmark(t *testing.T) {
	ctx := context.Background()
	assert, require := assert.New(t), require.New(t)

	var buf bytes.Buffer
	r, err := New(ctx, &fakeProvider{},
		WithExecFunc(scriptedExec),
		WithBenchmarkWriter(&buf),
	)
	require.NoError(err)

	results := []*TargetResult{
		{
			Target:  "./slow",
			Elapsed: 2 * time.Second,
			Tests: []TestResult{
				{Name: "TestHeavy", Status: StatusPass, Elapsed: 1900 * time.Millisecond},
			},
		},
		{
			Target:  "./quick",
			Elapsed: 100 * time.Millisecond,
			Tests: []TestResult{
				{Name: "TestLight", Status: StatusPass, Elapsed: 10 * time.Millisecond},
			},
		},
	}
	require.NoError(r.writeBenchmark(ctx, results, time.Second))

	out := buf.String()
	assert.Contains(out, "Target timing (slowest first):")
	assert.Contains(out, "./slow")
	assert.Contains(out, "Slowest tests:")
	assert.Contains(out, "TestHeavy (./slow)")
	assert.Contains(out, "TestLight (./quick)")
	assert.Contains(out, "speedup")
	// Slower entries come first in both sections.
	assert.Less(bytes.Index(buf.Bytes(), []byte("./slow")), bytes.Index(buf.Bytes(), []byte("./quick")))
	assert.Less(bytes.Index(buf.Bytes(), []byte("TestHeavy")), bytes.Index(buf.Bytes(), []byte("TestLight")))
}
