// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: BUSL-1.1

package junit_test

import (
	"bytes"
	"context"
	"encoding/xml"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/hashicorp/parade/internal/errors"
	"github.com/hashicorp/parade/internal/runner/junit"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSuites() []junit.Suite {
	return []junit.Suite{
		{
			Name: "./internal/accounts",
			Time: 1200 * time.Millisecond,
			Cases: []junit.Case{
				{Name: "TestCreate", ClassName: "./internal/accounts", Status: junit.Passed, Time: 20 * time.Millisecond},
				{Name: "TestDelete", ClassName: "./internal/accounts", Status: junit.Failed, Time: 500 * time.Millisecond, Message: "test failed", Output: "row not deleted"},
				{Name: "TestLegacy", ClassName: "./internal/accounts", Status: junit.Skipped, Message: "test skipped"},
			},
		},
		{
			Name: "./internal/broken",
			Err:  "build failed",
		},
	}
}

func TestWrite(t *testing.T) {
	t.Parallel()
	assert, require := assert.New(t), require.New(t)
	ctx := context.Background()

	var buf bytes.Buffer
	require.NoError(junit.Write(ctx, &buf, testSuites()))
	out := buf.String()

	assert.Contains(out, xml.Header)
	assert.Contains(out, `<testsuites tests="3" failures="1" errors="1" skipped="1"`)
	assert.Contains(out, `<testsuite name="./internal/accounts" tests="3" failures="1" errors="0" skipped="1" time="1.200"`)
	assert.Contains(out, `<testcase name="TestDelete" classname="./internal/accounts" time="0.500">`)
	assert.Contains(out, `<failure message="test failed">`)
	assert.Contains(out, "row not deleted")
	assert.Contains(out, `<skipped message="test skipped">`)
	assert.Contains(out, `<error message="suite did not run">`)
	assert.Contains(out, "build failed")

	// the document must round-trip as xml
	type doc struct {
		Tests    int `xml:"tests,attr"`
		Failures int `xml:"failures,attr"`
	}
	var d doc
	require.NoError(xml.Unmarshal(buf.Bytes(), &d))
	assert.Equal(3, d.Tests)
	assert.Equal(1, d.Failures)
}

func TestWriteFile(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("valid", func(t *testing.T) {
		assert, require := assert.New(t), require.New(t)
		path := filepath.Join(t.TempDir(), "report.xml")
		require.NoError(junit.WriteFile(ctx, path, testSuites()))
		b, err := os.ReadFile(path)
		require.NoError(err)
		assert.Contains(string(b), "<testsuites")
	})

	t.Run("missing-path", func(t *testing.T) {
		err := junit.WriteFile(ctx, "", nil)
		require.Error(t, err)
		assert.True(t, errors.Match(errors.T(errors.InvalidParameter), err))
	})

	t.Run("bad-path", func(t *testing.T) {
		err := junit.WriteFile(ctx, filepath.Join(t.TempDir(), "missing", "report.xml"), nil)
		require.Error(t, err)
		assert.True(t, errors.Match(errors.T(errors.Io), err))
	})
}
