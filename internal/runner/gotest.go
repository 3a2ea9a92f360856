// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: BUSL-1.1

package runner

import (
	"bufio"
	"encoding/json"
	"io"
	"strings"
	"time"
)

// testEvent mirrors the stream "go test -json" emits, one object per line.
// See the test2json documentation for the field semantics.
type testEvent struct {
	Time    time.Time `json:"Time"`
	Action  string    `json:"Action"`
	Package string    `json:"Package"`
	Test    string    `json:"Test"`
	Elapsed float64   `json:"Elapsed"`
	Output  string    `json:"Output"`
}

// parseTestEvents consumes a test2json stream and fills res with per-test
// results. Lines that are not valid JSON are kept as target-level output;
// the toolchain writes plain text around the stream when a build fails.
func parseTestEvents(r io.Reader, res *TargetResult) error {
	output := make(map[string][]string)

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var ev testEvent
		if err := json.Unmarshal(line, &ev); err != nil {
			res.Output = append(res.Output, string(line))
			continue
		}
		if ev.Test == "" {
			if ev.Action == "output" {
				res.Output = append(res.Output, strings.TrimSuffix(ev.Output, "\n"))
			}
			continue
		}
		switch ev.Action {
		case "output":
			output[ev.Test] = append(output[ev.Test], strings.TrimSuffix(ev.Output, "\n"))
		case "pass", "fail", "skip":
			res.Tests = append(res.Tests, TestResult{
				Name:    ev.Test,
				Status:  TestStatus(ev.Action),
				Elapsed: time.Duration(ev.Elapsed * float64(time.Second)),
				Output:  output[ev.Test],
			})
			delete(output, ev.Test)
		}
	}
	return scanner.Err()
}
