// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: BUSL-1.1

package base

import (
	"fmt"
	"strings"

	"github.com/hashicorp/go-hclog"
)

// LogFormat is the format of event sink output.
type LogFormat int

const (
	UnspecifiedFormat LogFormat = iota
	StandardFormat
	JSONFormat
)

func (l LogFormat) String() string {
	switch l {
	case UnspecifiedFormat:
		return "unspecified"
	case StandardFormat:
		return "standard"
	case JSONFormat:
		return "json"
	}
	return "unknown"
}

// ParseLogFormat parses the log format from the provided string.
func ParseLogFormat(format string) (LogFormat, error) {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "":
		return UnspecifiedFormat, nil
	case "standard":
		return StandardFormat, nil
	case "json":
		return JSONFormat, nil
	default:
		return UnspecifiedFormat, fmt.Errorf("unknown log format: %s", format)
	}
}

// ProcessLogLevelAndFormat resolves the flag values into an hclog level and a
// LogFormat, defaulting to info/standard.
func ProcessLogLevelAndFormat(flagLogLevel, flagLogFormat string) (hclog.Level, LogFormat, error) {
	logLevel := strings.ToLower(strings.TrimSpace(flagLogLevel))
	if logLevel == "" {
		logLevel = "info"
	}

	var level hclog.Level
	switch logLevel {
	case "trace":
		level = hclog.Trace
	case "debug":
		level = hclog.Debug
	case "notice", "info":
		level = hclog.Info
	case "warn", "warning":
		level = hclog.Warn
	case "err", "error":
		level = hclog.Error
	default:
		return level, UnspecifiedFormat, fmt.Errorf("unknown log level: %s", logLevel)
	}

	logFormat, err := ParseLogFormat(flagLogFormat)
	if err != nil {
		return level, logFormat, err
	}
	if logFormat == UnspecifiedFormat {
		logFormat = StandardFormat
	}

	return level, logFormat, nil
}
