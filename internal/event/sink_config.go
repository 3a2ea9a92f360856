// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: BUSL-1.1

package event

import (
	"fmt"

	"github.com/hashicorp/go-secure-stdlib/strutil"
)

const (
	StderrSink SinkType = "stderr" // StderrSink is written to stderr
	FileSink   SinkType = "file"   // FileSink is written to a file
)

// SinkType defines the type of sink in a config stanza (file, stderr)
type SinkType string

func (t SinkType) validate() error {
	const op = "event.(SinkType).validate"
	switch t {
	case StderrSink, FileSink:
		return nil
	default:
		return fmt.Errorf("%s: '%s' is not a valid sink type: %w", op, t, ErrInvalidParameter)
	}
}

const (
	TextHclogSinkFormat SinkFormat = "hclog-text" // TextHclogSinkFormat means the event is formatted as a text hclog entry
	JSONHclogSinkFormat SinkFormat = "hclog-json" // JSONHclogSinkFormat means the event is formatted as a json hclog entry
)

// SinkFormat defines the formatting for a sink in a config stanza
type SinkFormat string

func (f SinkFormat) validate() error {
	const op = "event.(SinkFormat).validate"
	switch f {
	case TextHclogSinkFormat, JSONHclogSinkFormat:
		return nil
	default:
		return fmt.Errorf("%s: '%s' is not a valid sink format: %w", op, f, ErrInvalidParameter)
	}
}

// SinkConfig defines the configuration for an Eventer sink
type SinkConfig struct {
	// Name defines a name for the sink.
	Name string `hcl:"name"`

	// EventTypes defines a list of event types that will be sent to the sink.
	// See the docs for Types for a list of accepted values.
	EventTypes []Type `hcl:"event_types"`

	// SinkType defines the type of sink (StderrSink or FileSink)
	Type SinkType `hcl:"type"`

	// Format defines the format for the sink (TextHclogSinkFormat or
	// JSONHclogSinkFormat)
	Format SinkFormat `hcl:"format"`

	// Path defines the file path for the sink, when the sink type is FileSink
	Path string `hcl:"path"`

	// FileName defines the file name for the sink, when the sink type is
	// FileSink
	FileName string `hcl:"file_name"`
}

func (sc *SinkConfig) validate() error {
	const op = "event.(SinkConfig).validate"
	if err := sc.Type.validate(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := sc.Format.validate(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if sc.Type == FileSink && sc.FileName == "" {
		return fmt.Errorf("%s: missing sink file name: %w", op, ErrInvalidParameter)
	}
	if sc.Name == "" {
		return fmt.Errorf("%s: missing sink name: %w", op, ErrInvalidParameter)
	}
	if len(sc.EventTypes) == 0 {
		return fmt.Errorf("%s: missing event types: %w", op, ErrInvalidParameter)
	}
	for _, et := range sc.EventTypes {
		if err := et.validate(); err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
	}
	return nil
}

func (sc *SinkConfig) handlesType(t Type) bool {
	types := make([]string, 0, len(sc.EventTypes))
	for _, et := range sc.EventTypes {
		types = append(types, string(et))
	}
	return strutil.StrListContains(types, string(EveryType)) ||
		strutil.StrListContains(types, string(t))
}
