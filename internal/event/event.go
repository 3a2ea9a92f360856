// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: BUSL-1.1

// Package event provides the eventing for the application. Events are
// published to an eventlogger broker which formats them as hclog entries and
// delivers them to the configured sinks (stderr and/or files).
//
// There are three types of events: error events, system events and
// observation events. Observation events double as the telemetry stream and
// are only written when telemetry is enabled.
package event

import "fmt"

// Op represents the operation which is raising the event, e.g.
// "runner.(Runner).Run"
type Op string

// Id is the unique id of an event
type Id string

// Type represents the event's type
type Type string

const (
	EveryType       Type = "*"           // EveryType represents every (all) types of events
	ObservationType Type = "observation" // ObservationType represents observation events
	ErrorType       Type = "error"       // ErrorType represents error events
	SystemType      Type = "system"      // SystemType represents system events
)

func (t Type) validate() error {
	const op = "event.(Type).validate"
	switch t {
	case EveryType, ObservationType, ErrorType, SystemType:
		return nil
	default:
		return fmt.Errorf("%s: '%s' is not a valid event type: %w", op, t, ErrInvalidParameter)
	}
}

const (
	OpField      = "op"      // OpField in an event
	IdField      = "id"      // IdField in an event
	VersionField = "version" // VersionField in an event
	HeaderField  = "header"  // HeaderField in an event
	DetailsField = "details" // Details field in an event
	msgField     = "msg"     // msgField within a sysEvent
)
