// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: BUSL-1.1

package event

import (
	"fmt"
)

// sysVersion defines the version of sys events
const sysVersion = "v0.1"

type sysEvent struct {
	Id      Id             `json:"-"`
	Version string         `json:"version"`
	Op      Op             `json:"op,omitempty"`
	Data    map[string]any `json:"data"`
}

func newSysEvent(fromOperation Op, data map[string]any) (*sysEvent, error) {
	const op = "event.newSysEvent"
	if fromOperation == "" {
		return nil, fmt.Errorf("%s: missing operation: %w", op, ErrInvalidParameter)
	}
	id, err := NewId(string(SystemType))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	e := &sysEvent{
		Id:      Id(id),
		Version: sysVersion,
		Op:      fromOperation,
		Data:    data,
	}
	if err := e.validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return e, nil
}

// EventType is required for all event types by the eventlogger broker
func (e *sysEvent) EventType() string { return string(SystemType) }

func (e *sysEvent) validate() error {
	const op = "event.(sysEvent).validate"
	if e.Id == "" {
		return fmt.Errorf("%s: missing id: %w", op, ErrInvalidParameter)
	}
	if e.Op == "" {
		return fmt.Errorf("%s: missing operation: %w", op, ErrInvalidParameter)
	}
	return nil
}
