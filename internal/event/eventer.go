// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: BUSL-1.1

package event

import (
	"context"
	"fmt"
	"os"
	"sync"

	"github.com/hashicorp/eventlogger"
	"github.com/hashicorp/eventlogger/sinks/writer"
	"github.com/hashicorp/go-hclog"
)

// EventerConfig supplies all the configuration needed to create/config an
// Eventer.
type EventerConfig struct {
	// ObservationsEnabled specifies if observation events should be emitted
	ObservationsEnabled bool `hcl:"observations_enabled"`

	// TelemetryEnabled specifies if observation events should include
	// telemetry detail.  Observations must be enabled for telemetry to be
	// emitted.
	TelemetryEnabled bool `hcl:"telemetry_enabled"`

	// Sinks are all the configured sinks.  If no sinks are defined a default
	// stderr sink for every event type is used.
	Sinks []*SinkConfig `hcl:"sink"`
}

// Validate the config, applying the default stderr sink if no sinks were
// configured.
func (c *EventerConfig) Validate() error {
	const op = "event.(EventerConfig).Validate"
	if len(c.Sinks) == 0 {
		c.Sinks = []*SinkConfig{DefaultSink()}
	}
	for i, sc := range c.Sinks {
		if sc == nil {
			return fmt.Errorf("%s: sink %d is nil: %w", op, i, ErrInvalidParameter)
		}
		if err := sc.validate(); err != nil {
			return fmt.Errorf("%s: sink %d is invalid: %w", op, i, err)
		}
	}
	return nil
}

// DefaultEventerConfig returns a config for an eventer with a stderr sink for
// every event type.
func DefaultEventerConfig() *EventerConfig {
	return &EventerConfig{
		ObservationsEnabled: true,
		Sinks:               []*SinkConfig{DefaultSink()},
	}
}

// DefaultSink returns a text hclog stderr sink for every event type.
func DefaultSink() *SinkConfig {
	return &SinkConfig{
		Name:       "default",
		EventTypes: []Type{EveryType},
		Type:       StderrSink,
		Format:     TextHclogSinkFormat,
	}
}

// Eventer provides a method to send events to pipelines of sinks
type Eventer struct {
	broker *eventlogger.Broker
	conf   EventerConfig
	logger hclog.Logger
}

var (
	sysEventer     *Eventer
	sysEventerLock sync.RWMutex
)

// InitSysEventer provides a mechanism to initialize a "system wide" eventer
// singleton for the process.  Support the options of: WithEventer (to just
// use a pre-built eventer).
func InitSysEventer(log hclog.Logger, c EventerConfig) error {
	const op = "event.InitSysEventer"
	if log == nil {
		return fmt.Errorf("%s: missing logger: %w", op, ErrInvalidParameter)
	}
	eventer, err := NewEventer(log, c)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	sysEventerLock.Lock()
	defer sysEventerLock.Unlock()
	sysEventer = eventer
	return nil
}

// SysEventer returns the "system wide" eventer for the process and can return
// nil if InitSysEventer hasn't been called.
func SysEventer() *Eventer {
	sysEventerLock.RLock()
	defer sysEventerLock.RUnlock()
	return sysEventer
}

// TestResetSysEventer is a test helper that clears the process eventer.
func TestResetSysEventer() {
	sysEventerLock.Lock()
	defer sysEventerLock.Unlock()
	sysEventer = nil
}

// NewEventer creates a new Eventer from the config.  A pipeline is registered
// for every (event type, sink) pair the config names.
func NewEventer(log hclog.Logger, c EventerConfig) (*Eventer, error) {
	const op = "event.NewEventer"
	if log == nil {
		return nil, fmt.Errorf("%s: missing logger: %w", op, ErrInvalidParameter)
	}
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	broker, err := eventlogger.NewBroker()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	e := &Eventer{
		broker: broker,
		conf:   c,
		logger: log,
	}

	// one formatter node per format keeps the graph small; sinks reference
	// the formatter for their configured format.
	registeredFormatters := map[SinkFormat]eventlogger.NodeID{}
	registerFormatter := func(f SinkFormat) (eventlogger.NodeID, error) {
		if id, ok := registeredFormatters[f]; ok {
			return id, nil
		}
		id := eventlogger.NodeID(fmt.Sprintf("%s-%s", hclogNodeName, f))
		if err := broker.RegisterNode(id, newHclogFormatter(f == JSONHclogSinkFormat)); err != nil {
			return "", fmt.Errorf("%s: unable to register formatter node: %w", op, err)
		}
		registeredFormatters[f] = id
		return id, nil
	}

	for i, sc := range c.Sinks {
		fmtId, err := registerFormatter(sc.Format)
		if err != nil {
			return nil, err
		}

		var sinkNode eventlogger.Node
		switch sc.Type {
		case StderrSink:
			sinkNode = &writer.Sink{
				Format: string(sc.Format),
				Writer: os.Stderr,
			}
		case FileSink:
			sinkNode = &eventlogger.FileSink{
				Format:   string(sc.Format),
				Path:     sc.Path,
				FileName: sc.FileName,
			}
		default:
			return nil, fmt.Errorf("%s: unknown sink type %s: %w", op, sc.Type, ErrInvalidParameter)
		}
		sinkId := eventlogger.NodeID(fmt.Sprintf("sink-%d-%s", i, sc.Name))
		if err := broker.RegisterNode(sinkId, sinkNode); err != nil {
			return nil, fmt.Errorf("%s: unable to register sink node %s: %w", op, sc.Name, err)
		}

		for _, t := range []Type{ErrorType, SystemType, ObservationType} {
			if !sc.handlesType(t) {
				continue
			}
			pipeId := eventlogger.PipelineID(fmt.Sprintf("%s-%d-%s", t, i, sc.Name))
			err := broker.RegisterPipeline(eventlogger.Pipeline{
				EventType:  eventlogger.EventType(t),
				PipelineID: pipeId,
				NodeIDs:    []eventlogger.NodeID{fmtId, sinkId},
			})
			if err != nil {
				return nil, fmt.Errorf("%s: failed to register pipeline for sink %s: %w", op, sc.Name, err)
			}
		}
	}

	return e, nil
}

// writeObservation writes/sends an observation event.
func (e *Eventer) writeObservation(ctx context.Context, observation *observation) error {
	const op = "event.(Eventer).writeObservation"
	if !e.conf.ObservationsEnabled {
		return nil
	}
	err := e.retrySend(ctx, stdRetryCount, expBackoff{}, func() (eventlogger.Status, error) {
		return e.broker.Send(ctx, eventlogger.EventType(ObservationType), observation)
	})
	if err != nil {
		e.logger.Error("encountered an error sending an observation event", "error:", err.Error())
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// writeError writes/sends an error event
func (e *Eventer) writeError(ctx context.Context, errEvent *err) error {
	const op = "event.(Eventer).writeError"
	err := e.retrySend(ctx, stdRetryCount, expBackoff{}, func() (eventlogger.Status, error) {
		return e.broker.Send(ctx, eventlogger.EventType(ErrorType), errEvent)
	})
	if err != nil {
		e.logger.Error("encountered an error sending an error event", "error:", err.Error())
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// writeSysEvent writes/sends a system event
func (e *Eventer) writeSysEvent(ctx context.Context, sysEvent *sysEvent) error {
	const op = "event.(Eventer).writeSysEvent"
	err := e.retrySend(ctx, stdRetryCount, expBackoff{}, func() (eventlogger.Status, error) {
		return e.broker.Send(ctx, eventlogger.EventType(SystemType), sysEvent)
	})
	if err != nil {
		e.logger.Error("encountered an error sending a system event", "error:", err.Error())
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// Reopen can be used during a SIGHUP to reopen all the sink files.
func (e *Eventer) Reopen() error {
	const op = "event.(Eventer).Reopen"
	if e.broker != nil {
		if err := e.broker.Reopen(context.Background()); err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
	}
	return nil
}
