// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: BUSL-1.1

// Package errors provides an Err type with a Code, an Op describing the
// operation that raised the error and an optional wrapped error.  Creating an
// error also emits an error event, so callers get observability without
// logging at every call site; WithoutEvent suppresses that when the caller
// will handle the error itself.
package errors

import (
	"context"
	"fmt"
	"strings"

	"github.com/hashicorp/parade/internal/event"
)

// Op represents an operation (package.function) raising/reporting an error,
// e.g. "runner.(Runner).Run"
type Op string

// Err provides the ability to specify a Msg, Op, Code and Wrapped error.
// Errs must have a Code and all other fields are optional.
type Err struct {
	// Code is the error's code, which can be used to get the error's
	// errorCodeInfo, which contains the error's Kind and Message
	Code Code

	// Msg for the error
	Msg string

	// Op represents the operation raising/reporting an error
	Op Op

	// Wrapped is the error which this Err wraps and will be nil if there's no
	// error to wrap.
	Wrapped error
}

// E creates a new Err with provided code and supports the options of:
//
// * WithOp() - allows you to specify an optional Op (operation)
//
// * WithMsg() - allows you to specify an optional error msg
//
// * WithWrap() - allows you to specify an error to wrap
//
// * WithoutEvent - a flag to suppress the error event that is emitted
func E(ctx context.Context, opt ...Option) error {
	opts := GetOpts(opt...)
	err := &Err{
		Code:    opts.withErrCode,
		Op:      opts.withOp,
		Msg:     opts.withErrMsg,
		Wrapped: opts.withErrWrapped,
	}
	if !opts.withoutEvent {
		event.WriteError(ctx, event.Op(opts.withOp), err)
	}
	return err
}

// New creates a new Err with provided code, op and msg.  It supports the
// options of WithWrap and WithoutEvent.
func New(ctx context.Context, c Code, op Op, msg string, opt ...Option) error {
	opt = append(opt, WithOp(op), WithMsg(msg), WithCode(c))
	return E(ctx, opt...)
}

// Wrap creates a new Err from the provided err and op, preserving the code if
// the err is an Err.  It supports the options of WithMsg, WithCode and
// WithoutEvent.
func Wrap(ctx context.Context, e error, op Op, opt ...Option) error {
	opt = append(opt, WithOp(op), WithWrap(e))
	opts := GetOpts(opt...)
	if opts.withErrCode == Unknown {
		var errAsErr *Err
		if As(e, &errAsErr) {
			opt = append(opt, WithCode(errAsErr.Code))
		}
	}
	return E(ctx, opt...)
}

// Info about the Err
func (e *Err) Info() Info {
	if e == nil {
		return errorCodeInfo[Unknown]
	}
	return e.Code.Info()
}

// Error satisfies the error interface and returns a string representation of
// the Err
func (e *Err) Error() string {
	if e == nil {
		return ""
	}
	var s strings.Builder
	if e.Op != "" {
		join(&s, ": ", string(e.Op))
	}
	if e.Msg != "" {
		join(&s, ": ", e.Msg)
	}
	if e.Code != Unknown {
		if e.Msg == "" {
			join(&s, ": ", e.Info().Message)
		}
		join(&s, ": ", e.Info().Kind.String())
		join(&s, ": ", fmt.Sprintf("error #%d", e.Code))
	}
	if e.Wrapped != nil {
		join(&s, ": ", e.Wrapped.Error())
	}
	if s.Len() == 0 {
		return "unknown error"
	}
	return s.String()
}

func join(str *strings.Builder, delim string, s string) {
	if str.Len() == 0 {
		_, _ = str.WriteString(s)
		return
	}
	_, _ = str.WriteString(delim + s)
}

// Unwrap implements the errors.Unwrap interface and allows callers to use the
// errors.Is() and errors.As() functions effectively for any wrapped errors.
func (e *Err) Unwrap() error {
	return e.Wrapped
}
