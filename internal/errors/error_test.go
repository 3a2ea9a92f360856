// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: BUSL-1.1

package errors_test

import (
	"context"
	stderrors "errors"
	"testing"

	"github.com/hashicorp/parade/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestE(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	testErr := stderrors.New("test error")
	tests := []struct {
		name string
		opt  []errors.Option
		want error
	}{
		{
			name: "all-options",
			opt: []errors.Option{
				errors.WithWrap(testErr),
				errors.WithOp("alice.Bob"),
				errors.WithCode(errors.InvalidParameter),
				errors.WithMsg("test msg"),
				errors.WithoutEvent(),
			},
			want: &errors.Err{
				Op:      "alice.Bob",
				Wrapped: testErr,
				Msg:     "test msg",
				Code:    errors.InvalidParameter,
			},
		},
		{
			name: "no-options",
			opt:  []errors.Option{errors.WithoutEvent()},
			want: &errors.Err{
				Code: errors.Unknown,
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert := assert.New(t)
			err := errors.E(ctx, tt.opt...)
			assert.Equal(tt.want, err)
		})
	}
}

func TestNew(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	testErr := stderrors.New("test error")
	tests := []struct {
		name       string
		code       errors.Code
		op         errors.Op
		msg        string
		opt        []errors.Option
		want       error
		wantErrMsg string
	}{
		{
			name:       "valid",
			code:       errors.InvalidParameter,
			op:         "runner.New",
			msg:        "missing database url",
			opt:        []errors.Option{errors.WithoutEvent()},
			want: &errors.Err{
				Code: errors.InvalidParameter,
				Op:   "runner.New",
				Msg:  "missing database url",
			},
			wantErrMsg: "runner.New: missing database url: parameter violation: error #100",
		},
		{
			name:       "with-wrap",
			code:       errors.Io,
			op:         "junit.Write",
			msg:        "unable to write report",
			opt:        []errors.Option{errors.WithWrap(testErr), errors.WithoutEvent()},
			want: &errors.Err{
				Code:    errors.Io,
				Op:      "junit.Write",
				Msg:     "unable to write report",
				Wrapped: testErr,
			},
			wantErrMsg: "junit.Write: unable to write report: integrity violation: error #503: test error",
		},
		{
			name:       "no-msg",
			code:       errors.RecordNotFound,
			op:         "template.Drop",
			opt:        []errors.Option{errors.WithoutEvent()},
			want: &errors.Err{
				Code: errors.RecordNotFound,
				Op:   "template.Drop",
			},
			wantErrMsg: "template.Drop: record not found: search issue: error #1100",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert := assert.New(t)
			err := errors.New(ctx, tt.code, tt.op, tt.msg, tt.opt...)
			assert.Equal(tt.want, err)
			assert.Equal(tt.wantErrMsg, err.Error())
		})
	}
}

func TestWrap(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	testErr := errors.New(ctx, errors.InvalidParameter, "alice.Bob", "bad parameter", errors.WithoutEvent())
	tests := []struct {
		name     string
		err      error
		op       errors.Op
		opt      []errors.Option
		wantCode errors.Code
	}{
		{
			name:     "preserves-wrapped-code",
			err:      testErr,
			op:       "runner.Run",
			opt:      []errors.Option{errors.WithoutEvent()},
			wantCode: errors.InvalidParameter,
		},
		{
			name:     "explicit-code-wins",
			err:      testErr,
			op:       "runner.Run",
			opt:      []errors.Option{errors.WithCode(errors.Internal), errors.WithoutEvent()},
			wantCode: errors.Internal,
		},
		{
			name:     "stdlib-error-stays-unknown",
			err:      stderrors.New("not a domain error"),
			op:       "runner.Run",
			opt:      []errors.Option{errors.WithoutEvent()},
			wantCode: errors.Unknown,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert, require := assert.New(t), require.New(t)
			err := errors.Wrap(ctx, tt.err, tt.op, tt.opt...)
			require.Error(err)
			var e *errors.Err
			require.True(errors.As(err, &e))
			assert.Equal(tt.wantCode, e.Code)
			assert.Equal(tt.op, e.Op)
			assert.Equal(tt.err, e.Wrapped)
			assert.True(errors.Is(err, tt.err))
		})
	}
}

func TestErr_Error(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		err  *errors.Err
		want string
	}{
		{
			name: "op-msg-code",
			err: &errors.Err{
				Op:   "schema.InitTemplate",
				Msg:  "migration failed",
				Code: errors.MigrationIntegrity,
			},
			want: "schema.InitTemplate: migration failed: integrity violation: error #1200",
		},
		{
			name: "code-only-uses-default-msg",
			err: &errors.Err{
				Code: errors.Timeout,
			},
			want: "operation exceeded its deadline: state issue: error #2000",
		},
		{
			name: "msg-only",
			err: &errors.Err{
				Msg: "just a message",
			},
			want: "just a message",
		},
		{
			name: "everything-empty",
			err:  &errors.Err{},
			want: "unknown error",
		},
		{
			name: "wrapped",
			err: &errors.Err{
				Op:      "template.Create",
				Code:    errors.Unavailable,
				Msg:     "unable to reach database",
				Wrapped: stderrors.New("connection refused"),
			},
			want: "template.Create: unable to reach database: external system issue: error #3000: connection refused",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.Error())
		})
	}
}

func TestErr_Unwrap(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	inner := stderrors.New("inner")
	err := errors.Wrap(ctx, inner, "alice.Bob", errors.WithoutEvent())
	assert.Equal(t, inner, stderrors.Unwrap(err))
	assert.True(t, errors.Is(err, inner))
}
