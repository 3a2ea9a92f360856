// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: BUSL-1.1

package errors_test

import (
	"context"
	stderrors "errors"
	"testing"

	"github.com/hashicorp/parade/internal/errors"
	"github.com/stretchr/testify/assert"
)

func TestT(t *testing.T) {
	t.Parallel()
	testErr := &errors.Err{Code: errors.Internal}
	tests := []struct {
		name string
		args []any
		want *errors.Template
	}{
		{
			name: "code",
			args: []any{errors.InvalidParameter},
			want: &errors.Template{Err: errors.Err{Code: errors.InvalidParameter}},
		},
		{
			name: "msg",
			args: []any{"test msg"},
			want: &errors.Template{Err: errors.Err{Msg: "test msg"}},
		},
		{
			name: "op",
			args: []any{errors.Op("alice.Bob")},
			want: &errors.Template{Err: errors.Err{Op: "alice.Bob"}},
		},
		{
			name: "kind",
			args: []any{errors.Integrity},
			want: &errors.Template{Kind: errors.Integrity},
		},
		{
			name: "wrapped-err",
			args: []any{testErr},
			want: &errors.Template{Err: errors.Err{Wrapped: &errors.Err{Code: errors.Internal}}},
		},
		{
			name: "ignored",
			args: []any{42},
			want: &errors.Template{},
		},
		{
			name: "last-one-wins",
			args: []any{errors.InvalidParameter, errors.RecordNotFound},
			want: &errors.Template{Err: errors.Err{Code: errors.RecordNotFound}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, errors.T(tt.args...))
		})
	}
}

func TestMatch(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	testErr := errors.New(ctx, errors.NotUnique, "template.Create", "database name already in use", errors.WithoutEvent())
	wrappedErr := errors.Wrap(ctx, testErr, "runner.Run", errors.WithoutEvent())
	tests := []struct {
		name     string
		template *errors.Template
		err      error
		want     bool
	}{
		{
			name:     "nil-template",
			template: nil,
			err:      testErr,
			want:     false,
		},
		{
			name:     "nil-error",
			template: errors.T(errors.NotUnique),
			err:      nil,
			want:     false,
		},
		{
			name:     "not-a-domain-error",
			template: errors.T(errors.NotUnique),
			err:      stderrors.New("not a domain error"),
			want:     false,
		},
		{
			name:     "match-code",
			template: errors.T(errors.NotUnique),
			err:      testErr,
			want:     true,
		},
		{
			name:     "mismatch-code",
			template: errors.T(errors.RecordNotFound),
			err:      testErr,
			want:     false,
		},
		{
			name:     "match-kind",
			template: errors.T(errors.Integrity),
			err:      testErr,
			want:     true,
		},
		{
			name:     "mismatch-kind",
			template: errors.T(errors.Search),
			err:      testErr,
			want:     false,
		},
		{
			name:     "match-op",
			template: errors.T(errors.Op("template.Create")),
			err:      testErr,
			want:     true,
		},
		{
			name:     "match-msg",
			template: errors.T("database name already in use"),
			err:      testErr,
			want:     true,
		},
		{
			name:     "match-wrapped",
			template: errors.T(errors.Op("runner.Run"), errors.T(errors.NotUnique)),
			err:      wrappedErr,
			want:     true,
		},
		{
			name:     "match-through-wrapping",
			template: errors.T(errors.NotUnique),
			err:      wrappedErr,
			want:     true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, errors.Match(tt.template, tt.err))
		})
	}
}
