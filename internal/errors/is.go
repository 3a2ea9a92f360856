// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: BUSL-1.1

package errors

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
)

// pg error codes (SQLSTATE) that we convert into domain errors
const (
	pgUniqueViolation  = "23505"
	pgNotNullViolation = "23502"
	pgCheckViolation   = "23514"
	pgUndefinedTable   = "42P01"
)

// IsUniqueError returns a boolean indicating whether the error is known to
// report a unique constraint violation.
func IsUniqueError(err error) bool {
	if err == nil {
		return false
	}

	var domainErr *Err
	if As(err, &domainErr) {
		if domainErr.Code == NotUnique {
			return true
		}
	}

	var pgErr *pgconn.PgError
	if As(err, &pgErr) {
		if pgErr.Code == pgUniqueViolation {
			return true
		}
	}

	return false
}

// IsCheckConstraintError returns a boolean indicating whether the error is
// known to report a check constraint violation.
func IsCheckConstraintError(err error) bool {
	if err == nil {
		return false
	}

	var domainErr *Err
	if As(err, &domainErr) {
		if domainErr.Code == CheckConstraint {
			return true
		}
	}

	var pgErr *pgconn.PgError
	if As(err, &pgErr) {
		if pgErr.Code == pgCheckViolation {
			return true
		}
	}

	return false
}

// IsNotNullError returns a boolean indicating whether the error is known to
// report a not-null constraint violation.
func IsNotNullError(err error) bool {
	if err == nil {
		return false
	}

	var domainErr *Err
	if As(err, &domainErr) {
		if domainErr.Code == NotNull {
			return true
		}
	}

	var pgErr *pgconn.PgError
	if As(err, &pgErr) {
		if pgErr.Code == pgNotNullViolation {
			return true
		}
	}

	return false
}

// IsMissingTableError returns a boolean indicating whether the error is known
// to report an undefined/missing table.
func IsMissingTableError(err error) bool {
	if err == nil {
		return false
	}

	var domainErr *Err
	if As(err, &domainErr) {
		if domainErr.Code == MissingTable {
			return true
		}
	}

	var pgErr *pgconn.PgError
	if As(err, &pgErr) {
		if pgErr.Code == pgUndefinedTable {
			return true
		}
	}

	return false
}

// IsNotFoundError returns a boolean indicating whether the error is known to
// report a "record not found".
func IsNotFoundError(err error) bool {
	if err == nil {
		return false
	}

	var domainErr *Err
	if As(err, &domainErr) {
		if domainErr.Code == RecordNotFound {
			return true
		}
	}
	return false
}

// Convert will convert the error to an Err (if that's not possible, it just
// returns the error as is) and it will attempt to add a helpful error msg as
// well.
func Convert(ctx context.Context, e error) error {
	if e == nil {
		return nil
	}

	var alreadyConverted *Err
	if As(e, &alreadyConverted) {
		return alreadyConverted
	}

	var pgErr *pgconn.PgError
	if As(e, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation:
			return E(ctx, WithCode(NotUnique), WithMsg(pgErr.Detail), WithWrap(e), WithoutEvent())
		case pgNotNullViolation:
			return E(ctx, WithCode(NotNull), WithMsg(fmt.Sprintf("%s must not be empty", pgErr.ColumnName)), WithWrap(e), WithoutEvent())
		case pgCheckViolation:
			return E(ctx, WithCode(CheckConstraint), WithMsg(fmt.Sprintf("%s constraint failed", pgErr.ConstraintName)), WithWrap(e), WithoutEvent())
		case pgUndefinedTable:
			return E(ctx, WithCode(MissingTable), WithMsg(pgErr.Message), WithWrap(e), WithoutEvent())
		}
	}
	// unfortunately, we can't help.
	return e
}
