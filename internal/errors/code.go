// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: BUSL-1.1

package errors

// Code specifies a code for the error.
type Code uint32

// String will return the Code's Info.Message
func (c Code) String() string {
	return c.Info().Message
}

// Info will look up the Code's Info.  If the Info is not found, it will return
// Info for an Unknown Code.
func (c Code) Info() Info {
	if info, ok := errorCodeInfo[c]; ok {
		return info
	}
	return errorCodeInfo[Unknown]
}

const (
	Unknown Code = 0 // Unknown will be equal to a zero value for Codes

	// General function errors are reserved Codes 100-999
	InvalidParameter     Code = 100 // InvalidParameter represents an invalid parameter for an operation.
	InvalidConfiguration Code = 101 // InvalidConfiguration represents an invalid configuration for an operation
	Internal             Code = 500 // Internal represents an internal error
	Io                   Code = 503 // Io represents an error that occurred during an io operation
	Encode               Code = 600 // Encode represents an error that occurred during encoding
	Decode               Code = 601 // Decode represents an error that occurred during decoding

	// DB errors are reserved Codes from 1000-1999
	CheckConstraint      Code = 1000 // CheckConstraint represents a check constraint error
	NotNull              Code = 1001 // NotNull represents a value must not be null error
	NotUnique            Code = 1002 // NotUnique represents a value must be unique error
	NotSpecificIntegrity Code = 1003 // NotSpecificIntegrity represents an integrity error that has no specific domain error code
	MissingTable         Code = 1004 // MissingTable represents an undefined table error
	RecordNotFound       Code = 1100 // RecordNotFound represents that a record/row was not found matching the criteria
	MultipleRecords      Code = 1101 // MultipleRecords represents that multiple records/rows were found matching the criteria
	MigrationIntegrity   Code = 1200 // MigrationIntegrity represents a migration integrity error
	MigrationLock        Code = 1201 // MigrationLock represents a bad db lock for a migration

	// Run state errors are reserved Codes from 2000-2999
	Timeout        Code = 2000 // Timeout represents an operation that exceeded its deadline
	Canceled       Code = 2001 // Canceled represents an operation interrupted by a shutdown request
	AlreadyRunning Code = 2002 // AlreadyRunning represents a run requested while another is in flight

	// External system errors are reserved Codes from 3000-3999
	Unavailable Code = 3000 // Unavailable represents an external system being unavailable
)
