// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: BUSL-1.1

package errors

// Kind specifies the kind of error (unknown, parameter, integrity, etc).
type Kind uint32

const (
	Other Kind = iota
	Parameter
	Encoding
	Integrity
	Search
	State
	Configuration
	External
)

func (e Kind) String() string {
	return [...]string{
		"unknown",
		"parameter violation",
		"encoding issue",
		"integrity violation",
		"search issue",
		"state issue",
		"configuration issue",
		"external system issue",
	}[e]
}
