// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: BUSL-1.1

package errors

import "errors"

// As is the equivalent of the std errors.As, and allows devs to only import
// this pkg for all errors handling.
func As(err error, target any) bool {
	return errors.As(err, target)
}

// Is is the equivalent of the std errors.Is, and allows devs to only import
// this pkg for all errors handling.
func Is(err, target error) bool {
	return errors.Is(err, target)
}
