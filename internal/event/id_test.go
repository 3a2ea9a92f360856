// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: BUSL-1.1

package event

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewId(t *testing.T) {
	t.Parallel()
	t.Run("missing-prefix", func(t *testing.T) {
		got, err := NewId("")
		require.Error(t, err)
		assert.Empty(t, got)
		assert.ErrorIs(t, err, ErrInvalidParameter)
	})
	t.Run("valid", func(t *testing.T) {
		got, err := NewId("e")
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(got, "e_"))
		assert.Len(t, got, len("e_")+10)
	})
}
