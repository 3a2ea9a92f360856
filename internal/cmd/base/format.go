// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: BUSL-1.1

package base

import (
	"fmt"
	"sort"
	"strings"

	"github.com/mitchellh/go-wordwrap"
)

func trimSpaceRight(in string) string {
	for len(in) > 0 && in[len(in)-1] == ' ' {
		in = in[:len(in)-1]
	}
	return in
}

// WrapForHelpText wraps each line to the terminal width, preserving the
// line's leading indentation.
func WrapForHelpText(lines []string) string {
	var ret []string
	for _, line := range lines {
		line = trimSpaceRight(line)
		trimmed := strings.TrimSpace(line)
		diff := uint(len(line) - len(trimmed))
		wrapped := wordwrap.WrapString(trimmed, TermWidth-diff)
		splitWrapped := strings.Split(wrapped, "\n")
		for i := range splitWrapped {
			splitWrapped[i] = fmt.Sprintf("%s%s", strings.Repeat(" ", int(diff)), strings.TrimSpace(splitWrapped[i]))
		}
		ret = append(ret, strings.Join(splitWrapped, "\n"))
	}

	return strings.Join(ret, "\n")
}

// WrapMap renders a map as aligned "key: value" lines with the given leading
// padding.
func WrapMap(prefixSpaces, maxLengthOverride int, input map[string]any) string {
	maxKeyLength := maxLengthOverride
	if maxKeyLength == 0 {
		for k := range input {
			if len(k) > maxKeyLength {
				maxKeyLength = len(k)
			}
		}
	}

	var sortedKeys []string
	for k := range input {
		sortedKeys = append(sortedKeys, k)
	}
	sort.Strings(sortedKeys)

	prefix := strings.Repeat(" ", prefixSpaces)
	var ret []string
	for _, k := range sortedKeys {
		ret = append(ret, fmt.Sprintf("%s%s:%s%v",
			prefix, k, strings.Repeat(" ", maxKeyLength-len(k)+1), input[k]))
	}
	return strings.Join(ret, "\n")
}
