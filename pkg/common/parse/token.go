/*
 * Copyright (c) 2022-2023, Dana Burkart <dana.burkart@gmail.com>
 *
 * SPDX-License-Identifier: BSD-2-Clause
 */

package parse

// TokenType is implemented by every token enumeration that can be reported
// in diagnostics.
type TokenType interface {
	ToString() string
}

// Location is a half-open byte span [Start, End) into the scanned input.
type Location struct {
	Start int
	End   int
}

func (l Location) Len() int {
	return l.End - l.Start
}
