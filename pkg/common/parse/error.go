/*
 * Copyright (c) 2022, Dana Burkart <dana.burkart@gmail.com>
 *
 * SPDX-License-Identifier: BSD-2-Clause
 */

package parse

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

type SyntaxError struct {
	Location Location
	Message  string
	// Token is the type of the offending token, if one was produced
	Token TokenType
}

func NewSyntaxError(l Location, m string) SyntaxError {
	return SyntaxError{Location: l, Message: m}
}

// NewTokenError reports a problem with a specific token.
func NewTokenError(t TokenType, l Location, m string) SyntaxError {
	return SyntaxError{Location: l, Message: m, Token: t}
}

func (s SyntaxError) Error() string {
	if s.Token != nil {
		return fmt.Sprintf("%d: %s: %s", s.Location.Start, s.Token.ToString(), s.Message)
	}
	return fmt.Sprintf("%d: %s", s.Location.Start, s.Message)
}

// FormatError renders the line of input containing the error, with a caret
// under the first offending character and tildes under the rest of the span.
func (s *SyntaxError) FormatError(input string) string {
	start := s.Location.Start
	if start > len(input) {
		start = len(input)
	}

	lineStart := strings.LastIndexByte(input[:start], '\n') + 1
	lineEnd := strings.IndexByte(input[start:], '\n')
	if lineEnd < 0 {
		lineEnd = len(input)
	} else {
		lineEnd += start
	}
	line := strings.TrimRight(input[lineStart:lineEnd], "\r")

	// Columns are counted in runes so the caret lines up on a terminal
	column := utf8.RuneCountInString(input[lineStart:start])

	end := s.Location.End
	if end > lineEnd {
		end = lineEnd
	}
	repeat := 0
	if end > start {
		repeat = utf8.RuneCountInString(input[start:end]) - 1
	}
	if repeat < 0 {
		repeat = 0
	}

	errorString := "Syntax error found in input:\n"
	errorString += line
	errorString += fmt.Sprintf("\n%s^%s ", strings.Repeat(" ", column), strings.Repeat("~", repeat))
	errorString += fmt.Sprintf("%s\n", s.Message)
	return errorString
}
