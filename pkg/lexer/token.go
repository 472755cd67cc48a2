/*
 * Copyright (c) 2023, Dana Burkart <dana.burkart@gmail.com>
 *
 * SPDX-License-Identifier: BSD-2-Clause
 */

package lexer

import (
	"fmt"
	"strconv"

	"github.com/dburkart/micro/pkg/common/parse"
	"github.com/pkg/errors"
)

type TokenType int

const (
	TOK_ILLEGAL TokenType = iota
	TOK_EOF

	// Symbols
	TOK_ASSIGN
	TOK_PLUS
	TOK_MINUS
	TOK_ASTERISK
	TOK_SLASH
	TOK_COLON
	TOK_DOT
	TOK_LT
	TOK_GT
	TOK_BANG
	TOK_PAREN_L
	TOK_PAREN_R
	TOK_BRACE_L
	TOK_BRACE_R

	// Comparisons
	TOK_LE
	TOK_GE
	TOK_EQ
	TOK_NE

	TOK_IDENTIFIER
	TOK_INTEGER
	TOK_BOOLEAN

	// Reserved words
	TOK_LET
	TOK_IN
	TOK_WHERE
	TOK_IF
	TOK_THEN
	TOK_ELSE
)

var (
	ErrIllegalCharacter = errors.New("illegal character")
	ErrIntegerOverflow  = errors.New("integer literal out of range")
)

func (t TokenType) ToString() string {
	switch t {
	case TOK_ILLEGAL:
		return "TOK_ILLEGAL"
	case TOK_EOF:
		return "TOK_EOF"
	case TOK_ASSIGN:
		return "TOK_ASSIGN"
	case TOK_PLUS:
		return "TOK_PLUS"
	case TOK_MINUS:
		return "TOK_MINUS"
	case TOK_ASTERISK:
		return "TOK_ASTERISK"
	case TOK_SLASH:
		return "TOK_SLASH"
	case TOK_COLON:
		return "TOK_COLON"
	case TOK_DOT:
		return "TOK_DOT"
	case TOK_LT:
		return "TOK_LT"
	case TOK_GT:
		return "TOK_GT"
	case TOK_BANG:
		return "TOK_BANG"
	case TOK_PAREN_L:
		return "TOK_PAREN_L"
	case TOK_PAREN_R:
		return "TOK_PAREN_R"
	case TOK_BRACE_L:
		return "TOK_BRACE_L"
	case TOK_BRACE_R:
		return "TOK_BRACE_R"
	case TOK_LE:
		return "TOK_LE"
	case TOK_GE:
		return "TOK_GE"
	case TOK_EQ:
		return "TOK_EQ"
	case TOK_NE:
		return "TOK_NE"
	case TOK_IDENTIFIER:
		return "TOK_IDENTIFIER"
	case TOK_INTEGER:
		return "TOK_INTEGER"
	case TOK_BOOLEAN:
		return "TOK_BOOLEAN"
	case TOK_LET:
		return "TOK_LET"
	case TOK_IN:
		return "TOK_IN"
	case TOK_WHERE:
		return "TOK_WHERE"
	case TOK_IF:
		return "TOK_IF"
	case TOK_THEN:
		return "TOK_THEN"
	case TOK_ELSE:
		return "TOK_ELSE"
	}
	return "TOK_UNKNOWN"
}

// Name returns the variant name used by the debug representation of a
// token, e.g. "Identifier" or "LE".
func (t TokenType) Name() string {
	switch t {
	case TOK_ILLEGAL:
		return "Illegal"
	case TOK_EOF:
		return "EndOfFile"
	case TOK_ASSIGN:
		return "Assign"
	case TOK_PLUS:
		return "Plus"
	case TOK_MINUS:
		return "Minus"
	case TOK_ASTERISK:
		return "Asterisk"
	case TOK_SLASH:
		return "Slash"
	case TOK_COLON:
		return "Colon"
	case TOK_DOT:
		return "Dot"
	case TOK_LT:
		return "LT"
	case TOK_GT:
		return "GT"
	case TOK_BANG:
		return "Bang"
	case TOK_PAREN_L:
		return "LParen"
	case TOK_PAREN_R:
		return "RParen"
	case TOK_BRACE_L:
		return "LBrace"
	case TOK_BRACE_R:
		return "RBrace"
	case TOK_LE:
		return "LE"
	case TOK_GE:
		return "GE"
	case TOK_EQ:
		return "EQ"
	case TOK_NE:
		return "NE"
	case TOK_IDENTIFIER:
		return "Identifier"
	case TOK_INTEGER:
		return "Integer"
	case TOK_BOOLEAN:
		return "Boolean"
	case TOK_LET:
		return "Let"
	case TOK_IN:
		return "In"
	case TOK_WHERE:
		return "Where"
	case TOK_IF:
		return "If"
	case TOK_THEN:
		return "Then"
	case TOK_ELSE:
		return "Else"
	}
	return "Unknown"
}

// IsSentinel reports whether t marks the end of meaningful input.
func (t TokenType) IsSentinel() bool {
	return t == TOK_ILLEGAL || t == TOK_EOF
}

type Token struct {
	Type     TokenType
	Lexeme   string
	Location parse.Location

	// Decoded values, set for TOK_INTEGER and TOK_BOOLEAN respectively
	Integer int64
	Boolean bool

	// Err is only set on TOK_ILLEGAL. Use errors.Is with ErrIllegalCharacter
	// or ErrIntegerOverflow to tell the two apart.
	Err error
}

// Pos returns the byte offset of the token's first character.
func (t Token) Pos() int {
	return t.Location.Start
}

// String renders the token the way the command line driver prints it, e.g.
// `Identifier(4, "x")` or `EndOfFile(10)`.
func (t Token) String() string {
	switch t.Type {
	case TOK_IDENTIFIER:
		return fmt.Sprintf("%s(%d, %q)", t.Type.Name(), t.Pos(), t.Lexeme)
	case TOK_INTEGER:
		return fmt.Sprintf("%s(%d, %d)", t.Type.Name(), t.Pos(), t.Integer)
	case TOK_BOOLEAN:
		return fmt.Sprintf("%s(%d, %t)", t.Type.Name(), t.Pos(), t.Boolean)
	}
	return fmt.Sprintf("%s(%d)", t.Type.Name(), t.Pos())
}

// Value returns the decoded payload of literal and identifier tokens, and
// nil for everything else.
func (t Token) Value() interface{} {
	switch t.Type {
	case TOK_IDENTIFIER:
		return t.Lexeme
	case TOK_INTEGER:
		return t.Integer
	case TOK_BOOLEAN:
		return t.Boolean
	}
	return nil
}

// Reason returns a short description of why an illegal token was produced.
func (t Token) Reason() string {
	switch {
	case t.Type != TOK_ILLEGAL:
		return ""
	case errors.Is(t.Err, ErrIntegerOverflow):
		return "overflow"
	default:
		return "character"
	}
}

// SyntaxError converts an illegal token into a diagnostic that can be
// rendered against the original input.
func (t Token) SyntaxError() parse.SyntaxError {
	msg := "illegal token"
	if t.Err != nil {
		msg = t.Err.Error()
	}
	return parse.NewTokenError(t.Type, t.Location, msg)
}

// ValueString formats the decoded payload for tabular output.
func (t Token) ValueString() string {
	switch t.Type {
	case TOK_INTEGER:
		return strconv.FormatInt(t.Integer, 10)
	case TOK_BOOLEAN:
		return strconv.FormatBool(t.Boolean)
	case TOK_IDENTIFIER:
		return t.Lexeme
	}
	return ""
}
