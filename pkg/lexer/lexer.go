/*
 * Copyright (c) 2023, Dana Burkart <dana.burkart@gmail.com>
 *
 * SPDX-License-Identifier: BSD-2-Clause
 */

package lexer

import (
	"strconv"
	"unicode"
	"unicode/utf8"

	"github.com/dburkart/micro/pkg/common/parse"
	"github.com/pkg/errors"
)

// Lexer turns an input string into a stream of tokens, one per call to Next.
// The input is never copied or modified; positions are byte offsets into it.
//
// A Lexer is not safe for concurrent use.
type Lexer struct {
	input   string
	pos     int
	dialect Dialect
}

type Option func(*Lexer)

func WithDialect(d Dialect) Option {
	return func(l *Lexer) {
		l.dialect = d
	}
}

// New returns a Lexer positioned at the start of input. The Extended dialect
// is used unless another is given.
func New(input string, opts ...Option) *Lexer {
	l := &Lexer{input: input, dialect: Extended}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Scan tokenizes input in one go, up to and including the first EndOfFile.
func Scan(input string, opts ...Option) []Token {
	return New(input, opts...).Tokens()
}

func (l *Lexer) Input() string {
	return l.input
}

// Position returns the number of bytes consumed so far.
func (l *Lexer) Position() int {
	return l.pos
}

func (l *Lexer) Dialect() Dialect {
	return l.dialect
}

// Next scans and returns the next token. It never fails: unrecognized input
// comes back as TOK_ILLEGAL, and once the input is exhausted every call
// returns TOK_EOF at the same position.
func (l *Lexer) Next() Token {
	l.skipWhitespace()

	start := l.pos
	r, ok := l.readRune()
	if !ok {
		return l.emit(TOK_EOF, start)
	}

	switch r {
	case '=':
		return l.comparison(start, TOK_ASSIGN, TOK_EQ)
	case '!':
		return l.comparison(start, TOK_BANG, TOK_NE)
	case '<':
		return l.comparison(start, TOK_LT, TOK_LE)
	case '>':
		return l.comparison(start, TOK_GT, TOK_GE)
	case '+':
		return l.emit(TOK_PLUS, start)
	case '-':
		return l.emit(TOK_MINUS, start)
	case '*':
		return l.emit(TOK_ASTERISK, start)
	case '/':
		return l.emit(TOK_SLASH, start)
	case ':':
		return l.emit(TOK_COLON, start)
	case '.':
		return l.emit(TOK_DOT, start)
	case '(':
		return l.emit(TOK_PAREN_L, start)
	case ')':
		return l.emit(TOK_PAREN_R, start)
	case '{':
		return l.emit(TOK_BRACE_L, start)
	case '}':
		return l.emit(TOK_BRACE_R, start)
	}

	switch {
	case l.isIdentifierRune(r):
		return l.identifier(start)
	case isDigit(r):
		return l.integer(start)
	}

	return l.illegal(start, ErrIllegalCharacter)
}

// Tokens drains the lexer, returning every remaining token up to and
// including EndOfFile.
func (l *Lexer) Tokens() []Token {
	var tokens []Token
	for {
		t := l.Next()
		tokens = append(tokens, t)
		if t.Type == TOK_EOF {
			return tokens
		}
	}
}

func (l *Lexer) readRune() (rune, bool) {
	if l.pos >= len(l.input) {
		return 0, false
	}
	r, width := utf8.DecodeRuneInString(l.input[l.pos:])
	l.pos += width
	return r, true
}

func (l *Lexer) peekRune() (rune, bool) {
	if l.pos >= len(l.input) {
		return 0, false
	}
	r, _ := utf8.DecodeRuneInString(l.input[l.pos:])
	return r, true
}

func (l *Lexer) skipWhitespace() {
	for {
		r, ok := l.peekRune()
		if !ok {
			return
		}
		switch r {
		case ' ', '\t', '\n', '\r':
			l.readRune()
		default:
			return
		}
	}
}

// matchRun consumes the maximal run of runes satisfying fn and returns its
// width in bytes.
func (l *Lexer) matchRun(fn func(rune) bool) int {
	begin := l.pos
	for {
		r, ok := l.peekRune()
		if !ok || !fn(r) {
			return l.pos - begin
		}
		l.readRune()
	}
}

func (l *Lexer) emit(t TokenType, start int) Token {
	return Token{
		Type:     t,
		Lexeme:   l.input[start:l.pos],
		Location: parse.Location{Start: start, End: l.pos},
	}
}

// comparison emits double when the dialect has two-character operators and
// the next rune is '=', and single otherwise.
func (l *Lexer) comparison(start int, single, double TokenType) Token {
	if l.dialect.Comparisons {
		if r, ok := l.peekRune(); ok && r == '=' {
			l.readRune()
			return l.emit(double, start)
		}
	}
	return l.emit(single, start)
}

// identifier scans the rest of an identifier whose first rune has already
// been read, then classifies it against the keyword table.
//
// Grammar:
//
//	identifier      = 1*(ALPHABETIC / "_")
func (l *Lexer) identifier(start int) Token {
	l.matchRun(l.isIdentifierRune)

	t, value := l.dialect.LookupIdentifier(l.input[start:l.pos])
	tok := l.emit(t, start)
	if t == TOK_BOOLEAN {
		tok.Boolean = value
	}
	return tok
}

// integer scans the rest of a decimal literal whose first digit has already
// been read. Literals that do not fit in an int64 are illegal.
//
// Grammar:
//
//	integer         = 1*DIGIT
func (l *Lexer) integer(start int) Token {
	l.matchRun(isDigit)

	value, err := strconv.ParseInt(l.input[start:l.pos], 10, 64)
	if err != nil {
		return l.illegal(start, ErrIntegerOverflow)
	}

	tok := l.emit(TOK_INTEGER, start)
	tok.Integer = value
	return tok
}

func (l *Lexer) illegal(start int, cause error) Token {
	tok := l.emit(TOK_ILLEGAL, start)
	tok.Err = errors.Wrapf(cause, "%q", tok.Lexeme)
	return tok
}

func (l *Lexer) isIdentifierRune(r rune) bool {
	return isAlphabetic(r) || (l.dialect.Underscore && r == '_')
}

// isAlphabetic matches the Unicode Alphabetic property: letters, letter
// numbers such as 'Ⅻ', and the combining vowel signs of scripts like
// Devanagari.
func isAlphabetic(r rune) bool {
	return unicode.IsLetter(r) || unicode.In(r, unicode.Nl, unicode.Other_Alphabetic)
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}
