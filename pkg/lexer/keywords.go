/*
 * Copyright (c) 2023, Dana Burkart <dana.burkart@gmail.com>
 *
 * SPDX-License-Identifier: BSD-2-Clause
 */

package lexer

import (
	"sort"
	"strings"

	"github.com/pkg/errors"
)

type Keyword struct {
	Type  TokenType
	Value bool
}

// Keywords holds every reserved spelling known to any dialect. A dialect
// only recognizes the subset it names.
var Keywords = map[string]Keyword{
	"let":   {Type: TOK_LET},
	"in":    {Type: TOK_IN},
	"where": {Type: TOK_WHERE},
	"if":    {Type: TOK_IF},
	"then":  {Type: TOK_THEN},
	"else":  {Type: TOK_ELSE},
	"true":  {Type: TOK_BOOLEAN, Value: true},
	"false": {Type: TOK_BOOLEAN, Value: false},
}

// Dialect selects which of the language's lexical extensions are active.
type Dialect struct {
	Name     string
	Reserved []string

	// Comparisons enables the two-character operators <=, >=, == and !=.
	Comparisons bool
	// Booleans makes true and false literals instead of identifiers.
	Booleans bool
	// Underscore allows '_' anywhere in an identifier.
	Underscore bool
}

var (
	// Micro is the base language: let/in/where bindings over integer
	// arithmetic, with every operator a single character.
	Micro = Dialect{
		Name:     "micro",
		Reserved: []string{"let", "in", "where"},
	}

	// Extended adds conditionals, boolean literals and comparisons.
	Extended = Dialect{
		Name:        "extended",
		Reserved:    []string{"let", "in", "where", "if", "then", "else"},
		Comparisons: true,
		Booleans:    true,
		Underscore:  true,
	}

	dialects = map[string]Dialect{
		Micro.Name:    Micro,
		Extended.Name: Extended,
	}
)

// DialectByName resolves a configured dialect name, ignoring case.
func DialectByName(name string) (Dialect, error) {
	d, ok := dialects[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return Dialect{}, errors.Errorf("unknown dialect %q (known: %s)", name, strings.Join(DialectNames(), ", "))
	}
	return d, nil
}

// DialectNames returns the known dialect names in sorted order.
func DialectNames() []string {
	names := make([]string, 0, len(dialects))
	for name := range dialects {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Words returns every spelling the dialect treats specially, including the
// boolean literals when enabled.
func (d Dialect) Words() []string {
	words := append([]string{}, d.Reserved...)
	if d.Booleans {
		words = append(words, "true", "false")
	}
	return words
}

// LookupIdentifier classifies a complete identifier run. It is only
// consulted once the run has been scanned to its full length, so "letter"
// is never split into "let" and "ter".
func (d Dialect) LookupIdentifier(text string) (TokenType, bool) {
	kw, ok := Keywords[text]
	if !ok {
		return TOK_IDENTIFIER, false
	}

	if kw.Type == TOK_BOOLEAN {
		if d.Booleans {
			return TOK_BOOLEAN, kw.Value
		}
		return TOK_IDENTIFIER, false
	}

	for _, r := range d.Reserved {
		if r == text {
			return kw.Type, false
		}
	}
	return TOK_IDENTIFIER, false
}
