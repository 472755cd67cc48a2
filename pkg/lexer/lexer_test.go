/*
 * Copyright (c) 2023, Dana Burkart <dana.burkart@gmail.com>
 *
 * SPDX-License-Identifier: BSD-2-Clause
 */

package lexer

import (
	"strings"
	"testing"

	"github.com/pkg/errors"
)

func tokenStrings(tokens []Token) []string {
	out := make([]string, 0, len(tokens))
	for _, t := range tokens {
		out = append(out, t.String())
	}
	return out
}

func expectTokens(t *testing.T, input string, d Dialect, want []string) {
	t.Helper()

	got := tokenStrings(Scan(input, WithDialect(d)))
	if strings.Join(got, " ") != strings.Join(want, " ") {
		t.Errorf("scanning %q with %s\nwanted: %s\ngot:    %s", input, d.Name,
			strings.Join(want, " "), strings.Join(got, " "))
	}
}

func TestNew(t *testing.T) {
	l := New("+-=")

	if l.Input() != "+-=" {
		t.Errorf("wanted input '+-=', got '%s'", l.Input())
	}

	if l.Position() != 0 {
		t.Errorf("wanted position 0, got %d", l.Position())
	}

	if l.Dialect().Name != Extended.Name {
		t.Errorf("wanted default dialect %s, got %s", Extended.Name, l.Dialect().Name)
	}
}

func TestScanAssignment(t *testing.T) {
	expectTokens(t, "let x = 10", Micro, []string{
		"Let(0)", `Identifier(4, "x")`, "Assign(6)", "Integer(8, 10)", "EndOfFile(10)",
	})

	expectTokens(t, "\n            let x = 10\n        ", Micro, []string{
		"Let(13)", `Identifier(17, "x")`, "Assign(19)", "Integer(21, 10)", "EndOfFile(32)",
	})
}

func TestScanKnownTokens(t *testing.T) {
	expectTokens(t, "==+", Micro, []string{"Assign(0)", "Assign(1)", "Plus(2)", "EndOfFile(3)"})
	expectTokens(t, "==+", Extended, []string{"EQ(0)", "Plus(2)", "EndOfFile(3)"})
}

func TestScanSymbols(t *testing.T) {
	want := []string{
		"Assign(0)", "Plus(1)", "Minus(2)", "Asterisk(3)", "Slash(4)", "Colon(5)", "Dot(6)",
		"LT(7)", "GT(8)", "Bang(9)", "LParen(10)", "RParen(11)", "LBrace(12)", "RBrace(13)",
		"EndOfFile(14)",
	}

	for _, d := range []Dialect{Micro, Extended} {
		expectTokens(t, "=+-*/:.<>!(){}", d, want)
	}
}

func TestScanComparisons(t *testing.T) {
	expectTokens(t, "<= >= == != < > = !", Extended, []string{
		"LE(0)", "GE(3)", "EQ(6)", "NE(9)", "LT(12)", "GT(14)", "Assign(16)", "Bang(18)", "EndOfFile(19)",
	})

	expectTokens(t, "===", Extended, []string{"EQ(0)", "Assign(2)", "EndOfFile(3)"})
	expectTokens(t, "<=", Micro, []string{"LT(0)", "Assign(1)", "EndOfFile(2)"})
	expectTokens(t, "!", Extended, []string{"Bang(0)", "EndOfFile(1)"})
}

func TestScanIllegal(t *testing.T) {
	l := New("?")

	tok := l.Next()
	if tok.Type != TOK_ILLEGAL || tok.Pos() != 0 {
		t.Fatalf("wanted Illegal(0), got %s", tok)
	}

	if !errors.Is(tok.Err, ErrIllegalCharacter) {
		t.Errorf("wanted ErrIllegalCharacter, got %v", tok.Err)
	}

	if tok.Reason() != "character" {
		t.Errorf("wanted reason 'character', got '%s'", tok.Reason())
	}

	serr := tok.SyntaxError()
	if serr.Token != TOK_ILLEGAL {
		t.Errorf("wanted the diagnostic to carry TOK_ILLEGAL, got %v", serr.Token)
	}
	if got := serr.Error(); got != `0: TOK_ILLEGAL: "?": illegal character` {
		t.Errorf("wanted a located error message, got '%s'", got)
	}

	expectTokens(t, "a ? b", Micro, []string{`Identifier(0, "a")`, "Illegal(2)", `Identifier(4, "b")`, "EndOfFile(5)"})
}

func TestScanIllegalMultiByte(t *testing.T) {
	tokens := Scan("€1")

	if tokens[0].Type != TOK_ILLEGAL || tokens[0].Lexeme != "€" || tokens[0].Location.End != 3 {
		t.Errorf("wanted Illegal spanning '€', got %s %q %v", tokens[0], tokens[0].Lexeme, tokens[0].Location)
	}

	if tokens[1].String() != "Integer(3, 1)" {
		t.Errorf("wanted Integer(3, 1), got %s", tokens[1])
	}
}

func TestScanEmpty(t *testing.T) {
	l := New("")

	for i := 0; i < 3; i++ {
		if tok := l.Next(); tok.String() != "EndOfFile(0)" {
			t.Errorf("call %d: wanted EndOfFile(0), got %s", i, tok)
		}
	}
}

func TestEndOfFileRepeats(t *testing.T) {
	l := New("foo  ")
	l.Tokens()

	for i := 0; i < 3; i++ {
		tok := l.Next()
		if tok.Type != TOK_EOF || tok.Pos() != 5 {
			t.Errorf("call %d: wanted EndOfFile(5), got %s", i, tok)
		}
	}
}

func TestScanIdentifier(t *testing.T) {
	expectTokens(t, "foo 123", Micro, []string{`Identifier(0, "foo")`, "Integer(4, 123)", "EndOfFile(7)"})
	expectTokens(t, "a3 3a", Extended, []string{
		`Identifier(0, "a")`, "Integer(1, 3)", "Integer(3, 3)", `Identifier(4, "a")`, "EndOfFile(5)",
	})
}

func TestScanUnderscore(t *testing.T) {
	expectTokens(t, "_tmp snake_case", Extended, []string{
		`Identifier(0, "_tmp")`, `Identifier(5, "snake_case")`, "EndOfFile(15)",
	})
	expectTokens(t, "snake_case", Micro, []string{
		`Identifier(0, "snake")`, "Illegal(5)", `Identifier(6, "case")`, "EndOfFile(10)",
	})
}

func TestScanLetExpression(t *testing.T) {
	expectTokens(t, "let foo = 369", Micro, []string{
		"Let(0)", `Identifier(4, "foo")`, "Assign(8)", "Integer(10, 369)", "EndOfFile(13)",
	})
}

func TestScanLetInExpression(t *testing.T) {
	expectTokens(t, "let foo = 3 bar = 6 in foo + bar", Micro, []string{
		"Let(0)", `Identifier(4, "foo")`, "Assign(8)", "Integer(10, 3)",
		`Identifier(12, "bar")`, "Assign(16)", "Integer(18, 6)",
		"In(20)", `Identifier(23, "foo")`, "Plus(27)", `Identifier(29, "bar")`,
		"EndOfFile(32)",
	})
}

func TestScanLetInWhereExpression(t *testing.T) {
	expectTokens(t, "let x = 3 in inc x where inc = + 1", Micro, []string{
		"Let(0)", `Identifier(4, "x")`, "Assign(6)", "Integer(8, 3)",
		"In(10)", `Identifier(13, "inc")`, `Identifier(17, "x")`,
		"Where(19)", `Identifier(25, "inc")`, "Assign(29)", "Plus(31)", "Integer(33, 1)",
		"EndOfFile(34)",
	})
}

func TestScanConditional(t *testing.T) {
	input := "if a <= 10 then true else false_flag != b"

	expectTokens(t, input, Extended, []string{
		"If(0)", `Identifier(3, "a")`, "LE(5)", "Integer(8, 10)", "Then(11)", "Boolean(16, true)",
		"Else(21)", `Identifier(26, "false_flag")`, "NE(37)", `Identifier(40, "b")`, "EndOfFile(41)",
	})

	expectTokens(t, input, Micro, []string{
		`Identifier(0, "if")`, `Identifier(3, "a")`, "LT(5)", "Assign(6)", "Integer(8, 10)",
		`Identifier(11, "then")`, `Identifier(16, "true")`, `Identifier(21, "else")`,
		`Identifier(26, "false")`, "Illegal(31)", `Identifier(32, "flag")`, "Bang(37)", "Assign(38)",
		`Identifier(40, "b")`, "EndOfFile(41)",
	})
}

func TestScanBoolean(t *testing.T) {
	tokens := Scan("true false")

	if tokens[0].Type != TOK_BOOLEAN || !tokens[0].Boolean {
		t.Errorf("wanted Boolean(0, true), got %s", tokens[0])
	}

	if tokens[1].Type != TOK_BOOLEAN || tokens[1].Boolean {
		t.Errorf("wanted Boolean(5, false), got %s", tokens[1])
	}
}

func TestKeywordPrecedence(t *testing.T) {
	expectTokens(t, "let", Micro, []string{"Let(0)", "EndOfFile(3)"})
	expectTokens(t, "letter", Micro, []string{`Identifier(0, "letter")`, "EndOfFile(6)"})
	expectTokens(t, "inwhere", Micro, []string{`Identifier(0, "inwhere")`, "EndOfFile(7)"})
	expectTokens(t, "Let", Micro, []string{`Identifier(0, "Let")`, "EndOfFile(3)"})
}

func TestMaximalMunch(t *testing.T) {
	tokens := Scan("123")

	if len(tokens) != 2 {
		t.Fatalf("wanted 2 tokens, got %d: %v", len(tokens), tokenStrings(tokens))
	}

	if tokens[0].Type != TOK_INTEGER || tokens[0].Integer != 123 {
		t.Errorf("wanted Integer(0, 123), got %s", tokens[0])
	}
}

func TestScanIntegerOverflow(t *testing.T) {
	tokens := Scan("9223372036854775807")
	if tokens[0].Type != TOK_INTEGER || tokens[0].Integer != 9223372036854775807 {
		t.Errorf("wanted the largest int64 to scan, got %s", tokens[0])
	}

	tokens = Scan("9223372036854775808")
	if tokens[0].Type != TOK_ILLEGAL {
		t.Fatalf("wanted Illegal(0), got %s", tokens[0])
	}

	if !errors.Is(tokens[0].Err, ErrIntegerOverflow) {
		t.Errorf("wanted ErrIntegerOverflow, got %v", tokens[0].Err)
	}

	if tokens[0].Reason() != "overflow" {
		t.Errorf("wanted reason 'overflow', got '%s'", tokens[0].Reason())
	}

	if tokens[1].String() != "EndOfFile(19)" {
		t.Errorf("wanted the whole literal to be consumed, got %s", tokens[1])
	}

	expectTokens(t, "x 99999999999999999999 + 1", Extended, []string{
		`Identifier(0, "x")`, "Illegal(2)", "Plus(23)", "Integer(25, 1)", "EndOfFile(26)",
	})
}

func TestScanUnicodeOffsets(t *testing.T) {
	expectTokens(t, "λ x", Extended, []string{`Identifier(0, "λ")`, `Identifier(3, "x")`, "EndOfFile(4)"})
	expectTokens(t, "héllo wörld", Extended, []string{
		`Identifier(0, "héllo")`, `Identifier(7, "wörld")`, "EndOfFile(13)",
	})

	// Vowel signs and letter numbers are alphabetic
	expectTokens(t, "हिंदी", Extended, []string{`Identifier(0, "हिंदी")`, "EndOfFile(15)"})
	expectTokens(t, "Ⅻ x", Micro, []string{`Identifier(0, "Ⅻ")`, `Identifier(4, "x")`, "EndOfFile(5)"})
}

func TestScanIdentifierBoundaries(t *testing.T) {
	expectTokens(t, "x1", Extended, []string{`Identifier(0, "x")`, "Integer(1, 1)", "EndOfFile(2)"})
	expectTokens(t, "a_b", Extended, []string{`Identifier(0, "a_b")`, "EndOfFile(3)"})
	expectTokens(t, "a_b", Micro, []string{`Identifier(0, "a")`, "Illegal(1)", `Identifier(2, "b")`, "EndOfFile(3)"})
}

func TestScanWhitespace(t *testing.T) {
	expectTokens(t, "\t\r\n  x", Micro, []string{`Identifier(5, "x")`, "EndOfFile(6)"})
}

func TestSkipWhitespaceIdempotent(t *testing.T) {
	l := New("  \tx")

	l.skipWhitespace()
	if l.Position() != 3 {
		t.Errorf("wanted position 3, got %d", l.Position())
	}

	l.skipWhitespace()
	if l.Position() != 3 {
		t.Errorf("wanted position to stay at 3, got %d", l.Position())
	}
}

func TestReadRune(t *testing.T) {
	l := New("λ")

	r, ok := l.readRune()
	if !ok || r != 'λ' {
		t.Errorf("wanted 'λ', got %q", r)
	}

	if l.Position() != 2 {
		t.Errorf("wanted position 2 after a two byte rune, got %d", l.Position())
	}

	if _, ok := l.readRune(); ok {
		t.Error("wanted no rune at end of input")
	}

	if l.Position() != 2 {
		t.Errorf("wanted position to stay at 2, got %d", l.Position())
	}
}

var propertyInputs = []string{
	"let x = 10",
	"let foo = 3 bar = 6 in foo + bar",
	"let x = 3 in inc x where inc = + 1",
	"if a <= 10 then true else false_flag != b",
	"{ x: (1 + 2) * 3 / y.z } >= 4 == !q",
	"λ ü 12 ? héllo 99999999999999999999 €",
	"let हिंदी = Ⅻ + 1",
	"   \n\t",
	"",
}

func TestDeterminism(t *testing.T) {
	for _, input := range propertyInputs {
		for _, d := range []Dialect{Micro, Extended} {
			first := strings.Join(tokenStrings(Scan(input, WithDialect(d))), " ")
			second := strings.Join(tokenStrings(Scan(input, WithDialect(d))), " ")
			if first != second {
				t.Errorf("scanning %q twice gave different results:\n%s\n%s", input, first, second)
			}
		}
	}
}

func TestRoundTripAndMonotonicity(t *testing.T) {
	for _, input := range propertyInputs {
		for _, d := range []Dialect{Micro, Extended} {
			prevEnd := 0
			for _, tok := range Scan(input, WithDialect(d)) {
				if tok.Pos() < prevEnd {
					t.Errorf("%q: %s starts before the previous token ended at %d", input, tok, prevEnd)
				}

				if got := input[tok.Location.Start:tok.Location.End]; got != tok.Lexeme {
					t.Errorf("%q: %s claims %q but the input holds %q", input, tok, tok.Lexeme, got)
				}

				if tok.Type != TOK_EOF && tok.Location.Len() == 0 {
					t.Errorf("%q: %s consumed no input", input, tok)
				}

				prevEnd = tok.Location.End
			}

			if prevEnd != len(input) {
				t.Errorf("%q: EndOfFile at %d, wanted %d", input, prevEnd, len(input))
			}
		}
	}
}

func BenchmarkScan(b *testing.B) {
	input := strings.Repeat("let x = 3 in inc x where inc = + 1 if a <= 10 then true else false\n", 64)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		l := New(input)
		for l.Next().Type != TOK_EOF {
		}
	}
}
