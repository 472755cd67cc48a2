/*
 * Copyright (c) 2023, Dana Burkart <dana.burkart@gmail.com>
 *
 * SPDX-License-Identifier: BSD-2-Clause
 */

package repl

import (
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/dburkart/micro/pkg/lexer"
)

// Diagnostics renders caret diagnostics for illegal tokens with the color
// profile of a single renderer.
type Diagnostics struct {
	errorStyle lipgloss.Style
	mutedStyle lipgloss.Style
}

func NewDiagnostics(r *lipgloss.Renderer) *Diagnostics {
	return &Diagnostics{
		errorStyle: r.NewStyle().
			Foreground(lipgloss.Color("#EF4444")).
			Bold(true),
		mutedStyle: r.NewStyle().
			Foreground(lipgloss.Color("#6B7280")),
	}
}

// Format renders the diagnostic for t. The header and the caret line are
// styled.
func (d *Diagnostics) Format(input string, t lexer.Token) string {
	serr := t.SyntaxError()
	lines := strings.Split(strings.TrimSuffix(serr.FormatError(input), "\n"), "\n")

	for i, line := range lines {
		switch i {
		case 0:
			lines[i] = d.mutedStyle.Render(line)
		case len(lines) - 1:
			lines[i] = d.errorStyle.Render(line)
		}
	}

	return strings.Join(lines, "\n") + "\n"
}

// WriteIllegal writes the diagnostic for t to w, styled only when w is a
// terminal.
func WriteIllegal(w io.Writer, input string, t lexer.Token) error {
	_, err := io.WriteString(w, NewDiagnostics(lipgloss.NewRenderer(w)).Format(input, t))
	return err
}
