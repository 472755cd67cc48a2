/*
 * Copyright (c) 2023, Gideon Williams gideon@gideonw.com
 *
 * SPDX-License-Identifier: BSD-2-Clause
 */

package repl

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/dburkart/micro/pkg/lexer"
	"github.com/olekukonko/tablewriter"
)

var OutputFormats = []string{"debug", "text", "csv", "json"}

type Printable interface {
	Headers() []string
	Values() [][]string
}

// TokenStream is a printable run of tokens from a single input.
type TokenStream []lexer.Token

func (ts TokenStream) Headers() []string {
	return []string{"start", "end", "type", "lexeme", "value"}
}

func (ts TokenStream) Values() [][]string {
	rows := make([][]string, 0, len(ts))
	for _, t := range ts {
		value := t.ValueString()
		if t.Err != nil {
			value = t.Err.Error()
		}
		rows = append(rows, []string{
			strconv.Itoa(t.Location.Start),
			strconv.Itoa(t.Location.End),
			t.Type.Name(),
			t.Lexeme,
			value,
		})
	}
	return rows
}

type OutputWriter interface {
	Write(ts TokenStream) error
}

type DebugWriter struct {
	w io.Writer
}

type CSVWriter struct {
	w io.Writer
}

type TextWriter struct {
	w io.Writer
}

type JSONWriter struct {
	w io.Writer
}

func NewOutputWriter(w io.Writer, t string) OutputWriter {
	switch t {
	case "csv":
		return CSVWriter{
			w,
		}
	case "json":
		return JSONWriter{
			w,
		}
	case "text":
		return TextWriter{
			w,
		}
	}
	return DebugWriter{
		w,
	}
}

// Write prints one token per line in its debug form, e.g. `Let(0)`.
func (w DebugWriter) Write(ts TokenStream) error {
	for _, t := range ts {
		if _, err := fmt.Fprintln(w.w, t.String()); err != nil {
			return err
		}
	}
	return nil
}

func (w CSVWriter) Write(ts TokenStream) error {
	wtr := csv.NewWriter(w.w)
	if err := wtr.Write(ts.Headers()); err != nil {
		return err
	}
	return wtr.WriteAll(ts.Values())
}

func (w TextWriter) Write(ts TokenStream) error {
	table := tablewriter.NewWriter(w.w)
	table.Header(ts.Headers())
	if err := table.Bulk(ts.Values()); err != nil {
		return err
	}
	return table.Render()
}

func (w JSONWriter) Write(ts TokenStream) error {
	enc := json.NewEncoder(w.w)
	return enc.Encode([]lexer.Token(ts))
}
