/*
 * Copyright (c) 2023, Dana Burkart <dana.burkart@gmail.com>
 *
 * SPDX-License-Identifier: BSD-2-Clause
 */

package lexer

import "encoding/json"

type tokenJSON struct {
	Type   string      `json:"type"`
	Name   string      `json:"name"`
	Lexeme string      `json:"lexeme"`
	Start  int         `json:"start"`
	End    int         `json:"end"`
	Value  interface{} `json:"value,omitempty"`
	Error  string      `json:"error,omitempty"`
}

func (t Token) MarshalJSON() ([]byte, error) {
	out := tokenJSON{
		Type:   t.Type.ToString(),
		Name:   t.Type.Name(),
		Lexeme: t.Lexeme,
		Start:  t.Location.Start,
		End:    t.Location.End,
		Value:  t.Value(),
	}
	if t.Err != nil {
		out.Error = t.Err.Error()
	}
	return json.Marshal(out)
}
