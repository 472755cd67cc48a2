/*
 * Copyright (c) 2022, Gideon Williams gideon@gideonw.com
 *
 * SPDX-License-Identifier: BSD-2-Clause
 */

package repl

import (
	"bytes"
	"strings"

	"github.com/dburkart/micro/pkg/lexer"
	"github.com/pkg/errors"
)

const (
	CommandScan    = "SCAN"
	CommandHelp    = ":HELP"
	CommandQuit    = ":QUIT"
	CommandExit    = ":EXIT"
	CommandDialect = ":DIALECT"
	CommandFormat  = ":FORMAT"
)

// Command is a single line of REPL input. Lines that do not start with ':'
// are source text to be scanned.
type Command struct {
	Name     string
	Argument string

	// Dialect is the resolved argument of a :dialect command that names one
	Dialect *lexer.Dialect
}

// ParseREPLCommand parses input from the command line
//
// This function assumes there is no '\n'
func ParseREPLCommand(b []byte) (Command, error) {
	if len(b) == 0 || b[0] != ':' {
		return Command{Name: CommandScan, Argument: string(b)}, nil
	}

	// all commands have a space before their argument, if not then they are
	// command only like :QUIT
	var cmd, arg []byte
	ind := bytes.IndexByte(b, ' ')
	if ind == -1 {
		cmd = b
	} else {
		cmd = b[0:ind]
		arg = bytes.TrimSpace(b[ind+1:])
	}

	c := Command{Name: strings.ToUpper(string(cmd)), Argument: string(arg)}

	switch c.Name {
	case CommandHelp, CommandQuit, CommandExit:
		return c, nil
	case CommandDialect:
		if c.Argument == "" {
			return c, nil
		}
		d, err := lexer.DialectByName(c.Argument)
		if err != nil {
			return Command{}, err
		}
		c.Dialect = &d
		return c, nil
	case CommandFormat:
		for _, f := range OutputFormats {
			if f == strings.ToLower(c.Argument) {
				c.Argument = f
				return c, nil
			}
		}
		return Command{}, errors.Errorf("unsupported output format %q (known: %s)", c.Argument, strings.Join(OutputFormats, ", "))
	}

	return Command{}, errors.Errorf("unknown command %s", string(cmd))
}
