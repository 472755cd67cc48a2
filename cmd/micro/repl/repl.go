/*
 * Copyright (c) 2022, Gideon Williams <gideon@gideonw.com>
 * Copyright (c) 2022-2023, Dana Burkart <dana.burkart@gmail.com>
 *
 * SPDX-License-Identifier: BSD-2-Clause
 */

package repl

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/chzyer/readline"
	"github.com/dburkart/micro/pkg/lexer"
	"github.com/dburkart/micro/pkg/repl"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var Command = &cobra.Command{
	Use:   "repl",
	Short: "Interactive terminal for scanning expressions",

	Run: func(cmd *cobra.Command, args []string) {
		log := viper.Get("logger").(zerolog.Logger)

		dialect, err := lexer.DialectByName(viper.GetString("lexer.dialect"))
		if err != nil {
			log.Fatal().Err(err).Msg("invalid dialect")
		}

		s := NewSession(os.Stdout, dialect, viper.GetString("repl.output"))
		readlinePrompt(log, s)
	},
}

func init() {
	// Flags for this command
	Command.Flags().StringP("output", "o", "debug", "Output format of the token stream [debug, text, csv, json]")
	Command.Flags().String("history", defaultHistoryFile(), "File to keep the command history in")

	// Bind flags to viper
	viper.BindPFlag("repl.output", Command.Flags().Lookup("output"))
	viper.BindPFlag("repl.history", Command.Flags().Lookup("history"))
}

func defaultHistoryFile() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".micro_history")
}

// Session holds the state of one interactive session.
type Session struct {
	out     io.Writer
	dialect lexer.Dialect
	format  string
}

func NewSession(out io.Writer, d lexer.Dialect, format string) *Session {
	return &Session{out: out, dialect: d, format: format}
}

// Handle runs a single line of input and reports whether the session should
// end.
func (s *Session) Handle(line string) (bool, error) {
	cmd, err := repl.ParseREPLCommand([]byte(line))
	if err != nil {
		return false, err
	}

	switch cmd.Name {
	case repl.CommandQuit, repl.CommandExit:
		return true, nil
	case repl.CommandHelp:
		fmt.Fprintln(s.out, "usage:")
		fmt.Fprintln(s.out, "    <expression>        scan an expression and print its tokens")
		fmt.Fprintln(s.out, "    :dialect [name]     show or switch the dialect ("+strings.Join(lexer.DialectNames(), ", ")+")")
		fmt.Fprintln(s.out, "    :format <name>      switch the output format ("+strings.Join(repl.OutputFormats, ", ")+")")
		fmt.Fprintln(s.out, "    :quit               leave the repl")
	case repl.CommandDialect:
		if cmd.Dialect != nil {
			s.dialect = *cmd.Dialect
		}
		fmt.Fprintf(s.out, "dialect: %s (reserved: %s)\n", s.dialect.Name, strings.Join(s.dialect.Words(), " "))
	case repl.CommandFormat:
		s.format = cmd.Argument
	case repl.CommandScan:
		if strings.TrimSpace(cmd.Argument) == "" {
			return false, nil
		}

		tokens := lexer.Scan(cmd.Argument, lexer.WithDialect(s.dialect))
		if err := repl.NewOutputWriter(s.out, s.format).Write(tokens); err != nil {
			return false, err
		}

		for _, t := range tokens {
			if t.Type == lexer.TOK_ILLEGAL {
				if err := repl.WriteIllegal(s.out, cmd.Argument, t); err != nil {
					return false, err
				}
			}
		}
	}

	return false, nil
}

func (s *Session) completer() *readline.PrefixCompleter {
	dialects := []readline.PrefixCompleterInterface{}
	for _, name := range lexer.DialectNames() {
		dialects = append(dialects, readline.PcItem(name))
	}

	formats := []readline.PrefixCompleterInterface{}
	for _, name := range repl.OutputFormats {
		formats = append(formats, readline.PcItem(name))
	}

	return readline.NewPrefixCompleter(
		readline.PcItem(":help"),
		readline.PcItem(":quit"),
		readline.PcItem(":dialect", dialects...),
		readline.PcItem(":format", formats...),
		readline.PcItemDynamic(s.completeWords),
	)
}

// completeWords offers the reserved words of the current dialect.
func (s *Session) completeWords(line string) []string {
	if strings.HasPrefix(line, ":") {
		return nil
	}
	return s.dialect.Words()
}

func filterInput(r rune) (rune, bool) {
	switch r {
	// block CtrlZ feature
	case readline.CharCtrlZ:
		return r, false
	}
	return r, true
}

func readlinePrompt(log zerolog.Logger, s *Session) {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "\033[31m>\033[0m ",
		AutoComplete:    s.completer(),
		HistoryFile:     viper.GetString("repl.history"),
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",

		HistorySearchFold:   true,
		FuncFilterInputRune: filterInput,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("unable to start readline")
	}
	defer rl.Close()

	// Handle input
	for {
		ln := rl.Line()
		if ln.CanContinue() {
			continue
		} else if ln.CanBreak() {
			break
		}

		quit, err := s.Handle(strings.TrimSpace(ln.Line))
		if err != nil {
			log.Error().Err(err).Send()
			continue
		}
		if quit {
			break
		}
	}
	rl.Clean()
}
