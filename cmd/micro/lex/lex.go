/*
 * Copyright (c) 2022, Dana Burkart <dana.burkart@gmail.com>
 *
 * SPDX-License-Identifier: BSD-2-Clause
 */

package lex

import (
	"bufio"
	"io"
	"os"
	"time"

	"github.com/dburkart/micro/pkg/lexer"
	"github.com/dburkart/micro/pkg/repl"
	"github.com/dustin/go-humanize"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Exit codes of the lex command
const (
	ExitEndOfFile = 0
	ExitFailure   = 1
	ExitIllegal   = 2
)

var Command = &cobra.Command{
	Use:   "lex",
	Short: "Scan one line from stdin and print its tokens",

	Run: func(cmd *cobra.Command, args []string) {
		log := viper.Get("logger").(zerolog.Logger)

		dialect, err := lexer.DialectByName(viper.GetString("lexer.dialect"))
		if err != nil {
			log.Fatal().Err(err).Msg("invalid dialect")
		}

		output := viper.GetString("lex.output")
		if !supportedFormat(output) {
			log.Fatal().Str("output", output).Msg("unsupported output format")
		}

		code, err := Lex(log, os.Stdin, os.Stdout, os.Stderr, dialect, output)
		if err != nil {
			log.Error().Err(err).Msg("unable to scan input")
		}
		os.Exit(code)
	},
}

func init() {
	// Flags for this command
	Command.Flags().StringP("output", "o", "debug", "Output format of the token stream [debug, text, csv, json]")
	Command.Flags().Bool("stats", false, "Log the size of the input and the number of tokens")

	// Bind flags to viper
	viper.BindPFlag("lex.output", Command.Flags().Lookup("output"))
	viper.BindPFlag("lex.stats", Command.Flags().Lookup("stats"))
}

func supportedFormat(f string) bool {
	for _, s := range repl.OutputFormats {
		if s == f {
			return true
		}
	}
	return false
}

// Lex reads a single line from in, scans it and writes its tokens to out,
// stopping after the first Illegal or EndOfFile token. It returns the exit
// code for the process: ExitIllegal when scanning stopped on an illegal
// token, in which case a diagnostic is written to errOut.
func Lex(log zerolog.Logger, in io.Reader, out, errOut io.Writer, d lexer.Dialect, format string) (int, error) {
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return ExitFailure, errors.Wrap(err, "unable to read from stdin")
	}

	t := time.Now()
	l := lexer.New(line, lexer.WithDialect(d))

	var tokens repl.TokenStream
	for {
		tok := l.Next()
		tokens = append(tokens, tok)
		if tok.Type.IsSentinel() {
			break
		}
	}
	elapsed := time.Since(t)

	if err := repl.NewOutputWriter(out, format).Write(tokens); err != nil {
		return ExitFailure, errors.Wrap(err, "unable to write tokens")
	}

	if viper.GetBool("lex.stats") {
		log.Info().
			Str("size", humanize.Bytes(uint64(len(line)))).
			Int("tokens", len(tokens)).
			Dur("elapsed", elapsed).
			Str("dialect", d.Name).
			Msg("scanned input")
	}

	last := tokens[len(tokens)-1]
	if last.Type == lexer.TOK_ILLEGAL {
		if err := repl.WriteIllegal(errOut, line, last); err != nil {
			return ExitFailure, errors.Wrap(err, "unable to write diagnostic")
		}
		return ExitIllegal, nil
	}

	return ExitEndOfFile, nil
}
