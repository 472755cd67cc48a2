/*
 * Copyright (c) 2022, Gideon Williams <gideon@gideonw.com>
 *
 * SPDX-License-Identifier: BSD-2-Clause
 */

package server

import (
	"bufio"
	"fmt"
	"io"
	"net"

	"github.com/dburkart/micro/pkg/repl"
	"github.com/dustin/go-humanize"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

// LineServer speaks the same protocol as `micro lex`, once per line: every
// line received is scanned and its tokens are written back one per line,
// ending with the first Illegal or EndOfFile token. Lines starting with ':'
// are REPL commands (":dialect micro", ":quit"). A line longer than
// Config.MaxLine is answered with an error and ends the connection.
type LineServer struct {
	log zerolog.Logger
	srv *Server
}

func NewLineServer(log zerolog.Logger, srv *Server) *LineServer {
	return &LineServer{log: log, srv: srv}
}

func (ls *LineServer) ListenAndServe(port int) error {
	sock, err := net.ListenTCP("tcp4", &net.TCPAddr{Port: port})
	if err != nil {
		ls.log.Error().Err(err).Int("port", port).Msg("unable to listen on line port")
		return err
	}
	ls.log.Info().Int("line-port", port).Msg("listening for line protocol clients")

	for {
		conn, err := sock.AcceptTCP()
		if err != nil {
			ls.log.Error().Err(err).Msg("unable to accept connection on line socket")
			continue
		}

		go ls.ServeConn(conn)
	}
}

// ServeConn handles a single client until it disconnects or sends :quit.
func (ls *LineServer) ServeConn(c io.ReadWriteCloser) {
	defer c.Close()

	ls.srv.metrics.IncClientConnection()
	ls.srv.stats.OpenConnections.Add(1)
	defer ls.srv.stats.OpenConnections.Add(-1)

	dialect := ls.srv.config.Dialect
	w := bufio.NewWriter(c)
	scanner := bufio.NewScanner(c)
	scanner.Buffer(make([]byte, 0, min(4096, ls.srv.config.MaxLine)), ls.srv.config.MaxLine)

	for scanner.Scan() {
		line := scanner.Bytes()
		ls.log.Trace().Int("read", len(line)).Msg("read from conn")

		cmd, err := repl.ParseREPLCommand(line)
		if err != nil {
			fmt.Fprintf(w, "error: %s\n", err)
			w.Flush()
			ls.srv.metrics.IncRequests("line", "error")
			continue
		}

		switch cmd.Name {
		case repl.CommandQuit, repl.CommandExit:
			return
		case repl.CommandDialect:
			if cmd.Dialect != nil {
				dialect = *cmd.Dialect
			}
			fmt.Fprintf(w, "dialect: %s\n", dialect.Name)
		case repl.CommandScan:
			for _, t := range ls.srv.Scan(dialect, cmd.Argument) {
				fmt.Fprintln(w, t.String())
				if t.Type.IsSentinel() {
					break
				}
			}
			ls.srv.metrics.IncRequests("line", "ok")
		default:
			fmt.Fprintf(w, "error: %s is not supported here\n", cmd.Name)
		}

		if err := w.Flush(); err != nil {
			ls.log.Error().Err(err).Msg("unable to write to conn")
			return
		}
	}

	err := scanner.Err()
	if errors.Is(err, bufio.ErrTooLong) {
		// The scanner cannot resume mid-line, so the connection ends here
		fmt.Fprintf(w, "error: line too long (limit %s)\n", humanize.IBytes(uint64(ls.srv.config.MaxLine)))
		w.Flush()
		ls.srv.metrics.IncRequests("line", "error")
		return
	}
	if err != nil {
		ls.log.Error().Err(err).Msg("error reading from the conn")
	}
}
