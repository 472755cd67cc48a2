/*
 * Copyright (c) 2023, Dana Burkart <dana.burkart@gmail.com>
 *
 * SPDX-License-Identifier: BSD-2-Clause
 */

package micro

import (
	"bufio"
	"io"
	"math"
	"net"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/dburkart/micro/pkg/lexer"
	"github.com/pkg/errors"
)

// A RemoteClient holds a pool of connections to a micro line server.
type RemoteClient struct {
	address string
	conn    chan *lineConn

	mu      sync.Mutex
	dialect string
}

type lineConn struct {
	net.Conn
	r *bufio.Reader
}

func dial(address, dialect string) (*lineConn, error) {
	c, err := net.Dial("tcp4", address)
	if err != nil {
		return nil, err
	}

	lc := &lineConn{Conn: c, r: bufio.NewReader(c)}
	if dialect != "" {
		if err := lc.setDialect(dialect); err != nil {
			c.Close()
			return nil, err
		}
	}
	return lc, nil
}

func (lc *lineConn) setDialect(name string) error {
	if _, err := io.WriteString(lc, ":dialect "+name+"\n"); err != nil {
		return err
	}

	resp, err := lc.readLine()
	if err != nil {
		return errors.Wrap(err, "unable to read dialect response")
	}
	if msg, ok := strings.CutPrefix(resp, "error: "); ok {
		return errors.New(msg)
	}
	if resp != "dialect: "+name {
		return errors.Errorf("unexpected dialect response %q", resp)
	}
	return nil
}

func (lc *lineConn) readLine() (string, error) {
	line, err := lc.r.ReadString('\n')
	if err != nil {
		return "", err
	}
	return strings.TrimSuffix(line, "\n"), nil
}

func (client *RemoteClient) reconnectWithBackoff() (*lineConn, error) {
	var conn *lineConn
	var err error

	client.mu.Lock()
	dialect := client.dialect
	client.mu.Unlock()

	// Try for a total of 6 seconds
	for i := 0; i < 3; i++ {
		delay := time.Duration(math.Exp2(float64(i)))
		time.Sleep(delay * time.Second)

		conn, err = dial(client.address, dialect)
		if err == nil {
			break
		}
	}

	return conn, err
}

func (client *RemoteClient) Open(address string, size uint) error {
	client.address = address
	client.conn = make(chan *lineConn, size)

	for i := uint(0); i < size; i++ {
		c, err := dial(address, "")
		if err != nil {
			client.Close()
			return err
		}
		client.conn <- c
	}

	return nil
}

func (client *RemoteClient) Close() error {
	n := len(client.conn)
	for i := 0; i < n; i++ {
		conn := <-client.conn
		io.WriteString(conn, ":quit\n")
		err := conn.Close()
		if err != nil {
			return err
		}
	}
	return nil
}

// SetDialect switches every pooled connection to the named dialect. A
// connection that fails to switch is replaced by a fresh one speaking the
// new dialect.
func (client *RemoteClient) SetDialect(name string) error {
	d, err := lexer.DialectByName(name)
	if err != nil {
		return err
	}

	// Recorded first so any reconnect below, or in Tokenize, speaks it
	client.mu.Lock()
	client.dialect = d.Name
	client.mu.Unlock()

	n := cap(client.conn)
	conns := make([]*lineConn, 0, n)
	defer func() {
		for _, c := range conns {
			client.conn <- c
		}
	}()

	for i := 0; i < n; i++ {
		c := <-client.conn
		conns = append(conns, c)
		if err := c.setDialect(d.Name); err != nil {
			// A closed connection stays pooled and is redialed on next use
			c.Close()
			fresh, err := client.reconnectWithBackoff()
			if err != nil {
				return err
			}
			conns[len(conns)-1] = fresh
		}
	}

	return nil
}

// reconnectable reports whether err means the server side of a connection
// went away.
func reconnectable(err error) bool {
	return errors.Is(err, io.EOF) ||
		errors.Is(err, syscall.ECONNRESET) ||
		errors.Is(err, syscall.EPIPE) ||
		errors.Is(err, net.ErrClosed)
}

// Tokenize sends a single line of input and returns the server's token
// stream, one debug formatted token per element, ending with the first
// Illegal or EndOfFile token.
func (client *RemoteClient) Tokenize(line string) ([]string, error) {
	if strings.ContainsAny(line, "\r\n") {
		return nil, errors.New("input must be a single line")
	}
	if strings.HasPrefix(line, ":") {
		return nil, errors.Errorf("input %q would be read as a command", line)
	}

	conn := <-client.conn
	defer func() {
		// After a failed reconnect this is the closed connection, which the
		// next caller redials
		client.conn <- conn
	}()

retry:
	_, err := io.WriteString(conn, line+"\n")
	if err != nil {
		// Handle peer reset with reconnect logic
		if reconnectable(err) {
			conn.Close()
			fresh, err := client.reconnectWithBackoff()
			if err != nil {
				return nil, err
			}
			conn = fresh
			goto retry
		}
		return nil, err
	}

	var tokens []string
	for {
		resp, err := conn.readLine()
		if err != nil {
			if reconnectable(err) && len(tokens) == 0 {
				conn.Close()
				fresh, err := client.reconnectWithBackoff()
				if err != nil {
					return nil, err
				}
				conn = fresh
				goto retry
			}
			return nil, errors.Wrap(err, "unable to read token stream")
		}

		if msg, ok := strings.CutPrefix(resp, "error: "); ok {
			return nil, errors.New(msg)
		}

		tokens = append(tokens, resp)
		if strings.HasPrefix(resp, "EndOfFile(") || strings.HasPrefix(resp, "Illegal(") {
			return tokens, nil
		}
	}
}
