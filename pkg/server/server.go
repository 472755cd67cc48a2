/*
 * Copyright (c) 2022, Gideon Williams <gideon@gideonw.com>
 *
 * SPDX-License-Identifier: BSD-2-Clause
 */

package server

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/dburkart/micro/pkg/lexer"
	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

type Config struct {
	Dialect     lexer.Dialect
	HTTPPort    int
	LinePort    int
	MetricsPort int
	// MaxBody caps the size of a single HTTP request body in bytes
	MaxBody int64
	// MaxLine caps the length of a single line protocol line in bytes
	MaxLine int
}

type Server struct {
	log     zerolog.Logger
	metrics MetricsStore
	stats   *Stats

	config Config
}

type TokenizeResponse struct {
	ID      string        `json:"id"`
	Dialect string        `json:"dialect"`
	Tokens  []lexer.Token `json:"tokens"`
}

type ErrResponse struct {
	ID    string `json:"id"`
	Code  int    `json:"code"`
	Error string `json:"error"`
}

func New(log zerolog.Logger, config Config) *Server {
	if config.MaxBody <= 0 {
		config.MaxBody = 1 << 20
	}
	if config.MaxLine <= 0 {
		config.MaxLine = 1 << 20
	}

	s := &Server{
		log:     log,
		metrics: NewMetricsStore(),
		stats:   &Stats{},
		config:  config,
	}
	s.metrics.RegisterCollector(NewStatsCollector(s.stats))

	return s
}

func (s *Server) Metrics() MetricsStore {
	return s.metrics
}

func (s *Server) Stats() *Stats {
	return s.stats
}

// Scan tokenizes input with the given dialect, recording metrics and stats
// along the way.
func (s *Server) Scan(d lexer.Dialect, input string) []lexer.Token {
	t := time.Now()
	tokens := lexer.Scan(input, lexer.WithDialect(d))
	s.metrics.ObserveScan(d.Name, tokens, time.Since(t))

	s.stats.Scans.Add(1)
	s.stats.BytesScanned.Add(int64(len(input)))

	return tokens
}

// Handler returns the HTTP API of the server.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/tokenize", s.handleTokenize)
	return mux
}

func (s *Server) handleTokenize(w http.ResponseWriter, r *http.Request) {
	id := uuid.NewString()
	w.Header().Set("X-Request-Id", id)
	log := s.log.With().Str("request-id", id).Logger()

	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		s.writeError(w, id, http.StatusMethodNotAllowed, errors.Errorf("method %s not allowed", r.Method))
		return
	}

	dialect := s.config.Dialect
	if name := r.URL.Query().Get("dialect"); name != "" {
		d, err := lexer.DialectByName(name)
		if err != nil {
			s.writeError(w, id, http.StatusBadRequest, err)
			return
		}
		dialect = d
	}

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, s.config.MaxBody))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			s.writeError(w, id, http.StatusRequestEntityTooLarge,
				errors.Errorf("request body exceeds %s", humanize.IBytes(uint64(s.config.MaxBody))))
			return
		}
		s.writeError(w, id, http.StatusBadRequest, errors.Wrap(err, "unable to read request body"))
		return
	}

	tokens := s.Scan(dialect, string(body))
	log.Debug().
		Str("dialect", dialect.Name).
		Str("size", humanize.Bytes(uint64(len(body)))).
		Int("tokens", len(tokens)).
		Msg("tokenized input")

	w.Header().Set("Content-Type", "application/json")
	err = json.NewEncoder(w).Encode(TokenizeResponse{ID: id, Dialect: dialect.Name, Tokens: tokens})
	if err != nil {
		log.Error().Err(err).Msg("unable to write response")
	}
	s.metrics.IncRequests("http", strconv.Itoa(http.StatusOK))
}

func (s *Server) writeError(w http.ResponseWriter, id string, code int, err error) {
	s.log.Debug().Str("request-id", id).Int("code", code).Err(err).Msg("rejected tokenize request")
	s.metrics.IncRequests("http", strconv.Itoa(code))

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(ErrResponse{ID: id, Code: code, Error: err.Error()})
}

func (s *Server) ServeHTTP() error {
	s.log.Info().Int("http-port", s.config.HTTPPort).Msg("listening for tokenize requests")
	return http.ListenAndServe(fmt.Sprintf(":%d", s.config.HTTPPort), s.Handler())
}

func (s *Server) ServeLines() error {
	srv := NewLineServer(s.log, s)
	return srv.ListenAndServe(s.config.LinePort)
}

func (s *Server) ServeMetrics() error {
	s.log.Info().Int("port", s.config.MetricsPort).Msg("/metrics endpoint started")
	mux := http.NewServeMux()
	mux.Handle("/metrics", s.metrics.Handler())
	return http.ListenAndServe(fmt.Sprintf(":%d", s.config.MetricsPort), mux)
}
