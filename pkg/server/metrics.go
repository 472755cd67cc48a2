/*
 * Copyright (c) 2022, Gideon Williams <gideon@gideonw.com>
 *
 * SPDX-License-Identifier: BSD-2-Clause
 */

package server

import (
	"net/http"
	"time"

	"github.com/dburkart/micro/pkg/lexer"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type MetricsStore interface {
	Registry() *prometheus.Registry
	RegisterCollector(c prometheus.Collector)
	Handler() http.Handler

	// Collection
	IncClientConnection()
	IncRequests(transport, code string)
	ObserveScan(dialect string, tokens []lexer.Token, d time.Duration)
}

type metricsStore struct {
	registry          *prometheus.Registry
	ClientConnections prometheus.Counter
	Requests          *prometheus.CounterVec
	Tokens            *prometheus.CounterVec
	IllegalTokens     *prometheus.CounterVec
	ScanNS            *prometheus.HistogramVec
}

var (
	DialectLabel   = "dialect"
	TypeLabel      = "type"
	ReasonLabel    = "reason"
	TransportLabel = "transport"
	CodeLabel      = "code"
)

func NewMetricsStore() MetricsStore {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(
			collectors.WithGoCollectorRuntimeMetrics(collectors.MetricsAll),
		),
	)

	// Scans are short, so bucket in 5µs steps up to ~100µs
	buckets := []float64{}
	for i := 1; i < 20; i++ {
		buckets = append(buckets, float64(5*i*int(time.Microsecond)))
	}

	factory := promauto.With(reg)
	return &metricsStore{
		registry: reg,
		ClientConnections: factory.NewCounter(prometheus.CounterOpts{
			Name: "micro_client_connections",
			Help: "The total number of line protocol client connections",
		}),
		Requests: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "micro_requests",
			Help: "Tokenize requests by transport and result code",
		}, []string{TransportLabel, CodeLabel}),
		Tokens: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "micro_tokens",
			Help: "Tokens produced, by dialect and token type",
		}, []string{DialectLabel, TypeLabel}),
		IllegalTokens: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "micro_illegal_tokens",
			Help: "Illegal tokens produced, by dialect and reason",
		}, []string{DialectLabel, ReasonLabel}),
		ScanNS: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "micro_scan_ns",
			Help:    "Time spent scanning a single input",
			Buckets: buckets,
		}, []string{DialectLabel}),
	}
}

func (ms *metricsStore) Registry() *prometheus.Registry {
	return ms.registry
}

func (ms *metricsStore) RegisterCollector(c prometheus.Collector) {
	ms.registry.MustRegister(c)
}

func (ms *metricsStore) Handler() http.Handler {
	return promhttp.HandlerFor(ms.Registry(), promhttp.HandlerOpts{Registry: ms.Registry()})
}

func (ms *metricsStore) IncClientConnection() {
	ms.ClientConnections.Inc()
}

func (ms *metricsStore) IncRequests(transport, code string) {
	ms.Requests.With(prometheus.Labels{TransportLabel: transport, CodeLabel: code}).Inc()
}

func (ms *metricsStore) ObserveScan(dialect string, tokens []lexer.Token, d time.Duration) {
	for _, t := range tokens {
		ms.Tokens.With(prometheus.Labels{DialectLabel: dialect, TypeLabel: t.Type.ToString()}).Inc()
		if t.Type == lexer.TOK_ILLEGAL {
			ms.IllegalTokens.With(prometheus.Labels{DialectLabel: dialect, ReasonLabel: t.Reason()}).Inc()
		}
	}

	ms.ScanNS.
		With(prometheus.Labels{DialectLabel: dialect}).
		Observe(float64(d.Nanoseconds()))
}
