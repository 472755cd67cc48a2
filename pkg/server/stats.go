/*
 * Copyright (c) 2022, Gideon Williams gideon@gideonw.com
 *
 * SPDX-License-Identifier: BSD-2-Clause
 */

package server

import (
	"sync/atomic"

	"github.com/prometheus/client_golang/prometheus"
)

// Stats are running totals kept by a Server across all transports.
type Stats struct {
	Scans           atomic.Int64
	BytesScanned    atomic.Int64
	OpenConnections atomic.Int64
}

type statsCollector struct {
	stats *Stats

	scans           *prometheus.Desc
	bytesScanned    *prometheus.Desc
	openConnections *prometheus.Desc
}

func NewStatsCollector(stats *Stats) prometheus.Collector {
	return &statsCollector{
		stats: stats,
		scans: prometheus.NewDesc(
			"micro_scans",
			"Number of inputs scanned.",
			nil, nil,
		),
		bytesScanned: prometheus.NewDesc(
			"micro_bytes_scanned",
			"Number of input bytes scanned.",
			nil, nil,
		),
		openConnections: prometheus.NewDesc(
			"micro_open_connections",
			"Number of open line protocol connections.",
			nil, nil,
		),
	}
}

// Describe implements Collector.
func (c *statsCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.scans
	ch <- c.bytesScanned
	ch <- c.openConnections
}

// Collect implements Collector.
func (c *statsCollector) Collect(ch chan<- prometheus.Metric) {
	ch <- prometheus.MustNewConstMetric(c.scans, prometheus.CounterValue, float64(c.stats.Scans.Load()))
	ch <- prometheus.MustNewConstMetric(c.bytesScanned, prometheus.CounterValue, float64(c.stats.BytesScanned.Load()))
	ch <- prometheus.MustNewConstMetric(c.openConnections, prometheus.GaugeValue, float64(c.stats.OpenConnections.Load()))
}
