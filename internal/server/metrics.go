package server

// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"powerview/internal/powertop"
)

const promMetricPrefix = "powerview_"

// parse results
const (
	resultOK    = "ok"
	resultError = "error"
)

// Metrics holds the collectors updated by the upload handlers.
type Metrics struct {
	registry      *prometheus.Registry
	parseTotal    *prometheus.CounterVec
	parseDuration prometheus.Histogram
	lastCPUUsage  prometheus.Gauge
	lastWakeups   prometheus.Gauge
}

// NewMetrics creates the collectors and registers them, with the Go runtime and
// process collectors, in a new registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		parseTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: promMetricPrefix + "parse_total",
				Help: "Number of uploaded reports parsed, by input format and result",
			},
			[]string{"format", "result"},
		),
		parseDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    promMetricPrefix + "parse_duration_seconds",
				Help:    "Time spent parsing an uploaded report",
				Buckets: prometheus.ExponentialBuckets(0.0005, 4, 8),
			},
		),
		lastCPUUsage: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: promMetricPrefix + "last_cpu_usage_percent",
				Help: "CPU usage of the last successfully parsed report",
			},
		),
		lastWakeups: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: promMetricPrefix + "last_wakeups_per_second",
				Help: "Wakeups per second of the last successfully parsed report",
			},
		),
	}
	m.registry.MustRegister(
		m.parseTotal,
		m.parseDuration,
		m.lastCPUUsage,
		m.lastWakeups,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Registry returns the registry holding the collectors.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// observeParse records one parse attempt
func (m *Metrics) observeParse(format powertop.Format, elapsed time.Duration, report powertop.Report, err error) {
	m.parseDuration.Observe(elapsed.Seconds())
	if err != nil {
		m.parseTotal.WithLabelValues(string(format), resultError).Inc()
		return
	}
	m.parseTotal.WithLabelValues(string(format), resultOK).Inc()
	m.lastCPUUsage.Set(report.Summary.CPUUsage)
	m.lastWakeups.Set(report.Summary.Wakeups)
}
