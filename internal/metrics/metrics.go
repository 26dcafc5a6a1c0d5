// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

// Package metrics exports relay activity as Prometheus collectors.
package metrics

import (
	"errors"
	"net/http"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/relabs-tech/orientation_relay/internal/relay"
)

// Relay implements relay.Observer on top of Prometheus collectors.
type Relay struct {
	registry *prometheus.Registry

	connected     prometheus.Gauge
	connections   prometheus.Counter
	disconnects   *prometheus.CounterVec
	recordsSent   prometheus.Counter
	suppressed    prometheus.Counter
	writeFailures prometheus.Counter
}

var _ relay.Observer = (*Relay)(nil)

// New creates the collectors and registers them on a private registry.
func New() *Relay {
	r := &Relay{
		registry: prometheus.NewRegistry(),
		connected: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "orientation_relay_client_connected",
			Help: "1 while a client is connected.",
		}),
		connections: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "orientation_relay_connections_total",
			Help: "Clients accepted since start.",
		}),
		disconnects: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "orientation_relay_disconnects_total",
			Help: "Client sessions ended, by reason.",
		}, []string{"reason"}),
		recordsSent: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "orientation_relay_records_sent_total",
			Help: "Records written to clients.",
		}),
		suppressed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "orientation_relay_records_suppressed_total",
			Help: "Records skipped because they repeated the previous one.",
		}),
		writeFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "orientation_relay_write_failures_total",
			Help: "Record writes that failed.",
		}),
	}

	r.registry.MustRegister(
		r.connected,
		r.connections,
		r.disconnects,
		r.recordsSent,
		r.suppressed,
		r.writeFailures,
	)
	return r
}

// Handler serves the registry in the Prometheus text format.
func (r *Relay) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}

func (r *Relay) ConnectionAccepted(string) {
	r.connected.Set(1)
	r.connections.Inc()
}

func (r *Relay) ConnectionClosed(_ string, reason error) {
	r.connected.Set(0)
	r.disconnects.With(prometheus.Labels{"reason": reasonLabel(reason)}).Inc()
}

func (r *Relay) RecordSent(string) { r.recordsSent.Inc() }

func (r *Relay) RecordSuppressed() { r.suppressed.Inc() }

func (r *Relay) WriteFailed(error) { r.writeFailures.Inc() }

func reasonLabel(err error) string {
	switch {
	case err == nil:
		return "none"
	case errors.Is(err, os.ErrDeadlineExceeded):
		return "timeout"
	case errors.Is(err, relay.ErrConnectionBroken):
		return "broken"
	default:
		return "shutdown"
	}
}
