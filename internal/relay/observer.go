// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package relay

import (
	"sync"
	"time"
)

// ReadingSink receives every record the pump tries to send. Implementations
// must not block for long; their errors are logged and otherwise ignored.
type ReadingSink interface {
	LogReading(at time.Time, reading string) error
}

// Observer is notified of relay events, e.g. to export metrics.
type Observer interface {
	ConnectionAccepted(remote string)
	ConnectionClosed(remote string, reason error)
	RecordSent(reading string)
	RecordSuppressed()
	WriteFailed(err error)
}

type nopObserver struct{}

func (nopObserver) ConnectionAccepted(string)      {}
func (nopObserver) ConnectionClosed(string, error) {}
func (nopObserver) RecordSent(string)              {}
func (nopObserver) RecordSuppressed()              {}
func (nopObserver) WriteFailed(error)              {}

// Stats is a point-in-time view of the relay.
type Stats struct {
	Connected         bool      `json:"connected"`
	Remote            string    `json:"remote,omitempty"`
	Connections       uint64    `json:"connections"`
	RecordsSent       uint64    `json:"records_sent"`
	RecordsSuppressed uint64    `json:"records_suppressed"`
	WriteFailures     uint64    `json:"write_failures"`
	LastReading       string    `json:"last_reading,omitempty"`
	LastSentAt        time.Time `json:"last_sent_at"`
}

// statsObserver keeps Stats up to date and forwards every event.
type statsObserver struct {
	next Observer
	now  func() time.Time

	mu    sync.Mutex
	stats Stats
}

func (o *statsObserver) ConnectionAccepted(remote string) {
	o.mu.Lock()
	o.stats.Connected = true
	o.stats.Remote = remote
	o.stats.Connections++
	o.mu.Unlock()
	o.next.ConnectionAccepted(remote)
}

func (o *statsObserver) ConnectionClosed(remote string, reason error) {
	o.mu.Lock()
	o.stats.Connected = false
	o.stats.Remote = ""
	o.mu.Unlock()
	o.next.ConnectionClosed(remote, reason)
}

func (o *statsObserver) RecordSent(reading string) {
	o.mu.Lock()
	o.stats.RecordsSent++
	o.stats.LastReading = reading
	o.stats.LastSentAt = o.now()
	o.mu.Unlock()
	o.next.RecordSent(reading)
}

func (o *statsObserver) RecordSuppressed() {
	o.mu.Lock()
	o.stats.RecordsSuppressed++
	o.mu.Unlock()
	o.next.RecordSuppressed()
}

func (o *statsObserver) WriteFailed(err error) {
	o.mu.Lock()
	o.stats.WriteFailures++
	o.mu.Unlock()
	o.next.WriteFailed(err)
}

func (o *statsObserver) snapshot() Stats {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.stats
}
