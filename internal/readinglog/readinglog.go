// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

// Package readinglog persists the readings the relay sends, for diagnostics.
package readinglog

import (
	"errors"
	"fmt"
	"time"
)

// ErrClosed is returned when a reading arrives after the sink was closed.
var ErrClosed = errors.New("readinglog: sink closed")

// Sink stores readings. It satisfies relay.ReadingSink. Writes after Close
// fail with ErrClosed.
type Sink interface {
	LogReading(at time.Time, reading string) error
	Close() error
}

// Open returns the sink selected by kind: "file", "sqlite" or "none".
func Open(kind, logPath, dbPath string) (Sink, error) {
	switch kind {
	case "file":
		return NewFileSink(logPath), nil
	case "sqlite":
		return NewSQLiteSink(dbPath)
	case "none", "":
		return Discard{}, nil
	default:
		return nil, fmt.Errorf("unknown readings sink %q", kind)
	}
}

// Discard drops every reading.
type Discard struct{}

func (Discard) LogReading(time.Time, string) error { return nil }
func (Discard) Close() error                       { return nil }
