// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package relay

import (
	"context"
	"sync"

	"github.com/relabs-tech/orientation_relay/internal/orientation"
)

// SampleChannel is a one-slot, last-write-wins handoff from the sample
// producer to the pump. Publish never blocks.
type SampleChannel struct {
	mu         sync.Mutex
	latest     orientation.Sample
	have       bool
	seq        uint64
	subscribed bool

	// notify holds at most one pending wake-up for the pump.
	notify chan struct{}
}

// NewSampleChannel returns an empty channel with no subscriber.
func NewSampleChannel() *SampleChannel {
	return &SampleChannel{notify: make(chan struct{}, 1)}
}

// Publish overwrites the slot with s. The pump is only woken while a client
// is connected; otherwise the value is recorded and nothing else happens.
func (c *SampleChannel) Publish(s orientation.Sample) {
	c.mu.Lock()
	c.latest = s
	c.have = true
	c.seq++
	wake := c.subscribed
	c.mu.Unlock()

	if wake {
		select {
		case c.notify <- struct{}{}:
		default:
		}
	}
}

// PublishValues is Publish for callers holding the individual fields.
func (c *SampleChannel) PublishValues(azimuth, pitch, roll float32, status int8) {
	c.Publish(orientation.Sample{Azimuth: azimuth, Pitch: pitch, Roll: roll, Status: status})
}

// IsSubscribed reports whether a client is connected. Producers use it to
// skip sensor reads and formatting while nobody is listening.
func (c *SampleChannel) IsSubscribed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.subscribed
}

// Latest returns the most recently published sample, if any.
func (c *SampleChannel) Latest() (orientation.Sample, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.latest, c.have
}

// subscribe marks a client as connected and discards any stale wake-up.
// It returns the sequence number the new connection starts from.
func (c *SampleChannel) subscribe() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.subscribed = true
	select {
	case <-c.notify:
	default:
	}
	return c.seq
}

func (c *SampleChannel) unsubscribe() {
	c.mu.Lock()
	c.subscribed = false
	c.mu.Unlock()
}

// wait blocks until a sample may be available or ctx is done.
func (c *SampleChannel) wait(ctx context.Context) error {
	select {
	case <-c.notify:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// take returns the latest sample when it is newer than seen. ok is false for
// a wake-up that brought no new sample.
func (c *SampleChannel) take(seen uint64) (s orientation.Sample, seq uint64, ok bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.seq == seen {
		return orientation.Sample{}, seen, false
	}
	return c.latest, c.seq, true
}
