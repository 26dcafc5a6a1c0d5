// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package relay

import (
	"context"
	"fmt"
	"io"
	"net"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/relabs-tech/orientation_relay/internal/orientation"
)

// Pump serves one accepted connection: wait for a sample, format it, drop it if
// it repeats the last record sent, write it otherwise. It owns the connection's
// dedup state, which starts empty for every connection.
type Pump struct {
	ch       *SampleChannel
	conn     net.Conn
	sink     ReadingSink
	observer Observer
	now      func() time.Time

	pace          time.Duration
	writeTimeout  time.Duration
	emitOnConnect bool

	seen     uint64
	retained orientation.Sample
	lastSent Record
}

// Run pumps records until the connection breaks or ctx is done. A write
// failure returns an error wrapping ErrConnectionBroken.
func (p *Pump) Run(ctx context.Context) error {
	if p.emitOnConnect {
		if err := p.emit(); err != nil {
			return err
		}
		p.pause()
	}

	for {
		if err := p.ch.wait(ctx); err != nil {
			return err
		}

		s, seq, ok := p.ch.take(p.seen)
		if !ok {
			// Nothing new: keep the last known sample, which the dedup check
			// would suppress anyway.
			log.Debug().Msg("relay: woken without a new sample")
			continue
		}
		p.seen = seq
		p.retained = s

		if err := p.emit(); err != nil {
			return err
		}
		p.pause()
	}
}

// emit formats the retained sample and sends it unless it repeats the last record.
func (p *Pump) emit() error {
	rec := FormatRecord(p.retained)
	if rec == p.lastSent {
		p.observer.RecordSuppressed()
		return nil
	}
	p.lastSent = rec

	err := p.write(rec)
	p.logReading(rec)
	if err != nil {
		p.observer.WriteFailed(err)
		return fmt.Errorf("%w: %w", ErrConnectionBroken, err)
	}
	p.observer.RecordSent(rec.Text())
	return nil
}

func (p *Pump) write(rec Record) error {
	if p.writeTimeout > 0 {
		if err := p.conn.SetWriteDeadline(p.now().Add(p.writeTimeout)); err != nil {
			return err
		}
	}
	n, err := p.conn.Write(rec[:])
	if err != nil {
		return err
	}
	if n < RecordSize {
		return io.ErrShortWrite
	}
	return nil
}

func (p *Pump) logReading(rec Record) {
	if p.sink == nil {
		return
	}
	if err := p.sink.LogReading(p.now(), rec.Text()); err != nil {
		log.Debug().Err(err).Msg("relay: reading log write failed")
	}
}

// pause bounds the relay rate and yields to the producer.
func (p *Pump) pause() {
	if p.pace > 0 {
		time.Sleep(p.pace)
	}
}
