// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package relay

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/relabs-tech/orientation_relay/internal/orientation"
)

// DefaultPort is the well-known relay port.
const DefaultPort = 5005

// Options configures a Supervisor.
type Options struct {
	// Port to listen on; 0 picks an ephemeral port.
	Port uint16

	// Pace is the pause after each processed sample.
	Pace time.Duration

	// WriteTimeout bounds a single record write; 0 disables the deadline.
	WriteTimeout time.Duration

	// EmitOnConnect pushes the last known sample (or the default one) as soon
	// as a client connects instead of waiting for the next publish. Only with
	// it set does a client that connects before any publish receive the
	// default record first; off, the first record is the next publish.
	EmitOnConnect bool

	Sink     ReadingSink
	Observer Observer
}

// Supervisor runs the accept loop and one Pump per accepted client.
type Supervisor struct {
	ch       *SampleChannel
	opts     Options
	observer *statsObserver
	started  atomic.Bool
}

// NewSupervisor returns a supervisor relaying samples from ch.
func NewSupervisor(ch *SampleChannel, opts Options) *Supervisor {
	next := opts.Observer
	if next == nil {
		next = nopObserver{}
	}
	return &Supervisor{
		ch:       ch,
		opts:     opts,
		observer: &statsObserver{next: next, now: time.Now},
	}
}

// Start launches the relay on a background goroutine for the lifetime of the
// process. It reports false if the supervisor cannot be started.
func (s *Supervisor) Start() bool {
	if s.ch == nil {
		log.Error().Msg("relay: no sample channel, server not started")
		return false
	}
	if !s.started.CompareAndSwap(false, true) {
		log.Error().Msg("relay: server already started")
		return false
	}

	go func() {
		if err := s.Run(context.Background()); err != nil {
			log.Error().Err(err).Msg("relay: server stopped, no further clients can connect")
		}
	}()
	log.Info().Uint16("port", s.opts.Port).Msg("relay: server started")
	return true
}

// Run binds the configured port and serves clients until ctx is done or the
// socket fails. Production callers never cancel ctx.
func (s *Supervisor) Run(ctx context.Context) error {
	acc, err := Listen(s.opts.Port)
	if err != nil {
		return err
	}
	log.Info().Stringer("addr", acc.Addr()).Msg("relay: listening")
	return s.Serve(ctx, acc)
}

// Serve runs the accept loop on acc, which it closes on return.
func (s *Supervisor) Serve(ctx context.Context, acc *Acceptor) error {
	defer acc.Close()
	stop := context.AfterFunc(ctx, func() { acc.Close() })
	defer stop()

	for {
		s.ch.unsubscribe()

		log.Debug().Msg("relay: waiting to accept")
		conn, err := acc.Accept()
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return err
		}

		s.serveConn(ctx, conn)
		if ctx.Err() != nil {
			return ctx.Err()
		}
	}
}

// Stats returns a snapshot of relay counters and connection state.
func (s *Supervisor) Stats() Stats {
	return s.observer.snapshot()
}

// serveConn runs a Pump on conn until the client goes away, then closes conn.
func (s *Supervisor) serveConn(ctx context.Context, conn net.Conn) {
	remote := conn.RemoteAddr().String()
	connCtx, cancel := context.WithCancelCause(ctx)
	defer cancel(nil)

	seen := s.ch.subscribe()
	retained := orientation.DefaultSample
	if s.opts.EmitOnConnect {
		if latest, ok := s.ch.Latest(); ok {
			retained = latest
		}
	}

	log.Info().Str("remote", remote).Msg("relay: client connected")
	s.observer.ConnectionAccepted(remote)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		// EOF only means the client stopped sending; a receive-only client
		// may half-close right after connecting. A closed peer is detected by
		// the next failed write instead.
		if err := watchPeer(conn); err != nil {
			cancel(fmt.Errorf("%w: %w", ErrConnectionBroken, err))
		}
	}()

	pump := &Pump{
		ch:            s.ch,
		conn:          conn,
		sink:          s.opts.Sink,
		observer:      s.observer,
		now:           time.Now,
		pace:          s.opts.Pace,
		writeTimeout:  s.opts.WriteTimeout,
		emitOnConnect: s.opts.EmitOnConnect,
		seen:          seen,
		retained:      retained,
	}
	err := pump.Run(connCtx)
	if errors.Is(err, context.Canceled) && ctx.Err() == nil {
		err = context.Cause(connCtx)
	}

	s.ch.unsubscribe()
	conn.Close()
	wg.Wait()

	log.Info().Str("remote", remote).Err(err).Msg("relay: client disconnected")
	s.observer.ConnectionClosed(remote, err)
}

// watchPeer drains anything the client sends. It returns nil once the client
// shuts down its sending side and the read error (e.g. ECONNRESET) otherwise,
// including after the connection is closed locally.
func watchPeer(conn net.Conn) error {
	_, err := io.Copy(io.Discard, conn)
	return err
}
