// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package relay

import (
	"fmt"
	"net"
	"sync"
)

// Backlog is the listen queue length requested for the relay socket.
const Backlog = 10

// Acceptor owns the listening socket and hands out one connection at a time.
type Acceptor struct {
	ln        net.Listener
	closeOnce sync.Once
	closeErr  error
}

// Listen binds a TCP listener on all IPv4 interfaces with address reuse enabled.
// Port 0 picks an ephemeral port. Errors wrap ErrSocket, ErrBind or ErrListen.
func Listen(port uint16) (*Acceptor, error) {
	ln, err := listenTCP4(port, Backlog)
	if err != nil {
		return nil, err
	}
	return &Acceptor{ln: ln}, nil
}

// Accept blocks until a client connects. The caller owns the returned connection
// and must close it before accepting the next one.
func (a *Acceptor) Accept() (net.Conn, error) {
	conn, err := a.ln.Accept()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrAccept, err)
	}
	return conn, nil
}

// Addr returns the bound address.
func (a *Acceptor) Addr() net.Addr {
	return a.ln.Addr()
}

// Port returns the bound TCP port.
func (a *Acceptor) Port() uint16 {
	if tcp, ok := a.ln.Addr().(*net.TCPAddr); ok {
		return uint16(tcp.Port)
	}
	return 0
}

// Close stops listening. A blocked Accept returns with an error. Safe to call twice.
func (a *Acceptor) Close() error {
	a.closeOnce.Do(func() {
		a.closeErr = a.ln.Close()
	})
	return a.closeErr
}
