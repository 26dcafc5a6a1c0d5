// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

//go:build !linux

package relay

import (
	"context"
	"errors"
	"fmt"
	"net"
	"syscall"
)

// listenTCP4 falls back to the runtime listener, which already enables
// SO_REUSEADDR. The backlog is left to the operating system.
func listenTCP4(port uint16, _ int) (net.Listener, error) {
	var lc net.ListenConfig
	ln, err := lc.Listen(context.Background(), "tcp4", fmt.Sprintf(":%d", port))
	if err != nil {
		if errors.Is(err, syscall.EADDRINUSE) || errors.Is(err, syscall.EACCES) {
			return nil, fmt.Errorf("%w: port %d: %w", ErrBind, port, err)
		}
		return nil, fmt.Errorf("%w: port %d: %w", ErrListen, port, err)
	}
	return ln, nil
}
