// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package relay

import "errors"

var (
	// ErrSocket indicates the listening socket could not be created or configured.
	ErrSocket = errors.New("relay: socket error")

	// ErrBind indicates the port is unavailable.
	ErrBind = errors.New("relay: bind error")

	// ErrListen indicates the bound socket could not be put into listening mode.
	ErrListen = errors.New("relay: listen error")

	// ErrAccept indicates the accept loop failed; no further clients can connect.
	ErrAccept = errors.New("relay: accept error")

	// ErrConnectionBroken indicates the current client can no longer be written to.
	ErrConnectionBroken = errors.New("relay: connection broken")
)
