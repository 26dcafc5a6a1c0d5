// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

// Package relay streams the latest distinct orientation sample to a single TCP client.
//
// A producer publishes samples into a SampleChannel. The Supervisor owns the
// listening socket, accepts one client at a time and runs a Pump for it. The Pump
// formats each new sample into a fixed 101-byte record, drops it if it equals the
// record last sent on the same connection, and writes it otherwise. A failed write
// or a closed peer ends the Pump and the Supervisor accepts the next client.
//
// Delivery is at-most-latest: samples published between two pump wake-ups are
// overwritten, and nothing is queued while no client is connected.
package relay
