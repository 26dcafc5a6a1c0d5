// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package gps

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	nmea "github.com/adrianmo/go-nmea"
	serial "github.com/jacobsa/go-serial/serial"
	"github.com/rs/zerolog/log"
)

// ErrNotRMC is returned by ParseLine for sentences other than RMC.
var ErrNotRMC = errors.New("not an RMC sentence")

// ParseLine parses one NMEA line into a Fix. Only RMC carries everything
// a Fix needs; other types (GGA, GSA, ...) yield ErrNotRMC.
func ParseLine(line string) (Fix, error) {
	line = strings.TrimSpace(line)
	if !strings.HasPrefix(line, "$") {
		return Fix{}, fmt.Errorf("not an NMEA sentence: %q", line)
	}

	sentence, err := nmea.Parse(line)
	if err != nil {
		return Fix{}, err
	}
	if sentence.DataType() != nmea.TypeRMC {
		return Fix{}, ErrNotRMC
	}

	m := sentence.(nmea.RMC)
	return Fix{
		Time:       m.Time.String(),
		Date:       m.Date.String(),
		Latitude:   m.Latitude,
		Longitude:  m.Longitude,
		SpeedKnots: m.Speed,
		CourseDeg:  m.Course,
		Validity:   string(m.Validity),
	}, nil
}

// Stream reads NMEA lines from r and calls fn for every RMC fix until r
// fails or ctx is done. Malformed lines are skipped.
func Stream(ctx context.Context, r io.Reader, fn func(Fix)) error {
	reader := bufio.NewReader(r)
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		line, err := reader.ReadString('\n')
		if line != "" {
			if fix, perr := ParseLine(line); perr == nil {
				fn(fix)
			} else if !errors.Is(perr, ErrNotRMC) {
				log.Debug().Err(perr).Msg("skipping NMEA line")
			}
		}
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return fmt.Errorf("gps read: %w", err)
		}
	}
}

// OpenSerial opens the receiver's serial port at 8N1.
func OpenSerial(portName string, baudRate int) (io.ReadWriteCloser, error) {
	port, err := serial.Open(serial.OpenOptions{
		PortName:              portName,
		BaudRate:              uint(baudRate),
		DataBits:              8,
		StopBits:              1,
		MinimumReadSize:       1,
		ParityMode:            serial.PARITY_NONE,
		InterCharacterTimeout: 0,
	})
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", portName, err)
	}
	log.Info().Str("port", portName).Int("baud", baudRate).Msg("GPS serial port opened")
	return port, nil
}
