// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package relay

import (
	"bytes"
	"math"
	"strconv"

	"github.com/relabs-tech/orientation_relay/internal/orientation"
)

const (
	// ReadingCapacity is the maximum number of text bytes a record carries.
	ReadingCapacity = 100

	// RecordSize is the number of bytes written per record. The byte after the
	// text capacity is always NUL so clients can treat a record as a C string.
	RecordSize = ReadingCapacity + 1
)

// Record is one wire record: "azimuth|pitch|roll|status" NUL-padded to RecordSize.
// Text longer than ReadingCapacity is truncated. The zero Record is the empty reading.
type Record [RecordSize]byte

// NewRecord copies at most ReadingCapacity bytes of text into a record.
func NewRecord(text []byte) Record {
	var r Record
	copy(r[:ReadingCapacity], text)
	return r
}

// FormatRecord renders a sample as "%f|%f|%f|%d".
func FormatRecord(s orientation.Sample) Record {
	b := make([]byte, 0, 3*48+8)
	b = appendFloat(b, s.Azimuth)
	b = append(b, '|')
	b = appendFloat(b, s.Pitch)
	b = append(b, '|')
	b = appendFloat(b, s.Roll)
	b = append(b, '|')
	b = strconv.AppendInt(b, int64(s.Status), 10)
	return NewRecord(b)
}

// appendFloat formats like C's "%f" applied to a float promoted to double,
// including the lowercase nan/inf spellings clients already parse.
func appendFloat(b []byte, v float32) []byte {
	f := float64(v)
	switch {
	case math.IsNaN(f):
		if math.Signbit(f) {
			return append(b, "-nan"...)
		}
		return append(b, "nan"...)
	case math.IsInf(f, 1):
		return append(b, "inf"...)
	case math.IsInf(f, -1):
		return append(b, "-inf"...)
	}
	return strconv.AppendFloat(b, f, 'f', 6, 64)
}

// Text returns the reading up to the first NUL byte.
func (r Record) Text() string {
	n := bytes.IndexByte(r[:], 0)
	if n < 0 {
		n = len(r)
	}
	return string(r[:n])
}

// IsEmpty reports whether the record carries no reading.
func (r Record) IsEmpty() bool {
	return r[0] == 0
}
