// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package readinglog

import (
	"fmt"
	"sync"
	"time"

	"gopkg.in/natefinch/lumberjack.v2"
)

// FileSink appends one line per reading to a size-rotated text file:
//
//	[Orientation] 1718000000123456789ns : 12.500000|-3.250000|0.000000|3
type FileSink struct {
	mu     sync.Mutex
	out    *lumberjack.Logger
	closed bool
}

// NewFileSink creates the sink. The file is opened on first write.
func NewFileSink(path string) *FileSink {
	return &FileSink{
		out: &lumberjack.Logger{
			Filename:   path,
			MaxSize:    50, // megabytes
			MaxBackups: 5,
		},
	}
}

// LogReading writes the line for a reading sent at the given time.
func (s *FileSink) LogReading(at time.Time, reading string) error {
	line := fmt.Sprintf("[Orientation] %dns : %s\n", at.UnixNano(), reading)

	s.mu.Lock()
	defer s.mu.Unlock()
	// lumberjack reopens the file on write, so refuse explicitly.
	if s.closed {
		return ErrClosed
	}
	if _, err := s.out.Write([]byte(line)); err != nil {
		return fmt.Errorf("failed to write reading: %w", err)
	}
	return nil
}

// Close closes the current log file.
func (s *FileSink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	return s.out.Close()
}
