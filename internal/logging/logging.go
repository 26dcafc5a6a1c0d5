// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

// Package logging configures the process-wide zerolog logger.
package logging

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Setup points the global logger at a console writer on stderr. When
// errorLog is set, warnings and errors are also appended to that file,
// rotated by lumberjack. The returned closer releases the file.
func Setup(level, errorLog string) (io.Closer, error) {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}

	console := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}
	logger, closer := build(console, errorLog)
	log.Logger = logger.Level(lvl)
	zerolog.SetGlobalLevel(lvl)
	return closer, nil
}

func build(console io.Writer, errorLog string) (zerolog.Logger, io.Closer) {
	if errorLog == "" {
		return zerolog.New(console).With().Timestamp().Logger(), nopCloser{}
	}

	file := &lumberjack.Logger{
		Filename:   errorLog,
		MaxSize:    10, // megabytes
		MaxBackups: 3,
		MaxAge:     28, // days
	}
	multi := zerolog.MultiLevelWriter(console, &minLevelWriter{w: file, min: zerolog.WarnLevel})
	return zerolog.New(multi).With().Timestamp().Logger(), file
}

// minLevelWriter drops events below min.
type minLevelWriter struct {
	w   io.Writer
	min zerolog.Level
}

func (m *minLevelWriter) Write(p []byte) (int, error) {
	return m.w.Write(p)
}

func (m *minLevelWriter) WriteLevel(l zerolog.Level, p []byte) (int, error) {
	if l < m.min {
		return len(p), nil
	}
	return m.w.Write(p)
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
