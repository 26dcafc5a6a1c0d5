// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/relabs-tech/orientation_relay/internal/config"
	"github.com/relabs-tech/orientation_relay/internal/metrics"
	"github.com/relabs-tech/orientation_relay/internal/readinglog"
	"github.com/relabs-tech/orientation_relay/internal/relay"
)

// RunRelay starts the relay server, the optional status surfaces and the
// configured sample producer. It returns when the producer stops or ctx is done.
func RunRelay(ctx context.Context, cfg *config.Config) error {
	ch := relay.NewSampleChannel()

	sink, err := readinglog.Open(cfg.ReadingsSink, cfg.ReadingsLog, cfg.ReadingsDB)
	if err != nil {
		log.Warn().Err(err).Msg("readings: sink unavailable, readings will not be logged")
		sink = readinglog.Discard{}
	}
	defer sink.Close()

	m := metrics.New()
	sup := relay.NewSupervisor(ch, relay.Options{
		Port:          cfg.RelayPort,
		Pace:          cfg.RelayPace(),
		WriteTimeout:  cfg.RelayWriteTimeout(),
		EmitOnConnect: cfg.RelayEmitOnConnect,
		Sink:          sink,
		Observer:      m,
	})
	if !sup.Start() {
		return errors.New("relay: server could not be started")
	}

	if archive, ok := sink.(*readinglog.SQLiteSink); ok && cfg.ReadingsRetention > 0 {
		go runRetention(ctx, archive, cfg.ReadingsRetention, retentionInterval)
	}

	if cfg.WebServerPort > 0 {
		srv := newStatusServer(ch, sup.Stats, m.Handler())
		if history, ok := sink.(*readinglog.SQLiteSink); ok {
			srv.history = history
		}
		go func() {
			addr := fmt.Sprintf(":%d", cfg.WebServerPort)
			if err := srv.listenAndServe(ctx, addr); err != nil {
				log.Error().Err(err).Str("addr", addr).Msg("web: server stopped")
			}
		}()
	}

	if cfg.DisplayEnabled {
		go func() {
			if err := runDisplay(ctx, cfg, ch, sup.Stats); err != nil {
				log.Warn().Err(err).Msg("display: disabled")
			}
		}()
	}

	return runSource(ctx, cfg, ch)
}
