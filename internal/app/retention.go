// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package app

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
)

// retentionInterval is how often old readings are pruned.
const retentionInterval = time.Hour

type readingPruner interface {
	DeleteOlderThan(ctx context.Context, age time.Duration) (int64, error)
}

// runRetention deletes readings older than retention once at start and then
// every interval, until ctx is done.
func runRetention(ctx context.Context, p readingPruner, retention, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		n, err := p.DeleteOlderThan(ctx, retention)
		if err != nil {
			log.Warn().Err(err).Msg("readings: pruning failed")
		} else if n > 0 {
			log.Info().Int64("deleted", n).Dur("retention", retention).Msg("readings: pruned old readings")
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}
