// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package app

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/relabs-tech/orientation_relay/internal/orientation"
	"github.com/relabs-tech/orientation_relay/internal/readinglog"
	"github.com/relabs-tech/orientation_relay/internal/relay"
)

// statusResponse is served by /api/status and pushed on /ws/status.
type statusResponse struct {
	relay.Stats
	Subscribed   bool                `json:"subscribed"`
	Latest       *orientation.Sample `json:"latest,omitempty"`
	LatestStatus string              `json:"latest_status,omitempty"`
	LastSentAgo  string              `json:"last_sent_ago,omitempty"`
}

type readingHistory interface {
	Recent(ctx context.Context, limit int) ([]readinglog.Entry, error)
}

type statusServer struct {
	ch       *relay.SampleChannel
	stats    func() relay.Stats
	metrics  http.Handler
	history  readingHistory
	now      func() time.Time
	interval time.Duration
	upgrader websocket.Upgrader
}

func newStatusServer(ch *relay.SampleChannel, stats func() relay.Stats, metrics http.Handler) *statusServer {
	return &statusServer{
		ch:       ch,
		stats:    stats,
		metrics:  metrics,
		now:      time.Now,
		interval: time.Second,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

func (s *statusServer) routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/status", s.handleStatus)
	mux.HandleFunc("/api/readings", s.handleReadings)
	mux.HandleFunc("/ws/status", s.handleStatusWS)
	mux.Handle("/metrics", s.metrics)
	return mux
}

func (s *statusServer) listenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{Addr: addr, Handler: s.routes()}
	stop := context.AfterFunc(ctx, func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	})
	defer stop()

	log.Info().Str("addr", addr).Msg("web: server listening")
	if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *statusServer) status() statusResponse {
	resp := statusResponse{
		Stats:      s.stats(),
		Subscribed: s.ch.IsSubscribed(),
	}
	if latest, ok := s.ch.Latest(); ok {
		resp.Latest = &latest
		resp.LatestStatus = orientation.StatusName(latest.Status)
	}
	if !resp.LastSentAt.IsZero() {
		resp.LastSentAgo = humanize.RelTime(resp.LastSentAt, s.now(), "ago", "from now")
	}
	return resp
}

func (s *statusServer) handleStatus(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(s.status()); err != nil {
		log.Warn().Err(err).Msg("web: json encode error")
	}
}

func (s *statusServer) handleReadings(w http.ResponseWriter, r *http.Request) {
	if s.history == nil {
		http.Error(w, "reading history requires READINGS_SINK=sqlite", http.StatusNotFound)
		return
	}

	limit := 50
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 || n > 1000 {
			http.Error(w, "limit must be 1-1000", http.StatusBadRequest)
			return
		}
		limit = n
	}

	entries, err := s.history.Recent(r.Context(), limit)
	if err != nil {
		log.Error().Err(err).Msg("web: reading history query failed")
		http.Error(w, "query failed", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(entries); err != nil {
		log.Warn().Err(err).Msg("web: json encode error")
	}
}

// handleStatusWS pushes a status snapshot every interval until the peer leaves.
func (s *statusServer) handleStatusWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Warn().Err(err).Msg("web: websocket upgrade failed")
		return
	}
	defer conn.Close()

	// Drain control frames; any read error means the peer is gone.
	gone := make(chan struct{})
	go func() {
		defer close(gone)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		if err := conn.WriteJSON(s.status()); err != nil {
			log.Debug().Err(err).Msg("web: websocket write failed")
			return
		}
		select {
		case <-gone:
			return
		case <-r.Context().Done():
			return
		case <-ticker.C:
		}
	}
}
