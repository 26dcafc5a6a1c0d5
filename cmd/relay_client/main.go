// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package main

import (
	"flag"
	"fmt"
	"io"
	"net"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/relabs-tech/orientation_relay/internal/relay"
)

func main() {
	addr := flag.String("addr", fmt.Sprintf("127.0.0.1:%d", relay.DefaultPort), "relay address")
	count := flag.Int("n", 0, "stop after n records (0 = forever)")
	flag.Parse()

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	conn, err := net.DialTimeout("tcp", *addr, 5*time.Second)
	if err != nil {
		log.Fatal().Err(err).Str("addr", *addr).Msg("connect failed")
	}
	defer conn.Close()
	log.Info().Str("addr", *addr).Msg("connected, waiting for readings")

	var rec relay.Record
	for i := 0; *count == 0 || i < *count; i++ {
		if _, err := io.ReadFull(conn, rec[:]); err != nil {
			if err == io.EOF {
				log.Info().Msg("relay closed the connection")
				return
			}
			log.Fatal().Err(err).Msg("read failed")
		}
		if rec.IsEmpty() {
			log.Debug().Msg("skipping empty record")
			continue
		}
		fmt.Printf("%s  %s\n", time.Now().Format("15:04:05.000"), rec.Text())
	}
}
