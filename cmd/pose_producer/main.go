// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package main

import (
	"encoding/json"
	"flag"
	"os"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/relabs-tech/orientation_relay/internal/config"
	"github.com/relabs-tech/orientation_relay/internal/orientation"
)

// Publishes mock poses for a relay running with SOURCE=mqtt.
func main() {
	configPath := flag.String("config", "./relay_config.txt", "path to configuration file")
	flag.Parse()

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	log.Info().Msg("starting mock pose producer (mock → MQTT)")

	if err := config.InitGlobal(*configPath); err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}
	cfg := config.Get()

	opts := mqtt.NewClientOptions().
		AddBroker(cfg.MQTTBroker).
		SetClientID(cfg.MQTTClientID + "-producer")

	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		log.Fatal().Err(token.Error()).Msg("MQTT connect error")
	}
	defer client.Disconnect(250)

	src := orientation.NewMockSource()
	ticker := time.NewTicker(time.Duration(cfg.SampleInterval) * time.Millisecond)
	defer ticker.Stop()

	for range ticker.C {
		pose, err := src.Next()
		if err != nil {
			log.Warn().Err(err).Msg("error from mock source")
			continue
		}

		payload, err := json.Marshal(pose)
		if err != nil {
			log.Warn().Err(err).Msg("json marshal error")
			continue
		}

		token := client.Publish(cfg.TopicPose, 0, true, payload)
		token.Wait()
		if token.Error() != nil {
			log.Warn().Err(token.Error()).Msg("MQTT publish error")
			continue
		}
		log.Debug().Interface("pose", pose).Msg("published pose")
	}
}
