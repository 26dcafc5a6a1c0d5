// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package app

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/rs/zerolog/log"

	"github.com/relabs-tech/orientation_relay/internal/config"
	"github.com/relabs-tech/orientation_relay/internal/gps"
	"github.com/relabs-tech/orientation_relay/internal/orientation"
	"github.com/relabs-tech/orientation_relay/internal/relay"
)

// runSource feeds ch from the producer selected by cfg.Source.
func runSource(ctx context.Context, cfg *config.Config, ch *relay.SampleChannel) error {
	interval := time.Duration(cfg.SampleInterval) * time.Millisecond

	switch cfg.Source {
	case "mock":
		log.Info().Msg("source: using mock orientation source")
		return runPolled(ctx, orientation.NewMockSource(), interval, ch)
	case "imu":
		src, err := orientation.NewIMUSource(cfg.IMUSPIDevice, cfg.IMUCSPin)
		if err != nil {
			return fmt.Errorf("imu source: %w", err)
		}
		log.Info().Str("spi", cfg.IMUSPIDevice).Msg("source: using MPU9250")
		return runPolled(ctx, src, interval, ch)
	case "mqtt":
		return runMQTT(ctx, cfg, ch)
	case "gps":
		return runGPS(ctx, cfg, ch)
	default:
		return fmt.Errorf("unknown source %q", cfg.Source)
	}
}

// runPolled reads src every interval while a client is connected and
// publishes each pose as a high-accuracy sample.
func runPolled(ctx context.Context, src orientation.Source, interval time.Duration, ch *relay.SampleChannel) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}

		// No client: leave the sensor alone.
		if !ch.IsSubscribed() {
			continue
		}

		pose, err := src.Next()
		if err != nil {
			log.Warn().Err(err).Msg("source: read failed")
			continue
		}
		ch.Publish(orientation.SampleFromPose(pose, orientation.StatusHigh))
	}
}

// poseHandler decodes Pose JSON payloads into samples.
func poseHandler(ch *relay.SampleChannel) mqtt.MessageHandler {
	return func(_ mqtt.Client, msg mqtt.Message) {
		var p orientation.Pose
		if err := json.Unmarshal(msg.Payload(), &p); err != nil {
			log.Warn().Err(err).Str("topic", msg.Topic()).Msg("mqtt: pose unmarshal error")
			return
		}
		ch.Publish(orientation.SampleFromPose(p, orientation.StatusHigh))
	}
}

// runMQTT subscribes to the pose topic and relays every message.
func runMQTT(ctx context.Context, cfg *config.Config, ch *relay.SampleChannel) error {
	opts := mqtt.NewClientOptions().
		AddBroker(cfg.MQTTBroker).
		SetClientID(cfg.MQTTClientID).
		SetAutoReconnect(true)

	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return fmt.Errorf("mqtt connect: %w", token.Error())
	}
	defer client.Disconnect(250)
	log.Info().Str("broker", cfg.MQTTBroker).Msg("mqtt: connected")

	token := client.Subscribe(cfg.TopicPose, 0, poseHandler(ch))
	token.Wait()
	if token.Error() != nil {
		return fmt.Errorf("mqtt subscribe %s: %w", cfg.TopicPose, token.Error())
	}
	log.Info().Str("topic", cfg.TopicPose).Msg("mqtt: subscribed")

	<-ctx.Done()
	return ctx.Err()
}

// runGPS relays course over ground from an NMEA receiver.
func runGPS(ctx context.Context, cfg *config.Config, ch *relay.SampleChannel) error {
	port, err := gps.OpenSerial(cfg.GPSSerialPort, cfg.GPSBaudRate)
	if err != nil {
		return err
	}
	defer port.Close()
	stop := context.AfterFunc(ctx, func() { port.Close() })
	defer stop()

	err = gps.Stream(ctx, port, func(f gps.Fix) {
		log.Debug().Float64("course", f.CourseDeg).Str("validity", f.Validity).Msg("gps: fix")
		ch.Publish(f.Sample())
	})
	if ctx.Err() != nil {
		return ctx.Err()
	}
	return err
}
