// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package app

import (
	"context"
	"fmt"
	"image"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/devices/v3/ssd1306"
	"periph.io/x/devices/v3/ssd1306/image1bit"
	"periph.io/x/host/v3"

	"github.com/relabs-tech/orientation_relay/internal/config"
	"github.com/relabs-tech/orientation_relay/internal/orientation"
	"github.com/relabs-tech/orientation_relay/internal/relay"
)

// runDisplay shows relay state on an SSD1306 OLED until ctx is done.
func runDisplay(ctx context.Context, cfg *config.Config, ch *relay.SampleChannel, stats func() relay.Stats) error {
	if _, err := host.Init(); err != nil {
		return fmt.Errorf("failed to initialize periph: %w", err)
	}

	bus, err := i2creg.Open(cfg.DisplayI2CBus)
	if err != nil {
		return fmt.Errorf("failed to open I2C bus: %w", err)
	}
	defer bus.Close()

	dev, err := ssd1306.NewI2C(bus, &ssd1306.DefaultOpts)
	if err != nil {
		return fmt.Errorf("failed to initialize display: %w", err)
	}
	defer dev.Halt()
	log.Info().Str("bus", cfg.DisplayI2CBus).Msg("display: initialized")

	ticker := time.NewTicker(time.Duration(cfg.DisplayUpdateInterval) * time.Millisecond)
	defer ticker.Stop()

	for {
		latest, have := ch.Latest()
		img := renderStatus(stats(), latest, have)
		if err := dev.Draw(dev.Bounds(), img, image.Point{}); err != nil {
			log.Warn().Err(err).Msg("display: update failed")
		}

		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

// statusLines is the text shown on the 128x64 panel, four lines of 7x13.
func statusLines(st relay.Stats, latest orientation.Sample, have bool) []string {
	client := "Client: none"
	if st.Connected {
		client = "Client: yes"
	}

	lines := []string{
		client,
		fmt.Sprintf("Sent: %d", st.RecordsSent),
	}
	if !have {
		return append(lines, "Waiting...")
	}
	return append(lines,
		fmt.Sprintf("Az:%6.1f %s", latest.Azimuth, orientation.StatusName(latest.Status)),
		fmt.Sprintf("P:%5.1f R:%5.1f", latest.Pitch, latest.Roll),
	)
}

func renderStatus(st relay.Stats, latest orientation.Sample, have bool) *image1bit.VerticalLSB {
	img := image1bit.NewVerticalLSB(image.Rect(0, 0, 128, 64))

	drawer := &font.Drawer{
		Dst:  img,
		Src:  &image.Uniform{image1bit.On},
		Face: basicfont.Face7x13,
	}

	for i, line := range statusLines(st, latest, have) {
		drawer.Dot = fixed.P(0, 13*(i+1))
		drawer.DrawString(line)
	}
	return img
}
