// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"
	"github.com/takama/daemon"

	"github.com/relabs-tech/orientation_relay/internal/app"
	"github.com/relabs-tech/orientation_relay/internal/config"
	"github.com/relabs-tech/orientation_relay/internal/logging"
)

const (
	name        = "orientation-relay"
	description = "relays orientation readings to a TCP client"
)

// Service has embedded daemon
type Service struct {
	daemon.Daemon
}

// Manage by daemon commands or run the relay in the foreground
func (service *Service) Manage() (string, error) {
	configPath := flag.String("config", "./relay_config.txt", "path to configuration file")
	flag.Parse()

	usage := "Usage: " + name + " [-config path] install | remove | start | stop | status"
	if flag.NArg() > 0 {
		switch flag.Arg(0) {
		case "install":
			return service.Install("-config", *configPath)
		case "remove":
			return service.Remove()
		case "start":
			return service.Start()
		case "stop":
			return service.Stop()
		case "status":
			return service.Status()
		default:
			return usage, nil
		}
	}

	if err := config.InitGlobal(*configPath); err != nil {
		return "", fmt.Errorf("failed to load config: %w", err)
	}
	cfg := config.Get()

	closer, err := logging.Setup(cfg.LogLevel, cfg.ErrorLog)
	if err != nil {
		return "", err
	}
	defer closer.Close()

	log.Info().Uint16("port", cfg.RelayPort).Str("source", cfg.Source).Msg("starting orientation relay")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := app.RunRelay(ctx, cfg); err != nil && ctx.Err() == nil {
		return "", err
	}
	return "relay stopped by signal", nil
}

func main() {
	srv, err := daemon.New(name, description, daemon.SystemDaemon)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
	service := &Service{srv}
	status, err := service.Manage()
	if err != nil {
		log.Error().Err(err).Msg(status)
		os.Exit(1)
	}
	fmt.Println(status)
}
